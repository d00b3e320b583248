package crew

import (
	"regexp"
	"strconv"
)

var scorePattern = regexp.MustCompile(`(\d+(?:\.\d+)?)%`)

// ExtractMatchingScore pulls the first percentage out of a job matching
// report. Reports without a parseable score yield 0.
func ExtractMatchingScore(text string) float64 {
	m := scorePattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	score, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return score
}
