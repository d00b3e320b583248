package scan

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRepositoryURLsDirectURLs(t *testing.T) {
	data := "Check https://github.com/yash/content-hub and https://github.com/yash/devdocs today"

	urls := ParseRepositoryURLs(data, "yash")

	assert.Equal(t, []string{
		"https://github.com/yash/content-hub",
		"https://github.com/yash/devdocs",
	}, urls)
}

func TestParseRepositoryURLsJSONNameFields(t *testing.T) {
	data := `{"name": "dynamic-ui"}, {"name": "superhero-app"}`

	urls := ParseRepositoryURLs(data, "yash")

	assert.Equal(t, []string{
		"https://github.com/yash/dynamic-ui",
		"https://github.com/yash/superhero-app",
	}, urls)
}

func TestParseRepositoryURLsListingLabels(t *testing.T) {
	data := "Repository: text2story\nProject: mathemagica"

	urls := ParseRepositoryURLs(data, "yash")

	assert.Contains(t, urls, "https://github.com/yash/text2story")
	assert.Contains(t, urls, "https://github.com/yash/mathemagica")
}

func TestParseRepositoryURLsSkipsFalsePositives(t *testing.T) {
	data := `"name": "main", "name": "origin"`

	urls := ParseRepositoryURLs(data, "yash")

	assert.Empty(t, urls)
}

func TestParseRepositoryURLsSkipsSubPagesAndCloneEndpoints(t *testing.T) {
	data := `"name": "legacy.git"`

	urls := ParseRepositoryURLs(data, "yash")

	assert.Empty(t, urls)
}

func TestParseRepositoryURLsCapsListLength(t *testing.T) {
	var parts []string
	for i := 1; i <= 12; i++ {
		parts = append(parts, fmt.Sprintf(`"name": "repo-%d"`, i))
	}
	data := strings.Join(parts, ", ")

	urls := ParseRepositoryURLs(data, "yash")

	assert.Len(t, urls, 10)
	assert.Equal(t, "https://github.com/yash/repo-1", urls[0])
	assert.Equal(t, "https://github.com/yash/repo-10", urls[9])
}

func TestParseRepositoryURLsFallbackNameScan(t *testing.T) {
	data := "the projects include flow-engine and data_pipeline here"

	urls := ParseRepositoryURLs(data, "yash")

	assert.Equal(t, []string{
		"https://github.com/yash/flow-engine",
		"https://github.com/yash/data_pipeline",
	}, urls)
}

func TestParseRepositoryURLsTruncatesOversizedData(t *testing.T) {
	data := strings.Repeat("x", 2100) + " https://github.com/yash/hidden"

	urls := ParseRepositoryURLs(data, "yash")

	assert.Empty(t, urls)
}

func TestParseRepositoryURLsEmptyInputs(t *testing.T) {
	assert.Nil(t, ParseRepositoryURLs("", "yash"))
	assert.Nil(t, ParseRepositoryURLs("some data", ""))
}
