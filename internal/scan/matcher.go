package scan

import (
	"regexp"
	"strings"

	"hirevet/pkg/utils"
)

// Phrases resumes use to introduce a project, with the terminator words that
// end the project name
var projectPhrasePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:built|developed|created|designed|implemented)\s+(?:a\s+)?([a-zA-Z0-9\s\-_]+?)(?:\s+(?:using|with|in|for|that|which))`),
	regexp.MustCompile(`(?i)project[:\s]+([a-zA-Z0-9\s\-_]+?)(?:\s+[-–—]|\.|,|;|\n)`),
	regexp.MustCompile(`(?i)([a-zA-Z0-9\-_]+)\s*[:]\s*(?:an?\s+)?(?:ai|platform|tool|application|system|website|app)`),
}

var keywordCleaner = regexp.MustCompile(`[^\w\s\-]`)

// knownProjectTerms seed the keyword set with names that resumes commonly
// abbreviate past the point the phrase patterns can recover
var knownProjectTerms = []string{
	"text2story", "content-hub", "contenthub", "devdocs", "dev-docs",
	"space-exploration", "nasa", "mathemagica", "dynamic-ui", "superhero",
	"mcp", "ai-agents", "pulumi", "insta", "dm",
}

// ExtractProjectKeywords pulls candidate project names out of resume text
// and merges in the known terms. Keywords are lowercased and deduplicated in
// first-seen order.
func ExtractProjectKeywords(resumeText string) []string {
	var keywords []string
	seen := make(map[string]struct{})

	add := func(keyword string) {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			return
		}
		if _, dup := seen[keyword]; dup {
			return
		}
		seen[keyword] = struct{}{}
		keywords = append(keywords, keyword)
	}

	for _, pattern := range projectPhrasePatterns {
		for _, groups := range pattern.FindAllStringSubmatch(resumeText, -1) {
			cleaned := keywordCleaner.ReplaceAllString(strings.TrimSpace(groups[1]), "")
			if len(cleaned) > 2 && len(cleaned) < 50 {
				add(strings.ToLower(cleaned))
			}
		}
	}

	for _, term := range knownProjectTerms {
		add(term)
	}

	return keywords
}

// MatchProjects keeps only the repositories whose names line up with a
// project the resume actually describes. A repository matches when its name
// contains a keyword, is contained by one, or contains every word of a
// multi-word keyword. Input order is preserved.
func MatchProjects(resumeText string, repositoryURLs []string) []string {
	keywords := ExtractProjectKeywords(resumeText)

	var matched []string
	for _, repoURL := range repositoryURLs {
		repoName := utils.RepoNameFromURL(repoURL)
		if matchesAnyKeyword(repoName, keywords) {
			matched = append(matched, repoURL)
		}
	}
	return matched
}

func matchesAnyKeyword(repoName string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(repoName, keyword) || strings.Contains(keyword, repoName) {
			return true
		}

		parts := strings.Fields(keyword)
		if len(parts) > 1 && containsAllParts(repoName, parts) {
			return true
		}
	}
	return false
}

func containsAllParts(repoName string, parts []string) bool {
	for _, part := range parts {
		if !strings.Contains(repoName, part) {
			return false
		}
	}
	return true
}
