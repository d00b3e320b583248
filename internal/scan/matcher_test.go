package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractProjectKeywordsFromPhrases(t *testing.T) {
	resume := "During my internship I built a content hub using React and Node."

	keywords := ExtractProjectKeywords(resume)

	assert.Contains(t, keywords, "content hub")
}

func TestExtractProjectKeywordsFromNameColonForm(t *testing.T) {
	resume := "Storystream: an AI platform for generating short fiction."

	keywords := ExtractProjectKeywords(resume)

	assert.Contains(t, keywords, "storystream")
}

func TestExtractProjectKeywordsIncludesKnownTerms(t *testing.T) {
	keywords := ExtractProjectKeywords("nothing project shaped here at all")

	assert.Contains(t, keywords, "dynamic-ui")
	assert.Contains(t, keywords, "text2story")
}

func TestMatchProjectsMultiWordKeyword(t *testing.T) {
	resume := "I developed a content hub using React."
	repos := []string{
		"https://github.com/u/content-hub",
		"https://github.com/u/weather-cli",
	}

	matched := MatchProjects(resume, repos)

	assert.Equal(t, []string{"https://github.com/u/content-hub"}, matched)
}

func TestMatchProjectsKnownTerm(t *testing.T) {
	repos := []string{"https://github.com/u/dynamic-ui"}

	matched := MatchProjects("a resume with no project phrasing", repos)

	assert.Equal(t, repos, matched)
}

func TestMatchProjectsNoMatches(t *testing.T) {
	repos := []string{"https://github.com/u/weather-cli"}

	matched := MatchProjects("I enjoy hiking and photography.", repos)

	assert.Empty(t, matched)
}

func TestMatchProjectsPreservesInputOrder(t *testing.T) {
	resume := "Built a text2story pipeline using Python. Created the dev-docs site with Hugo."
	repos := []string{
		"https://github.com/u/dev-docs",
		"https://github.com/u/unrelated",
		"https://github.com/u/text2story",
	}

	matched := MatchProjects(resume, repos)

	assert.Equal(t, []string{
		"https://github.com/u/dev-docs",
		"https://github.com/u/text2story",
	}, matched)
}
