package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractGitHubURLsExplicitURL(t *testing.T) {
	text := "See my work at https://github.com/octocat/hello-world and more."

	urls := ExtractGitHubURLs(text)

	assert.Equal(t, []string{"https://github.com/octocat/hello-world"}, urls)
}

func TestExtractGitHubURLsBareHost(t *testing.T) {
	text := "Code: github.com/octocat"

	urls := ExtractGitHubURLs(text)

	assert.Equal(t, []string{"https://github.com/octocat"}, urls)
}

func TestExtractGitHubURLsBareHostNeedsBoundary(t *testing.T) {
	// Subdomains and dotted prefixes must not count as the GitHub host
	text := "hosted on mygithub.com/octocat and docs.github.com/octocat"

	urls := ExtractGitHubURLs(text)

	assert.Empty(t, urls)
}

func TestExtractGitHubURLsIgnoresEmailAddresses(t *testing.T) {
	text := "Contact: john.doe@gmail.com"

	urls := ExtractGitHubURLs(text)

	assert.Empty(t, urls)
}

func TestExtractGitHubURLsHandleAfterIconGlyph(t *testing.T) {
	text := "GitHub §@octocat"

	urls := ExtractGitHubURLs(text)

	assert.Equal(t, []string{"https://github.com/octocat"}, urls)
}

func TestExtractGitHubURLsStandaloneHandles(t *testing.T) {
	text := "@alpha @beta"

	urls := ExtractGitHubURLs(text)

	assert.Equal(t, []string{
		"https://github.com/alpha",
		"https://github.com/beta",
	}, urls)
}

func TestExtractGitHubURLsHandleNeedsTrailingBoundary(t *testing.T) {
	// A handle glued to a domain is an email, not a handle
	text := "reach me at @example.com"

	urls := ExtractGitHubURLs(text)

	assert.Empty(t, urls)
}

func TestExtractGitHubURLsLabeledHandles(t *testing.T) {
	text := "Email: user@gmail.com but GitHub: @octocat"

	urls := ExtractGitHubURLs(text)

	assert.Equal(t, []string{"https://github.com/octocat"}, urls)
}

func TestExtractGitHubURLsUsernameLabel(t *testing.T) {
	text := "Username: @dev-guru"

	urls := ExtractGitHubURLs(text)

	assert.Equal(t, []string{"https://github.com/dev-guru"}, urls)
}

func TestExtractGitHubURLsRejectsShortAndStopwordHandles(t *testing.T) {
	text := "@ab @www @https"

	urls := ExtractGitHubURLs(text)

	assert.Empty(t, urls)
}

func TestExtractGitHubURLsFiltersEmailProviderNames(t *testing.T) {
	text := "github.com/yahoo-pipes"

	urls := ExtractGitHubURLs(text)

	assert.Empty(t, urls)
}

func TestExtractGitHubURLsDeduplicates(t *testing.T) {
	text := "https://github.com/octocat plus github.com/octocat plus @octocat "

	urls := ExtractGitHubURLs(text)

	assert.Equal(t, []string{"https://github.com/octocat"}, urls)
}
