package scan

import (
	"regexp"
	"strings"
)

// URL forms a resume can carry, with and without scheme. The bare-host form
// needs a left boundary so substrings of longer hostnames and email domains
// never match; the boundary character is captured and discarded because RE2
// has no lookbehind.
var (
	urlWithScheme = regexp.MustCompile(`(?i)https?://github\.com/[a-zA-Z0-9_-]+(?:/[a-zA-Z0-9_.-]+)?`)
	urlBareHost   = regexp.MustCompile(`(?i)(^|[^\w.])(github\.com/[a-zA-Z0-9_-]+(?:/[a-zA-Z0-9_.-]+)?)`)
)

// Handle forms that are clearly social handles rather than email addresses.
// Resume templates often render an icon font glyph as a section sign in the
// extracted text, so a handle right after one is a strong signal.
var (
	handleWithMarker     = regexp.MustCompile(`§@([a-zA-Z0-9_-]+)`)
	handleStandalone     = regexp.MustCompile(`(?:^|\s)@([a-zA-Z0-9_-]+)`)
	handleLabeledGitHub  = regexp.MustCompile(`(?i)github:\s*@?([a-zA-Z0-9_-]+)`)
	handleLabeledProfile = regexp.MustCompile(`(?i)(?:profile|username):\s*@?([a-zA-Z0-9_-]+)`)
	handleNearContext    = regexp.MustCompile(`(?i)(?:github|repository|repo)[\s\S]{0,50}@([a-zA-Z0-9_-]+)`)
)

// handleStopwords are tokens that look like handles but never are
var handleStopwords = map[string]struct{}{
	"gmail": {},
	"email": {},
	"com":   {},
	"www":   {},
	"http":  {},
	"https": {},
}

// contextStopwords is the narrower set used for handles found near a
// github/repo mention, where http fragments cannot occur
var contextStopwords = map[string]struct{}{
	"gmail": {},
	"email": {},
	"com":   {},
	"www":   {},
}

// emailDomainFragments knock out any collected URL that still carries an
// email provider name
var emailDomainFragments = []string{"gmail", "yahoo", "hotmail", "outlook", "email"}

// ExtractGitHubURLs scans resume text for GitHub profile and repository
// URLs. Explicit URLs are collected first, then handles that are clearly not
// email local parts are promoted to profile URLs. Order of first appearance
// is preserved and duplicates are dropped.
func ExtractGitHubURLs(text string) []string {
	var urls []string
	seen := make(map[string]struct{})

	add := func(url string) {
		if _, ok := seen[url]; ok {
			return
		}
		seen[url] = struct{}{}
		urls = append(urls, url)
	}

	for _, match := range urlWithScheme.FindAllString(text, -1) {
		add(match)
	}
	for _, groups := range urlBareHost.FindAllStringSubmatch(text, -1) {
		add("https://" + groups[2])
	}

	addHandle := func(username string, stopwords map[string]struct{}) {
		if len(username) <= 2 {
			return
		}
		if _, stopped := stopwords[strings.ToLower(username)]; stopped {
			return
		}
		add("https://github.com/" + username)
	}

	for _, groups := range handleWithMarker.FindAllStringSubmatch(text, -1) {
		addHandle(groups[1], handleStopwords)
	}

	// A standalone @handle must also be followed by whitespace or the end of
	// the text. RE2 has no lookahead, so the boundary is checked by index to
	// keep adjacent handles matchable.
	for _, idx := range handleStandalone.FindAllStringSubmatchIndex(text, -1) {
		if end := idx[1]; end < len(text) && !isSpaceByte(text[end]) {
			continue
		}
		addHandle(text[idx[2]:idx[3]], handleStopwords)
	}

	for _, groups := range handleLabeledGitHub.FindAllStringSubmatch(text, -1) {
		addHandle(groups[1], handleStopwords)
	}
	for _, groups := range handleLabeledProfile.FindAllStringSubmatch(text, -1) {
		addHandle(groups[1], handleStopwords)
	}
	for _, groups := range handleNearContext.FindAllStringSubmatch(text, -1) {
		addHandle(groups[1], contextStopwords)
	}

	filtered := make([]string, 0, len(urls))
	for _, url := range urls {
		lower := strings.ToLower(url)
		emailish := false
		for _, domain := range emailDomainFragments {
			if strings.Contains(lower, domain) {
				emailish = true
				break
			}
		}
		if !emailish {
			filtered = append(filtered, url)
		}
	}

	return filtered
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
