package scan

import (
	"fmt"
	"regexp"
	"strings"
)

// parseDataCap bounds how much extracted profile data is scanned for
// repository names. Model responses past this point are boilerplate.
const parseDataCap = 2000

// repoListLimit caps how many repositories one profile contributes
const repoListLimit = 10

// falsePositiveNames are tokens the patterns match that are never real
// repository names, mostly git vocabulary and listing field labels.
var falsePositiveNames = map[string]struct{}{
	"name": {}, "type": {}, "url": {}, "description": {}, "language": {},
	"clone": {}, "git": {}, "main": {}, "master": {}, "branch": {},
	"commit": {}, "push": {}, "pull": {}, "origin": {}, "repository": {},
	"github": {}, "repo": {}, "file": {}, "src": {}, "public": {},
	"private": {}, "fork": {}, "original": {}, "homepage": {}, "website": {},
}

// excludedURLFragments are repository sub-pages and clone endpoints that
// must not be treated as repositories themselves
var excludedURLFragments = []string{
	".git", "/issues", "/pulls", "/wiki", "/releases",
	"/tree", "/blob", "/settings", "/actions",
}

var fallbackNamePatterns = []*regexp.Regexp{
	// Multi-word repo names joined with dashes
	regexp.MustCompile(`(?i)([a-zA-Z0-9_-]+(?:-[a-zA-Z0-9_-]+)+)`),
	// Reasonable single-token repo names
	regexp.MustCompile(`(?i)([a-zA-Z][a-zA-Z0-9_-]{3,20})`),
}

// ParseRepositoryURLs pulls repository URLs for username out of extracted
// profile data. The data is free-form model output, so several shapes are
// tried: direct URLs, JSON name fields, listing labels and bare path
// fragments, with a loose name scan as a last resort.
func ParseRepositoryURLs(data string, username string) []string {
	if data == "" || username == "" {
		return nil
	}
	if len(data) > parseDataCap {
		data = data[:parseDataCap]
	}

	quoted := regexp.QuoteMeta(username)
	repoPatterns := []*regexp.Regexp{
		// Direct GitHub URLs
		regexp.MustCompile(fmt.Sprintf(`(?i)https://github\.com/%s/([a-zA-Z0-9_.-]+)`, quoted)),
		regexp.MustCompile(fmt.Sprintf(`(?i)github\.com/%s/([a-zA-Z0-9_.-]+)`, quoted)),
		// Repository names from API responses
		regexp.MustCompile(`(?i)"name":\s*"([a-zA-Z0-9_.-]+)"`),
		regexp.MustCompile(`(?i)'name':\s*'([a-zA-Z0-9_.-]+)'`),
		// From repository listings
		regexp.MustCompile(`(?i)Repository:\s*([a-zA-Z0-9_.-]+)`),
		regexp.MustCompile(`(?i)repo.*?:\s*([a-zA-Z0-9_.-]+)`),
		// From file paths
		regexp.MustCompile(fmt.Sprintf(`(?i)%s/([a-zA-Z0-9_.-]+)/`, quoted)),
		// From project descriptions
		regexp.MustCompile(`(?i)Project:\s*([a-zA-Z0-9_.-]+)`),
	}

	var urls []string
	seen := make(map[string]struct{})

	for _, pattern := range repoPatterns {
		for _, groups := range pattern.FindAllStringSubmatch(data, -1) {
			repoName := strings.TrimSpace(groups[1])
			if len(repoName) < 2 {
				continue
			}
			if _, bad := falsePositiveNames[strings.ToLower(repoName)]; bad {
				continue
			}

			url := buildRepositoryURL(repoName, username)
			if _, dup := seen[url]; dup {
				continue
			}
			if hasExcludedFragment(url) {
				continue
			}

			seen[url] = struct{}{}
			urls = append(urls, url)
		}
	}

	// Loose scan over the raw text when nothing URL-shaped was found
	if len(urls) == 0 {
		for _, pattern := range fallbackNamePatterns {
			for _, groups := range pattern.FindAllStringSubmatch(data, -1) {
				repoName := strings.TrimSpace(groups[1])
				lower := strings.ToLower(repoName)

				if len(repoName) <= 2 || len(repoName) >= 50 {
					continue
				}
				if _, bad := falsePositiveNames[lower]; bad {
					continue
				}
				if hasURLFragmentPrefix(lower) {
					continue
				}
				if !strings.Contains(repoName, "-") && !strings.Contains(repoName, "_") {
					continue
				}

				url := "https://github.com/" + username + "/" + repoName
				if _, dup := seen[url]; dup {
					continue
				}
				seen[url] = struct{}{}
				urls = append(urls, url)
			}
		}
	}

	if len(urls) > repoListLimit {
		urls = urls[:repoListLimit]
	}
	return urls
}

func buildRepositoryURL(repoName, username string) string {
	switch {
	case strings.HasPrefix(repoName, "https://github.com/"):
		return repoName
	case strings.HasPrefix(repoName, "github.com/"):
		return "https://" + repoName
	case strings.Contains(repoName, "/") && strings.Contains(repoName, username+"/"):
		return "https://github.com/" + repoName
	default:
		return "https://github.com/" + username + "/" + repoName
	}
}

func hasExcludedFragment(url string) bool {
	lower := strings.ToLower(url)
	for _, fragment := range excludedURLFragments {
		if strings.Contains(lower, fragment) {
			return true
		}
	}
	return false
}

func hasURLFragmentPrefix(lower string) bool {
	for _, prefix := range []string{"http", "www", "git", "com"} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
