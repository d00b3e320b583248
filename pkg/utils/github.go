package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeGitHubURL prefixes bare github.com references with https://
func NormalizeGitHubURL(urlStr string) string {
	trimmed := strings.TrimSpace(urlStr)
	if trimmed == "" {
		return trimmed
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		return "https://" + trimmed
	}
	return trimmed
}

// ExtractGitHubUsername returns the username from a profile URL.
// The last non-empty path segment is taken as the username.
func ExtractGitHubUsername(profileURL string) (string, error) {
	parsedURL, err := url.Parse(NormalizeGitHubURL(profileURL))
	if err != nil {
		return "", fmt.Errorf("invalid profile URL: %w", err)
	}

	segments := splitPathSegments(parsedURL.Path)
	if len(segments) == 0 {
		return "", fmt.Errorf("no username in profile URL: %s", profileURL)
	}

	return segments[len(segments)-1], nil
}

// SplitRepoPath extracts (owner, name) from a repository URL.
// ok is false when the path carries fewer than two segments.
func SplitRepoPath(repoURL string) (owner, name string, ok bool) {
	trimmed := strings.TrimPrefix(NormalizeGitHubURL(repoURL), "https://")
	trimmed = strings.TrimPrefix(trimmed, "http://")
	trimmed = strings.TrimPrefix(trimmed, "www.")
	trimmed = strings.TrimPrefix(trimmed, "github.com/")

	parts := splitPathSegments(trimmed)
	if len(parts) < 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// RepoNameFromURL returns the repository name segment of a URL, lowercased
func RepoNameFromURL(repoURL string) string {
	segments := splitPathSegments(repoURL)
	if len(segments) == 0 {
		return ""
	}
	return strings.ToLower(segments[len(segments)-1])
}

func splitPathSegments(path string) []string {
	var segments []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}
