package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mendableai/firecrawl-go"
	"github.com/sirupsen/logrus"

	"hirevet/internal/scan"
	"hirevet/pkg/models"
)

// GetProfileActivity extracts contribution and activity data from a GitHub
// profile. When structured extraction fails it falls back to a plain page
// scrape so the verification crew still gets something to work with. The
// result always carries the username; failures are reported in the Error
// field rather than as a Go error so they can be embedded in the analysis.
func (c *Client) GetProfileActivity(ctx context.Context, username string) *models.ProfileActivity {
	profileURL := "https://github.com/" + username

	c.logger.WithField("username", username).Info("Extracting GitHub profile activity")

	activity := &models.ProfileActivity{
		Type:       "profile_activity",
		Username:   username,
		ProfileURL: profileURL,
	}

	urls := []string{profileURL, profileURL + "?tab=overview"}
	data, err := c.Extract(ctx, urls, buildProfileActivityPrompt(username))
	if err == nil {
		var parsed interface{}
		err = json.Unmarshal(data, &parsed)
		if err == nil {
			activity.ActivityData = parsed
			activity.ExtractionMethod = "firecrawl"
			return activity
		}
	}

	c.logger.WithFields(logrus.Fields{
		"username": username,
		"error":    err.Error(),
	}).Warn("Structured profile extraction failed, falling back to page scrape")

	if text, scrapeErr := c.scrapeProfileText(ctx, profileURL); scrapeErr == nil && text != "" {
		activity.ActivityData = text
		activity.ExtractionMethod = "firecrawl_scrape"
		return activity
	}

	activity.Error = fmt.Sprintf("Failed to extract profile activity for %s", username)
	return activity
}

// GetRepositories discovers the repositories listed on a user's profile
func (c *Client) GetRepositories(ctx context.Context, username string) (*models.RepositoryDiscovery, error) {
	profileURL := "https://github.com/" + username

	c.logger.WithField("username", username).Info("Extracting GitHub repositories")

	urls := []string{profileURL + "?tab=repositories", profileURL}
	data, err := c.Extract(ctx, urls, buildRepositoriesPrompt(username))
	if err != nil {
		return nil, fmt.Errorf("failed to extract repositories for %s: %w", username, err)
	}

	repositoryURLs := scan.ParseRepositoryURLs(string(data), username)

	var raw interface{}
	_ = json.Unmarshal(data, &raw)

	c.logger.WithFields(logrus.Fields{
		"username":     username,
		"repositories": len(repositoryURLs),
	}).Info("Repository discovery completed")

	return &models.RepositoryDiscovery{
		Type:             "user_profile",
		URL:              profileURL,
		Username:         username,
		RepositoryURLs:   repositoryURLs,
		ExtractionMethod: "firecrawl",
		RawData:          raw,
	}, nil
}

// scrapeProfileText fetches a profile page through the SDK and strips it
// down to readable text
func (c *Client) scrapeProfileText(ctx context.Context, url string) (string, error) {
	if c.app == nil {
		return "", fmt.Errorf("firecrawl app not initialized")
	}

	scrapeParams := &firecrawl.ScrapeParams{
		Formats: c.config.Firecrawl.Formats,
	}

	var doc *firecrawl.FirecrawlDocument
	var err error
	for attempt := 1; attempt <= c.config.Firecrawl.MaxRetries; attempt++ {
		doc, err = c.app.ScrapeURL(url, scrapeParams)
		if err == nil {
			break
		}
		c.logger.WithFields(logrus.Fields{
			"attempt": attempt,
			"url":     url,
			"error":   err.Error(),
		}).Debug("Profile scrape attempt failed")

		if attempt < c.config.Firecrawl.MaxRetries {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}
	}
	if err != nil {
		return "", fmt.Errorf("profile scrape failed after %d attempts: %w", c.config.Firecrawl.MaxRetries, err)
	}
	if doc == nil {
		return "", fmt.Errorf("no result returned from Firecrawl")
	}

	if doc.Markdown != "" {
		return doc.Markdown, nil
	}
	if doc.HTML != "" {
		return c.cleaner.ExtractProfileContent(doc.HTML)
	}
	return "", fmt.Errorf("no content found in Firecrawl response")
}
