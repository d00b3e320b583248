package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"hirevet/internal/config"
	"hirevet/pkg/models"
	"hirevet/pkg/utils"
)

// Fetcher turns repository URLs into RepositoryContent records with a
// bounded-concurrency fan-out. Results come back in input order, and a
// failure on one repository never aborts the others; it is embedded in that
// repository's record instead.
type Fetcher struct {
	config  *config.Config
	client  *Client
	limiter *HostLimiter
	logger  *logrus.Logger
}

func NewFetcher(cfg *config.Config) *Fetcher {
	return &Fetcher{
		config:  cfg,
		client:  NewClient(cfg),
		limiter: NewHostLimiter(cfg),
		logger:  utils.GetLogger(),
	}
}

// Stop releases the limiter's background sweeper
func (f *Fetcher) Stop() {
	f.limiter.Stop()
}

// FetchAll ingests every repository in the list, at most MaxConcurrent at a
// time, and returns one record per input URL in the same order.
func (f *Fetcher) FetchAll(ctx context.Context, repoURLs []string) []*models.RepositoryContent {
	if len(repoURLs) > f.config.Ingest.MaxRepos {
		f.logger.WithFields(logrus.Fields{
			"requested": len(repoURLs),
			"max":       f.config.Ingest.MaxRepos,
		}).Warn("Repository list capped")
		repoURLs = repoURLs[:f.config.Ingest.MaxRepos]
	}

	results := make([]*models.RepositoryContent, len(repoURLs))
	if len(repoURLs) == 0 {
		return results
	}

	var g errgroup.Group
	g.SetLimit(f.config.Ingest.MaxConcurrent)

	for i, repoURL := range repoURLs {
		g.Go(func() error {
			results[i] = f.fetchOne(ctx, repoURL)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// fetchOne ingests a single repository with the per-repo timeout applied.
// Never returns nil; failures come back as a failed record with the error
// message populated.
func (f *Fetcher) fetchOne(ctx context.Context, repoURL string) *models.RepositoryContent {
	f.logger.WithField("repo_url", repoURL).Info("Extracting repository content")

	host := hostFromURL(f.config.Ingest.BaseURL)
	if err := f.limiter.Acquire(ctx, host); err != nil {
		return failedContent(repoURL, err.Error())
	}

	fetchCtx, cancel := context.WithTimeout(ctx, f.config.Ingest.Timeout)
	defer cancel()

	digest, err := f.client.Ingest(fetchCtx, repoURL)
	if err != nil {
		f.limiter.RecordFailure(host, err)
		f.logger.WithFields(logrus.Fields{
			"repo_url": repoURL,
			"error":    err.Error(),
		}).Warn("Repository content extraction failed")

		// The HTTP client timeout can fire a hair before the context
		// deadline; both mean the same thing here.
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(fetchCtx.Err(), context.DeadlineExceeded) {
			return failedContent(repoURL, timeoutMessage(f.config.Ingest.Timeout))
		}
		return failedContent(repoURL, err.Error())
	}
	f.limiter.RecordSuccess(host)

	content, size := capContent(digest.Content, f.config.Ingest.ContentCap)

	f.logger.WithFields(logrus.Fields{
		"repo_url":     repoURL,
		"content_size": size,
	}).Info("Repository content extracted")

	return &models.RepositoryContent{
		Type:             "repository_content",
		URL:              repoURL,
		Summary:          digest.Summary,
		FileTree:         digest.Tree,
		Content:          content,
		ContentSize:      size,
		ExtractionStatus: models.ExtractionStatusSuccess,
	}
}

func failedContent(repoURL, message string) *models.RepositoryContent {
	return &models.RepositoryContent{
		Type:             "repository_content",
		URL:              repoURL,
		ExtractionStatus: models.ExtractionStatusFailed,
		Error:            message,
	}
}

// capContent truncates oversized content and annotates it with the original
// size so downstream prompts stay within budget
func capContent(content string, limit int) (string, int) {
	originalSize := len(content)
	if limit > 0 && originalSize > limit {
		content = content[:limit] +
			fmt.Sprintf("\n\n[Content truncated - original size: %d characters]", originalSize)
	}
	return content, len(content)
}

func timeoutMessage(d time.Duration) string {
	switch {
	case d >= time.Minute && d%time.Minute == 0:
		return fmt.Sprintf("Extraction timeout after %d minutes", int(d.Minutes()))
	case d >= time.Second:
		return fmt.Sprintf("Extraction timeout after %d seconds", int(d.Seconds()))
	default:
		return fmt.Sprintf("Extraction timeout after %s", d)
	}
}
