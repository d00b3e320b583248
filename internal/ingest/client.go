package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"hirevet/internal/config"
	"hirevet/pkg/utils"
)

// Digest is one repository's ingested artifacts: a prose summary, the file
// tree and the flattened source text.
type Digest struct {
	Summary string
	Tree    string
	Content string
}

type ingestRequest struct {
	InputText   string `json:"input_text"`
	MaxFileSize int64  `json:"max_file_size,omitempty"`
}

type ingestResponse struct {
	Summary string `json:"summary"`
	Tree    string `json:"tree"`
	Content string `json:"content"`
	Error   string `json:"error,omitempty"`
}

// Client calls a hosted gitingest-style service that clones a repository and
// returns its digest
type Client struct {
	config     *config.Config
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Ingest.Timeout},
		logger:     utils.GetLogger(),
	}
}

// Ingest fetches the digest for a repository URL. Server errors and network
// failures retry with linear backoff; client errors (4xx) and service-reported
// errors do not.
func (c *Client) Ingest(ctx context.Context, repoURL string) (*Digest, error) {
	payload := ingestRequest{
		InputText:   repoURL,
		MaxFileSize: c.config.Ingest.MaxFileSize,
	}
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ingest request: %w", err)
	}

	endpoint := strings.TrimRight(c.config.Ingest.BaseURL, "/") + "/api/ingest"

	var lastErr error
	maxRetries := c.config.Ingest.MaxRetries
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.WithFields(logrus.Fields{
				"attempt":  attempt + 1,
				"repo_url": repoURL,
			}).Debug("Retrying ingest request")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonPayload))
		if err != nil {
			return nil, fmt.Errorf("failed to create ingest request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.config.Ingest.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.config.Ingest.APIKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("ingest request failed: %w", err)
			}
			lastErr = fmt.Errorf("HTTP request failed: %w", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read ingest response: %w", err)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("ingest service returned status %d: %s",
				resp.StatusCode, truncateForLog(string(body), 200))
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				break
			}
			continue
		}

		var ir ingestResponse
		if err := json.Unmarshal(body, &ir); err != nil {
			lastErr = fmt.Errorf("failed to parse ingest response: %w", err)
			continue
		}
		if ir.Error != "" {
			lastErr = fmt.Errorf("ingest service error: %s", ir.Error)
			break
		}

		c.logger.WithFields(logrus.Fields{
			"repo_url":     repoURL,
			"content_size": len(ir.Content),
			"tree_size":    len(ir.Tree),
		}).Debug("Repository ingested")

		return &Digest{Summary: ir.Summary, Tree: ir.Tree, Content: ir.Content}, nil
	}

	return nil, fmt.Errorf("ingest request failed after %d attempts: %w", maxRetries+1, lastErr)
}

// truncateForLog safely truncates long payloads for logging and error strings
func truncateForLog(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
