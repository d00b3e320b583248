package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/mendableai/firecrawl-go"
	"github.com/sirupsen/logrus"

	"hirevet/internal/config"
	"hirevet/internal/llm/processors"
	"hirevet/pkg/utils"
)

// Client talks to the Firecrawl extract API for GitHub profile and
// repository discovery. Structured extraction goes through the raw
// /extract endpoint (the Go SDK does not expose it); plain page scrapes
// fall back to the SDK.
type Client struct {
	config  *config.Config
	app     *firecrawl.FirecrawlApp
	cleaner *processors.HTMLCleaner
	logger  *logrus.Logger
}

// NewClient creates a Firecrawl extract client. A missing API key is not
// fatal here so the service can still start and report the gap through
// the health endpoint; individual calls fail instead.
func NewClient(cfg *config.Config) *Client {
	logger := utils.GetLogger()

	var app *firecrawl.FirecrawlApp
	if cfg.Firecrawl.APIKey != "" {
		var err error
		app, err = firecrawl.NewFirecrawlApp(cfg.Firecrawl.APIKey, cfg.Firecrawl.APIURL)
		if err != nil {
			logger.WithError(err).Warn("Failed to initialize Firecrawl app, scrape fallback disabled")
			app = nil
		}
	} else {
		logger.Warn("FIRECRAWL_API_KEY not configured, GitHub extraction will fail")
	}

	return &Client{
		config:  cfg,
		app:     app,
		cleaner: processors.NewHTMLCleaner(),
		logger:  logger,
	}
}

// IsConfigured reports whether the client has credentials to call the API
func (c *Client) IsConfigured() bool {
	return c.config.Firecrawl.APIKey != ""
}

type extractSubmitRequest struct {
	URLs            []string `json:"urls"`
	Prompt          string   `json:"prompt"`
	EnableWebSearch bool     `json:"enableWebSearch"`
}

type extractSubmitResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Error   string `json:"error"`
}

type extractStatusResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// Extract submits an extraction job for the given URLs and polls until the
// result is ready. The returned payload is whatever JSON the extraction
// produced for the prompt.
func (c *Client) Extract(ctx context.Context, urls []string, prompt string) (json.RawMessage, error) {
	if c.config.Firecrawl.APIKey == "" {
		return nil, utils.NewMissingCredentialError("FIRECRAWL_API_KEY is not configured")
	}

	extractionID, err := c.submitExtraction(ctx, urls, prompt)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"extraction_id": extractionID,
		"urls":          len(urls),
	}).Debug("Extraction job accepted, polling for result")

	return c.pollExtraction(ctx, extractionID)
}

func (c *Client) submitExtraction(ctx context.Context, urls []string, prompt string) (string, error) {
	payload := extractSubmitRequest{
		URLs:            urls,
		Prompt:          prompt,
		EnableWebSearch: false,
	}
	bodyBytes, _ := json.Marshal(payload)

	endpoint := fmt.Sprintf("%s/%s/extract",
		strings.TrimRight(c.config.Firecrawl.APIURL, "/"), c.config.Firecrawl.Version)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create extract request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.Firecrawl.APIKey)

	httpClient := &http.Client{Timeout: c.config.Firecrawl.SubmitTimeout}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", utils.NewRemoteServiceError(fmt.Sprintf("extract request failed: %v", err))
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		c.logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"endpoint":    endpoint,
			"body":        truncateForLog(string(respBody), 500),
		}).Warn("Extraction request rejected")
		return "", utils.NewRemoteServiceError(
			fmt.Sprintf("extraction request failed: %d - %s", resp.StatusCode, truncateForLog(string(respBody), 200)))
	}

	var submitResp extractSubmitResponse
	if err := json.Unmarshal(respBody, &submitResp); err != nil {
		return "", utils.NewRemoteServiceError(fmt.Sprintf("failed to parse extract response: %v", err))
	}
	if !submitResp.Success {
		msg := submitResp.Error
		if msg == "" {
			msg = "Unknown error"
		}
		return "", utils.NewRemoteServiceError("extraction failed: " + msg)
	}
	if submitResp.ID == "" {
		return "", utils.NewRemoteServiceError("no extraction ID received")
	}

	return submitResp.ID, nil
}

// pollExtraction polls the extraction status endpoint until data arrives.
// Transport timeouts retry on the next attempt; API errors and malformed
// responses fail immediately.
func (c *Client) pollExtraction(ctx context.Context, extractionID string) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/%s/extract/%s",
		strings.TrimRight(c.config.Firecrawl.APIURL, "/"), c.config.Firecrawl.Version, extractionID)

	maxAttempts := c.config.Firecrawl.MaxPollAttempts
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		status, err := c.fetchExtractionStatus(ctx, endpoint)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				c.logger.WithFields(logrus.Fields{
					"extraction_id": extractionID,
					"attempt":       attempt,
				}).Warn("Polling timeout, retrying")
				continue
			}
			return nil, utils.NewRemoteServiceError(fmt.Sprintf("extraction polling failed: %v", err))
		}

		switch {
		case status.Success && !isEmptyData(status.Data):
			c.logger.WithFields(logrus.Fields{
				"extraction_id": extractionID,
				"attempts":      attempt,
				"data_size":     len(status.Data),
			}).Debug("Extraction completed")
			return status.Data, nil
		case status.Success:
			// Accepted but still processing
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.config.Firecrawl.PollInterval):
			}
		default:
			msg := status.Error
			if msg == "" {
				msg = "Unknown error"
			}
			return nil, utils.NewRemoteServiceError("extraction failed: " + msg)
		}
	}

	return nil, utils.NewExtractionTimeoutError(
		fmt.Sprintf("extraction timed out after %d attempts", maxAttempts))
}

func (c *Client) fetchExtractionStatus(ctx context.Context, endpoint string) (*extractStatusResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create poll request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.Firecrawl.APIKey)

	httpClient := &http.Client{Timeout: c.config.Firecrawl.PollTimeout}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var status extractStatusResponse
	if err := json.Unmarshal(respBody, &status); err != nil {
		return nil, fmt.Errorf("failed to parse poll response: %w", err)
	}
	return &status, nil
}

// isEmptyData treats null, empty containers and empty strings as "no data
// yet" so an extraction that reports success without a payload keeps polling.
func isEmptyData(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	switch trimmed {
	case "", "null", "{}", "[]", `""`, "0", "false":
		return true
	}
	return false
}

// truncateForLog safely truncates long payloads for logging
func truncateForLog(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
