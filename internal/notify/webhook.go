package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"hirevet/internal/config"
	"hirevet/pkg/models"
	"hirevet/pkg/utils"
)

// Payload is the terminal job snapshot POSTed to the configured consumer.
// Score and trigger fields are omitted for jobs that failed before producing
// an outcome.
type Payload struct {
	JobID         string           `json:"job_id"`
	Status        models.JobStatus `json:"status"`
	MatchingScore *float64         `json:"matching_score,omitempty"`
	Triggered     *bool            `json:"triggered,omitempty"`
	Error         string           `json:"error,omitempty"`
	Timestamp     time.Time        `json:"timestamp"`
}

// Client delivers terminal job snapshots to a webhook consumer
type Client struct {
	config     *config.Config
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a webhook client from the callback configuration
func NewClient(cfg *config.Config) *Client {
	return &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Callback.Timeout},
		logger:     utils.GetLogger(),
	}
}

// Enabled reports whether notifications are configured
func (c *Client) Enabled() bool {
	return c.config.Callback.Enabled && c.config.Callback.URL != ""
}

// NotifyTerminal posts the job's terminal snapshot. Server errors and network
// failures retry with linear backoff; client errors (4xx) do not.
func (c *Client) NotifyTerminal(ctx context.Context, job *models.AnalysisJob) error {
	if !c.Enabled() {
		return nil
	}

	body, err := json.Marshal(buildPayload(job))
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	var lastErr error
	maxRetries := c.config.Callback.MaxRetries
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.WithFields(logrus.Fields{
				"attempt": attempt + 1,
				"job_id":  job.ID,
			}).Debug("Retrying webhook delivery")

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Callback.URL, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("failed to create webhook request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("webhook delivery failed: %w", err)
			}
			lastErr = fmt.Errorf("HTTP request failed: %w", err)
			continue
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			c.logger.WithFields(logrus.Fields{
				"job_id": job.ID,
				"status": job.Status,
			}).Info("Webhook delivered")
			return nil
		}

		lastErr = fmt.Errorf("webhook consumer returned status %d", resp.StatusCode)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			break
		}
	}

	return fmt.Errorf("webhook delivery failed: %w", lastErr)
}

func buildPayload(job *models.AnalysisJob) *Payload {
	p := &Payload{
		JobID:     job.ID,
		Status:    job.Status,
		Error:     job.Error,
		Timestamp: time.Now(),
	}
	if job.Results != nil {
		p.MatchingScore = &job.Results.MatchingScore
		p.Triggered = &job.Results.GitHubVerificationTriggered
	}
	return p
}
