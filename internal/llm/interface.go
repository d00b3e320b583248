package llm

import (
	"context"

	"hirevet/pkg/models"
)

// LLMProvider defines the interface for LLM providers
type LLMProvider interface {
	// Complete sends a prompt and returns the model's text output
	Complete(ctx context.Context, req models.CompletionRequest) (string, error)

	// IsHealthy checks if the LLM provider is healthy and available
	IsHealthy(ctx context.Context) error

	// GetProviderName returns the name of the LLM provider
	GetProviderName() string
}
