package models

// CompletionRequest represents one prompt sent to an LLM provider.
// Zero MaxTokens and Temperature fall back to the configured defaults.
type CompletionRequest struct {
	System      string  `json:"system,omitempty"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float32 `json:"temperature,omitempty"`
}
