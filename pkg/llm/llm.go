package llm

import (
	"context"
	"time"
)

type Client interface {
	Complete(ctx context.Context, request CompletionRequest) (*CompletionResponse, error)
}

type CompletionRequest struct {
	Prompt        string        `json:"prompt" yaml:"prompt"`
	Model         ModelConfig   `json:"model" yaml:"model"`
	MaxRetries    int           `json:"maxRetries" yaml:"maxRetries"`
	RetryCooldown time.Duration `json:"retryCooldown" yaml:"retryCooldown"`
	// JSONOutput asks the model for a JSON object and parses it into Parsed.
	JSONOutput bool `json:"jsonOutput" yaml:"jsonOutput"`
}

type CompletionResponse struct {
	Content string         `json:"content" yaml:"content"`
	Parsed  map[string]any `json:"parsed,omitempty" yaml:"parsed,omitempty"`
	Usage   TokenUsage     `json:"tokenUsage" yaml:"tokenUsage"`
}

type TokenUsage struct {
	PromptTokens     int     `json:"promptTokens" yaml:"promptTokens"`
	CompletionTokens int     `json:"completionTokens" yaml:"completionTokens"`
	TotalTokens      int     `json:"totalTokens" yaml:"totalTokens"`
	CostUSD          float64 `json:"costUsd" yaml:"costUsd"`
}
