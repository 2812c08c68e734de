// Package llm wraps the language-model API used for claim extraction and
// contradiction comparison.
package llm

import (
	"context"
	"time"
)

// Client is the narrow interface the analysis engine consumes. Complete
// sends one system+user prompt pair and returns the raw model output; the
// caller owns parsing and treats any non-conforming output as failure.
type Client interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Config holds LLM client configuration
type Config struct {
	// APIKey for the OpenAI-compatible endpoint
	APIKey string

	// Model name; empty selects a default
	Model string

	// BaseURL for custom endpoints
	BaseURL string

	// Timeout for API requests
	Timeout time.Duration

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Timeout:   30 * time.Second,
		MaxTokens: 1000,
	}
}
