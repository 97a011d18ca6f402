package llm

import (
	"context"
)

// LLMClient generates text from a single prompt.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Options are the generation settings shared by every provider. Zero values
// leave the provider default in place.
type Options struct {
	Model       string
	System      string
	MaxTokens   int
	Temperature float32
}
