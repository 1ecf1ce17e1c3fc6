package tutor

import "context"

// Request is one text-generation call to the model provider.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Provider generates model text. Implementations must be safe for concurrent
// use.
type Provider interface {
	Generate(ctx context.Context, req Request) (string, error)
}
