// Package llm provides the judge client contract and the invocation guard
// that shields every judge call with bounded retries, exponential backoff,
// and error classification.
package llm

import (
	"context"
)

// Client is the narrow contract a judge LLM endpoint must satisfy.
// Invoke sends one prompt and returns the raw response text. Implementations
// must honor context cancellation and surface provider failures as errors;
// classification and retry policy live in the invocation guard.
type Client interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// ClientFunc adapts a function to the Client interface.
// Enables lightweight fakes in tests and probe paths.
type ClientFunc func(ctx context.Context, prompt string) (string, error)

// Invoke implements the Client interface.
func (f ClientFunc) Invoke(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
