package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/ahrav/go-accord/internal/llm/configuration"
	"github.com/ahrav/go-accord/internal/llm/llmerrors"
)

// InvocationResult is the structured outcome of one guarded judge call.
// The guard never lets a provider error escape; failures are converted into
// a result with Success=false and a populated classification.
type InvocationResult struct {
	// Success indicates the judge returned content.
	Success bool `json:"success"`

	// Content is the raw response text on success.
	Content string `json:"content,omitempty"`

	// LLMType labels which judge endpoint was invoked.
	LLMType string `json:"llm_type"`

	// Attempt is the 1-based attempt count at which the call succeeded,
	// or at which the guard gave up.
	Attempt int `json:"attempt"`

	// Duration is the wall time spent across all attempts.
	Duration time.Duration `json:"duration"`

	// Error carries the final failure message when Success is false.
	Error string `json:"error,omitempty"`

	// ErrorType is the taxonomy classification of the final failure.
	ErrorType llmerrors.ErrorType `json:"error_type,omitempty"`

	// Retryable records whether the final failure was of a retryable class.
	// False means the guard failed fast without consuming remaining attempts.
	Retryable bool `json:"retryable"`
}

// Guard wraps single judge calls with bounded retries and backoff.
// Sleeps between attempts are blocking but context-aware: cancellation
// during backoff aborts the invocation.
type Guard struct {
	config configuration.RetryConfig
	logger *slog.Logger
}

// NewGuard creates an invocation guard with the provided retry configuration.
// Non-positive MaxRetries is normalized to a single attempt.
func NewGuard(cfg configuration.RetryConfig) *Guard {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 1
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Millisecond // minimum to prevent hot looping
	}
	return &Guard{
		config: cfg,
		logger: slog.Default().With("component", "invocation_guard"),
	}
}

// Invoke calls the judge with up to MaxRetries attempts.
// Authentication and quota failures are terminal: the guard fails
// immediately on their first occurrence, skipping remaining attempts.
// All other classifications consume a retry attempt.
func (g *Guard) Invoke(ctx context.Context, client Client, prompt, llmLabel string) InvocationResult {
	start := time.Now()

	var lastErr error
	var lastType llmerrors.ErrorType

	for attempt := 1; attempt <= g.config.MaxRetries; attempt++ {
		content, err := client.Invoke(ctx, prompt)
		if err == nil {
			if attempt > 1 {
				g.logger.Info("judge call succeeded after retry",
					"llm", llmLabel, "attempt", attempt)
			}
			return InvocationResult{
				Success:  true,
				Content:  content,
				LLMType:  llmLabel,
				Attempt:  attempt,
				Duration: time.Since(start),
			}
		}

		lastErr = err
		lastType = llmerrors.Classify(err)

		if !lastType.Retryable() {
			g.logger.Warn("non-retryable judge failure, failing fast",
				"llm", llmLabel, "attempt", attempt, "error_type", lastType, "error", err)
			return g.failure(llmLabel, attempt, start, lastErr, lastType)
		}

		if attempt == g.config.MaxRetries {
			break
		}

		backoff := g.backoff(attempt)
		g.logger.Debug("retrying judge call after backoff",
			"llm", llmLabel, "attempt", attempt, "backoff", backoff, "error", err)

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			ctxType := llmerrors.Classify(ctx.Err())
			return g.failure(llmLabel, attempt, start, ctx.Err(), ctxType)
		}
	}

	g.logger.Warn("judge call failed after all attempts",
		"llm", llmLabel, "attempts", g.config.MaxRetries, "error", lastErr)
	return g.failure(llmLabel, g.config.MaxRetries, start, lastErr, lastType)
}

// backoff computes the sleep before the next attempt: RetryDelay doubled
// per completed attempt when exponential backoff is enabled, flat otherwise.
// Provider retry-after guidance is not consulted here; the classification
// layer already folds it into the error type.
func (g *Guard) backoff(attempt int) time.Duration {
	if !g.config.ExponentialBackoff {
		return g.config.RetryDelay
	}
	d := g.config.RetryDelay
	for i := 1; i < attempt; i++ {
		d *= 2
	}
	return d
}

func (g *Guard) failure(llmLabel string, attempt int, start time.Time, err error, errType llmerrors.ErrorType) InvocationResult {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return InvocationResult{
		Success:   false,
		LLMType:   llmLabel,
		Attempt:   attempt,
		Duration:  time.Since(start),
		Error:     msg,
		ErrorType: errType,
		Retryable: errType.Retryable(),
	}
}
