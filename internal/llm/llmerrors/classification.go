package llmerrors

import (
	"context"
	"errors"
	"strings"
)

// Classify maps any error raised by a judge client call onto the taxonomy.
// Strongly-typed errors are examined first, then sentinel errors, then
// message patterns. Anything unrecognized classifies as connection, the
// retryable default.
func Classify(err error) ErrorType {
	if err == nil {
		return ErrorTypeConnection
	}

	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Type
	}

	switch {
	case errors.Is(err, ErrRateLimitExceeded):
		return ErrorTypeRateLimit
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorTypeTimeout
	}

	return classifyMessage(err.Error())
}

// IsRetryable reports whether an error warrants another invocation attempt.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return Classify(err).Retryable()
}

// classifyMessage performs case-insensitive pattern matching on an error
// message. Pattern sets are checked most-specific first so that, e.g.,
// "authentication timeout" still fails fast.
func classifyMessage(msg string) ErrorType {
	lowered := strings.ToLower(msg)

	switch {
	case containsAny(lowered, "authentication", "unauthorized", "invalid api key"):
		return ErrorTypeAuth
	case containsAny(lowered, "quota", "billing", "payment required"):
		return ErrorTypeQuota
	case containsAny(lowered, "rate limit", "rate_limit", "too many requests"):
		return ErrorTypeRateLimit
	case containsAny(lowered, "timeout", "timed out", "time out"):
		return ErrorTypeTimeout
	default:
		return ErrorTypeConnection
	}
}

func containsAny(s string, patterns ...string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
