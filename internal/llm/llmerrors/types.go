// Package llmerrors classifies judge LLM failures for retry decisions.
// Every error raised by a judge client call is mapped onto a small taxonomy
// that determines whether the invocation guard retries or fails fast.
package llmerrors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorType categorizes judge LLM failures for retry classification.
type ErrorType string

const (
	// ErrorTypeConnection is the default classification for anything not
	// matching a more specific pattern (retryable).
	ErrorTypeConnection ErrorType = "connection"

	// ErrorTypeTimeout indicates request timeout or deadline exceeded (retryable).
	ErrorTypeTimeout ErrorType = "timeout"

	// ErrorTypeRateLimit indicates rate limit exceeded, retry with backoff (retryable).
	ErrorTypeRateLimit ErrorType = "rate_limit"

	// ErrorTypeAuth indicates authentication failed (non-retryable, fail fast).
	ErrorTypeAuth ErrorType = "authentication"

	// ErrorTypeQuota indicates account quota or billing exhaustion
	// (non-retryable, fail fast).
	ErrorTypeQuota ErrorType = "quota_exceeded"
)

// Retryable reports whether failures of this type warrant another attempt.
// Authentication and quota failures will never succeed on retry; everything
// else is treated as transient.
func (t ErrorType) Retryable() bool {
	switch t {
	case ErrorTypeAuth, ErrorTypeQuota:
		return false
	default:
		return true
	}
}

// Common judge LLM operation errors for consistent error handling.
var (
	// ErrEndpointUnavailable indicates the judge endpoint is down or unreachable.
	ErrEndpointUnavailable = errors.New("judge endpoint unavailable")

	// ErrRateLimitExceeded indicates the provider rate limit has been exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrMaxRetriesExceeded indicates the invocation guard exhausted all attempts.
	ErrMaxRetriesExceeded = errors.New("maximum retries exceeded")

	// ErrEmptyResponse indicates the judge returned no content.
	ErrEmptyResponse = errors.New("empty response from judge")
)

// ProviderError captures a structured error response from a judge endpoint.
// Includes the HTTP status code and a pre-classified type so the guard can
// make retry decisions without re-parsing the message.
type ProviderError struct {
	Provider   string    `json:"provider"`    // Judge endpoint label
	StatusCode int       `json:"status_code"` // HTTP status code
	Message    string    `json:"message"`     // Error message
	Type       ErrorType `json:"type"`        // Classified error type
	RetryAfter int       `json:"retry_after"` // Retry-After header value in seconds
}

// Error returns the formatted provider error with status code context.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s error (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

// IsRetryable reports whether the provider error warrants a retry attempt.
func (e *ProviderError) IsRetryable() bool { return e.Type.Retryable() }

// GetRetryAfter returns the provider-specified backoff, or zero.
func (e *ProviderError) GetRetryAfter() time.Duration {
	if e.RetryAfter > 0 {
		return time.Duration(e.RetryAfter) * time.Second
	}
	return 0
}

// TypeForStatusCode maps an HTTP status code onto the taxonomy.
// Unmapped codes fall through to the connection default.
func TypeForStatusCode(code int) ErrorType {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrorTypeAuth
	case http.StatusTooManyRequests:
		return ErrorTypeRateLimit
	case http.StatusPaymentRequired:
		return ErrorTypeQuota
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return ErrorTypeTimeout
	default:
		return ErrorTypeConnection
	}
}
