package llmerrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{name: "nil error", err: nil, want: ErrorTypeConnection},
		{
			name: "provider error carries its own type",
			err: &ProviderError{
				Provider:   "gemini",
				StatusCode: http.StatusTooManyRequests,
				Message:    "slow down",
				Type:       ErrorTypeRateLimit,
			},
			want: ErrorTypeRateLimit,
		},
		{
			name: "wrapped provider error",
			err: fmt.Errorf("invoking judge: %w", &ProviderError{
				Provider:   "gpt4",
				StatusCode: http.StatusUnauthorized,
				Message:    "bad key",
				Type:       ErrorTypeAuth,
			}),
			want: ErrorTypeAuth,
		},
		{
			name: "rate limit sentinel",
			err:  fmt.Errorf("judge call: %w", ErrRateLimitExceeded),
			want: ErrorTypeRateLimit,
		},
		{
			name: "context deadline",
			err:  context.DeadlineExceeded,
			want: ErrorTypeTimeout,
		},
		{
			name: "authentication message",
			err:  errors.New("Authentication failed for request"),
			want: ErrorTypeAuth,
		},
		{name: "unauthorized message", err: errors.New("401 unauthorized"), want: ErrorTypeAuth},
		{name: "invalid api key message", err: errors.New("invalid API key provided"), want: ErrorTypeAuth},
		{name: "quota message", err: errors.New("monthly quota exhausted"), want: ErrorTypeQuota},
		{name: "billing message", err: errors.New("billing account suspended"), want: ErrorTypeQuota},
		{name: "rate limit message", err: errors.New("rate limit reached, retry later"), want: ErrorTypeRateLimit},
		{name: "too many requests message", err: errors.New("429 Too Many Requests"), want: ErrorTypeRateLimit},
		{name: "timeout message", err: errors.New("request timed out after 30s"), want: ErrorTypeTimeout},
		{
			name: "auth beats timeout when both match",
			err:  errors.New("authentication timeout"),
			want: ErrorTypeAuth,
		},
		{name: "connection default", err: errors.New("connection refused"), want: ErrorTypeConnection},
		{name: "unknown error defaults to connection", err: errors.New("something odd happened"), want: ErrorTypeConnection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestErrorType_Retryable(t *testing.T) {
	assert.True(t, ErrorTypeConnection.Retryable())
	assert.True(t, ErrorTypeTimeout.Retryable())
	assert.True(t, ErrorTypeRateLimit.Retryable())
	assert.False(t, ErrorTypeAuth.Retryable())
	assert.False(t, ErrorTypeQuota.Retryable())
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.True(t, IsRetryable(errors.New("connection reset by peer")))
	assert.True(t, IsRetryable(ErrRateLimitExceeded))
	assert.False(t, IsRetryable(errors.New("unauthorized")))
	assert.False(t, IsRetryable(errors.New("payment required")))
}

func TestTypeForStatusCode(t *testing.T) {
	tests := []struct {
		code int
		want ErrorType
	}{
		{http.StatusUnauthorized, ErrorTypeAuth},
		{http.StatusForbidden, ErrorTypeAuth},
		{http.StatusTooManyRequests, ErrorTypeRateLimit},
		{http.StatusPaymentRequired, ErrorTypeQuota},
		{http.StatusRequestTimeout, ErrorTypeTimeout},
		{http.StatusGatewayTimeout, ErrorTypeTimeout},
		{http.StatusInternalServerError, ErrorTypeConnection},
		{http.StatusBadGateway, ErrorTypeConnection},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TypeForStatusCode(tt.code), "status %d", tt.code)
	}
}

func TestProviderError(t *testing.T) {
	err := &ProviderError{
		Provider:   "gemini",
		StatusCode: 429,
		Message:    "rate limit exceeded",
		Type:       ErrorTypeRateLimit,
		RetryAfter: 5,
	}

	assert.Equal(t, "gemini error (status 429): rate limit exceeded", err.Error())
	assert.True(t, err.IsRetryable())
	assert.Equal(t, 5*time.Second, err.GetRetryAfter())

	noHint := &ProviderError{Provider: "gpt4", StatusCode: 500, Type: ErrorTypeConnection}
	assert.Zero(t, noHint.GetRetryAfter())
}
