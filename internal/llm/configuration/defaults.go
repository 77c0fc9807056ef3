package configuration

import (
	"time"
)

// Retry and invocation constants.
const (
	DefaultMaxRetries   = 3
	DefaultRetryDelay   = 2 * time.Second
	DefaultLLMTimeout   = 30 * time.Second
	DefaultHTTPTimeout  = 30 * time.Second
	DefaultMinimumLLMs  = 1
	DefaultMaxIdleConns = 100
	DefaultIdleTimeout  = 90 * time.Second
)

// Judge reliability calibration defaults.
const (
	DefaultPrimaryAccuracy   = 0.85
	DefaultSecondaryAccuracy = 0.88
)

// Default provider endpoints for the two judges.
const (
	DefaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models"
	DefaultGeminiModel    = "gemini-1.5-pro"
	DefaultOpenAIEndpoint = "https://api.openai.com/v1/chat/completions"
	DefaultOpenAIModel    = "gpt-4"
)

// DefaultConfig returns production-ready configuration with sensible
// defaults for both judge endpoints. Provider timeouts are left unset;
// Load fills them from Retry.Timeout so the global deadline reaches
// every provider that does not configure its own.
func DefaultConfig() *Config {
	return &Config{
		HTTPTimeout: DefaultHTTPTimeout,
		Providers: map[string]ProviderConfig{
			"gemini": {
				Endpoint:  DefaultGeminiEndpoint,
				Model:     DefaultGeminiModel,
				APIKeyEnv: "GOOGLE_API_KEY",
			},
			"gpt4": {
				Endpoint:  DefaultOpenAIEndpoint,
				Model:     DefaultOpenAIModel,
				APIKeyEnv: "OPENAI_API_KEY",
			},
		},
		Retry: RetryConfig{
			MaxRetries:         DefaultMaxRetries,
			RetryDelay:         DefaultRetryDelay,
			ExponentialBackoff: true,
			Timeout:            DefaultLLMTimeout,
		},
		MinimumLLMRequirement: DefaultMinimumLLMs,
		Judges: JudgeConfig{
			PrimaryAccuracy:   DefaultPrimaryAccuracy,
			SecondaryAccuracy: DefaultSecondaryAccuracy,
		},
	}
}
