// Package configuration holds client and resilience settings for the
// dual-judge evaluation pipeline. Defaults are production-ready; env
// variables and an optional YAML file override them.
package configuration

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds configuration for the judge LLM clients and the
// resilience manager. Env tags carry the overwrite option so variables
// take precedence over values already set by defaults or YAML; defaults
// live in DefaultConfig, not in the tags.
type Config struct {
	// HTTP client configuration.
	HTTPTimeout time.Duration `yaml:"http_timeout" env:"ACCORD_HTTP_TIMEOUT,overwrite"`
	HTTPClient  *http.Client  `yaml:"-" env:",noinit"`

	// Provider configurations keyed by judge label ("gemini", "gpt4").
	Providers map[string]ProviderConfig `yaml:"providers"`

	// Retry configuration for the invocation guard.
	Retry RetryConfig `yaml:"retry"`

	// MinimumLLMRequirement is the number of live judge endpoints a batch
	// needs before it starts. With the default of 1, a batch proceeds in
	// degraded single-judge mode when one endpoint is down.
	MinimumLLMRequirement int `yaml:"minimum_llm_requirement" env:"ACCORD_MIN_LLMS,overwrite"`

	// Judges holds per-judge reliability calibration.
	Judges JudgeConfig `yaml:"judges"`
}

// ProviderConfig holds judge-endpoint settings and authentication.
type ProviderConfig struct {
	Endpoint  string        `yaml:"endpoint"`
	Model     string        `yaml:"model"`
	APIKey    string        `yaml:"-"` // Sensitive, not serialized
	APIKeyEnv string        `yaml:"api_key_env"`
	Timeout   time.Duration `yaml:"timeout"`
}

// RetryConfig controls the invocation guard's retry behavior.
type RetryConfig struct {
	// MaxRetries bounds attempts per invocation.
	MaxRetries int `yaml:"max_retries" env:"ACCORD_MAX_RETRIES,overwrite"`

	// RetryDelay is the base delay between attempts.
	RetryDelay time.Duration `yaml:"retry_delay" env:"ACCORD_RETRY_DELAY,overwrite"`

	// ExponentialBackoff doubles the delay each attempt when true;
	// otherwise a flat RetryDelay is used.
	ExponentialBackoff bool `yaml:"exponential_backoff" env:"ACCORD_EXPONENTIAL_BACKOFF,overwrite"`

	// Timeout is the per-call deadline applied to providers that do not
	// set their own; the guard itself imposes no additional deadline.
	Timeout time.Duration `yaml:"timeout" env:"ACCORD_LLM_TIMEOUT,overwrite"`
}

// JudgeConfig holds the fixed per-judge reliability weights consumed by the
// weighted-average resolution strategy.
type JudgeConfig struct {
	PrimaryAccuracy   float64 `yaml:"primary_accuracy" env:"ACCORD_PRIMARY_ACCURACY,overwrite"`
	SecondaryAccuracy float64 `yaml:"secondary_accuracy" env:"ACCORD_SECONDARY_ACCURACY,overwrite"`
}

// Load builds a Config from defaults, then an optional YAML file, then
// environment overrides, in increasing precedence.
func Load(ctx context.Context, path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := envconfig.Process(ctx, cfg); err != nil {
		return nil, fmt.Errorf("processing env config: %w", err)
	}

	cfg.applyCallTimeouts()
	cfg.resolveAPIKeys()
	return cfg, nil
}

// applyCallTimeouts fills per-provider deadlines from the global LLM
// timeout. Providers with an explicit timeout keep it.
func (c *Config) applyCallTimeouts() {
	for label, pc := range c.Providers {
		if pc.Timeout == 0 {
			pc.Timeout = c.Retry.Timeout
			c.Providers[label] = pc
		}
	}
}

// resolveAPIKeys fills provider API keys from their configured env vars.
func (c *Config) resolveAPIKeys() {
	for label, pc := range c.Providers {
		if pc.APIKey == "" && pc.APIKeyEnv != "" {
			pc.APIKey = os.Getenv(pc.APIKeyEnv)
			c.Providers[label] = pc
		}
	}
}
