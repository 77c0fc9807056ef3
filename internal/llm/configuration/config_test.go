package configuration

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 3, cfg.Retry.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.Retry.RetryDelay)
	assert.True(t, cfg.Retry.ExponentialBackoff)
	assert.Equal(t, 30*time.Second, cfg.Retry.Timeout)
	assert.Equal(t, 1, cfg.MinimumLLMRequirement)
	assert.Equal(t, 0.85, cfg.Judges.PrimaryAccuracy)
	assert.Equal(t, 0.88, cfg.Judges.SecondaryAccuracy)

	require.Contains(t, cfg.Providers, "gemini")
	require.Contains(t, cfg.Providers, "gpt4")
	assert.Equal(t, "GOOGLE_API_KEY", cfg.Providers["gemini"].APIKeyEnv)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Providers["gpt4"].APIKeyEnv)
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	cfg, err := Load(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Retry.MaxRetries)
	assert.Equal(t, 1, cfg.MinimumLLMRequirement)
	assert.Nil(t, cfg.HTTPClient)
	assert.Equal(t, 30*time.Second, cfg.Providers["gemini"].Timeout)
	assert.Equal(t, 30*time.Second, cfg.Providers["gpt4"].Timeout)
}

func TestLoad_MissingFileErrors(t *testing.T) {
	_, err := Load(context.Background(), "/nonexistent/accord.yaml")
	assert.Error(t, err)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accord.yaml")
	content := `
retry:
  max_retries: 5
  retry_delay: 1s
  exponential_backoff: false
minimum_llm_requirement: 2
judges:
  primary_accuracy: 0.80
  secondary_accuracy: 0.90
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Retry.MaxRetries)
	assert.Equal(t, time.Second, cfg.Retry.RetryDelay)
	assert.False(t, cfg.Retry.ExponentialBackoff)
	assert.Equal(t, 2, cfg.MinimumLLMRequirement)
	assert.Equal(t, 0.80, cfg.Judges.PrimaryAccuracy)
	assert.Equal(t, 0.90, cfg.Judges.SecondaryAccuracy)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accord.yaml")
	require.NoError(t, os.WriteFile(path, []byte("retry: ["), 0o600))

	_, err := Load(context.Background(), path)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ACCORD_MAX_RETRIES", "7")
	t.Setenv("ACCORD_RETRY_DELAY", "500ms")
	t.Setenv("ACCORD_MIN_LLMS", "2")
	t.Setenv("ACCORD_EXPONENTIAL_BACKOFF", "false")

	cfg, err := Load(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Retry.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.Retry.RetryDelay)
	assert.Equal(t, 2, cfg.MinimumLLMRequirement)
	assert.False(t, cfg.Retry.ExponentialBackoff)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accord.yaml")
	content := `
retry:
  max_retries: 5
  retry_delay: 1s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("ACCORD_MAX_RETRIES", "7")

	cfg, err := Load(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Retry.MaxRetries)
	assert.Equal(t, time.Second, cfg.Retry.RetryDelay)
}

func TestLoad_CallTimeoutPropagation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accord.yaml")
	content := `
providers:
  gemini:
    endpoint: https://gemini.example.com
    timeout: 5s
  gpt4:
    endpoint: https://openai.example.com
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("ACCORD_LLM_TIMEOUT", "10s")

	cfg, err := Load(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.Retry.Timeout)
	assert.Equal(t, 5*time.Second, cfg.Providers["gemini"].Timeout)
	assert.Equal(t, 10*time.Second, cfg.Providers["gpt4"].Timeout)
}

func TestLoad_ResolvesAPIKeysFromEnv(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "gemini-key")
	t.Setenv("OPENAI_API_KEY", "openai-key")

	cfg, err := Load(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, "gemini-key", cfg.Providers["gemini"].APIKey)
	assert.Equal(t, "openai-key", cfg.Providers["gpt4"].APIKey)
}
