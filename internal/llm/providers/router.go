package providers

import (
	"errors"
	"net/http"

	"github.com/ahrav/go-accord/internal/llm"
	"github.com/ahrav/go-accord/internal/llm/configuration"
)

// ErrMissingProviderConfig indicates a judge endpoint has no configuration.
var ErrMissingProviderConfig = errors.New("missing provider configuration")

// NewJudgeClients builds the primary and secondary judge clients from
// configuration. Both judges share one HTTP client: the configured one when
// present, otherwise a pooled default with the global HTTP timeout.
func NewJudgeClients(cfg *configuration.Config) (primary, secondary llm.Client, err error) {
	geminiCfg, ok := cfg.Providers[LabelGemini]
	if !ok {
		return nil, nil, ErrMissingProviderConfig
	}
	openaiCfg, ok := cfg.Providers[LabelGPT4]
	if !ok {
		return nil, nil, ErrMissingProviderConfig
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: cfg.HTTPTimeout,
			Transport: &http.Transport{
				MaxIdleConns:    configuration.DefaultMaxIdleConns,
				IdleConnTimeout: configuration.DefaultIdleTimeout,
			},
		}
	}

	return NewGeminiClient(geminiCfg, httpClient), NewOpenAIClient(openaiCfg, httpClient), nil
}
