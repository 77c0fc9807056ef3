// Package providers implements the judge Client contract over the two
// concrete LLM endpoints: Google Gemini (primary) and OpenAI GPT-4
// (secondary). Adapters own request construction and response parsing;
// retry policy lives in the invocation guard.
package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ahrav/go-accord/internal/llm/configuration"
	"github.com/ahrav/go-accord/internal/llm/llmerrors"
)

// Judge endpoint labels.
const (
	LabelGemini = "gemini"
	LabelGPT4   = "gpt4"
)

// GeminiClient calls Google's generateContent API with API key auth.
type GeminiClient struct {
	config configuration.ProviderConfig
	client *http.Client
}

// NewGeminiClient creates the primary judge client.
// If no endpoint is configured, it defaults to Google's generative language API.
func NewGeminiClient(cfg configuration.ProviderConfig, httpClient *http.Client) *GeminiClient {
	if cfg.Endpoint == "" {
		cfg.Endpoint = configuration.DefaultGeminiEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = configuration.DefaultGeminiModel
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &GeminiClient{config: cfg, client: httpClient}
}

// Invoke sends one prompt to Gemini and returns the first candidate's text.
func (c *GeminiClient) Invoke(ctx context.Context, prompt string) (string, error) {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	endpoint := fmt.Sprintf("%s/%s:generateContent?key=%s",
		c.config.Endpoint, c.config.Model, c.config.APIKey)

	body := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]any{{"text": prompt}}},
		},
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return "", parseGeminiError(httpResp.StatusCode, respBody)
	}

	var resp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", llmerrors.ErrEmptyResponse
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

// parseGeminiError converts Google error responses to ProviderError.
func parseGeminiError(statusCode int, body []byte) error {
	var errResp struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}

	message := "request failed"
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
	}

	return &llmerrors.ProviderError{
		Provider:   LabelGemini,
		StatusCode: statusCode,
		Message:    message,
		Type:       llmerrors.TypeForStatusCode(statusCode),
	}
}
