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

// OpenAIClient calls OpenAI's chat/completions API with bearer auth.
type OpenAIClient struct {
	config configuration.ProviderConfig
	client *http.Client
}

// NewOpenAIClient creates the secondary judge client.
// If no endpoint is configured, it defaults to OpenAI's production API.
func NewOpenAIClient(cfg configuration.ProviderConfig, httpClient *http.Client) *OpenAIClient {
	if cfg.Endpoint == "" {
		cfg.Endpoint = configuration.DefaultOpenAIEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = configuration.DefaultOpenAIModel
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &OpenAIClient{config: cfg, client: httpClient}
}

// Invoke sends one prompt as a single user message and returns the first
// choice's content.
func (c *OpenAIClient) Invoke(ctx context.Context, prompt string) (string, error) {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	body := map[string]any{
		"model": c.config.Model,
		"messages": []map[string]any{
			{"role": "user", "content": prompt},
		},
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.config.APIKey))

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return "", parseOpenAIError(httpResp.StatusCode, respBody)
	}

	var resp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", llmerrors.ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

// parseOpenAIError converts OpenAI error responses to ProviderError.
func parseOpenAIError(statusCode int, body []byte) error {
	var errResp struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
			Code    string `json:"code"`
		} `json:"error"`
	}

	message := "request failed"
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
	}

	return &llmerrors.ProviderError{
		Provider:   LabelGPT4,
		StatusCode: statusCode,
		Message:    message,
		Type:       llmerrors.TypeForStatusCode(statusCode),
	}
}
