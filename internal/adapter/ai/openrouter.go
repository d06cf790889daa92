package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// OpenRouterConfig holds the configuration for the OpenRouter completion API.
type OpenRouterConfig struct {
	BaseURL   string // e.g. https://openrouter.ai
	APIKey    string
	Model     string // e.g. qwen/qwen3-vl-235b-a22b-thinking
	MaxTokens int
	Timeout   time.Duration
}

// OpenRouterClient implements port.CompletionClient against the OpenRouter
// OpenAI-compatible chat completions API.
type OpenRouterClient struct {
	cfg        OpenRouterConfig
	httpClient *http.Client
}

// NewOpenRouterClient creates a new OpenRouter-backed completion client.
func NewOpenRouterClient(cfg OpenRouterConfig) *OpenRouterClient {
	return &OpenRouterClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// ModelName returns the completion model identifier.
func (o *OpenRouterClient) ModelName() string {
	return o.cfg.Model
}

// Complete sends a system instruction plus user prompt and returns the
// model's answer text.
func (o *OpenRouterClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	payload := map[string]interface{}{
		"model":      o.cfg.Model,
		"max_tokens": o.cfg.MaxTokens,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("openrouter: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.cfg.BaseURL+"/api/v1/chat/completions", bytes.NewReader(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("openrouter: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.cfg.APIKey)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("openrouter: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("openrouter API error (%d): %s", resp.StatusCode, string(body))
	}

	var decoded struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("openrouter: decode response: %w", err)
	}

	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("openrouter: empty choices")
	}

	return decoded.Choices[0].Message.Content, nil
}

// CheckKey probes /api/v1/auth/key and reports the key's standing the same
// way the status endpoint presents it.
func (o *OpenRouterClient) CheckKey(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.cfg.BaseURL+"/api/v1/auth/key", nil)
	if err != nil {
		return "", fmt.Errorf("openrouter: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+o.cfg.APIKey)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("openrouter: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "Unauthorized", nil
	}

	var decoded struct {
		Data struct {
			Usage float64  `json:"usage"`
			Limit *float64 `json:"limit"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("openrouter: decode key response: %w", err)
	}

	if decoded.Data.Limit != nil && decoded.Data.Usage > *decoded.Data.Limit {
		return "No Credits", nil
	}
	return "Healthy", nil
}
