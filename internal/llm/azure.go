package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// AzureClient implements Client for the Azure OpenAI chat-completions API.
type AzureClient struct {
	cfg    *AzureConfig
	client *http.Client
}

type azureChatRequest struct {
	Model          string               `json:"model"`
	Messages       []Message            `json:"messages"`
	Temperature    float32              `json:"temperature"`
	ResponseFormat *azureResponseFormat `json:"response_format,omitempty"`
}

type azureResponseFormat struct {
	Type string `json:"type"`
}

type azureChatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewAzureClient creates a new Azure OpenAI-backed gateway.
func NewAzureClient(cfg *AzureConfig) (*AzureClient, error) {
	if cfg == nil || cfg.Endpoint == "" || cfg.APIKey == "" {
		return nil, fmt.Errorf("azure endpoint and API key are required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &AzureClient{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}, nil
}

// Send posts the message list to the chat-completions deployment and returns
// the first choice's content.
func (c *AzureClient) Send(ctx context.Context, messages []Message, temperature float32, wantJSON bool) (string, error) {
	payload := azureChatRequest{
		Model:       c.cfg.Deployment,
		Messages:    messages,
		Temperature: temperature,
	}
	if wantJSON {
		payload.ResponseFormat = &azureResponseFormat{Type: "json_object"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%sopenai/deployments/%s/chat/completions?api-version=%s",
		strings.TrimSuffix(c.cfg.Endpoint, "/")+"/", c.cfg.Deployment, c.cfg.APIVersion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("azure openai request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("azure openai returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var chat azureChatResponse
	if err := json.Unmarshal(respBody, &chat); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return chat.Choices[0].Message.Content, nil
}

// Provider returns the provider name.
func (c *AzureClient) Provider() string {
	return string(ProviderAzureOpenAI)
}

// Close is a no-op for the HTTP-backed client.
func (c *AzureClient) Close() error {
	return nil
}
