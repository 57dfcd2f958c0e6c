// Package llm provides the chat-completion gateway used by the search funnel.
// The provider is selected once at construction; call sites only see Client.
package llm

import (
	"context"
	"fmt"
)

// Message roles understood by every provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry of an ordered chat-completion message list.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client is the gateway capability used by the analyzer and the ranker.
// A single attempt is made per call; failures surface to the caller.
type Client interface {
	// Send submits the message list and returns the assistant's raw text.
	// When wantJSON is set the provider is asked for a structured JSON reply,
	// but the returned text is not yet parsed or fence-stripped.
	Send(ctx context.Context, messages []Message, temperature float32, wantJSON bool) (string, error)
	// Provider returns the configured provider name for logging.
	Provider() string
	// Close releases any resources held by the client.
	Close() error
}

// NewClient creates a gateway for the configured provider.
func NewClient(ctx context.Context, cfg *Config) (Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("llm config is required")
	}

	switch cfg.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg.Gemini)
	case ProviderAzureOpenAI:
		return NewAzureClient(cfg.Azure)
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}
