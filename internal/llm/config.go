package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider identifies an LLM backend.
type Provider string

// Supported providers.
const (
	ProviderGemini      Provider = "gemini"
	ProviderAzureOpenAI Provider = "azure_openai"
)

// DefaultTimeout bounds each individual gateway call.
const DefaultTimeout = 30 * time.Second

// GeminiConfig holds Google Gemini settings.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// AzureConfig holds Azure OpenAI chat-completion settings.
type AzureConfig struct {
	Endpoint   string
	APIKey     string
	APIVersion string
	Deployment string
	Timeout    time.Duration
}

// Config selects the provider and carries its settings.
type Config struct {
	Provider Provider
	Gemini   *GeminiConfig
	Azure    *AzureConfig
}

// FromEnv builds the gateway configuration from environment variables.
// LLM_PROVIDER selects the backend (default gemini); credentials follow the
// provider's usual variable names.
func FromEnv() (*Config, error) {
	provider := Provider(strings.ToLower(strings.TrimSpace(os.Getenv("LLM_PROVIDER"))))
	if provider == "" {
		provider = ProviderGemini
	}

	switch provider {
	case ProviderGemini:
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
		}
		model := os.Getenv("GEMINI_MODEL")
		if model == "" {
			model = "gemini-2.5-flash"
		}
		return &Config{
			Provider: ProviderGemini,
			Gemini:   &GeminiConfig{APIKey: apiKey, Model: model},
		}, nil

	case ProviderAzureOpenAI:
		endpoint := os.Getenv("AZURE_OPENAI_ENDPOINT")
		apiKey := os.Getenv("AZURE_OPENAI_API_KEY")
		if endpoint == "" || apiKey == "" {
			return nil, fmt.Errorf("AZURE_OPENAI_ENDPOINT and AZURE_OPENAI_API_KEY environment variables are required")
		}
		apiVersion := os.Getenv("AZURE_OPENAI_API_VERSION")
		if apiVersion == "" {
			apiVersion = "2024-10-21"
		}
		deployment := os.Getenv("AZURE_OPENAI_DEPLOYMENT")
		if deployment == "" {
			deployment = "gpt-4o"
		}
		return &Config{
			Provider: ProviderAzureOpenAI,
			Azure: &AzureConfig{
				Endpoint:   endpoint,
				APIKey:     apiKey,
				APIVersion: apiVersion,
				Deployment: deployment,
				Timeout:    DefaultTimeout,
			},
		}, nil

	default:
		return nil, fmt.Errorf("invalid LLM_PROVIDER %q: valid options are gemini, azure_openai", provider)
	}
}
