package agent

import (
	"context"
	"fmt"

	"trae/internal/config"
)

// LLMProvider is the interface to one LLM backend.
type LLMProvider interface {
	// Call makes a single model API call.
	Call(ctx context.Context, request LLMRequest) (*LLMResponse, error)

	// Name returns the provider identifier.
	Name() string
}

// Default endpoints for the OpenAI-compatible providers. Azure has no
// universal endpoint and requires base_url in the provider settings.
const (
	openrouterBaseURL = "https://openrouter.ai/api/v1"
	doubaoBaseURL     = "https://ark.cn-beijing.volces.com/api/v3"
)

// NewProvider creates the LLM provider for a provider identifier and its
// settings.
func NewProvider(name string, settings *config.ProviderSettings) (LLMProvider, error) {
	switch name {
	case "openai":
		return newOpenAIProvider(name, settings, settings.BaseURL), nil
	case "openrouter":
		baseURL := settings.BaseURL
		if baseURL == "" {
			baseURL = openrouterBaseURL
		}
		return newOpenAIProvider(name, settings, baseURL), nil
	case "doubao":
		baseURL := settings.BaseURL
		if baseURL == "" {
			baseURL = doubaoBaseURL
		}
		return newOpenAIProvider(name, settings, baseURL), nil
	case "azure":
		if settings.BaseURL == "" {
			return nil, fmt.Errorf("provider azure requires base_url in its settings")
		}
		return newOpenAIProvider(name, settings, settings.BaseURL), nil
	case "anthropic":
		return newAnthropicProvider(settings), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
}
