package config

import (
	"fmt"
)

// DefaultConfigFile is the conventional config file name looked up in the
// current directory when no --config-file flag is given.
const DefaultConfigFile = "trae_config.json"

// DefaultProviderName is used when neither the CLI nor the config file selects
// a provider.
const DefaultProviderName = "openai"

// DefaultMaxSteps bounds agent execution when no other source sets a limit.
const DefaultMaxSteps = 20

// ProviderSettings holds the per-provider model parameters. APIKey is
// write-only from the display layer's perspective: it is never rendered, only
// its presence is reported.
type ProviderSettings struct {
	Model       string  `json:"model" mapstructure:"model"`
	APIKey      string  `json:"api_key" mapstructure:"api_key"`
	MaxTokens   int     `json:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64 `json:"temperature" mapstructure:"temperature"`
	TopP        float64 `json:"top_p" mapstructure:"top_p"`
	TopK        int     `json:"top_k" mapstructure:"top_k"`
	BaseURL     string  `json:"base_url" mapstructure:"base_url"`
}

// Config is the effective configuration for a run. It is resolved once from
// CLI flags, the config file, environment variables and built-in defaults,
// and treated as immutable afterwards.
type Config struct {
	DefaultProvider string                       `json:"default_provider" mapstructure:"default_provider"`
	MaxSteps        int                          `json:"max_steps" mapstructure:"max_steps"`
	Providers       map[string]*ProviderSettings `json:"model_providers" mapstructure:"model_providers"`
}

// credentialEnvVars maps each known provider identifier to the environment
// variable consulted as the last credential source before built-in defaults.
var credentialEnvVars = map[string]string{
	"openai":     "OPENAI_API_KEY",
	"anthropic":  "ANTHROPIC_API_KEY",
	"azure":      "AZURE_API_KEY",
	"openrouter": "OPENROUTER_API_KEY",
	"doubao":     "DOUBAO_API_KEY",
	"google":     "GOOGLE_API_KEY",
}

// CredentialEnvVar returns the environment variable name holding the
// credential fallback for a provider, or "" for unknown providers.
func CredentialEnvVar(provider string) string {
	return credentialEnvVars[provider]
}

// Default returns a config populated with built-in defaults for every known
// provider.
func Default() *Config {
	return &Config{
		DefaultProvider: DefaultProviderName,
		MaxSteps:        DefaultMaxSteps,
		Providers: map[string]*ProviderSettings{
			"openai": {
				Model:       "gpt-4o",
				MaxTokens:   4096,
				Temperature: 0.5,
				TopP:        1,
			},
			"anthropic": {
				Model:       "claude-sonnet-4-20250514",
				MaxTokens:   4096,
				Temperature: 0.5,
				TopP:        1,
			},
			"azure": {
				Model:       "gpt-4o",
				MaxTokens:   4096,
				Temperature: 0.5,
				TopP:        1,
			},
			"openrouter": {
				Model:       "openai/gpt-4o",
				MaxTokens:   4096,
				Temperature: 0.5,
				TopP:        1,
			},
			"doubao": {
				Model:       "doubao-seed-1-6",
				MaxTokens:   4096,
				Temperature: 0.5,
				TopP:        1,
			},
			"google": {
				Model:       "gemini-2.5-pro",
				MaxTokens:   4096,
				Temperature: 0.5,
				TopP:        1,
			},
		},
	}
}

// Settings returns the settings of the currently selected provider.
func (c *Config) Settings() (*ProviderSettings, error) {
	s, ok := c.Providers[c.DefaultProvider]
	if !ok {
		return nil, fmt.Errorf("provider %q has no settings entry", c.DefaultProvider)
	}
	return s, nil
}

// Validate checks the effective-configuration invariants: the default
// provider must key into the provider map and max_steps must be positive.
func (c *Config) Validate() error {
	if c.DefaultProvider == "" {
		return fmt.Errorf("default provider is not set")
	}
	if _, ok := c.Providers[c.DefaultProvider]; !ok {
		return fmt.Errorf("provider %q has no settings entry", c.DefaultProvider)
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("max_steps must be positive, got %d", c.MaxSteps)
	}
	return nil
}
