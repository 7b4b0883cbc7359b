package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("missing file yields built-in defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.json"))
		require.NoError(t, err)
		assert.Equal(t, DefaultProviderName, cfg.DefaultProvider)
		assert.Equal(t, DefaultMaxSteps, cfg.MaxSteps)
		assert.Contains(t, cfg.Providers, "openai")
		assert.Contains(t, cfg.Providers, "anthropic")
	})

	t.Run("file values override defaults", func(t *testing.T) {
		path := writeConfig(t, `{
			"default_provider": "anthropic",
			"max_steps": 50,
			"model_providers": {
				"anthropic": {
					"model": "claude-opus-4-20250514",
					"api_key": "sk-ant-from-file",
					"max_tokens": 8192,
					"temperature": 0.3,
					"top_p": 0.9,
					"top_k": 40
				}
			}
		}`)

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "anthropic", cfg.DefaultProvider)
		assert.Equal(t, 50, cfg.MaxSteps)

		s, err := cfg.Settings()
		require.NoError(t, err)
		assert.Equal(t, "claude-opus-4-20250514", s.Model)
		assert.Equal(t, "sk-ant-from-file", s.APIKey)
		assert.Equal(t, 8192, s.MaxTokens)
		assert.Equal(t, 0.3, s.Temperature)
		assert.Equal(t, 0.9, s.TopP)
		assert.Equal(t, 40, s.TopK)
	})

	t.Run("providers absent from the file keep defaults", func(t *testing.T) {
		path := writeConfig(t, `{"default_provider": "openai"}`)

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "gpt-4o", cfg.Providers["openai"].Model)
		assert.NotEmpty(t, cfg.Providers["anthropic"].Model)
	})

	t.Run("malformed JSON is a fatal error", func(t *testing.T) {
		path := writeConfig(t, `{"default_provider": "openai",`)

		_, err := Load(path)
		require.Error(t, err)
	})

	t.Run("structurally invalid file is a fatal error", func(t *testing.T) {
		path := writeConfig(t, `{"max_steps": "twenty"}`)

		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid config file")
	})

	t.Run("negative max_steps is rejected by the schema", func(t *testing.T) {
		path := writeConfig(t, `{"max_steps": -1}`)

		_, err := Load(path)
		require.Error(t, err)
	})
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trae_config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
