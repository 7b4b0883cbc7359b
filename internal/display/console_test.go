package display

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trae/internal/config"
)

func TestEffectiveConfig(t *testing.T) {
	t.Run("never renders credential values", func(t *testing.T) {
		cfg := config.Default()
		cfg.Providers["openai"].APIKey = "sk-super-secret-value-123456"
		cfg.Providers["anthropic"].APIKey = ""

		var buf bytes.Buffer
		New(&buf).EffectiveConfig(cfg)
		out := buf.String()

		assert.NotContains(t, out, "sk-super-secret-value-123456")
		assert.Contains(t, out, "Set")
		assert.Contains(t, out, "Not set")
	})

	t.Run("renders general settings and every provider", func(t *testing.T) {
		cfg := config.Default()

		var buf bytes.Buffer
		New(&buf).EffectiveConfig(cfg)
		out := buf.String()

		assert.Contains(t, out, "General Settings")
		assert.Contains(t, out, "Default Provider")
		for name := range cfg.Providers {
			assert.Contains(t, out, name+" Configuration")
		}
	})

	t.Run("top_k appears only for anthropic", func(t *testing.T) {
		cfg := &config.Config{
			DefaultProvider: "anthropic",
			MaxSteps:        20,
			Providers: map[string]*config.ProviderSettings{
				"anthropic": {Model: "claude-sonnet-4-20250514", TopK: 40},
			},
		}

		var buf bytes.Buffer
		New(&buf).EffectiveConfig(cfg)
		assert.Contains(t, buf.String(), "Top K")

		cfg = &config.Config{
			DefaultProvider: "openai",
			MaxSteps:        20,
			Providers: map[string]*config.ProviderSettings{
				"openai": {Model: "gpt-4o", TopK: 40},
			},
		}

		buf.Reset()
		New(&buf).EffectiveConfig(cfg)
		assert.NotContains(t, buf.String(), "Top K")
	})
}

func TestToolList(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).ToolList([]ToolInfo{
		{Name: "bash", Description: "Run a bash command."},
		{Name: "broken", Err: fmt.Errorf("constructor exploded")},
	})
	out := buf.String()

	assert.Contains(t, out, "bash")
	assert.Contains(t, out, "Run a bash command.")
	assert.Contains(t, out, "Error loading: constructor exploded")
}

func TestPanels(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf)

	c.TaskDetails(TaskDetails{
		Task:           "fix bug X",
		WorkingDir:     "/work",
		Provider:       "openai",
		Model:          "gpt-4o",
		MaxSteps:       20,
		ConfigFile:     "trae_config.json",
		TrajectoryPath: "trajectories/t.json",
	})
	out := buf.String()
	require.Contains(t, out, "Task Details")
	assert.Contains(t, out, "fix bug X")
	assert.Contains(t, out, "trajectories/t.json")

	buf.Reset()
	c.Status(Status{Provider: "openai", Model: "gpt-4o", ToolCount: 3, ConfigFile: "trae_config.json", WorkingDir: "/work"})
	assert.Contains(t, buf.String(), "Agent Status")
	assert.Contains(t, buf.String(), "Available Tools: 3")

	buf.Reset()
	c.Help()
	assert.Contains(t, buf.String(), "'exit' or 'quit'")

	buf.Reset()
	c.Welcome("openai", "gpt-4o", 20, "trae_config.json")
	assert.Contains(t, buf.String(), "Interactive Mode")
}
