package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	t.Run("registers all subcommands", func(t *testing.T) {
		names := make(map[string]bool)
		for _, c := range rootCmd.Commands() {
			names[c.Name()] = true
		}

		for _, want := range []string{"run", "interactive", "show-config", "tools"} {
			assert.True(t, names[want], "subcommand %s should be registered", want)
		}
	})

	t.Run("prints its version", func(t *testing.T) {
		out := execute(t, "--version")
		assert.Contains(t, out, version)
	})

	t.Run("rejects unknown subcommands", func(t *testing.T) {
		var buf bytes.Buffer
		rootCmd.SetOut(&buf)
		rootCmd.SetErr(&buf)
		rootCmd.SetArgs([]string{"no-such-command"})
		t.Cleanup(func() {
			rootCmd.SetOut(nil)
			rootCmd.SetErr(nil)
			rootCmd.SetArgs(nil)
		})

		require.Error(t, rootCmd.Execute())
	})
}
