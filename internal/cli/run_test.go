package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trae/internal/config"
)

func TestResolveTaskText(t *testing.T) {
	t.Run("plain text stays literal", func(t *testing.T) {
		text, fromFile, err := resolveTaskText("fix bug X")
		require.NoError(t, err)
		assert.False(t, fromFile)
		assert.Equal(t, "fix bug X", text)
	})

	t.Run("existing file resolves to its contents", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "task.txt")
		require.NoError(t, os.WriteFile(path, []byte("refactor the loader"), 0o644))

		text, fromFile, err := resolveTaskText(path)
		require.NoError(t, err)
		assert.True(t, fromFile)
		assert.Equal(t, "refactor the loader", text)
	})

	t.Run("directory path stays literal", func(t *testing.T) {
		dir := t.TempDir()

		text, fromFile, err := resolveTaskText(dir)
		require.NoError(t, err)
		assert.False(t, fromFile)
		assert.Equal(t, dir, text)
	})

	t.Run("path of a missing file stays literal", func(t *testing.T) {
		arg := filepath.Join(t.TempDir(), "no-such-file.txt")

		text, fromFile, err := resolveTaskText(arg)
		require.NoError(t, err)
		assert.False(t, fromFile)
		assert.Equal(t, arg, text)
	})
}

func TestResolveWorkingDir(t *testing.T) {
	t.Run("empty resolves to the current directory", func(t *testing.T) {
		cwd, err := os.Getwd()
		require.NoError(t, err)

		dir, err := resolveWorkingDir("")
		require.NoError(t, err)
		assert.Equal(t, cwd, dir)
	})

	t.Run("relative paths become absolute", func(t *testing.T) {
		base := t.TempDir()
		wd, err := os.Getwd()
		require.NoError(t, err)
		require.NoError(t, os.Chdir(base))
		t.Cleanup(func() { _ = os.Chdir(wd) })

		require.NoError(t, os.Mkdir("project", 0o755))

		dir, err := resolveWorkingDir("project")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(dir))
		assert.Equal(t, "project", filepath.Base(dir))
	})

	t.Run("missing directory is rejected", func(t *testing.T) {
		_, err := resolveWorkingDir(filepath.Join(t.TempDir(), "absent"))
		assert.Error(t, err)
	})

	t.Run("regular file is rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file.txt")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

		_, err := resolveWorkingDir(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is not a directory")
	})
}

func TestMustPatchToken(t *testing.T) {
	assert.Equal(t, "true", mustPatchToken(true))
	assert.Equal(t, "false", mustPatchToken(false))
}

func TestRunFlags(t *testing.T) {
	flags := runCmd.Flags()

	for _, name := range []string{
		"provider", "model", "api-key", "max-steps", "working-dir",
		"must-patch", "config-file", "trajectory-file", "patch-path",
	} {
		assert.NotNil(t, flags.Lookup(name), "flag %s should be registered", name)
	}

	assert.Equal(t, config.DefaultConfigFile, flags.Lookup("config-file").DefValue)
	assert.Equal(t, "0", flags.Lookup("max-steps").DefValue)
	assert.Equal(t, "false", flags.Lookup("must-patch").DefValue)
}

func TestInteractiveFlags(t *testing.T) {
	flags := interactiveCmd.Flags()

	for _, name := range []string{
		"provider", "model", "api-key", "max-steps", "config-file", "trajectory-file",
	} {
		assert.NotNil(t, flags.Lookup(name), "flag %s should be registered", name)
	}

	assert.Equal(t, "20", flags.Lookup("max-steps").DefValue)
}
