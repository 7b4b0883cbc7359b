package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// NewEditTool constructs the file viewing and editing tool. Paths are
// resolved against the task's working directory when relative.
func NewEditTool() (*Tool, error) {
	return &Tool{
		Name:        "str_replace_based_edit_tool",
		Description: "View, create and edit files. str_replace requires old_str to occur exactly once in the file.",
		Parameters: []Parameter{
			{Name: "command", Type: "string", Description: "The operation to perform.", Required: true, Enum: []string{"view", "create", "str_replace"}},
			{Name: "path", Type: "string", Description: "Path to the file.", Required: true},
			{Name: "file_text", Type: "string", Description: "Content for the create command."},
			{Name: "old_str", Type: "string", Description: "Exact text to replace for str_replace."},
			{Name: "new_str", Type: "string", Description: "Replacement text for str_replace."},
		},
		Handler: editHandler,
	}, nil
}

func editHandler(ctx context.Context, params map[string]any) (string, error) {
	command, _ := params["command"].(string)
	path, _ := params["path"].(string)
	if path == "" {
		return "", fmt.Errorf("path is required")
	}

	if !filepath.IsAbs(path) {
		if ec, ok := ExecContextFrom(ctx); ok && ec.WorkingDir != "" {
			path = filepath.Join(ec.WorkingDir, path)
		}
	}

	switch command {
	case "view":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", path, err)
		}
		return string(data), nil

	case "create":
		text, _ := params["file_text"].(string)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return "", fmt.Errorf("failed to create parent directory: %w", err)
		}
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			return "", fmt.Errorf("failed to write %s: %w", path, err)
		}
		return fmt.Sprintf("created %s", path), nil

	case "str_replace":
		oldStr, _ := params["old_str"].(string)
		newStr, _ := params["new_str"].(string)
		if oldStr == "" {
			return "", fmt.Errorf("old_str is required")
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", path, err)
		}
		content := string(data)

		switch n := strings.Count(content, oldStr); n {
		case 0:
			return "", fmt.Errorf("old_str not found in %s", path)
		case 1:
		default:
			return "", fmt.Errorf("old_str occurs %d times in %s, must be unique", n, path)
		}

		content = strings.Replace(content, oldStr, newStr, 1)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return "", fmt.Errorf("failed to write %s: %w", path, err)
		}
		return fmt.Sprintf("edited %s", path), nil

	default:
		return "", fmt.Errorf("unknown command %q", command)
	}
}
