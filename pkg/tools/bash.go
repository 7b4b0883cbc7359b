package tools

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const bashTimeout = 120 * time.Second

// NewBashTool constructs the shell execution tool. Commands run in the task's
// working directory.
func NewBashTool() (*Tool, error) {
	shell, err := exec.LookPath("bash")
	if err != nil {
		return nil, fmt.Errorf("bash not available on this host: %w", err)
	}

	return &Tool{
		Name:        "bash",
		Description: "Run a bash command in the task's working directory and return its combined output.",
		Parameters: []Parameter{
			{Name: "command", Type: "string", Description: "The bash command to run.", Required: true},
		},
		Handler: func(ctx context.Context, params map[string]any) (string, error) {
			command, _ := params["command"].(string)
			command = strings.TrimSpace(command)
			if command == "" {
				return "", fmt.Errorf("command is required")
			}

			runCtx, cancel := context.WithTimeout(ctx, bashTimeout)
			defer cancel()

			cmd := exec.CommandContext(runCtx, shell, "-c", command)
			if ec, ok := ExecContextFrom(ctx); ok && ec.WorkingDir != "" {
				cmd.Dir = ec.WorkingDir
			}

			var out bytes.Buffer
			cmd.Stdout = &out
			cmd.Stderr = &out

			err := cmd.Run()
			output := out.String()
			if err != nil {
				if runCtx.Err() == context.DeadlineExceeded {
					return output, fmt.Errorf("command timed out after %s", bashTimeout)
				}
				// Non-zero exit is a result, not a tool failure; the model
				// needs to see the output either way.
				return fmt.Sprintf("%s\n[exit status: %v]", output, err), nil
			}
			return output, nil
		},
	}, nil
}
