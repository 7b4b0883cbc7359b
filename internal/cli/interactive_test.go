package cli

import (
	"bytes"
	"io"
	"testing"

	"github.com/chzyer/readline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trae/internal/display"
)

func TestClassifyInput(t *testing.T) {
	tests := []struct {
		name string
		line string
		kind commandKind
		task string
	}{
		{"empty", "", commandEmpty, ""},
		{"whitespace only", "   \t  ", commandEmpty, ""},
		{"exit", "exit", commandExit, ""},
		{"quit", "quit", commandExit, ""},
		{"exit uppercase", "EXIT", commandExit, ""},
		{"quit mixed case", "Quit", commandExit, ""},
		{"help", "help", commandHelp, ""},
		{"status", "status", commandStatus, ""},
		{"clear", "clear", commandClear, ""},
		{"task text", "fix the login bug", commandTask, "fix the login bug"},
		{"task text is trimmed", "  fix the login bug  ", commandTask, "fix the login bug"},
		{"command word inside a sentence is a task", "help me fix the build", commandTask, "help me fix the build"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, task := classifyInput(tt.line)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.task, task)
		})
	}
}

// scriptedLine is one canned response to a readLine call.
type scriptedLine struct {
	line string
	err  error
}

// newScriptedSession builds a session whose input and task execution are
// scripted. The returned slices record every prompt shown and every task run.
func newScriptedSession(out io.Writer, script []scriptedLine) (*session, *[]string, *[][2]string) {
	prompts := &[]string{}
	runs := &[][2]string{}

	i := 0
	return &session{
		console: display.New(out),
		readLine: func(prompt string) (string, error) {
			*prompts = append(*prompts, prompt)
			if i >= len(script) {
				return "", io.EOF
			}
			l := script[i]
			i++
			return l.line, l.err
		},
		status: func() display.Status {
			return display.Status{Provider: "openai", Model: "gpt-4o", ToolCount: 3}
		},
		runTask: func(task, workingDir string) {
			*runs = append(*runs, [2]string{task, workingDir})
		},
	}, prompts, runs
}

func TestSessionLoop(t *testing.T) {
	t.Run("exit terminates without prompting for a working directory", func(t *testing.T) {
		var buf bytes.Buffer
		s, prompts, runs := newScriptedSession(&buf, []scriptedLine{{line: "exit"}})

		s.loop()

		assert.Equal(t, stateTerminated, s.state)
		assert.Equal(t, []string{"Task"}, *prompts)
		assert.Empty(t, *runs)
		assert.Contains(t, buf.String(), "Goodbye!")
	})

	t.Run("quit terminates case-insensitively", func(t *testing.T) {
		var buf bytes.Buffer
		s, _, runs := newScriptedSession(&buf, []scriptedLine{{line: "QUIT"}})

		s.loop()

		assert.Equal(t, stateTerminated, s.state)
		assert.Empty(t, *runs)
	})

	t.Run("control commands never run a task", func(t *testing.T) {
		var buf bytes.Buffer
		s, _, runs := newScriptedSession(&buf, []scriptedLine{
			{line: "help"},
			{line: "status"},
			{line: "clear"},
			{line: ""},
			{line: "exit"},
		})

		s.loop()

		assert.Empty(t, *runs)
		assert.Contains(t, buf.String(), "'exit' or 'quit'")
		assert.Contains(t, buf.String(), "Agent Status")
	})

	t.Run("task input prompts for a working directory and runs", func(t *testing.T) {
		var buf bytes.Buffer
		s, prompts, runs := newScriptedSession(&buf, []scriptedLine{
			{line: "fix the login bug"},
			{line: " /work "},
			{line: "exit"},
		})

		s.loop()

		require.Len(t, *runs, 1)
		assert.Equal(t, [2]string{"fix the login bug", "/work"}, (*runs)[0])
		assert.Equal(t, []string{"Task", "Working Directory", "Task"}, *prompts)
	})

	t.Run("session survives a task and accepts more input", func(t *testing.T) {
		var buf bytes.Buffer
		s, _, runs := newScriptedSession(&buf, []scriptedLine{
			{line: "first task"},
			{line: "/a"},
			{line: "second task"},
			{line: "/b"},
			{line: "quit"},
		})

		s.loop()

		require.Len(t, *runs, 2)
		assert.Equal(t, [2]string{"first task", "/a"}, (*runs)[0])
		assert.Equal(t, [2]string{"second task", "/b"}, (*runs)[1])
	})

	t.Run("end of input terminates the session", func(t *testing.T) {
		var buf bytes.Buffer
		s, _, runs := newScriptedSession(&buf, nil)

		s.loop()

		assert.Equal(t, stateTerminated, s.state)
		assert.Empty(t, *runs)
		assert.Contains(t, buf.String(), "Goodbye!")
	})

	t.Run("interrupt at the prompt warns and stays", func(t *testing.T) {
		var buf bytes.Buffer
		s, prompts, runs := newScriptedSession(&buf, []scriptedLine{
			{err: readline.ErrInterrupt},
			{line: "exit"},
		})

		s.loop()

		assert.Equal(t, []string{"Task", "Task"}, *prompts)
		assert.Empty(t, *runs)
		assert.Contains(t, buf.String(), "Use 'exit' or 'quit' to end the session")
	})

	t.Run("interrupt at the working directory prompt abandons the task", func(t *testing.T) {
		var buf bytes.Buffer
		s, _, runs := newScriptedSession(&buf, []scriptedLine{
			{line: "fix the login bug"},
			{err: readline.ErrInterrupt},
			{line: "exit"},
		})

		s.loop()

		assert.Empty(t, *runs)
		assert.Contains(t, buf.String(), "Use 'exit' or 'quit' to end the session")
	})
}
