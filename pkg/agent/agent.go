// Package agent drives one software-engineering task at a time against an
// LLM backend, looping model calls and tool executions until the model marks
// the task done or the step budget runs out.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"trae/internal/config"
	"trae/pkg/tools"
	"trae/pkg/trajectory"
)

// ErrCancelled reports a user-initiated cancellation. Callers distinguish it
// from ordinary failures with errors.Is.
var ErrCancelled = errors.New("task execution cancelled")

// Console receives progress notifications while a task executes. The zero
// implementation is a no-op; the CLI binds its display here.
type Console interface {
	StepStarted(step, maxSteps int)
	ToolCalled(name string, err error)
}

// Options configures agent construction.
type Options struct {
	Config   *config.Config
	Registry tools.Registry
	Logger   zerolog.Logger

	// Provider overrides the one built from Config; used by tests.
	Provider LLMProvider
}

// Agent executes tasks against one configured LLM provider. At most one task
// is in flight per agent; Execute blocks its caller for the task's duration.
type Agent struct {
	cfg      *config.Config
	settings *config.ProviderSettings
	provider LLMProvider
	toolset  []*tools.Tool
	byName   map[string]*tools.Tool
	logger   zerolog.Logger

	console  Console
	recorder *trajectory.Recorder
	task     *TaskRequest
}

// New constructs an agent from the effective configuration. Any failure here
// is fatal to the caller; the agent performs no retry on construction.
func New(opts Options) (*Agent, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	settings, err := opts.Config.Settings()
	if err != nil {
		return nil, err
	}

	provider := opts.Provider
	if provider == nil {
		provider, err = NewProvider(opts.Config.DefaultProvider, settings)
		if err != nil {
			return nil, fmt.Errorf("failed to create provider: %w", err)
		}
	}

	registry := opts.Registry
	if registry == nil {
		registry = tools.DefaultRegistry()
	}

	toolset := make([]*tools.Tool, 0, len(registry))
	byName := make(map[string]*tools.Tool, len(registry))
	for _, name := range registry.Names() {
		tool, err := registry[name]()
		if err != nil {
			return nil, fmt.Errorf("failed to construct tool %s: %w", name, err)
		}
		toolset = append(toolset, tool)
		byName[tool.Name] = tool
	}

	return &Agent{
		cfg:      opts.Config,
		settings: settings,
		provider: provider,
		toolset:  toolset,
		byName:   byName,
		logger:   opts.Logger,
	}, nil
}

// Provider returns the selected provider identifier.
func (a *Agent) Provider() string {
	return a.provider.Name()
}

// Model returns the selected model name.
func (a *Agent) Model() string {
	return a.settings.Model
}

// ToolCount returns the number of available tools.
func (a *Agent) ToolCount() int {
	return len(a.toolset)
}

// SetConsole binds a progress console for subsequent task executions.
func (a *Agent) SetConsole(c Console) {
	a.console = c
}

// SetupTrajectoryRecording binds a fresh trajectory recorder. An empty path
// generates a run-unique one. It must be called before each Execute; the
// returned path identifies where the trace is persisted.
func (a *Agent) SetupTrajectoryRecording(path string) (string, error) {
	recorder, err := trajectory.New(path)
	if err != nil {
		return "", fmt.Errorf("failed to set up trajectory recording: %w", err)
	}
	a.recorder = recorder
	return recorder.Path(), nil
}

// TrajectoryPath returns the current trajectory file path, or "" before
// recording is set up.
func (a *Agent) TrajectoryPath() string {
	if a.recorder == nil {
		return ""
	}
	return a.recorder.Path()
}

// NewTask stages one task for execution.
func (a *Agent) NewTask(task string, args TaskArgs) error {
	if task == "" {
		return fmt.Errorf("task text is empty")
	}
	a.task = &TaskRequest{
		ID:   uuid.NewString(),
		Task: task,
		Args: args,
	}
	return nil
}

// Execute drives the staged task to completion, blocking until it finishes,
// fails, or ctx is cancelled. Cancellation surfaces as ErrCancelled; the
// partial trajectory is kept in every outcome.
func (a *Agent) Execute(ctx context.Context) (*Result, error) {
	if a.task == nil {
		return nil, fmt.Errorf("no task staged, call NewTask first")
	}
	if a.recorder == nil {
		return nil, fmt.Errorf("trajectory recording is not set up")
	}
	task := a.task
	recorder := a.recorder
	// One-to-one lifetime with the task request.
	a.task = nil
	a.recorder = nil

	if err := recorder.Start(task.ID, task.Task, a.Provider(), a.Model(), a.cfg.MaxSteps); err != nil {
		return nil, err
	}

	logger := a.logger.With().Str("task_id", task.ID).Logger()
	logger.Info().Str("provider", a.Provider()).Str("model", a.Model()).Msg("Task execution started")

	ctx = tools.WithExecContext(ctx, tools.ExecContext{WorkingDir: task.Args.ProjectPath})

	messages := []Message{{Role: "user", Content: a.userPrompt(task)}}
	usage := TokenUsage{}

	for step := 1; step <= a.cfg.MaxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return a.finish(recorder, trajectory.StateInterrupted, nil, ErrCancelled)
		}
		if a.console != nil {
			a.console.StepStarted(step, a.cfg.MaxSteps)
		}

		response, err := a.provider.Call(ctx, a.buildRequest(messages, task))
		if err != nil {
			if ctx.Err() != nil {
				return a.finish(recorder, trajectory.StateInterrupted, nil, ErrCancelled)
			}
			return a.finish(recorder, trajectory.StateFailed, nil, fmt.Errorf("model call failed: %w", err))
		}
		if response.Usage != nil {
			usage.InputTokens += response.Usage.InputTokens
			usage.OutputTokens += response.Usage.OutputTokens
		}

		record := trajectory.Step{Response: response.Content}
		done := false

		results := make([]Message, 0, len(response.ToolCalls))
		for _, call := range response.ToolCalls {
			output, toolErr := a.runTool(ctx, call)
			if ctx.Err() != nil {
				record.ToolCalls = append(record.ToolCalls, toolCallRecord(call, output, toolErr))
				_ = recorder.RecordStep(record)
				return a.finish(recorder, trajectory.StateInterrupted, nil, ErrCancelled)
			}
			if a.console != nil {
				a.console.ToolCalled(call.Name, toolErr)
			}

			record.ToolCalls = append(record.ToolCalls, toolCallRecord(call, output, toolErr))
			if call.Name == tools.DoneToolName && toolErr == nil {
				done = true
			}

			content := output
			if toolErr != nil {
				content = toolErr.Error()
			}
			results = append(results, Message{Role: "tool", Content: content, ToolCallID: call.ID})
		}

		if err := recorder.RecordStep(record); err != nil {
			logger.Warn().Err(err).Msg("Failed to record trajectory step")
		}

		if done || len(response.ToolCalls) == 0 {
			result := &Result{
				Completed:     true,
				FinalResponse: response.Content,
				Steps:         step,
				Usage:         usage,
			}
			logger.Info().Int("steps", step).Msg("Task completed")
			return a.finish(recorder, trajectory.StateCompleted, result, nil)
		}

		messages = append(messages, Message{
			Role:      "assistant",
			Content:   response.Content,
			ToolCalls: response.ToolCalls,
		})
		messages = append(messages, results...)
	}

	return a.finish(recorder, trajectory.StateFailed, nil,
		fmt.Errorf("task incomplete after %d steps", a.cfg.MaxSteps))
}

func (a *Agent) finish(recorder *trajectory.Recorder, state string, result *Result, err error) (*Result, error) {
	if saveErr := recorder.Finish(state); saveErr != nil {
		a.logger.Warn().Err(saveErr).Msg("Failed to finalize trajectory")
	}
	return result, err
}

func (a *Agent) runTool(ctx context.Context, call ToolCall) (string, error) {
	tool, ok := a.byName[call.Name]
	if !ok {
		return "", fmt.Errorf("unknown tool: %s", call.Name)
	}
	return tool.Execute(ctx, call.Parameters)
}

func (a *Agent) buildRequest(messages []Message, task *TaskRequest) LLMRequest {
	schemas := make([]ToolSchema, 0, len(a.toolset))
	for _, tool := range a.toolset {
		schemas = append(schemas, ToolSchema{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.InputSchema(),
		})
	}

	return LLMRequest{
		Model:        a.settings.Model,
		Messages:     messages,
		Tools:        schemas,
		Temperature:  a.settings.Temperature,
		TopP:         a.settings.TopP,
		TopK:         a.settings.TopK,
		MaxTokens:    a.settings.MaxTokens,
		SystemPrompt: a.systemPrompt(task),
	}
}

func (a *Agent) systemPrompt(task *TaskRequest) string {
	prompt := "You are a software engineering agent. Work on the task in the " +
		"project directory using the available tools, then call " +
		tools.DoneToolName + " exactly once when the task is fully resolved."
	if task.Args.MustPatch == "true" {
		prompt += " The task requires code changes; do not finish without modifying files."
		if task.Args.PatchPath != "" {
			prompt += fmt.Sprintf(" Write the final unified diff to %s.", task.Args.PatchPath)
		}
	}
	return prompt
}

func (a *Agent) userPrompt(task *TaskRequest) string {
	return fmt.Sprintf("Project directory: %s\n\nTask:\n%s", task.Args.ProjectPath, task.Args.Issue)
}

func toolCallRecord(call ToolCall, output string, err error) trajectory.ToolCall {
	input, _ := json.Marshal(call.Parameters)
	record := trajectory.ToolCall{
		Name:   call.Name,
		Input:  string(input),
		Output: output,
	}
	if err != nil {
		record.Error = err.Error()
	}
	return record
}
