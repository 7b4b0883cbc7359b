// Package trajectory persists a per-task execution trace to a JSON file. One
// recorder is bound to exactly one task: created right before the task is
// driven, finished (but never deleted) when the task completes, fails or is
// cancelled.
package trajectory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog/log"
)

// Execution states recorded when a trajectory is finished.
const (
	StateCompleted   = "completed"
	StateFailed      = "failed"
	StateInterrupted = "interrupted"
)

// defaultDir holds generated trajectory files, relative to the invocation
// directory.
const defaultDir = "trajectories"

// Step records one agent step: the model's response and the tool calls it
// made.
type Step struct {
	Number    int        `json:"number"`
	Timestamp time.Time  `json:"timestamp"`
	Response  string     `json:"response,omitempty"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// ToolCall records one tool invocation inside a step.
type ToolCall struct {
	Name   string `json:"name"`
	Input  string `json:"input,omitempty"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Trajectory is the on-disk document.
type Trajectory struct {
	TaskID     string     `json:"task_id"`
	Task       string     `json:"task"`
	Provider   string     `json:"provider"`
	Model      string     `json:"model"`
	MaxSteps   int        `json:"max_steps"`
	State      string     `json:"state"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Steps      []Step     `json:"steps"`
}

// Recorder owns one trajectory file. Every mutation is written through so a
// cancelled or crashed task still leaves a usable partial trace.
type Recorder struct {
	path string

	mu   sync.Mutex
	data Trajectory
}

// New creates a recorder at path. An empty path generates a run-unique file
// name derived from the current timestamp.
func New(path string) (*Recorder, error) {
	if path == "" {
		suffix, err := gonanoid.Generate("abcdefghijklmnopqrstuvwxyz0123456789", 6)
		if err != nil {
			return nil, fmt.Errorf("failed to generate trajectory id: %w", err)
		}
		name := fmt.Sprintf("trajectory_%s_%s.json", time.Now().Format("20060102_150405"), suffix)
		path = filepath.Join(defaultDir, name)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create trajectory directory: %w", err)
		}
	}

	r := &Recorder{path: path}
	log.Debug().Str("path", path).Msg("Trajectory recorder created")
	return r, nil
}

// Path returns the trajectory file path.
func (r *Recorder) Path() string {
	return r.path
}

// Start records the task metadata and writes the initial document.
func (r *Recorder) Start(taskID, task, provider, model string, maxSteps int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data = Trajectory{
		TaskID:    taskID,
		Task:      task,
		Provider:  provider,
		Model:     model,
		MaxSteps:  maxSteps,
		State:     "running",
		StartedAt: time.Now().UTC(),
		Steps:     []Step{},
	}
	return r.save()
}

// RecordStep appends one step and persists the document.
func (r *Recorder) RecordStep(step Step) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if step.Timestamp.IsZero() {
		step.Timestamp = time.Now().UTC()
	}
	step.Number = len(r.data.Steps) + 1
	r.data.Steps = append(r.data.Steps, step)
	return r.save()
}

// Finish marks the trajectory with its terminal state. The file is kept
// regardless of how the task ended.
func (r *Recorder) Finish(state string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	r.data.State = state
	r.data.FinishedAt = &now
	return r.save()
}

// StepCount returns the number of recorded steps.
func (r *Recorder) StepCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.data.Steps)
}

func (r *Recorder) save() error {
	data, err := json.MarshalIndent(r.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal trajectory: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write trajectory %s: %w", r.path, err)
	}
	return nil
}
