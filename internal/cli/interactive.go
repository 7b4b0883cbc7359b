package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"trae/internal/config"
	"trae/internal/display"
	"trae/pkg/agent"
	"trae/pkg/tools"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Start an interactive session",
	Long: `Interactive starts a session that accepts task descriptions and control
commands in a loop. A failed or cancelled task returns to the prompt; the
session ends on 'exit', 'quit' or end of input.`,
	RunE: runInteractive,
}

var (
	interactiveProvider       string
	interactiveModel          string
	interactiveAPIKey         string
	interactiveConfigFile     string
	interactiveMaxSteps       int
	interactiveTrajectoryFile string
)

func init() {
	rootCmd.AddCommand(interactiveCmd)

	interactiveCmd.Flags().StringVarP(&interactiveProvider, "provider", "p", "", "LLM provider to use")
	interactiveCmd.Flags().StringVarP(&interactiveModel, "model", "m", "", "specific model to use")
	interactiveCmd.Flags().StringVarP(&interactiveAPIKey, "api-key", "k", "", "API key (or set via environment variable)")
	interactiveCmd.Flags().StringVar(&interactiveConfigFile, "config-file", config.DefaultConfigFile, "path to configuration file")
	interactiveCmd.Flags().IntVar(&interactiveMaxSteps, "max-steps", config.DefaultMaxSteps, "maximum number of execution steps")
	interactiveCmd.Flags().StringVarP(&interactiveTrajectoryFile, "trajectory-file", "t", "", "path to save trajectory files")
}

// sessionState tracks where the dispatcher is in its input/execute cycle.
type sessionState int

const (
	stateAwaitingInput sessionState = iota
	stateExecutingTask
	stateTerminated
)

// commandKind classifies one line of session input.
type commandKind int

const (
	commandTask commandKind = iota
	commandEmpty
	commandExit
	commandHelp
	commandStatus
	commandClear
)

// classifyInput maps a raw input line to a session command. Control commands
// match case-insensitively; everything else non-empty is a task description.
func classifyInput(line string) (commandKind, string) {
	trimmed := strings.TrimSpace(line)
	switch strings.ToLower(trimmed) {
	case "":
		return commandEmpty, ""
	case "exit", "quit":
		return commandExit, ""
	case "help":
		return commandHelp, ""
	case "status":
		return commandStatus, ""
	case "clear":
		return commandClear, ""
	default:
		return commandTask, trimmed
	}
}

// session is the interactive dispatcher with its collaborators injected, so
// the state machine is testable without a terminal or a live agent.
type session struct {
	console  *display.Console
	readLine func(prompt string) (string, error)
	status   func() display.Status
	runTask  func(task, workingDir string)

	state sessionState
}

// loop drives the dispatcher until it reaches stateTerminated. An interrupt
// while waiting for input warns and stays at the prompt; end of input
// terminates the session like an explicit exit.
func (s *session) loop() {
	s.state = stateAwaitingInput
	for s.state != stateTerminated {
		line, err := s.readLine("Task")
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				s.console.Warn("Use 'exit' or 'quit' to end the session")
				continue
			}
			s.terminate()
			continue
		}

		kind, task := classifyInput(line)
		switch kind {
		case commandEmpty:
		case commandExit:
			s.terminate()
		case commandHelp:
			s.console.Help()
		case commandStatus:
			s.console.Status(s.status())
		case commandClear:
			s.console.Clear()
		case commandTask:
			workingDir, err := s.readLine("Working Directory")
			if err != nil {
				if errors.Is(err, readline.ErrInterrupt) {
					s.console.Warn("Use 'exit' or 'quit' to end the session")
					continue
				}
				s.terminate()
				continue
			}

			s.state = stateExecutingTask
			s.runTask(task, strings.TrimSpace(workingDir))
			s.state = stateAwaitingInput
		}
	}
}

func (s *session) terminate() {
	s.console.Success("Goodbye!")
	s.state = stateTerminated
}

func runInteractive(cmd *cobra.Command, args []string) error {
	console := display.New(cmd.OutOrStdout())

	cfg, err := config.Load(interactiveConfigFile)
	if err != nil {
		console.Error("Configuration error: %v", err)
		return err
	}
	if err := cfg.Apply(config.Overrides{
		Provider: interactiveProvider,
		Model:    interactiveModel,
		APIKey:   interactiveAPIKey,
		MaxSteps: interactiveMaxSteps,
	}); err != nil {
		console.Error("Configuration error: %v", err)
		return err
	}

	ag, err := agent.New(agent.Options{
		Config:   cfg,
		Registry: tools.DefaultRegistry(),
		Logger:   log.Logger,
	})
	if err != nil {
		console.Error("Error creating agent: %v", err)
		log.Error().Err(err).Msg("Agent construction failed")
		return err
	}
	ag.SetConsole(console)

	console.Welcome(cfg.DefaultProvider, ag.Model(), cfg.MaxSteps, interactiveConfigFile)

	rl, err := readline.New("")
	if err != nil {
		return err
	}
	defer rl.Close()

	s := &session{
		console: console,
		readLine: func(prompt string) (string, error) {
			rl.SetPrompt(prompt + ": ")
			return rl.Readline()
		},
		status: func() display.Status {
			cwd, _ := os.Getwd()
			return display.Status{
				Provider:   ag.Provider(),
				Model:      ag.Model(),
				ToolCount:  ag.ToolCount(),
				ConfigFile: interactiveConfigFile,
				WorkingDir: cwd,
			}
		},
		runTask: func(task, workingDir string) {
			executeSessionTask(console, ag, task, workingDir, interactiveTrajectoryFile)
		},
	}
	s.loop()
	return nil
}

// executeSessionTask drives one task inside the interactive session. Every
// outcome, including cancellation, returns control to the prompt: an
// interrupt mid-task cancels only that task.
func executeSessionTask(console *display.Console, ag *agent.Agent, task, workingDir, trajectoryFile string) {
	resolved, err := resolveWorkingDir(workingDir)
	if err != nil {
		console.Error("Error resolving working directory: %v", err)
		return
	}

	trajectoryPath, err := ag.SetupTrajectoryRecording(trajectoryFile)
	if err != nil {
		console.Error("Error setting up trajectory recording: %v", err)
		return
	}
	console.Info("Trajectory will be saved to: %s", trajectoryPath)

	taskArgs := agent.TaskArgs{
		ProjectPath: resolved,
		Issue:       task,
		MustPatch:   mustPatchToken(false),
	}
	if err := ag.NewTask(task, taskArgs); err != nil {
		console.Error("Error: %v", err)
		return
	}

	console.Info("Executing task: %s", task)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	_, err = ag.Execute(ctx)
	switch {
	case errors.Is(err, agent.ErrCancelled):
		console.Warn("Task execution interrupted by user")
		console.Info("Partial trajectory saved to: %s", trajectoryPath)
	case err != nil:
		console.Error("Error: %v", err)
		console.Info("Trajectory saved to: %s", trajectoryPath)
	default:
		console.Success("Trajectory saved to: %s", trajectoryPath)
	}
}
