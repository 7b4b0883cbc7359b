package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"trae/internal/config"
	"trae/internal/display"
	"trae/pkg/agent"
	"trae/pkg/tools"
)

var runCmd = &cobra.Command{
	Use:   "run <task>",
	Short: "Run a single task to completion",
	Long: `Run drives one task to completion and exits. The task argument is either
literal task text or the path of a file whose contents are the task text.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

var (
	runProvider       string
	runModel          string
	runAPIKey         string
	runMaxSteps       int
	runWorkingDir     string
	runMustPatch      bool
	runConfigFile     string
	runTrajectoryFile string
	runPatchPath      string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runProvider, "provider", "p", "", "LLM provider to use")
	runCmd.Flags().StringVarP(&runModel, "model", "m", "", "specific model to use")
	runCmd.Flags().StringVarP(&runAPIKey, "api-key", "k", "", "API key (or set via environment variable)")
	runCmd.Flags().IntVar(&runMaxSteps, "max-steps", 0, "maximum number of execution steps")
	runCmd.Flags().StringVarP(&runWorkingDir, "working-dir", "w", "", "working directory for the agent")
	runCmd.Flags().BoolVar(&runMustPatch, "must-patch", false, "require the task to produce code changes")
	runCmd.Flags().StringVar(&runConfigFile, "config-file", config.DefaultConfigFile, "path to configuration file")
	runCmd.Flags().StringVarP(&runTrajectoryFile, "trajectory-file", "t", "", "path to save the trajectory file")
	runCmd.Flags().StringVar(&runPatchPath, "patch-path", "", "path to the patch file")
}

func runRun(cmd *cobra.Command, args []string) error {
	console := display.New(cmd.OutOrStdout())

	workingDir, err := resolveWorkingDir(runWorkingDir)
	if err != nil {
		console.Error("Error resolving working directory: %v", err)
		return err
	}

	taskText, fromFile, err := resolveTaskText(args[0])
	if err != nil {
		console.Error("Error reading task file: %v", err)
		return err
	}
	if fromFile {
		console.Info("Task loaded from file: %s", args[0])
	}

	cfg, err := config.Load(runConfigFile)
	if err != nil {
		console.Error("Configuration error: %v", err)
		return err
	}
	if err := cfg.Apply(config.Overrides{
		Provider: runProvider,
		Model:    runModel,
		APIKey:   runAPIKey,
		MaxSteps: runMaxSteps,
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

	trajectoryPath, err := ag.SetupTrajectoryRecording(runTrajectoryFile)
	if err != nil {
		console.Error("Error setting up trajectory recording: %v", err)
		return err
	}

	console.TaskDetails(display.TaskDetails{
		Task:           taskText,
		WorkingDir:     workingDir,
		Provider:       cfg.DefaultProvider,
		Model:          ag.Model(),
		MaxSteps:       cfg.MaxSteps,
		ConfigFile:     runConfigFile,
		TrajectoryPath: trajectoryPath,
	})
	ag.SetConsole(console)

	taskArgs := agent.TaskArgs{
		ProjectPath: workingDir,
		Issue:       taskText,
		MustPatch:   mustPatchToken(runMustPatch),
		PatchPath:   runPatchPath,
	}
	if err := ag.NewTask(taskText, taskArgs); err != nil {
		console.Error("Error: %v", err)
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	_, err = ag.Execute(ctx)
	switch {
	case errors.Is(err, agent.ErrCancelled):
		console.Warn("Task execution interrupted by user")
		console.Info("Partial trajectory saved to: %s", trajectoryPath)
		return err
	case err != nil:
		console.Error("Unexpected error: %v", err)
		log.Error().Err(err).Msg("Task execution failed")
		console.Info("Trajectory saved to: %s", trajectoryPath)
		return err
	}

	console.Success("Trajectory saved to: %s", trajectoryPath)
	return nil
}

// resolveTaskText classifies the task argument once, at the input boundary:
// the path of an existing regular file resolves to the file's contents,
// anything else is literal task text.
func resolveTaskText(arg string) (text string, fromFile bool, err error) {
	info, statErr := os.Stat(arg)
	if statErr != nil || info.IsDir() {
		return arg, false, nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return "", false, fmt.Errorf("task file %s exists but is not readable: %w", arg, err)
	}
	return string(data), true, nil
}

// resolveWorkingDir validates the working directory before any task work
// begins. The directory is threaded through the task request explicitly;
// the process-global working directory is never changed.
func resolveWorkingDir(dir string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		return cwd, nil
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", abs)
	}
	return abs, nil
}

// mustPatchToken renders the must-patch flag as the textual token the task
// request carries.
func mustPatchToken(mustPatch bool) string {
	if mustPatch {
		return "true"
	}
	return "false"
}
