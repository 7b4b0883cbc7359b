// Package cli implements the command surface: run, interactive, show-config
// and tools. Fatal conditions surface as errors from Execute; main maps them
// to a non-zero exit status.
package cli

import (
	"github.com/spf13/cobra"

	"trae/internal/logger"
)

const version = "0.1.0"

var logLevel string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "trae",
	Short: "Trae - LLM-based agent for software engineering tasks",
	Long: `Trae is an LLM-based agent for general purpose software engineering tasks.
It resolves a provider configuration, drives one task to completion (or a
sequence of tasks interactively) and records an execution trajectory per task.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Setup(logLevel)
	},
}

// Execute runs the command tree. It is called once by main.main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
`)
}

// GetRootCmd returns the root command for testing.
func GetRootCmd() *cobra.Command {
	return rootCmd
}
