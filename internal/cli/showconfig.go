package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"trae/internal/config"
	"trae/internal/display"
)

var showConfigCmd = &cobra.Command{
	Use:   "show-config",
	Short: "Show the effective configuration",
	Long: `Show-config prints the configuration the agent would run with: the
configuration file merged over built-in defaults. Credentials are shown only
as present or absent, never as values.`,
	RunE: runShowConfig,
}

var showConfigFile string

func init() {
	rootCmd.AddCommand(showConfigCmd)

	showConfigCmd.Flags().StringVar(&showConfigFile, "config-file", config.DefaultConfigFile, "path to configuration file")
}

func runShowConfig(cmd *cobra.Command, args []string) error {
	console := display.New(cmd.OutOrStdout())

	if _, err := os.Stat(showConfigFile); err != nil {
		console.Panel("Configuration", fmt.Sprintf(
			"No configuration file found at: %s\n\nUsing default settings and environment variables.",
			showConfigFile,
		))
	}

	cfg, err := config.Load(showConfigFile)
	if err != nil {
		console.Error("Configuration error: %v", err)
		return err
	}

	console.EffectiveConfig(cfg)
	return nil
}
