package cli

import (
	"github.com/spf13/cobra"

	"trae/internal/display"
	"trae/pkg/tools"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the available tools",
	RunE:  runTools,
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}

func runTools(cmd *cobra.Command, args []string) error {
	console := display.New(cmd.OutOrStdout())

	registry := tools.DefaultRegistry()
	infos := make([]display.ToolInfo, 0, len(registry))
	for _, name := range registry.Names() {
		tool, err := registry[name]()
		if err != nil {
			infos = append(infos, display.ToolInfo{Name: name, Err: err})
			continue
		}
		infos = append(infos, display.ToolInfo{Name: tool.Name, Description: tool.Description})
	}

	console.ToolList(infos)
	return nil
}
