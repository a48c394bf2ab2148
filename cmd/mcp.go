package cmd

import (
	"github.com/spf13/cobra"

	"github.com/agentic-research/rbxmx2repo/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP server on stdio exposing the export_rbxmx tool",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return mcpserver.Serve(Version)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
