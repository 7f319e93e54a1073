package cmd

import (
	"github.com/huangsam/churnchart/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the churnchart MCP server",
	Long:  `Launch an MCP server over stdio that lets AI agents list daily buckets, compare trends, project candles and hit-test the chart.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Logs go to stderr; stdout carries the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(runContext(), cfg, storeManager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
