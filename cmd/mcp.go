package cmd

import (
	"github.com/huangsam/gradekit/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Gradekit MCP server",
	Long:  `Launch an MCP server that allows AI agents to grade submissions and inspect history via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Keep stdout clean in MCP mode since stdio carries the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, newGrader, historyManager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
