package cmd

import (
	"github.com/huangsam/funcspot/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Funcspot MCP server",
	Long:  `Launch an MCP server over stdio so AI agents can rank and compare function hotspots through tool calls.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Stdio carries the protocol here, so keep header logs out of it
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
