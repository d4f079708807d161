package cmd

import (
	"github.com/pawnrank/pawnrank/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the pawnrank MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents classify ratings, compute
promotion progress, segment rating histories and look up Lichess players.

Lookups made through the server never record snapshots.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
