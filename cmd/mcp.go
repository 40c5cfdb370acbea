package cmd

import (
	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-contributions/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server on stdio",
	Long:  `Launch an MCP server that lets AI agents query contributions and profile statistics via standard tools.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Logs go to stderr; stdout carries the protocol.
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		return mcp.StartMCPServer(cmd.Context(), version, a.aggregator, a.profile)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
