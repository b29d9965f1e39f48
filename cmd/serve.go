package cmd

import (
	"github.com/spf13/cobra"

	"github.com/agentic-research/tessera/internal/mcpserver"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the store over MCP on stdin/stdout",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := loadAll(cmd.Context())
		if err != nil {
			return err
		}
		return mcpserver.New(state.store, state.records, state.schema).ServeStdio()
	},
}
