package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentic-research/tessera/internal/schema"
)

func init() {
	rootCmd.AddCommand(schemaCmd)
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the synthesized query schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, store, err := loadStore()
		if err != nil {
			return err
		}
		fmt.Print(schema.Synthesize(store).Text())
		return nil
	},
}
