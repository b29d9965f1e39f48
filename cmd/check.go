package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Load and validate the store, printing per-kind counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := loadAll(cmd.Context())
		if err != nil {
			return err
		}

		byKind := make(map[string]int)
		for _, rec := range state.records {
			byKind[rec.Kind]++
		}

		for _, kind := range state.store.Kinds() {
			fmt.Printf("%s: %d versions, %d records\n",
				kind, len(state.store.Versions(kind)), byKind[kind])
		}
		fmt.Printf("total: %d records", len(state.records))
		if state.cfg.Documents != nil {
			fmt.Printf(", %d documents", len(state.documents))
		}
		fmt.Println()
		return nil
	},
}
