package cmd

import (
	"fmt"

	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"github.com/agentic-research/tessera/internal/parsing"
)

func init() {
	rootCmd.AddCommand(dumpCmd)
}

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Load the store and print every record as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := loadAll(cmd.Context())
		if err != nil {
			return err
		}

		out := make([]map[string]any, 0, len(state.records))
		for _, rec := range state.records {
			out = append(out, recordDocument(rec))
		}
		fmt.Println(oj.JSON(out, 2))
		return nil
	},
}

// recordDocument flattens a record for JSON output. Field names never
// collide with at/kind because those names are reserved at parse time.
func recordDocument(rec parsing.Record) map[string]any {
	doc := make(map[string]any, len(rec.Fields)+2)
	doc["kind"] = rec.Kind
	doc["at"] = parsing.FormatTimestamp(rec.At)
	for name, val := range rec.Fields {
		doc[name] = val.Any()
	}
	return doc
}
