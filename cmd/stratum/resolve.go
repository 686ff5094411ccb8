package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/stratum"
	"github.com/aretw0/stratum/pkg/core"
)

var (
	resolveJSON bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [type] [scope]",
	Short: "Resolve a content entity",
	Long: `Resolve an entity through the fallback chain and print its payload.
Type is one of: categories, questionnaire, knowledge, resource. Scope is the
entity ID within that type; the categories index uses "_".

The provenance (memory, persistent, remote, bundled, mock) goes to stderr,
or into the JSON object with --json.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		entityType := core.EntityType(args[0])
		scopeID := stratum.GlobalScope
		if len(args) == 2 {
			scopeID = args[1]
		}

		eng, err := newEngine()
		if err != nil {
			fatal("Error initializing engine", err)
		}
		defer eng.Close()

		res := eng.Resolve(context.Background(), entityType, scopeID)

		if resolveJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(res); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		fmt.Fprintf(os.Stderr, "source: %s\n", res.Source)
		fmt.Println(string(res.Payload))
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "Output result with provenance as JSON")
}
