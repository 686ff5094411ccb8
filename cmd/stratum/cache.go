package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the persistent cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [pattern]",
	Short: "Clear cached entries",
	Long: `Delete the namespaced cache entries whose key (after the namespace
prefix) matches the glob pattern. Defaults to "**", which clears everything
owned by this engine; keys of other applications in the shared store are
never touched.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		pattern := "**"
		if len(args) == 1 {
			pattern = args[0]
		}

		eng, err := newEngine()
		if err != nil {
			fatal("Error initializing engine", err)
		}
		defer eng.Close()

		n, err := eng.ClearCache(context.Background(), pattern)
		if err != nil {
			fatal("Error clearing cache", err)
		}
		fmt.Printf("Removed %d entries\n", n)
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache size",
	Run: func(cmd *cobra.Command, args []string) {
		eng, err := newEngine()
		if err != nil {
			fatal("Error initializing engine", err)
		}
		defer eng.Close()

		size, err := eng.CacheSize(context.Background())
		if err != nil {
			fatal("Error reading cache size", err)
		}
		fmt.Printf("Cache size: %d bytes\n", size)
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
}
