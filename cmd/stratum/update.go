package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Check for and apply content updates",
}

var updateCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the remote manifest for a newer content version",
	Run: func(cmd *cobra.Command, args []string) {
		eng, err := newEngine()
		if err != nil {
			fatal("Error initializing engine", err)
		}
		defer eng.Close()

		info := eng.CheckForUpdates(context.Background())
		if info == nil {
			fmt.Println("Content is up to date (or the check could not complete).")
			return
		}
		current := info.CurrentVersion
		if current == "" {
			current = "(none)"
		}
		fmt.Printf("Update available: %s -> %s\n", current, info.RemoteVersion)
	},
}

var updateApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Download the current content version into the cache",
	Long: `Refresh the categories index and every reachable questionnaire through
the remote endpoint, then advance the version marker. A failure partway
through leaves already-cached entities intact; re-run to finish.`,
	Run: func(cmd *cobra.Command, args []string) {
		eng, err := newEngine()
		if err != nil {
			fatal("Error initializing engine", err)
		}
		defer eng.Close()

		if err := eng.ApplyUpdate(context.Background()); err != nil {
			fatal("Error applying update", err)
		}
		fmt.Println("Content update applied.")
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.AddCommand(updateCheckCmd)
	updateCmd.AddCommand(updateApplyCmd)
}
