package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/stratum"
	"github.com/aretw0/stratum/internal/platform"
)

var (
	verbose    bool
	configPath string
	dataDir    string
	adapter    string
	baseURL    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stratum",
	Short: "Offline-first content resolution engine",
	Long: `Stratum resolves content entities (categories, questionnaires, knowledge
blocks, resources) through a tiered fallback chain: memory, persistent cache,
remote, bundled defaults, mock. Callers always get a usable payload; the
provenance on each result says how real it is.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Data directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&adapter, "adapter", "", "Persistent adapter: sqlite, file, memory")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Remote content base URL")
}

// newEngine builds a foreground engine from config, env and flags.
// CLI invocations never start the background worker.
func newEngine() (*stratum.Engine, error) {
	cfg, err := platform.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if adapter != "" {
		cfg.Adapter = adapter
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	opts := append(cfg.Options(),
		stratum.WithLogger(slog.Default()),
		stratum.WithBackgroundChecks(false),
	)
	return stratum.New(cfg.DataDir, opts...)
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}
