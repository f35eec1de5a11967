package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	backend    string
	storePath  string
	format     string
	versioned  bool
	readOnly   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pinboard",
	Short: "A sticky-notes board kept in files, sqlite or memory",
	Long: `Pinboard keeps a board of sticky notes: text, images, todo lists, videos and
drawings. Notes are stored as one collection per key in a directory (JSON or
YAML, optionally versioned with git) or in a sqlite database.`,
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
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVar(&configPath, "config", "", "Config file (default: nearest pinboard.yaml)")
	flags.StringVar(&backend, "backend", "", "Storage backend: fs, sqlite or memory")
	flags.StringVar(&storePath, "path", "", "Storage directory (fs) or database file (sqlite)")
	flags.StringVar(&format, "format", "", "On-disk format of the fs backend: json or yaml")
	flags.BoolVar(&versioned, "versioned", false, "Commit every change to git (fs only)")
	flags.BoolVar(&readOnly, "read-only", false, "Reject every write")
}
