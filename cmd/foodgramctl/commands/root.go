// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

// Package commands holds the foodgramctl cobra command tree.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/foodgram/internal/config"
	"github.com/tomtom215/foodgram/internal/database"
	"github.com/tomtom215/foodgram/internal/logging"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

var (
	// Global flags
	dbPath     string
	verbose    bool
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "foodgramctl",
	Short: "Foodgram maintenance tool",
	Long: `foodgramctl works directly on the Foodgram DuckDB store.

Configuration is read from config.yaml (or $CONFIG_PATH) and the environment,
the same way the server reads it. Only the database and short link sections
are required, so no JWT secret is needed.

Stop the server first: DuckDB allows a single writing process.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := "warn"
		if verbose {
			level = "debug"
		}
		logging.Init(logging.Config{
			Level:     level,
			Format:    "console",
			Timestamp: true,
			Output:    cmd.ErrOrStderr(),
		})
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "DuckDB file (overrides DUCKDB_PATH)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}

// openStore loads the storage configuration and opens the database. The
// caller closes the returned DB.
func openStore() (*database.DB, *config.Config, error) {
	cfg, err := config.LoadStorage()
	if err != nil {
		return nil, nil, err
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	opts, err := database.TokenOptions(&cfg.ShortLink)
	if err != nil {
		return nil, nil, err
	}
	db, err := database.New(&cfg.Database, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", cfg.Database.Path, err)
	}
	return db, cfg, nil
}

func closeStore(db *database.DB) {
	if err := db.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing database")
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
