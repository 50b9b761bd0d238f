// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package commands

import (
	"github.com/spf13/cobra"

	"github.com/tomtom215/foodgram/cmd/foodgramctl/output"
	"github.com/tomtom215/foodgram/internal/models"
)

var schemaHistory bool

type schemaResult struct {
	Version int                      `json:"version"`
	History []models.SchemaMigration `json:"history,omitempty"`
}

var schemaCmd = &cobra.Command{
	Use:   "schema-version",
	Short: "Show the applied schema version",
	Long: `Open the store, apply pending migrations and print the current schema
version. --history lists every applied migration.`,
	Args: cobra.NoArgs,
	RunE: runSchemaVersion,
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().BoolVar(&schemaHistory, "history", false, "List applied migrations")
}

func runSchemaVersion(cmd *cobra.Command, args []string) error {
	db, _, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(db)

	ctx := cmd.Context()
	var res schemaResult
	if res.Version, err = db.GetCurrentSchemaVersion(ctx); err != nil {
		return err
	}
	if schemaHistory {
		if res.History, err = db.GetMigrationHistory(ctx); err != nil {
			return err
		}
	}

	w := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(w, res)
	}
	output.Info(w, "Schema version %d", res.Version)
	for _, m := range res.History {
		output.Field(w, m.AppliedAt.Format("2006-01-02 15:04:05"), m.Name)
	}
	return nil
}
