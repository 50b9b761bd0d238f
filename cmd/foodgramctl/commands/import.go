// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomtom215/foodgram/cmd/foodgramctl/output"
	"github.com/tomtom215/foodgram/internal/importer"
)

var (
	importFile      string
	importBatchSize int
)

type importResult struct {
	File       string  `json:"file"`
	Total      int     `json:"total"`
	Imported   int     `json:"imported"`
	Duplicates int     `json:"duplicates"`
	Skipped    int     `json:"skipped"`
	DurationMS int64   `json:"duration_ms"`
	RowsPerSec float64 `json:"rows_per_second"`
}

var importCmd = &cobra.Command{
	Use:   "import-ingredients",
	Short: "Load the ingredient catalog from a CSV file",
	Long: `Read "name,measurement_unit" records and insert the ones not already in
the catalog. Blank, malformed and over-long rows are skipped. Running the
same file twice imports nothing the second time.

Examples:
  foodgramctl import-ingredients --file data/ingredients.csv
  foodgramctl import-ingredients --file ingredients.csv --batch-size 500 --json`,
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "CSV file to import (required)")
	importCmd.Flags().IntVar(&importBatchSize, "batch-size", importer.DefaultBatchSize, "Rows per insert batch")
	_ = importCmd.MarkFlagRequired("file")
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(importFile)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	db, _, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(db)

	stats, err := importer.New(db, importer.WithBatchSize(importBatchSize)).Import(cmd.Context(), f)
	if err != nil {
		return fmt.Errorf("import %s: %w", importFile, err)
	}

	res := importResult{
		File:       importFile,
		Total:      stats.Total,
		Imported:   stats.Imported,
		Duplicates: stats.Duplicates,
		Skipped:    stats.Skipped,
		DurationMS: stats.Duration().Milliseconds(),
		RowsPerSec: stats.RowsPerSecond(),
	}
	w := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(w, res)
	}
	output.Success(w, "Imported %d of %d ingredients from %s", res.Imported, res.Total, res.File)
	output.Field(w, "duplicates", res.Duplicates)
	output.Field(w, "skipped", res.Skipped)
	output.Field(w, "duration", stats.Duration())
	return nil
}
