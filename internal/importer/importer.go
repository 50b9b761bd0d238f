// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

// Package importer loads the ingredient catalog from CSV.
//
// Each row is "name,measurement_unit". Blank, malformed and over-long rows
// are skipped; rows already in the catalog are counted as duplicates.
//
//	imp := importer.New(db, importer.WithBatchSize(500))
//	stats, err := imp.Import(ctx, f)
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/tomtom215/foodgram/internal/events"
	"github.com/tomtom215/foodgram/internal/logging"
	"github.com/tomtom215/foodgram/internal/metrics"
	"github.com/tomtom215/foodgram/internal/models"
)

// DefaultBatchSize is the number of rows inserted per transaction.
const DefaultBatchSize = 1000

// ErrImportInProgress is returned when Import is called concurrently.
var ErrImportInProgress = errors.New("import already in progress")

// IngredientStore is the storage the importer writes to.
type IngredientStore interface {
	BulkInsertIngredients(ctx context.Context, ings []models.Ingredient) (int, error)
}

// Stats describes one import run.
type Stats struct {
	// Total is the number of CSV records read, including skipped ones.
	Total int
	// Imported is the number of new catalog rows.
	Imported int
	// Duplicates is the number of valid rows already present.
	Duplicates int
	// Skipped is the number of blank, malformed or over-long rows.
	Skipped int

	StartTime time.Time
	EndTime   time.Time
}

// Duration returns the elapsed time of the run.
func (s *Stats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// RowsPerSecond returns the processing rate.
func (s *Stats) RowsPerSecond() float64 {
	d := s.Duration().Seconds()
	if d == 0 {
		return 0
	}
	return float64(s.Total) / d
}

// Importer loads ingredients into an IngredientStore.
type Importer struct {
	db        IngredientStore
	batchSize int
	emitter   events.Emitter

	mu      sync.Mutex
	running bool
}

// Option configures an Importer.
type Option func(*Importer)

// WithBatchSize sets the rows per insert transaction.
func WithBatchSize(n int) Option {
	return func(i *Importer) {
		if n > 0 {
			i.batchSize = n
		}
	}
}

// WithEmitter publishes ingredient.changed after an import that added rows.
func WithEmitter(e events.Emitter) Option {
	return func(i *Importer) {
		i.emitter = e
	}
}

// New creates an Importer.
func New(db IngredientStore, opts ...Option) *Importer {
	i := &Importer{
		db:        db,
		batchSize: DefaultBatchSize,
		emitter:   events.NopEmitter{},
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Import reads r to the end. On error the returned Stats still reflect the
// batches committed so far.
func (i *Importer) Import(ctx context.Context, r io.Reader) (*Stats, error) {
	i.mu.Lock()
	if i.running {
		i.mu.Unlock()
		return nil, ErrImportInProgress
	}
	i.running = true
	i.mu.Unlock()
	defer func() {
		i.mu.Lock()
		i.running = false
		i.mu.Unlock()
	}()

	stats := &Stats{StartTime: time.Now()}
	defer func() {
		stats.EndTime = time.Now()
		metrics.RecordImport(stats.Imported, stats.Duplicates, stats.Skipped)
	}()

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	batch := make([]models.Ingredient, 0, i.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		inserted, err := i.db.BulkInsertIngredients(ctx, batch)
		if err != nil {
			return fmt.Errorf("insert batch ending at record %d: %w", stats.Total, err)
		}
		stats.Imported += inserted
		stats.Duplicates += len(batch) - inserted
		batch = batch[:0]
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		stats.Total++
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				stats.Skipped++
				continue
			}
			return stats, fmt.Errorf("read csv: %w", err)
		}

		ing, ok := parseRecord(record, stats.Total == 1)
		if !ok {
			stats.Skipped++
			continue
		}

		batch = append(batch, ing)
		if len(batch) >= i.batchSize {
			if err := flush(); err != nil {
				return stats, err
			}
		}
	}

	if err := flush(); err != nil {
		return stats, err
	}

	if stats.Imported > 0 {
		i.emitter.Emit(ctx, events.IngredientChanged(0, 0))
	}

	logging.Info().
		Int("total", stats.Total).
		Int("imported", stats.Imported).
		Int("duplicates", stats.Duplicates).
		Int("skipped", stats.Skipped).
		Dur("duration", stats.Duration()).
		Msg("Ingredient import completed")

	return stats, nil
}

// parseRecord validates one CSV record. first strips a UTF-8 byte order mark.
func parseRecord(record []string, first bool) (models.Ingredient, bool) {
	if len(record) != 2 {
		return models.Ingredient{}, false
	}

	name := record[0]
	if first {
		name = strings.TrimPrefix(name, "\ufeff")
	}
	name = strings.TrimSpace(name)
	unit := strings.TrimSpace(record[1])

	if name == "" || unit == "" {
		return models.Ingredient{}, false
	}
	if utf8.RuneCountInString(name) > models.MaxNameLength ||
		utf8.RuneCountInString(unit) > models.MaxMeasurementUnitLength {
		return models.Ingredient{}, false
	}
	return models.Ingredient{Name: name, MeasurementUnit: unit}, true
}
