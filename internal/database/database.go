// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

// Package database is the DuckDB store for users, the recipe catalog,
// favorites, shopping carts, subscriptions and short links.
//
// The schema declares every uniqueness rule (UNIQUE and CHECK
// constraints) so they hold under concurrent writers. DuckDB foreign keys
// are not used; cascades and reference checks run inside the write
// transaction instead.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/foodgram/internal/config"
	"github.com/tomtom215/foodgram/internal/logging"
	"github.com/tomtom215/foodgram/internal/shortlink"
)

// DB wraps the DuckDB connection and provides data access methods
type DB struct {
	conn *sql.DB
	cfg  *config.DatabaseConfig

	// recipeTokens issues recipe short tokens, linkTokens the generic
	// shortener tokens. Both default to shortlink.DefaultConfig.
	recipeTokens *shortlink.Generator
	linkTokens   *shortlink.Generator
}

// Option customizes a DB at construction.
type Option func(*DB)

// WithRecipeTokens sets the generator used by CreateRecipe.
func WithRecipeTokens(g *shortlink.Generator) Option {
	return func(db *DB) {
		db.recipeTokens = g
	}
}

// WithLinkTokens sets the generator used by CreateShortLink.
func WithLinkTokens(g *shortlink.Generator) Option {
	return func(db *DB) {
		db.linkTokens = g
	}
}

// TokenOptions builds both token generators from the shortlink section.
// Recipe tokens use Length, generic links URLLength; both share the
// alphabet and attempt limit.
func TokenOptions(cfg *config.ShortLinkConfig) ([]Option, error) {
	recipe, err := shortlink.NewGenerator(shortlink.Config{
		Alphabet:    cfg.Alphabet,
		Length:      cfg.Length,
		MaxAttempts: cfg.MaxAttempts,
	})
	if err != nil {
		return nil, fmt.Errorf("recipe tokens: %w", err)
	}
	link, err := shortlink.NewGenerator(shortlink.Config{
		Alphabet:    cfg.Alphabet,
		Length:      cfg.URLLength,
		MaxAttempts: cfg.MaxAttempts,
	})
	if err != nil {
		return nil, fmt.Errorf("link tokens: %w", err)
	}
	return []Option{WithRecipeTokens(recipe), WithLinkTokens(link)}, nil
}

// New creates a new database connection and initializes the schema
func New(cfg *config.DatabaseConfig, opts ...Option) (*DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	if cfg.Path != ":memory:" {
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
	}

	// Extensions are not needed; disable autoload so startup never waits
	// on the network.
	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		cfg.Path, numThreads, cfg.MaxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{
		conn: conn,
		cfg:  cfg,
	}
	for _, opt := range opts {
		opt(db)
	}
	if db.recipeTokens == nil || db.linkTokens == nil {
		gen, err := shortlink.NewGenerator(shortlink.DefaultConfig())
		if err != nil {
			closeQuietly(conn)
			return nil, fmt.Errorf("failed to create token generator: %w", err)
		}
		if db.recipeTokens == nil {
			db.recipeTokens = gen
		}
		if db.linkTokens == nil {
			db.linkTokens = gen
		}
	}

	db.configureConnectionPool()

	if err := db.initialize(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return db, nil
}

// Conn returns the underlying SQL database connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// RecipeTokens returns the generator for recipe short tokens; handlers use
// it to reject malformed tokens before querying.
func (db *DB) RecipeTokens() *shortlink.Generator {
	return db.recipeTokens
}

// LinkTokens returns the generator for generic short links.
func (db *DB) LinkTokens() *shortlink.Generator {
	return db.linkTokens
}

// Close closes the database connection.
// It performs a CHECKPOINT before closing to flush the WAL to the main database file.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.Checkpoint(ctx); err != nil {
		logging.Warn().Err(err).Msg("Failed to checkpoint database before close")
	}
	cancel()

	return db.conn.Close()
}

// Ping checks if the database connection is alive
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return fmt.Errorf("database connection is nil")
	}
	return db.conn.PingContext(ctx)
}

// initialize creates tables, runs migrations and indexes.
func (db *DB) initialize() error {
	if err := db.createTables(); err != nil {
		return err
	}

	if err := db.runVersionedMigrations(); err != nil {
		return err
	}

	if err := db.createIndexes(); err != nil {
		return err
	}

	checkpointCtx, checkpointCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer checkpointCancel()
	if err := db.Checkpoint(checkpointCtx); err != nil {
		logging.Warn().Err(err).Msg("Failed to checkpoint after schema initialization")
	}

	return nil
}
