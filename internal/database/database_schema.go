// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

/*
database_schema.go - Database Schema Management

Tables:
  - users: accounts (email and username unique)
  - tags, ingredients: admin-managed catalog
  - recipes: short_token unique, issued once at creation
  - recipe_tags, recipe_ingredients: recipe composition
  - favorites, shopping_cart, subscriptions: per-user relations
  - short_links: generic URL shortener (full_url and token unique)

IDs come from one sequence per table. Uniqueness and range rules are
declared here so concurrent writers cannot break them; the repository
methods check them first to return friendly errors.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range db.getTableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

// getTableCreationQueries returns the sequence and table creation SQL statements
func (db *DB) getTableCreationQueries() []string {
	return []string{
		`CREATE SEQUENCE IF NOT EXISTS users_id_seq START 1`,
		`CREATE SEQUENCE IF NOT EXISTS tags_id_seq START 1`,
		`CREATE SEQUENCE IF NOT EXISTS ingredients_id_seq START 1`,
		`CREATE SEQUENCE IF NOT EXISTS recipes_id_seq START 1`,
		`CREATE SEQUENCE IF NOT EXISTS short_links_id_seq START 1`,

		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT PRIMARY KEY DEFAULT nextval('users_id_seq'),
			email VARCHAR(254) NOT NULL UNIQUE,
			username VARCHAR(150) NOT NULL UNIQUE,
			first_name VARCHAR(150) NOT NULL,
			last_name VARCHAR(150) NOT NULL,
			password_hash TEXT NOT NULL,
			avatar TEXT,
			role VARCHAR(16) NOT NULL DEFAULT 'user',
			created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
		)`,

		`CREATE TABLE IF NOT EXISTS tags (
			id BIGINT PRIMARY KEY DEFAULT nextval('tags_id_seq'),
			name VARCHAR(256) NOT NULL UNIQUE,
			slug VARCHAR(256) NOT NULL UNIQUE
		)`,

		`CREATE TABLE IF NOT EXISTS ingredients (
			id BIGINT PRIMARY KEY DEFAULT nextval('ingredients_id_seq'),
			name VARCHAR(256) NOT NULL,
			measurement_unit VARCHAR(20) NOT NULL,
			UNIQUE (name, measurement_unit)
		)`,

		`CREATE TABLE IF NOT EXISTS recipes (
			id BIGINT PRIMARY KEY DEFAULT nextval('recipes_id_seq'),
			author_id BIGINT NOT NULL,
			name VARCHAR(256) NOT NULL,
			image TEXT NOT NULL,
			text TEXT NOT NULL,
			cooking_time INTEGER NOT NULL CHECK (cooking_time >= 1),
			short_token VARCHAR(64) NOT NULL UNIQUE,
			created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
		)`,

		`CREATE TABLE IF NOT EXISTS recipe_tags (
			recipe_id BIGINT NOT NULL,
			tag_id BIGINT NOT NULL,
			UNIQUE (recipe_id, tag_id)
		)`,

		`CREATE TABLE IF NOT EXISTS recipe_ingredients (
			recipe_id BIGINT NOT NULL,
			ingredient_id BIGINT NOT NULL,
			amount INTEGER NOT NULL CHECK (amount BETWEEN 1 AND 32767),
			UNIQUE (recipe_id, ingredient_id)
		)`,

		`CREATE TABLE IF NOT EXISTS favorites (
			user_id BIGINT NOT NULL,
			recipe_id BIGINT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT current_timestamp,
			UNIQUE (user_id, recipe_id)
		)`,

		`CREATE TABLE IF NOT EXISTS shopping_cart (
			user_id BIGINT NOT NULL,
			recipe_id BIGINT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT current_timestamp,
			UNIQUE (user_id, recipe_id)
		)`,

		`CREATE TABLE IF NOT EXISTS subscriptions (
			subscriber_id BIGINT NOT NULL,
			author_id BIGINT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT current_timestamp,
			UNIQUE (subscriber_id, author_id),
			CHECK (subscriber_id <> author_id)
		)`,

		`CREATE TABLE IF NOT EXISTS short_links (
			id BIGINT PRIMARY KEY DEFAULT nextval('short_links_id_seq'),
			full_url TEXT NOT NULL UNIQUE,
			token VARCHAR(64) NOT NULL UNIQUE,
			requests_count BIGINT NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
		)`,
	}
}

// createIndexes creates lookup indexes for foreign-key style columns.
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_recipes_author ON recipes(author_id)`,
		`CREATE INDEX IF NOT EXISTS idx_recipes_created ON recipes(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_recipe_tags_tag ON recipe_tags(tag_id)`,
		`CREATE INDEX IF NOT EXISTS idx_recipe_ingredients_ingredient ON recipe_ingredients(ingredient_id)`,
		`CREATE INDEX IF NOT EXISTS idx_favorites_recipe ON favorites(recipe_id)`,
		`CREATE INDEX IF NOT EXISTS idx_shopping_cart_recipe ON shopping_cart(recipe_id)`,
		`CREATE INDEX IF NOT EXISTS idx_subscriptions_author ON subscriptions(author_id)`,
	}

	for _, idx := range indexes {
		if _, err := db.conn.ExecContext(ctx, idx); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", idx, err)
		}
	}
	return nil
}
