// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/foodgram/internal/models"
)

// CreateTag inserts tag and sets its ID. A taken name or slug returns a
// *ConflictError.
func (db *DB) CreateTag(ctx context.Context, tag *models.Tag) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("insert", "tags", time.Now(), &err)

	err = db.conn.QueryRowContext(ctx,
		`INSERT INTO tags (name, slug) VALUES (?, ?) RETURNING id`, tag.Name, tag.Slug,
	).Scan(&tag.ID)
	if err != nil {
		return classifyTagError(err)
	}
	return nil
}

// GetTag returns the tag or ErrNotFound.
func (db *DB) GetTag(ctx context.Context, id int64) (tag *models.Tag, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("select", "tags", time.Now(), &err)

	var t models.Tag
	err = db.conn.QueryRowContext(ctx, `SELECT id, name, slug FROM tags WHERE id = ?`, id).
		Scan(&t.ID, &t.Name, &t.Slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}
	return &t, nil
}

// ListTags returns all tags ordered by name.
func (db *DB) ListTags(ctx context.Context) (tags []models.Tag, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("select", "tags", time.Now(), &err)

	rows, err := db.conn.QueryContext(ctx, `SELECT id, name, slug FROM tags ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	tags = []models.Tag{}
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// UpdateTag replaces name and slug of tag.ID.
func (db *DB) UpdateTag(ctx context.Context, tag *models.Tag) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("update", "tags", time.Now(), &err)

	res, err := db.conn.ExecContext(ctx, `UPDATE tags SET name = ?, slug = ? WHERE id = ?`,
		tag.Name, tag.Slug, tag.ID)
	if err != nil {
		return classifyTagError(err)
	}
	return requireAffected(res)
}

// DeleteTag removes the tag and detaches it from recipes.
func (db *DB) DeleteTag(ctx context.Context, id int64) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("delete", "tags", time.Now(), &err)

	return db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_tags WHERE tag_id = ?`, id); err != nil {
			return fmt.Errorf("failed to detach tag: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete tag: %w", err)
		}
		return requireAffected(res)
	})
}

func classifyTagError(err error) error {
	switch {
	case isUniqueViolationOn(err, "slug"):
		return &ConflictError{Field: "slug"}
	case isUniqueViolation(err):
		return &ConflictError{Field: "name"}
	default:
		return fmt.Errorf("failed to write tag: %w", err)
	}
}

// CreateIngredient inserts ingredient and sets its ID. A taken
// (name, measurement_unit) pair returns a *ConflictError.
func (db *DB) CreateIngredient(ctx context.Context, ing *models.Ingredient) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("insert", "ingredients", time.Now(), &err)

	err = db.conn.QueryRowContext(ctx,
		`INSERT INTO ingredients (name, measurement_unit) VALUES (?, ?) RETURNING id`,
		ing.Name, ing.MeasurementUnit,
	).Scan(&ing.ID)
	if isUniqueViolation(err) {
		return &ConflictError{Field: "name"}
	}
	if err != nil {
		return fmt.Errorf("failed to create ingredient: %w", err)
	}
	return nil
}

// GetIngredient returns the ingredient or ErrNotFound.
func (db *DB) GetIngredient(ctx context.Context, id int64) (ing *models.Ingredient, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("select", "ingredients", time.Now(), &err)

	var i models.Ingredient
	err = db.conn.QueryRowContext(ctx,
		`SELECT id, name, measurement_unit FROM ingredients WHERE id = ?`, id,
	).Scan(&i.ID, &i.Name, &i.MeasurementUnit)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}
	return &i, nil
}

// SearchIngredients returns ingredients whose name starts with prefix
// (case-sensitive), ordered by name. An empty prefix lists everything.
func (db *DB) SearchIngredients(ctx context.Context, prefix string) (ings []models.Ingredient, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("select", "ingredients", time.Now(), &err)

	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, name, measurement_unit FROM ingredients
		WHERE starts_with(name, ?)
		ORDER BY name, measurement_unit, id`, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to search ingredients: %w", err)
	}
	defer rows.Close()

	ings = []models.Ingredient{}
	for rows.Next() {
		var i models.Ingredient
		if err := rows.Scan(&i.ID, &i.Name, &i.MeasurementUnit); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ings = append(ings, i)
	}
	return ings, rows.Err()
}

// UpdateIngredient replaces name and unit of ing.ID.
func (db *DB) UpdateIngredient(ctx context.Context, ing *models.Ingredient) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("update", "ingredients", time.Now(), &err)

	res, err := db.conn.ExecContext(ctx,
		`UPDATE ingredients SET name = ?, measurement_unit = ? WHERE id = ?`,
		ing.Name, ing.MeasurementUnit, ing.ID)
	if isUniqueViolation(err) {
		return &ConflictError{Field: "name"}
	}
	if err != nil {
		return fmt.Errorf("failed to update ingredient: %w", err)
	}
	return requireAffected(res)
}

// DeleteIngredient removes the ingredient and its recipe amounts.
func (db *DB) DeleteIngredient(ctx context.Context, id int64) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("delete", "ingredients", time.Now(), &err)

	return db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_ingredients WHERE ingredient_id = ?`, id); err != nil {
			return fmt.Errorf("failed to detach ingredient: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM ingredients WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete ingredient: %w", err)
		}
		return requireAffected(res)
	})
}

// BulkInsertIngredients inserts rows in one transaction, ignoring pairs that
// already exist. It returns how many rows were new.
func (db *DB) BulkInsertIngredients(ctx context.Context, ings []models.Ingredient) (inserted int, err error) {
	if len(ings) == 0 {
		return 0, nil
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("insert", "ingredients", time.Now(), &err)

	err = db.withTx(ctx, func(tx *sql.Tx) error {
		var before, after int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM ingredients`).Scan(&before); err != nil {
			return fmt.Errorf("failed to count ingredients: %w", err)
		}

		values := make([]string, 0, len(ings))
		args := make([]interface{}, 0, len(ings)*2)
		seen := make(map[models.Ingredient]bool, len(ings))
		for _, ing := range ings {
			ing.ID = 0
			if seen[ing] {
				continue
			}
			seen[ing] = true
			values = append(values, "(?, ?)")
			args = append(args, ing.Name, ing.MeasurementUnit)
		}
		query := `INSERT INTO ingredients (name, measurement_unit) VALUES ` +
			strings.Join(values, ", ") + ` ON CONFLICT DO NOTHING`
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert ingredients: %w", err)
		}

		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM ingredients`).Scan(&after); err != nil {
			return fmt.Errorf("failed to count ingredients: %w", err)
		}
		inserted = after - before
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}
