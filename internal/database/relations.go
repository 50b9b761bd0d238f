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
	"time"

	"github.com/tomtom215/foodgram/internal/database/query"
	"github.com/tomtom215/foodgram/internal/models"
)

// AddFavorite marks recipeID as a favorite of userID.
func (db *DB) AddFavorite(ctx context.Context, userID, recipeID int64) (*models.RecipeShort, error) {
	return db.addRecipeRelation(ctx, "favorites", userID, recipeID)
}

// RemoveFavorite returns ErrNotFound when the recipe was not a favorite.
func (db *DB) RemoveFavorite(ctx context.Context, userID, recipeID int64) error {
	return db.removeRecipeRelation(ctx, "favorites", userID, recipeID)
}

// AddToCart puts recipeID into the shopping cart of userID.
func (db *DB) AddToCart(ctx context.Context, userID, recipeID int64) (*models.RecipeShort, error) {
	return db.addRecipeRelation(ctx, "shopping_cart", userID, recipeID)
}

// RemoveFromCart returns ErrNotFound when the recipe was not in the cart.
func (db *DB) RemoveFromCart(ctx context.Context, userID, recipeID int64) error {
	return db.removeRecipeRelation(ctx, "shopping_cart", userID, recipeID)
}

// addRecipeRelation inserts (userID, recipeID) into table, a trusted name.
// Missing recipe: ErrNotFound. Existing pair: ErrAlreadyExists.
func (db *DB) addRecipeRelation(ctx context.Context, table string, userID, recipeID int64) (short *models.RecipeShort, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("insert", table, time.Now(), &err)

	var r models.RecipeShort
	err = db.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`SELECT id, name, image, cooking_time FROM recipes WHERE id = ?`, recipeID,
		).Scan(&r.ID, &r.Name, &r.Image, &r.CookingTime)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to look up recipe: %w", err)
		}

		taken, err := exists(ctx, tx,
			`SELECT 1 FROM `+table+` WHERE user_id = ? AND recipe_id = ?`, userID, recipeID)
		if err != nil {
			return fmt.Errorf("failed to check %s: %w", table, err)
		}
		if taken {
			return ErrAlreadyExists
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO `+table+` (user_id, recipe_id) VALUES (?, ?)`, userID, recipeID)
		return err
	})
	switch {
	case err == nil:
		return &r, nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrAlreadyExists):
		return nil, err
	case isUniqueViolation(err), isTransactionConflict(err):
		return nil, ErrAlreadyExists
	default:
		return nil, fmt.Errorf("failed to add to %s: %w", table, err)
	}
}

func (db *DB) removeRecipeRelation(ctx context.Context, table string, userID, recipeID int64) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("delete", table, time.Now(), &err)

	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM `+table+` WHERE user_id = ? AND recipe_id = ?`, userID, recipeID)
	if err != nil {
		return fmt.Errorf("failed to remove from %s: %w", table, err)
	}
	return requireAffected(res)
}

// Subscribe makes subscriberID follow authorID.
func (db *DB) Subscribe(ctx context.Context, subscriberID, authorID int64) (err error) {
	if subscriberID == authorID {
		return ErrSelfSubscription
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("insert", "subscriptions", time.Now(), &err)

	err = db.withTx(ctx, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx, `SELECT 1 FROM users WHERE id = ?`, authorID)
		if err != nil {
			return fmt.Errorf("failed to look up author: %w", err)
		}
		if !found {
			return ErrNotFound
		}

		taken, err := exists(ctx, tx,
			`SELECT 1 FROM subscriptions WHERE subscriber_id = ? AND author_id = ?`, subscriberID, authorID)
		if err != nil {
			return fmt.Errorf("failed to check subscription: %w", err)
		}
		if taken {
			return ErrAlreadyExists
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO subscriptions (subscriber_id, author_id) VALUES (?, ?)`, subscriberID, authorID)
		return err
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrAlreadyExists):
		return err
	case isCheckViolation(err):
		return ErrSelfSubscription
	case isUniqueViolation(err), isTransactionConflict(err):
		return ErrAlreadyExists
	default:
		return fmt.Errorf("failed to subscribe: %w", err)
	}
}

// Unsubscribe returns ErrNotFound when no subscription existed.
func (db *DB) Unsubscribe(ctx context.Context, subscriberID, authorID int64) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("delete", "subscriptions", time.Now(), &err)

	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM subscriptions WHERE subscriber_id = ? AND author_id = ?`, subscriberID, authorID)
	if err != nil {
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}
	return requireAffected(res)
}

// IsSubscribed reports whether subscriberID follows authorID.
func (db *DB) IsSubscribed(ctx context.Context, subscriberID, authorID int64) (ok bool, err error) {
	if subscriberID == 0 {
		return false, nil
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("select", "subscriptions", time.Now(), &err)

	ok, err = exists(ctx, db.conn,
		`SELECT 1 FROM subscriptions WHERE subscriber_id = ? AND author_id = ?`, subscriberID, authorID)
	if err != nil {
		return false, fmt.Errorf("failed to check subscription: %w", err)
	}
	return ok, nil
}

// SubscribedAuthorIDs returns which of authorIDs subscriberID follows.
// List handlers use it to fill is_subscribed without one query per row.
func (db *DB) SubscribedAuthorIDs(ctx context.Context, subscriberID int64, authorIDs []int64) (set map[int64]bool, err error) {
	set = make(map[int64]bool)
	if subscriberID == 0 || len(authorIDs) == 0 {
		return set, nil
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("select", "subscriptions", time.Now(), &err)

	args := append([]interface{}{subscriberID}, query.Int64Args(authorIDs)...)
	rows, err := db.conn.QueryContext(ctx,
		`SELECT author_id FROM subscriptions WHERE subscriber_id = ? AND author_id IN (`+
			query.Placeholders(len(authorIDs))+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		set[id] = true
	}
	return set, rows.Err()
}

// ListSubscriptions returns the authors subscriberID follows, by username.
func (db *DB) ListSubscriptions(ctx context.Context, subscriberID int64, limit, offset int) (authors []models.User, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("select", "subscriptions", time.Now(), &err)

	rows, err := db.conn.QueryContext(ctx, `
		SELECT u.id, u.email, u.username, u.first_name, u.last_name, u.password_hash, u.avatar, u.role, u.created_at
		FROM subscriptions s JOIN users u ON u.id = s.author_id
		WHERE s.subscriber_id = ?
		ORDER BY u.username, u.id
		LIMIT ? OFFSET ?`, subscriberID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions: %w", err)
	}
	defer rows.Close()

	authors = []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		authors = append(authors, *u)
	}
	return authors, rows.Err()
}

// CountSubscriptions returns how many authors subscriberID follows.
func (db *DB) CountSubscriptions(ctx context.Context, subscriberID int64) (count int, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("count", "subscriptions", time.Now(), &err)

	err = db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM subscriptions WHERE subscriber_id = ?`, subscriberID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}
	return count, nil
}

// ShoppingListItems sums ingredient amounts over the cart of userID,
// one row per (name, unit), ordered by name then unit.
func (db *DB) ShoppingListItems(ctx context.Context, userID int64) (items []models.ShoppingListItem, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("select", "shopping_cart", time.Now(), &err)

	rows, err := db.conn.QueryContext(ctx, `
		SELECT i.name, i.measurement_unit, SUM(ri.amount)::BIGINT
		FROM shopping_cart c
		JOIN recipe_ingredients ri ON ri.recipe_id = c.recipe_id
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE c.user_id = ?
		GROUP BY i.name, i.measurement_unit
		ORDER BY i.name, i.measurement_unit`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shopping list: %w", err)
	}
	defer rows.Close()

	items = []models.ShoppingListItem{}
	for rows.Next() {
		var it models.ShoppingListItem
		if err := rows.Scan(&it.Name, &it.MeasurementUnit, &it.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan shopping list item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
