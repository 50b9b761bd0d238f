// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/foodgram/internal/logging"
)

// orphanSweeps removes rows whose parent row is gone. There are no foreign
// keys, so a favorite or cart insert that commits while its recipe is being
// deleted can outlive the recipe. Recipes of deleted authors come first so
// their dependents are removed in the same pass.
var orphanSweeps = []struct {
	table string
	where string
}{
	{"recipes", `NOT EXISTS (SELECT 1 FROM users u WHERE u.id = recipes.author_id)`},
	{"recipe_tags", `NOT EXISTS (SELECT 1 FROM recipes r WHERE r.id = recipe_tags.recipe_id)
		OR NOT EXISTS (SELECT 1 FROM tags t WHERE t.id = recipe_tags.tag_id)`},
	{"recipe_ingredients", `NOT EXISTS (SELECT 1 FROM recipes r WHERE r.id = recipe_ingredients.recipe_id)
		OR NOT EXISTS (SELECT 1 FROM ingredients i WHERE i.id = recipe_ingredients.ingredient_id)`},
	{"favorites", `NOT EXISTS (SELECT 1 FROM recipes r WHERE r.id = favorites.recipe_id)
		OR NOT EXISTS (SELECT 1 FROM users u WHERE u.id = favorites.user_id)`},
	{"shopping_cart", `NOT EXISTS (SELECT 1 FROM recipes r WHERE r.id = shopping_cart.recipe_id)
		OR NOT EXISTS (SELECT 1 FROM users u WHERE u.id = shopping_cart.user_id)`},
	{"subscriptions", `NOT EXISTS (SELECT 1 FROM users u WHERE u.id = subscriptions.subscriber_id)
		OR NOT EXISTS (SELECT 1 FROM users u WHERE u.id = subscriptions.author_id)`},
}

// PurgeOrphans deletes dangling relation rows in one transaction and
// returns how many rows were removed per table. Tables with nothing to
// remove are left out of the result.
func (db *DB) PurgeOrphans(ctx context.Context) (removed map[string]int64, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("delete", "orphans", time.Now(), &err)

	removed = make(map[string]int64)
	err = db.withTx(ctx, func(tx *sql.Tx) error {
		for _, s := range orphanSweeps {
			res, err := tx.ExecContext(ctx, `DELETE FROM `+s.table+` WHERE `+s.where)
			if err != nil {
				return fmt.Errorf("failed to purge orphaned %s: %w", s.table, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to count purged %s: %w", s.table, err)
			}
			if n > 0 {
				removed[s.table] = n
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for table, n := range removed {
		logging.Info().Str("table", table).Int64("rows", n).Msg("Purged orphaned rows")
	}
	return removed, nil
}
