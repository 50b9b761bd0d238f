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
	"github.com/tomtom215/foodgram/internal/shortlink"
)

// recipeSelect yields one recipe with its author and the viewer flags.
// The first three arguments are the viewer ID.
const recipeSelect = `
	SELECT r.id, r.name, r.image, r.text, r.cooking_time, r.short_token, r.created_at,
		u.id, u.email, u.username, u.first_name, u.last_name, u.avatar,
		EXISTS (SELECT 1 FROM subscriptions s WHERE s.subscriber_id = ? AND s.author_id = r.author_id),
		EXISTS (SELECT 1 FROM favorites f WHERE f.user_id = ? AND f.recipe_id = r.id),
		EXISTS (SELECT 1 FROM shopping_cart c WHERE c.user_id = ? AND c.recipe_id = r.id)
	FROM recipes r
	JOIN users u ON u.id = r.author_id`

// CreateRecipe stores a recipe by authorID and issues its short token.
// Unknown or repeated tag and ingredient ids return ErrInvalidReference;
// shortlink.ErrExhausted is returned when no free token was found.
func (db *DB) CreateRecipe(ctx context.Context, authorID int64, in *models.RecipeInput) (recipe *models.Recipe, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if err := checkDistinct(in); err != nil {
		return nil, err
	}

	var id int64
	_, err = db.recipeTokens.Issue(ctx, func(ctx context.Context, token string) (err error) {
		defer observe("insert", "recipes", time.Now(), &err)

		err = db.withTx(ctx, func(tx *sql.Tx) error {
			if err := checkReferences(ctx, tx, in); err != nil {
				return err
			}

			taken, err := exists(ctx, tx, `SELECT 1 FROM recipes WHERE short_token = ?`, token)
			if err != nil {
				return fmt.Errorf("failed to check short token: %w", err)
			}
			if taken {
				return shortlink.ErrCollision
			}

			err = tx.QueryRowContext(ctx, `
				INSERT INTO recipes (author_id, name, image, text, cooking_time, short_token)
				VALUES (?, ?, ?, ?, ?, ?)
				RETURNING id`,
				authorID, in.Name, in.Image, in.Text, in.CookingTime, token,
			).Scan(&id)
			if err != nil {
				return err
			}

			return writeComposition(ctx, tx, id, in)
		})
		return classifyRecipeWrite(err, shortlink.ErrCollision)
	})
	if err != nil {
		return nil, err
	}

	return db.GetRecipe(ctx, id, authorID)
}

// UpdateRecipe replaces the fields, tags and ingredients of recipe id.
// Tag and ingredient rows are diffed, not rewritten. The short token is
// never touched.
func (db *DB) UpdateRecipe(ctx context.Context, id int64, in *models.RecipeInput, viewerID int64) (recipe *models.Recipe, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if err := checkDistinct(in); err != nil {
		return nil, err
	}

	err = func() (err error) {
		defer observe("update", "recipes", time.Now(), &err)
		return classifyRecipeWrite(db.withTx(ctx, func(tx *sql.Tx) error {
			found, err := exists(ctx, tx, `SELECT 1 FROM recipes WHERE id = ?`, id)
			if err != nil {
				return fmt.Errorf("failed to look up recipe: %w", err)
			}
			if !found {
				return ErrNotFound
			}
			if err := checkReferences(ctx, tx, in); err != nil {
				return err
			}

			if _, err := tx.ExecContext(ctx,
				`UPDATE recipes SET name = ?, image = ?, text = ?, cooking_time = ? WHERE id = ?`,
				in.Name, in.Image, in.Text, in.CookingTime, id); err != nil {
				return err
			}

			if _, err := tx.ExecContext(ctx,
				`DELETE FROM recipe_tags WHERE recipe_id = ? AND tag_id NOT IN (`+query.Placeholders(len(in.Tags))+`)`,
				append([]interface{}{id}, query.Int64Args(in.Tags)...)...); err != nil {
				return err
			}

			ingIDs := make([]int64, len(in.Ingredients))
			for i, ia := range in.Ingredients {
				ingIDs[i] = ia.ID
			}
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM recipe_ingredients WHERE recipe_id = ? AND ingredient_id NOT IN (`+query.Placeholders(len(ingIDs))+`)`,
				append([]interface{}{id}, query.Int64Args(ingIDs)...)...); err != nil {
				return err
			}

			return writeComposition(ctx, tx, id, in)
		}), ErrWriteConflict)
	}()
	if err != nil {
		return nil, err
	}

	return db.GetRecipe(ctx, id, viewerID)
}

// classifyRecipeWrite maps storage failures: a unique violation or a commit
// conflict becomes retry, a CHECK failure is a bad value. Once checkDistinct
// passed, a unique violation on insert can only be a short token clash
// (retry is shortlink.ErrCollision); on update it can only be a concurrent
// write to the same recipe (retry is ErrWriteConflict).
func classifyRecipeWrite(err, retry error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, shortlink.ErrCollision),
		errors.Is(err, ErrWriteConflict),
		errors.Is(err, ErrInvalidReference),
		errors.Is(err, ErrNotFound):
		return err
	case isUniqueViolation(err), isTransactionConflict(err):
		return fmt.Errorf("%w: %v", retry, err)
	case isCheckViolation(err):
		return fmt.Errorf("%w: %v", ErrConstraint, err)
	default:
		return fmt.Errorf("failed to write recipe: %w", err)
	}
}

// checkDistinct rejects repeated ids before any storage access.
func checkDistinct(in *models.RecipeInput) error {
	if len(in.Tags) == 0 || len(in.Ingredients) == 0 {
		return fmt.Errorf("%w: tags and ingredients are required", ErrInvalidReference)
	}
	seenTags := make(map[int64]bool, len(in.Tags))
	for _, id := range in.Tags {
		if seenTags[id] {
			return fmt.Errorf("%w: tag %d repeated", ErrInvalidReference, id)
		}
		seenTags[id] = true
	}
	seenIngs := make(map[int64]bool, len(in.Ingredients))
	for _, ia := range in.Ingredients {
		if seenIngs[ia.ID] {
			return fmt.Errorf("%w: ingredient %d repeated", ErrInvalidReference, ia.ID)
		}
		seenIngs[ia.ID] = true
	}
	return nil
}

// checkReferences verifies every tag and ingredient exists, inside tx.
func checkReferences(ctx context.Context, tx *sql.Tx, in *models.RecipeInput) error {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tags WHERE id IN (`+query.Placeholders(len(in.Tags))+`)`,
		query.Int64Args(in.Tags)...).Scan(&n)
	if err != nil {
		return fmt.Errorf("failed to check tags: %w", err)
	}
	if n != len(in.Tags) {
		return fmt.Errorf("%w: unknown tag", ErrInvalidReference)
	}

	ingIDs := make([]int64, len(in.Ingredients))
	for i, ia := range in.Ingredients {
		ingIDs[i] = ia.ID
	}
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM ingredients WHERE id IN (`+query.Placeholders(len(ingIDs))+`)`,
		query.Int64Args(ingIDs)...).Scan(&n)
	if err != nil {
		return fmt.Errorf("failed to check ingredients: %w", err)
	}
	if n != len(ingIDs) {
		return fmt.Errorf("%w: unknown ingredient", ErrInvalidReference)
	}
	return nil
}

// writeComposition upserts the tag and ingredient rows of recipeID.
func writeComposition(ctx context.Context, tx *sql.Tx, recipeID int64, in *models.RecipeInput) error {
	for _, tagID := range in.Tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO recipe_tags (recipe_id, tag_id) VALUES (?, ?) ON CONFLICT DO NOTHING`,
			recipeID, tagID); err != nil {
			return err
		}
	}
	for _, ia := range in.Ingredients {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO recipe_ingredients (recipe_id, ingredient_id, amount) VALUES (?, ?, ?)
			ON CONFLICT (recipe_id, ingredient_id) DO UPDATE SET amount = excluded.amount`,
			recipeID, ia.ID, ia.Amount); err != nil {
			return err
		}
	}
	return nil
}

// GetRecipe returns recipe id as seen by viewerID (0 for anonymous).
func (db *DB) GetRecipe(ctx context.Context, id, viewerID int64) (recipe *models.Recipe, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("select", "recipes", time.Now(), &err)

	row := db.conn.QueryRowContext(ctx, recipeSelect+` WHERE r.id = ?`, viewerID, viewerID, viewerID, id)
	recipe, err = scanRecipe(row)
	if err != nil {
		return nil, err
	}

	list := []*models.Recipe{recipe}
	if err = db.loadComposition(ctx, list); err != nil {
		return nil, err
	}
	return recipe, nil
}

// GetRecipeByShortToken resolves a recipe short token.
func (db *DB) GetRecipeByShortToken(ctx context.Context, token string) (recipe *models.Recipe, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("select", "recipes", time.Now(), &err)

	var id int64
	err = db.conn.QueryRowContext(ctx, `SELECT id FROM recipes WHERE short_token = ?`, token).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve short token: %w", err)
	}
	return db.GetRecipe(ctx, id, 0)
}

// RecipeAuthorID returns the author of recipe id.
func (db *DB) RecipeAuthorID(ctx context.Context, id int64) (authorID int64, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("select", "recipes", time.Now(), &err)

	err = db.conn.QueryRowContext(ctx, `SELECT author_id FROM recipes WHERE id = ?`, id).Scan(&authorID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get recipe author: %w", err)
	}
	return authorID, nil
}

// recipeWhere builds the filter clause shared by ListRecipes and CountRecipes.
func recipeWhere(filter models.RecipeFilter) (string, []interface{}) {
	wb := query.NewWhereBuilder()
	if filter.AuthorID != 0 {
		wb.AddEqual("r.author_id", filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		args := make([]interface{}, len(filter.TagSlugs))
		for i, s := range filter.TagSlugs {
			args[i] = s
		}
		wb.AddExists(`SELECT 1 FROM recipe_tags rt JOIN tags t ON t.id = rt.tag_id
			WHERE rt.recipe_id = r.id AND t.slug IN (`+query.Placeholders(len(args))+`)`, args...)
	}
	if filter.FavoritedBy != 0 {
		wb.AddExists(`SELECT 1 FROM favorites fv WHERE fv.recipe_id = r.id AND fv.user_id = ?`, filter.FavoritedBy)
	}
	if filter.InCartOf != 0 {
		wb.AddExists(`SELECT 1 FROM shopping_cart sc WHERE sc.recipe_id = r.id AND sc.user_id = ?`, filter.InCartOf)
	}
	return wb.BuildWithPrefix()
}

// ListRecipes returns recipes matching filter, newest first.
func (db *DB) ListRecipes(ctx context.Context, filter models.RecipeFilter) (recipes []models.Recipe, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("select", "recipes", time.Now(), &err)

	where, whereArgs := recipeWhere(filter)
	args := []interface{}{filter.ViewerID, filter.ViewerID, filter.ViewerID}
	args = append(args, whereArgs...)

	q := recipeSelect + ` ` + where + ` ORDER BY r.created_at DESC, r.id DESC`
	if filter.Limit > 0 {
		q += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	defer rows.Close()

	list := []*models.Recipe{}
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recipes: %w", err)
	}

	if err = db.loadComposition(ctx, list); err != nil {
		return nil, err
	}

	recipes = make([]models.Recipe, len(list))
	for i, r := range list {
		recipes[i] = *r
	}
	return recipes, nil
}

// CountRecipes returns the number of recipes matching filter.
func (db *DB) CountRecipes(ctx context.Context, filter models.RecipeFilter) (count int, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("count", "recipes", time.Now(), &err)

	where, args := recipeWhere(filter)
	err = db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes r `+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	return count, nil
}

// DeleteRecipe removes the recipe with its tags, ingredients, favorites
// and cart entries.
func (db *DB) DeleteRecipe(ctx context.Context, id int64) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("delete", "recipes", time.Now(), &err)

	return db.withTx(ctx, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx, `SELECT 1 FROM recipes WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to look up recipe: %w", err)
		}
		if !found {
			return ErrNotFound
		}
		for _, table := range []string{"recipe_tags", "recipe_ingredients", "favorites", "shopping_cart"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE recipe_id = ?`, id); err != nil {
				return fmt.Errorf("failed to delete from %s: %w", table, err)
			}
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete recipe: %w", err)
		}
		return nil
	})
}

// ListAuthorRecipes returns up to limit short recipes of authorID, newest
// first; limit <= 0 returns all.
func (db *DB) ListAuthorRecipes(ctx context.Context, authorID int64, limit int) (recipes []models.RecipeShort, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("select", "recipes", time.Now(), &err)

	q := `SELECT id, name, image, cooking_time FROM recipes WHERE author_id = ? ORDER BY created_at DESC, id DESC`
	args := []interface{}{authorID}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query author recipes: %w", err)
	}
	defer rows.Close()

	recipes = []models.RecipeShort{}
	for rows.Next() {
		var r models.RecipeShort
		if err := rows.Scan(&r.ID, &r.Name, &r.Image, &r.CookingTime); err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, r)
	}
	return recipes, rows.Err()
}

func scanRecipe(row rowScanner) (*models.Recipe, error) {
	var r models.Recipe
	var avatar sql.NullString
	err := row.Scan(&r.ID, &r.Name, &r.Image, &r.Text, &r.CookingTime, &r.ShortToken, &r.CreatedAt,
		&r.Author.ID, &r.Author.Email, &r.Author.Username, &r.Author.FirstName, &r.Author.LastName, &avatar,
		&r.Author.IsSubscribed, &r.IsFavorited, &r.IsInShoppingCart)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan recipe: %w", err)
	}
	if avatar.Valid {
		r.Author.Avatar = &avatar.String
	}
	r.Tags = []models.Tag{}
	r.Ingredients = []models.RecipeIngredient{}
	return &r, nil
}

// loadComposition fills Tags and Ingredients for recipes with two queries.
func (db *DB) loadComposition(ctx context.Context, recipes []*models.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	byID := make(map[int64]*models.Recipe, len(recipes))
	ids := make([]int64, len(recipes))
	for i, r := range recipes {
		byID[r.ID] = r
		ids[i] = r.ID
	}
	in := query.Placeholders(len(ids))

	rows, err := db.conn.QueryContext(ctx, `
		SELECT rt.recipe_id, t.id, t.name, t.slug
		FROM recipe_tags rt JOIN tags t ON t.id = rt.tag_id
		WHERE rt.recipe_id IN (`+in+`)
		ORDER BY t.name, t.id`, query.Int64Args(ids)...)
	if err != nil {
		return fmt.Errorf("failed to query recipe tags: %w", err)
	}
	for rows.Next() {
		var recipeID int64
		var t models.Tag
		if err := rows.Scan(&recipeID, &t.ID, &t.Name, &t.Slug); err != nil {
			closeQuietly(rows)
			return fmt.Errorf("failed to scan recipe tag: %w", err)
		}
		byID[recipeID].Tags = append(byID[recipeID].Tags, t)
	}
	if err := rows.Err(); err != nil {
		closeQuietly(rows)
		return fmt.Errorf("failed to iterate recipe tags: %w", err)
	}
	closeWithLog(rows, "recipe tag rows")

	rows, err = db.conn.QueryContext(ctx, `
		SELECT ri.recipe_id, i.id, i.name, i.measurement_unit, ri.amount
		FROM recipe_ingredients ri JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ri.recipe_id IN (`+in+`)
		ORDER BY i.name, i.id`, query.Int64Args(ids)...)
	if err != nil {
		return fmt.Errorf("failed to query recipe ingredients: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var recipeID int64
		var ri models.RecipeIngredient
		if err := rows.Scan(&recipeID, &ri.ID, &ri.Name, &ri.MeasurementUnit, &ri.Amount); err != nil {
			return fmt.Errorf("failed to scan recipe ingredient: %w", err)
		}
		byID[recipeID].Ingredients = append(byID[recipeID].Ingredients, ri)
	}
	return rows.Err()
}
