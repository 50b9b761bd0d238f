// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package database

import (
	"context"
	"testing"

	"github.com/tomtom215/foodgram/internal/models"
)

func countRows(t *testing.T, db *DB, table string) int {
	t.Helper()
	var n int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func TestPurgeOrphans(t *testing.T) {
	db := setupTestDB(t)
	f := newRecipeFixture(t, db)
	ctx := context.Background()
	fan := mustCreateUser(t, db, "fan")

	r := mustCreateRecipe(t, db, f.author.ID,
		recipeInput("Crepes", []int64{f.breakfast.ID}, models.IngredientAmount{ID: f.milk.ID, Amount: 250}))
	if _, err := db.AddFavorite(ctx, fan.ID, r.ID); err != nil {
		t.Fatalf("AddFavorite: %v", err)
	}
	if _, err := db.AddToCart(ctx, fan.ID, r.ID); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	if err := db.Subscribe(ctx, fan.ID, f.author.ID); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	// Rows a favorite or cart insert leaves behind when it commits while
	// the recipe (or a user) is being deleted.
	const missing = 9999
	dangling := []struct {
		query string
		args  []interface{}
	}{
		{`INSERT INTO favorites (user_id, recipe_id) VALUES (?, ?)`, []interface{}{fan.ID, missing}},
		{`INSERT INTO shopping_cart (user_id, recipe_id) VALUES (?, ?)`, []interface{}{fan.ID, missing}},
		{`INSERT INTO shopping_cart (user_id, recipe_id) VALUES (?, ?)`, []interface{}{missing, r.ID}},
		{`INSERT INTO recipe_tags (recipe_id, tag_id) VALUES (?, ?)`, []interface{}{missing, f.breakfast.ID}},
		{`INSERT INTO subscriptions (subscriber_id, author_id) VALUES (?, ?)`, []interface{}{fan.ID, missing}},
	}
	for _, d := range dangling {
		if _, err := db.conn.ExecContext(ctx, d.query, d.args...); err != nil {
			t.Fatalf("seed %q: %v", d.query, err)
		}
	}

	removed, err := db.PurgeOrphans(ctx)
	if err != nil {
		t.Fatalf("PurgeOrphans: %v", err)
	}

	want := map[string]int64{
		"favorites":     1,
		"shopping_cart": 2,
		"recipe_tags":   1,
		"subscriptions": 1,
	}
	if len(removed) != len(want) {
		t.Errorf("removed = %v, want %v", removed, want)
	}
	for table, n := range want {
		if removed[table] != n {
			t.Errorf("removed[%s] = %d, want %d", table, removed[table], n)
		}
	}

	survivors := []struct {
		table string
		want  int
	}{
		{"recipes", 1},
		{"recipe_tags", 1},
		{"recipe_ingredients", 1},
		{"favorites", 1},
		{"shopping_cart", 1},
		{"subscriptions", 1},
	}
	for _, s := range survivors {
		if got := countRows(t, db, s.table); got != s.want {
			t.Errorf("%s rows = %d, want %d", s.table, got, s.want)
		}
	}

	again, err := db.PurgeOrphans(ctx)
	if err != nil {
		t.Fatalf("second PurgeOrphans: %v", err)
	}
	if len(again) != 0 {
		t.Errorf("second pass removed %v, want nothing", again)
	}
}

func TestPurgeOrphans_RecipeWithoutAuthor(t *testing.T) {
	db := setupTestDB(t)
	f := newRecipeFixture(t, db)
	ctx := context.Background()
	fan := mustCreateUser(t, db, "fan")

	r := mustCreateRecipe(t, db, f.author.ID,
		recipeInput("Porridge", []int64{f.breakfast.ID}, models.IngredientAmount{ID: f.milk.ID, Amount: 200}))
	if _, err := db.AddFavorite(ctx, fan.ID, r.ID); err != nil {
		t.Fatalf("AddFavorite: %v", err)
	}
	// The author row vanishes without the cascade DeleteUser performs.
	if _, err := db.conn.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, f.author.ID); err != nil {
		t.Fatalf("delete author: %v", err)
	}

	removed, err := db.PurgeOrphans(ctx)
	if err != nil {
		t.Fatalf("PurgeOrphans: %v", err)
	}
	for _, table := range []string{"recipes", "recipe_tags", "recipe_ingredients", "favorites"} {
		if removed[table] != 1 {
			t.Errorf("removed[%s] = %d, want 1", table, removed[table])
		}
		if got := countRows(t, db, table); got != 0 {
			t.Errorf("%s rows = %d, want 0", table, got)
		}
	}
}
