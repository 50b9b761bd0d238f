// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package database

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/foodgram/internal/models"
)

func TestRecipeRelations(t *testing.T) {
	db := setupTestDB(t)
	f := newRecipeFixture(t, db)
	ctx := context.Background()
	fan := mustCreateUser(t, db, "fan")

	r := mustCreateRecipe(t, db, f.author.ID,
		recipeInput("Crepes", []int64{f.breakfast.ID}, models.IngredientAmount{ID: f.milk.ID, Amount: 250}))

	relations := []struct {
		name   string
		add    func(ctx context.Context, userID, recipeID int64) (*models.RecipeShort, error)
		remove func(ctx context.Context, userID, recipeID int64) error
	}{
		{"favorites", db.AddFavorite, db.RemoveFavorite},
		{"shopping_cart", db.AddToCart, db.RemoveFromCart},
	}
	for _, rel := range relations {
		t.Run(rel.name, func(t *testing.T) {
			short, err := rel.add(ctx, fan.ID, r.ID)
			if err != nil {
				t.Fatalf("add: %v", err)
			}
			if short.ID != r.ID || short.Name != "Crepes" || short.CookingTime != r.CookingTime {
				t.Errorf("short = %+v", short)
			}

			if _, err := rel.add(ctx, fan.ID, r.ID); !errors.Is(err, ErrAlreadyExists) {
				t.Errorf("second add: %v, want ErrAlreadyExists", err)
			}
			if _, err := rel.add(ctx, fan.ID, 9999); !errors.Is(err, ErrNotFound) {
				t.Errorf("add missing recipe: %v, want ErrNotFound", err)
			}

			if err := rel.remove(ctx, fan.ID, r.ID); err != nil {
				t.Fatalf("remove: %v", err)
			}
			if err := rel.remove(ctx, fan.ID, r.ID); !errors.Is(err, ErrNotFound) {
				t.Errorf("second remove: %v, want ErrNotFound", err)
			}
		})
	}
}

func TestSubscriptions(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	reader := mustCreateUser(t, db, "reader")
	zoe := mustCreateUser(t, db, "zoe")
	adam := mustCreateUser(t, db, "adam")

	if err := db.Subscribe(ctx, reader.ID, reader.ID); !errors.Is(err, ErrSelfSubscription) {
		t.Errorf("self subscribe: %v", err)
	}
	if err := db.Subscribe(ctx, reader.ID, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("subscribe to missing author: %v", err)
	}

	for _, author := range []*models.User{zoe, adam} {
		if err := db.Subscribe(ctx, reader.ID, author.ID); err != nil {
			t.Fatalf("Subscribe(%s): %v", author.Username, err)
		}
	}
	if err := db.Subscribe(ctx, reader.ID, zoe.ID); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("duplicate subscribe: %v", err)
	}

	ok, err := db.IsSubscribed(ctx, reader.ID, zoe.ID)
	if err != nil || !ok {
		t.Errorf("IsSubscribed = %v, %v", ok, err)
	}
	ok, err = db.IsSubscribed(ctx, zoe.ID, reader.ID)
	if err != nil || ok {
		t.Errorf("reverse IsSubscribed = %v, %v", ok, err)
	}
	if ok, _ := db.IsSubscribed(ctx, 0, zoe.ID); ok {
		t.Error("anonymous viewer reported as subscribed")
	}

	set, err := db.SubscribedAuthorIDs(ctx, reader.ID, []int64{zoe.ID, adam.ID, reader.ID})
	if err != nil {
		t.Fatalf("SubscribedAuthorIDs: %v", err)
	}
	if !set[zoe.ID] || !set[adam.ID] || set[reader.ID] {
		t.Errorf("set = %v", set)
	}

	authors, err := db.ListSubscriptions(ctx, reader.ID, 10, 0)
	if err != nil {
		t.Fatalf("ListSubscriptions: %v", err)
	}
	if len(authors) != 2 || authors[0].ID != adam.ID || authors[1].ID != zoe.ID {
		t.Errorf("authors = %+v, want adam then zoe", authors)
	}
	n, err := db.CountSubscriptions(ctx, reader.ID)
	if err != nil || n != 2 {
		t.Errorf("CountSubscriptions = %d, %v", n, err)
	}

	if err := db.Unsubscribe(ctx, reader.ID, zoe.ID); err != nil {
		t.Fatalf("Unsubscribe: %v", err)
	}
	if err := db.Unsubscribe(ctx, reader.ID, zoe.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Unsubscribe: %v", err)
	}

	r, err := db.ListRecipes(ctx, models.RecipeFilter{ViewerID: reader.ID})
	if err != nil {
		t.Fatalf("ListRecipes: %v", err)
	}
	if len(r) != 0 {
		t.Errorf("unexpected recipes %+v", r)
	}
}

func TestRecipeAuthorIsSubscribedFlag(t *testing.T) {
	db := setupTestDB(t)
	f := newRecipeFixture(t, db)
	ctx := context.Background()
	reader := mustCreateUser(t, db, "reader")

	r := mustCreateRecipe(t, db, f.author.ID,
		recipeInput("Tea", []int64{f.breakfast.ID}, models.IngredientAmount{ID: f.milk.ID, Amount: 20}))
	if err := db.Subscribe(ctx, reader.ID, f.author.ID); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	got, err := db.GetRecipe(ctx, r.ID, reader.ID)
	if err != nil {
		t.Fatalf("GetRecipe: %v", err)
	}
	if !got.Author.IsSubscribed {
		t.Error("author should be flagged as subscribed for reader")
	}

	anon, err := db.GetRecipe(ctx, r.ID, 0)
	if err != nil {
		t.Fatalf("GetRecipe anonymous: %v", err)
	}
	if anon.Author.IsSubscribed {
		t.Error("anonymous viewer should not see is_subscribed")
	}
}

func TestShoppingListItems_Aggregates(t *testing.T) {
	db := setupTestDB(t)
	f := newRecipeFixture(t, db)
	ctx := context.Background()
	shopper := mustCreateUser(t, db, "shopper")
	flour := mustCreateIngredient(t, db, "flour", "g")
	eggsByWeight := mustCreateIngredient(t, db, "egg", "g")

	pancakes := mustCreateRecipe(t, db, f.author.ID, recipeInput("Pancakes", []int64{f.breakfast.ID},
		models.IngredientAmount{ID: f.egg.ID, Amount: 2},
		models.IngredientAmount{ID: f.milk.ID, Amount: 300},
		models.IngredientAmount{ID: flour.ID, Amount: 150},
	))
	cake := mustCreateRecipe(t, db, f.author.ID, recipeInput("Cake", []int64{f.dinner.ID},
		models.IngredientAmount{ID: f.egg.ID, Amount: 3},
		models.IngredientAmount{ID: flour.ID, Amount: 200},
		models.IngredientAmount{ID: eggsByWeight.ID, Amount: 50},
	))
	mustCreateRecipe(t, db, f.author.ID, recipeInput("Bread", []int64{f.dinner.ID},
		models.IngredientAmount{ID: flour.ID, Amount: 500},
	))

	empty, err := db.ShoppingListItems(ctx, shopper.ID)
	if err != nil {
		t.Fatalf("ShoppingListItems: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("empty cart yielded %+v", empty)
	}

	for _, r := range []*models.Recipe{pancakes, cake} {
		if _, err := db.AddToCart(ctx, shopper.ID, r.ID); err != nil {
			t.Fatalf("AddToCart: %v", err)
		}
	}

	items, err := db.ShoppingListItems(ctx, shopper.ID)
	if err != nil {
		t.Fatalf("ShoppingListItems: %v", err)
	}
	want := []models.ShoppingListItem{
		{Name: "egg", MeasurementUnit: "g", Amount: 50},
		{Name: "egg", MeasurementUnit: "pcs", Amount: 5},
		{Name: "flour", MeasurementUnit: "g", Amount: 350},
		{Name: "milk", MeasurementUnit: "ml", Amount: 300},
	}
	if len(items) != len(want) {
		t.Fatalf("items = %+v, want %+v", items, want)
	}
	for i := range want {
		if items[i] != want[i] {
			t.Errorf("items[%d] = %+v, want %+v", i, items[i], want[i])
		}
	}
}
