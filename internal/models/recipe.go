// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package models

import "time"

// RecipeIngredient is an ingredient line of a recipe.
type RecipeIngredient struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// Recipe is the full recipe view. IsFavorited and IsInShoppingCart are
// computed for the viewer and are false for anonymous requests.
type Recipe struct {
	ID               int64              `json:"id"`
	Author           UserProfile        `json:"author"`
	Tags             []Tag              `json:"tags"`
	Ingredients      []RecipeIngredient `json:"ingredients"`
	IsFavorited      bool               `json:"is_favorited"`
	IsInShoppingCart bool               `json:"is_in_shopping_cart"`
	Name             string             `json:"name"`
	Image            string             `json:"image"`
	Text             string             `json:"text"`
	CookingTime      int                `json:"cooking_time"`
	ShortToken       string             `json:"-"`
	CreatedAt        time.Time          `json:"-"`
}

// Short returns the compact view used by favorites, cart and subscriptions.
func (r *Recipe) Short() RecipeShort {
	return RecipeShort{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

// RecipeShort is the compact recipe view.
type RecipeShort struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// IngredientAmount references an ingredient by ID in a write request.
type IngredientAmount struct {
	ID     int64 `json:"id" validate:"required,gt=0"`
	Amount int   `json:"amount" validate:"min=1,max=32767"`
}

// RecipeInput is the write model for create and update.
type RecipeInput struct {
	Name        string             `json:"name" validate:"required,max=256"`
	Image       string             `json:"image" validate:"required"`
	Text        string             `json:"text" validate:"required"`
	CookingTime int                `json:"cooking_time" validate:"min=1"`
	Tags        []int64            `json:"tags" validate:"required,min=1,unique_ids"`
	Ingredients []IngredientAmount `json:"ingredients" validate:"required,min=1,unique_ids,dive"`
}

// RecipeFilter narrows ListRecipes. Zero values disable a filter.
// ViewerID only drives the is_favorited, is_in_shopping_cart and
// is_subscribed flags of the result.
type RecipeFilter struct {
	AuthorID    int64
	TagSlugs    []string
	FavoritedBy int64
	InCartOf    int64
	ViewerID    int64
	Limit       int
	Offset      int
}

// ShoppingListItem is one consolidated (ingredient, unit) total.
type ShoppingListItem struct {
	Name            string
	MeasurementUnit string
	Amount          int64
}
