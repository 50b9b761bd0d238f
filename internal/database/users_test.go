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

func TestCreateUser(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	u := &models.User{
		Email:        "chef@example.com",
		Username:     "chef",
		FirstName:    "Julia",
		LastName:     "Child",
		PasswordHash: "hash",
	}
	if err := db.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.ID == 0 {
		t.Error("expected ID to be set")
	}
	if u.Role != models.RoleUser {
		t.Errorf("Role = %q, want %q", u.Role, models.RoleUser)
	}
	if u.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	got, err := db.GetUserByEmail(ctx, "chef@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if got.ID != u.ID || got.Username != "chef" || got.Avatar != nil {
		t.Errorf("GetUserByEmail = %+v", got)
	}

	tests := []struct {
		name  string
		user  models.User
		field string
	}{
		{"duplicate email", models.User{Email: "chef@example.com", Username: "other", PasswordHash: "h"}, "email"},
		{"duplicate username", models.User{Email: "other@example.com", Username: "chef", PasswordHash: "h"}, "username"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := tt.user
			err := db.CreateUser(ctx, &u)
			var conflict *ConflictError
			if !errors.As(err, &conflict) {
				t.Fatalf("expected ConflictError, got %v", err)
			}
			if conflict.Field != tt.field {
				t.Errorf("Field = %q, want %q", conflict.Field, tt.field)
			}
			if !errors.Is(err, ErrAlreadyExists) {
				t.Error("expected ErrAlreadyExists")
			}
		})
	}
}

func TestGetUser_NotFound(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if _, err := db.GetUserByID(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetUserByID: error = %v, want ErrNotFound", err)
	}
	if _, err := db.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetUserByEmail: error = %v, want ErrNotFound", err)
	}
	if err := db.UpdateUserPassword(ctx, 999, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateUserPassword: error = %v, want ErrNotFound", err)
	}
	if err := db.DeleteUser(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteUser: error = %v, want ErrNotFound", err)
	}
}

func TestListUsers_OrderAndPaging(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for _, name := range []string{"charlie", "alice", "bob"} {
		u := &models.User{Email: name + "@example.com", Username: name, PasswordHash: "h"}
		if err := db.CreateUser(ctx, u); err != nil {
			t.Fatalf("CreateUser(%s): %v", name, err)
		}
	}

	count, err := db.CountUsers(ctx)
	if err != nil {
		t.Fatalf("CountUsers: %v", err)
	}
	if count != 3 {
		t.Errorf("CountUsers = %d, want 3", count)
	}

	page, err := db.ListUsers(ctx, 2, 0)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(page) != 2 || page[0].Username != "alice" || page[1].Username != "bob" {
		t.Errorf("first page = %+v", page)
	}

	page, err = db.ListUsers(ctx, 2, 2)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(page) != 1 || page[0].Username != "charlie" {
		t.Errorf("second page = %+v", page)
	}
}

func TestUpdateUser(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	u := mustCreateUser(t, db, "cook")

	if err := db.UpdateUserPassword(ctx, u.ID, "newhash"); err != nil {
		t.Fatalf("UpdateUserPassword: %v", err)
	}

	avatar := "data:image/png;base64,AAAA"
	if err := db.UpdateUserAvatar(ctx, u.ID, &avatar); err != nil {
		t.Fatalf("UpdateUserAvatar: %v", err)
	}
	if err := db.UpdateUserRole(ctx, u.ID, models.RoleAdmin); err != nil {
		t.Fatalf("UpdateUserRole: %v", err)
	}

	got, err := db.GetUserByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if got.PasswordHash != "newhash" {
		t.Errorf("PasswordHash = %q", got.PasswordHash)
	}
	if got.Avatar == nil || *got.Avatar != avatar {
		t.Errorf("Avatar = %v", got.Avatar)
	}
	if !got.IsAdmin() {
		t.Errorf("Role = %q, want admin", got.Role)
	}

	if err := db.UpdateUserAvatar(ctx, u.ID, nil); err != nil {
		t.Fatalf("clear avatar: %v", err)
	}
	got, _ = db.GetUserByID(ctx, u.ID)
	if got.Avatar != nil {
		t.Errorf("Avatar after clear = %q", *got.Avatar)
	}

	if err := db.UpdateUserRole(ctx, u.ID, "superuser"); err == nil {
		t.Error("expected error for invalid role")
	}
}

func TestDeleteUser_Cascade(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	author := mustCreateUser(t, db, "author")
	fan := mustCreateUser(t, db, "fan")
	tag := mustCreateTag(t, db, "Breakfast", "breakfast")
	egg := mustCreateIngredient(t, db, "egg", "pcs")

	authored := mustCreateRecipe(t, db, author.ID,
		recipeInput("Omelette", []int64{tag.ID}, models.IngredientAmount{ID: egg.ID, Amount: 2}))
	other := mustCreateRecipe(t, db, fan.ID,
		recipeInput("Scramble", []int64{tag.ID}, models.IngredientAmount{ID: egg.ID, Amount: 3}))

	if _, err := db.AddFavorite(ctx, fan.ID, authored.ID); err != nil {
		t.Fatalf("AddFavorite: %v", err)
	}
	if _, err := db.AddToCart(ctx, author.ID, other.ID); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	if err := db.Subscribe(ctx, fan.ID, author.ID); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	if err := db.DeleteUser(ctx, author.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	if _, err := db.GetRecipe(ctx, authored.ID, 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("authored recipe survived: %v", err)
	}
	if _, err := db.GetRecipe(ctx, other.ID, 0); err != nil {
		t.Errorf("unrelated recipe removed: %v", err)
	}

	favs, err := db.CountRecipes(ctx, models.RecipeFilter{FavoritedBy: fan.ID})
	if err != nil {
		t.Fatalf("CountRecipes: %v", err)
	}
	if favs != 0 {
		t.Errorf("fan still has %d favorites", favs)
	}
	subs, err := db.CountSubscriptions(ctx, fan.ID)
	if err != nil {
		t.Fatalf("CountSubscriptions: %v", err)
	}
	if subs != 0 {
		t.Errorf("fan still has %d subscriptions", subs)
	}
}
