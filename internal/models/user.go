// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package models

import "time"

// User is a stored account. PasswordHash never leaves the server.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"-"`
	Avatar       *string   `json:"avatar"`
	Role         string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserProfile is the public view of a user as seen by a viewer.
type UserProfile struct {
	ID           int64   `json:"id"`
	Email        string  `json:"email"`
	Username     string  `json:"username"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	IsSubscribed bool    `json:"is_subscribed"`
	Avatar       *string `json:"avatar"`
}

// Profile builds the public view of u.
func (u *User) Profile(isSubscribed bool) UserProfile {
	return UserProfile{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed,
		Avatar:       u.Avatar,
	}
}

// Subscription is an author the viewer follows, with a preview of their recipes.
type Subscription struct {
	UserProfile
	Recipes      []RecipeShort `json:"recipes"`
	RecipesCount int           `json:"recipes_count"`
}
