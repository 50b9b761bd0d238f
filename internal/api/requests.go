// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

// Request bodies validated with go-playground/validator tags. Recipe
// bodies use models.RecipeInput.

// SignupRequest is the body of POST /api/users/.
type SignupRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,max=150,username"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest is the body of POST /api/auth/token/login/.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SetPasswordRequest is the body of POST /api/users/set_password/.
type SetPasswordRequest struct {
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128,nefield=CurrentPassword"`
	CurrentPassword string `json:"current_password" validate:"required"`
}

// AvatarRequest is the body of PUT /api/users/me/avatar/.
type AvatarRequest struct {
	Avatar string `json:"avatar" validate:"required,datauri"`
}

// TagRequest creates or replaces a tag.
type TagRequest struct {
	Name string `json:"name" validate:"required,max=256"`
	Slug string `json:"slug" validate:"required,max=256,slug"`
}

// IngredientRequest creates or replaces an ingredient.
type IngredientRequest struct {
	Name            string `json:"name" validate:"required,max=256"`
	MeasurementUnit string `json:"measurement_unit" validate:"required,max=20"`
}

// LinkRequest is the body of POST /api/links/.
type LinkRequest struct {
	FullURL string `json:"full_url" validate:"required,http_url,max=2048"`
}

// TokenResponse carries an issued auth token.
type TokenResponse struct {
	AuthToken string `json:"auth_token"`
}

// RecipeLinkResponse is returned by GET /api/recipes/{id}/get-link/.
type RecipeLinkResponse struct {
	ShortLink string `json:"short-link"`
}

// AvatarResponse is returned by PUT /api/users/me/avatar/.
type AvatarResponse struct {
	Avatar string `json:"avatar"`
}
