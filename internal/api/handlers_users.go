// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/tomtom215/foodgram/internal/auth"
	"github.com/tomtom215/foodgram/internal/database"
	"github.com/tomtom215/foodgram/internal/models"
)

const userNotFound = "User not found"

// CreateUser registers a new account.
//
// @Summary Sign up
// @Tags Users
// @Accept json
// @Produce json
// @Param body body SignupRequest true "Account"
// @Success 201 {object} APIResponse{data=models.UserProfile}
// @Failure 400 {object} APIResponse
// @Router /api/users/ [post]
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req SignupRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(rw, err, "")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		rw.ValidationError(err.Error(), map[string][]string{"password": {err.Error()}})
		return
	}

	user := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
		Role:         models.RoleUser,
	}
	if err := h.db.CreateUser(r.Context(), user); err != nil {
		writeError(rw, err, "")
		return
	}

	h.authLog.LogSignup(user.ID, user.Email, r.RemoteAddr)
	rw.Created(user.Profile(false))
}

// ListUsers returns a page of profiles.
//
// @Summary List users
// @Tags Users
// @Produce json
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} APIResponse{data=[]models.UserProfile}
// @Router /api/users/ [get]
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	page := h.pageRequest(r)

	users, err := h.db.ListUsers(r.Context(), page.Limit, page.Offset)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	total, err := h.db.CountUsers(r.Context())
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	ids := make([]int64, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}
	subscribed, err := h.db.SubscribedAuthorIDs(r.Context(), auth.ViewerID(r.Context()), ids)
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	profiles := make([]models.UserProfile, len(users))
	for i := range users {
		profiles[i] = users[i].Profile(subscribed[users[i].ID])
	}
	rw.SuccessWithPagination(profiles, paginate(page, len(profiles), total))
}

// GetUser returns one profile with is_subscribed for the viewer.
//
// @Summary Get a user profile
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} APIResponse{data=models.UserProfile}
// @Failure 404 {object} APIResponse
// @Router /api/users/{id}/ [get]
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, err := pathID(r, "id")
	if err != nil {
		writeError(rw, err, userNotFound)
		return
	}
	user, err := h.db.GetUserByID(r.Context(), id)
	if err != nil {
		writeError(rw, err, userNotFound)
		return
	}
	subscribed, err := h.db.IsSubscribed(r.Context(), auth.ViewerID(r.Context()), id)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.Success(user.Profile(subscribed))
}

// Me returns the caller's own profile.
//
// @Summary Current user
// @Tags Users
// @Security TokenAuth
// @Produce json
// @Success 200 {object} APIResponse{data=models.UserProfile}
// @Failure 401 {object} APIResponse
// @Router /api/users/me/ [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	user, err := h.db.GetUserByID(r.Context(), auth.ViewerID(r.Context()))
	if err != nil {
		writeError(rw, err, userNotFound)
		return
	}
	rw.Success(user.Profile(false))
}

// SetAvatar stores the submitted data URI as the caller's avatar.
//
// @Summary Set avatar
// @Tags Users
// @Security TokenAuth
// @Accept json
// @Produce json
// @Param body body AvatarRequest true "Avatar"
// @Success 200 {object} APIResponse{data=AvatarResponse}
// @Failure 400 {object} APIResponse
// @Router /api/users/me/avatar/ [put]
func (h *Handler) SetAvatar(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req AvatarRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(rw, err, "")
		return
	}
	if err := h.db.UpdateUserAvatar(r.Context(), auth.ViewerID(r.Context()), &req.Avatar); err != nil {
		writeError(rw, err, userNotFound)
		return
	}
	rw.Success(AvatarResponse{Avatar: req.Avatar})
}

// DeleteAvatar clears the caller's avatar.
//
// @Summary Remove avatar
// @Tags Users
// @Security TokenAuth
// @Success 204
// @Router /api/users/me/avatar/ [delete]
func (h *Handler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if err := h.db.UpdateUserAvatar(r.Context(), auth.ViewerID(r.Context()), nil); err != nil {
		writeError(rw, err, userNotFound)
		return
	}
	rw.NoContent()
}

// SetPassword replaces the caller's password after checking the current one.
//
// @Summary Change password
// @Tags Users
// @Security TokenAuth
// @Accept json
// @Param body body SetPasswordRequest true "Passwords"
// @Success 204
// @Failure 400 {object} APIResponse
// @Router /api/users/set_password/ [post]
func (h *Handler) SetPassword(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID := auth.ViewerID(r.Context())

	var req SetPasswordRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(rw, err, "")
		return
	}

	user, err := h.db.GetUserByID(r.Context(), userID)
	if err != nil {
		writeError(rw, err, userNotFound)
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		h.authLog.LogPasswordChanged(userID, r.RemoteAddr, false, "wrong current password")
		rw.ValidationError("Invalid password.", map[string][]string{
			"current_password": {"Invalid password."},
		})
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		rw.ValidationError(err.Error(), map[string][]string{"new_password": {err.Error()}})
		return
	}
	if err := h.db.UpdateUserPassword(r.Context(), userID, hash); err != nil {
		writeError(rw, err, userNotFound)
		return
	}

	h.authLog.LogPasswordChanged(userID, r.RemoteAddr, true, "")
	rw.NoContent()
}

// Subscriptions lists the authors the caller follows with their recipes.
//
// @Summary My subscriptions
// @Tags Users
// @Security TokenAuth
// @Produce json
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size"
// @Param recipes_limit query int false "Recipes per author"
// @Success 200 {object} APIResponse{data=[]models.Subscription}
// @Router /api/users/subscriptions/ [get]
func (h *Handler) Subscriptions(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	viewer := auth.ViewerID(r.Context())
	page := h.pageRequest(r)
	recipesLimit := getIntParam(r, "recipes_limit", 0)

	authors, err := h.db.ListSubscriptions(r.Context(), viewer, page.Limit, page.Offset)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	total, err := h.db.CountSubscriptions(r.Context(), viewer)
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	subs := make([]models.Subscription, 0, len(authors))
	for i := range authors {
		sub, err := h.subscription(r.Context(), &authors[i], recipesLimit)
		if err != nil {
			rw.DatabaseError(err)
			return
		}
		subs = append(subs, *sub)
	}
	rw.SuccessWithPagination(subs, paginate(page, len(subs), total))
}

// Subscribe makes the caller follow user {id}.
//
// @Summary Subscribe to an author
// @Tags Users
// @Security TokenAuth
// @Produce json
// @Param id path int true "Author ID"
// @Param recipes_limit query int false "Recipes to include"
// @Success 201 {object} APIResponse{data=models.Subscription}
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /api/users/{id}/subscribe/ [post]
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	authorID, err := pathID(r, "id")
	if err != nil {
		writeError(rw, err, userNotFound)
		return
	}
	if err := h.db.Subscribe(r.Context(), auth.ViewerID(r.Context()), authorID); err != nil {
		switch {
		case errors.Is(err, database.ErrSelfSubscription):
			rw.BadRequest("You cannot subscribe to yourself.")
		case errors.Is(err, database.ErrAlreadyExists):
			rw.BadRequest("You are already subscribed to this author.")
		default:
			writeError(rw, err, userNotFound)
		}
		return
	}

	author, err := h.db.GetUserByID(r.Context(), authorID)
	if err != nil {
		writeError(rw, err, userNotFound)
		return
	}
	sub, err := h.subscription(r.Context(), author, getIntParam(r, "recipes_limit", 0))
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.Created(sub)
}

// Unsubscribe removes the caller's subscription to user {id}.
//
// @Summary Unsubscribe from an author
// @Tags Users
// @Security TokenAuth
// @Param id path int true "Author ID"
// @Success 204
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /api/users/{id}/subscribe/ [delete]
func (h *Handler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	authorID, err := pathID(r, "id")
	if err != nil {
		writeError(rw, err, userNotFound)
		return
	}
	err = h.db.Unsubscribe(r.Context(), auth.ViewerID(r.Context()), authorID)
	if errors.Is(err, database.ErrNotFound) {
		if _, lookupErr := h.db.GetUserByID(r.Context(), authorID); lookupErr != nil {
			writeError(rw, lookupErr, userNotFound)
			return
		}
		rw.BadRequest("You are not subscribed to this author.")
		return
	}
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.NoContent()
}

// subscription builds the subscription view of author: profile, up to
// recipesLimit recipes (all when <= 0) and the total recipe count.
func (h *Handler) subscription(ctx context.Context, author *models.User, recipesLimit int) (*models.Subscription, error) {
	recipes, err := h.db.ListAuthorRecipes(ctx, author.ID, recipesLimit)
	if err != nil {
		return nil, err
	}
	count, err := h.db.CountRecipes(ctx, models.RecipeFilter{AuthorID: author.ID})
	if err != nil {
		return nil, err
	}
	return &models.Subscription{
		UserProfile:  author.Profile(true),
		Recipes:      recipes,
		RecipesCount: count,
	}, nil
}
