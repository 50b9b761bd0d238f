// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/tomtom215/foodgram/internal/auth"
	"github.com/tomtom215/foodgram/internal/database"
	"github.com/tomtom215/foodgram/internal/events"
	"github.com/tomtom215/foodgram/internal/logging"
	"github.com/tomtom215/foodgram/internal/metrics"
	"github.com/tomtom215/foodgram/internal/models"
	"github.com/tomtom215/foodgram/internal/shoppinglist"
)

const recipeNotFound = "Recipe not found"

// recipeFilter reads the list filters. is_favorited and
// is_in_shopping_cart only apply to signed-in viewers.
func recipeFilter(r *http.Request, viewer int64) (models.RecipeFilter, error) {
	q := r.URL.Query()
	filter := models.RecipeFilter{
		TagSlugs: q["tags"],
		ViewerID: viewer,
	}

	if author := q.Get("author"); author != "" {
		id, err := strconv.ParseInt(author, 10, 64)
		if err != nil || id <= 0 {
			return filter, fmt.Errorf("%w: author", ErrInvalidID)
		}
		filter.AuthorID = id
	}
	if viewer != 0 && getBoolParam(r, "is_favorited") {
		filter.FavoritedBy = viewer
	}
	if viewer != 0 && getBoolParam(r, "is_in_shopping_cart") {
		filter.InCartOf = viewer
	}
	return filter, nil
}

// ListRecipes returns a page of recipes, newest first.
//
// @Summary List recipes
// @Tags Recipes
// @Produce json
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size"
// @Param author query int false "Author ID"
// @Param tags query []string false "Tag slugs (any of)" collectionFormat(multi)
// @Param is_favorited query int false "Only the viewer's favorites"
// @Param is_in_shopping_cart query int false "Only the viewer's cart"
// @Success 200 {object} APIResponse{data=[]models.Recipe}
// @Router /api/recipes/ [get]
func (h *Handler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	filter, err := recipeFilter(r, auth.ViewerID(r.Context()))
	if err != nil {
		writeError(rw, err, "")
		return
	}
	page := h.pageRequest(r)
	filter.Limit, filter.Offset = page.Limit, page.Offset

	recipes, err := h.db.ListRecipes(r.Context(), filter)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	total, err := h.db.CountRecipes(r.Context(), filter)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	if recipes == nil {
		recipes = []models.Recipe{}
	}
	rw.SuccessWithPagination(recipes, paginate(page, len(recipes), total))
}

// GetRecipe returns one recipe with the viewer flags.
//
// @Summary Get a recipe
// @Tags Recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {object} APIResponse{data=models.Recipe}
// @Failure 404 {object} APIResponse
// @Router /api/recipes/{id}/ [get]
func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, err := pathID(r, "id")
	if err != nil {
		writeError(rw, err, recipeNotFound)
		return
	}
	recipe, err := h.db.GetRecipe(r.Context(), id, auth.ViewerID(r.Context()))
	if err != nil {
		writeError(rw, err, recipeNotFound)
		return
	}
	rw.Success(recipe)
}

// CreateRecipe publishes a recipe by the caller and issues its short token.
//
// @Summary Create a recipe
// @Tags Recipes
// @Security TokenAuth
// @Accept json
// @Produce json
// @Param body body models.RecipeInput true "Recipe"
// @Success 201 {object} APIResponse{data=models.Recipe}
// @Failure 400 {object} APIResponse
// @Failure 503 {object} APIResponse
// @Router /api/recipes/ [post]
func (h *Handler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	viewer := auth.ViewerID(r.Context())

	var in models.RecipeInput
	if err := decodeAndValidate(w, r, &in); err != nil {
		writeError(rw, err, "")
		return
	}

	recipe, err := h.db.CreateRecipe(r.Context(), viewer, &in)
	if err != nil {
		writeError(rw, err, recipeNotFound)
		return
	}

	logging.Ctx(r.Context()).Info().
		Int64("recipe_id", recipe.ID).
		Str("short_token", recipe.ShortToken).
		Msg("Recipe created")
	h.events.Emit(r.Context(), events.RecipeCreated(viewer, recipe.ID, recipe.ShortToken))
	rw.Created(recipe)
}

// UpdateRecipe replaces a recipe. Author or moderator only; the short
// token is kept.
//
// @Summary Update a recipe
// @Tags Recipes
// @Security TokenAuth
// @Accept json
// @Produce json
// @Param id path int true "Recipe ID"
// @Param body body models.RecipeInput true "Recipe"
// @Success 200 {object} APIResponse{data=models.Recipe}
// @Failure 403 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /api/recipes/{id}/ [patch]
func (h *Handler) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	viewer := auth.ViewerID(r.Context())

	id, ok := h.authorizeRecipeChange(rw, r)
	if !ok {
		return
	}

	var in models.RecipeInput
	if err := decodeAndValidate(w, r, &in); err != nil {
		writeError(rw, err, "")
		return
	}

	recipe, err := h.db.UpdateRecipe(r.Context(), id, &in, viewer)
	if err != nil {
		writeError(rw, err, recipeNotFound)
		return
	}

	h.events.Emit(r.Context(), events.RecipeUpdated(viewer, recipe.ID, recipe.ShortToken))
	rw.Success(recipe)
}

// DeleteRecipe removes a recipe with its tags, amounts, favorites and cart
// rows. Author or moderator only.
//
// @Summary Delete a recipe
// @Tags Recipes
// @Security TokenAuth
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 403 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /api/recipes/{id}/ [delete]
func (h *Handler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, ok := h.authorizeRecipeChange(rw, r)
	if !ok {
		return
	}

	recipe, err := h.db.GetRecipe(r.Context(), id, 0)
	if err != nil {
		writeError(rw, err, recipeNotFound)
		return
	}
	if err := h.db.DeleteRecipe(r.Context(), id); err != nil {
		writeError(rw, err, recipeNotFound)
		return
	}

	h.reads.InvalidateToken(recipe.ShortToken)
	h.events.Emit(r.Context(), events.RecipeDeleted(auth.ViewerID(r.Context()), id, recipe.ShortToken))
	rw.NoContent()
}

// authorizeRecipeChange resolves {id} and checks that the caller may modify
// it. It writes the error response itself and reports whether to continue.
func (h *Handler) authorizeRecipeChange(rw *ResponseWriter, r *http.Request) (int64, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(rw, err, recipeNotFound)
		return 0, false
	}
	authorID, err := h.db.RecipeAuthorID(r.Context(), id)
	if err != nil {
		writeError(rw, err, recipeNotFound)
		return 0, false
	}
	if !h.enforcer.CanModifyRecipe(auth.SubjectFromContext(r.Context()), authorID) {
		rw.Forbidden("You do not have permission to perform this action.")
		return 0, false
	}
	return id, true
}

// GetRecipeLink returns the absolute short link of a recipe.
//
// @Summary Get a recipe short link
// @Tags Recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {object} APIResponse{data=RecipeLinkResponse}
// @Failure 404 {object} APIResponse
// @Router /api/recipes/{id}/get-link/ [get]
func (h *Handler) GetRecipeLink(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, err := pathID(r, "id")
	if err != nil {
		writeError(rw, err, recipeNotFound)
		return
	}
	recipe, err := h.db.GetRecipe(r.Context(), id, 0)
	if err != nil {
		writeError(rw, err, recipeNotFound)
		return
	}
	rw.Success(RecipeLinkResponse{ShortLink: h.baseURL(r) + "/s/" + recipe.ShortToken})
}

// AddFavorite adds recipe {id} to the caller's favorites.
//
// @Summary Favorite a recipe
// @Tags Recipes
// @Security TokenAuth
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 201 {object} APIResponse{data=models.RecipeShort}
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /api/recipes/{id}/favorite/ [post]
func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	h.addRelation(w, r, h.db.AddFavorite, "Recipe is already in favorites.")
}

// RemoveFavorite removes recipe {id} from the caller's favorites.
//
// @Summary Unfavorite a recipe
// @Tags Recipes
// @Security TokenAuth
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 400 {object} APIResponse
// @Router /api/recipes/{id}/favorite/ [delete]
func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	h.removeRelation(w, r, h.db.RemoveFavorite, "Recipe is not in favorites.")
}

// AddToCart adds recipe {id} to the caller's shopping cart.
//
// @Summary Add a recipe to the cart
// @Tags Recipes
// @Security TokenAuth
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 201 {object} APIResponse{data=models.RecipeShort}
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /api/recipes/{id}/shopping_cart/ [post]
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	h.addRelation(w, r, h.db.AddToCart, "Recipe is already in the shopping cart.")
}

// RemoveFromCart removes recipe {id} from the caller's shopping cart.
//
// @Summary Remove a recipe from the cart
// @Tags Recipes
// @Security TokenAuth
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 400 {object} APIResponse
// @Router /api/recipes/{id}/shopping_cart/ [delete]
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	h.removeRelation(w, r, h.db.RemoveFromCart, "Recipe is not in the shopping cart.")
}

type addRelationFunc func(ctx context.Context, userID, recipeID int64) (*models.RecipeShort, error)

type removeRelationFunc func(ctx context.Context, userID, recipeID int64) error

func (h *Handler) addRelation(w http.ResponseWriter, r *http.Request, add addRelationFunc, duplicate string) {
	rw := NewResponseWriter(w, r)

	id, err := pathID(r, "id")
	if err != nil {
		writeError(rw, err, recipeNotFound)
		return
	}
	short, err := add(r.Context(), auth.ViewerID(r.Context()), id)
	if err != nil {
		if errors.Is(err, database.ErrAlreadyExists) {
			rw.BadRequest(duplicate)
			return
		}
		writeError(rw, err, recipeNotFound)
		return
	}
	rw.Created(short)
}

// removeRelation answers 404 for an unknown recipe and 400 when the row to
// remove does not exist.
func (h *Handler) removeRelation(w http.ResponseWriter, r *http.Request, remove removeRelationFunc, missing string) {
	rw := NewResponseWriter(w, r)

	id, err := pathID(r, "id")
	if err != nil {
		writeError(rw, err, recipeNotFound)
		return
	}
	err = remove(r.Context(), auth.ViewerID(r.Context()), id)
	if errors.Is(err, database.ErrNotFound) {
		if _, lookupErr := h.db.RecipeAuthorID(r.Context(), id); lookupErr != nil {
			writeError(rw, lookupErr, recipeNotFound)
			return
		}
		rw.BadRequest(missing)
		return
	}
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.NoContent()
}

// DownloadShoppingCart sends the caller's consolidated shopping list as a
// plain-text attachment.
//
// @Summary Download the shopping list
// @Tags Recipes
// @Security TokenAuth
// @Produce plain
// @Success 200 {string} string "shopping-list.txt"
// @Failure 401 {object} APIResponse
// @Router /api/recipes/download_shopping_cart/ [get]
func (h *Handler) DownloadShoppingCart(w http.ResponseWriter, r *http.Request) {
	userID := auth.ViewerID(r.Context())

	lines, err := h.shopping.Build(r.Context(), userID)
	if err != nil {
		NewResponseWriter(w, r).DatabaseError(err)
		return
	}

	var buf bytes.Buffer
	if err := shoppinglist.Write(&buf, lines); err != nil {
		NewResponseWriter(w, r).InternalError("Failed to render shopping list")
		return
	}

	metrics.RecordShoppingListDownload(len(lines) - 1)
	logging.Ctx(r.Context()).Debug().Int("items", len(lines)-1).Msg("Shopping list rendered")

	w.Header().Set("Content-Type", shoppinglist.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, shoppinglist.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // response already committed
	w.Write(buf.Bytes())
}
