// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/foodgram/internal/auth"
	"github.com/tomtom215/foodgram/internal/database"
	"github.com/tomtom215/foodgram/internal/events"
	"github.com/tomtom215/foodgram/internal/logging"
	"github.com/tomtom215/foodgram/internal/metrics"
	"github.com/tomtom215/foodgram/internal/models"
	"github.com/tomtom215/foodgram/internal/shortlink"
)

const linkNotFound = "Short link not found"

// Redirect kinds for metrics.
const (
	redirectRecipe = "recipe"
	redirectLink   = "link"
)

// withShortURL fills the absolute short URL of a link.
func (h *Handler) withShortURL(r *http.Request, link *models.ShortLink) *models.ShortLink {
	link.ShortURL = h.baseURL(r) + "/l/" + link.Token
	return link
}

// CreateLink shortens an arbitrary URL. Shortening the same URL twice
// returns the existing link with 200 instead of 201.
//
// @Summary Shorten a URL
// @Tags Links
// @Security TokenAuth
// @Accept json
// @Produce json
// @Param body body LinkRequest true "URL"
// @Success 200 {object} APIResponse{data=models.ShortLink}
// @Success 201 {object} APIResponse{data=models.ShortLink}
// @Failure 400 {object} APIResponse
// @Failure 503 {object} APIResponse
// @Router /api/links/ [post]
func (h *Handler) CreateLink(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req LinkRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(rw, err, "")
		return
	}

	link, created, err := h.db.CreateShortLink(r.Context(), req.FullURL)
	if err != nil {
		writeError(rw, err, linkNotFound)
		return
	}
	h.withShortURL(r, link)

	if !created {
		rw.Success(link)
		return
	}
	h.events.Emit(r.Context(), events.LinkCreated(auth.ViewerID(r.Context()), link.Token))
	rw.Created(link)
}

// ListLinks returns a page of short links, newest first. Admin only.
//
// @Summary List short links
// @Tags Links
// @Security TokenAuth
// @Produce json
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} APIResponse{data=[]models.ShortLink}
// @Router /api/links/ [get]
func (h *Handler) ListLinks(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	page := h.pageRequest(r)

	links, err := h.db.ListShortLinks(r.Context(), page.Limit, page.Offset)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	total, err := h.db.CountShortLinks(r.Context())
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	for i := range links {
		h.withShortURL(r, &links[i])
	}
	if links == nil {
		links = []models.ShortLink{}
	}
	rw.SuccessWithPagination(links, paginate(page, len(links), total))
}

// DeactivateLink stops a short link from resolving. Admin only.
//
// @Summary Deactivate a short link
// @Tags Links
// @Security TokenAuth
// @Param token path string true "Token"
// @Success 204
// @Failure 404 {object} APIResponse
// @Router /api/links/{token}/ [delete]
func (h *Handler) DeactivateLink(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	token := chi.URLParam(r, "token")
	if !shortlink.WellFormed(token) {
		rw.NotFound(linkNotFound)
		return
	}
	if err := h.db.DeactivateShortLink(r.Context(), token); err != nil {
		writeError(rw, err, linkNotFound)
		return
	}
	logging.Ctx(r.Context()).Info().Str("token", token).Msg("Short link deactivated")
	rw.NoContent()
}

// RecipeRedirect sends /s/{token} to the recipe's page. Malformed and
// unknown tokens are 404.
//
// @Summary Follow a recipe short link
// @Tags Links
// @Param token path string true "Token"
// @Success 302
// @Failure 404 {object} APIResponse
// @Router /s/{token} [get]
func (h *Handler) RecipeRedirect(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if !shortlink.WellFormed(token) {
		metrics.RecordRedirect(redirectRecipe, "invalid")
		NewResponseWriter(w, r).NotFound(recipeNotFound)
		return
	}

	id, ok := h.reads.RecipeID(token)
	if !ok {
		recipe, err := h.db.GetRecipeByShortToken(r.Context(), token)
		if errors.Is(err, database.ErrNotFound) {
			metrics.RecordRedirect(redirectRecipe, "not_found")
			NewResponseWriter(w, r).NotFound(recipeNotFound)
			return
		}
		if err != nil {
			metrics.RecordRedirect(redirectRecipe, "error")
			NewResponseWriter(w, r).DatabaseError(err)
			return
		}
		id = recipe.ID
		h.reads.SetRecipeID(token, id)
	}

	metrics.RecordRedirect(redirectRecipe, "found")
	http.Redirect(w, r, h.baseURL(r)+"/recipes/"+strconv.FormatInt(id, 10)+"/", http.StatusFound)
}

// LinkRedirect sends /l/{token} to the stored URL and counts the request.
// Unknown and deactivated tokens are 404.
//
// @Summary Follow a generic short link
// @Tags Links
// @Param token path string true "Token"
// @Success 302
// @Failure 404 {object} APIResponse
// @Router /l/{token} [get]
func (h *Handler) LinkRedirect(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if !shortlink.WellFormed(token) {
		metrics.RecordRedirect(redirectLink, "invalid")
		NewResponseWriter(w, r).NotFound(linkNotFound)
		return
	}

	link, err := h.db.ResolveShortLink(r.Context(), token)
	if errors.Is(err, database.ErrNotFound) {
		metrics.RecordRedirect(redirectLink, "not_found")
		NewResponseWriter(w, r).NotFound(linkNotFound)
		return
	}
	if err != nil {
		metrics.RecordRedirect(redirectLink, "error")
		NewResponseWriter(w, r).DatabaseError(err)
		return
	}

	metrics.RecordRedirect(redirectLink, "found")
	http.Redirect(w, r, link.FullURL, http.StatusFound)
}
