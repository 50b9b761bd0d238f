// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"net/http"
	"strings"

	"github.com/tomtom215/foodgram/internal/auth"
	"github.com/tomtom215/foodgram/internal/events"
	"github.com/tomtom215/foodgram/internal/models"
)

const (
	tagNotFound        = "Tag not found"
	ingredientNotFound = "Ingredient not found"
)

// ListTags returns every tag, served from the read cache when warm.
//
// @Summary List tags
// @Tags Tags
// @Produce json
// @Success 200 {object} APIResponse{data=[]models.Tag}
// @Router /api/tags/ [get]
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	if tags, ok := h.reads.Tags(); ok {
		WriteSuccess(w, r, tags)
		return
	}

	tags, err := h.db.ListTags(r.Context())
	if err != nil {
		NewResponseWriter(w, r).DatabaseError(err)
		return
	}
	h.reads.SetTags(tags)
	WriteSuccess(w, r, tags)
}

// GetTag returns one tag.
//
// @Summary Get a tag
// @Tags Tags
// @Produce json
// @Param id path int true "Tag ID"
// @Success 200 {object} APIResponse{data=models.Tag}
// @Failure 404 {object} APIResponse
// @Router /api/tags/{id}/ [get]
func (h *Handler) GetTag(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, err := pathID(r, "id")
	if err != nil {
		writeError(rw, err, tagNotFound)
		return
	}
	tag, err := h.db.GetTag(r.Context(), id)
	if err != nil {
		writeError(rw, err, tagNotFound)
		return
	}
	rw.Success(tag)
}

// CreateTag adds a tag. Admin only.
//
// @Summary Create a tag
// @Tags Tags
// @Security TokenAuth
// @Accept json
// @Produce json
// @Param body body TagRequest true "Tag"
// @Success 201 {object} APIResponse{data=models.Tag}
// @Failure 409 {object} APIResponse
// @Router /api/tags/ [post]
func (h *Handler) CreateTag(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req TagRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(rw, err, "")
		return
	}
	tag := &models.Tag{Name: strings.TrimSpace(req.Name), Slug: req.Slug}
	if err := h.db.CreateTag(r.Context(), tag); err != nil {
		writeCatalogError(rw, err, tagNotFound)
		return
	}

	h.tagChanged(r, tag.ID)
	rw.Created(tag)
}

// UpdateTag replaces name and slug. Admin only.
//
// @Summary Update a tag
// @Tags Tags
// @Security TokenAuth
// @Accept json
// @Produce json
// @Param id path int true "Tag ID"
// @Param body body TagRequest true "Tag"
// @Success 200 {object} APIResponse{data=models.Tag}
// @Router /api/tags/{id}/ [patch]
func (h *Handler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, err := pathID(r, "id")
	if err != nil {
		writeError(rw, err, tagNotFound)
		return
	}
	var req TagRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(rw, err, "")
		return
	}
	tag := &models.Tag{ID: id, Name: strings.TrimSpace(req.Name), Slug: req.Slug}
	if err := h.db.UpdateTag(r.Context(), tag); err != nil {
		writeCatalogError(rw, err, tagNotFound)
		return
	}

	h.tagChanged(r, id)
	rw.Success(tag)
}

// DeleteTag removes a tag and detaches it from recipes. Admin only.
//
// @Summary Delete a tag
// @Tags Tags
// @Security TokenAuth
// @Param id path int true "Tag ID"
// @Success 204
// @Router /api/tags/{id}/ [delete]
func (h *Handler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, err := pathID(r, "id")
	if err != nil {
		writeError(rw, err, tagNotFound)
		return
	}
	if err := h.db.DeleteTag(r.Context(), id); err != nil {
		writeError(rw, err, tagNotFound)
		return
	}

	h.tagChanged(r, id)
	rw.NoContent()
}

// tagChanged drops the local tag cache and tells other replicas.
func (h *Handler) tagChanged(r *http.Request, tagID int64) {
	h.reads.InvalidateTags()
	h.events.Emit(r.Context(), events.TagChanged(auth.ViewerID(r.Context()), tagID))
}

// ListIngredients searches ingredients by name prefix (?name=).
//
// @Summary Search ingredients
// @Tags Ingredients
// @Produce json
// @Param name query string false "Name prefix"
// @Success 200 {object} APIResponse{data=[]models.Ingredient}
// @Router /api/ingredients/ [get]
func (h *Handler) ListIngredients(w http.ResponseWriter, r *http.Request) {
	ings, err := h.db.SearchIngredients(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		NewResponseWriter(w, r).DatabaseError(err)
		return
	}
	WriteSuccess(w, r, ings)
}

// GetIngredient returns one ingredient.
//
// @Summary Get an ingredient
// @Tags Ingredients
// @Produce json
// @Param id path int true "Ingredient ID"
// @Success 200 {object} APIResponse{data=models.Ingredient}
// @Failure 404 {object} APIResponse
// @Router /api/ingredients/{id}/ [get]
func (h *Handler) GetIngredient(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, err := pathID(r, "id")
	if err != nil {
		writeError(rw, err, ingredientNotFound)
		return
	}
	ing, err := h.db.GetIngredient(r.Context(), id)
	if err != nil {
		writeError(rw, err, ingredientNotFound)
		return
	}
	rw.Success(ing)
}

// CreateIngredient adds an ingredient. Admin only.
//
// @Summary Create an ingredient
// @Tags Ingredients
// @Security TokenAuth
// @Accept json
// @Produce json
// @Param body body IngredientRequest true "Ingredient"
// @Success 201 {object} APIResponse{data=models.Ingredient}
// @Failure 409 {object} APIResponse
// @Router /api/ingredients/ [post]
func (h *Handler) CreateIngredient(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req IngredientRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(rw, err, "")
		return
	}
	ing := &models.Ingredient{
		Name:            strings.TrimSpace(req.Name),
		MeasurementUnit: strings.TrimSpace(req.MeasurementUnit),
	}
	if err := h.db.CreateIngredient(r.Context(), ing); err != nil {
		writeCatalogError(rw, err, ingredientNotFound)
		return
	}

	h.events.Emit(r.Context(), events.IngredientChanged(auth.ViewerID(r.Context()), ing.ID))
	rw.Created(ing)
}

// UpdateIngredient replaces name and unit. Admin only.
//
// @Summary Update an ingredient
// @Tags Ingredients
// @Security TokenAuth
// @Accept json
// @Produce json
// @Param id path int true "Ingredient ID"
// @Param body body IngredientRequest true "Ingredient"
// @Success 200 {object} APIResponse{data=models.Ingredient}
// @Router /api/ingredients/{id}/ [patch]
func (h *Handler) UpdateIngredient(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, err := pathID(r, "id")
	if err != nil {
		writeError(rw, err, ingredientNotFound)
		return
	}
	var req IngredientRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(rw, err, "")
		return
	}
	ing := &models.Ingredient{
		ID:              id,
		Name:            strings.TrimSpace(req.Name),
		MeasurementUnit: strings.TrimSpace(req.MeasurementUnit),
	}
	if err := h.db.UpdateIngredient(r.Context(), ing); err != nil {
		writeCatalogError(rw, err, ingredientNotFound)
		return
	}

	h.events.Emit(r.Context(), events.IngredientChanged(auth.ViewerID(r.Context()), id))
	rw.Success(ing)
}

// DeleteIngredient removes an ingredient and its recipe amounts. Admin only.
//
// @Summary Delete an ingredient
// @Tags Ingredients
// @Security TokenAuth
// @Param id path int true "Ingredient ID"
// @Success 204
// @Router /api/ingredients/{id}/ [delete]
func (h *Handler) DeleteIngredient(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, err := pathID(r, "id")
	if err != nil {
		writeError(rw, err, ingredientNotFound)
		return
	}
	if err := h.db.DeleteIngredient(r.Context(), id); err != nil {
		writeError(rw, err, ingredientNotFound)
		return
	}

	h.events.Emit(r.Context(), events.IngredientChanged(auth.ViewerID(r.Context()), id))
	rw.NoContent()
}
