// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/foodgram/internal/validation"
)

// maxBodyBytes bounds request bodies; avatars and recipe images arrive as
// base64 data URIs.
const maxBodyBytes = 10 << 20

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// decodeAndValidate reads a JSON body into dst and runs struct validation.
// The returned error is ErrInvalidBody or a *validation.RequestValidationError.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	if verr := validation.ValidateStruct(dst); verr != nil {
		return verr
	}
	return nil
}

// pathID parses a positive integer URL parameter.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// getIntParam extracts an integer query parameter with a default value
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

// getBoolParam treats "1" and "true" as set.
func getBoolParam(r *http.Request, key string) bool {
	switch strings.ToLower(r.URL.Query().Get(key)) {
	case "1", "true":
		return true
	}
	return false
}

// pageParams is the resolved ?page=&limit= pair.
type pageParams struct {
	Limit  int
	Offset int
}

// pageRequest resolves pagination from the query using the api section's
// default and maximum page size. Pages are 1-based.
func (h *Handler) pageRequest(r *http.Request) pageParams {
	limit := getIntParam(r, "limit", h.config.API.DefaultPageSize)
	if limit <= 0 {
		limit = h.config.API.DefaultPageSize
	}
	if limit > h.config.API.MaxPageSize {
		limit = h.config.API.MaxPageSize
	}
	page := getIntParam(r, "page", 1)
	if page < 1 {
		page = 1
	}
	return pageParams{Limit: limit, Offset: (page - 1) * limit}
}

// paginate builds the pagination meta for a page of count rows.
func paginate(p pageParams, count int, total int) *PaginationMeta {
	return &PaginationMeta{
		Total:   int64(total),
		Count:   count,
		Offset:  p.Offset,
		Limit:   p.Limit,
		HasMore: p.Offset+count < total,
	}
}

// baseURL is server.public_url when configured, else the scheme and host
// the request arrived on.
func (h *Handler) baseURL(r *http.Request) string {
	if u := strings.TrimRight(h.config.Server.PublicURL, "/"); u != "" {
		return u
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
