// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package cache

import (
	"time"

	"github.com/tomtom215/foodgram/internal/metrics"
	"github.com/tomtom215/foodgram/internal/models"
)

// Cache names used as the metrics label.
const (
	NameTags   = "tags"
	NameTokens = "recipe_tokens"
)

const (
	tagsKey = "tags:all"

	// tokenCapacity bounds the recipe token cache.
	tokenCapacity = 10000
)

// Reads holds the API read caches: the full tag list and recipe short-token
// resolutions (token -> recipe ID).
type Reads struct {
	tags   Cacher
	tokens Cacher
}

// NewReads builds the read caches with the given TTL.
func NewReads(ttl time.Duration) *Reads {
	return &Reads{
		tags:   NewCacher(CacheConfig{Type: CacheTypeTTL, TTL: ttl}),
		tokens: NewCacher(CacheConfig{Type: CacheTypeLFU, TTL: ttl, Capacity: tokenCapacity}),
	}
}

// Tags returns the cached tag list.
func (r *Reads) Tags() ([]models.Tag, bool) {
	v, ok := r.tags.Get(tagsKey)
	metrics.RecordCacheLookup(NameTags, ok)
	if !ok {
		return nil, false
	}
	tags, ok := v.([]models.Tag)
	return tags, ok
}

// SetTags caches the tag list. The slice is copied.
func (r *Reads) SetTags(tags []models.Tag) {
	r.tags.Set(tagsKey, append([]models.Tag(nil), tags...))
}

// InvalidateTags drops the tag list.
func (r *Reads) InvalidateTags() {
	r.tags.Delete(tagsKey)
}

// RecipeID returns the cached recipe ID for a short token.
func (r *Reads) RecipeID(token string) (int64, bool) {
	v, ok := r.tokens.Get(token)
	metrics.RecordCacheLookup(NameTokens, ok)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// SetRecipeID caches a token resolution.
func (r *Reads) SetRecipeID(token string, id int64) {
	r.tokens.Set(token, id)
}

// InvalidateToken drops a token resolution, called when its recipe is deleted.
func (r *Reads) InvalidateToken(token string) {
	r.tokens.Delete(token)
}

// Stats returns per-cache statistics keyed by cache name.
func (r *Reads) Stats() map[string]Stats {
	return map[string]Stats{
		NameTags:   r.tags.GetStats(),
		NameTokens: r.tokens.GetStats(),
	}
}

// Close stops background cleanup.
func (r *Reads) Close() {
	r.tags.Close()
	r.tokens.Close()
}
