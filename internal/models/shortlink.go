// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package models

import "time"

// ShortLink is a generic shortened URL.
type ShortLink struct {
	ID            int64     `json:"id"`
	FullURL       string    `json:"full_url"`
	Token         string    `json:"token"`
	ShortURL      string    `json:"short_url,omitempty"`
	RequestsCount int64     `json:"requests_count"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

// SchemaMigration is an applied schema version.
type SchemaMigration struct {
	Version     int       `json:"version"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	AppliedAt   time.Time `json:"applied_at"`
}
