// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

// Package models defines the Foodgram domain types shared by the database,
// API and event layers, together with the field limits enforced on them.
//
// JSON field names follow the public Foodgram API (snake_case, with
// "short-link" the one hyphenated key).
package models
