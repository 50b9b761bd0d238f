// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package models

// Field limits.
const (
	MaxNameLength            = 256
	MaxMeasurementUnitLength = 20
	MinAmount                = 1
	MaxAmount                = 32767
	MinCookingTime           = 1
	MaxUsernameLength        = 150
	MaxEmailLength           = 254
	MaxPersonNameLength      = 150
)

// User roles.
const (
	RoleAnonymous = "anonymous"
	RoleUser      = "user"
	RoleAdmin     = "admin"
)

// IsValidRole reports whether role can be stored on a user row.
func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}
