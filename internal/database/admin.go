// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tomtom215/foodgram/internal/models"
)

// EnsureAdmin makes sure an administrator with email exists. An existing
// account is promoted and keeps its password; otherwise a new account is
// created with username and passwordHash. created reports which happened.
func (db *DB) EnsureAdmin(ctx context.Context, email, username, passwordHash string) (user *models.User, created bool, err error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err = db.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if user.Role != models.RoleAdmin {
			if err := db.UpdateUserRole(ctx, user.ID, models.RoleAdmin); err != nil {
				return nil, false, err
			}
			user.Role = models.RoleAdmin
		}
		return user, false, nil
	case !errors.Is(err, ErrNotFound):
		return nil, false, fmt.Errorf("failed to look up admin: %w", err)
	}

	user = &models.User{
		Email:        email,
		Username:     username,
		FirstName:    "Admin",
		LastName:     "Admin",
		PasswordHash: passwordHash,
		Role:         models.RoleAdmin,
	}
	if err := db.CreateUser(ctx, user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}
