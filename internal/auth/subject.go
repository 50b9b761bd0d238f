// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package auth

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/foodgram/internal/models"
)

// RoleAnonymous is the role of a request without credentials.
const RoleAnonymous = "anonymous"

// Sentinel errors for authentication.
var (
	// ErrNoCredentials indicates no authentication credentials were provided.
	ErrNoCredentials = errors.New("no credentials provided")

	// ErrInvalidCredentials indicates the provided credentials are invalid.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrExpiredCredentials indicates the credentials have expired.
	ErrExpiredCredentials = errors.New("credentials expired")

	// ErrTokenRevoked indicates the token was revoked by logout.
	ErrTokenRevoked = errors.New("token revoked")
)

// AuthSubject is the authenticated identity attached to a request.
type AuthSubject struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username,omitempty"`
	Role      string    `json:"role"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"-"`
}

// SubjectFromClaims builds the subject carried by a validated token.
func SubjectFromClaims(claims *Claims) *AuthSubject {
	s := &AuthSubject{
		ID:      claims.UserID,
		Email:   claims.Email,
		Role:    claims.Role,
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s
}

// IsAdmin reports whether the subject holds the admin role.
func (s *AuthSubject) IsAdmin() bool {
	return s != nil && s.Role == models.RoleAdmin
}

// IsExpired reports whether the subject's token has expired.
func (s *AuthSubject) IsExpired() bool {
	if s == nil || s.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().After(s.ExpiresAt)
}

type contextKey string

const subjectContextKey contextKey = "auth_subject"

// ContextWithSubject returns ctx carrying subject.
func ContextWithSubject(ctx context.Context, subject *AuthSubject) context.Context {
	return context.WithValue(ctx, subjectContextKey, subject)
}

// SubjectFromContext returns the authenticated subject, or nil for anonymous requests.
func SubjectFromContext(ctx context.Context) *AuthSubject {
	s, _ := ctx.Value(subjectContextKey).(*AuthSubject)
	return s
}

// RoleFromContext returns the subject's role, or RoleAnonymous.
func RoleFromContext(ctx context.Context) string {
	if s := SubjectFromContext(ctx); s != nil && s.Role != "" {
		return s.Role
	}
	return RoleAnonymous
}

// ViewerID returns the authenticated user's ID, or 0 for anonymous requests.
func ViewerID(ctx context.Context) int64 {
	if s := SubjectFromContext(ctx); s != nil {
		return s.ID
	}
	return 0
}
