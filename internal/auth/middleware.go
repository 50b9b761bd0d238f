// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/foodgram/internal/logging"
)

// Authorization header schemes accepted by Authenticate.
const (
	SchemeToken  = "Token"
	SchemeBearer = "Bearer"
)

// ErrorHandler writes an authentication failure response.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Middleware authenticates requests with JWTs issued by a JWTManager.
type Middleware struct {
	jwtManager     *JWTManager
	revocations    RevocationStore
	onUnauthorized ErrorHandler
}

// MiddlewareOption configures a Middleware.
type MiddlewareOption func(*Middleware)

// WithErrorHandler replaces the default 401 writer.
func WithErrorHandler(h ErrorHandler) MiddlewareOption {
	return func(m *Middleware) {
		m.onUnauthorized = h
	}
}

// NewMiddleware creates an authentication middleware. revocations may be nil,
// in which case logout has no effect on token validity.
func NewMiddleware(jwtManager *JWTManager, revocations RevocationStore, opts ...MiddlewareOption) *Middleware {
	m := &Middleware{
		jwtManager:     jwtManager,
		revocations:    revocations,
		onUnauthorized: writeUnauthorized,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Authenticate attaches an AuthSubject when the request carries a valid
// token. Requests without an Authorization header pass through anonymously;
// malformed, expired or revoked tokens are rejected with 401.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		subject, err := m.subjectFromHeader(r, header)
		if err != nil {
			m.onUnauthorized(w, r, err)
			return
		}

		ctx := ContextWithSubject(r.Context(), subject)
		ctx = logging.ContextWithUserID(ctx, subject.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth rejects requests that Authenticate left anonymous.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if SubjectFromContext(r.Context()) == nil {
			m.onUnauthorized(w, r, ErrNoCredentials)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) subjectFromHeader(r *http.Request, header string) (*AuthSubject, error) {
	token, err := ExtractToken(header)
	if err != nil {
		RejectedTokens.WithLabelValues("malformed").Inc()
		return nil, err
	}

	claims, err := m.jwtManager.ValidateToken(token)
	if err != nil {
		RejectedTokens.WithLabelValues("invalid").Inc()
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Token validation failed")
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredCredentials
		}
		return nil, ErrInvalidCredentials
	}

	if m.revocations != nil {
		revoked, err := m.revocations.IsRevoked(r.Context(), claims.ID)
		if err != nil {
			logging.CtxErr(r.Context(), err).Str("jti", claims.ID).Msg("Revocation check failed")
			return nil, ErrInvalidCredentials
		}
		if revoked {
			RejectedTokens.WithLabelValues("revoked").Inc()
			return nil, ErrTokenRevoked
		}
	}

	return SubjectFromClaims(claims), nil
}

// ExtractToken returns the token from an Authorization header value using
// the Token or Bearer scheme.
func ExtractToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok {
		return "", ErrInvalidCredentials
	}
	if !strings.EqualFold(scheme, SchemeToken) && !strings.EqualFold(scheme, SchemeBearer) {
		return "", ErrInvalidCredentials
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrInvalidCredentials
	}
	return token, nil
}

func writeUnauthorized(w http.ResponseWriter, _ *http.Request, err error) {
	detail := "Authentication credentials were not provided."
	if !errors.Is(err, ErrNoCredentials) {
		detail = "Invalid token."
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", SchemeToken)
	w.WriteHeader(http.StatusUnauthorized)
	//nolint:errcheck // response already committed
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
