// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package authz

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/foodgram/internal/auth"
	"github.com/tomtom215/foodgram/internal/logging"
)

// DenyHandler writes the response for a denied request. status is 401 for
// anonymous callers and 403 for authenticated ones.
type DenyHandler func(w http.ResponseWriter, r *http.Request, status int)

// Middleware provides authorization middleware using Casbin.
type Middleware struct {
	enforcer *Enforcer
	onDeny   DenyHandler
}

// NewMiddleware creates a new authorization middleware. A nil onDeny writes
// a {"detail": ...} JSON body.
func NewMiddleware(enforcer *Enforcer, onDeny DenyHandler) *Middleware {
	if onDeny == nil {
		onDeny = writeDenied
	}
	return &Middleware{
		enforcer: enforcer,
		onDeny:   onDeny,
	}
}

// Enforcer returns the underlying enforcer.
func (m *Middleware) Enforcer() *Enforcer {
	return m.enforcer
}

// Authorize returns chi middleware that enforces action on object for the
// subject attached by auth.Middleware.Authenticate.
func (m *Middleware) Authorize(object, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := auth.RoleFromContext(r.Context())

			allowed, err := m.enforcer.Enforce(role, object, action)
			if err != nil {
				logging.CtxErr(r.Context(), err).Str("object", object).Str("action", action).Msg("Authorization error")
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			if !allowed {
				status := http.StatusForbidden
				if role == auth.RoleAnonymous {
					status = http.StatusUnauthorized
				}
				logging.Ctx(r.Context()).Debug().
					Str("role", role).
					Str("object", object).
					Str("action", action).
					Msg("Authorization denied")
				m.onDeny(w, r, status)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeDenied(w http.ResponseWriter, _ *http.Request, status int) {
	detail := "You do not have permission to perform this action."
	if status == http.StatusUnauthorized {
		detail = "Authentication credentials were not provided."
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // response already committed
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
