// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package authz

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tomtom215/foodgram/internal/auth"
	"github.com/tomtom215/foodgram/internal/models"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestMiddleware_Authorize(t *testing.T) {
	t.Parallel()

	mw := NewMiddleware(newTestEnforcer(t), nil)

	tests := []struct {
		name       string
		subject    *auth.AuthSubject
		object     string
		action     string
		wantStatus int
	}{
		{"anonymous read", nil, ObjectRecipes, ActionRead, http.StatusOK},
		{"anonymous write", nil, ObjectRecipes, ActionWrite, http.StatusUnauthorized},
		{"user write recipe", &auth.AuthSubject{ID: 1, Role: models.RoleUser}, ObjectRecipes, ActionWrite, http.StatusOK},
		{"user write tag", &auth.AuthSubject{ID: 1, Role: models.RoleUser}, ObjectTags, ActionWrite, http.StatusForbidden},
		{"user list links", &auth.AuthSubject{ID: 1, Role: models.RoleUser}, ObjectLinks, ActionRead, http.StatusForbidden},
		{"admin write tag", &auth.AuthSubject{ID: 2, Role: models.RoleAdmin}, ObjectTags, ActionWrite, http.StatusOK},
		{"admin list links", &auth.AuthSubject{ID: 2, Role: models.RoleAdmin}, ObjectLinks, ActionRead, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodPost, "/api/tags/", http.NoBody)
			if tt.subject != nil {
				req = req.WithContext(auth.ContextWithSubject(req.Context(), tt.subject))
			}
			rec := httptest.NewRecorder()
			mw.Authorize(tt.object, tt.action)(okHandler).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK && !strings.Contains(rec.Body.String(), "detail") {
				t.Errorf("body = %q, want a detail message", rec.Body.String())
			}
		})
	}
}

func TestMiddleware_CustomDenyHandler(t *testing.T) {
	t.Parallel()

	var gotStatus int
	mw := NewMiddleware(newTestEnforcer(t), func(w http.ResponseWriter, _ *http.Request, status int) {
		gotStatus = status
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/links/abc/", http.NoBody)
	req = req.WithContext(auth.ContextWithSubject(req.Context(), &auth.AuthSubject{ID: 1, Role: models.RoleUser}))
	rec := httptest.NewRecorder()
	mw.Authorize(ObjectLinks, ActionModerate)(okHandler).ServeHTTP(rec, req)

	if gotStatus != http.StatusForbidden {
		t.Errorf("deny status = %d, want 403", gotStatus)
	}
	if rec.Code != http.StatusTeapot {
		t.Errorf("response status = %d, want custom handler's 418", rec.Code)
	}
	if mw.Enforcer() == nil {
		t.Error("Enforcer() returned nil")
	}
}
