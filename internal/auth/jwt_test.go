// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/foodgram/internal/config"
	"github.com/tomtom215/foodgram/internal/models"
)

const testSecret = "test-secret-with-at-least-32-characters!!"

func newTestJWTManager(t *testing.T) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(&config.SecurityConfig{
		JWTSecret:      testSecret,
		SessionTimeout: time.Hour,
	})
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	return m
}

func testUser() *models.User {
	return &models.User{
		ID:       42,
		Email:    "cook@example.com",
		Username: "cook",
		Role:     models.RoleUser,
	}
}

func TestNewJWTManager(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		cfg         *config.SecurityConfig
		wantErr     bool
		wantTimeout time.Duration
	}{
		{"nil config", nil, true, 0},
		{"empty secret", &config.SecurityConfig{}, true, 0},
		{"default timeout", &config.SecurityConfig{JWTSecret: testSecret}, false, DefaultSessionTimeout},
		{"custom timeout", &config.SecurityConfig{JWTSecret: testSecret, SessionTimeout: 2 * time.Hour}, false, 2 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m, err := NewJWTManager(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewJWTManager() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && m.Timeout() != tt.wantTimeout {
				t.Errorf("Timeout() = %v, want %v", m.Timeout(), tt.wantTimeout)
			}
		})
	}
}

func TestJWTManager_GenerateAndValidate(t *testing.T) {
	t.Parallel()

	m := newTestJWTManager(t)
	token, issued, err := m.GenerateToken(testUser())
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("token %q is not a compact JWS", token)
	}
	if issued.ID == "" {
		t.Error("issued claims missing jti")
	}
	if issued.Subject != "42" {
		t.Errorf("Subject = %q, want 42", issued.Subject)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID != 42 || claims.Email != "cook@example.com" || claims.Role != models.RoleUser {
		t.Errorf("claims = %+v, want user 42 cook@example.com user", claims)
	}
	if claims.ID != issued.ID {
		t.Errorf("jti = %q, want %q", claims.ID, issued.ID)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Errorf("lifetime = %v, want 1h", got)
	}
}

func TestJWTManager_UniqueTokenIDs(t *testing.T) {
	t.Parallel()

	m := newTestJWTManager(t)
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		_, claims, err := m.GenerateToken(testUser())
		if err != nil {
			t.Fatalf("GenerateToken() error = %v", err)
		}
		if seen[claims.ID] {
			t.Fatalf("duplicate jti %q", claims.ID)
		}
		seen[claims.ID] = true
	}
}

func TestJWTManager_GenerateToken_InvalidUser(t *testing.T) {
	t.Parallel()

	m := newTestJWTManager(t)
	if _, _, err := m.GenerateToken(nil); err == nil {
		t.Error("GenerateToken(nil) should fail")
	}
	if _, _, err := m.GenerateToken(&models.User{Email: "x@example.com"}); err == nil {
		t.Error("GenerateToken(user without id) should fail")
	}
}

func TestJWTManager_ValidateToken_Expired(t *testing.T) {
	t.Parallel()

	m := newTestJWTManager(t)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := m.GenerateToken(testUser())
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	m.now = time.Now
	_, err = m.ValidateToken(token)
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Errorf("ValidateToken(expired) error = %v, want ErrTokenExpired", err)
	}
}

func TestJWTManager_ValidateToken_Rejects(t *testing.T) {
	t.Parallel()

	m := newTestJWTManager(t)
	other, err := NewJWTManager(&config.SecurityConfig{JWTSecret: strings.Repeat("z", 40)})
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	foreign, _, err := other.GenerateToken(testUser())
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		UserID:           1,
		RegisteredClaims: jwt.RegisteredClaims{ID: "x"},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString(none) error = %v", err)
	}

	noJTI, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: 1}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"empty", ""},
		{"wrong secret", foreign},
		{"alg none", noneToken},
		{"missing jti", noJTI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := m.ValidateToken(tt.token); err == nil {
				t.Error("ValidateToken() should fail")
			}
		})
	}
}

func TestSubjectFromClaims(t *testing.T) {
	t.Parallel()

	m := newTestJWTManager(t)
	admin := testUser()
	admin.Role = models.RoleAdmin
	_, claims, err := m.GenerateToken(admin)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	s := SubjectFromClaims(claims)
	if s.ID != 42 || s.TokenID != claims.ID || !s.IsAdmin() {
		t.Errorf("subject = %+v", s)
	}
	if s.IsExpired() {
		t.Error("fresh subject reported expired")
	}

	s.ExpiresAt = time.Now().Add(-time.Second)
	if !s.IsExpired() {
		t.Error("subject past ExpiresAt should be expired")
	}

	var nilSubject *AuthSubject
	if nilSubject.IsAdmin() || nilSubject.IsExpired() {
		t.Error("nil subject must be neither admin nor expired")
	}
}
