// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package logging

import (
	"strings"

	"github.com/rs/zerolog"
)

// AuthEvent is a security-relevant authentication event.
type AuthEvent struct {
	// Event is the event type (login_success, login_failed, logout, ...).
	Event     string
	UserID    int64
	Email     string
	TokenID   string
	IPAddress string
	UserAgent string
	Success   bool
	Error     string
}

// AuthLogger writes sanitized authentication audit records.
type AuthLogger struct {
	logger zerolog.Logger
}

// NewAuthLogger creates an audit logger on the global logger.
func NewAuthLogger() *AuthLogger {
	return &AuthLogger{logger: With().Str("component", "auth").Logger()}
}

// NewAuthLoggerWithLogger creates an audit logger on a custom logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewAuthLoggerWithLogger(logger zerolog.Logger) *AuthLogger {
	return &AuthLogger{logger: logger.With().Str("component", "auth").Logger()}
}

// LogEvent logs ev with emails, token IDs and error text masked.
func (l *AuthLogger) LogEvent(ev *AuthEvent) {
	var e *zerolog.Event
	if ev.Success {
		e = l.logger.Info().Str("status", "success")
	} else {
		e = l.logger.Warn().Str("status", "failed")
	}
	e = e.Str("event", ev.Event)

	if ev.UserID != 0 {
		e = e.Int64("user_id", ev.UserID)
	}
	if ev.Email != "" {
		e = e.Str("email", SanitizeEmail(ev.Email))
	}
	if ev.TokenID != "" {
		e = e.Str("token_id", SanitizeToken(ev.TokenID))
	}
	if ev.IPAddress != "" {
		e = e.Str("ip", ev.IPAddress)
	}
	if ev.UserAgent != "" {
		e = e.Str("user_agent", truncateString(ev.UserAgent, 100))
	}
	if ev.Error != "" && !ev.Success {
		e = e.Str("error", SanitizeError(ev.Error))
	}
	e.Msg("")
}

// LogLoginSuccess logs a successful token login.
func (l *AuthLogger) LogLoginSuccess(userID int64, email, ip, userAgent string) {
	l.LogEvent(&AuthEvent{
		Event:     "login_success",
		UserID:    userID,
		Email:     email,
		IPAddress: ip,
		UserAgent: userAgent,
		Success:   true,
	})
}

// LogLoginFailure logs a rejected login attempt.
func (l *AuthLogger) LogLoginFailure(email, ip, userAgent, reason string) {
	l.LogEvent(&AuthEvent{
		Event:     "login_failed",
		Email:     email,
		IPAddress: ip,
		UserAgent: userAgent,
		Error:     reason,
	})
}

// LogLogout logs a token revocation by its owner.
func (l *AuthLogger) LogLogout(userID int64, tokenID, ip string) {
	l.LogEvent(&AuthEvent{
		Event:     "logout",
		UserID:    userID,
		TokenID:   tokenID,
		IPAddress: ip,
		Success:   true,
	})
}

// LogPasswordChanged logs a set_password call.
func (l *AuthLogger) LogPasswordChanged(userID int64, ip string, success bool, reason string) {
	l.LogEvent(&AuthEvent{
		Event:     "password_changed",
		UserID:    userID,
		IPAddress: ip,
		Success:   success,
		Error:     reason,
	})
}

// LogSignup logs a new account registration.
func (l *AuthLogger) LogSignup(userID int64, email, ip string) {
	l.LogEvent(&AuthEvent{
		Event:     "signup",
		UserID:    userID,
		Email:     email,
		IPAddress: ip,
		Success:   true,
	})
}

// SanitizeToken masks a token, keeping the first and last 4 characters.
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// SanitizeEmail masks the local part of an address.
// Example: "john.doe@example.com" -> "jo***@example.com"
func SanitizeEmail(email string) string {
	if email == "" {
		return ""
	}
	at := strings.Index(email, "@")
	if at <= 0 {
		return "***"
	}
	local, domain := email[:at], email[at:]
	if len(local) <= 2 {
		return "***" + domain
	}
	return local[:2] + "***" + domain
}

var sensitiveErrorWords = []string{
	"password",
	"secret",
	"token",
	"key",
	"bearer",
	"authorization",
}

// SanitizeError replaces messages that mention credentials with a generic
// one and truncates the rest.
func SanitizeError(err string) string {
	lower := strings.ToLower(err)
	for _, w := range sensitiveErrorWords {
		if strings.Contains(lower, w) {
			return "authentication error"
		}
	}
	return truncateString(err, 200)
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
