// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateShortLink(); err != nil {
		return err
	}
	if err := c.validateEvents(); err != nil {
		return err
	}
	return c.validateLogging()
}

// ValidateStorage checks only the sections the store needs.
func (c *Config) ValidateStorage() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}
	return c.validateShortLink()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.PublicURL != "" {
		if err := validateHTTPURL(c.Server.PublicURL, "PUBLIC_URL"); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be >= 0")
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be at least 1")
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("API_MAX_PAGE_SIZE (%d) must be >= API_DEFAULT_PAGE_SIZE (%d)",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}
	return nil
}

// validateSecurity validates security configuration
func (c *Config) validateSecurity() error {
	if err := c.validateJWTSecret(); err != nil {
		return err
	}
	if c.Security.SessionTimeout < time.Minute {
		return fmt.Errorf("SESSION_TIMEOUT must be at least 1m")
	}
	if err := c.validateRevocationStore(); err != nil {
		return err
	}
	if err := c.validateCORS(); err != nil {
		return err
	}
	if err := c.validateRateLimits(); err != nil {
		return err
	}
	return c.validateAdminCredentials()
}

// validateJWTSecret validates the JWT secret configuration
func (c *Config) validateJWTSecret() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters for security")
	}
	if containsPlaceholder(c.Security.JWTSecret) {
		return fmt.Errorf("JWT_SECRET contains a placeholder value - generate a secure secret with: openssl rand -base64 32")
	}
	return nil
}

func (c *Config) validateRevocationStore() error {
	switch c.Security.RevocationStore {
	case "memory":
		return nil
	case "badger":
		if c.Security.RevocationPath == "" {
			return fmt.Errorf("REVOCATION_PATH is required when REVOCATION_STORE is badger")
		}
		return nil
	default:
		return fmt.Errorf("REVOCATION_STORE must be one of: memory, badger")
	}
}

// validateCORS rejects wildcard origins in production.
func (c *Config) validateCORS() error {
	if c.hasWildcardCORS() && c.IsProduction() {
		return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed in production. " +
			"Set specific origins: CORS_ORIGINS=https://foodgram.example.com " +
			"or use ENVIRONMENT=development for testing purposes")
	}
	return nil
}

func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS returns true if CORS configuration has security concerns
// that should be logged at startup
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.hasWildcardCORS()
}

// Rate limit constants
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// validateAdminCredentials requires both bootstrap admin fields or neither.
func (c *Config) validateAdminCredentials() error {
	email, password := c.Security.AdminEmail, c.Security.AdminPassword
	if email == "" && password == "" {
		return nil
	}
	if email == "" || password == "" {
		return fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}
	if !strings.Contains(email, "@") {
		return fmt.Errorf("ADMIN_EMAIL must be an email address")
	}
	if len(password) < 8 {
		return fmt.Errorf("ADMIN_PASSWORD must be at least 8 characters")
	}
	if containsPlaceholder(password) {
		return fmt.Errorf("ADMIN_PASSWORD contains a placeholder value - set a secure password")
	}
	return nil
}

// maxTokenLength is the width of the short token columns.
const maxTokenLength = 64

func (c *Config) validateShortLink() error {
	sl := c.ShortLink
	if len(sl.Alphabet) < 2 {
		return fmt.Errorf("SHORTLINK_ALPHABET must contain at least 2 symbols")
	}
	if sl.Length < 1 || sl.URLLength < 1 || sl.Length > maxTokenLength || sl.URLLength > maxTokenLength {
		return fmt.Errorf("SHORTLINK_LENGTH and SHORTLINK_URL_LENGTH must be between 1 and %d", maxTokenLength)
	}
	if sl.MaxAttempts < 1 {
		return fmt.Errorf("SHORTLINK_MAX_ATTEMPTS must be at least 1")
	}
	return nil
}

func (c *Config) validateEvents() error {
	ev := c.Events
	if ev.NATSURL != "" {
		if err := validateNATSURL(ev.NATSURL); err != nil {
			return fmt.Errorf("EVENTS_NATS_URL: %w", err)
		}
	}
	if ev.Embedded {
		if ev.NATSURL != "" {
			return fmt.Errorf("EVENTS_EMBEDDED and EVENTS_NATS_URL are mutually exclusive")
		}
		if ev.EmbeddedPort < -1 || ev.EmbeddedPort > 65535 {
			return fmt.Errorf("EVENTS_EMBEDDED_PORT must be between -1 and 65535")
		}
	}
	if ev.BufferSize < 0 {
		return fmt.Errorf("EVENTS_BUFFER_SIZE must be >= 0")
	}
	if ev.BreakerFailureRatio <= 0 || ev.BreakerFailureRatio > 1 {
		return fmt.Errorf("EVENTS_BREAKER_FAILURE_RATIO must be in (0, 1]")
	}
	return nil
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// IsProduction returns true if the application is running in production mode.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

// placeholderPatterns flags values that were copied from an example file.
var placeholderPatterns = []string{
	"REPLACE",
	"CHANGEME",
	"CHANGE_ME",
	"YOUR_SECRET",
	"YOUR_PASSWORD",
	"PLACEHOLDER",
	"EXAMPLE",
}

func containsPlaceholder(value string) bool {
	upper := strings.ToUpper(value)
	for _, pattern := range placeholderPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}
