// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Security.JWTSecret = testJWTSecret
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	t.Parallel()

	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Validate() on defaults with secret = %v", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"placeholder secret", func(c *Config) { c.Security.JWTSecret = "CHANGEME-CHANGEME-CHANGEME-CHANGEME" }, "placeholder"},
		{"badger without path", func(c *Config) { c.Security.RevocationPath = "" }, "REVOCATION_PATH"},
		{"memory without path", func(c *Config) {
			c.Security.RevocationStore = "memory"
			c.Security.RevocationPath = ""
		}, ""},
		{"wildcard cors in production", func(c *Config) { c.Server.Environment = "production" }, "CORS_ORIGINS"},
		{"specific cors in production", func(c *Config) {
			c.Server.Environment = "production"
			c.Security.CORSOrigins = []string{"https://foodgram.example.org"}
		}, ""},
		{"rate limit out of range", func(c *Config) { c.Security.RateLimitReqs = 0 }, "RATE_LIMIT_REQUESTS"},
		{"rate limit disabled skips bounds", func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}, ""},
		{"admin email without password", func(c *Config) { c.Security.AdminEmail = "admin@foodgram.test" }, "ADMIN_EMAIL and ADMIN_PASSWORD"},
		{"admin short password", func(c *Config) {
			c.Security.AdminEmail = "admin@foodgram.test"
			c.Security.AdminPassword = "short"
		}, "at least 8"},
		{"admin complete", func(c *Config) {
			c.Security.AdminEmail = "admin@foodgram.test"
			c.Security.AdminPassword = "s3cure-admin-pass"
		}, ""},
		{"single symbol alphabet", func(c *Config) { c.ShortLink.Alphabet = "a" }, "SHORTLINK_ALPHABET"},
		{"zero attempts", func(c *Config) { c.ShortLink.MaxAttempts = 0 }, "SHORTLINK_MAX_ATTEMPTS"},
		{"token wider than column", func(c *Config) { c.ShortLink.URLLength = 65 }, "SHORTLINK_URL_LENGTH"},
		{"max page below default", func(c *Config) { c.API.MaxPageSize = 2 }, "API_MAX_PAGE_SIZE"},
		{"breaker ratio out of range", func(c *Config) { c.Events.BreakerFailureRatio = 1.5 }, "BREAKER_FAILURE_RATIO"},
		{"embedded with external url", func(c *Config) {
			c.Events.Embedded = true
			c.Events.NATSURL = "nats://localhost:4222"
		}, "mutually exclusive"},
		{"embedded port out of range", func(c *Config) {
			c.Events.Embedded = true
			c.Events.EmbeddedPort = 70000
		}, "EVENTS_EMBEDDED_PORT"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
		{"empty database path", func(c *Config) { c.Database.Path = "" }, "DUCKDB_PATH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateHTTPURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://foodgram.example.org", false},
		{"http://localhost:8000/", false},
		{"ftp://foodgram.example.org", true},
		{"https://", true},
		{"https://foodgram.example.org/api", true},
		{"https://foodgram.example.org?x=1", true},
	}

	for _, tt := range tests {
		err := validateHTTPURL(tt.url, "PUBLIC_URL")
		if (err != nil) != tt.wantErr {
			t.Errorf("validateHTTPURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
		}
	}
}

func TestValidateNATSURL(t *testing.T) {
	t.Parallel()

	for _, u := range []string{"nats://localhost:4222", "tls://nats.example.org:4222", "ws://localhost:8080"} {
		if err := validateNATSURL(u); err != nil {
			t.Errorf("validateNATSURL(%q) = %v, want nil", u, err)
		}
	}
	for _, u := range []string{"http://localhost:4222", "nats://"} {
		if err := validateNATSURL(u); err == nil {
			t.Errorf("validateNATSURL(%q) = nil, want error", u)
		}
	}
}

func TestServerAddr(t *testing.T) {
	t.Parallel()

	s := ServerConfig{Host: "127.0.0.1", Port: 8000}
	if got := s.Addr(); got != "127.0.0.1:8000" {
		t.Errorf("Addr() = %q, want 127.0.0.1:8000", got)
	}
}

func TestIsProduction(t *testing.T) {
	t.Parallel()

	for env, want := range map[string]bool{"production": true, "PROD": true, "development": false, "": false} {
		c := &Config{Server: ServerConfig{Environment: env}}
		if got := c.IsProduction(); got != want {
			t.Errorf("IsProduction(%q) = %v, want %v", env, got, want)
		}
	}
}
