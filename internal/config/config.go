// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

// Package config loads Foodgram configuration from defaults, an optional YAML
// file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in values from defaultConfig()
//  2. Config File: config.yaml, /etc/foodgram/config.yaml or CONFIG_PATH
//  3. Environment Variables: override any mapped setting
//
// Config is immutable after Load() and safe for concurrent reads.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server       ServerConfig       `koanf:"server"`
	Database     DatabaseConfig     `koanf:"database"`
	API          APIConfig          `koanf:"api"`
	Security     SecurityConfig     `koanf:"security"`
	ShortLink    ShortLinkConfig    `koanf:"shortlink"`
	ShoppingList ShoppingListConfig `koanf:"shopping_list"`
	Events       EventsConfig       `koanf:"events"`
	Cache        CacheConfig        `koanf:"cache"`
	Logging      LoggingConfig      `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - HTTP_HOST, HTTP_PORT, HTTP_TIMEOUT
//   - PUBLIC_URL: absolute base for short-link redirects (default: request host)
//   - ENVIRONMENT: development, staging, production
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	PublicURL   string        `koanf:"public_url"`
	Environment string        `koanf:"environment"`
}

// DatabaseConfig holds DuckDB settings
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = use NumCPU
}

// APIConfig holds API pagination settings
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// SecurityConfig holds authentication, revocation and rate limit settings.
type SecurityConfig struct {
	JWTSecret      string        `koanf:"jwt_secret"`
	SessionTimeout time.Duration `koanf:"session_timeout"`

	// RevocationStore is "memory" or "badger". RevocationPath is required for badger.
	RevocationStore string `koanf:"revocation_store"`
	RevocationPath  string `koanf:"revocation_path"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`

	// Bootstrap administrator created at startup when both are set.
	AdminEmail    string `koanf:"admin_email"`
	AdminPassword string `koanf:"admin_password"`
}

// ShortLinkConfig configures token generation for recipes and generic links.
type ShortLinkConfig struct {
	Alphabet    string `koanf:"alphabet"`
	Length      int    `koanf:"length"`
	URLLength   int    `koanf:"url_length"`
	MaxAttempts int    `koanf:"max_attempts"`
}

// ShoppingListConfig configures the downloadable shopping list.
type ShoppingListConfig struct {
	Header string `koanf:"header"`
}

// EventsConfig configures the domain event bus.
//
// An empty NATSURL selects the in-process gochannel transport.
type EventsConfig struct {
	NATSURL          string        `koanf:"nats_url"`
	QueueGroup       string        `koanf:"queue_group"`
	SubscribersCount int           `koanf:"subscribers_count"`
	BufferSize       int64         `koanf:"buffer_size"`
	MaxReconnects    int           `koanf:"max_reconnects"`
	ReconnectWait    time.Duration `koanf:"reconnect_wait"`
	CloseTimeout     time.Duration `koanf:"close_timeout"`

	// Embedded runs an in-process NATS server and points the bus at it.
	// Mutually exclusive with NATSURL.
	Embedded     bool   `koanf:"embedded"`
	EmbeddedHost string `koanf:"embedded_host"`
	EmbeddedPort int    `koanf:"embedded_port"`

	// LiveFeed serves /api/events/ws/ to administrators.
	LiveFeed bool `koanf:"live_feed"`

	// Circuit breaker around publishes
	BreakerMaxRequests  uint32        `koanf:"breaker_max_requests"`
	BreakerInterval     time.Duration `koanf:"breaker_interval"`
	BreakerTimeout      time.Duration `koanf:"breaker_timeout"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio"`
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests"`
}

// CacheConfig configures the in-memory read cache.
type CacheConfig struct {
	TTL time.Duration `koanf:"ttl"`
}

// LoggingConfig holds logging configuration.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// Load loads configuration with LoadWithKoanf.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
