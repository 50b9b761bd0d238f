// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/foodgram/config.yaml",
	"/etc/foodgram/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultAlphabet is the 62-symbol token alphabet.
const DefaultAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// DefaultShoppingListHeader is the first line of every shopping list.
const DefaultShoppingListHeader = "Список покупок:"

// defaultConfig returns the built-in defaults applied before file and env layers.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8000,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			PublicURL:   "",
			Environment: "development",
		},
		Database: DatabaseConfig{
			Path:      "/data/foodgram.duckdb",
			MaxMemory: "1GB",
			Threads:   0,
		},
		API: APIConfig{
			DefaultPageSize: 6,
			MaxPageSize:     100,
		},
		Security: SecurityConfig{
			JWTSecret:         "",
			SessionTimeout:    7 * 24 * time.Hour,
			RevocationStore:   "badger",
			RevocationPath:    "/data/revocations",
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		ShortLink: ShortLinkConfig{
			Alphabet:    DefaultAlphabet,
			Length:      6,
			URLLength:   6,
			MaxAttempts: 10,
		},
		ShoppingList: ShoppingListConfig{
			Header: DefaultShoppingListHeader,
		},
		Events: EventsConfig{
			NATSURL:             "",
			QueueGroup:          "foodgram",
			SubscribersCount:    1,
			BufferSize:          256,
			MaxReconnects:       -1,
			ReconnectWait:       2 * time.Second,
			CloseTimeout:        10 * time.Second,
			EmbeddedHost:        "127.0.0.1",
			EmbeddedPort:        4222,
			LiveFeed:            true,
			BreakerMaxRequests:  3,
			BreakerInterval:     time.Minute,
			BreakerTimeout:      30 * time.Second,
			BreakerFailureRatio: 0.6,
			BreakerMinRequests:  10,
		},
		Cache: CacheConfig{
			TTL: 5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	cfg, err := loadLayers()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadStorage loads the same layers as LoadWithKoanf but validates only the
// database and shortlink sections. Offline tools use it and need no JWT
// secret or server settings.
func LoadStorage() (*Config, error) {
	cfg, err := loadLayers()
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateStorage(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func loadLayers() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// DUCKDB_PATH -> database.path, SHORTLINK_LENGTH -> shortlink.length
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings while the struct expects []string.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to koanf paths.
// Unmapped variables are ignored so unrelated environment does not leak in.
var envMappings = map[string]string{
	"http_host":    "server.host",
	"http_port":    "server.port",
	"http_timeout": "server.timeout",
	"public_url":   "server.public_url",
	"environment":  "server.environment",

	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	"api_default_page_size": "api.default_page_size",
	"api_max_page_size":     "api.max_page_size",

	"jwt_secret":          "security.jwt_secret",
	"session_timeout":     "security.session_timeout",
	"revocation_store":    "security.revocation_store",
	"revocation_path":     "security.revocation_path",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",
	"admin_email":         "security.admin_email",
	"admin_password":      "security.admin_password",

	"shortlink_alphabet":     "shortlink.alphabet",
	"shortlink_length":       "shortlink.length",
	"shortlink_url_length":   "shortlink.url_length",
	"shortlink_max_attempts": "shortlink.max_attempts",

	"shopping_list_header": "shopping_list.header",

	"events_nats_url":              "events.nats_url",
	"events_queue_group":           "events.queue_group",
	"events_subscribers_count":     "events.subscribers_count",
	"events_buffer_size":           "events.buffer_size",
	"events_max_reconnects":        "events.max_reconnects",
	"events_reconnect_wait":        "events.reconnect_wait",
	"events_close_timeout":         "events.close_timeout",
	"events_embedded":              "events.embedded",
	"events_embedded_host":         "events.embedded_host",
	"events_embedded_port":         "events.embedded_port",
	"events_live_feed":             "events.live_feed",
	"events_breaker_max_requests":  "events.breaker_max_requests",
	"events_breaker_interval":      "events.breaker_interval",
	"events_breaker_timeout":       "events.breaker_timeout",
	"events_breaker_failure_ratio": "events.breaker_failure_ratio",
	"events_breaker_min_requests":  "events.breaker_min_requests",

	"cache_ttl": "cache.ttl",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - DUCKDB_PATH -> database.path
//   - HTTP_PORT -> server.port
//   - SHOPPING_LIST_HEADER -> shopping_list.header
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
