// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package cache

import "time"

// Cacher defines the interface for cache implementations.
// Both Cache (TTL-based) and LFUCache implement it.
type Cacher interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{})
	SetWithTTL(key string, value interface{}, ttl time.Duration)
	Delete(key string)
	Clear()
	GetStats() Stats
	HitRate() float64
	Close()
}

// CacheType represents the type of cache to create.
type CacheType string

const (
	// CacheTypeTTL is a simple TTL-based cache (default).
	CacheTypeTTL CacheType = "ttl"

	// CacheTypeLFU is a bounded Least Frequently Used cache.
	CacheTypeLFU CacheType = "lfu"
)

// CacheConfig holds configuration for creating a cache.
type CacheConfig struct {
	Type CacheType
	TTL  time.Duration

	// Capacity bounds LFU caches. Default: 10000
	Capacity int
}

// NewCacher creates a cache based on the configuration.
//
//	tokens := cache.NewCacher(cache.CacheConfig{Type: cache.CacheTypeLFU, TTL: time.Hour, Capacity: 5000})
func NewCacher(cfg CacheConfig) Cacher {
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}

	switch cfg.Type {
	case CacheTypeLFU:
		return NewLFUCache(cfg.Capacity, cfg.TTL)
	default:
		return New(cfg.TTL)
	}
}

// Verify interface implementations at compile time
var (
	_ Cacher = (*Cache)(nil)
	_ Cacher = (*LFUCache)(nil)
)
