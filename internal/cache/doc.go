// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

/*
Package cache provides the thread-safe in-memory read caches in front of
DuckDB.

Two implementations share the Cacher interface:
  - Cache: TTL map with a background sweep, used for the tag list
  - LFUCache: bounded least-frequently-used cache, used for recipe short-token
    resolution where a few hot links dominate traffic

Reads wraps both with cache-specific accessors and records
foodgram_cache_hits_total / foodgram_cache_misses_total per cache name.
Entries are invalidated by the events router when tags change or recipes
are deleted.

# Usage Example

	reads := cache.NewReads(cfg.Cache.TTL)
	defer reads.Close()

	if tags, ok := reads.Tags(); ok {
	    return tags
	}
	tags, err := db.ListTags(ctx)
	reads.SetTags(tags)

# Thread Safety

All types are safe for concurrent use.
*/
package cache
