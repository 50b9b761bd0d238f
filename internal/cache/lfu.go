// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package cache

import (
	"sync"
	"time"
)

// lfuEntry is a node in one frequency list.
type lfuEntry struct {
	key       string
	value     interface{}
	freq      int
	expiresAt time.Time
	prev      *lfuEntry
	next      *lfuEntry
}

// freqList is a doubly-linked list of entries with the same frequency.
type freqList struct {
	head *lfuEntry // sentinel, most recently used side
	tail *lfuEntry // sentinel, least recently used side
	size int
}

func newFreqList() *freqList {
	fl := &freqList{
		head: &lfuEntry{},
		tail: &lfuEntry{},
	}
	fl.head.next = fl.tail
	fl.tail.prev = fl.head
	return fl
}

func (fl *freqList) addToFront(entry *lfuEntry) {
	entry.prev = fl.head
	entry.next = fl.head.next
	fl.head.next.prev = entry
	fl.head.next = entry
	fl.size++
}

func (fl *freqList) remove(entry *lfuEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	entry.prev = nil
	entry.next = nil
	fl.size--
}

func (fl *freqList) removeLast() *lfuEntry {
	if fl.size == 0 {
		return nil
	}
	entry := fl.tail.prev
	fl.remove(entry)
	return entry
}

// LFUCache is a bounded Least Frequently Used cache with O(1) Get, Set and
// eviction. Ties at the lowest frequency evict the least recently used
// entry. Expiration is lazy.
type LFUCache struct {
	mu sync.Mutex

	capacity int
	ttl      time.Duration

	keyMap  map[string]*lfuEntry
	freqMap map[int]*freqList
	minFreq int

	hits      int64
	misses    int64
	evictions int64
}

// NewLFUCache creates an LFU cache. Non-positive capacity defaults to
// 10000 and non-positive ttl to 5 minutes.
func NewLFUCache(capacity int, ttl time.Duration) *LFUCache {
	if capacity <= 0 {
		capacity = 10000
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &LFUCache{
		capacity: capacity,
		ttl:      ttl,
		keyMap:   make(map[string]*lfuEntry, capacity),
		freqMap:  make(map[int]*freqList),
	}
}

// Get returns the value for key and bumps its frequency.
func (c *LFUCache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.keyMap[key]
	if !exists {
		c.misses++
		return nil, false
	}

	if time.Now().After(entry.expiresAt) {
		c.removeEntry(entry)
		c.misses++
		c.evictions++
		return nil, false
	}

	c.incrementFreq(entry)
	c.hits++
	return entry.value, true
}

// Set adds or updates an entry with the default TTL.
func (c *LFUCache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL adds or updates an entry, evicting the least frequently used
// entry when the cache is full.
func (c *LFUCache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := time.Now().Add(ttl)

	if entry, exists := c.keyMap[key]; exists {
		entry.value = value
		entry.expiresAt = expiresAt
		c.incrementFreq(entry)
		return
	}

	if len(c.keyMap) >= c.capacity {
		c.evict()
	}

	entry := &lfuEntry{
		key:       key,
		value:     value,
		freq:      1,
		expiresAt: expiresAt,
	}
	if c.freqMap[1] == nil {
		c.freqMap[1] = newFreqList()
	}
	c.freqMap[1].addToFront(entry)
	c.keyMap[key] = entry
	c.minFreq = 1
}

// Delete removes key; missing keys are ignored.
func (c *LFUCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, exists := c.keyMap[key]; exists {
		c.removeEntry(entry)
		c.evictions++
	}
}

// Len returns the current number of entries.
func (c *LFUCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.keyMap)
}

// Clear removes all entries.
func (c *LFUCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.evictions += int64(len(c.keyMap))
	c.keyMap = make(map[string]*lfuEntry, c.capacity)
	c.freqMap = make(map[int]*freqList)
	c.minFreq = 0
}

// GetStats returns a snapshot of hit, miss and eviction counts.
func (c *LFUCache) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		TotalKeys: int64(len(c.keyMap)),
	}
}

// HitRate returns the cache hit rate as a percentage.
func (c *LFUCache) HitRate() float64 {
	stats := c.GetStats()
	total := stats.Hits + stats.Misses
	if total == 0 {
		return 0.0
	}
	return float64(stats.Hits) / float64(total) * 100.0
}

// Frequency returns the access count of key, or 0.
func (c *LFUCache) Frequency(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, exists := c.keyMap[key]; exists {
		return entry.freq
	}
	return 0
}

// Close is a no-op; LFUCache has no background goroutine.
func (c *LFUCache) Close() {}

// Internal methods (must be called with lock held)

func (c *LFUCache) incrementFreq(entry *lfuEntry) {
	oldFreq := entry.freq

	if fl, exists := c.freqMap[oldFreq]; exists {
		fl.remove(entry)
		if fl.size == 0 {
			delete(c.freqMap, oldFreq)
			if c.minFreq == oldFreq {
				c.minFreq++
			}
		}
	}

	entry.freq++
	if c.freqMap[entry.freq] == nil {
		c.freqMap[entry.freq] = newFreqList()
	}
	c.freqMap[entry.freq].addToFront(entry)
}

func (c *LFUCache) evict() {
	fl := c.freqMap[c.minFreq]
	if fl == nil {
		// minFreq is stale after a Delete or expiry emptied its list.
		c.minFreq = 0
		for freq := range c.freqMap {
			if c.minFreq == 0 || freq < c.minFreq {
				c.minFreq = freq
			}
		}
		if fl = c.freqMap[c.minFreq]; fl == nil {
			return
		}
	}
	if entry := fl.removeLast(); entry != nil {
		delete(c.keyMap, entry.key)
		c.evictions++
	}
	if fl.size == 0 {
		delete(c.freqMap, c.minFreq)
	}
}

func (c *LFUCache) removeEntry(entry *lfuEntry) {
	if fl, exists := c.freqMap[entry.freq]; exists {
		fl.remove(entry)
		if fl.size == 0 {
			delete(c.freqMap, entry.freq)
		}
	}
	delete(c.keyMap, entry.key)
}
