// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Revocation store types accepted by NewRevocationStore.
const (
	RevocationStoreMemory = "memory"
	RevocationStoreBadger = "badger"
)

const revocationKeyPrefix = "revoked:"

// ErrRevocationStoreClosed is returned after Close.
var ErrRevocationStoreClosed = errors.New("revocation store is closed")

// RevocationStore records revoked token IDs until the tokens expire.
type RevocationStore interface {
	// Revoke marks jti as revoked. The entry is kept until expiresAt; a jti
	// whose token has already expired is accepted and not stored.
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error

	// IsRevoked reports whether jti has been revoked.
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// Close releases resources held by the store.
	Close() error
}

// NewRevocationStore creates the store named by storeType. path is the
// BadgerDB directory and is required for the badger store.
func NewRevocationStore(storeType, path string) (RevocationStore, error) {
	switch storeType {
	case "", RevocationStoreMemory:
		return NewMemoryRevocationStore(), nil
	case RevocationStoreBadger:
		if path == "" {
			return nil, fmt.Errorf("revocation path is required for badger store")
		}
		opts := badger.DefaultOptions(path)
		opts.Logger = nil
		db, err := badger.Open(opts)
		if err != nil {
			return nil, fmt.Errorf("failed to open revocation store: %w", err)
		}
		store := NewBadgerRevocationStore(db)
		store.ownsDB = true
		return store, nil
	default:
		return nil, fmt.Errorf("unknown revocation store type: %q", storeType)
	}
}

// MemoryRevocationStore keeps revocations in a map. Revocations are lost on
// restart, so tokens issued before a restart become usable again until they
// expire.
type MemoryRevocationStore struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	closed  bool
	now     func() time.Time
}

// NewMemoryRevocationStore creates an empty in-memory store.
func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke implements RevocationStore.
func (s *MemoryRevocationStore) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		RevocationStoreOperations.WithLabelValues("revoke", "failure").Inc()
		return ErrRevocationStoreClosed
	}

	now := s.now()
	if !expiresAt.After(now) {
		RevocationStoreOperations.WithLabelValues("revoke", "expired").Inc()
		return nil
	}
	s.entries[jti] = expiresAt

	// Prune on write.
	for id, exp := range s.entries {
		if !exp.After(now) {
			delete(s.entries, id)
		}
	}

	RevocationStoreOperations.WithLabelValues("revoke", "success").Inc()
	return nil
}

// IsRevoked implements RevocationStore.
func (s *MemoryRevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, ErrRevocationStoreClosed
	}

	exp, ok := s.entries[jti]
	if !ok {
		return false, nil
	}
	return exp.After(s.now()), nil
}

// Len returns the number of stored entries, including expired ones not yet pruned.
func (s *MemoryRevocationStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close implements RevocationStore.
func (s *MemoryRevocationStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.entries = nil
	return nil
}

// BadgerRevocationStore persists revocations in BadgerDB. Each key carries a
// TTL equal to the remaining token lifetime so badger drops it on its own.
type BadgerRevocationStore struct {
	db     *badger.DB
	prefix []byte
	ownsDB bool
	closed bool
	mu     sync.RWMutex
	now    func() time.Time
}

// NewBadgerRevocationStore wraps an open badger database. The caller keeps
// ownership of db.
func NewBadgerRevocationStore(db *badger.DB) *BadgerRevocationStore {
	return &BadgerRevocationStore{
		db:     db,
		prefix: []byte(revocationKeyPrefix),
		now:    time.Now,
	}
}

func (s *BadgerRevocationStore) makeKey(jti string) []byte {
	key := make([]byte, 0, len(s.prefix)+len(jti))
	key = append(key, s.prefix...)
	return append(key, jti...)
}

// Revoke implements RevocationStore.
func (s *BadgerRevocationStore) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		RevocationStoreOperations.WithLabelValues("revoke", "failure").Inc()
		return ErrRevocationStoreClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		RevocationStoreOperations.WithLabelValues("revoke", "expired").Inc()
		return nil
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		value, err := expiresAt.UTC().MarshalBinary()
		if err != nil {
			return err
		}
		return txn.SetEntry(badger.NewEntry(s.makeKey(jti), value).WithTTL(ttl))
	})
	if err != nil {
		RevocationStoreOperations.WithLabelValues("revoke", "failure").Inc()
		return fmt.Errorf("failed to store revocation: %w", err)
	}

	RevocationStoreOperations.WithLabelValues("revoke", "success").Inc()
	return nil
}

// IsRevoked implements RevocationStore.
func (s *BadgerRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, ErrRevocationStoreClosed
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	var revoked bool
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.makeKey(jti))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		revoked = !item.IsDeletedOrExpired()
		return nil
	})
	if err != nil {
		RevocationStoreOperations.WithLabelValues("check", "failure").Inc()
		return false, fmt.Errorf("failed to read revocation: %w", err)
	}
	return revoked, nil
}

// RunValueLogGC reclaims value log space left by expired revocations.
// A pass that finds nothing to rewrite is not an error.
func (s *BadgerRevocationStore) RunValueLogGC(discardRatio float64) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrRevocationStoreClosed
	}
	for {
		err := s.db.RunValueLogGC(discardRatio)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrRejected) || errors.Is(err, badger.ErrGCInMemoryMode) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("revocation store gc: %w", err)
		}
	}
}

// Close implements RevocationStore. The database is closed only when the
// store opened it.
func (s *BadgerRevocationStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.ownsDB {
		return s.db.Close()
	}
	return nil
}

var (
	_ RevocationStore = (*MemoryRevocationStore)(nil)
	_ RevocationStore = (*BadgerRevocationStore)(nil)
)
