package cache

import (
	"context"
	"errors"
	"regexp"
	"time"
)

var (
	// ErrCacheMiss indicates the requested key was not found in the store
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidEntry indicates the cache entry is invalid or corrupted
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// Store is the key-value backend the middleware reads and writes.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Get returns ErrCacheMiss when the key is absent or expired.
// - Set replaces an existing entry wholesale; entries are never mutated
//   in place, so readers see either the old entry or the new one.
// - DeletePattern removes each matching key atomically with respect to
//   concurrent reads.
type Store interface {
	// Get retrieves a cache entry by key.
	Get(ctx context.Context, key string) (*CacheEntry, error)

	// Set stores an entry under key with the given TTL.
	Set(ctx context.Context, key string, entry *CacheEntry, ttl time.Duration) error

	// Delete removes a single entry. Idempotent - no error on miss.
	Delete(ctx context.Context, key string) error

	// DeletePattern removes all entries whose key matches the pattern.
	// Returns the number of entries removed.
	DeletePattern(ctx context.Context, pattern *regexp.Regexp) (int, error)

	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
}
