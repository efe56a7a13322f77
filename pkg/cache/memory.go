package cache

import (
	"context"
	"regexp"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store implementation.
//
// It is the default backend for tests and single-process deployments.
// Expired entries are removed lazily on access.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	entry     *CacheEntry
	expiresAt time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
	}
}

// Get retrieves a cache entry by key. Returns ErrCacheMiss when the key is
// absent or the entry has expired.
func (s *MemoryStore) Get(_ context.Context, key string) (*CacheEntry, error) {
	s.mu.RLock()
	item, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrCacheMiss
	}

	if time.Now().After(item.expiresAt) {
		// Expired - clean up lazily
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, ErrCacheMiss
	}

	return item.entry, nil
}

// Set stores an entry under key with the given TTL. TTL <= 0 means the
// entry is not stored.
func (s *MemoryStore) Set(_ context.Context, key string, entry *CacheEntry, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	s.mu.Lock()
	s.entries[key] = memoryEntry{
		entry:     entry,
		expiresAt: time.Now().Add(ttl),
	}
	s.mu.Unlock()

	return nil
}

// Delete removes a single entry. Idempotent - no error on miss.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// DeletePattern removes all entries whose key matches the pattern.
func (s *MemoryStore) DeletePattern(_ context.Context, pattern *regexp.Regexp) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key := range s.entries {
		if pattern.MatchString(key) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed, nil
}

// Ping always succeeds for the in-memory store.
func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// Len returns the number of live entries, counting expired entries that
// have not been lazily removed yet.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)
