// Package testutil provides test doubles for the cache gateway.
package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"sync"
	"time"

	"github.com/dedw3n/api-cache/pkg/cache"
)

// FailingStore returns the injected error from every operation. It stands
// in for an unavailable Redis instance in degradation tests.
type FailingStore struct {
	Err error
}

func (s *FailingStore) Get(context.Context, string) (*cache.CacheEntry, error) {
	return nil, s.Err
}

func (s *FailingStore) Set(context.Context, string, *cache.CacheEntry, time.Duration) error {
	return s.Err
}

func (s *FailingStore) Delete(context.Context, string) error {
	return s.Err
}

func (s *FailingStore) DeletePattern(context.Context, *regexp.Regexp) (int, error) {
	return 0, s.Err
}

func (s *FailingStore) Ping(context.Context) error {
	return s.Err
}

// SpyStore records which keys were read and written, for asserting that
// mutating verbs never touch the store.
type SpyStore struct {
	cache.Store

	mu     sync.Mutex
	Reads  []string
	Writes []string
}

// NewSpyStore wraps an in-memory store.
func NewSpyStore() *SpyStore {
	return &SpyStore{Store: cache.NewMemoryStore()}
}

func (s *SpyStore) Get(ctx context.Context, key string) (*cache.CacheEntry, error) {
	s.mu.Lock()
	s.Reads = append(s.Reads, key)
	s.mu.Unlock()
	return s.Store.Get(ctx, key)
}

func (s *SpyStore) Set(ctx context.Context, key string, entry *cache.CacheEntry, ttl time.Duration) error {
	s.mu.Lock()
	s.Writes = append(s.Writes, key)
	s.mu.Unlock()
	return s.Store.Set(ctx, key, entry, ttl)
}

// Touched reports whether any store operation was observed.
func (s *SpyStore) Touched() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Reads)+len(s.Writes) > 0
}

// CountingHandler emits a fixed JSON payload and counts its invocations.
type CountingHandler struct {
	Payload any

	mu    sync.Mutex
	calls int
}

// Calls returns how many times the handler ran.
func (h *CountingHandler) Calls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls
}

func (h *CountingHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	h.calls++
	h.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.Payload)
}
