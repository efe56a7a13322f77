package cache

import (
	"encoding/json"
	"net/http"
	"time"
)

// CacheEntry represents a cached JSON response body.
//
// Entries are created on a cache miss, replaced wholesale on the next miss
// after expiry, and never mutated in place.
type CacheEntry struct {
	// Data is the cached JSON response body
	Data json.RawMessage `json:"data"`

	// ETag is the fingerprint of Data, quoted per entity-tag convention
	ETag string `json:"etag"`

	// Timestamp is when the entry was created
	Timestamp time.Time `json:"timestamp"`
}

// LastModified returns the entry timestamp formatted for the Last-Modified header.
func (e *CacheEntry) LastModified() string {
	return e.Timestamp.UTC().Format(http.TimeFormat)
}
