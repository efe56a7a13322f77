package cache

import (
	"net/http"
	"strconv"
	"time"
)

// KeyFunc derives a custom cache key from a request. When set on
// CacheOptions it replaces the default derivation entirely.
type KeyFunc func(r *http.Request) string

// Condition decides whether a request is cacheable. Returning false
// makes the middleware pass the request through untouched.
type Condition func(r *http.Request) bool

// CacheOptions configures caching for a single route.
//
// Options are supplied once at route registration time and must not be
// mutated afterwards.
type CacheOptions struct {
	// TTL is how long a cached response stays fresh. TTL <= 0 disables
	// caching for the route.
	TTL time.Duration

	// Key overrides the default key derivation when set.
	Key KeyFunc

	// Condition gates caching per request. Nil means always cacheable.
	Condition Condition

	// VaryBy lists header names folded into the cache key.
	VaryBy []string

	// Private marks responses as user-specific (Cache-Control: private).
	Private bool

	// CacheControl overrides the generated Cache-Control header value.
	CacheControl string

	// Coalesce collapses concurrent misses for the same key into a single
	// handler execution. Off by default; concurrent misses then recompute
	// redundantly and the last writer wins, which is harmless for
	// idempotent GET payloads.
	Coalesce bool
}

// cacheControl returns the Cache-Control header value for the route.
// max-age is the TTL in whole seconds, floored: under-serving by a
// fraction of a second is acceptable, serving stale content is not.
func (o CacheOptions) cacheControl() string {
	if o.CacheControl != "" {
		return o.CacheControl
	}
	scope := "public"
	if o.Private {
		scope = "private"
	}
	return scope + ", max-age=" + strconv.FormatInt(int64(o.TTL/time.Second), 10)
}
