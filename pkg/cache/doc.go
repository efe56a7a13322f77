// Package cache provides HTTP response caching middleware with Redis or
// in-memory backends.
//
// The middleware wraps GET route handlers and implements the following:
//
// - Deterministic cache key derivation (method, path, vary-by headers, sorted query, user id)
// - ETag fingerprinting of JSON response bodies (SHA-256)
// - Conditional request support (If-None-Match / 304 Not Modified)
// - TTL-based expiry managed by the backing store
// - Pattern-based invalidation for write paths
// - Prometheus metrics for observability
//
// # Basic Usage
//
//	// Create a store (Redis for production, memory for tests)
//	store := cache.NewRedisStore(redisClient)
//
//	// Create the middleware
//	mw := cache.New(cache.Config{Store: store})
//
//	// Wrap a route
//	r.With(mw.Handler(cache.CacheOptions{TTL: 10 * time.Minute})).
//		Get("/api/products", listProducts)
//
// # Conditional Requests
//
// On a cache hit the middleware sets Cache-Control, ETag and Last-Modified.
// When the client sends If-None-Match matching the stored fingerprint the
// middleware responds 304 with no body and the same validator headers, so a
// client that dropped its cached body can recover correct metadata.
//
// # Invalidation
//
//	// After a write to the products table:
//	removed, err := mw.Invalidate(ctx, "/api/products")
//
// # Failure Semantics
//
// A failing store or an unserializable payload never fails the request; the
// middleware degrades to pass-through and the route handler runs normally.
// No error originating in this package produces a 5xx response.
//
// # Metrics
//
// The middleware exports Prometheus metrics:
//
//   - dedw3n_cache_hits_total - Cache hits
//   - dedw3n_cache_misses_total - Cache misses
//   - dedw3n_cache_not_modified_total - 304 responses served
//   - dedw3n_cache_errors_total{operation} - Store operation errors
//   - dedw3n_cache_invalidated_entries_total - Entries removed by invalidation
package cache
