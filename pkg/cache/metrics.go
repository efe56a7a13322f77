package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks responses served from cache
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dedw3n_cache_hits_total",
			Help: "Total number of responses served from the HTTP cache",
		},
	)

	// CacheMisses tracks requests that fell through to the handler
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dedw3n_cache_misses_total",
			Help: "Total number of HTTP cache misses",
		},
	)

	// CacheNotModified tracks 304 responses served from cache
	CacheNotModified = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dedw3n_cache_not_modified_total",
			Help: "Total number of 304 Not Modified responses served",
		},
	)

	// CacheSize tracks bytes written to the cache store
	CacheSize = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dedw3n_cache_written_bytes_total",
			Help: "Total bytes written to the HTTP cache store",
		},
	)

	// CacheErrors tracks store operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dedw3n_cache_errors_total",
			Help: "Total number of cache store operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete", "delete_pattern"
	)

	// CacheInvalidations tracks entries removed by explicit invalidation
	CacheInvalidations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dedw3n_cache_invalidated_entries_total",
			Help: "Total number of cache entries removed by invalidation",
		},
	)
)
