// Package metrics documents the Prometheus metrics exported by the cache
// gateway. Metrics are defined next to the code that increments them
// (pkg/cache) to avoid circular dependencies; this package provides the
// registry reference and a catalogue for operators.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the gateway.
// All metrics are automatically registered via promauto in their packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Cache Metrics (pkg/cache):
//   - dedw3n_cache_hits_total (Counter): Responses served from cache
//   - dedw3n_cache_misses_total (Counter): Requests that ran the handler
//   - dedw3n_cache_not_modified_total (Counter): 304 responses served
//   - dedw3n_cache_written_bytes_total (Counter): Bytes written to the store
//   - dedw3n_cache_errors_total{operation} (Counter): Store operation errors
//   - dedw3n_cache_invalidated_entries_total (Counter): Entries removed by invalidation
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(dedw3n_cache_hits_total[5m])) /
//   (sum(rate(dedw3n_cache_hits_total[5m])) + sum(rate(dedw3n_cache_misses_total[5m])))
//
//   # Conditional Request Rate
//   rate(dedw3n_cache_not_modified_total[5m])
//
//   # Store Error Rate (degraded mode indicator)
//   rate(dedw3n_cache_errors_total[5m])
