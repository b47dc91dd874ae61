// Package metrics provides the centralized Prometheus metrics registry for
// view-cache. All metrics are defined in their respective packages (viewcache,
// backend) to maintain modularity and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by view-cache.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Decorator Metrics (pkg/viewcache):
//   - viewcache_hits_total{view} (Counter): Cache hits by view
//   - viewcache_misses_total{view} (Counter): Cache misses by view
//   - viewcache_bypass_total{view} (Counter): Calls served with caching disabled
//   - viewcache_store_total{view} (Counter): Responses stored in the cache
//   - viewcache_errors_total{operation} (Counter): Errors by operation (key, get, set, decode)
//   - viewcache_handler_duration_seconds{view} (Histogram): Wrapped handler duration
//
// Backend Metrics (pkg/backend):
//   - viewcache_backend_errors_total{backend, operation} (Counter): Backend operation errors
//   - viewcache_backend_stored_bytes_total{backend} (Counter): Bytes written to backends
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate per View
//   sum by (view) (rate(viewcache_hits_total[5m])) /
//   (sum by (view) (rate(viewcache_hits_total[5m])) + sum by (view) (rate(viewcache_misses_total[5m])))
//
//   # Backend Error Rate
//   rate(viewcache_backend_errors_total[5m])
//
//   # P95 Handler Latency
//   histogram_quantile(0.95, rate(viewcache_handler_duration_seconds_bucket[5m]))
