package viewcache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Hits tracks cache hits by view.
	Hits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viewcache_hits_total",
			Help: "Total number of view cache hits",
		},
		[]string{"view"},
	)

	// Misses tracks cache misses by view.
	Misses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viewcache_misses_total",
			Help: "Total number of view cache misses",
		},
		[]string{"view"},
	)

	// Bypasses tracks calls served with caching disabled.
	Bypasses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viewcache_bypass_total",
			Help: "Total number of calls that bypassed the cache",
		},
		[]string{"view"},
	)

	// Stores tracks responses written to the cache.
	Stores = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viewcache_store_total",
			Help: "Total number of responses stored in the cache",
		},
		[]string{"view"},
	)

	// Errors tracks decorator-level errors by operation.
	Errors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viewcache_errors_total",
			Help: "Total number of view cache errors",
		},
		[]string{"operation"}, // "key", "get", "set", "decode"
	)

	// HandlerDuration tracks wrapped handler duration by view.
	HandlerDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "viewcache_handler_duration_seconds",
			Help:    "Wrapped handler duration in seconds by view",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"view"},
	)
)
