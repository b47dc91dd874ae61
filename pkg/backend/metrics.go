package backend

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OperationErrors tracks backend operation errors by backend type and operation.
	OperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viewcache_backend_errors_total",
			Help: "Total number of cache backend operation errors",
		},
		[]string{"backend", "operation"}, // backend: "redis"|"memory", operation: "get"|"set"
	)

	// StoredBytes tracks the size of values written to each backend.
	StoredBytes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viewcache_backend_stored_bytes_total",
			Help: "Total bytes written to cache backends",
		},
		[]string{"backend"},
	)
)
