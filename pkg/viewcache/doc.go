// Package viewcache provides response caching for request handlers ("views").
//
// A handler is wrapped by a CacheView decorator. On every call the decorator
// composes a deterministic cache key from the declared key fragments, looks it
// up in the configured backend, and either returns the stored response or runs
// the handler and stores its result with the effective timeout.
//
// # Basic Usage
//
//	backends := backend.NewRegistry()
//	backends.Register("default", backend.NewRedis(redisClient))
//
//	cv, err := viewcache.New(viewcache.Config{
//		Settings: viewcache.DefaultSettings(),
//		Backends: backends,
//		Timeout:  5 * time.Minute,
//		Keys: []viewcache.Key{
//			viewcache.NewQueryParamsKey("search"),
//			viewcache.UserKey{},
//		},
//	})
//	if err != nil {
//		return err
//	}
//
//	list := cv.Wrap("list", articleView.List)
//	resp, err := list(ctx, articleView, req)
//
// # Key Composition
//
// The composite key is the SHA-256 digest of a canonical JSON serialization of
// the view identifier, the negotiated response format, and every declared
// fragment's output. Identical relevant state always yields an identical key;
// a dimension not covered by a declared fragment is not part of the key.
//
// # Caching Policy
//
// Only responses with a status code below 400 are stored. Backend errors are
// not masked: a failing Get or Set fails the request (fail-closed). Setting
// the timeout to TimeoutDisabled bypasses the cache entirely; TimeoutNever
// stores entries without expiry.
//
// # Cache Headers
//
// Responses carry X-Cache (HIT/MISS), Age, ETag, and Expires headers, filtered
// by the settings header allow-list.
//
// # Metrics
//
// The package exports Prometheus metrics:
//
//   - viewcache_hits_total{view} - Cache hits
//   - viewcache_misses_total{view} - Cache misses
//   - viewcache_bypass_total{view} - Calls served with caching disabled
//   - viewcache_store_total{view} - Responses stored
//   - viewcache_errors_total{operation} - Key build, backend, and decode errors
//   - viewcache_handler_duration_seconds{view} - Wrapped handler duration
package viewcache
