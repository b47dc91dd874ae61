package viewcache

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Sternrassler/view-cache/pkg/backend"
	"github.com/Sternrassler/view-cache/pkg/logging"
)

// Config holds the decorator configuration.
type Config struct {
	// Settings is the process-wide configuration block.
	Settings Settings

	// Backends resolves the settings cache alias. Required.
	Backends *backend.Registry

	// Timeout overrides the settings timeout for this decorator.
	// Zero inherits; TimeoutNever and TimeoutDisabled are honored.
	Timeout time.Duration

	// Keys are the fragment providers composing the cache key, in
	// declaration order. Empty is permitted: the key degenerates to view
	// identifier + response format.
	Keys []Key
}

// CacheView wraps view handlers with get-or-compute-and-store caching.
//
// Settings are resolved once in New; misconfiguration (unknown alias,
// unsupported header, invalid timeout) is reported here and never at request
// time. A CacheView is immutable after construction and safe for concurrent
// use.
type CacheView struct {
	backend backend.Backend
	alias   string
	timeout time.Duration
	keys    []Key
	headers map[string]bool
	logger  zerolog.Logger
}

// New creates a CacheView from the given configuration.
func New(cfg Config) (*CacheView, error) {
	if cfg.Backends == nil {
		return nil, fmt.Errorf("backend registry is required")
	}

	if err := validateTimeout(cfg.Timeout); err != nil {
		return nil, fmt.Errorf("decorator timeout: %w", err)
	}
	if err := validateTimeout(cfg.Settings.Timeout); err != nil {
		return nil, fmt.Errorf("settings timeout: %w", err)
	}

	alias := cfg.Settings.Cache
	if alias == "" {
		alias = DefaultCacheAlias
	}

	b, err := cfg.Backends.Resolve(alias)
	if err != nil {
		return nil, err
	}

	headers, err := newHeaderSet(cfg.Settings.Headers)
	if err != nil {
		return nil, err
	}

	timeout := resolveTimeout(cfg.Timeout, cfg.Settings.Timeout)

	logger := logging.NewLogger("viewcache")
	logger.Info().
		Str("cache", alias).
		Dur("timeout", timeout).
		Int("keys", len(cfg.Keys)).
		Msg("cache view configured")

	return &CacheView{
		backend: b,
		alias:   alias,
		timeout: timeout,
		keys:    cfg.Keys,
		headers: headers,
		logger:  logger,
	}, nil
}

// Timeout returns the effective cache timeout.
func (cv *CacheView) Timeout() time.Duration {
	return cv.timeout
}

// Wrap decorates a view handler. The action names the wrapped method (e.g.
// "list", "retrieve") and, together with the view name, forms the key base.
//
// Per invocation: exactly one backend read (unless caching is disabled) and
// at most one write, on a miss with a successful response. Backend errors
// propagate and fail the request; concurrent misses on the same key may each
// run the handler and write, last write wins.
func (cv *CacheView) Wrap(action string, h Handler) Handler {
	return func(ctx context.Context, view View, r *Request) (*Response, error) {
		id := viewID(view, action)

		if cv.timeout == TimeoutDisabled {
			Bypasses.WithLabelValues(id).Inc()
			cv.logger.Debug().Str("view", id).Msg("caching disabled, bypassing")
			return cv.invoke(ctx, id, view, r, h)
		}

		digest, err := buildKey(view, action, r, cv.keys)
		if err != nil {
			Errors.WithLabelValues("key").Inc()
			return nil, err
		}

		data, err := cv.backend.Get(ctx, storageKey(digest))
		switch {
		case err == nil:
			return cv.hit(id, digest, data)
		case errors.Is(err, backend.ErrCacheMiss):
			return cv.miss(ctx, id, digest, view, r, h)
		default:
			Errors.WithLabelValues("get").Inc()
			cv.logger.Error().Err(err).Str("view", id).Str("key", digest).Msg("cache read failed")
			return nil, err
		}
	}
}

// hit serves a stored response. The handler does not run.
func (cv *CacheView) hit(id, digest string, data []byte) (*Response, error) {
	entry, err := decodeEntry(data)
	if err != nil {
		Errors.WithLabelValues("decode").Inc()
		cv.logger.Error().Err(err).Str("view", id).Str("key", digest).Msg("undecodable cache entry")
		return nil, err
	}

	resp := entry.response()
	applyHitHeaders(resp.Header, cv.headers, digest, entry.CachedAt, cv.timeout)

	Hits.WithLabelValues(id).Inc()
	cv.logger.Debug().
		Str("view", id).
		Str("key", digest).
		Bool("cache_hit", true).
		Msg("served from cache")

	return resp, nil
}

// miss runs the handler and stores a successful response.
func (cv *CacheView) miss(ctx context.Context, id, digest string, view View, r *Request, h Handler) (*Response, error) {
	resp, err := cv.invoke(ctx, id, view, r, h)
	if err != nil {
		return nil, err
	}

	Misses.WithLabelValues(id).Inc()

	// Error responses are never cached.
	if resp.StatusCode >= http.StatusBadRequest {
		cv.logger.Warn().
			Str("view", id).
			Int("status_code", resp.StatusCode).
			Msg("response not cached")
		return resp, nil
	}

	if resp.Header == nil {
		resp.Header = make(http.Header)
	}
	applyMissHeaders(resp.Header, cv.headers)

	payload, err := newCacheEntry(resp).encode()
	if err != nil {
		Errors.WithLabelValues("set").Inc()
		return nil, err
	}

	ttl := cv.timeout
	if ttl == TimeoutNever {
		ttl = 0
	}

	if err := cv.backend.Set(ctx, storageKey(digest), payload, ttl); err != nil {
		Errors.WithLabelValues("set").Inc()
		cv.logger.Error().Err(err).Str("view", id).Str("key", digest).Msg("cache write failed")
		return nil, err
	}

	Stores.WithLabelValues(id).Inc()
	cv.logger.Debug().
		Str("view", id).
		Str("key", digest).
		Dur("ttl", ttl).
		Bool("cache_hit", false).
		Msg("stored response")

	return resp, nil
}

func (cv *CacheView) invoke(ctx context.Context, id string, view View, r *Request, h Handler) (*Response, error) {
	start := time.Now()
	resp, err := h(ctx, view, r)
	HandlerDuration.WithLabelValues(id).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("handler for %s returned a nil response", id)
	}
	return resp, nil
}
