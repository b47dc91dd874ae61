package viewcache

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Cache headers managed by the decorator, in normalized form.
const (
	HeaderAge     = "age"
	HeaderETag    = "etag"
	HeaderExpires = "expires"
	HeaderXCache  = "x-cache"
)

// X-Cache header values.
const (
	XCacheHit  = "HIT"
	XCacheMiss = "MISS"
)

var supportedHeaders = map[string]bool{
	HeaderAge:     true,
	HeaderETag:    true,
	HeaderExpires: true,
	HeaderXCache:  true,
}

// normalizeHeader lowercases a header name and maps underscores to hyphens,
// so "X_Cache", "x-cache" and "X-Cache" all address the same header.
func normalizeHeader(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), "_", "-")
}

// newHeaderSet resolves the settings allow-list into the set of headers to
// emit. A nil allow-list enables all supported headers; an unknown name is a
// configuration error.
func newHeaderSet(names []string) (map[string]bool, error) {
	if names == nil {
		return supportedHeaders, nil
	}

	set := make(map[string]bool, len(names))
	for _, name := range names {
		normalized := normalizeHeader(name)
		if !supportedHeaders[normalized] {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedHeader, name)
		}
		set[normalized] = true
	}
	return set, nil
}

// applyMissHeaders marks a freshly computed response. The marked headers are
// part of what gets stored; the hit path overwrites them.
func applyMissHeaders(h http.Header, allowed map[string]bool) {
	if allowed[HeaderAge] {
		h.Set("Age", "0")
	}
	if allowed[HeaderXCache] {
		h.Set("X-Cache", XCacheMiss)
	}
}

// applyHitHeaders marks a response served from the cache. The ETag is the
// composite key digest; Age and Expires derive from the entry's store time so
// no backend TTL introspection is needed.
func applyHitHeaders(h http.Header, allowed map[string]bool, digest string, cachedAt time.Time, timeout time.Duration) {
	if allowed[HeaderAge] {
		age := int(time.Since(cachedAt).Seconds())
		if age < 0 {
			age = 0
		}
		h.Set("Age", strconv.Itoa(age))
	}
	if allowed[HeaderETag] {
		h.Set("ETag", digest)
	}
	if allowed[HeaderExpires] && timeout > 0 {
		h.Set("Expires", cachedAt.Add(timeout).UTC().Format(http.TimeFormat))
	}
	if allowed[HeaderXCache] {
		h.Set("X-Cache", XCacheHit)
	}
}
