package viewcache

import (
	"fmt"
	"time"
)

const (
	// DefaultCacheAlias is the backend alias used when settings leave it empty.
	DefaultCacheAlias = "default"

	// DefaultTimeout is the cache timeout used when neither the decorator
	// nor the settings specify one.
	DefaultTimeout = 60 * time.Second

	// TimeoutNever stores entries without expiry.
	TimeoutNever time.Duration = -1

	// TimeoutDisabled bypasses caching entirely: the handler runs on every
	// call and the backend is never touched.
	TimeoutDisabled time.Duration = -2
)

// Settings is the process-wide configuration block. It is constructed
// explicitly and injected into New; per-decorator Config fields override it.
// Settings are read once at decoration time and must not be mutated
// afterwards, which keeps concurrent reads safe without locking.
type Settings struct {
	// Cache is the backend alias resolved against the registry.
	// Empty means DefaultCacheAlias.
	Cache string

	// Headers is the allow-list of cache headers to emit on responses
	// ("age", "etag", "expires", "x-cache", case-insensitive, "_" and "-"
	// interchangeable). Nil means all of them.
	Headers []string

	// Timeout is the default cache timeout for decorators that do not set
	// their own. Zero means DefaultTimeout.
	Timeout time.Duration
}

// DefaultSettings returns the built-in settings: alias "default", all cache
// headers, DefaultTimeout.
func DefaultSettings() Settings {
	return Settings{Cache: DefaultCacheAlias}
}

// resolveTimeout merges the timeout layers, narrowest wins: decorator
// override, then settings, then DefaultTimeout.
func resolveTimeout(override, setting time.Duration) time.Duration {
	if override != 0 {
		return override
	}
	if setting != 0 {
		return setting
	}
	return DefaultTimeout
}

// validateTimeout rejects timeouts that are neither unset, positive, nor one
// of the sentinels. Misconfiguration fails at decoration time, never at
// request time.
func validateTimeout(d time.Duration) error {
	switch {
	case d == 0, d > 0, d == TimeoutNever, d == TimeoutDisabled:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrInvalidTimeout, d)
	}
}
