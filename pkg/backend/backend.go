// Package backend provides the cache backend abstraction used by viewcache:
// an opaque key-value store with TTL support, plus an alias registry so
// decorators can address backends by name.
package backend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

var (
	// ErrCacheMiss indicates the requested key was not found in the backend.
	ErrCacheMiss = errors.New("cache miss")

	// ErrUnknownAlias indicates the requested backend alias is not registered.
	ErrUnknownAlias = errors.New("unknown backend alias")
)

// Backend is the minimal contract a cache store must fulfil.
//
// Get returns ErrCacheMiss when the key is absent. Set stores value under key
// for ttl; a ttl of 0 stores the entry without expiry. Implementations own
// eviction and expiry entirely; callers never delete.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Registry maps backend aliases to Backend instances.
// Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	backends map[string]Backend
}

// NewRegistry creates an empty backend registry.
func NewRegistry() *Registry {
	return &Registry{
		backends: make(map[string]Backend),
	}
}

// Register adds a backend under the given alias, replacing any previous one.
func (r *Registry) Register(alias string, b Backend) {
	if b == nil {
		panic("backend cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends[alias] = b
}

// Resolve returns the backend registered under alias.
func (r *Registry) Resolve(alias string) (Backend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.backends[alias]
	if !ok {
		return nil, fmt.Errorf("%w: %q (registered: %v)", ErrUnknownAlias, alias, r.aliasesLocked())
	}
	return b, nil
}

// Aliases returns the registered aliases in sorted order.
func (r *Registry) Aliases() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.aliasesLocked()
}

func (r *Registry) aliasesLocked() []string {
	aliases := make([]string, 0, len(r.backends))
	for alias := range r.backends {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}
