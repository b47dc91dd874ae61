// Package testutil provides test fixtures for view-cache: stub views,
// instrumented backends, and request constructors.
package testutil

import (
	"context"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/Sternrassler/view-cache/pkg/backend"
	"github.com/Sternrassler/view-cache/pkg/pagination"
	"github.com/Sternrassler/view-cache/pkg/viewcache"
)

// BareView implements only the View interface, no optional capabilities.
type BareView struct {
	ViewName string
}

// Name implements viewcache.View.
func (v *BareView) Name() string { return v.ViewName }

// StubView implements every view capability with configurable results.
type StubView struct {
	ViewName     string
	Lookup       string
	Pager        pagination.Paginator
	Signature    any
	SignatureErr error
	Obj          map[string]any
	ObjErr       error
}

// Name implements viewcache.View.
func (v *StubView) Name() string { return v.ViewName }

// LookupField implements viewcache.LookupFielder.
func (v *StubView) LookupField() string { return v.Lookup }

// Paginator implements viewcache.Paginated.
func (v *StubView) Paginator() pagination.Paginator { return v.Pager }

// QuerysetSignature implements viewcache.QuerysetDescriber.
func (v *StubView) QuerysetSignature(_ *viewcache.Request) (any, error) {
	return v.Signature, v.SignatureErr
}

// Object implements viewcache.ObjectFetcher.
func (v *StubView) Object(_ *viewcache.Request) (map[string]any, error) {
	return v.Obj, v.ObjErr
}

// GetRequest builds a GET request for the given target URL.
func GetRequest(target string) *viewcache.Request {
	return viewcache.NewRequest(httptest.NewRequest("GET", target, nil))
}

// CountingBackend wraps a Backend and counts operations.
type CountingBackend struct {
	Inner backend.Backend

	mu   sync.Mutex
	gets int
	sets int
}

// NewCountingBackend wraps inner with call counting.
func NewCountingBackend(inner backend.Backend) *CountingBackend {
	return &CountingBackend{Inner: inner}
}

// Get implements backend.Backend.
func (b *CountingBackend) Get(ctx context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	b.gets++
	b.mu.Unlock()
	return b.Inner.Get(ctx, key)
}

// Set implements backend.Backend.
func (b *CountingBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	b.mu.Lock()
	b.sets++
	b.mu.Unlock()
	return b.Inner.Set(ctx, key, value, ttl)
}

// Gets returns the number of Get calls.
func (b *CountingBackend) Gets() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.gets
}

// Sets returns the number of Set calls.
func (b *CountingBackend) Sets() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sets
}

// FailingBackend returns the configured errors on every operation.
type FailingBackend struct {
	GetErr error
	SetErr error
}

// Get implements backend.Backend.
func (b *FailingBackend) Get(_ context.Context, _ string) ([]byte, error) {
	if b.GetErr != nil {
		return nil, b.GetErr
	}
	return nil, backend.ErrCacheMiss
}

// Set implements backend.Backend.
func (b *FailingBackend) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error {
	return b.SetErr
}
