package backend

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// DefaultMaxEntries bounds the Memory backend when no limit is configured.
const DefaultMaxEntries = 10000

// Memory is an in-process Backend with LRU eviction and lazy expiry.
// Intended for tests, examples, and single-process deployments; anything
// shared between processes should use Redis.
type Memory struct {
	maxEntries int

	mu       sync.Mutex
	items    map[string]*list.Element
	eviction *list.List
}

type memoryEntry struct {
	key       string
	value     []byte
	expiresAt time.Time // zero = never expires
}

// NewMemory creates an in-memory backend holding at most maxEntries entries.
// A maxEntries <= 0 falls back to DefaultMaxEntries.
func NewMemory(maxEntries int) *Memory {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Memory{
		maxEntries: maxEntries,
		items:      make(map[string]*list.Element),
		eviction:   list.New(),
	}
}

// Get retrieves the value stored under key.
// Expired entries are removed and reported as ErrCacheMiss.
func (b *Memory) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	elem, ok := b.items[key]
	if !ok {
		return nil, ErrCacheMiss
	}

	entry := elem.Value.(*memoryEntry)
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		b.removeLocked(elem)
		return nil, ErrCacheMiss
	}

	b.eviction.MoveToFront(elem)

	// Copy so callers cannot mutate the stored value.
	value := make([]byte, len(entry.value))
	copy(value, entry.value)
	return value, nil
}

// Set stores value under key with the given TTL, evicting the least recently
// used entry when the backend is full. A ttl of 0 stores without expiry.
func (b *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	b.mu.Lock()
	defer b.mu.Unlock()

	if elem, ok := b.items[key]; ok {
		entry := elem.Value.(*memoryEntry)
		entry.value = stored
		entry.expiresAt = expiresAt
		b.eviction.MoveToFront(elem)
		return nil
	}

	if b.eviction.Len() >= b.maxEntries {
		if oldest := b.eviction.Back(); oldest != nil {
			b.removeLocked(oldest)
		}
	}

	elem := b.eviction.PushFront(&memoryEntry{
		key:       key,
		value:     stored,
		expiresAt: expiresAt,
	})
	b.items[key] = elem

	StoredBytes.WithLabelValues("memory").Add(float64(len(stored)))

	return nil
}

// Len returns the current number of entries, including not yet reaped
// expired ones.
func (b *Memory) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.eviction.Len()
}

func (b *Memory) removeLocked(elem *list.Element) {
	entry := elem.Value.(*memoryEntry)
	delete(b.items, entry.key)
	b.eviction.Remove(elem)
}
