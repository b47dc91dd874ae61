package viewcache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// keyPrefix namespaces entries in the backend key space.
const keyPrefix = "viewcache:"

// compositeKey is the canonical form hashed into the cache key. encoding/json
// emits map keys in sorted order, so equal state serializes identically
// regardless of fragment declaration order or map iteration order.
type compositeKey struct {
	ViewID string                    `json:"view_id"`
	Format string                    `json:"format"`
	Keys   map[string]map[string]any `json:"keys"`
}

// buildKey composes the cache key digest for one invocation.
//
// An empty fragment list degenerates to the base-only key (view identifier +
// response format): calls differing only in undeclared dimensions share an
// entry.
func buildKey(view View, action string, r *Request, keys []Key) (string, error) {
	ck := compositeKey{
		ViewID: viewID(view, action),
		Format: r.Format,
		Keys:   make(map[string]map[string]any),
	}

	for _, key := range keys {
		frag, err := key.Fragment(view, r)
		if err != nil {
			return "", err
		}

		// Fragments of the same kind merge field-wise instead of
		// overwriting each other.
		kind := key.Kind()
		merged, ok := ck.Keys[kind]
		if !ok {
			merged = make(map[string]any, len(frag))
			ck.Keys[kind] = merged
		}
		for field, value := range frag {
			merged[field] = value
		}
	}

	data, err := json.Marshal(ck)
	if err != nil {
		return "", fmt.Errorf("serialize cache key for %s: %w", ck.ViewID, err)
	}

	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// viewID identifies a wrapped view method, e.g. "ArticleView.list".
func viewID(view View, action string) string {
	return view.Name() + "." + action
}

// storageKey maps a key digest to the backend key.
func storageKey(digest string) string {
	return keyPrefix + digest
}
