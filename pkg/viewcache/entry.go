package viewcache

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// cacheEntry is the stored representation of a response. CachedAt anchors the
// hit-side Age and Expires headers, so no backend TTL introspection is needed.
type cacheEntry struct {
	StatusCode int         `json:"status_code"`
	Header     http.Header `json:"header"`
	Body       []byte      `json:"body"`
	CachedAt   time.Time   `json:"cached_at"`
}

// newCacheEntry snapshots a response for storage.
func newCacheEntry(resp *Response) *cacheEntry {
	body := make([]byte, len(resp.Body))
	copy(body, resp.Body)

	header := make(http.Header, len(resp.Header))
	for name, values := range resp.Header {
		header[name] = append([]string(nil), values...)
	}

	return &cacheEntry{
		StatusCode: resp.StatusCode,
		Header:     header,
		Body:       body,
		CachedAt:   time.Now().UTC(),
	}
}

// encode serializes the entry for the backend.
func (e *cacheEntry) encode() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode cache entry: %w", err)
	}
	return data, nil
}

// decodeEntry deserializes a stored entry.
func decodeEntry(data []byte) (*cacheEntry, error) {
	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	return &entry, nil
}

// response rebuilds the stored response. Each hit gets its own copy so header
// rewrites never leak between requests.
func (e *cacheEntry) response() *Response {
	header := make(http.Header, len(e.Header))
	for name, values := range e.Header {
		header[name] = append([]string(nil), values...)
	}

	return &Response{
		StatusCode: e.StatusCode,
		Header:     header,
		Body:       e.Body,
	}
}
