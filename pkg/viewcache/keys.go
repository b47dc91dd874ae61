package viewcache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Key produces one serializable fragment of request/view state for the
// composite cache key.
//
// Kind tags the fragment; fragments of the same kind merge into a single map
// during key composition. Fragment values must be JSON-serializable.
type Key interface {
	Kind() string
	Fragment(view View, r *Request) (map[string]any, error)
}

// QuerysetKey keys on the view's queryset signature.
// The view must implement QuerysetDescriber.
type QuerysetKey struct{}

// Kind implements Key.
func (QuerysetKey) Kind() string { return "queryset" }

// Fragment implements Key.
func (k QuerysetKey) Fragment(view View, r *Request) (map[string]any, error) {
	d, ok := view.(QuerysetDescriber)
	if !ok {
		return nil, &FragmentError{Kind: k.Kind(), View: view.Name(), Err: ErrMissingCapability}
	}

	sig, err := d.QuerysetSignature(r)
	if err != nil {
		return nil, &FragmentError{Kind: k.Kind(), View: view.Name(), Err: err}
	}

	return map[string]any{"queryset": sig}, nil
}

// ObjectKey keys on the field map of the view's resolved object.
// The view must implement ObjectFetcher.
type ObjectKey struct{}

// Kind implements Key.
func (ObjectKey) Kind() string { return "object" }

// Fragment implements Key.
func (k ObjectKey) Fragment(view View, r *Request) (map[string]any, error) {
	f, ok := view.(ObjectFetcher)
	if !ok {
		return nil, &FragmentError{Kind: k.Kind(), View: view.Name(), Err: ErrMissingCapability}
	}

	obj, err := f.Object(r)
	if err != nil {
		return nil, &FragmentError{Kind: k.Kind(), View: view.Name(), Err: err}
	}

	return obj, nil
}

// PaginationKey keys on the request's paging parameters, as declared by the
// view's paginator. The view must implement Paginated.
type PaginationKey struct{}

// Kind implements Key.
func (PaginationKey) Kind() string { return "pagination" }

// Fragment implements Key.
func (k PaginationKey) Fragment(view View, r *Request) (map[string]any, error) {
	p, ok := view.(Paginated)
	if !ok {
		return nil, &FragmentError{Kind: k.Kind(), View: view.Name(), Err: ErrMissingCapability}
	}

	paginator := p.Paginator()
	if paginator == nil {
		return nil, &FragmentError{
			Kind: k.Kind(),
			View: view.Name(),
			Err:  errors.New("view returned a nil paginator"),
		}
	}

	return paginator.Params(r.HTTP.URL.Query()), nil
}

// QueryParamsKey keys on an allow-list of query parameters. Parameters keep
// all their values; parameters absent from the request map to nil.
type QueryParamsKey struct {
	fields []string
}

// NewQueryParamsKey creates a QueryParamsKey over the given parameter names.
func NewQueryParamsKey(fields ...string) QueryParamsKey {
	return QueryParamsKey{fields: fields}
}

// Kind implements Key.
func (QueryParamsKey) Kind() string { return "query_params" }

// Fragment implements Key.
func (k QueryParamsKey) Fragment(_ View, r *Request) (map[string]any, error) {
	query := r.HTTP.URL.Query()

	data := make(map[string]any, len(k.fields))
	for _, field := range k.fields {
		values, ok := query[field]
		if !ok {
			data[field] = nil
			continue
		}
		data[field] = values
	}
	return data, nil
}

// HeadersKey keys on an allow-list of request headers, case-insensitively.
type HeadersKey struct {
	fields []string
}

// NewHeadersKey creates a HeadersKey over the given header names.
func NewHeadersKey(fields ...string) HeadersKey {
	return HeadersKey{fields: fields}
}

// Kind implements Key.
func (HeadersKey) Kind() string { return "headers" }

// Fragment implements Key.
func (k HeadersKey) Fragment(_ View, r *Request) (map[string]any, error) {
	data := make(map[string]any, len(k.fields))
	for _, field := range k.fields {
		name := strings.ToLower(field)
		values := r.HTTP.Header.Values(field)
		if len(values) == 0 {
			data[name] = nil
			continue
		}
		data[name] = values[0]
	}
	return data, nil
}

// AnonymousUser is the key value used for unauthenticated requests.
const AnonymousUser = "anonymous"

// UserKey keys on the authenticated user's identifier, or AnonymousUser.
type UserKey struct{}

// Kind implements Key.
func (UserKey) Kind() string { return "user" }

// Fragment implements Key.
func (UserKey) Fragment(_ View, r *Request) (map[string]any, error) {
	if r.User == nil || r.User.ID == "" {
		return map[string]any{"user": AnonymousUser}, nil
	}
	return map[string]any{"user": r.User.ID}, nil
}

// LookupFieldKey keys on the path kwarg named by the view's lookup field.
// The view must implement LookupFielder.
type LookupFieldKey struct{}

// Kind implements Key.
func (LookupFieldKey) Kind() string { return "lookup_field" }

// Fragment implements Key.
func (k LookupFieldKey) Fragment(view View, r *Request) (map[string]any, error) {
	lf, ok := view.(LookupFielder)
	if !ok {
		return nil, &FragmentError{Kind: k.Kind(), View: view.Name(), Err: ErrMissingCapability}
	}

	field := lf.LookupField()
	if field == "" {
		return nil, &FragmentError{
			Kind: k.Kind(),
			View: view.Name(),
			Err:  errors.New("view declares an empty lookup field"),
		}
	}

	value, ok := r.Kwargs[field]
	if !ok {
		return map[string]any{"lookup_field": nil}, nil
	}
	return map[string]any{"lookup_field": value}, nil
}

// KwargsKey keys on selected raw path kwargs.
// Kwargs absent from the request map to nil.
type KwargsKey struct {
	fields []string
}

// NewKwargsKey creates a KwargsKey over the given kwarg names.
func NewKwargsKey(fields ...string) KwargsKey {
	return KwargsKey{fields: fields}
}

// Kind implements Key.
func (KwargsKey) Kind() string { return "kwargs" }

// Fragment implements Key.
func (k KwargsKey) Fragment(_ View, r *Request) (map[string]any, error) {
	data := make(map[string]any, len(k.fields))
	for _, field := range k.fields {
		value, ok := r.Kwargs[field]
		if !ok {
			data[field] = nil
			continue
		}
		data[field] = value
	}
	return data, nil
}

// RequestDataKey keys on the request body. JSON object bodies contribute
// their fields; any other non-empty body contributes a SHA-256 digest. The
// body is restored for the handler after reading.
type RequestDataKey struct{}

// Kind implements Key.
func (RequestDataKey) Kind() string { return "request_data" }

// Fragment implements Key.
func (k RequestDataKey) Fragment(view View, r *Request) (map[string]any, error) {
	if r.HTTP.Body == nil {
		return map[string]any{}, nil
	}

	body, err := io.ReadAll(r.HTTP.Body)
	if err != nil {
		return nil, &FragmentError{
			Kind: k.Kind(),
			View: view.Name(),
			Err:  fmt.Errorf("read request body: %w", err),
		}
	}
	r.HTTP.Body.Close()
	r.HTTP.Body = io.NopCloser(bytes.NewReader(body))

	if len(body) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err == nil {
		return fields, nil
	}

	sum := sha256.Sum256(body)
	return map[string]any{"body_sha256": hex.EncodeToString(sum[:])}, nil
}
