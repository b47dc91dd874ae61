package viewcache

import (
	"context"
	"net/http"

	"github.com/Sternrassler/view-cache/pkg/pagination"
)

// User identifies an authenticated principal.
type User struct {
	ID string
}

// Request bundles the framework request state the key fragments read from.
// The decorator never mutates it.
type Request struct {
	// HTTP is the underlying request (query parameters, headers, body).
	HTTP *http.Request

	// Kwargs are the path parameters extracted by the router.
	Kwargs map[string]string

	// User is the authenticated principal, nil for anonymous requests.
	User *User

	// Format is the negotiated response format (e.g. "json").
	Format string
}

// NewRequest wraps an *http.Request with the default "json" response format.
func NewRequest(r *http.Request) *Request {
	return &Request{
		HTTP:   r,
		Format: "json",
	}
}

// Response is a fully formed handler response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// NewResponse creates a response with an initialized header map.
func NewResponse(statusCode int, body []byte) *Response {
	return &Response{
		StatusCode: statusCode,
		Header:     make(http.Header),
		Body:       body,
	}
}

// View is a request-handling unit bound to a route.
//
// Views expose further accessor capabilities through the optional interfaces
// below; a key fragment that needs a capability the view does not provide
// fails the request rather than producing an under-specified key.
type View interface {
	// Name identifies the view, e.g. "ArticleView".
	Name() string
}

// QuerysetDescriber is implemented by views whose response identity follows
// from a backing query. QuerysetSignature returns a serializable description
// of the filtered query (never materialized rows).
type QuerysetDescriber interface {
	QuerysetSignature(r *Request) (any, error)
}

// ObjectFetcher is implemented by detail views that resolve a single object.
// Object returns the object's field map.
type ObjectFetcher interface {
	Object(r *Request) (map[string]any, error)
}

// Paginated is implemented by views that paginate their responses.
type Paginated interface {
	Paginator() pagination.Paginator
}

// LookupFielder is implemented by views addressed through a single path
// parameter, named by LookupField.
type LookupFielder interface {
	LookupField() string
}

// Handler is a view method: it receives the view instance and the request and
// produces a response. Blocking work must honor ctx.
type Handler func(ctx context.Context, view View, r *Request) (*Response, error)
