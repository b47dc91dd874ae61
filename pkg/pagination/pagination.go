// Package pagination defines the paginator styles a view can declare.
// The pagination key fragment asks the view's paginator which query
// parameters carry paging state, so that only those end up in the cache key.
package pagination

import "net/url"

// Default query parameter names, used when a paginator field is left empty.
const (
	DefaultPageParam     = "page"
	DefaultPageSizeParam = "page_size"
	DefaultLimitParam    = "limit"
	DefaultOffsetParam   = "offset"
	DefaultCursorParam   = "cursor"
)

// Paginator extracts the paging state of a request's query parameters.
//
// Params returns the paging parameter names mapped to their current values;
// parameters absent from the query map to nil so that "page missing" and
// "page empty" stay distinguishable in the cache key.
type Paginator interface {
	Params(query url.Values) map[string]any
}

// PageNumber paginates with a page number and an optional page size.
type PageNumber struct {
	PageParam     string
	PageSizeParam string
}

// Params implements Paginator.
func (p PageNumber) Params(query url.Values) map[string]any {
	return map[string]any{
		"page":      paramValue(query, p.PageParam, DefaultPageParam),
		"page_size": paramValue(query, p.PageSizeParam, DefaultPageSizeParam),
	}
}

// LimitOffset paginates with an item limit and a start offset.
type LimitOffset struct {
	LimitParam  string
	OffsetParam string
}

// Params implements Paginator.
func (p LimitOffset) Params(query url.Values) map[string]any {
	return map[string]any{
		"limit":  paramValue(query, p.LimitParam, DefaultLimitParam),
		"offset": paramValue(query, p.OffsetParam, DefaultOffsetParam),
	}
}

// Cursor paginates with an opaque cursor and an optional page size.
type Cursor struct {
	CursorParam   string
	PageSizeParam string
}

// Params implements Paginator.
func (p Cursor) Params(query url.Values) map[string]any {
	return map[string]any{
		"cursor":    paramValue(query, p.CursorParam, DefaultCursorParam),
		"page_size": paramValue(query, p.PageSizeParam, DefaultPageSizeParam),
	}
}

func paramValue(query url.Values, param, fallback string) any {
	if param == "" {
		param = fallback
	}
	if _, ok := query[param]; !ok {
		return nil
	}
	return query.Get(param)
}
