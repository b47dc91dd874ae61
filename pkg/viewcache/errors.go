package viewcache

import (
	"errors"
	"fmt"
)

// Common errors returned by the package.
var (
	// ErrInvalidTimeout is returned when a timeout is neither positive,
	// unset, nor one of the TimeoutNever/TimeoutDisabled sentinels.
	ErrInvalidTimeout = errors.New("invalid timeout")

	// ErrUnsupportedHeader is returned when the settings header allow-list
	// names a header this package does not manage.
	ErrUnsupportedHeader = errors.New("unsupported cache header")

	// ErrMissingCapability is returned when a key fragment requires a view
	// capability (queryset, object, paginator, lookup field) the wrapped
	// view does not provide.
	ErrMissingCapability = errors.New("view does not provide required capability")

	// ErrInvalidEntry is returned when a stored cache entry cannot be decoded.
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// FragmentError reports a key fragment that could not be produced.
// Fragment failures propagate: masking them could serve another object's
// cached response.
type FragmentError struct {
	Kind string
	View string
	Err  error
}

// Error implements the error interface.
func (e *FragmentError) Error() string {
	return fmt.Sprintf("key fragment %q for view %s: %v", e.Kind, e.View, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *FragmentError) Unwrap() error {
	return e.Err
}
