package documentcloud

import (
	"errors"
	"fmt"
)

var (
	// ErrFieldNotFound is matched by every *FieldError.
	ErrFieldNotFound = errors.New("field not found")

	// ErrInvalidPage is returned for page numbers below 1.
	ErrInvalidPage = errors.New("page numbers start at 1")

	// ErrPageLimit is returned by Search when the configured max_pages is
	// reached before the server returned an empty page.
	ErrPageLimit = errors.New("search page limit reached")

	// ErrRepeatedPage is returned by Search when the server returns the same
	// set of documents for two consecutive pages.
	ErrRepeatedPage = errors.New("search returned a repeated page")
)

// FieldError reports a key missing from a decoded API object.
type FieldError struct {
	// Kind is the wrapper that was accessed, e.g. "Document".
	Kind string
	// Key is the field name, dotted for nested objects.
	Key string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s has no field %q", e.Kind, e.Key)
}

func (e *FieldError) Unwrap() error {
	return ErrFieldNotFound
}

// TypeError reports a field whose JSON value has an unexpected type.
type TypeError struct {
	Kind string
	Key  string
	Want string
	Got  interface{}
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s field %q is %T, want %s", e.Kind, e.Key, e.Got, e.Want)
}

// StatusError is returned for responses outside the 2xx range.
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API returned status %d for %s: %s", e.StatusCode, e.URL, e.Body)
}

// Temporary reports whether the request may succeed if retried.
func (e *StatusError) Temporary() bool {
	return e.StatusCode >= 500
}
