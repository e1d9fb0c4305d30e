package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrNoPlugin indicates the backend cannot interpret the source URL:
	// no adapter understands its scheme or payload.
	ErrNoPlugin = errors.New("no plugin found for this stream URL")

	// ErrNoStreams indicates the source was found but offers no playable
	// variant.
	ErrNoStreams = errors.New("no streams available from source")
)

// StreamError represents a generic backend failure: the URL was understood
// but resolving or reading the stream failed. It wraps the underlying cause.
type StreamError struct {
	// Op is the operation that failed ("resolve", "open", "read").
	Op string

	// URL is the source URL involved.
	URL string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *StreamError) Error() string {
	return fmt.Sprintf("stream error: %s %s: %v", e.Op, e.URL, e.Err)
}

// Unwrap returns the underlying error for error chain support.
func (e *StreamError) Unwrap() error {
	return e.Err
}
