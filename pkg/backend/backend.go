package backend

import (
	"context"
	"io"
	"time"
)

// Options is the option set handed to the backend for one resolution.
type Options struct {
	// UserAgent is sent to the upstream source in the User-Agent header.
	UserAgent string

	// Timeout bounds upstream connects and reads.
	Timeout time.Duration

	// SegmentThreads is the upstream segment download parallelism.
	SegmentThreads int

	// RingBufferSize is the capacity in bytes of the backend's internal
	// buffer between the upstream fetcher and the reader.
	RingBufferSize int
}

// Backend resolves a source URL into its available stream variants.
type Backend interface {
	// Streams enumerates the quality variants available for url, keyed by
	// variant name. A "best" key, when present, is the preferred pick.
	//
	// Returns ErrNoPlugin if the URL cannot be interpreted, ErrNoStreams if
	// the source offers no playable variant, or a *StreamError for any other
	// failure.
	Streams(ctx context.Context, url string, opts Options) (map[string]Variant, error)
}

// Variant is one quality/bitrate rendition of a media source.
type Variant interface {
	// Open starts the variant's byte stream and returns its handle. The
	// handle is exclusively owned by the caller and must be closed exactly
	// once. Read returns io.EOF when the upstream stream ends.
	Open(ctx context.Context) (io.ReadCloser, error)
}
