// Package backend defines the media resolution backend capability contract.
//
// A Backend takes a source URL plus an option set and enumerates the named
// quality variants the source offers. Each Variant opens into a readable
// byte-stream handle carrying MPEG-TS data. The relay engine is written
// against this interface only; the concrete HLS adapter lives in
// backend/hls, and tests substitute their own doubles.
//
// Error contract:
//
//   - ErrNoPlugin: the backend cannot interpret the URL at all.
//   - ErrNoStreams: the source was found but offers no playable variant.
//   - *StreamError: any other backend failure, wrapping its cause.
//
// Callers distinguish these with errors.Is / errors.As.
package backend
