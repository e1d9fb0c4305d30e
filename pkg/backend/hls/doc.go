// Package hls is the HLS adapter for the media resolution backend.
//
// The resolver fetches an HLS playlist and enumerates its renditions as
// backend variants. A master playlist yields one variant per rendition,
// named after its resolution (e.g. "1080p") or bandwidth (e.g. "2500k"),
// plus "best" and "worst" aliases ranked by bandwidth. A bare media
// playlist yields a single "live" variant.
//
// Opening a variant starts a segment pipeline: a poller tracks the live
// playlist window, segments are downloaded with bounded parallelism but
// delivered strictly in order, and the bytes flow through a fixed-capacity
// ring buffer that the returned handle reads from. A full ring throttles
// downloading, which is the backpressure path from a slow relay client all
// the way to the upstream CDN.
package hls
