// Package relay implements the chunked relay engine and its request router.
//
// This is the heart of the server: it maps request paths to configured
// streams, asks the resolution backend for an upstream byte stream, and
// pumps that stream to the client as a chunked video/MP2T response.
//
// # Request Routing
//
// The Handler strips separators from the request path and dispatches:
//
//   - "" or "health" go to the health handler (always 200, JSON body)
//   - names outside [a-z0-9-]+ are rejected with 404 before any lookup
//   - unknown names are 404
//   - a configured name with no URL is 500
//   - everything else goes to the Engine
//
// # Relay Sessions
//
// Each accepted stream request becomes one session. The session owns the
// upstream handle exclusively and closes it on every exit path. Bytes flow
// synchronously: read up to buffer_size from upstream, align to the
// 188-byte transport-stream packet size, write and flush one chunk. A slow
// client therefore throttles its own upstream read rate; independent
// clients never affect each other.
//
// # Packet Alignment
//
// Reads longer than one packet are truncated to a multiple of 188 bytes
// and the unaligned tail is discarded, which keeps every chunk boundary on
// a packet boundary at the cost of dropping up to 187 bytes per unaligned
// read. Engine.CarryRemainder enables a corrected mode that holds the tail
// back for the next read instead of dropping it.
//
// # Failure Model
//
// Errors before the response commits map onto HTTP statuses: 404 for no
// variants, 502 for an unsupported URL, 503 for a source with nothing
// playable, 500 for generic backend failures. After the 200 commits, a
// failure can only terminate the byte stream; client disconnects are
// logged and end the session quietly.
package relay
