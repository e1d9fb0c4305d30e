package relay

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"streampipe-hq/streampipe/pkg/telemetry/metrics"
	"streampipe-hq/streampipe/pkg/telemetry/stats"
)

// PacketSize is the fixed size of one MPEG transport-stream packet. Every
// chunk written to a client is aligned to a multiple of this size, except
// possibly a final sub-packet chunk right before end-of-stream.
const PacketSize = 188

// session is the per-connection unit of work: it owns the opened upstream
// handle and pumps its bytes to one client. Never shared across connections.
type session struct {
	stream  string
	handle  io.ReadCloser
	w       http.ResponseWriter
	flusher http.Flusher
	logger  *slog.Logger
	metrics *metrics.Collector
	tracker *stats.Tracker

	// buf is the read buffer, sized to the route's buffer_size option.
	buf []byte

	// carry enables the corrected alignment mode: unaligned trailing bytes
	// of a read are held back and prepended to the next read instead of
	// being discarded.
	carry bool
	rem   []byte

	bytesRelayed int64
	closeOnce    sync.Once
}

// run pumps upstream bytes to the client until end-of-stream, a client
// disconnect, or an upstream read error. The upstream handle is closed on
// every exit path. Headers are already committed when run starts, so
// failures here only terminate the byte stream.
func (s *session) run() {
	defer s.close()

	s.tracker.SessionStarted()
	s.metrics.SessionStarted()
	defer func() {
		s.tracker.SessionEnded()
		s.metrics.SessionEnded()
	}()

	for {
		n, err := s.handle.Read(s.buf)
		if n > 0 {
			chunk, discarded := s.align(s.buf[:n])
			if discarded > 0 {
				s.metrics.AddBytesDiscarded(s.stream, discarded)
				s.tracker.AddBytesDiscarded(int64(discarded))
			}
			if len(chunk) > 0 && !s.writeChunk(chunk) {
				return
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.finish()
			} else {
				s.logger.Error("upstream read failed, terminating stream",
					"stream", s.stream,
					"bytes_relayed", s.bytesRelayed,
					"error", err,
				)
			}
			return
		}
	}
}

// align enforces transport-stream packet alignment on one read. Reads longer
// than one packet are truncated to a multiple of PacketSize; the trailing
// remainder is discarded unless carry mode holds it for the next read. A
// read no longer than one packet passes through untouched, which lets a
// short final read reach the client intact.
func (s *session) align(p []byte) (chunk []byte, discarded int) {
	if s.carry {
		if len(s.rem) > 0 {
			joined := make([]byte, 0, len(s.rem)+len(p))
			joined = append(joined, s.rem...)
			joined = append(joined, p...)
			p = joined
		}
		s.rem = s.rem[:0]
		if r := len(p) % PacketSize; r != 0 {
			s.rem = append(s.rem, p[len(p)-r:]...)
			p = p[:len(p)-r]
		}
		return p, 0
	}

	if len(p) > PacketSize {
		if r := len(p) % PacketSize; r != 0 {
			return p[:len(p)-r], r
		}
	}
	return p, 0
}

// writeChunk sends one aligned chunk to the client and flushes it so it
// leaves as a single chunked-transfer unit. Returns false when the client
// has disconnected, which ends the session quietly.
func (s *session) writeChunk(chunk []byte) bool {
	n, err := s.w.Write(chunk)
	if n > 0 {
		s.bytesRelayed += int64(n)
		s.metrics.AddBytesRelayed(s.stream, n)
		s.tracker.AddBytesRelayed(int64(n))
	}
	if err != nil {
		s.logger.Info("client disconnected",
			"stream", s.stream,
			"bytes_relayed", s.bytesRelayed,
			"error", err,
		)
		return false
	}
	s.flusher.Flush()
	return true
}

// finish handles a clean end-of-stream: in carry mode any held-back bytes
// go out as the final sub-packet chunk, then the response completes and
// net/http writes the terminal zero-length chunk.
func (s *session) finish() {
	if s.carry && len(s.rem) > 0 {
		s.writeChunk(s.rem)
		s.rem = s.rem[:0]
	}
	s.logger.Info("stream ended",
		"stream", s.stream,
		"bytes_relayed", s.bytesRelayed,
	)
}

// close releases the upstream handle exactly once.
func (s *session) close() {
	s.closeOnce.Do(func() {
		if err := s.handle.Close(); err != nil {
			s.logger.Warn("closing upstream handle failed",
				"stream", s.stream,
				"error", err,
			)
		}
	})
}
