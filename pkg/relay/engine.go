package relay

import (
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"time"

	"streampipe-hq/streampipe/pkg/backend"
	"streampipe-hq/streampipe/pkg/config"
	"streampipe-hq/streampipe/pkg/routes"
	"streampipe-hq/streampipe/pkg/telemetry/metrics"
	"streampipe-hq/streampipe/pkg/telemetry/stats"
)

// Engine is the chunked relay engine. Given a resolved route it asks the
// backend for the stream's variants, opens the best one, commits the
// response headers, and pumps transport-stream bytes to the client as
// chunked-transfer units.
//
// The engine is stateless across requests and safe for concurrent use;
// each request gets its own session with its own exclusively owned
// upstream handle.
type Engine struct {
	// Backend resolves source URLs into stream variants.
	Backend backend.Backend

	// Metrics receives relay counters. Nil disables metrics.
	Metrics *metrics.Collector

	// Tracker feeds the periodic stats reporter. Nil disables tracking.
	Tracker *stats.Tracker

	// Logger receives session lifecycle events. Nil uses slog.Default.
	Logger *slog.Logger

	// CarryRemainder switches packet alignment to the corrected mode:
	// instead of discarding the unaligned tail of each upstream read, the
	// tail is held back and prepended to the next read, so no bytes are
	// lost. Off by default to match the historical relay behavior.
	CarryRemainder bool
}

// ServeStream relays the route's upstream stream to the client. All
// failures before the response headers are committed are reported as an
// HTTP status with a plain-text body; after commit, failures only
// terminate the byte stream.
func (e *Engine) ServeStream(w http.ResponseWriter, r *http.Request, route routes.Route) {
	logger := e.logger().With("stream", route.Name)

	opts := backend.Options{
		UserAgent:      route.Options.UserAgent,
		Timeout:        route.Options.TimeoutDuration(),
		SegmentThreads: route.Options.Threads,
		RingBufferSize: config.RingBufferSize,
	}

	openStart := time.Now()

	variants, err := e.Backend.Streams(r.Context(), route.URL, opts)
	if err != nil {
		e.failResolve(w, route.Name, logger, err)
		return
	}
	if len(variants) == 0 {
		e.fail(w, route.Name, http.StatusNotFound, "No streams available")
		return
	}

	name, variant := selectVariant(variants)
	logger.Debug("variant selected", "variant", name, "available", len(variants))

	handle, err := variant.Open(r.Context())
	if err != nil {
		e.failResolve(w, route.Name, logger, err)
		return
	}

	e.Metrics.ObserveUpstreamOpen(route.Name, time.Since(openStart))

	flusher, ok := w.(http.Flusher)
	if !ok {
		handle.Close()
		e.fail(w, route.Name, http.StatusInternalServerError, "Server error: streaming unsupported")
		return
	}

	// Commit the response. From here on errors can only end the stream.
	h := w.Header()
	h.Set("Content-Type", "video/MP2T")
	h.Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	e.Metrics.RecordRequest(route.Name, strconv.Itoa(http.StatusOK))
	logger.Info("relay started", "url", route.URL, "variant", name)

	s := &session{
		stream:  route.Name,
		handle:  handle,
		w:       w,
		flusher: flusher,
		logger:  logger,
		metrics: e.Metrics,
		tracker: e.Tracker,
		buf:     make([]byte, route.Options.BufferSize),
		carry:   e.CarryRemainder,
	}
	s.run()
}

// failResolve maps a backend resolution error onto the HTTP taxonomy:
// unsupported URL is 502, a source with nothing playable is 503, and any
// other backend failure is 500.
func (e *Engine) failResolve(w http.ResponseWriter, stream string, logger *slog.Logger, err error) {
	var streamErr *backend.StreamError

	switch {
	case errors.Is(err, backend.ErrNoPlugin):
		e.fail(w, stream, http.StatusBadGateway, "No plugin found for this stream URL")
	case errors.Is(err, backend.ErrNoStreams):
		e.fail(w, stream, http.StatusServiceUnavailable, "No streams available from source")
	case errors.As(err, &streamErr):
		logger.Error("upstream resolution failed", "error", err)
		e.fail(w, stream, http.StatusInternalServerError, "Stream error: "+streamErr.Error())
	default:
		logger.Error("unexpected backend failure", "error", err)
		e.fail(w, stream, http.StatusInternalServerError, "Server error: "+err.Error())
	}
}

// fail writes a plain-text error response and records it.
func (e *Engine) fail(w http.ResponseWriter, stream string, status int, msg string) {
	e.Metrics.RecordRequest(stream, strconv.Itoa(status))
	http.Error(w, msg, status)
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

// selectVariant picks the variant to relay: "best" when the backend labeled
// one, otherwise the lexicographically smallest name so the pick is
// deterministic.
func selectVariant(variants map[string]backend.Variant) (string, backend.Variant) {
	if v, ok := variants["best"]; ok {
		return "best", v
	}

	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names[0], variants[names[0]]
}
