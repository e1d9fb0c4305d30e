// Package server provides the HTTP server that exposes configured streams.
//
// This package ties together the relay handler, middleware, and operational
// endpoints, and provides server lifecycle management including start,
// graceful shutdown, and OS signal handling.
//
// # Basic Usage
//
// Creating and starting a server:
//
//	cfg, err := config.Load("config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	table := routes.NewTable(cfg)
//	engine := &relay.Engine{Backend: hls.NewResolver()}
//	handler := relay.NewHandler(table, engine)
//
//	srv := server.NewServer(cfg, handler, collector, checker, build)
//	if err := srv.Start(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//
// # Routes
//
// The server exposes the following HTTP endpoints:
//
//   - GET /            - Health summary (status and stream count)
//   - GET /health      - Same as /
//   - GET /<name>      - Chunked video/MP2T relay of the named stream
//   - GET /ready       - Readiness probe (runs registered checks)
//   - GET /version     - Build information
//   - GET /metrics     - Prometheus metrics (when enabled)
//
// The fixed operational paths take precedence over the relay catch-all, so
// a stream named "ready", "version", or "metrics" is not reachable.
//
// # Middleware Chain
//
// Requests pass through the following middleware (innermost to outermost):
//  1. RequestID: Generates unique request ID for tracing
//  2. Logging: Logs request/response details
//  3. Recovery: Recovers from panics and returns 500 error
//
// # Graceful Shutdown
//
// Shutdown is triggered by SIGTERM/SIGINT, context cancellation, or Stop.
// The server stops accepting connections and waits up to the configured
// shutdown timeout. Relay sessions are long-lived, so any still running
// when the timeout elapses have their connections closed outright; each
// session releases its upstream handle on its own exit path.
//
// # Timeouts
//
// Only ReadHeaderTimeout is set on the underlying http.Server. Write and
// idle timeouts are deliberately absent: a relay response lasts as long as
// the client keeps watching.
//
// # Thread Safety
//
// All server operations are thread-safe and can be called concurrently from
// multiple goroutines.
package server
