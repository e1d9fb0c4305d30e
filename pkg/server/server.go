// Package server provides the HTTP server that exposes configured streams.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"streampipe-hq/streampipe/pkg/config"
	"streampipe-hq/streampipe/pkg/middleware"
	"streampipe-hq/streampipe/pkg/relay"
	"streampipe-hq/streampipe/pkg/telemetry/health"
	"streampipe-hq/streampipe/pkg/telemetry/metrics"
)

// BuildInfo carries version identifiers into the /version endpoint.
type BuildInfo struct {
	Version string
	Commit  string
}

// Server is the HTTP server relaying configured streams to clients.
type Server struct {
	config       *config.Config
	relayHandler *relay.Handler
	metrics      *metrics.Collector
	checker      *health.Checker
	build        BuildInfo

	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a new stream server.
func NewServer(cfg *config.Config, relayHandler *relay.Handler, collector *metrics.Collector, checker *health.Checker, build BuildInfo) *Server {
	return &Server{
		config:       cfg,
		relayHandler: relayHandler,
		metrics:      collector,
		checker:      checker,
		build:        build,
		shutdownChan: make(chan struct{}, 1),
	}
}

// Start starts the HTTP server and blocks until shutdown. Shutdown is
// triggered by context cancellation, SIGINT/SIGTERM, or Stop.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	handler := s.setupRoutes()

	// Relay responses are long-lived, so only the header read gets a
	// timeout. A server-wide write timeout would cut every stream off.
	s.httpServer = &http.Server{
		Addr:              s.config.Server.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: s.config.Server.ReadHeaderTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting stream server",
			"address", s.config.Server.Addr(),
			"streams", len(s.config.Streams),
		)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		slog.Info("shutdown requested")
		return s.Shutdown(context.Background())
	}
}

// Stop requests a graceful shutdown from another goroutine.
func (s *Server) Stop() {
	select {
	case s.shutdownChan <- struct{}{}:
	default:
	}
}

// Shutdown gracefully shuts down the server. In-flight relay sessions are
// abandoned once the shutdown timeout elapses; each session releases its
// upstream handle on its own exit path.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		slog.Info("initiating graceful shutdown",
			"timeout", s.config.Server.ShutdownTimeout.String(),
		)

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				// Expected when relay sessions outlive the timeout: close
				// their connections outright.
				slog.Warn("graceful shutdown incomplete, closing remaining connections", "error", err)
				if closeErr := s.httpServer.Close(); closeErr != nil {
					shutdownErr = fmt.Errorf("server close error: %w", closeErr)
				}
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("stream server stopped")
	})

	return shutdownErr
}

// IsRunning reports whether the server is accepting connections.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the configured HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

// setupRoutes configures HTTP routes and the middleware chain. The relay
// handler owns the catch-all route and dispatches health, streams, and
// errors itself; the operational endpoints sit on fixed paths.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/", s.relayHandler)
	mux.Handle("/ready", s.checker.ReadinessHandler())
	mux.Handle("/version", health.VersionHandler(s.build.Version, s.build.Commit))

	if s.config.Telemetry.Metrics.MetricsEnabled() && s.metrics != nil {
		mux.Handle(s.config.Telemetry.Metrics.Path, s.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = middleware.RequestID(handler)
	handler = middleware.Logging(handler)
	handler = middleware.Recovery(handler)

	return handler
}
