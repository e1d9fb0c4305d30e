package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"streampipe-hq/streampipe/pkg/config"
	"streampipe-hq/streampipe/pkg/relay"
	"streampipe-hq/streampipe/pkg/routes"
	"streampipe-hq/streampipe/pkg/telemetry/health"
	"streampipe-hq/streampipe/pkg/telemetry/metrics"
)

func testConfig(metricsEnabled bool) *config.Config {
	cfg := &config.Config{
		Streams: map[string]config.StreamConfig{
			"news":   {URL: "http://example.com/news.m3u8"},
			"sports": {URL: "http://example.com/sports.m3u8"},
		},
	}
	config.ApplyDefaults(cfg)
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Telemetry.Metrics.Enabled = &metricsEnabled
	return cfg
}

func testServer(t *testing.T, metricsEnabled bool) *Server {
	t.Helper()
	cfg := testConfig(metricsEnabled)
	table := routes.NewTable(cfg)
	collector := metrics.NewCollector()
	engine := &relay.Engine{Metrics: collector}
	handler := relay.NewHandler(table, engine)
	checker := health.New(0)

	return NewServer(cfg, handler, collector, checker, BuildInfo{Version: "test", Commit: "none"})
}

func TestSetupRoutes_OperationalEndpoints(t *testing.T) {
	srv := testServer(t, true)
	handler := srv.setupRoutes()

	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{"/", http.StatusOK, `"streams":2`},
		{"/health", http.StatusOK, `"status":"ok"`},
		{"/ready", http.StatusOK, `"status":"ready"`},
		{"/version", http.StatusOK, `"version":"test"`},
		{"/metrics", http.StatusOK, "streampipe_"},
		{"/nosuchstream", http.StatusNotFound, "Not Found"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("body %q should contain %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestSetupRoutes_MetricsDisabled(t *testing.T) {
	srv := testServer(t, false)
	handler := srv.setupRoutes()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	// With no /metrics route the path falls through to the relay handler,
	// which rejects it as an unknown stream.
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestSetupRoutes_RequestIDHeader(t *testing.T) {
	srv := testServer(t, true)
	handler := srv.setupRoutes()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Header().Get("X-Request-ID") == "" {
		t.Error("middleware chain should set X-Request-ID")
	}
}

func TestSetupRoutes_HealthBody(t *testing.T) {
	srv := testServer(t, true)
	handler := srv.setupRoutes()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var body struct {
		Status  string `json:"status"`
		Streams int    `json:"streams"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body.Status != "ok" || body.Streams != 2 {
		t.Errorf("body = %+v, want ok/2", body)
	}
}

func TestServer_StartStop(t *testing.T) {
	srv := testServer(t, true)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(context.Background())
	}()

	deadline := time.Now().Add(2 * time.Second)
	for !srv.IsRunning() {
		if time.Now().After(deadline) {
			t.Fatal("server never reported running")
		}
		time.Sleep(10 * time.Millisecond)
	}

	srv.Stop()

	select {
	case err := <-errChan:
		if err != nil {
			t.Errorf("Start returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	if srv.IsRunning() {
		t.Error("server still reports running after shutdown")
	}
}

func TestServer_StartTwice(t *testing.T) {
	srv := testServer(t, true)

	go func() { _ = srv.Start(context.Background()) }()

	deadline := time.Now().Add(2 * time.Second)
	for !srv.IsRunning() {
		if time.Now().After(deadline) {
			t.Fatal("server never reported running")
		}
		time.Sleep(10 * time.Millisecond)
	}
	defer srv.Stop()

	if err := srv.Start(context.Background()); err == nil {
		t.Error("second Start should fail while running")
	}
}
