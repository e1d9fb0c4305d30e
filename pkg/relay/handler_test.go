package relay

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestHandler(be *fakeBackend, streams map[string]string) *Handler {
	return NewHandler(testTable(streams), &Engine{Backend: be})
}

func TestHandler_UnknownRoute(t *testing.T) {
	be := &fakeBackend{}
	h := newTestHandler(be, map[string]string{"news": "http://example.com/news.m3u8"})

	req := httptest.NewRequest(http.MethodGet, "/sports", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if be.calls.Load() != 0 {
		t.Error("backend must not be invoked for unknown routes")
	}
}

func TestHandler_InvalidName(t *testing.T) {
	be := &fakeBackend{}
	h := newTestHandler(be, map[string]string{"news": "http://example.com/news.m3u8"})

	paths := []string{
		"/News",
		"/news stream",
		"/news%2Fextra",
		"/../etc/passwd",
		"/café",
		"/news_underscore",
		"/a.b",
	}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.URL.Path = path

		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("%q: status = %d, want 404", path, w.Code)
		}
	}
	if be.calls.Load() != 0 {
		t.Error("backend must not be invoked for invalid names")
	}
}

func TestHandler_EmptyURL(t *testing.T) {
	be := &fakeBackend{}
	h := newTestHandler(be, map[string]string{"broken": ""})

	req := httptest.NewRequest(http.MethodGet, "/broken", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if !strings.Contains(w.Body.String(), "broken") {
		t.Errorf("body should name the stream, got %q", w.Body.String())
	}
	if be.calls.Load() != 0 {
		t.Error("backend must not be invoked for a misconfigured route")
	}
}

func TestHandler_Health(t *testing.T) {
	h := newTestHandler(&fakeBackend{}, map[string]string{
		"news":   "http://example.com/news.m3u8",
		"sports": "http://example.com/sports.m3u8",
		"movies": "http://example.com/movies.m3u8",
	})

	for _, path := range []string{"/", "/health", "//health//"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.URL.Path = path

		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("%q: status = %d, want 200", path, w.Code)
		}

		var body healthResponse
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("%q: invalid JSON body: %v", path, err)
		}
		if body.Status != "ok" {
			t.Errorf("%q: status field = %q, want ok", path, body.Status)
		}
		if body.Streams != 3 {
			t.Errorf("%q: streams = %d, want 3", path, body.Streams)
		}
	}
}

func TestHandler_HealthIgnoresBackendState(t *testing.T) {
	// A backend that always fails must not affect the health endpoint.
	be := &fakeBackend{err: errors.New("backend down")}
	h := newTestHandler(be, map[string]string{"news": "http://example.com/news.m3u8"})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if be.calls.Load() != 0 {
		t.Error("health must never invoke the backend")
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h := newTestHandler(&fakeBackend{}, map[string]string{"news": "http://example.com/news.m3u8"})

	req := httptest.NewRequest(http.MethodPost, "/news", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
	if allow := w.Header().Get("Allow"); allow != http.MethodGet {
		t.Errorf("Allow = %q, want GET", allow)
	}
}
