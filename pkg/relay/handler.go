package relay

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"streampipe-hq/streampipe/pkg/routes"
)

// healthToken is the reserved path that maps to the health handler, along
// with the bare root path.
const healthToken = "health"

// healthResponse is the health endpoint's JSON body.
type healthResponse struct {
	Status  string `json:"status"`
	Streams int    `json:"streams"`
}

// Handler is the request router: it turns a request path into a health
// response, a relayed stream, or an error. Paths are validated against the
// allowed name syntax before the routing table is consulted, so traversal
// and injection attempts never reach the lookup.
type Handler struct {
	table  *routes.Table
	engine *Engine
	logger *slog.Logger
}

// NewHandler creates the stream request router backed by the given routing
// table and relay engine.
func NewHandler(table *routes.Table, engine *Engine) *Handler {
	return &Handler{
		table:  table,
		engine: engine,
		logger: slog.Default().With("component", "relay.handler"),
	}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.Trim(r.URL.Path, "/")

	if name == "" || name == healthToken {
		h.serveHealth(w, r)
		return
	}

	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !routes.ValidName(name) {
		h.logger.Debug("rejected invalid stream name", "path", r.URL.Path)
		h.engine.fail(w, "invalid", http.StatusNotFound, "Not Found")
		return
	}

	route, ok := h.table.Lookup(name)
	if !ok {
		h.engine.fail(w, "unknown", http.StatusNotFound, "Not Found")
		return
	}

	if route.URL == "" {
		h.logger.Error("route has no URL configured", "stream", name)
		h.engine.fail(w, name, http.StatusInternalServerError,
			fmt.Sprintf("No URL configured for stream '%s'", name))
		return
	}

	h.engine.ServeStream(w, r, route)
}

// serveHealth reports process liveness and the configured route count. It
// never consults the backend, so it succeeds regardless of upstream state.
func (h *Handler) serveHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if r.Method != http.MethodHead {
		_ = json.NewEncoder(w).Encode(healthResponse{
			Status:  "ok",
			Streams: h.table.Count(),
		})
	}
}
