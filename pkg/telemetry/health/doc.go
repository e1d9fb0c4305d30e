// Package health provides readiness and version endpoints.
//
// The relay's legacy health endpoint (GET / or /health, reporting the
// configured stream count) is owned by the relay handler and never touches
// the resolution backend. This package adds the operational probes around
// it: a Checker aggregating named readiness checks for /ready, and a
// build-info handler for /version.
package health
