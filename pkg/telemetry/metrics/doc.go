// Package metrics provides Prometheus metrics for the relay path.
//
// The Collector owns a private registry and pre-registers every relay
// metric, so recording is allocation-free label lookups on the hot path.
// Handler exposes the registry in Prometheus exposition format; the server
// mounts it at the configured metrics path.
//
// Metrics:
//
//   - streampipe_requests_total{stream,status}: relay requests by outcome
//   - streampipe_bytes_relayed_total{stream}: payload bytes delivered
//   - streampipe_bytes_discarded_total{stream}: bytes dropped by TS packet
//     alignment truncation
//   - streampipe_active_sessions: currently running relay sessions
//   - streampipe_upstream_open_duration_seconds{stream}: time from request
//     to committed upstream stream
package metrics
