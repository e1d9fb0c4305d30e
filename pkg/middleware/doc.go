// Package middleware provides HTTP middleware for cross-cutting concerns.
//
// This package implements middleware functions that handle common
// functionality across all HTTP requests including request ID generation,
// structured logging, and panic recovery.
//
// # Middleware Chain
//
// Middleware functions are chained in a specific order:
//
//	handler = Recovery(Logging(RequestID(handler)))
//
// Order (innermost to outermost):
//  1. RequestID: Generate and propagate request ID
//  2. Logging: Log request/response details
//  3. Recovery: Recover from panics
//
// # Request ID
//
// RequestID generates a unique ID for each request using UUID v4:
//
//	X-Request-ID: 550e8400-e29b-41d4-a716-446655440000
//
// A client-provided X-Request-ID header is honored as-is, which lets a
// front proxy correlate its own logs with ours.
//
// # Logging
//
// Logging uses structured logging (log/slog) to record request details:
//
//	{
//	  "time": "2026-08-29T10:30:00Z",
//	  "level": "INFO",
//	  "msg": "request completed",
//	  "method": "GET",
//	  "path": "/news",
//	  "status": 200,
//	  "latency_ms": 84120,
//	  "request_id": "550e8400-e29b-41d4-a716-446655440000"
//	}
//
// For relay endpoints the latency covers the whole streaming session, so
// long values are expected for healthy long-lived clients.
//
// # Recovery
//
// Recovery catches panics in handlers and converts them to HTTP 500
// errors. The panic stack trace is logged but not exposed to clients.
//
// # Thread Safety
//
// All middleware functions are thread-safe and can be called concurrently
// from multiple goroutines.
package middleware
