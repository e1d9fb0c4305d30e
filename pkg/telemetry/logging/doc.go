// Package logging provides structured logging setup for StreamPipe.
//
// Logging is built on log/slog with a JSON or text handler selected by
// configuration. Init installs the configured logger as the process-wide
// default so components can log through slog directly; components that want
// an annotated logger use WithComponent.
package logging
