package config

import (
	"fmt"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.port").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
//
// A stream entry with an empty URL is NOT a validation error: the route loads
// and the misconfiguration is reported per request (HTTP 500 naming the
// stream), so one bad entry never prevents the rest from serving.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateOptions("options", &cfg.Options)...)
	errs = append(errs, validateStreams(cfg.Streams, &cfg.Options)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateServer(s *ServerConfig) []FieldError {
	var errs []FieldError

	if s.Host == "" {
		errs = append(errs, FieldError{Field: "server.host", Message: "must not be empty"})
	}
	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, FieldError{
			Field:   "server.port",
			Message: fmt.Sprintf("must be between 1 and 65535, got %d", s.Port),
		})
	}
	if s.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.shutdown_timeout", Message: "must not be negative"})
	}

	return errs
}

func validateOptions(field string, o *RelayOptions) []FieldError {
	var errs []FieldError

	if o.Threads < 1 {
		errs = append(errs, FieldError{
			Field:   field + ".threads",
			Message: fmt.Sprintf("must be at least 1, got %d", o.Threads),
		})
	}
	if o.Timeout <= 0 {
		errs = append(errs, FieldError{
			Field:   field + ".timeout",
			Message: fmt.Sprintf("must be positive, got %g", o.Timeout),
		})
	}
	if o.BufferSize < 1 {
		errs = append(errs, FieldError{
			Field:   field + ".buffer_size",
			Message: fmt.Sprintf("must be at least 1, got %d", o.BufferSize),
		})
	}

	return errs
}

func validateStreams(streams map[string]StreamConfig, global *RelayOptions) []FieldError {
	var errs []FieldError

	for name, sc := range streams {
		field := "streams." + name

		// Per-stream overrides are validated with the global options applied,
		// so an override only fails if the merged result is unusable.
		merged := global.Merge(sc.Overrides)
		for _, fe := range validateOptions(field, &merged) {
			errs = append(errs, fe)
		}
	}

	return errs
}

func validateTelemetry(t *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch t.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("must be one of debug, info, warn, error; got %q", t.Logging.Level),
		})
	}

	switch t.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("must be json or text, got %q", t.Logging.Format),
		})
	}

	if t.Metrics.MetricsEnabled() && !strings.HasPrefix(t.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: fmt.Sprintf("must start with /, got %q", t.Metrics.Path),
		})
	}

	return errs
}
