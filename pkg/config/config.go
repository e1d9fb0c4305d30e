package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for StreamPipe. It is built once
// at startup and treated as immutable for the lifetime of the process.
type Config struct {
	// Server contains HTTP server configuration: bind address and timeouts.
	Server ServerConfig `yaml:"server"`

	// Streams maps stream names to their source descriptors. Keys must match
	// [a-z0-9-]+ to be routable; entries are either a bare URL string or a
	// mapping with a url and per-stream relay option overrides.
	Streams map[string]StreamConfig `yaml:"streams"`

	// Options contains the global relay options applied to every stream
	// unless overridden per stream.
	Options RelayOptions `yaml:"options"`

	// Telemetry contains observability configuration: logging, metrics, and
	// the periodic stats reporter.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// Host is the address to bind the listener to.
	// Default: "0.0.0.0"
	Host string `yaml:"host"`

	// Port is the TCP port to listen on.
	// Default: 8080
	Port int `yaml:"port"`

	// ReadHeaderTimeout bounds how long the server waits for request headers.
	// The server never sets a write timeout: relay responses are unbounded
	// live streams.
	// Default: 10s
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	// In-flight relay sessions still running after this timeout are abandoned.
	// Default: 10s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StreamConfig is the source descriptor for a single stream. In YAML it is
// either a bare scalar (the source URL) or a mapping:
//
//	streams:
//	  news: "https://example.com/news.m3u8"
//	  sports:
//	    url: "https://example.com/sports.m3u8"
//	    user_agent: "Custom/2.0"
//	    threads: 8
//
// An empty URL is preserved at load time; the misconfiguration is reported
// per request with HTTP 500 so a single bad route does not prevent startup.
type StreamConfig struct {
	// URL is the upstream source URL handed to the resolution backend.
	URL string `yaml:"url"`

	// Overrides are the per-stream relay option overrides. Fields left unset
	// fall back to the global options.
	Overrides RelayOverrides `yaml:",inline"`
}

// RelayOverrides holds optional per-stream overrides of RelayOptions. Pointer
// fields distinguish "unset" from zero values.
type RelayOverrides struct {
	UserAgent  *string  `yaml:"user_agent"`
	Threads    *int     `yaml:"threads"`
	Timeout    *float64 `yaml:"timeout"`
	BufferSize *int     `yaml:"buffer_size"`
}

// UnmarshalYAML accepts both the scalar and the mapping form of a stream
// descriptor.
func (s *StreamConfig) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var url string
		if err := value.Decode(&url); err != nil {
			return err
		}
		s.URL = url
		return nil
	}

	// Decode into a shadow type to avoid recursing into this method.
	type plain StreamConfig
	var p plain
	if err := value.Decode(&p); err != nil {
		return fmt.Errorf("stream descriptor must be a URL string or a mapping: %w", err)
	}
	*s = StreamConfig(p)
	return nil
}

// RelayOptions contains the tunables of the relay path. Timeout is expressed
// in seconds as a float to match the configuration document shape
// (e.g. "timeout: 20.0").
type RelayOptions struct {
	// UserAgent is sent to the upstream source in the User-Agent header.
	// Default: "StreamPipe/1.0"
	UserAgent string `yaml:"user_agent"`

	// Threads is the upstream segment download parallelism.
	// Default: 4
	Threads int `yaml:"threads"`

	// Timeout is the upstream connect/read timeout in seconds.
	// Default: 20.0
	Timeout float64 `yaml:"timeout"`

	// BufferSize is the per-read chunk size in bytes.
	// Default: 8388608 (8 MiB)
	BufferSize int `yaml:"buffer_size"`
}

// TimeoutDuration returns the upstream timeout as a time.Duration.
func (o RelayOptions) TimeoutDuration() time.Duration {
	return time.Duration(o.Timeout * float64(time.Second))
}

// Merge returns a copy of the options with the non-nil override fields
// applied. Option resolution happens once per route when the routing table is
// built; the result is never mutated afterwards.
func (o RelayOptions) Merge(ov RelayOverrides) RelayOptions {
	out := o
	if ov.UserAgent != nil {
		out.UserAgent = *ov.UserAgent
	}
	if ov.Threads != nil {
		out.Threads = *ov.Threads
	}
	if ov.Timeout != nil {
		out.Timeout = *ov.Timeout
	}
	if ov.BufferSize != nil {
		out.BufferSize = *ov.BufferSize
	}
	return out
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// StatsSchedule is a cron expression for periodic relay stats logging
	// (e.g. "*/5 * * * *" for every five minutes). Empty disables the
	// reporter.
	StatsSchedule string `yaml:"stats_schedule"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", or "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the log output format: "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether the /metrics endpoint is exposed.
	// Default: true
	Enabled *bool `yaml:"enabled"`

	// Path is the HTTP path for the metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`
}

// MetricsEnabled reports whether the metrics endpoint should be exposed.
func (m MetricsConfig) MetricsEnabled() bool {
	if m.Enabled == nil {
		return DefaultMetricsEnabled
	}
	return *m.Enabled
}
