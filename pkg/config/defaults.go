package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultHost              = "0.0.0.0"
	DefaultPort              = 8080
	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultShutdownTimeout   = 10 * time.Second

	// Relay option defaults
	DefaultUserAgent      = "StreamPipe/1.0"
	DefaultThreads        = 4
	DefaultTimeoutSeconds = 20.0
	DefaultBufferSize     = 8388608 // 8 MiB per upstream read

	// RingBufferSize is the upstream internal buffer handed to the
	// resolution backend. It is fixed, not configurable.
	RingBufferSize = 32 * 1024 * 1024 // 32 MiB

	// Telemetry defaults
	DefaultLoggingLevel   = "info"
	DefaultLoggingFormat  = "json"
	DefaultMetricsEnabled = true
	DefaultMetricsPath    = "/metrics"
)

// ApplyDefaults fills in default values for any configuration fields that
// were not set in the YAML file.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Server.ReadHeaderTimeout == 0 {
		cfg.Server.ReadHeaderTimeout = DefaultReadHeaderTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	applyOptionDefaults(&cfg.Options)

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
}

// applyOptionDefaults fills in the relay option defaults.
func applyOptionDefaults(o *RelayOptions) {
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.Threads == 0 {
		o.Threads = DefaultThreads
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeoutSeconds
	}
	if o.BufferSize == 0 {
		o.BufferSize = DefaultBufferSize
	}
}

// DefaultRelayOptions returns a RelayOptions populated with the defaults.
func DefaultRelayOptions() RelayOptions {
	o := RelayOptions{}
	applyOptionDefaults(&o)
	return o
}
