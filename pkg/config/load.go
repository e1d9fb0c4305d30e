package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a YAML file at the specified path. It applies
// default values, validates the configuration, and returns any errors. The
// configuration is not modified by environment variables; use
// LoadWithEnvOverrides for that functionality.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention STREAMPIPE_SECTION_FIELD (e.g., STREAMPIPE_SERVER_HOST) and
// always take precedence over file-based configuration.
//
// The loading sequence is:
//  1. Load YAML from file
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate final configuration
func LoadWithEnvOverrides(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Stream entries are file-only: the routing table is part of
// the deployed document, not the environment.
func applyEnvOverrides(cfg *Config) {
	// Server overrides
	if val := os.Getenv("STREAMPIPE_SERVER_HOST"); val != "" {
		cfg.Server.Host = val
	}
	if val := os.Getenv("STREAMPIPE_SERVER_PORT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Server.Port = i
		}
	}
	if val := os.Getenv("STREAMPIPE_SERVER_SHUTDOWN_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ShutdownTimeout = d
		}
	}

	// Relay option overrides
	if val := os.Getenv("STREAMPIPE_OPTIONS_USER_AGENT"); val != "" {
		cfg.Options.UserAgent = val
	}
	if val := os.Getenv("STREAMPIPE_OPTIONS_THREADS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Options.Threads = i
		}
	}
	if val := os.Getenv("STREAMPIPE_OPTIONS_TIMEOUT"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Options.Timeout = f
		}
	}
	if val := os.Getenv("STREAMPIPE_OPTIONS_BUFFER_SIZE"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Options.BufferSize = i
		}
	}

	// Telemetry overrides
	if val := os.Getenv("STREAMPIPE_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("STREAMPIPE_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("STREAMPIPE_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = &b
		}
	}
	if val := os.Getenv("STREAMPIPE_TELEMETRY_STATS_SCHEDULE"); val != "" {
		cfg.Telemetry.StatsSchedule = val
	}
}
