// Package config provides configuration management for StreamPipe.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides. It provides a type-safe
// configuration system with sensible defaults.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.Load("config.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadWithEnvOverrides("config.yaml")
//
// # Configuration Document
//
// The document has four top-level sections:
//
//	server:
//	  host: "0.0.0.0"
//	  port: 8080
//
//	streams:
//	  news: "https://example.com/news/master.m3u8"
//	  sports:
//	    url: "https://example.com/sports/master.m3u8"
//	    threads: 8
//
//	options:
//	  user_agent: "StreamPipe/1.0"
//	  threads: 4
//	  timeout: 20.0
//	  buffer_size: 8388608
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "json"
//
// A stream entry is either a bare URL string or a mapping carrying a url plus
// per-stream overrides of the global relay options.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention STREAMPIPE_SECTION_FIELD.
// For example:
//
//   - STREAMPIPE_SERVER_HOST overrides server.host
//   - STREAMPIPE_SERVER_PORT overrides server.port
//   - STREAMPIPE_OPTIONS_USER_AGENT overrides options.user_agent
//   - STREAMPIPE_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// Environment variables always take precedence over file-based configuration.
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from the YAML file
//  3. Environment variable overrides
//  4. Command-line flag overrides (applied by the caller)
//
// There is no process-wide configuration singleton: the loaded Config is
// immutable by convention and passed explicitly to every component that
// needs it.
package config
