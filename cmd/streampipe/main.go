// StreamPipe exposes named upstream media sources as HTTP endpoints,
// relaying live MPEG transport-stream data to clients as chunked responses.
//
// Usage:
//
//	# Start server with default configuration
//	streampipe run
//
//	# Start with custom configuration file
//	streampipe run --config /path/to/config.yaml
//
//	# Validate a configuration file
//	streampipe validate --config /path/to/config.yaml
//
//	# Show version information
//	streampipe version
package main

func main() {
	Execute()
}
