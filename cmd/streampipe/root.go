package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "streampipe",
	Short: "StreamPipe - live stream relay server",
	Long: `StreamPipe exposes named upstream media sources as individually
addressable HTTP endpoints, relaying live transport-stream data to clients
over chunked HTTP responses.

Each configured stream name becomes a URL path: a client requesting
GET /<name> receives a continuous video/MP2T byte stream resolved from
the corresponding upstream source.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
