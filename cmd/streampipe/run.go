package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"streampipe-hq/streampipe/pkg/backend/hls"
	"streampipe-hq/streampipe/pkg/config"
	"streampipe-hq/streampipe/pkg/relay"
	"streampipe-hq/streampipe/pkg/routes"
	"streampipe-hq/streampipe/pkg/server"
	"streampipe-hq/streampipe/pkg/telemetry/health"
	"streampipe-hq/streampipe/pkg/telemetry/logging"
	"streampipe-hq/streampipe/pkg/telemetry/metrics"
	"streampipe-hq/streampipe/pkg/telemetry/stats"
)

var runFlags struct {
	host           string
	port           int
	logLevel       string
	carryRemainder bool
	dryRun         bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the StreamPipe relay server",
	Long: `Start the StreamPipe relay server with the specified configuration.

The server listens on the configured address and relays each configured
stream to clients as a chunked video/MP2T response.

Examples:
  # Start with default config
  streampipe run

  # Start with custom config
  streampipe run --config /etc/streampipe/config.yaml

  # Override listen address
  streampipe run --host 0.0.0.0 --port 9000

  # Validate config without starting server
  streampipe run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runFlags.host, "host", "", "override listen host")
	runCmd.Flags().IntVar(&runFlags.port, "port", 0, "override listen port")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.carryRemainder, "carry-remainder", false, "carry unaligned read tails forward instead of discarding them")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWithEnvOverrides(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Apply flag overrides
	if runFlags.host != "" {
		cfg.Server.Host = runFlags.host
	}
	if runFlags.port != 0 {
		cfg.Server.Port = runFlags.port
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logging.Init(cfg.Telemetry.Logging)

	if runFlags.dryRun {
		fmt.Printf("✓ Configuration valid (%d streams)\n", len(cfg.Streams))
		return nil
	}

	printBanner(cfg)

	table := routes.NewTable(cfg)

	collector := metrics.NewCollector()
	tracker := stats.NewTracker()

	engine := &relay.Engine{
		Backend:        hls.New(),
		Metrics:        collector,
		Tracker:        tracker,
		CarryRemainder: runFlags.carryRemainder,
	}
	relayHandler := relay.NewHandler(table, engine)

	checker := health.New(0)
	checker.Register("config", func(ctx context.Context) error {
		if table.Count() == 0 {
			return fmt.Errorf("no streams configured")
		}
		return nil
	})

	srv := server.NewServer(cfg, relayHandler, collector, checker, server.BuildInfo{
		Version: Version,
		Commit:  GitCommit,
	})

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Periodic stats logging, if scheduled.
	reporter := stats.NewReporter(tracker, cfg.Telemetry.StatsSchedule)
	if err := reporter.Start(ctx); err != nil {
		slog.Warn("failed to start stats reporter", "error", err)
	} else {
		defer reporter.Stop()
	}

	// Watch the config file so operators learn a restart is needed. The
	// routing table itself is immutable for the process lifetime.
	watcher, err := config.NewWatcher(cfgFile, slog.Default())
	if err != nil {
		slog.Warn("config watcher unavailable", "error", err)
	} else {
		go func() {
			if werr := watcher.Watch(ctx, nil); werr != nil {
				slog.Warn("config watcher stopped", "error", werr)
			}
		}()
	}

	printEndpoints(cfg, table)

	return srv.Start(ctx)
}

func printBanner(cfg *config.Config) {
	fmt.Printf("StreamPipe v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)
	fmt.Printf("✓ Configuration loaded (%d streams)\n", len(cfg.Streams))
}

func printEndpoints(cfg *config.Config, table *routes.Table) {
	base := "http://" + cfg.Server.Host + ":" + strconv.Itoa(cfg.Server.Port)

	fmt.Println()
	for _, name := range table.Names() {
		fmt.Printf("  %s/%s\n", base, name)
	}
	fmt.Printf("\n✓ Health endpoint: %s/health\n", base)
	if cfg.Telemetry.Metrics.MetricsEnabled() {
		fmt.Printf("✓ Metrics endpoint: %s%s\n", base, cfg.Telemetry.Metrics.Path)
	}
	fmt.Println("\nPress Ctrl+C to stop")
}
