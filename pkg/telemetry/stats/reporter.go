package stats

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Reporter logs relay statistics on a schedule. It runs at scheduled
// intervals using cron syntax and logs a snapshot of the tracker's
// counters each time it fires.
type Reporter struct {
	tracker  *Tracker
	schedule string
	cron     *cron.Cron
	mu       sync.Mutex
	logger   *slog.Logger
	running  bool
}

// NewReporter creates a stats reporter for the given tracker. An empty
// schedule disables reporting.
func NewReporter(tracker *Tracker, schedule string) *Reporter {
	return &Reporter{
		tracker:  tracker,
		schedule: schedule,
		cron:     cron.New(),
		logger:   slog.Default().With("component", "stats.reporter"),
	}
}

// Start begins scheduled reporting based on the cron expression.
//
// Common cron expressions:
//   - "* * * * *"    - Every minute
//   - "*/5 * * * *"  - Every 5 minutes
//   - "0 * * * *"    - Hourly
//
// If the schedule is empty, Start does nothing and returns nil.
func (r *Reporter) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.schedule == "" {
		r.logger.Info("stats schedule not configured, skipping reporter")
		return nil
	}

	if _, err := cron.ParseStandard(r.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", r.schedule, err)
	}

	if _, err := r.cron.AddFunc(r.schedule, r.report); err != nil {
		return fmt.Errorf("failed to schedule stats reporting: %w", err)
	}

	r.cron.Start()
	r.running = true

	r.logger.Info("stats reporter started", "schedule", r.schedule)

	go func() {
		<-ctx.Done()
		r.Stop()
	}()

	return nil
}

// report logs one snapshot of the relay counters.
func (r *Reporter) report() {
	snap := r.tracker.Snapshot()
	r.logger.Info("relay statistics",
		"active_sessions", snap.ActiveSessions,
		"total_sessions", snap.TotalSessions,
		"bytes_relayed", snap.BytesRelayed,
		"bytes_discarded", snap.BytesDiscarded,
	)
}

// Stop stops the reporter and waits for any running job to complete.
func (r *Reporter) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cron != nil && r.running {
		ctx := r.cron.Stop()
		<-ctx.Done()
		r.running = false
		r.logger.Info("stats reporter stopped")
	}
}

// IsRunning returns true if the reporter is running.
func (r *Reporter) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.running
}

// NextRun returns the next scheduled report time.
func (r *Reporter) NextRun() *time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cron == nil {
		return nil
	}

	entries := r.cron.Entries()
	if len(entries) == 0 {
		return nil
	}

	next := entries[0].Next
	return &next
}
