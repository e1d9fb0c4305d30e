// Package stats provides periodic logging of relay statistics.
//
// # Tracking
//
// The Tracker accumulates counters from relay sessions:
//
//   - Active and total session counts
//   - Bytes relayed to clients
//   - Bytes discarded during packet alignment
//
// All tracker methods are safe for concurrent use, and a nil tracker is
// a valid no-op so callers never need to guard their calls.
//
// # Reporting
//
// The Reporter logs a snapshot on a cron schedule:
//
//	tracker := stats.NewTracker()
//	reporter := stats.NewReporter(tracker, "*/5 * * * *")
//	if err := reporter.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer reporter.Stop()
//
// If no schedule is configured (empty string), the reporter does nothing
// and Start() returns immediately without error.
package stats
