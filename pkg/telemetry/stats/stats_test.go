package stats

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestTracker_Counters(t *testing.T) {
	tracker := NewTracker()

	tracker.SessionStarted()
	tracker.SessionStarted()
	tracker.SessionEnded()
	tracker.AddBytesRelayed(188)
	tracker.AddBytesRelayed(376)
	tracker.AddBytesDiscarded(42)

	snap := tracker.Snapshot()
	if snap.ActiveSessions != 1 {
		t.Errorf("active sessions = %d, want 1", snap.ActiveSessions)
	}
	if snap.TotalSessions != 2 {
		t.Errorf("total sessions = %d, want 2", snap.TotalSessions)
	}
	if snap.BytesRelayed != 564 {
		t.Errorf("bytes relayed = %d, want 564", snap.BytesRelayed)
	}
	if snap.BytesDiscarded != 42 {
		t.Errorf("bytes discarded = %d, want 42", snap.BytesDiscarded)
	}
}

func TestTracker_IgnoresNonPositive(t *testing.T) {
	tracker := NewTracker()
	tracker.AddBytesRelayed(0)
	tracker.AddBytesRelayed(-5)
	tracker.AddBytesDiscarded(-1)

	snap := tracker.Snapshot()
	if snap.BytesRelayed != 0 || snap.BytesDiscarded != 0 {
		t.Errorf("non-positive values should be ignored, got %+v", snap)
	}
}

func TestTracker_NilSafe(t *testing.T) {
	var tracker *Tracker
	tracker.SessionStarted()
	tracker.SessionEnded()
	tracker.AddBytesRelayed(100)
	tracker.AddBytesDiscarded(100)

	snap := tracker.Snapshot()
	if snap != (Snapshot{}) {
		t.Errorf("nil tracker snapshot = %+v, want zero", snap)
	}
}

func TestTracker_Concurrent(t *testing.T) {
	tracker := NewTracker()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tracker.SessionStarted()
				tracker.AddBytesRelayed(188)
				tracker.SessionEnded()
			}
		}()
	}
	wg.Wait()

	snap := tracker.Snapshot()
	if snap.ActiveSessions != 0 {
		t.Errorf("active sessions = %d, want 0", snap.ActiveSessions)
	}
	if snap.TotalSessions != 1000 {
		t.Errorf("total sessions = %d, want 1000", snap.TotalSessions)
	}
	if snap.BytesRelayed != 188000 {
		t.Errorf("bytes relayed = %d, want 188000", snap.BytesRelayed)
	}
}

func TestReporter_Start(t *testing.T) {
	tests := []struct {
		name        string
		schedule    string
		wantRunning bool
		wantError   bool
	}{
		{
			name:        "valid minute schedule",
			schedule:    "* * * * *",
			wantRunning: true,
			wantError:   false,
		},
		{
			name:        "valid hourly schedule",
			schedule:    "0 * * * *",
			wantRunning: true,
			wantError:   false,
		},
		{
			name:        "empty schedule - no error, not running",
			schedule:    "",
			wantRunning: false,
			wantError:   false,
		},
		{
			name:        "invalid schedule",
			schedule:    "invalid cron",
			wantRunning: false,
			wantError:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reporter := NewReporter(NewTracker(), tt.schedule)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			err := reporter.Start(ctx)
			if tt.wantError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if reporter.IsRunning() != tt.wantRunning {
				t.Errorf("IsRunning() = %v, want %v", reporter.IsRunning(), tt.wantRunning)
			}

			reporter.Stop()
			if reporter.IsRunning() {
				t.Error("reporter still running after Stop")
			}
		})
	}
}

func TestReporter_NextRun(t *testing.T) {
	reporter := NewReporter(NewTracker(), "0 * * * *")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := reporter.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer reporter.Stop()

	next := reporter.NextRun()
	if next == nil || next.IsZero() {
		t.Error("expected a scheduled next run")
	}
}

func TestReporter_StopViaContext(t *testing.T) {
	reporter := NewReporter(NewTracker(), "* * * * *")

	ctx, cancel := context.WithCancel(context.Background())
	if err := reporter.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	cancel()

	// Stop is triggered asynchronously by the context watcher.
	deadline := time.Now().Add(2 * time.Second)
	for reporter.IsRunning() {
		if time.Now().After(deadline) {
			t.Fatal("reporter did not stop after context cancellation")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
