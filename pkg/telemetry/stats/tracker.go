package stats

import "sync/atomic"

// Tracker accumulates relay counters for periodic reporting. All methods
// are safe for concurrent use from relay sessions.
type Tracker struct {
	activeSessions atomic.Int64
	totalSessions  atomic.Int64
	bytesRelayed   atomic.Int64
	bytesDiscarded atomic.Int64
}

// NewTracker creates a tracker with all counters at zero.
func NewTracker() *Tracker {
	return &Tracker{}
}

// SessionStarted records a new relay session.
func (t *Tracker) SessionStarted() {
	if t == nil {
		return
	}
	t.activeSessions.Add(1)
	t.totalSessions.Add(1)
}

// SessionEnded records a relay session finishing.
func (t *Tracker) SessionEnded() {
	if t == nil {
		return
	}
	t.activeSessions.Add(-1)
}

// AddBytesRelayed records bytes delivered to clients.
func (t *Tracker) AddBytesRelayed(n int64) {
	if t == nil || n <= 0 {
		return
	}
	t.bytesRelayed.Add(n)
}

// AddBytesDiscarded records bytes dropped during packet alignment.
func (t *Tracker) AddBytesDiscarded(n int64) {
	if t == nil || n <= 0 {
		return
	}
	t.bytesDiscarded.Add(n)
}

// Snapshot returns the current counter values.
func (t *Tracker) Snapshot() Snapshot {
	if t == nil {
		return Snapshot{}
	}
	return Snapshot{
		ActiveSessions: t.activeSessions.Load(),
		TotalSessions:  t.totalSessions.Load(),
		BytesRelayed:   t.bytesRelayed.Load(),
		BytesDiscarded: t.bytesDiscarded.Load(),
	}
}

// Snapshot is a point-in-time view of the relay counters.
type Snapshot struct {
	ActiveSessions int64
	TotalSessions  int64
	BytesRelayed   int64
	BytesDiscarded int64
}
