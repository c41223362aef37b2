package schedulers

import "sync/atomic"

// Metrics collects pool runtime counters. All counters are atomic; reading
// them while the pool runs gives a consistent-enough view for monitoring,
// and an exact one after Close returns.
//
// Metrics collection is opt-in via WithMetrics; Pool.Metrics returns nil
// when disabled.
type Metrics struct {
	submitted     atomic.Uint64
	executed      atomic.Uint64
	stolen        atomic.Uint64
	blockedPushes atomic.Uint64
	dropped       atomic.Uint64
}

// MetricsSnapshot is a point-in-time copy of pool counters.
type MetricsSnapshot struct {
	// Submitted counts tasks accepted by Submit.
	Submitted uint64
	// Executed counts tasks invoked by workers.
	Executed uint64
	// Stolen counts executed tasks that a worker popped from a queue other
	// than its own.
	Stolen uint64
	// BlockedPushes counts submissions that fell through every TryPush and
	// took the blocking fallback.
	BlockedPushes uint64
	// Dropped counts tasks destroyed without running at pool tear-down.
	Dropped uint64
}

// Snapshot returns a copy of the current counters. Nil-safe: a nil receiver
// yields a zero snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	return MetricsSnapshot{
		Submitted:     m.submitted.Load(),
		Executed:      m.executed.Load(),
		Stolen:        m.stolen.Load(),
		BlockedPushes: m.blockedPushes.Load(),
		Dropped:       m.dropped.Load(),
	}
}

// Consumed returns Executed + Dropped, the number of tasks the pool has
// fully accounted for.
func (s MetricsSnapshot) Consumed() uint64 {
	return s.Executed + s.Dropped
}

func (m *Metrics) addSubmitted() {
	if m != nil {
		m.submitted.Add(1)
	}
}

func (m *Metrics) addExecuted(stolen bool) {
	if m != nil {
		m.executed.Add(1)
		if stolen {
			m.stolen.Add(1)
		}
	}
}

func (m *Metrics) addBlockedPush() {
	if m != nil {
		m.blockedPushes.Add(1)
	}
}

func (m *Metrics) addDropped(n uint64) {
	if m != nil && n != 0 {
		m.dropped.Add(n)
	}
}
