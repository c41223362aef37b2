package schedulers

import "sync/atomic"

// PoolState represents the lifecycle state of a Pool.
//
// State Machine:
//
//	StateRunning (0) → StateTerminating (1)   [Close()]
//	StateTerminating (1) → StateTerminated (2) [workers joined, queues drained]
//
// Transitions are one-way; Close uses CAS on Running→Terminating so exactly
// one caller performs tear-down.
type PoolState uint32

const (
	// StateRunning indicates the pool is accepting and executing tasks.
	StateRunning PoolState = 0
	// StateTerminating indicates Close has been called but workers have not
	// all been joined yet.
	StateTerminating PoolState = 1
	// StateTerminated indicates tear-down is complete.
	StateTerminated PoolState = 2
)

// String returns a human-readable representation of the state.
func (s PoolState) String() string {
	switch s {
	case StateRunning:
		return "Running"
	case StateTerminating:
		return "Terminating"
	case StateTerminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

// poolState is the atomic holder embedded in Pool.
type poolState struct {
	v atomic.Uint32
}

func (s *poolState) load() PoolState {
	return PoolState(s.v.Load())
}

func (s *poolState) tryTransition(from, to PoolState) bool {
	return s.v.CompareAndSwap(uint32(from), uint32(to))
}

func (s *poolState) store(to PoolState) {
	s.v.Store(uint32(to))
}
