//go:build unix

package schedulers

import (
	"sync"
	"sync/atomic"
)

// PipeSignal is an fd-based Signal for event loops that block in a native
// poller: an eventfd on Linux, a non-blocking pipe pair elsewhere on unix
// (the mechanism Android's ALooper uses for main-thread delivery). The loop
// registers ReadFD with its poller, and on readiness calls Drain followed by
// DispatchMain until it returns false, since several wakes may have merged
// into one readiness event.
//
// Duplicate wakes coalesce: a CAS pending flag suppresses redundant writes,
// and a full pipe with the signal still unconsumed counts as delivered. Any
// other write failure is fatal to the callers relying on the signal and is
// surfaced from Wake.
type PipeSignal struct {
	readFD  int
	writeFD int

	// pending dedups wakes between Wake and Drain.
	pending atomic.Uint32

	mu     sync.Mutex // serializes Close against Wake/Drain fd use
	closed bool
}

// NewPipeSignal creates the platform wake fds. On platforms without an
// fd-based mechanism it returns ErrSignalUnavailable; see PipeSignalAvailable.
func NewPipeSignal() (*PipeSignal, error) {
	readFD, writeFD, err := createWakeFDs()
	if err != nil {
		return nil, err
	}
	return &PipeSignal{readFD: readFD, writeFD: writeFD}, nil
}

// ReadFD returns the fd the event loop registers with its poller.
func (s *PipeSignal) ReadFD() int {
	return s.readFD
}

// Wake writes to the pipe unless a wake is already pending. EAGAIN (pipe
// full, signal necessarily unconsumed) coalesces; other errors propagate.
func (s *PipeSignal) Wake() error {
	if !s.pending.CompareAndSwap(0, 1) {
		s.mu.Lock()
		closed := s.closed
		s.mu.Unlock()
		if closed {
			return ErrSignalClosed
		}
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.pending.Store(0)
		return ErrSignalClosed
	}
	if err := wakeWrite(s.writeFD); err != nil {
		s.pending.Store(0)
		return err
	}
	return nil
}

// Drain consumes all pending wake bytes and re-arms the signal. Called by
// the event loop when ReadFD polls readable, before its delivery attempts.
func (s *PipeSignal) Drain() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSignalClosed
	}
	// Re-arm before the read: a Wake racing with the drain must be able to
	// produce a fresh byte rather than be swallowed.
	s.pending.Store(0)
	return wakeDrain(s.readFD)
}

// Close closes the wake fds. Idempotent.
func (s *PipeSignal) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return closeWakeFDs(s.readFD, s.writeFD)
}
