package schedulers

// Scheduler is the uniform submission surface: a value that accepts a
// zero-argument callable and arranges for its later execution. Submission is
// non-blocking in the common case; it may block briefly on a contended
// queue. It never blocks the main thread.
type Scheduler interface {
	// Submit schedules fn. Returns ErrNilTask for a nil fn and
	// ErrSchedulerClosed once the backend has been closed.
	Submit(fn func()) error
}

// PoolAvailable reports that the pool-backed scheduler can be constructed on
// this build target. The pool is pure Go and always available.
const PoolAvailable = true

// MainThreadAvailable reports that the main-thread scheduler can be
// constructed on this build target. The queue half is always available; the
// signal half depends on the event loop (see ChanSignalAvailable and
// PipeSignalAvailable).
const MainThreadAvailable = true

// PoolScheduler adapts a Pool to the Scheduler interface. The pool is
// borrowed: closing the scheduler's pool is its owner's business.
type PoolScheduler struct {
	pool *Pool
}

// NewPoolScheduler returns a scheduler submitting to pool.
func NewPoolScheduler(pool *Pool) *PoolScheduler {
	return &PoolScheduler{pool: pool}
}

// Submit schedules fn on the pool.
func (s *PoolScheduler) Submit(fn func()) error {
	return s.pool.Submit(fn)
}

// Pool returns the underlying pool.
func (s *PoolScheduler) Pool() *Pool {
	return s.pool
}

// DefaultScheduler owns a hardware-concurrency-sized pool, standing in for
// the platform default dispatch backend. Close tears the pool down.
type DefaultScheduler struct {
	PoolScheduler
}

// NewDefaultScheduler constructs a pool sized to the hardware concurrency
// hint and wraps it as a Scheduler.
func NewDefaultScheduler(opts ...PoolOption) (*DefaultScheduler, error) {
	pool, err := NewPool(opts...)
	if err != nil {
		return nil, err
	}
	return &DefaultScheduler{PoolScheduler{pool: pool}}, nil
}

// Close shuts down the owned pool. See Pool.Close for the contract.
func (s *DefaultScheduler) Close() {
	s.pool.Close()
}

// Compile-time interface checks.
var (
	_ Scheduler = (*PoolScheduler)(nil)
	_ Scheduler = (*DefaultScheduler)(nil)
	_ Scheduler = (*MainScheduler)(nil)
)
