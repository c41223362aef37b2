package schedulers

import (
	"runtime"
	"sync/atomic"

	"github.com/joeycumines/logiface"
)

// defaultStealRounds is the number of passes a worker makes over all queues
// before blocking on its own queue.
const defaultStealRounds = 8

// GoroutineFactory starts the worker with the given index. It must arrange
// for run to be called exactly once, on a newly started goroutine, and
// return a join function that blocks until run has returned.
//
// queue is the worker's own queue; factories that bridge to a host runtime
// may retain it, e.g. to drain on behalf of a foreign thread. A factory
// returning an error aborts pool construction: workers already started are
// signalled done and joined before NewPool returns the error, wrapped in
// *FactoryError.
type GoroutineFactory func(index int, queue *Queue, run func()) (join func(), err error)

// defaultGoroutineFactory runs the worker body on a plain goroutine.
func defaultGoroutineFactory(_ int, _ *Queue, run func()) (func(), error) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		run()
	}()
	return func() { <-done }, nil
}

// Pool is a work-stealing worker pool: N workers, each with its own Queue.
//
// Submissions spread over the queues with a wrapping round-robin counter and
// non-blocking pushes; the blocking fallback guarantees liveness when every
// queue is momentarily contended. Workers steal from their neighbours before
// blocking on their own queue.
//
// The worker count is fixed at construction. Close signals every queue done,
// joins every worker, and drops (without running) any tasks still queued;
// their drop hooks run normally. Close must not be called from a pool-owned
// worker.
type Pool struct {
	// Prevent copying
	_ [0]func()

	queues []*Queue
	joins  []func()

	// next is a wrapping round-robin hint shared by submitters. Not a
	// correctness variable; relaxed ordering and wrap-around are fine.
	next atomic.Uint64

	state       poolState
	stealRounds int
	logger      *logiface.Logger[logiface.Event]
	metrics     *Metrics
	id          uint64
}

// poolID distinguishes pools in log output.
var poolID atomic.Uint64

// NewPool creates a pool and starts its workers.
//
//	pool, err := schedulers.NewPool(schedulers.WithWorkers(4))
//	if err != nil { ... }
//	defer pool.Close()
//	_ = pool.Submit(func() { ... })
func NewPool(opts ...PoolOption) (*Pool, error) {
	cfg, err := resolvePoolOptions(opts)
	if err != nil {
		return nil, err
	}

	n := cfg.workers
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if n < 1 {
		n = 1
	}
	rounds := cfg.stealRounds
	if rounds < 1 {
		rounds = 1
	}
	factory := cfg.factory
	if factory == nil {
		factory = defaultGoroutineFactory
	}

	p := &Pool{
		queues:      make([]*Queue, n),
		joins:       make([]func(), 0, n),
		stealRounds: rounds,
		logger:      cfg.logger,
		id:          poolID.Add(1),
	}
	if cfg.metrics {
		p.metrics = &Metrics{}
	}
	for i := range p.queues {
		p.queues[i] = NewQueue()
	}

	for i := range p.queues {
		join, err := factory(i, p.queues[i], p.workerFunc(i))
		if err != nil {
			// Signal every queue and join the workers already started before
			// the error escapes, so no goroutine outlives the failed pool.
			for _, q := range p.queues {
				q.Done()
			}
			for _, join := range p.joins {
				join()
			}
			p.state.store(StateTerminated)
			return nil, &FactoryError{Index: i, Cause: err}
		}
		p.joins = append(p.joins, join)
	}

	p.logger.Debug().
		Uint64(`pool`, p.id).
		Int(`workers`, n).
		Int(`stealRounds`, rounds).
		Log(`pool started`)

	return p, nil
}

// Workers returns the fixed worker count.
func (p *Pool) Workers() int {
	return len(p.queues)
}

// Metrics returns the pool's counters, or nil unless WithMetrics was set.
func (p *Pool) Metrics() *Metrics {
	return p.metrics
}

// State returns the pool's lifecycle state.
func (p *Pool) State() PoolState {
	return p.state.load()
}

// Submit wraps fn in a task and enqueues it. It is safe to call from any
// goroutine, including pool workers (the eventual blocking fallback targets
// a queue the submitter does not hold). Returns ErrNilTask for a nil fn and
// ErrSchedulerClosed after Close has begun.
func (p *Pool) Submit(fn func()) error {
	if fn == nil {
		return ErrNilTask
	}
	return p.SubmitTask(NewTask(fn))
}

// SubmitTask enqueues a prepared task, e.g. one carrying a drop hook.
func (p *Pool) SubmitTask(t Task) error {
	if !t.Valid() {
		return ErrNilTask
	}
	if p.state.load() != StateRunning {
		t.Drop()
		return ErrSchedulerClosed
	}

	n := len(p.queues)
	s := p.next.Add(1) - 1

	for k := 0; k < n; k++ {
		if p.queues[(s+uint64(k))%uint64(n)].TryPush(&t) {
			p.metrics.addSubmitted()
			return nil
		}
	}

	// Every queue was momentarily contended; the blocking push on the
	// round-robin home queue guarantees liveness.
	p.metrics.addBlockedPush()
	p.queues[s%uint64(n)].Push(t)
	p.metrics.addSubmitted()
	return nil
}

// workerFunc binds the worker body for queue i.
func (p *Pool) workerFunc(i int) func() {
	return func() { p.worker(i) }
}

// worker is the body run by each pool goroutine: try up to n*stealRounds
// non-blocking pops starting at its own queue, fall back to a blocking pop,
// exit on empty+done, otherwise invoke and repeat.
//
// Panics from task bodies are deliberately not recovered; workers are not
// panic firewalls.
func (p *Pool) worker(i int) {
	n := len(p.queues)
	for {
		var t Task
		var src int
		for j := 0; j < n*p.stealRounds; j++ {
			src = (i + j) % n
			if p.queues[src].TryPop(&t) {
				break
			}
		}
		if !t.Valid() {
			src = i
			if !p.queues[i].Pop(&t) {
				p.logger.Trace().
					Uint64(`pool`, p.id).
					Int(`worker`, i).
					Log(`worker exiting`)
				return
			}
		}
		t.Invoke()
		p.metrics.addExecuted(src != i)
	}
}

// Close signals every queue done, joins every worker, and drops any tasks
// left in the queues, running their drop hooks. The first caller performs
// tear-down and blocks until the workers are joined; later calls return
// immediately, possibly before tear-down completes.
//
// Close must not be called from a task running on this pool: the worker
// would join itself. Deadlock is the advertised consequence.
func (p *Pool) Close() {
	if !p.state.tryTransition(StateRunning, StateTerminating) {
		return
	}
	for _, q := range p.queues {
		q.Done()
	}
	for _, join := range p.joins {
		join()
	}
	var dropped int
	for _, q := range p.queues {
		dropped += q.drain(func(t Task) {
			t.Drop()
		})
	}
	p.metrics.addDropped(uint64(dropped))
	p.state.store(StateTerminated)

	p.logger.Debug().
		Uint64(`pool`, p.id).
		Int(`dropped`, dropped).
		Log(`pool closed`)
}
