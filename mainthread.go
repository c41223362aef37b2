package schedulers

import (
	"sync"
	"sync/atomic"

	"github.com/joeycumines/logiface"
)

// MainQueue is the process-wide FIFO backing main-thread schedulers. It is
// only ever popped on the main thread, in cooperation with an external event
// loop, and none of its operations block on emptiness: the main thread
// already has its own loop and must never stall.
//
// The singleton (see MainThreadQueue) outlives every main-thread scheduler
// that references it: an event loop may still hold pending signals pointing
// at it after a scheduler has been closed. Schedulers call Clear on close to
// release tasks the loop may never deliver; the queue itself is never
// destroyed.
type MainQueue struct {
	mu   sync.Mutex
	fifo taskFIFO
}

var (
	mainQueueOnce sync.Once
	mainQueue     *MainQueue
)

// MainThreadQueue returns the process-wide main-thread queue, creating it on
// first use.
func MainThreadQueue() *MainQueue {
	mainQueueOnce.Do(func() {
		mainQueue = &MainQueue{}
	})
	return mainQueue
}

// Push appends a task. Safe from any goroutine.
func (q *MainQueue) Push(t Task) {
	q.mu.Lock()
	q.fifo.push(t)
	q.mu.Unlock()
}

// TryPop pops the front task without blocking. Returns false if empty.
func (q *MainQueue) TryPop(out *Task) bool {
	q.mu.Lock()
	ok := q.fifo.pop(out)
	q.mu.Unlock()
	return ok
}

// Clear drops every queued task, running drop hooks outside the lock.
// Returns the number of tasks dropped.
func (q *MainQueue) Clear() int {
	q.mu.Lock()
	var cleared []Task
	var t Task
	for q.fifo.pop(&t) {
		cleared = append(cleared, t)
	}
	q.mu.Unlock()
	for i := range cleared {
		cleared[i].Drop()
	}
	return len(cleared)
}

// Len returns the number of queued tasks. Advisory under concurrency.
func (q *MainQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.fifo.len()
}

// DispatchMain is the trampoline a platform event loop drives on the main
// thread: each call performs exactly one TryPop and, on success, invokes the
// popped task. Returns whether a task ran.
//
// Every successful MainScheduler.Submit pushes its task before it wakes the
// signal, so each wake has at least one queued task behind it. Wakes
// coalesce, so one wake can stand for several tasks; calling DispatchMain
// until it returns false after each wake drains the queue in FIFO order.
func DispatchMain() bool {
	var t Task
	if !MainThreadQueue().TryPop(&t) {
		return false
	}
	t.Invoke()
	return true
}

// MainScheduler submits tasks to the main thread: each successful Submit
// pushes one task onto the process-wide MainQueue and fires the event-loop
// signal exactly once.
//
// The signal is borrowed, not owned: Close does not close it, because the
// event loop that handed it out typically outlives the scheduler. Close
// clears the main-thread queue, dropping tasks the loop may never deliver.
type MainScheduler struct {
	signal Signal
	logger *logiface.Logger[logiface.Event]
	closed atomic.Bool
}

// MainSchedulerOption configures a MainScheduler.
type MainSchedulerOption interface {
	applyMainScheduler(*MainScheduler)
}

type mainSchedulerOptionImpl struct {
	fn func(*MainScheduler)
}

func (o *mainSchedulerOptionImpl) applyMainScheduler(s *MainScheduler) {
	o.fn(s)
}

// WithMainLogger sets the structured logger for main-scheduler events.
func WithMainLogger(logger *logiface.Logger[logiface.Event]) MainSchedulerOption {
	return &mainSchedulerOptionImpl{func(s *MainScheduler) {
		s.logger = logger
	}}
}

// NewMainScheduler returns a scheduler that hands tasks to the main thread
// via the process-wide queue and the given event-loop signal.
func NewMainScheduler(signal Signal, opts ...MainSchedulerOption) (*MainScheduler, error) {
	if signal == nil {
		return nil, ErrNilSignal
	}
	s := &MainScheduler{signal: signal}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.applyMainScheduler(s)
	}
	// Force singleton construction before the first Submit, per the
	// "construct before any main-thread scheduler" rule.
	MainThreadQueue()
	return s, nil
}

// Submit pushes fn onto the main-thread queue and wakes the event loop. The
// push happens before the wake, so the delivery attempt the wake triggers
// always observes the task.
func (s *MainScheduler) Submit(fn func()) error {
	if fn == nil {
		return ErrNilTask
	}
	return s.SubmitTask(NewTask(fn))
}

// SubmitTask enqueues a prepared task, e.g. one carrying a drop hook.
func (s *MainScheduler) SubmitTask(t Task) error {
	if !t.Valid() {
		return ErrNilTask
	}
	if s.closed.Load() {
		t.Drop()
		return ErrSchedulerClosed
	}
	MainThreadQueue().Push(t)
	if err := s.signal.Wake(); err != nil {
		s.logger.Err().
			Err(err).
			Log(`main scheduler wake failed`)
		return err
	}
	return nil
}

// Close marks the scheduler closed and clears the main-thread queue,
// dropping any undelivered tasks. The signal is left open for its owner.
// Idempotent.
func (s *MainScheduler) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	dropped := MainThreadQueue().Clear()
	if dropped != 0 {
		s.logger.Debug().
			Int(`dropped`, dropped).
			Log(`main scheduler dropped undelivered tasks`)
	}
	return nil
}
