package schedulers

// Task is a one-shot container for a zero-argument callable.
//
// A Task is either empty or holds exactly one callable. It is consumed by
// being invoked (Invoke) or by being dropped without running (Drop); after
// either, the task is empty again. Invoking an empty task is a programmer
// error and panics.
//
// Tasks move through queues by value; take transfers ownership out of a
// source, leaving it empty, so a callable is never observable in two places
// at once.
//
// The zero value is an empty task.
type Task struct {
	fn   func()
	drop func()
}

// NewTask returns a task holding fn. A nil fn yields an empty task.
func NewTask(fn func()) Task {
	return Task{fn: fn}
}

// NewTaskWithDrop returns a task holding fn, with a hook that runs if the
// task is dropped without being invoked (e.g. left in a queue at pool
// tear-down, or cleared from the main-thread queue). The hook runs at most
// once, and never when the task is invoked.
func NewTaskWithDrop(fn, drop func()) Task {
	if fn == nil {
		return Task{}
	}
	return Task{fn: fn, drop: drop}
}

// Valid reports whether the task holds a callable.
func (t *Task) Valid() bool {
	return t.fn != nil
}

// Invoke consumes the task and runs its callable. The task is emptied before
// the callable runs, so the consumed state holds even if the callable panics.
//
// Invoke panics if the task is empty.
func (t *Task) Invoke() {
	fn := t.fn
	if fn == nil {
		panic("schedulers: Invoke on empty task")
	}
	t.fn = nil
	t.drop = nil
	fn()
}

// Drop consumes the task without running its callable, running the drop hook
// if one was set. Dropping an empty task is a no-op.
func (t *Task) Drop() {
	drop := t.drop
	t.fn = nil
	t.drop = nil
	if drop != nil {
		drop()
	}
}

// take moves the callable out of t, leaving t empty.
func (t *Task) take() Task {
	out := *t
	t.fn = nil
	t.drop = nil
	return out
}
