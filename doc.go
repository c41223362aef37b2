// Package schedulers provides a small, composable family of task schedulers:
// values that accept zero-argument callables and arrange for their later
// execution, either on a pool of background workers or on an external
// "main/UI" event loop.
//
// # Architecture
//
// The centerpiece is [Pool], a work-stealing, multi-queue worker pool. Each
// worker owns a [Queue]; submissions are spread with a wrapping round-robin
// counter and non-blocking pushes, and idle workers steal from their
// neighbours before blocking on their own queue. Work items are carried as
// [Task] values: one-shot containers that are consumed by invocation, or
// dropped (with an optional hook) if the pool is closed before they run.
//
// Main-thread scheduling is split into three cooperating pieces:
//
//   - [MainThreadQueue], a process-wide FIFO that is only ever popped on the
//     main thread and never blocks it;
//   - a [Signal], the contract a platform event loop exposes for "run the
//     dispatch trampoline soon" ([ChanSignal] for Go-native loops,
//     [PipeSignal] for fd-based loops);
//   - [DispatchMain], the trampoline the event loop drives, which performs
//     exactly one non-blocking pop per delivery attempt.
//
// [MainScheduler] ties the three together: every successful submit pushes one
// task and fires the signal once.
//
// For legacy C-style callback APIs, [PackageCallback] converts an owned
// callable into a (trampoline, handle) pair with exactly-once release
// semantics, including when the callable panics.
//
// # Ordering
//
// Within a single queue, tasks run in FIFO order. Across the pool no global
// order is promised: round-robin placement plus stealing can run a
// later-submitted task before an earlier one when they land on different
// queues. Callers needing ordering must serialize externally.
//
// # Thread Safety
//
// All Submit methods are safe to call from any goroutine, including from
// tasks running on the pool itself. [Pool.Close] must not be called from a
// pool-owned worker; the advertised consequence is deadlock.
//
// # Error Model
//
// Workers are not panic firewalls: a panic escaping a task is not recovered,
// and takes the process down through the runtime's usual path. Pool state
// remains internally consistent up to that point. Once a task has been
// accepted the only promise is that it will either run, or be dropped (its
// drop hook run) when the pool or scheduler is closed.
package schedulers
