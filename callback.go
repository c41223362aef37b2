package schedulers

import (
	"sync"
	"sync/atomic"
)

// Trampoline is the function-pointer half of a packaged C-style callback: a
// function taking the opaque data word. PackageCallback pairs InvokeHandle
// with a registry handle; PackageCallbackRef passes a caller-supplied pair
// through untouched.
type Trampoline func(data uintptr)

// callbackHandles maps live handles to their callables, in the manner of
// runtime/cgo.Handle. Handles are never reused within a process run.
var (
	callbackHandles  sync.Map // uintptr -> func()
	callbackHandleID atomic.Uint64
)

func newCallbackHandle(fn func()) uintptr {
	h := uintptr(callbackHandleID.Add(1))
	callbackHandles.Store(h, fn)
	return h
}

func deleteCallbackHandle(h uintptr) (func(), bool) {
	v, ok := callbackHandles.LoadAndDelete(h)
	if !ok {
		return nil, false
	}
	return v.(func()), true
}

// InvokeHandle is the trampoline for registry-packaged callbacks: it
// releases the handle, then invokes the callable. The handle is released
// before the call, so the resource is freed exactly once even if the
// callable panics. Invoking a handle twice, or one already released by
// CCallback.Close, panics: the callable is one-shot by contract.
func InvokeHandle(data uintptr) {
	fn, ok := deleteCallbackHandle(data)
	if !ok {
		panic("schedulers: InvokeHandle on dead callback handle")
	}
	fn()
}

// CCallback owns a packaged callable as a (trampoline, data) pair suitable
// for C-style callback APIs.
//
// For each CCallback exactly one of {Close, invocation} releases the
// underlying resource, never both, never neither. Release transfers the
// obligation to whoever eventually calls the trampoline; Invoke is
// release-then-call; Close releases without calling. For a PackageCallback
// pair, calling the trampoline more than once for the same data word panics;
// a PackageCallbackRef pair calls the caller's trampoline as given.
type CCallback struct {
	fn    Trampoline
	data  uintptr
	owned bool // data is a live registry handle this value must release
}

// PackageCallback wraps an owned callable into a trampoline/handle pair. The
// callable is held in the process-wide handle registry until the callback is
// invoked or closed.
func PackageCallback(fn func()) CCallback {
	if fn == nil {
		panic("schedulers: PackageCallback on nil callable")
	}
	return CCallback{fn: InvokeHandle, data: newCallbackHandle(fn), owned: true}
}

// PackageCallbackRef wraps a caller-owned (trampoline, data) pair without
// registering anything: no registry entry is created, Close releases
// nothing, and lifetime of whatever data refers to stays with the caller.
// This is the zero-cost path for callables that already exist in C-callable
// form.
func PackageCallbackRef(fn Trampoline, data uintptr) CCallback {
	if fn == nil {
		panic("schedulers: PackageCallbackRef on nil trampoline")
	}
	return CCallback{fn: fn, data: data}
}

// Get returns the pair without transferring the release obligation: the
// CCallback still owns the resource, and dropping it via Close remains the
// caller's responsibility if the pair is never invoked.
func (c *CCallback) Get() (Trampoline, uintptr) {
	return c.fn, c.data
}

// Release returns the pair and transfers the release obligation to the
// eventual trampoline invocation. After Release, Close is a no-op.
func (c *CCallback) Release() (Trampoline, uintptr) {
	c.owned = false
	return c.fn, c.data
}

// Invoke is release-then-call: it transfers ownership to the trampoline and
// calls it immediately.
func (c *CCallback) Invoke() {
	fn, data := c.Release()
	fn(data)
}

// Close releases the resource without invoking the callable. A no-op for
// ref-packaged callbacks and after Release or Invoke. Idempotent.
func (c *CCallback) Close() {
	if !c.owned {
		return
	}
	c.owned = false
	deleteCallbackHandle(c.data)
}
