package schedulers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func callbackRegistryLen() int {
	n := 0
	callbackHandles.Range(func(any, any) bool {
		n++
		return true
	})
	return n
}

func TestPackageCallback_InvokeRunsAndReleases(t *testing.T) {
	before := callbackRegistryLen()
	var ran int
	cb := PackageCallback(func() { ran++ })
	require.Equal(t, before+1, callbackRegistryLen())

	cb.Invoke()
	require.Equal(t, 1, ran)
	require.Equal(t, before, callbackRegistryLen(), "invocation must release the handle")

	// Already released; Close must not double-release anything.
	cb.Close()
	require.Equal(t, before, callbackRegistryLen())
}

func TestPackageCallback_CloseReleasesWithoutInvoking(t *testing.T) {
	before := callbackRegistryLen()
	var ran int
	cb := PackageCallback(func() { ran++ })
	cb.Close()
	cb.Close()
	require.Equal(t, 0, ran)
	require.Equal(t, before, callbackRegistryLen())
}

// Release followed by calling the trampoline on the data word has the same
// net resource effect as construct-then-Close, except the callable runs.
func TestPackageCallback_ReleaseTransfersObligation(t *testing.T) {
	before := callbackRegistryLen()
	var ran int
	cb := PackageCallback(func() { ran++ })

	fn, data := cb.Release()
	cb.Close() // obligation transferred; must be a no-op
	require.Equal(t, before+1, callbackRegistryLen(), "handle stays live until the trampoline runs")

	fn(data)
	require.Equal(t, 1, ran)
	require.Equal(t, before, callbackRegistryLen())
}

// Get does not transfer the obligation: the pair is observable but the
// CCallback still releases on Close.
func TestPackageCallback_GetDoesNotTransfer(t *testing.T) {
	before := callbackRegistryLen()
	cb := PackageCallback(func() {})
	fn, data := cb.Get()
	require.NotNil(t, fn)
	require.NotZero(t, data)
	cb.Close()
	require.Equal(t, before, callbackRegistryLen())
}

// A panic from the callable propagates, and the handle is still released
// exactly once.
func TestPackageCallback_PanicStillReleases(t *testing.T) {
	before := callbackRegistryLen()
	cb := PackageCallback(func() { panic("boom") })

	func() {
		defer func() {
			require.NotNil(t, recover(), "callable panic must propagate")
		}()
		cb.Invoke()
	}()

	require.Equal(t, before, callbackRegistryLen(), "panicking invocation must still release")
	cb.Close() // no double release
	require.Equal(t, before, callbackRegistryLen())
}

// Driving the trampoline twice on the same data word is a contract
// violation and panics.
func TestInvokeHandle_DoubleInvokePanics(t *testing.T) {
	cb := PackageCallback(func() {})
	fn, data := cb.Release()
	fn(data)
	defer func() {
		require.NotNil(t, recover(), "second invocation must panic")
	}()
	fn(data)
}

// Ref packaging does zero registry bookkeeping regardless of the referent.
func TestPackageCallbackRef_NoBookkeeping(t *testing.T) {
	before := callbackRegistryLen()

	var got uintptr
	cb := PackageCallbackRef(func(data uintptr) { got = data }, 42)
	require.Equal(t, before, callbackRegistryLen())

	fn, data := cb.Get()
	require.Equal(t, uintptr(42), data)

	cb.Close() // releases nothing
	fn(data)
	require.Equal(t, uintptr(42), got)
	require.Equal(t, before, callbackRegistryLen())
}

func TestPackageCallback_NilPanics(t *testing.T) {
	defer func() {
		require.NotNil(t, recover())
	}()
	PackageCallback(nil)
}

func TestPackageCallbackRef_NilPanics(t *testing.T) {
	defer func() {
		require.NotNil(t, recover())
	}()
	PackageCallbackRef(nil, 0)
}

// Handles are unique across packagers: releasing one never disturbs another.
func TestPackageCallback_IndependentHandles(t *testing.T) {
	var a, b int
	ca := PackageCallback(func() { a++ })
	cb := PackageCallback(func() { b++ })
	ca.Close()
	cb.Invoke()
	require.Equal(t, 0, a)
	require.Equal(t, 1, b)
}
