package schedulers

import (
	"bytes"
	"sync"
	"testing"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
	"github.com/stretchr/testify/require"
)

// syncWriter serializes concurrent log writes from pool workers.
type syncWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

func (w *syncWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}

func newTestLogger(w *syncWriter) *logiface.Logger[logiface.Event] {
	return stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(w), stumpy.WithTimeField(``)),
		stumpy.L.WithLevel(logiface.LevelTrace),
	).Logger()
}

func TestPool_StructuredLogging(t *testing.T) {
	var w syncWriter
	pool, err := NewPool(WithWorkers(2), WithLogger(newTestLogger(&w)))
	require.NoError(t, err)
	require.NoError(t, pool.Submit(func() {}))
	pool.Close()

	out := w.String()
	require.Contains(t, out, `pool started`)
	require.Contains(t, out, `worker exiting`)
	require.Contains(t, out, `pool closed`)
}

func TestMainScheduler_LogsWakeFailure(t *testing.T) {
	MainThreadQueue().Clear()
	t.Cleanup(func() { MainThreadQueue().Clear() })

	var w syncWriter
	signal := NewChanSignal()
	require.NoError(t, signal.Close())
	sched, err := NewMainScheduler(signal, WithMainLogger(newTestLogger(&w)))
	require.NoError(t, err)
	defer sched.Close()

	require.Error(t, sched.Submit(func() {}))
	require.Contains(t, w.String(), `main scheduler wake failed`)
}

// A nil logger disables logging without any special-casing at call sites.
func TestPool_NilLoggerSafe(t *testing.T) {
	pool, err := NewPool(WithWorkers(1), WithLogger(nil))
	require.NoError(t, err)
	require.NoError(t, pool.Submit(func() {}))
	pool.Close()
}
