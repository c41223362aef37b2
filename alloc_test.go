package schedulers

import (
	"testing"
)

// Steady-state push/pop through the chunked FIFO reuses pooled chunk
// storage: amortized allocations per task approach zero.
func TestTaskFIFO_SteadyStateAllocations(t *testing.T) {
	var q taskFIFO
	fn := func() {}
	var task Task
	allocs := testing.AllocsPerRun(10000, func() {
		q.push(NewTask(fn))
		if !q.pop(&task) {
			t.Fatal("pop failed")
		}
	})
	if allocs >= 1 {
		t.Errorf("expected amortized sub-allocation steady state, got %v allocs/op", allocs)
	}
}

// Queue push/pop under the mutex stays allocation-free in steady state too.
func TestQueue_SteadyStateAllocations(t *testing.T) {
	q := NewQueue()
	fn := func() {}
	var task Task
	allocs := testing.AllocsPerRun(10000, func() {
		q.Push(NewTask(fn))
		if !q.TryPop(&task) {
			t.Fatal("pop failed")
		}
	})
	if allocs >= 1 {
		t.Errorf("expected amortized sub-allocation steady state, got %v allocs/op", allocs)
	}
}

func BenchmarkPool_Submit(b *testing.B) {
	pool, err := NewPool(WithWorkers(4))
	if err != nil {
		b.Fatal(err)
	}
	defer pool.Close()
	fn := func() {}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := pool.Submit(fn); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkQueue_PushTryPop(b *testing.B) {
	q := NewQueue()
	fn := func() {}
	var task Task
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		q.Push(NewTask(fn))
		q.TryPop(&task)
	}
}
