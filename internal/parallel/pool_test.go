package parallel

import (
	"sync/atomic"
	"testing"
)

func TestExecuteAllRunsEverything(t *testing.T) {
	p := NewWorkerPool(4)
	defer p.Close()

	var count atomic.Int64
	work := make([]func(), 100)
	for i := range work {
		work[i] = func() { count.Add(1) }
	}
	p.ExecuteAll(work)

	if got := count.Load(); got != 100 {
		t.Errorf("executed %d items, want 100", got)
	}
}

func TestForCoversAllIndices(t *testing.T) {
	p := NewWorkerPool(0) // GOMAXPROCS
	defer p.Close()

	seen := make([]atomic.Bool, 64)
	p.For(64, func(i int) { seen[i].Store(true) })

	for i := range seen {
		if !seen[i].Load() {
			t.Errorf("index %d never executed", i)
		}
	}
}

func TestForZeroAndNegative(t *testing.T) {
	p := NewWorkerPool(2)
	defer p.Close()

	p.For(0, func(int) { t.Error("should not run") })
	p.For(-5, func(int) { t.Error("should not run") })
}

func TestCloseIsIdempotent(t *testing.T) {
	p := NewWorkerPool(2)
	p.Close()
	p.Close() // must not panic

	// Work after close is a no-op.
	ran := false
	p.ExecuteAll([]func(){func() { ran = true }})
	if ran {
		t.Error("work executed after Close")
	}
}

func TestWorkersDefault(t *testing.T) {
	p := NewWorkerPool(-1)
	defer p.Close()
	if p.Workers() < 1 {
		t.Errorf("Workers() = %d, want >= 1", p.Workers())
	}
}
