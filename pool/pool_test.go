package pool

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// TestNew tests pool construction defaults and explicit worker counts.
func TestNew(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want func(n int) bool
	}{
		{
			name: "default worker count",
			opts: nil,
			want: func(n int) bool { return n >= 1 },
		},
		{
			name: "explicit worker count",
			opts: []Option{WithWorkerCount(3)},
			want: func(n int) bool { return n == 3 },
		},
		{
			name: "non-positive count ignored",
			opts: []Option{WithWorkerCount(0)},
			want: func(n int) bool { return n >= 1 },
		},
		{
			name: "single worker",
			opts: []Option{WithWorkerCount(1)},
			want: func(n int) bool { return n == 1 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.opts...)
			defer func() { _ = p.Shutdown(0) }()

			if !tt.want(p.WorkerCount()) {
				t.Errorf("unexpected worker count %d", p.WorkerCount())
			}
		})
	}
}

// TestPool_Submit tests that every submitted task executes exactly once.
func TestPool_Submit(t *testing.T) {
	p := New(WithWorkerCount(4))
	defer func() { _ = p.Shutdown(0) }()

	const total = 1000
	var executed atomic.Int64
	var wg sync.WaitGroup

	for n := 0; n < total; n++ {
		wg.Add(1)
		err := p.Submit(func() {
			executed.Add(1)
			wg.Done()
		})
		if err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
	}

	wg.Wait()
	if n := executed.Load(); n != total {
		t.Errorf("executed %d tasks, want %d", n, total)
	}
}

// TestPool_SubmitNil tests that nil tasks are rejected.
func TestPool_SubmitNil(t *testing.T) {
	p := New(WithWorkerCount(1))
	defer func() { _ = p.Shutdown(0) }()

	if err := p.Submit(nil); !errors.Is(err, ErrNilTask) {
		t.Errorf("expected ErrNilTask, got %v", err)
	}
}

// TestPool_ReentrantSubmit tests submitting from inside a running task,
// the pattern recursive fork-join workloads depend on.
func TestPool_ReentrantSubmit(t *testing.T) {
	p := New(WithWorkerCount(2))
	defer func() { _ = p.Shutdown(0) }()

	const depth = 100
	var wg sync.WaitGroup
	wg.Add(depth)

	var submit func(remaining int)
	submit = func(remaining int) {
		wg.Done()
		if remaining > 1 {
			if err := p.Submit(func() { submit(remaining - 1) }); err != nil {
				t.Errorf("reentrant Submit failed: %v", err)
			}
		}
	}

	if err := p.Submit(func() { submit(depth) }); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("reentrant submission chain did not complete; likely deadlocked on a queue lock")
	}
}

// TestPool_ShutdownDrains tests that tasks already enqueued at shutdown
// time still run in the normal (non-timeout) case.
func TestPool_ShutdownDrains(t *testing.T) {
	p := New(WithWorkerCount(4))

	const total = 500
	var executed atomic.Int64
	for n := 0; n < total; n++ {
		if err := p.Submit(func() { executed.Add(1) }); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
	}

	if err := p.Shutdown(0); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}

	if n := executed.Load(); n != total {
		t.Errorf("executed %d tasks before shutdown returned, want %d", n, total)
	}
}

// TestPool_ShutdownIdempotent tests repeated shutdown and post-shutdown
// submission: all workers join without deadlock, no further tasks run.
func TestPool_ShutdownIdempotent(t *testing.T) {
	p := New(WithWorkerCount(2))

	if err := p.Shutdown(time.Second); err != nil {
		t.Fatalf("first Shutdown failed: %v", err)
	}
	if err := p.Shutdown(time.Second); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("second Shutdown: expected ErrPoolClosed, got %v", err)
	}
	if err := p.Submit(func() {}); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Submit after Shutdown: expected ErrPoolClosed, got %v", err)
	}
}

// TestPool_ShutdownTimeout tests that Shutdown gives up on workers stuck
// in a long task once the timeout fires.
func TestPool_ShutdownTimeout(t *testing.T) {
	p := New(WithWorkerCount(1))

	release := make(chan struct{})
	if err := p.Submit(func() { <-release }); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	defer close(release)

	// Give the worker time to pick the task up before shutting down.
	time.Sleep(20 * time.Millisecond)

	if err := p.Shutdown(50 * time.Millisecond); !errors.Is(err, ErrShutdownTimeout) {
		t.Errorf("expected ErrShutdownTimeout, got %v", err)
	}
}

// TestPool_PanicRecovery tests that a panicking task neither kills its
// worker nor poisons the pool, and that the handler sees the value.
func TestPool_PanicRecovery(t *testing.T) {
	var recovered atomic.Value
	p := New(
		WithWorkerCount(2),
		WithPanicHandler(func(r any) { recovered.Store(r) }),
	)
	defer func() { _ = p.Shutdown(0) }()

	if err := p.Submit(func() { panic("boom") }); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	if err := p.Submit(func() { wg.Done() }); err != nil {
		t.Fatalf("Submit after panic failed: %v", err)
	}
	wg.Wait()

	deadline := time.Now().Add(time.Second)
	for recovered.Load() == nil && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if r := recovered.Load(); r != "boom" {
		t.Errorf("panic handler got %v, want \"boom\"", r)
	}
}

// TestPool_WorkStealing tests liveness under a skewed submission pattern:
// every task is funneled onto one worker's queue, yet the others must pick
// work up by stealing well within the idle-wait bound.
func TestPool_WorkStealing(t *testing.T) {
	const workers = 4
	p := New(WithWorkerCount(workers), WithIdleWait(20*time.Millisecond))
	defer func() { _ = p.Shutdown(0) }()

	const tasks = 8
	const taskDuration = 100 * time.Millisecond

	var cur, peak atomic.Int64
	var wg sync.WaitGroup
	wg.Add(tasks)

	start := time.Now()
	victim := p.queues[0]
	for n := 0; n < tasks; n++ {
		victim.push(func() {
			n := cur.Add(1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			time.Sleep(taskDuration)
			cur.Add(-1)
			wg.Done()
		})
	}
	victim.notify()

	wg.Wait()
	elapsed := time.Since(start)

	// Sequential execution on the victim's owner alone would take
	// tasks*taskDuration; stealing must do materially better.
	if limit := time.Duration(tasks) * taskDuration * 3 / 4; elapsed >= limit {
		t.Errorf("skewed workload took %v, want < %v with stealing", elapsed, limit)
	}
	if peak.Load() < 2 {
		t.Errorf("peak concurrency %d, want >= 2 (no worker stole)", peak.Load())
	}
}

// TestPool_RateLimit tests that the execution-side throttle spaces tasks
// out without blocking submission.
func TestPool_RateLimit(t *testing.T) {
	p := New(WithWorkerCount(2), WithRateLimit(100, 1))
	defer func() { _ = p.Shutdown(0) }()

	const tasks = 5
	var wg sync.WaitGroup
	wg.Add(tasks)

	submitStart := time.Now()
	for n := 0; n < tasks; n++ {
		if err := p.Submit(func() { wg.Done() }); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
	}
	submitElapsed := time.Since(submitStart)

	wg.Wait()
	elapsed := time.Since(submitStart)

	if submitElapsed > 50*time.Millisecond {
		t.Errorf("submission took %v; must not block on the limiter", submitElapsed)
	}
	// 5 tasks at 100/sec with burst 1 need at least ~40ms of spacing.
	if elapsed < 30*time.Millisecond {
		t.Errorf("rate-limited run finished in %v, expected spacing", elapsed)
	}
}
