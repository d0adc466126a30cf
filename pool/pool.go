package pool

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Task is an opaque, zero-argument unit of work. Tasks carry no identity,
// priority or dependency metadata; any ordering is the submitter's problem.
type Task func()

// Pool is a fixed-size worker pool with per-worker task queues and
// work-stealing load balancing. It is live and accepting submissions as
// soon as New returns, and can be shared by any number of submitters;
// multiple independent pools can coexist in one process.
type Pool struct {
	queues   []*workerQueue
	idleWait time.Duration

	limiter      limiterFunc
	panicHandler func(any)

	next     atomic.Uint64 // round-robin submission counter
	shutdown atomic.Bool
	quit     chan struct{}
	done     chan struct{} // closed once every worker has exited
	cancel   context.CancelFunc
}

// New creates a pool and starts its workers immediately.
//
// The worker count defaults to runtime.GOMAXPROCS(0), falling back to 4
// when detection reports nothing sensible; it is always at least 1. Each
// worker owns one queue with its own lock and wake signal.
func New(opts ...Option) *Pool {
	cfg := createConfig(opts...)

	p := &Pool{
		queues:       make([]*workerQueue, cfg.workerCount),
		idleWait:     cfg.idleWait,
		panicHandler: cfg.panicHandler,
		quit:         make(chan struct{}),
		done:         make(chan struct{}),
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	if cfg.rateLimiter != nil {
		p.limiter = func() error { return cfg.rateLimiter.Wait(ctx) }
	}

	for i := range p.queues {
		p.queues[i] = newWorkerQueue(cfg.queueCapacity)
	}

	var g errgroup.Group
	for i := range p.queues {
		i := i
		g.Go(func() error {
			return p.worker(i)
		})
	}

	go func() {
		_ = g.Wait()
		close(p.done)
	}()

	return p
}

// Submit enqueues a task for execution. It is safe to call from any
// goroutine, including a worker running another task, and never blocks
// beyond one bounded queue-lock critical section.
//
// The target queue is chosen round-robin over an atomic counter; that is
// the only balancing decision made at submission time. Queue depth is
// unbounded — there is no backpressure.
//
// Returns ErrPoolClosed after Shutdown has been called.
func (p *Pool) Submit(t Task) error {
	if t == nil {
		return ErrNilTask
	}
	if p.shutdown.Load() {
		return ErrPoolClosed
	}

	idx := int(p.next.Add(1) % uint64(len(p.queues)))
	q := p.queues[idx]
	q.push(t)
	q.notify()
	return nil
}

// WorkerCount reports the number of workers in the pool.
func (p *Pool) WorkerCount() int {
	return len(p.queues)
}

// Shutdown stops the pool and joins every worker. Workers finish draining
// all queues before exiting, so tasks already submitted in the normal case
// still run; callers must not shut down a pool while a completion handle
// they still care about is outstanding.
//
// timeout bounds the join (0 = wait forever). On timeout the remaining
// workers are cut loose with ErrShutdownTimeout and unexecuted tasks are
// abandoned. Shutdown does not return while workers are still running
// unless that timeout fires.
//
// Returns ErrPoolClosed if the pool was already shut down.
func (p *Pool) Shutdown(timeout time.Duration) error {
	if !p.shutdown.CompareAndSwap(false, true) {
		return ErrPoolClosed
	}

	close(p.quit)
	for _, q := range p.queues {
		q.notify()
	}

	err := waitUntil(p.done, timeout)
	p.cancel()
	return err
}

// worker is the loop run by each worker goroutine:
// own queue (LIFO) -> steal scan -> bounded idle wait. The quit flag is
// checked at iteration boundaries only, never mid-scan.
func (p *Pool) worker(id int) error {
	own := p.queues[id]

	for {
		select {
		case <-p.quit:
			return p.drain(id)
		default:
		}

		t := own.pop()
		if t == nil {
			t = p.steal(id)
		}

		if t != nil {
			if err := p.execute(t); err != nil {
				return err
			}
			continue
		}

		// No work anywhere. Park until this queue receives a task, the
		// pool shuts down, or the wait times out; every wake reason leads
		// back to a full rescan, so imprecise signaling self-corrects.
		timer := time.NewTimer(p.idleWait)
		select {
		case <-own.wake:
		case <-p.quit:
		case <-timer.C:
		}
		timer.Stop()
	}
}

// steal scans peer queues in a fixed rotation starting just after the
// thief's own index and takes one task from the first non-empty victim.
func (p *Pool) steal(thiefID int) Task {
	n := len(p.queues)
	for i := 1; i < n; i++ {
		victim := (thiefID + i) % n
		if t := p.queues[victim].steal(); t != nil {
			return t
		}
	}
	return nil
}

// drain runs after shutdown is observed: keep executing from the own queue
// and then from peers until a full pass over the pool finds nothing.
func (p *Pool) drain(id int) error {
	own := p.queues[id]
	for {
		t := own.pop()
		if t == nil {
			t = p.steal(id)
		}
		if t == nil {
			return nil
		}
		if err := p.execute(t); err != nil {
			return err
		}
	}
}

// execute runs one task to completion. A panic inside the task is
// recovered here so it cannot take the worker down; the value goes to the
// panic handler if one is configured and is otherwise dropped, since the
// pool attaches no error semantics to its tasks.
func (p *Pool) execute(t Task) error {
	if p.limiter != nil {
		if err := p.limiter(); err != nil {
			return err
		}
	}

	defer func() {
		if r := recover(); r != nil && p.panicHandler != nil {
			p.panicHandler(r)
		}
	}()

	t()
	return nil
}
