// Package pool provides a small, fixed-size worker pool with per-worker
// task queues and work-stealing load balancing.
//
// The primary type is Pool: a set of worker goroutines, each owning a
// private double-ended queue. Submissions are spread over the queues
// round-robin; all further balancing happens reactively, by idle workers
// stealing from the opposite end of a peer's queue. The owner pops its own
// queue in LIFO order (the most recently pushed subtasks are the most
// cache-local ones), thieves pop the oldest entry, so the two access
// patterns touch opposite ends and rarely contend.
//
// # Basic Usage
//
//	p := pool.New(pool.WithWorkerCount(8))
//	defer p.Shutdown(0)
//
//	err := p.Submit(func() {
//	    // work
//	})
//
// Submit never blocks the caller and is safe to call from inside a running
// task, which is what makes the pool usable for recursive fork-join
// workloads: a partition step can push its own subtasks back into the pool
// it is running on.
//
// # Error Handling
//
// The pool is an execution mechanism only. A task that panics does not
// crash its worker (the panic is recovered at the execution boundary and
// handed to the optional WithPanicHandler hook), but the pool attaches no
// error semantics of its own: a submitter that needs the failure value must
// wrap its tasks, the way package quicksort does.
//
// # Configuration Options
//
//   - WithWorkerCount(n): number of workers (default: GOMAXPROCS)
//   - WithQueueCapacity(n): initial per-queue capacity hint
//   - WithIdleWait(d): bound on the idle wait between work scans
//   - WithRateLimit(tasksPerSecond, burst): execution-side throttling
//   - WithPanicHandler(fn): observer for recovered task panics
//
// The package is designed to be small and idiomatic, with no dependencies
// beyond its options' rate limiter and the errgroup that joins the workers.
package pool
