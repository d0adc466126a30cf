package pool

import (
	"time"

	"golang.org/x/time/rate"
)

// Option is a functional option for configuring the pool.
type Option func(*poolConfig)

type poolConfig struct {
	workerCount   int
	queueCapacity int
	idleWait      time.Duration
	rateLimiter   *rate.Limiter
	panicHandler  func(any)
}

// WithWorkerCount sets the number of workers.
// If not specified, defaults to runtime.GOMAXPROCS(0).
func WithWorkerCount(count int) Option {
	return func(cfg *poolConfig) {
		if count > 0 {
			cfg.workerCount = count
		}
	}
}

// WithQueueCapacity sets the initial capacity of each worker's queue.
// Queues grow without bound, so this is only an allocation hint.
// If not specified, defaults to defaultQueueCapacity.
func WithQueueCapacity(capacity int) Option {
	return func(cfg *poolConfig) {
		if capacity > 0 {
			cfg.queueCapacity = capacity
		}
	}
}

// WithIdleWait bounds how long an idle worker sleeps before rescanning all
// queues. Workers are woken early when work lands on their own queue or the
// pool shuts down, so this only caps how stale a missed wakeup can get.
// If not specified, defaults to 50ms.
func WithIdleWait(d time.Duration) Option {
	return func(cfg *poolConfig) {
		if d > 0 {
			cfg.idleWait = d
		}
	}
}

// WithRateLimit sets a rate limiter for controlling task throughput.
// The limiter is applied by workers just before executing a task, so
// submission stays non-blocking. This is useful for preventing overwhelming
// external services or APIs. If not specified, no rate limiting is applied.
//
// Example:
//
//	WithRateLimit(10, 5) // Allow 10 tasks/sec with burst of 5
func WithRateLimit(tasksPerSecond float64, burst int) Option {
	return func(cfg *poolConfig) {
		if tasksPerSecond > 0 && burst > 0 {
			cfg.rateLimiter = rate.NewLimiter(rate.Limit(tasksPerSecond), burst)
		}
	}
}

// WithPanicHandler registers a hook that observes values recovered from
// panicking tasks. Without it, recovered panics are dropped: error capture
// belongs to the submitter, not the pool.
func WithPanicHandler(fn func(recovered any)) Option {
	return func(cfg *poolConfig) {
		cfg.panicHandler = fn
	}
}
