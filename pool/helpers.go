package pool

import (
	"errors"
	"runtime"
	"time"
)

var (
	// ErrPoolClosed is returned by Submit and Shutdown once the pool has
	// been shut down.
	ErrPoolClosed = errors.New("pool is shut down")

	// ErrShutdownTimeout is returned when workers did not finish draining
	// within the timeout passed to Shutdown.
	ErrShutdownTimeout = errors.New("error in shutting down: timeout reached")

	// ErrNilTask is returned by Submit for a nil task.
	ErrNilTask = errors.New("task must not be nil")
)

const (
	// defaultIdleWait bounds how long a worker sleeps when the whole pool
	// looks empty. Tens of milliseconds: long enough not to burn CPU,
	// short enough that a lost wakeup goes unnoticed.
	defaultIdleWait = 50 * time.Millisecond

	// defaultQueueCapacity is the initial allocation for each worker queue.
	defaultQueueCapacity = 256

	// fallbackWorkerCount is used when hardware parallelism cannot be
	// detected.
	fallbackWorkerCount = 4
)

// limiterFunc is the execution-side throttle a worker calls before running
// a task. Kept as a closure so the pool does not carry the limiter's
// context plumbing around.
type limiterFunc func() error

func createConfig(opts ...Option) *poolConfig {
	cfg := &poolConfig{
		workerCount:   runtime.GOMAXPROCS(0),
		queueCapacity: defaultQueueCapacity,
		idleWait:      defaultIdleWait,
	}

	if cfg.workerCount <= 0 {
		cfg.workerCount = fallbackWorkerCount
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.workerCount < 1 {
		cfg.workerCount = 1
	}

	return cfg
}

// waitUntil blocks until either the done channel is closed or the timeout
// is reached. It is used during shutdown to join the workers.
func waitUntil(d <-chan struct{}, timeout time.Duration) error {
	if timeout <= 0 {
		<-d
		return nil
	}

	select {
	case <-d:
		return nil
	case <-time.After(timeout):
		return ErrShutdownTimeout
	}
}
