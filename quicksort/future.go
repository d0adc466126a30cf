package quicksort

import "context"

// Future is the completion handle for one SortAsync invocation. It
// resolves exactly once, when every task spawned under the sort (including
// transitively spawned ones) has finished.
type Future struct {
	tracker *tracker
}

// Wait blocks until the sort has completed, successfully or not.
func (f *Future) Wait() {
	<-f.tracker.done
}

// Get blocks until the sort has completed and returns the first error
// latched anywhere in the recursion, or nil on success. Repeated calls
// return the same result.
func (f *Future) Get() error {
	<-f.tracker.done
	return f.tracker.latched()
}

// GetWithContext is like Get but gives up when the context is cancelled.
// Giving up does not stop the sort; it keeps running to completion.
func (f *Future) GetWithContext(ctx context.Context) error {
	select {
	case <-f.tracker.done:
		return f.tracker.latched()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsReady reports whether the sort has completed, without blocking.
func (f *Future) IsReady() bool {
	select {
	case <-f.tracker.done:
		return true
	default:
		return false
	}
}
