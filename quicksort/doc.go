// Package quicksort implements a recursive, fork-join parallel quicksort
// on top of package pool.
//
// Each partition step may submit further partition steps back into the
// pool; a sub-region larger than the spawn threshold becomes a new pool
// task, a smaller one is recursed into directly on the current goroutine,
// and regions below a fixed cutoff are finished in place with a sequential
// sort. Every task spawned for one sort shares a completion tracker that
// counts outstanding work and latches the first failure, so the caller
// observes the whole unbounded task tree through a single Future.
//
// # Basic Usage
//
//	p := pool.New()
//	defer p.Shutdown(0)
//
//	f := quicksort.SortAsync(p, data, quicksort.DefaultSpawnThreshold)
//	if err := f.Get(); err != nil {
//	    // first failure from any branch of the recursion
//	}
//
// On success the slice is fully sorted. On failure it is left in a valid
// but unspecified partially-partitioned state; there is no partial-result
// concept and no way to cancel a sort once submitted.
package quicksort
