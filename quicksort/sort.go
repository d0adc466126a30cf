package quicksort

import (
	"cmp"
	"slices"

	"golang.org/x/exp/constraints"

	"github.com/DmitryVic/HW-30/pool"
)

const (
	// DefaultSpawnThreshold is the spawn threshold used when a caller
	// passes one that is not positive: sub-regions at or below this size
	// are recursed into on the current goroutine instead of becoming a
	// new pool task.
	DefaultSpawnThreshold = 100_000

	// sequentialCutoff is the region size below which a partition step
	// finishes in place with the sequential fallback sort. Amortizes
	// per-task scheduling overhead against trivial work.
	sequentialCutoff = 1000
)

// SortAsync submits s for sorting on p and returns immediately with the
// completion handle. The caller owns the slice's memory for the entire
// async operation and must not release it before the Future resolves.
//
// threshold is the spawn threshold; values <= 0 select
// DefaultSpawnThreshold. Pool size affects timing only, never the result.
func SortAsync[T constraints.Ordered](p *pool.Pool, s []T, threshold int) *Future {
	return SortFuncAsync(p, s, threshold, cmp.Compare[T])
}

// SortFuncAsync is like SortAsync but orders elements with compare, which
// must return a negative number when a < b, zero when a == b and a
// positive number when a > b. A panic raised by compare anywhere in the
// recursion surfaces once, through the Future.
func SortFuncAsync[T any](p *pool.Pool, s []T, threshold int, compare func(a, b T) int) *Future {
	if threshold <= 0 {
		threshold = DefaultSpawnThreshold
	}

	st := newTracker()
	st.spawn(p, func() {
		sortJob(p, st, s, 0, len(s)-1, threshold, compare)
	})

	return &Future{tracker: st}
}

// sortJob is one partition step over s[low..high] (inclusive). It runs
// inside a pool task or directly on the goroutine of its parent step.
func sortJob[T any](p *pool.Pool, st *tracker, s []T, low, high, threshold int, compare func(a, b T) int) {
	if low >= high {
		return
	}
	if high-low <= sequentialCutoff {
		slices.SortFunc(s[low:high+1], compare)
		return
	}

	// Hoare partition around the middle element. The two output regions
	// [low, r] and [l, high] are disjoint or overlap only at positions the
	// pointers have already settled, so concurrent subtasks never touch
	// the same index.
	l, r := low, high
	pivot := s[(l+r)/2]
	for {
		for compare(s[l], pivot) < 0 {
			l++
		}
		for compare(s[r], pivot) > 0 {
			r--
		}
		if l <= r {
			s[l], s[r] = s[r], s[l]
			l++
			r--
		}
		if l > r {
			break
		}
	}

	leftBig := r-low > threshold
	rightBig := high-l > threshold

	switch {
	case leftBig:
		// Spawn one side, recurse into the other directly. When both are
		// big, handing off just one still feeds the pool: the spawned side
		// keeps splitting on whichever worker picks it up.
		st.spawn(p, func() {
			sortJob(p, st, s, low, r, threshold, compare)
		})
		sortJob(p, st, s, l, high, threshold, compare)

	case rightBig:
		st.spawn(p, func() {
			sortJob(p, st, s, l, high, threshold, compare)
		})
		sortJob(p, st, s, low, r, threshold, compare)

	default:
		sortJob(p, st, s, low, r, threshold, compare)
		sortJob(p, st, s, l, high, threshold, compare)
	}
}
