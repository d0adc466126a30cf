package quicksort

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/DmitryVic/HW-30/pool"
)

// tracker is the completion state shared by every task spawned for one
// sort invocation: an outstanding-task counter and a latched first-error
// slot. The counter reaches zero exactly once, when the last transitively
// spawned task finishes, and that transition is the sole termination
// condition — nothing ever knows the total task count up front.
type tracker struct {
	outstanding atomic.Int64
	done        chan struct{}

	mu     sync.Mutex
	err    error
	errSet bool
}

func newTracker() *tracker {
	return &tracker{done: make(chan struct{})}
}

// spawn wraps job with the tracker's bookkeeping and submits it to the
// pool. The counter is incremented before submission, symmetric with the
// decrement after the job fully returns, so the count can never dip to
// zero while work is still in flight. A panic inside job is captured into
// the error latch before that decrement; capturing after it would let a
// racing branch finalize as success.
func (s *tracker) spawn(p *pool.Pool, job func()) {
	s.outstanding.Add(1)
	err := p.Submit(func() {
		s.run(job)
		if s.outstanding.Add(-1) == 0 {
			close(s.done)
		}
	})

	// Submission to a shut-down pool fails synchronously; settle the
	// counter here since no worker will.
	if err != nil {
		s.latch(err)
		if s.outstanding.Add(-1) == 0 {
			close(s.done)
		}
	}
}

func (s *tracker) run(job func()) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			s.latch(fmt.Errorf("sort task panic: %v\nstack trace:\n%s", r, buf[:n]))
		}
	}()

	job()
}

// latch records err if no branch failed before; later errors from other
// branches are discarded. First error wins.
func (s *tracker) latch(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.errSet {
		return
	}
	s.errSet = true
	s.err = err
}

func (s *tracker) latched() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
