package pool

import "sync"

// workerQueue is the double-ended task queue owned by one worker.
//
// The owner pushes and pops at the back (LIFO), thieves pop the front
// (FIFO, the oldest entry). A single mutex guards the slice; the two access
// patterns touch opposite ends, so contention between the owner and a thief
// only matters when the queue is nearly empty. A lock-free deque would also
// satisfy the pool's contract but is not required for correctness.
//
// wake is the queue's wait-condition: a one-slot channel the submitter
// signals after pushing. Workers never trust the wake reason and always
// rescan, so a lost or spurious wakeup costs at most one idle-wait period.
type workerQueue struct {
	mu    sync.Mutex
	tasks []Task
	wake  chan struct{}
}

func newWorkerQueue(capacity int) *workerQueue {
	return &workerQueue{
		tasks: make([]Task, 0, capacity),
		wake:  make(chan struct{}, 1),
	}
}

// push adds a task at the owner end. Called by any submitter.
func (q *workerQueue) push(t Task) {
	q.mu.Lock()
	q.tasks = append(q.tasks, t)
	q.mu.Unlock()
}

// pop removes the most recently pushed task. Owner only.
func (q *workerQueue) pop() Task {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := len(q.tasks)
	if n == 0 {
		return nil
	}

	t := q.tasks[n-1]
	q.tasks[n-1] = nil
	q.tasks = q.tasks[:n-1]
	return t
}

// steal removes the oldest task, the end opposite to the owner's.
func (q *workerQueue) steal() Task {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.tasks) == 0 {
		return nil
	}

	t := q.tasks[0]
	q.tasks[0] = nil
	q.tasks = q.tasks[1:]
	return t
}

// notify wakes the queue's waiter, if any. Non-blocking: the one-slot
// buffer coalesces bursts of signals.
func (q *workerQueue) notify() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *workerQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}
