// Package loop provides the single-threaded cooperative task queue every viewer state transition runs on.
// Any goroutine may post; tasks only ever run on the goroutine that drains the queue.
package loop

import (
	"context"
	"sync"
)

// Queue is a FIFO of tasks drained on one goroutine.
type Queue struct {
	mu     sync.Mutex
	tasks  []func()
	wake   chan struct{}
	closed bool

	quitChannel chan struct{}
	quitOnce    sync.Once
}

// NewQueue creates an empty queue.
//
// Parameters:
//   - size: initial task capacity
//
// Returns:
//   - *Queue: the newly created queue
func NewQueue(size int) *Queue {
	if size < 0 {
		size = 0
	}
	return &Queue{
		tasks:       make([]func(), 0, size),
		wake:        make(chan struct{}, 1),
		quitChannel: make(chan struct{}),
	}
}

// Post appends task to the queue. Safe for concurrent use.
//
// Parameters:
//   - task: the function to run on the draining goroutine
//
// Returns:
//   - bool: false if the queue is closed and the task was dropped
func (q *Queue) Post(task func()) bool {
	if task == nil {
		return false
	}
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.tasks = append(q.tasks, task)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return true
}

// Drain runs every queued task on the calling goroutine without blocking, including tasks posted
// by the tasks it runs.
//
// Returns:
//   - int: the number of tasks run
func (q *Queue) Drain() int {
	n := 0
	for {
		q.mu.Lock()
		if len(q.tasks) == 0 {
			q.mu.Unlock()
			return n
		}
		task := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		q.mu.Unlock()

		task()
		n++
	}
}

// Len returns the number of queued tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Run drains the queue on the calling goroutine until ctx is done or the queue is closed.
//
// Parameters:
//   - ctx: cancels the loop
//
// Returns:
//   - error: ctx.Err() when cancelled, nil when closed
func (q *Queue) Run(ctx context.Context) error {
	for {
		q.Drain()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.quitChannel:
			return nil
		case <-q.wake:
		}
	}
}

// Close stops accepting tasks and ends Run. Tasks already queued are discarded. Idempotent.
func (q *Queue) Close() {
	q.quitOnce.Do(func() {
		q.mu.Lock()
		q.closed = true
		q.tasks = nil
		q.mu.Unlock()
		close(q.quitChannel)
	})
}

// Done is closed once Close has been called.
func (q *Queue) Done() <-chan struct{} {
	return q.quitChannel
}
