// Package command defers work to a fixed point of the frame.
package command

import (
	"sync"

	"github.com/jamgo/engine/internal/core/contract"
)

// Queue is a mutex-guarded double buffer of commands. Submit may be called
// from any goroutine; Execute is called by the frame loop.
type Queue struct {
	mu      sync.Mutex
	pending []func()
	running []func()
}

func NewQueue() *Queue {
	return &Queue{
		pending: make([]func(), 0, 16),
		running: make([]func(), 0, 16),
	}
}

// Submit appends fn to the queue.
func (q *Queue) Submit(fn func()) {
	contract.Assert(fn != nil, "nil command submitted")
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()
}

// Len returns the number of commands waiting for the next Execute.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Execute runs every command submitted before the call, in submission order,
// exactly once. Commands submitted while executing run on the next drain.
func (q *Queue) Execute() int {
	q.mu.Lock()
	q.pending, q.running = q.running[:0], q.pending
	batch := q.running
	q.mu.Unlock()

	for i, fn := range batch {
		fn()
		batch[i] = nil
	}
	return len(batch)
}
