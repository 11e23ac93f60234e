// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package rvpool

import (
	"sync"

	"github.com/gammazero/deque"
)

// TaskQueue is an unbounded FIFO of [Task] values with blocking dequeue and a
// one-way shutdown signal. All state is guarded by a single mutex; consumers
// wait on a condition variable rather than spinning.
//
// Once shut down, the queue admits no new tasks but continues to hand out the
// ones it already holds until it is empty.
type TaskQueue struct {
	mu       sync.Mutex
	nonEmpty sync.Cond
	tasks    deque.Deque[Task]
	closed   bool
}

// NewTaskQueue returns an empty, open queue.
func NewTaskQueue() *TaskQueue {
	q := &TaskQueue{}
	q.nonEmpty.L = &q.mu
	return q
}

// Submit appends task to the tail of the queue and wakes one waiting consumer.
// Returns [ErrPoolShutdown] without queuing the task if [TaskQueue.RequestShutdown]
// has already been called.
//
// Panics if task is nil.
func (q *TaskQueue) Submit(task Task) error {
	if task == nil {
		panic("task must be non-nil")
	}
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrPoolShutdown
	}
	q.tasks.PushBack(task)
	q.mu.Unlock()
	q.nonEmpty.Signal()
	return nil
}

// Take blocks until a task is available or the queue has been shut down and
// drained. It returns the oldest task and true, or nil and false once there is
// nothing left to deliver.
func (q *TaskQueue) Take() (Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.tasks.Len() == 0 {
		if q.closed {
			return nil, false
		}
		q.nonEmpty.Wait()
	}
	task := q.tasks.PopFront()
	return task, true
}

// RequestShutdown closes the queue to new submissions and wakes every waiting
// consumer. Calling it more than once has no further effect.
func (q *TaskQueue) RequestShutdown() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.nonEmpty.Broadcast()
}

// Len returns the number of tasks waiting to be taken.
func (q *TaskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.tasks.Len()
}

// IsShutdown reports whether RequestShutdown has been called.
func (q *TaskQueue) IsShutdown() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
