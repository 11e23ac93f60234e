// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package state

import (
	"sync/atomic"
)

// InFlightCounter counts tasks that a pool's workers are currently executing.
// The zero value is ready to use.
type InFlightCounter struct {
	v atomic.Int64
}

// Increment records the start of a task.
func (c *InFlightCounter) Increment() {
	c.v.Add(1)
}

// Decrement records the end of a task.
func (c *InFlightCounter) Decrement() {
	if c.v.Add(-1) < 0 {
		panic("there were no tasks in flight")
	}
}

func (c *InFlightCounter) Load() int {
	return int(c.v.Load())
}
