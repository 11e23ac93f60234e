// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package sim

import (
	"cmp"
	"time"

	"github.com/addrummond/heap"
	"github.com/gammazero/deque"
	"github.com/petenewcomb/rvpool-go"
)

// Schedule is the outcome of simulating one batch of tasks.
type Schedule struct {
	Workers  int
	Makespan time.Duration // time at which the last task ends
	Work     time.Duration // sum of all task costs
}

// Speedup returns how many times faster the schedule finishes than running
// every task back to back on one worker.
func (s *Schedule) Speedup() float64 {
	if s.Makespan == 0 {
		return 1
	}
	return float64(s.Work) / float64(s.Makespan)
}

// Efficiency returns the fraction of worker time spent executing tasks.
func (s *Schedule) Efficiency() float64 {
	if s.Makespan == 0 {
		return 1
	}
	return float64(s.Work) / (float64(s.Makespan) * float64(s.Workers))
}

// Simulate submits tasks with the given costs, in order, to workers idle
// workers at time zero. Each worker that becomes free takes the oldest
// pending task; ties between workers go to the lowest-numbered one.
//
// Panics if workers is less than one or any cost is negative.
func Simulate(costs []time.Duration, workers int) *Schedule {
	if workers < 1 {
		panic("workers must be at least one")
	}

	s := &Schedule{Workers: workers}

	var pending deque.Deque[int]
	for i, c := range costs {
		if c < 0 {
			panic("task costs must not be negative")
		}
		pending.PushBack(i)
		s.Work += c
	}

	var idle heap.Heap[workerEvent, heap.Min]
	for w := range workers {
		heap.PushOrderable(&idle, workerEvent{Worker: w})
	}

	for pending.Len() > 0 {
		task := pending.PopFront()
		w, _ := heap.PopOrderable(&idle)
		end := w.Time + costs[task]
		s.Makespan = max(s.Makespan, end)
		heap.PushOrderable(&idle, workerEvent{Time: end, Worker: w.Worker})
	}
	return s
}

// ChunkCosts estimates the cost of each chunk of a reduction as a fixed
// per-task overhead plus perElement for every element in the chunk.
func ChunkCosts(ranges []rvpool.Range, perElement, overhead time.Duration) []time.Duration {
	costs := make([]time.Duration, len(ranges))
	for i, r := range ranges {
		costs[i] = overhead + time.Duration(r.Len())*perElement
	}
	return costs
}

// workerEvent marks the time at which a worker becomes free.
type workerEvent struct {
	Time   time.Duration
	Worker int
}

func (a *workerEvent) Cmp(b *workerEvent) int {
	if c := cmp.Compare(a.Time, b.Time); c != 0 {
		return c
	}
	return cmp.Compare(a.Worker, b.Worker)
}
