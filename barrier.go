// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package rvpool

import (
	"fmt"
	"sync"
)

// A Barrier is a reusable rendezvous point for a fixed number of parties. Each
// cycle completes when the last of the parties arrives, at which point every
// party waiting in [Barrier.ArriveAndWait] is released together and the next
// cycle begins.
//
// The barrier has no timeout and no cancellation. A party that never arrives
// stalls the others in that cycle forever; callers that need bounded waits
// must arrange them around the barrier. Arriving twice in one cycle counts
// toward the next cycle.
type Barrier struct {
	mu         sync.Mutex
	released   sync.Cond
	parties    int
	arrived    int
	generation uint64
}

// NewBarrier returns a barrier whose cycles complete after parties arrivals.
//
// Panics if parties is less than one.
func NewBarrier(parties int) *Barrier {
	if parties < 1 {
		panic(fmt.Sprintf("invalid barrier parties %d: must be >= 1", parties))
	}
	b := &Barrier{parties: parties}
	b.released.L = &b.mu
	return b
}

// Parties returns the number of arrivals that complete a cycle.
func (b *Barrier) Parties() int {
	return b.parties
}

// ArriveAndWait registers an arrival and blocks until the current cycle
// completes. The caller whose arrival completes the cycle returns without
// blocking.
func (b *Barrier) ArriveAndWait() {
	b.mu.Lock()
	defer b.mu.Unlock()
	generation := b.arriveLocked()
	// Wait on the generation rather than the counter so that neither spurious
	// wakeups nor early arrivals for the next cycle release a waiter.
	for b.generation == generation {
		b.released.Wait()
	}
}

// Arrive registers an arrival without waiting for the cycle to complete.
// Everything the caller did before Arrive happens before the return of every
// ArriveAndWait call released by the same cycle.
func (b *Barrier) Arrive() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.arriveLocked()
}

// arriveLocked counts an arrival and completes the cycle if it was the last.
// Returns the generation the arrival belonged to.
func (b *Barrier) arriveLocked() uint64 {
	generation := b.generation
	b.arrived++
	if b.arrived == b.parties {
		b.arrived = 0
		b.generation++
		b.released.Broadcast()
	}
	return generation
}
