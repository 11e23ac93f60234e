// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package rvpool_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/petenewcomb/rvpool-go"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestBarrierInvalidPartiesPanic(t *testing.T) {
	chk := require.New(t)
	chk.PanicsWithValue("invalid barrier parties 0: must be >= 1", func() {
		_ = rvpool.NewBarrier(0)
	})
}

func TestBarrierSinglePartyNeverBlocks(t *testing.T) {
	chk := require.New(t)
	b := rvpool.NewBarrier(1)
	chk.Equal(1, b.Parties())
	for range 3 {
		b.ArriveAndWait()
	}
}

// Every participant samples how many participants have arrived once it is
// released. None may be released before all have arrived, so every sample
// must see the full count.
func checkBarrierReleasesTogether(t require.TestingT, parties int, cycles int) {
	chk := require.New(t)
	b := rvpool.NewBarrier(parties)

	for cycle := range cycles {
		var arrived atomic.Int64
		samples := make([]int64, parties)
		var wg sync.WaitGroup
		wg.Add(parties)
		for i := range parties {
			go func() {
				defer wg.Done()
				arrived.Add(1)
				b.ArriveAndWait()
				samples[i] = arrived.Load()
			}()
		}
		wg.Wait()
		for i, s := range samples {
			chk.Equal(int64(parties), s, "cycle %d participant %d released early", cycle, i)
		}
	}
}

func TestBarrierReleasesTogether(t *testing.T) {
	checkBarrierReleasesTogether(t, 8, 5)
}

func TestBarrierReleasesTogetherWithRapid(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		parties := rapid.IntRange(1, 32).Draw(t, "parties")
		cycles := rapid.IntRange(1, 4).Draw(t, "cycles")
		checkBarrierReleasesTogether(t, parties, cycles)
	})
}

func TestBarrierBlocksUntilLastArrival(t *testing.T) {
	chk := require.New(t)
	b := rvpool.NewBarrier(3)

	released := make(chan struct{})
	go func() {
		b.ArriveAndWait()
		close(released)
	}()

	b.Arrive()
	select {
	case <-released:
		chk.Fail("released after two of three arrivals")
	case <-time.After(20 * time.Millisecond):
	}

	b.Arrive()
	select {
	case <-released:
	case <-time.After(5 * time.Second):
		chk.Fail("not released after the third arrival")
	}
}

func TestBarrierArrivePublishesWrites(t *testing.T) {
	chk := require.New(t)
	const writers = 16
	b := rvpool.NewBarrier(writers + 1)

	// The slice is deliberately unsynchronized; the barrier must be enough
	// for the race detector.
	values := make([]int, writers)
	for i := range writers {
		go func() {
			values[i] = i + 1
			b.Arrive()
		}()
	}
	b.ArriveAndWait()

	for i, v := range values {
		chk.Equal(i+1, v)
	}
}

func TestBarrierArrivalsCarryIntoNextCycle(t *testing.T) {
	chk := require.New(t)
	b := rvpool.NewBarrier(2)

	// Three arrivals: the first two complete a cycle, the third opens the
	// next one, so a single waiter completes it immediately.
	b.Arrive()
	b.Arrive()
	b.Arrive()

	done := make(chan struct{})
	go func() {
		b.ArriveAndWait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		chk.Fail("carried arrival was lost")
	}
}
