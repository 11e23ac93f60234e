// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package rvpool

// A Range is the half-open interval [Start, End) of indexes into a sequence.
type Range struct {
	Start int
	End   int
}

// Len returns the number of indexes in the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Chunks splits the indexes [0, n) into exactly k contiguous, non-overlapping
// ranges of ceil(n/k) indexes each, in order. The last non-empty range may be
// shorter, and when k does not divide n evenly enough some trailing ranges
// may be empty. Returns nil if k is less than one or n is negative.
func Chunks(n, k int) []Range {
	if k < 1 || n < 0 {
		return nil
	}
	size := (n + k - 1) / k
	ranges := make([]Range, k)
	for t := range ranges {
		start := min(t*size, n)
		ranges[t] = Range{
			Start: start,
			End:   min(start+size, n),
		}
	}
	return ranges
}

// A ChunkFunc reduces one contiguous chunk of a [Reduce] input to a partial
// result. It runs on a pool worker and may be called with an empty chunk, in
// which case it should return the identity of the reduction.
type ChunkFunc[T, A any] func(chunk []T) (A, error)

// A CombineFunc folds two partial results into one. It must be associative.
// [Reduce] applies it left to right in chunk order, so it need not be
// commutative.
type CombineFunc[A any] func(left, right A) (A, error)

// slot holds one chunk's partial result. It is written only by the task that
// owns the chunk and read only after the reduction's barrier has released.
type slot[A any] struct {
	value A
	err   error
}

// Reduce splits input into taskCount chunks (see [Chunks]), reduces each one
// with chunk on a worker of pool, and folds the partial results in chunk
// order with combine.
//
// Each chunk task records its result in a slot of its own and then arrives at
// a [Barrier] of taskCount+1 parties. Reduce itself is the extra party: it
// blocks in [Barrier.ArriveAndWait] until every chunk has arrived, which is
// also what makes the slot writes visible to it. Chunk tasks arrive without
// waiting, so the reduction never holds a worker while other chunks are still
// queued and any taskCount can run on a pool of any size.
//
// If chunk fails for some chunk, by returning an error or by panicking, the
// task still arrives and Reduce returns a [*ChunkError] for the lowest failing
// chunk index after all chunks have finished. If pool is shut down partway
// through submission, the chunks that could not be submitted fail with
// [ErrPoolShutdown].
//
// Returns [ErrInvalidTaskCount] without submitting anything if taskCount is
// less than one. Panics if pool, chunk, or combine is nil.
func Reduce[T, A any](
	pool *Pool,
	input []T,
	taskCount int,
	chunk ChunkFunc[T, A],
	combine CombineFunc[A],
) (A, error) {
	var zero A
	if pool == nil {
		panic("pool must be non-nil")
	}
	if chunk == nil {
		panic("chunk function must be non-nil")
	}
	if combine == nil {
		panic("combine function must be non-nil")
	}
	if taskCount < 1 {
		return zero, ErrInvalidTaskCount
	}

	ranges := Chunks(len(input), taskCount)
	slots := make([]slot[A], taskCount)
	barrier := NewBarrier(taskCount + 1)

	for t, r := range ranges {
		task := newChunkTask(input[r.Start:r.End], chunk, &slots[t], barrier)
		if err := pool.Submit(task); err != nil {
			// Arrive on behalf of every chunk that will never run so that the
			// wait below cannot stall.
			for u := t; u < taskCount; u++ {
				slots[u].err = err
				barrier.Arrive()
			}
			break
		}
	}
	barrier.ArriveAndWait()

	for t := range slots {
		if err := slots[t].err; err != nil {
			return zero, &ChunkError{Index: t, Range: ranges[t], Err: err}
		}
	}
	acc := slots[0].value
	for t := 1; t < len(slots); t++ {
		var err error
		acc, err = combine(acc, slots[t].value)
		if err != nil {
			return zero, &ChunkError{Index: t, Range: ranges[t], Err: err}
		}
	}
	return acc, nil
}

func newChunkTask[T, A any](input []T, chunk ChunkFunc[T, A], s *slot[A], barrier *Barrier) Task {
	return func() {
		defer barrier.Arrive()
		defer func() {
			if r := recover(); r != nil {
				s.err = &TaskPanicError{Value: r}
			}
		}()
		s.value, s.err = chunk(input)
	}
}
