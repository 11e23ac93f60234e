// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package rvpool

import (
	"math/bits"

	"golang.org/x/exp/constraints"
)

// Sum adds up input on pool using taskCount chunk tasks. Partial and final
// sums are both accumulated as uint64, so the result is bit-for-bit the one
// [SumSerial] computes. Returns a [*ChunkError] wrapping [ErrOverflow] if the
// total does not fit in 64 bits. See [Reduce] for the remaining semantics.
func Sum[E constraints.Unsigned](pool *Pool, input []E, taskCount int) (uint64, error) {
	return Reduce[E, uint64](pool, input, taskCount, sumChunk[E], addChecked)
}

// SumSerial adds up input on the calling goroutine. Returns [ErrOverflow] if
// the total does not fit in 64 bits.
func SumSerial[E constraints.Unsigned](input []E) (uint64, error) {
	return sumChunk(input)
}

func sumChunk[E constraints.Unsigned](chunk []E) (uint64, error) {
	var total uint64
	for _, v := range chunk {
		var err error
		if total, err = addChecked(total, uint64(v)); err != nil {
			return 0, err
		}
	}
	return total, nil
}

func addChecked(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrOverflow
	}
	return sum, nil
}
