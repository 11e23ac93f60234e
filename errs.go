// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package rvpool

import "fmt"

type constError string

func (e constError) Error() string {
	return string(e)
}

const ErrPoolShutdown = constError("pool shut down")
const ErrInvalidWorkerCount = constError("worker count must be at least one")
const ErrInvalidTaskCount = constError("task count must be at least one")
const ErrTaskPanic = constError("task panicked")
const ErrOverflow = constError("64-bit accumulator overflow")

// TaskPanicError records a panic recovered from a reduction chunk function.
// It matches [ErrTaskPanic] under [errors.Is].
type TaskPanicError struct {
	Value any
}

func (e *TaskPanicError) Error() string {
	return fmt.Sprintf("%v: %v", ErrTaskPanic, e.Value)
}

func (e *TaskPanicError) Is(target error) bool {
	return target == ErrTaskPanic
}

// ChunkError reports the failure of a single chunk of a reduction. Index is the
// chunk's position and Range the slice of the input it covered.
type ChunkError struct {
	Index int
	Range Range
	Err   error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("chunk %d [%d,%d): %v", e.Index, e.Range.Start, e.Range.End, e.Err)
}

func (e *ChunkError) Unwrap() error {
	return e.Err
}
