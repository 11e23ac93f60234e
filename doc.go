// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package rvpool provides a fixed-size worker pool fed by an unbounded FIFO
// task queue, a reusable rendezvous [Barrier], and a parallel reduction
// driver built from the two.
//
// A [Pool] starts its workers once and keeps them for its whole lifetime.
// Tasks are plain func() values; each is taken from the queue by exactly one
// worker and run to completion. Shutting the pool down stops it from
// accepting tasks but lets the workers drain everything already queued before
// they exit.
//
// [Reduce] fans a computation out over the pool by splitting its input into
// contiguous chunks, one task per chunk, and fans the partial results back in
// at a barrier. Each partial result lives in a slot written only by the task
// that owns it, and the barrier is the only synchronization between those
// writes and the final fold. [Sum] is the 64-bit unsigned summation built on
// Reduce.
//
// The queue and the barrier each hold a single lock of their own and never
// acquire another while holding it. Code layered on top of a Pool that
// introduces further locks shared between tasks must impose its own
// consistent lock ordering to stay free of deadlock.
//
// Pools log through [go.uber.org/zap] and record metrics through
// OpenTelemetry; see [WithLogger] and [WithMeterProvider]. Package otrvpool
// adds tracing spans around tasks and reductions.
package rvpool
