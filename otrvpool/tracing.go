// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package otrvpool provides OpenTelemetry tracing for rvpool tasks and
// reductions. Tasks take no context, so the wrappers capture the caller's
// context when the task is built and parent their spans to it.
package otrvpool

import (
	"context"
	"fmt"
	"time"

	"github.com/petenewcomb/rvpool-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/exp/constraints"
)

const tracerName = "github.com/petenewcomb/rvpool-go/otrvpool"

// TracedTask wraps task so that it runs inside a span named operationName,
// parented to the span in ctx. The span's rvpool.queue_wait_us attribute is
// the time from the TracedTask call until the task starts, so wrap the task
// immediately before submitting it for that to be its wait in the queue. A
// panic is recorded on the span and then re-raised so the pool still recovers
// and logs it.
func TracedTask(ctx context.Context, operationName string, task rvpool.Task) rvpool.Task {
	wrapped := time.Now()
	return func() {
		_, span := otel.Tracer(tracerName).Start(ctx, operationName,
			trace.WithAttributes(attribute.Int64("rvpool.queue_wait_us", time.Since(wrapped).Microseconds())))
		defer span.End()
		defer func() {
			if r := recover(); r != nil {
				span.RecordError(fmt.Errorf("%w: %v", rvpool.ErrTaskPanic, r))
				span.SetStatus(codes.Error, "task panicked")
				panic(r)
			}
		}()
		task()
	}
}

// TracedReduce runs [rvpool.Reduce] inside a span named operationName with a
// child span for each chunk. Errors are recorded on the span that saw them.
func TracedReduce[T, A any](
	ctx context.Context,
	operationName string,
	pool *rvpool.Pool,
	input []T,
	taskCount int,
	chunk rvpool.ChunkFunc[T, A],
	combine rvpool.CombineFunc[A],
) (A, error) {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("rvpool.pool", pool.Name()),
		attribute.Int("rvpool.workers", pool.Workers()),
		attribute.Int("rvpool.task_count", taskCount),
		attribute.Int("rvpool.input_len", len(input)),
	))
	defer span.End()

	tracedChunk := func(c []T) (A, error) {
		_, chunkSpan := tracer.Start(ctx, operationName+".chunk",
			trace.WithAttributes(attribute.Int("rvpool.chunk_len", len(c))))
		defer chunkSpan.End()
		result, err := chunk(c)
		if err != nil {
			chunkSpan.RecordError(err)
			chunkSpan.SetStatus(codes.Error, err.Error())
		}
		return result, err
	}

	result, err := rvpool.Reduce[T, A](pool, input, taskCount, tracedChunk, combine)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return result, err
}

// TracedSum runs [rvpool.Sum] inside a span named "rvpool.sum" and records
// the result as a span attribute.
func TracedSum[E constraints.Unsigned](ctx context.Context, pool *rvpool.Pool, input []E, taskCount int) (uint64, error) {
	_, span := otel.Tracer(tracerName).Start(ctx, "rvpool.sum", trace.WithAttributes(
		attribute.String("rvpool.pool", pool.Name()),
		attribute.Int("rvpool.workers", pool.Workers()),
		attribute.Int("rvpool.task_count", taskCount),
		attribute.Int("rvpool.input_len", len(input)),
	))
	defer span.End()

	sum, err := rvpool.Sum(pool, input, taskCount)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return sum, err
	}
	// Attribute values are signed; the decimal string keeps every bit.
	span.SetAttributes(attribute.String("rvpool.sum", fmt.Sprint(sum)))
	return sum, nil
}
