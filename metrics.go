// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package rvpool

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/petenewcomb/rvpool-go"

// poolMetrics holds the instruments a Pool records into.
type poolMetrics struct {
	attrs        metric.MeasurementOption
	submitted    metric.Int64Counter
	completed    metric.Int64Counter
	panicked     metric.Int64Counter
	exited       metric.Int64Counter
	duration     metric.Float64Histogram
	registration metric.Registration
}

func newPoolMetrics(provider metric.MeterProvider, p *Pool) (*poolMetrics, error) {
	meter := provider.Meter(meterName)
	m := &poolMetrics{
		attrs: metric.WithAttributes(attribute.String("pool", p.name)),
	}

	var err error
	wrap := func(name string, err error) error {
		return fmt.Errorf("creating instrument %s: %w", name, err)
	}

	if m.submitted, err = meter.Int64Counter("rvpool.tasks.submitted",
		metric.WithDescription("Tasks accepted by the pool's queue")); err != nil {
		return nil, wrap("rvpool.tasks.submitted", err)
	}
	if m.completed, err = meter.Int64Counter("rvpool.tasks.completed",
		metric.WithDescription("Tasks that finished executing, including those that failed")); err != nil {
		return nil, wrap("rvpool.tasks.completed", err)
	}
	if m.panicked, err = meter.Int64Counter("rvpool.tasks.panicked",
		metric.WithDescription("Tasks whose panic was recovered by a worker")); err != nil {
		return nil, wrap("rvpool.tasks.panicked", err)
	}
	if m.exited, err = meter.Int64Counter("rvpool.tasks.goexited",
		metric.WithDescription("Tasks that called runtime.Goexit instead of returning")); err != nil {
		return nil, wrap("rvpool.tasks.goexited", err)
	}
	if m.duration, err = meter.Float64Histogram("rvpool.task.duration",
		metric.WithDescription("Task execution time"),
		metric.WithUnit("s")); err != nil {
		return nil, wrap("rvpool.task.duration", err)
	}

	queueLength, err := meter.Int64ObservableGauge("rvpool.queue.length",
		metric.WithDescription("Tasks waiting for a worker"))
	if err != nil {
		return nil, wrap("rvpool.queue.length", err)
	}
	busyWorkers, err := meter.Int64ObservableGauge("rvpool.workers.busy",
		metric.WithDescription("Workers currently executing a task"))
	if err != nil {
		return nil, wrap("rvpool.workers.busy", err)
	}
	m.registration, err = meter.RegisterCallback(
		func(_ context.Context, o metric.Observer) error {
			o.ObserveInt64(queueLength, int64(p.queue.Len()), m.attrs)
			o.ObserveInt64(busyWorkers, int64(p.busy.Load()), m.attrs)
			return nil
		},
		queueLength,
		busyWorkers,
	)
	if err != nil {
		return nil, fmt.Errorf("registering pool gauges: %w", err)
	}
	return m, nil
}

func (m *poolMetrics) taskSubmitted() {
	m.submitted.Add(context.Background(), 1, m.attrs)
}

// taskOutcome says how a task left the worker that ran it.
type taskOutcome int

const (
	taskReturned taskOutcome = iota
	taskPanicked
	taskExited // called runtime.Goexit
)

func (m *poolMetrics) taskFinished(elapsed time.Duration, outcome taskOutcome) {
	ctx := context.Background()
	m.completed.Add(ctx, 1, m.attrs)
	m.duration.Record(ctx, elapsed.Seconds(), m.attrs)
	switch outcome {
	case taskPanicked:
		m.panicked.Add(ctx, 1, m.attrs)
	case taskExited:
		m.exited.Add(ctx, 1, m.attrs)
	}
}

func (m *poolMetrics) close() error {
	return m.registration.Unregister()
}
