// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/petenewcomb/rvpool-go"
	"github.com/petenewcomb/rvpool-go/internal/sim"
	"github.com/petenewcomb/rvpool-go/otrvpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"golang.org/x/exp/constraints"
	"golang.org/x/sync/errgroup"
)

const (
	fillOnes = "ones"
	fillIota = "iota"
)

type config struct {
	Workers  int
	Elements int
	Fill     string
	Tasks    []int
	Repeat   int
	Spawn    bool
	Trace    bool
}

func (c config) validate() error {
	switch {
	case c.Workers < 1:
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	case c.Elements < 0:
		return fmt.Errorf("elements must not be negative, got %d", c.Elements)
	case c.Fill != fillOnes && c.Fill != fillIota:
		return fmt.Errorf("fill must be %q or %q, got %q", fillOnes, fillIota, c.Fill)
	case len(c.Tasks) == 0:
		return fmt.Errorf("at least one task count is required")
	case c.Repeat < 1:
		return fmt.Errorf("repeat must be at least 1, got %d", c.Repeat)
	}
	for _, k := range c.Tasks {
		if k < 1 {
			return fmt.Errorf("task counts must be at least 1, got %d", k)
		}
	}
	return nil
}

// measurement is the outcome of one benchmarked mode at one task count.
type measurement struct {
	Mode    string
	Tasks   int
	Sum     uint64
	Elapsed time.Duration
	Model   *sim.Schedule // nil when no model applies
}

func (m measurement) String() string {
	s := fmt.Sprintf("%-6s tasks %2d: sum %d -> %8.2f ms", m.Mode, m.Tasks, m.Sum, millis(m.Elapsed))
	if m.Model != nil && m.Model.Makespan > 0 && m.Elapsed > 0 {
		s += fmt.Sprintf(" (model %8.2f ms, speedup %5.2fx, efficiency %5.1f%%; measured %5.1f%% of model)",
			millis(m.Model.Makespan), m.Model.Speedup(), 100*m.Model.Efficiency(),
			100*float64(m.Model.Makespan)/float64(m.Elapsed))
	}
	return s
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func makeInput(n int, fill string) []uint32 {
	input := make([]uint32, n)
	for i := range input {
		if fill == fillIota {
			input[i] = uint32(i + 1)
		} else {
			input[i] = 1
		}
	}
	return input
}

// run executes the configured benchmark, writing one line per measurement to
// out. Trace spans, if enabled, go to traceOut.
func run(ctx context.Context, cfg config, logger *zap.Logger, out, traceOut io.Writer) error {
	if cfg.Trace {
		shutdown, err := installTracing(traceOut)
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Warn("Failed to flush traces", zap.Error(err))
			}
		}()
	}

	input := makeInput(cfg.Elements, cfg.Fill)
	logger.Info("Benchmark starting",
		zap.Int("workers", cfg.Workers),
		zap.Int("elements", cfg.Elements),
		zap.String("fill", cfg.Fill),
		zap.Ints("tasks", cfg.Tasks))

	serial, err := best(cfg.Repeat, func() (uint64, error) {
		return rvpool.SumSerial(input)
	})
	if err != nil {
		return fmt.Errorf("serial baseline: %w", err)
	}
	serial.Mode, serial.Tasks = "serial", 1
	fmt.Fprintln(out, serial)

	perElement := time.Duration(0)
	if cfg.Elements > 0 {
		perElement = serial.Elapsed / time.Duration(cfg.Elements)
	}

	pool, err := rvpool.NewPool(cfg.Workers, rvpool.WithName("rvbench"), rvpool.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("starting pool: %w", err)
	}
	defer pool.Shutdown()

	for _, k := range cfg.Tasks {
		model := sim.Simulate(sim.ChunkCosts(rvpool.Chunks(len(input), k), perElement, 0), cfg.Workers)

		m, err := best(cfg.Repeat, func() (uint64, error) {
			return otrvpool.TracedSum(ctx, pool, input, k)
		})
		if err != nil {
			return fmt.Errorf("pool sum with %d tasks: %w", k, err)
		}
		m.Mode, m.Tasks, m.Model = "pool", k, model
		if m.Sum != serial.Sum {
			return fmt.Errorf("pool sum with %d tasks: got %d, serial baseline %d", k, m.Sum, serial.Sum)
		}
		fmt.Fprintln(out, m)

		if cfg.Spawn {
			s, err := best(cfg.Repeat, func() (uint64, error) {
				return spawnSum(input, k)
			})
			if err != nil {
				return fmt.Errorf("spawn sum with %d tasks: %w", k, err)
			}
			s.Mode, s.Tasks = "spawn", k
			fmt.Fprintln(out, s)
		}
	}
	return nil
}

// best runs f repeat times and keeps the fastest run.
func best(repeat int, f func() (uint64, error)) (measurement, error) {
	var m measurement
	for i := range repeat {
		startTime := time.Now()
		sum, err := f()
		elapsed := time.Since(startTime)
		if err != nil {
			return m, err
		}
		if i == 0 || elapsed < m.Elapsed {
			m.Sum, m.Elapsed = sum, elapsed
		}
	}
	return m, nil
}

// spawnSum is the pool-less comparison: a fresh goroutine per chunk, joined
// with an errgroup.
func spawnSum[E constraints.Unsigned](input []E, taskCount int) (uint64, error) {
	ranges := rvpool.Chunks(len(input), taskCount)
	partial := make([]uint64, len(ranges))
	var g errgroup.Group
	for t, r := range ranges {
		g.Go(func() error {
			s, err := rvpool.SumSerial(input[r.Start:r.End])
			partial[t] = s
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return rvpool.SumSerial(partial)
}

func installTracing(w io.Writer) (func(context.Context) error, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}
