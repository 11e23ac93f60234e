// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Command rvbench measures parallel summation on an rvpool.Pool against a
// serial baseline, optionally also against one goroutine per chunk, and
// prints each run next to the ideal time predicted by the scheduling model.
package main

import (
	"fmt"
	"os"

	"github.com/petenewcomb/rvpool-go"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "rvbench",
		Usage: "benchmark parallel summation on a fixed worker pool",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Value:   rvpool.DefaultWorkerCount(),
				Usage:   "number of pool workers",
				EnvVars: []string{"RVBENCH_WORKERS"},
			},
			&cli.IntFlag{
				Name:    "elements",
				Aliases: []string{"n"},
				Value:   50_000_000,
				Usage:   "number of input elements",
				EnvVars: []string{"RVBENCH_ELEMENTS"},
			},
			&cli.StringFlag{
				Name:    "fill",
				Value:   fillOnes,
				Usage:   "input contents: " + fillOnes + " or " + fillIota,
				EnvVars: []string{"RVBENCH_FILL"},
			},
			&cli.IntSliceFlag{
				Name:    "tasks",
				Aliases: []string{"t"},
				Value:   cli.NewIntSlice(1, 2, 4, 8, 16, 32),
				Usage:   "task counts to run, one reduction each",
				EnvVars: []string{"RVBENCH_TASKS"},
			},
			&cli.IntFlag{
				Name:    "repeat",
				Value:   1,
				Usage:   "runs per task count; the fastest is reported",
				EnvVars: []string{"RVBENCH_REPEAT"},
			},
			&cli.BoolFlag{
				Name:    "spawn",
				Usage:   "also run one goroutine per chunk for comparison",
				EnvVars: []string{"RVBENCH_SPAWN"},
			},
			&cli.BoolFlag{
				Name:    "trace",
				Usage:   "export a span per reduction to stderr",
				EnvVars: []string{"RVBENCH_TRACE"},
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable debug logging",
				EnvVars: []string{"RVBENCH_DEBUG"},
			},
		},
		Action: benchAction,
	}
}

func benchAction(c *cli.Context) error {
	cfg := config{
		Workers:  c.Int("workers"),
		Elements: c.Int("elements"),
		Fill:     c.String("fill"),
		Tasks:    c.IntSlice("tasks"),
		Repeat:   c.Int("repeat"),
		Spawn:    c.Bool("spawn"),
		Trace:    c.Bool("trace"),
	}
	if err := cfg.validate(); err != nil {
		return cli.Exit(err.Error(), 2)
	}

	logger, err := newLogger(c.Bool("debug"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("creating logger: %v", err), 1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(c.Context, cfg, logger, c.App.Writer, c.App.ErrWriter); err != nil {
		return cli.Exit(fmt.Sprintf("benchmark failed: %v", err), 1)
	}
	return nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
