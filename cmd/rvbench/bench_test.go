// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/petenewcomb/rvpool-go/internal/sim"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"pgregory.net/rapid"
)

func TestConfigValidate(t *testing.T) {
	valid := config{Workers: 2, Elements: 10, Fill: fillOnes, Tasks: []int{1, 2}, Repeat: 1}
	require.NoError(t, valid.validate())

	for name, mutate := range map[string]func(*config){
		"workers":  func(c *config) { c.Workers = 0 },
		"elements": func(c *config) { c.Elements = -1 },
		"fill":     func(c *config) { c.Fill = "random" },
		"no tasks": func(c *config) { c.Tasks = nil },
		"task":     func(c *config) { c.Tasks = []int{4, 0} },
		"repeat":   func(c *config) { c.Repeat = 0 },
	} {
		t.Run(name, func(t *testing.T) {
			c := valid
			c.Tasks = append([]int(nil), valid.Tasks...)
			mutate(&c)
			require.Error(t, c.validate())
		})
	}
}

func TestRunReportsEveryMode(t *testing.T) {
	chk := require.New(t)
	cfg := config{
		Workers:  2,
		Elements: 10_000,
		Fill:     fillIota,
		Tasks:    []int{1, 3, 8},
		Repeat:   2,
		Spawn:    true,
	}
	var out, traces bytes.Buffer
	chk.NoError(run(context.Background(), cfg, zap.NewNop(), &out, &traces))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	chk.Len(lines, 1+2*len(cfg.Tasks))
	chk.True(strings.HasPrefix(lines[0], "serial"))
	for _, line := range lines {
		chk.Contains(line, "sum 50005000 ")
	}
	chk.Empty(traces.String())
}

func TestMeasurementShowsModel(t *testing.T) {
	chk := require.New(t)
	costs := []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond, time.Millisecond}
	m := measurement{
		Mode:    "pool",
		Tasks:   4,
		Sum:     10,
		Elapsed: 4 * time.Millisecond,
		Model:   sim.Simulate(costs, 2),
	}
	line := m.String()
	chk.Contains(line, "model     2.00 ms")
	chk.Contains(line, "speedup  2.00x")
	chk.Contains(line, "efficiency 100.0%")
	chk.Contains(line, "measured  50.0% of model")

	m.Model = nil
	chk.NotContains(m.String(), "model")
}

func TestRunWithTracing(t *testing.T) {
	chk := require.New(t)
	cfg := config{Workers: 1, Elements: 100, Fill: fillOnes, Tasks: []int{2}, Repeat: 1, Trace: true}
	var out, traces bytes.Buffer
	chk.NoError(run(context.Background(), cfg, zap.NewNop(), &out, &traces))
	chk.Contains(traces.String(), "rvpool.sum")
}

func TestAppRejectsBadFlags(t *testing.T) {
	chk := require.New(t)
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &out
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.Run([]string{"rvbench", "--fill", "random", "--elements", "10"})
	chk.Error(err)
	chk.Contains(err.Error(), "fill must be")
}

func TestSpawnSumMatchesSerialWithRapid(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		input := rapid.SliceOfN(rapid.Uint16(), 0, 500).Draw(t, "input")
		k := rapid.IntRange(1, 20).Draw(t, "k")
		var expected uint64
		for _, v := range input {
			expected += uint64(v)
		}
		actual, err := spawnSum(input, k)
		require.NoError(t, err)
		require.Equal(t, expected, actual)
	})
}
