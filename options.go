// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package rvpool

import (
	"runtime"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const defaultPoolName = "rvpool"

// An Option configures a [Pool] at construction time.
type Option func(*poolConfig)

type poolConfig struct {
	name          string
	logger        *zap.Logger
	meterProvider metric.MeterProvider
}

func newPoolConfig(opts []Option) poolConfig {
	cfg := poolConfig{
		name: defaultPoolName,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	// Resolve globals late so that a logger or provider installed before
	// NewPool is honored.
	if cfg.logger == nil {
		cfg.logger = zap.L()
	}
	if cfg.meterProvider == nil {
		cfg.meterProvider = otel.GetMeterProvider()
	}
	return cfg
}

// WithName sets the name attached to the pool's log entries and metric
// attributes. Defaults to "rvpool".
func WithName(name string) Option {
	return func(c *poolConfig) {
		c.name = name
	}
}

// WithLogger sets the logger used for worker lifecycle events and recovered
// task panics. Defaults to [zap.L] as of the call to [NewPool].
func WithLogger(logger *zap.Logger) Option {
	return func(c *poolConfig) {
		c.logger = logger
	}
}

// WithMeterProvider sets the provider of the meter used to record pool
// metrics. Defaults to [otel.GetMeterProvider] as of the call to [NewPool].
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(c *poolConfig) {
		c.meterProvider = provider
	}
}

// DefaultWorkerCount returns the number of workers a pool needs to occupy all
// of the hardware parallelism available to the Go scheduler.
func DefaultWorkerCount() int {
	return runtime.GOMAXPROCS(0)
}
