// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package rvpool

import (
	"sync"
	"time"

	"github.com/petenewcomb/rvpool-go/internal/state"
	"go.uber.org/zap"
)

// A Pool is a fixed set of long-lived worker goroutines that execute [Task]
// values taken from a shared [TaskQueue] in submission order. Workers are
// started by [NewPool] and stopped by [Pool.Shutdown]; none are created or
// destroyed in between, so the cost of starting them is paid once no matter
// how many tasks or reductions the pool serves. The one exception is a task
// that calls [runtime.Goexit], which ends its worker's goroutine; the pool
// logs it and starts a replacement.
//
// A Pool is safe for concurrent use by multiple goroutines.
type Pool struct {
	name    string
	logger  *zap.Logger
	metrics *poolMetrics
	queue   *TaskQueue
	workers int
	busy    state.InFlightCounter
	wg      sync.WaitGroup

	shutdownOnce sync.Once
}

// NewPool starts workerCount workers and returns a pool ready to accept tasks.
// It does not wait for any task to be submitted.
//
// Returns [ErrInvalidWorkerCount] if workerCount is less than one, and an
// error if the pool's metric instruments cannot be created. Goroutine creation
// itself cannot fail, so these are the only startup failures. Use
// [DefaultWorkerCount] to size the pool to the available parallelism.
func NewPool(workerCount int, opts ...Option) (*Pool, error) {
	if workerCount < 1 {
		return nil, ErrInvalidWorkerCount
	}
	cfg := newPoolConfig(opts)

	p := &Pool{
		name:    cfg.name,
		logger:  cfg.logger,
		queue:   NewTaskQueue(),
		workers: workerCount,
	}
	m, err := newPoolMetrics(cfg.meterProvider, p)
	if err != nil {
		return nil, err
	}
	p.metrics = m

	p.wg.Add(workerCount)
	for id := range workerCount {
		go p.work(id)
	}
	p.logger.Debug("Pool started",
		zap.String("pool", p.name),
		zap.Int("workers", workerCount))
	return p, nil
}

// Submit queues task for execution by the next free worker. Tasks submitted
// from a single goroutine start in the order they were submitted.
//
// Returns [ErrPoolShutdown] if [Pool.Shutdown] has been called; the task is
// then neither queued nor run. Panics if task is nil.
func (p *Pool) Submit(task Task) error {
	if err := p.queue.Submit(task); err != nil {
		return err
	}
	p.metrics.taskSubmitted()
	return nil
}

// Shutdown stops the pool from accepting tasks, lets the workers finish every
// task already queued, and blocks until all of them have exited.
//
// Only the first call does any work. Later and concurrent calls block until
// that shutdown is complete and then return, so every caller may rely on no
// worker running once Shutdown returns.
//
// Shutdown must not be called from within a task, since the calling worker
// would wait for itself.
func (p *Pool) Shutdown() {
	p.shutdownOnce.Do(func() {
		p.logger.Debug("Pool shutting down",
			zap.String("pool", p.name),
			zap.Int("queued", p.queue.Len()))
		p.queue.RequestShutdown()
		p.wg.Wait()
		if err := p.metrics.close(); err != nil {
			p.logger.Warn("Failed to unregister pool metrics",
				zap.String("pool", p.name),
				zap.Error(err))
		}
		p.logger.Debug("Pool stopped", zap.String("pool", p.name))
	})
}

// Name returns the name given with [WithName].
func (p *Pool) Name() string {
	return p.name
}

// Workers returns the fixed number of workers in the pool.
func (p *Pool) Workers() int {
	return p.workers
}

// QueueLen returns the number of tasks waiting for a worker.
func (p *Pool) QueueLen() int {
	return p.queue.Len()
}

// Busy returns the number of workers currently executing a task.
func (p *Pool) Busy() int {
	return p.busy.Load()
}

func (p *Pool) work(id int) {
	defer p.wg.Done()
	stopped := false
	defer func() {
		// Only a task calling runtime.Goexit unwinds the loop without the
		// shutdown signal. Start a replacement before this worker is counted
		// out.
		if !stopped {
			p.wg.Add(1)
			go p.work(id)
		}
	}()
	for {
		task, ok := p.queue.Take()
		if !ok {
			p.logger.Debug("Worker exiting",
				zap.String("pool", p.name),
				zap.Int("worker", id))
			stopped = true
			return
		}
		p.run(id, task)
	}
}

// run executes a single task, confining any panic to that task.
func (p *Pool) run(id int, task Task) {
	p.busy.Increment()
	startTime := time.Now()
	returned := false
	defer func() {
		r := recover()
		p.busy.Decrement()
		outcome := taskReturned
		switch {
		case r != nil:
			outcome = taskPanicked
			p.logger.Error("Task panicked",
				zap.String("pool", p.name),
				zap.Int("worker", id),
				zap.Any("panic", r),
				zap.Stack("stack"))
		case !returned:
			outcome = taskExited
			p.logger.Error("Task called runtime.Goexit",
				zap.String("pool", p.name),
				zap.Int("worker", id))
		}
		p.metrics.taskFinished(time.Since(startTime), outcome)
	}()
	task()
	returned = true
}
