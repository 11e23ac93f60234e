// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package sim models how a fixed pool of identical workers pulling from a
// shared FIFO queue would execute a batch of tasks whose costs are known in
// advance. The model ignores queue contention and scheduling noise, so its
// makespan is the best a pool could achieve for that batch and serves as a
// yardstick for measured reductions.
package sim
