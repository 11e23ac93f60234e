// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package rvpool

// A Task is a unit of deferred work executed by one of a [Pool]'s workers. It
// takes no arguments and returns nothing; any inputs are expected to be
// captured by specifying the Task as a [function literal], and any outputs
// must be written through captured variables by the Task itself.
//
// Each submitted Task runs at most once, on exactly one worker goroutine, so
// access to captured state shared with other goroutines must be synchronized
// by the caller. [Reduce] shows the intended pattern: each task writes only
// its own result slot and a [Barrier] publishes the writes.
//
// A Task that panics does not take down its worker. The pool recovers the
// panic and logs it, and the worker moves on to the next task. Tasks that need
// to report failure to the submitter must arrange that through captured
// state.
//
// [function literal]: https://go.dev/ref/spec#Function_literals
type Task = func()
