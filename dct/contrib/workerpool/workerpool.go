// Copyright 2025 go-blockdct Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool provides a fixed-size pool of worker goroutines for
// CPU-bound transform work. A Pool is created once per run, receives one
// independent task per row slice, and Each acts as the single barrier: it
// returns only once every submitted task has finished.
//
// Usage:
//
//	pool := workerpool.New(len(ranges))
//	defer pool.Close()
//
//	pool.Each(len(ranges), func(i int) {
//	    process(ranges[i])
//	})
//	// All ranges are complete here.
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a persistent worker pool. Workers are spawned once at creation and
// reused by every Each or Chunks call until Close.
type Pool struct {
	numWorkers int
	workC      chan workItem
	closeOnce  sync.Once
	closed     atomic.Bool
}

// workItem is a single task together with the barrier of the call that submitted it.
type workItem struct {
	fn      func()
	barrier *sync.WaitGroup
}

// New creates a new worker pool with the specified number of workers.
// Workers are spawned immediately and persist until Close is called.
// If numWorkers <= 0, uses GOMAXPROCS.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		workC:      make(chan workItem, numWorkers),
	}

	for range numWorkers {
		go p.worker()
	}

	return p
}

func (p *Pool) worker() {
	for item := range p.workC {
		item.fn()
		item.barrier.Done()
	}
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Close shuts down the worker pool. All pending work will complete.
// Calling Close multiple times is safe.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.workC)
	})
}

// Each runs fn(i) for every i in [0, n) as n independent tasks and blocks
// until all of them complete. Tasks may run in any order and concurrently, so
// fn must only write state owned by index i.
//
// Tasks are pulled from a shared queue: with n equal to NumWorkers every task
// usually lands on its own worker, but a worker that finishes early may take a
// second task, and n == 1 runs on the calling goroutine. Results do not
// depend on which goroutine runs a task.
//
// After Close, Each runs the tasks sequentially on the calling goroutine.
func (p *Pool) Each(n int, fn func(i int)) {
	if n <= 0 {
		return
	}

	if p.closed.Load() || n == 1 {
		for i := range n {
			fn(i)
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(n)
	for i := range n {
		p.workC <- workItem{
			fn: func() {
				fn(i)
			},
			barrier: &wg,
		}
	}
	wg.Wait()
}

// Chunks splits [0, n) into at most NumWorkers contiguous chunks and runs
// fn(start, end) for each of them through Each.
func (p *Pool) Chunks(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	chunks := min(p.numWorkers, n)
	p.Each(chunks, func(i int) {
		fn(i*n/chunks, (i+1)*n/chunks)
	})
}
