/*
 * Copyright 2022 The Gremlins Authors
 *
 *    Licensed under the Apache License, Version 2.0 (the "License");
 *    you may not use this file except in compliance with the License.
 *    You may obtain a copy of the License at
 *
 *        http://www.apache.org/licenses/LICENSE-2.0
 *
 *    Unless required by applicable law or agreed to in writing, software
 *    distributed under the License is distributed on an "AS IS" BASIS,
 *    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *    See the License for the specific language governing permissions and
 *    limitations under the License.
 */

// Package workerpool fans per-file mutation work out across a fixed pool
// of goroutines, one Worker each, following the teacher's dispatch shape
// (an unbuffered Executor channel, every Worker pulling and running the next
// one handed to it) generalized from test execution to mutation generation.
package workerpool

import (
	"runtime"
	"sync"

	"github.com/go-gremlins/solmutate/internal/configuration"
)

// Executor is one unit of work a Worker runs. The generator submits one
// Executor per input file, which produces all of that file's mutants.
type Executor interface {
	Start(w *Worker)
}

// Worker pulls Executors off a shared queue until it is closed. Name/ID
// exist purely for logging/diagnostics - they carry no scheduling meaning.
type Worker struct {
	ID   int
	Name string
	done chan struct{}
}

// NewWorker builds a Worker with the given id/name, not yet started.
func NewWorker(id int, name string) *Worker {
	return &Worker{ID: id, Name: name, done: make(chan struct{})}
}

// Start launches the Worker's pull loop in its own goroutine, reading
// Executors from queue until it is closed.
func (w *Worker) Start(queue <-chan Executor) {
	go func() {
		defer close(w.done)
		for ex := range queue {
			ex.Start(w)
		}
	}()
}

// Wait blocks until the Worker's pull loop has exited (the queue it was
// started with was closed and drained).
func (w *Worker) Wait() {
	<-w.done
}

// Pool is a fixed-size set of Workers sharing one Executor queue.
type Pool struct {
	name    string
	workers []*Worker
	queue   chan Executor
}

// Initialize builds a Pool sized from configuration.MutateWorkersKey: 0 (the
// default) means runtime.NumCPU(), any positive value overrides it. name
// tags every Worker for logging.
func Initialize(name string) *Pool {
	n := configuration.Get[int](configuration.MutateWorkersKey)
	if n <= 0 {
		n = runtime.NumCPU()
	}

	workers := make([]*Worker, n)
	for i := 0; i < n; i++ {
		workers[i] = NewWorker(i, name)
	}

	return &Pool{name: name, workers: workers, queue: make(chan Executor)}
}

// Start launches every Worker in the pool.
func (p *Pool) Start() {
	for _, w := range p.workers {
		w.Start(p.queue)
	}
}

// AppendExecutor hands ex to whichever Worker picks it up next. It blocks
// until a Worker is free, which is the back-pressure that keeps generation
// from racing ahead of output writing.
func (p *Pool) AppendExecutor(ex Executor) {
	p.queue <- ex
}

// ActiveWorkers reports how many Workers this Pool started.
func (p *Pool) ActiveWorkers() int {
	return len(p.workers)
}

// Stop closes the queue and waits for every Worker's pull loop to exit.
func (p *Pool) Stop() {
	close(p.queue)
	var wg sync.WaitGroup
	wg.Add(len(p.workers))
	for _, w := range p.workers {
		w := w
		go func() {
			defer wg.Done()
			w.Wait()
		}()
	}
	wg.Wait()
}
