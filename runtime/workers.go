// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package runtime

import (
	gruntime "runtime"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/tochemey/stage/errors"
)

// Workers is a lightweight-thread substrate: a fixed set of worker goroutines
// consuming an unbounded task queue. Spawn never blocks; tasks wait in the
// queue until a worker is free.
//
// Tasks are executed in roughly FIFO order but may run concurrently with one
// another up to the pool size. Use Serial when strict sequential execution is
// required.
type Workers struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func()
	size    int
	started bool
	stopped *atomic.Bool
	done    sync.WaitGroup
}

// enforce compilation error
var _ Runtime = (*Workers)(nil)

// NewWorkers creates a worker-pool runtime with the given number of workers.
// A size of zero or less defaults to GOMAXPROCS. Workers are started on the
// first Spawn.
func NewWorkers(size int) *Workers {
	if size <= 0 {
		size = gruntime.GOMAXPROCS(0)
	}
	w := &Workers{
		size:    size,
		stopped: atomic.NewBool(false),
	}
	w.cond = sync.NewCond(&w.mu)
	return w
}

// Name returns the substrate name for diagnostics.
func (w *Workers) Name() string {
	return "workers"
}

// Spawn appends the task to the queue and wakes one worker.
// It returns ErrRuntimeStopped after Stop.
func (w *Workers) Spawn(task func()) error {
	if w.stopped.Load() {
		return errors.ErrRuntimeStopped
	}

	w.mu.Lock()
	if !w.started {
		w.started = true
		w.done.Add(w.size)
		for i := 0; i < w.size; i++ {
			go w.worker()
		}
	}
	w.queue = append(w.queue, task)
	w.mu.Unlock()
	w.cond.Signal()
	return nil
}

// After invokes fire on the pool after the given duration.
func (w *Workers) After(d time.Duration, fire func()) CancelFunc {
	t := time.AfterFunc(d, func() {
		_ = w.Spawn(fire)
	})
	return t.Stop
}

// Stop drains the queue and terminates the workers. Queued tasks are executed
// before the workers exit; Spawn calls made after Stop are rejected.
func (w *Workers) Stop() {
	if !w.stopped.CompareAndSwap(false, true) {
		return
	}
	w.mu.Lock()
	started := w.started
	w.cond.Broadcast()
	w.mu.Unlock()
	if started {
		w.done.Wait()
	}
}

func (w *Workers) worker() {
	defer w.done.Done()
	for {
		w.mu.Lock()
		for len(w.queue) == 0 {
			if w.stopped.Load() {
				w.mu.Unlock()
				return
			}
			w.cond.Wait()
		}
		task := w.queue[0]
		w.queue = w.queue[1:]
		w.mu.Unlock()

		task()
	}
}
