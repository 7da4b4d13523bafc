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
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/tochemey/stage/errors"
)

// Serial is a single-threaded cooperative substrate. All tasks run on one
// dispatcher goroutine, strictly in submission order, one at a time.
//
// A task that blocks stalls every actor scheduled on this runtime. Handlers
// running on Serial must yield by returning; in particular an Ask against an
// actor hosted on the same Serial runtime deadlocks, which mirrors the
// caller responsibility documented on Address.Ask.
type Serial struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func()
	started bool
	stopped *atomic.Bool
	done    sync.WaitGroup
}

// enforce compilation error
var _ Runtime = (*Serial)(nil)

// NewSerial creates a single-threaded cooperative runtime. The dispatcher
// goroutine is started on the first Spawn.
func NewSerial() *Serial {
	s := &Serial{
		stopped: atomic.NewBool(false),
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Name returns the substrate name for diagnostics.
func (s *Serial) Name() string {
	return "serial"
}

// Spawn appends the task to the dispatcher queue.
// It returns ErrRuntimeStopped after Stop.
func (s *Serial) Spawn(task func()) error {
	if s.stopped.Load() {
		return errors.ErrRuntimeStopped
	}

	s.mu.Lock()
	if !s.started {
		s.started = true
		s.done.Add(1)
		go s.dispatch()
	}
	s.queue = append(s.queue, task)
	s.mu.Unlock()
	s.cond.Signal()
	return nil
}

// After invokes fire on the dispatcher after the given duration, preserving
// the single-threaded execution guarantee for timer callbacks.
func (s *Serial) After(d time.Duration, fire func()) CancelFunc {
	t := time.AfterFunc(d, func() {
		_ = s.Spawn(fire)
	})
	return t.Stop
}

// Stop drains the queue and terminates the dispatcher. Queued tasks run to
// completion; Spawn calls made after Stop are rejected.
func (s *Serial) Stop() {
	if !s.stopped.CompareAndSwap(false, true) {
		return
	}
	s.mu.Lock()
	started := s.started
	s.cond.Broadcast()
	s.mu.Unlock()
	if started {
		s.done.Wait()
	}
}

func (s *Serial) dispatch() {
	defer s.done.Done()
	for {
		s.mu.Lock()
		for len(s.queue) == 0 {
			if s.stopped.Load() {
				s.mu.Unlock()
				return
			}
			s.cond.Wait()
		}
		task := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		task()
	}
}
