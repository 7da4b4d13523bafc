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
	"sort"
	"sync"
	"time"
)

// Virtual is an embedded substrate driven entirely by its host. Nothing runs
// until the host pumps the executor: Spawn only queues tasks, After only
// registers virtual timers, and time advances exclusively through Advance.
//
// This makes actor behavior fully deterministic, which is what tests (and
// hosts that own their own event loop) need. Virtual is safe for concurrent
// producers, but Advance and RunUntilIdle must be called from one goroutine.
type Virtual struct {
	mu     sync.Mutex
	now    time.Time
	tasks  []func()
	timers []*virtualTimer
	seq    int
}

type virtualTimer struct {
	at       time.Time
	seq      int
	fire     func()
	canceled bool
}

// enforce compilation error
var _ Runtime = (*Virtual)(nil)

// NewVirtual creates a virtual runtime whose clock starts at the given time.
func NewVirtual(start time.Time) *Virtual {
	return &Virtual{now: start}
}

// Name returns the substrate name for diagnostics.
func (v *Virtual) Name() string {
	return "virtual"
}

// Now returns the current virtual time.
func (v *Virtual) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

// Spawn queues the task; it runs on the next RunUntilIdle or Advance call.
func (v *Virtual) Spawn(task func()) error {
	v.mu.Lock()
	v.tasks = append(v.tasks, task)
	v.mu.Unlock()
	return nil
}

// After registers a virtual timer firing once the clock has been advanced by
// at least d.
func (v *Virtual) After(d time.Duration, fire func()) CancelFunc {
	v.mu.Lock()
	timer := &virtualTimer{
		at:   v.now.Add(d),
		seq:  v.seq,
		fire: fire,
	}
	v.seq++
	v.timers = append(v.timers, timer)
	v.mu.Unlock()

	return func() bool {
		v.mu.Lock()
		defer v.mu.Unlock()
		if timer.canceled {
			return false
		}
		timer.canceled = true
		return true
	}
}

// RunUntilIdle executes queued tasks, including tasks those tasks queue in
// turn, until the queue is empty. It reports the number of tasks executed.
func (v *Virtual) RunUntilIdle() int {
	executed := 0
	for {
		v.mu.Lock()
		if len(v.tasks) == 0 {
			v.mu.Unlock()
			return executed
		}
		task := v.tasks[0]
		v.tasks = v.tasks[1:]
		v.mu.Unlock()

		task()
		executed++
	}
}

// Advance moves the virtual clock forward by d, firing every timer whose
// deadline is reached in deadline order, and runs the task queue to idle
// after each fired timer so that chains of delayed messages settle.
func (v *Virtual) Advance(d time.Duration) {
	v.mu.Lock()
	deadline := v.now.Add(d)
	v.mu.Unlock()

	for {
		v.RunUntilIdle()

		v.mu.Lock()
		next := v.nextTimerLocked(deadline)
		if next == nil {
			v.now = deadline
			v.mu.Unlock()
			break
		}
		if next.at.After(v.now) {
			v.now = next.at
		}
		v.removeTimerLocked(next)
		v.mu.Unlock()

		next.fire()
	}

	v.RunUntilIdle()
}

// nextTimerLocked returns the earliest live timer due at or before deadline.
func (v *Virtual) nextTimerLocked(deadline time.Time) *virtualTimer {
	live := v.timers[:0]
	for _, t := range v.timers {
		if !t.canceled {
			live = append(live, t)
		}
	}
	v.timers = live
	sort.SliceStable(v.timers, func(i, j int) bool {
		if v.timers[i].at.Equal(v.timers[j].at) {
			return v.timers[i].seq < v.timers[j].seq
		}
		return v.timers[i].at.Before(v.timers[j].at)
	})
	if len(v.timers) == 0 || v.timers[0].at.After(deadline) {
		return nil
	}
	return v.timers[0]
}

func (v *Virtual) removeTimerLocked(t *virtualTimer) {
	for i, candidate := range v.timers {
		if candidate == t {
			v.timers = append(v.timers[:i], v.timers[i+1:]...)
			return
		}
	}
}
