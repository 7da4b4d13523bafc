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

// Package runtime abstracts the execution substrate the actor engine runs on.
//
// The engine needs exactly two capabilities from its substrate: scheduling a
// task and firing a callback after a delay. Everything else in the engine is
// written against this contract and never branches on which implementation is
// active. Four implementations ship with the engine:
//
//   - Go: plain goroutines, tasks run in parallel across OS threads.
//   - Workers: a fixed-size pool of goroutines, bounding engine parallelism.
//   - Serial: a single dispatcher goroutine, tasks run one at a time in
//     submission order (cooperative single-threaded execution).
//   - Virtual: a deterministic executor with a virtual clock, driven
//     manually by its host (typically a test).
package runtime

import "time"

// CancelFunc cancels a pending timer. It reports whether the cancellation
// happened before the timer fired.
type CancelFunc func() bool

// Runtime is the capability set the actor engine requires from its execution
// substrate.
//
// Spawn schedules the given task for asynchronous execution. It must not run
// the task inline and must not block; when the runtime cannot accept the task
// it returns an error and the task never runs.
//
// After arranges for fire to be invoked on this runtime once the given
// duration has elapsed. The call itself never blocks; the returned CancelFunc
// stops a timer that has not fired yet.
type Runtime interface {
	// Name returns the substrate name for diagnostics.
	Name() string
	// Spawn schedules a task for asynchronous execution.
	Spawn(task func()) error
	// After invokes fire on this runtime after the given duration.
	After(d time.Duration, fire func()) CancelFunc
}
