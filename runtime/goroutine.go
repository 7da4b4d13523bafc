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

import "time"

// Goroutine is the default multi-threaded substrate. Every task gets its own
// goroutine and the Go scheduler distributes them across OS threads.
type Goroutine struct{}

// enforce compilation error
var _ Runtime = (*Goroutine)(nil)

// NewGoroutine creates the default goroutine-per-task runtime.
func NewGoroutine() *Goroutine {
	return &Goroutine{}
}

// Name returns the substrate name for diagnostics.
func (*Goroutine) Name() string {
	return "goroutine"
}

// Spawn runs the task on a fresh goroutine. It never fails.
func (*Goroutine) Spawn(task func()) error {
	go task()
	return nil
}

// After invokes fire on its own goroutine after the given duration.
func (*Goroutine) After(d time.Duration, fire func()) CancelFunc {
	t := time.AfterFunc(d, fire)
	return t.Stop
}
