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

package actor

import (
	"time"

	"github.com/tochemey/stage/log"
	"github.com/tochemey/stage/runtime"
)

// Option configures a Builder before Start.
type Option interface {
	// Apply sets the Option value of a Builder.
	Apply(builder *Builder)
}

// enforce compilation error
var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(builder *Builder)

// Apply applies the Builder's option.
func (f OptionFunc) Apply(builder *Builder) {
	f(builder)
}

// WithRuntime sets the substrate the instances run on. The default is the
// goroutine runtime.
func WithRuntime(rt runtime.Runtime) Option {
	return OptionFunc(func(builder *Builder) {
		builder.runtime = rt
	})
}

// WithPoolSize sets the number of instances started behind the address. Each
// instance owns its state and mailbox; messages are spread across them by the
// routing strategy. The default is 1.
func WithPoolSize(size int) Option {
	return OptionFunc(func(builder *Builder) {
		builder.poolSize = size
	})
}

// WithMailboxCapacity bounds every instance's mailbox. A full mailbox blocks
// senders until the instance makes room. The default is an unbounded mailbox.
func WithMailboxCapacity(capacity int) Option {
	return OptionFunc(func(builder *Builder) {
		builder.mailboxCapacity = capacity
	})
}

// WithAskTimeout sets the deadline applied to Ask and Run calls whose context
// carries none. The default is DefaultAskTimeout.
func WithAskTimeout(timeout time.Duration) Option {
	return OptionFunc(func(builder *Builder) {
		builder.askTimeout = timeout
	})
}

// WithRestartOnError makes a failing or panicking handler restart its
// instance with fresh state from the factory, instead of the default policy
// (keep running on handler errors, stop on panics).
func WithRestartOnError() Option {
	return OptionFunc(func(builder *Builder) {
		builder.restartOnError = true
	})
}

// WithHandleDelayedOnStop makes a stopping instance handle its still-pending
// delayed messages inline instead of dropping them.
func WithHandleDelayedOnStop() Option {
	return OptionFunc(func(builder *Builder) {
		builder.handleDelayedOnStop = true
	})
}

// WithLogger sets the logger used by the instances.
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(builder *Builder) {
		builder.logger = logger
	})
}

// WithRouting sets the strategy spreading messages across a pool. It has no
// effect on a pool of one. The default is round-robin.
func WithRouting(strategy Routing) Option {
	return OptionFunc(func(builder *Builder) {
		builder.strategy = strategy
	})
}
