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
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	gerrors "github.com/tochemey/stage/errors"
	"github.com/tochemey/stage/log"
	"github.com/tochemey/stage/runtime"
)

// DefaultAskTimeout is the deadline applied to Ask and Run calls whose
// context carries none.
const DefaultAskTimeout = 10 * time.Second

// Builder assembles an actor group: a factory producing the instance state,
// the runtime hosting it, and the delivery policies. A Builder is not safe
// for concurrent use; build it, Start it, then share the Address.
type Builder struct {
	factory             func() Actor
	runtime             runtime.Runtime
	poolSize            int
	mailboxCapacity     int
	askTimeout          time.Duration
	restartOnError      bool
	handleDelayedOnStop bool
	logger              log.Logger
	strategy            Routing
}

// NewBuilder creates a Builder around the instance factory. The factory is
// called once per pool member at Start, and again whenever a restart policy
// replaces an instance's state.
func NewBuilder(factory func() Actor, opts ...Option) *Builder {
	builder := &Builder{
		factory:    factory,
		runtime:    runtime.NewGoroutine(),
		poolSize:   1,
		askTimeout: DefaultAskTimeout,
		logger:     log.DefaultLogger,
		strategy:   NewRoundRobinRouting(),
	}
	for _, opt := range opts {
		opt.Apply(builder)
	}
	return builder
}

// Start creates the pool, runs every instance's PreStart hook concurrently
// and returns the first owning Address. When any hook fails, instances that
// already started are stopped again and Start reports the failure; no
// half-started group ever leaks an Address.
func (builder *Builder) Start(ctx context.Context) (*Address, error) {
	if builder.poolSize <= 0 {
		return nil, gerrors.ErrInvalidPoolSize
	}

	// a runtime that cannot schedule anything must fail the start, not the
	// first send
	if err := builder.runtime.Spawn(func() {}); err != nil {
		return nil, fmt.Errorf("%w: %v", gerrors.ErrSpawnFailure, err)
	}

	pids := make([]*PID, builder.poolSize)
	eg, egCtx := errgroup.WithContext(ctx)
	for i := range pids {
		i := i
		eg.Go(func() error {
			pid := newPID(
				builder.factory,
				builder.newMailbox(),
				builder.runtime,
				builder.logger,
				builder.restartOnError,
				builder.handleDelayedOnStop,
			)
			if err := pid.start(egCtx); err != nil {
				return err
			}
			pids[i] = pid
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		for _, pid := range pids {
			if pid != nil {
				pid.stop()
			}
		}
		return nil, err
	}

	builder.logger.Infof("started %d actor(s) on runtime=%s", builder.poolSize, builder.runtime.Name())
	return newAddress(pids, builder.strategy, builder.askTimeout, builder.logger), nil
}

func (builder *Builder) newMailbox() Mailbox {
	if builder.mailboxCapacity > 0 {
		return NewBoundedMailbox(builder.mailboxCapacity)
	}
	return NewDefaultMailbox()
}
