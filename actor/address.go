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
	"errors"
	"fmt"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/multierr"

	gerrors "github.com/tochemey/stage/errors"
	"github.com/tochemey/stage/future"
	"github.com/tochemey/stage/log"
	"github.com/tochemey/stage/runtime"
)

// addressCore is the state shared by every handle pointing at the same group
// of instances. refs counts the owning handles; when it hits zero the
// instances are stopped.
type addressCore struct {
	pids       []*PID
	strategy   Routing
	refs       *atomic.Int64
	askTimeout time.Duration
	logger     log.Logger
}

// Address is a handle to a started actor group. It is the only way to reach
// the instances behind it: messages go in through Send, Ask and their delayed
// and closure variants, and the group's lifetime is tied to the set of owning
// handles.
//
// An Address is safe for concurrent use. Owning handles are created by
// Builder.Start and Clone; closing the last owning handle stops the group.
// Non-owning handles (from Weak upgrades gone stale, or ReceiveContext.Self)
// never keep the group alive.
type Address struct {
	core   *addressCore
	weak   bool
	closed *atomic.Bool
}

// newAddress wraps freshly started instances in the first owning handle.
func newAddress(pids []*PID, strategy Routing, askTimeout time.Duration, logger log.Logger) *Address {
	return &Address{
		core: &addressCore{
			pids:       pids,
			strategy:   strategy,
			refs:       atomic.NewInt64(1),
			askTimeout: askTimeout,
			logger:     logger,
		},
		closed: atomic.NewBool(false),
	}
}

// newSelfAddress builds the non-owning handle a handler sees as Self.
func newSelfAddress(pid *PID) *Address {
	return &Address{
		core: &addressCore{
			pids:       []*PID{pid},
			refs:       atomic.NewInt64(0),
			askTimeout: DefaultAskTimeout,
			logger:     pid.logger,
		},
		weak:   true,
		closed: atomic.NewBool(false),
	}
}

// route picks the destination instance for one message.
func (core *addressCore) route(message any) *PID {
	if len(core.pids) == 1 || core.strategy == nil {
		return core.pids[0]
	}
	index := core.strategy.Route(message, len(core.pids))
	if index < 0 || index >= len(core.pids) {
		index = 0
	}
	return core.pids[index]
}

// stopAll poisons every instance and waits for each to finish PostStop, or
// for ctx to expire.
func (core *addressCore) stopAll(ctx context.Context) error {
	for _, pid := range core.pids {
		pid.stop()
	}
	var errs error
	for _, pid := range core.pids {
		select {
		case <-pid.Done():
		case <-ctx.Done():
			errs = multierr.Append(errs, fmt.Errorf("actor=%s did not stop: %w", pid.id, ctx.Err()))
		}
	}
	return errs
}

// Send delivers message to one instance of the group, fire-and-forget. The
// message is queued in FIFO order with respect to other sends through any
// handle. It returns ErrMailboxClosed when the group has stopped.
func (addr *Address) Send(ctx context.Context, message any) error {
	if message == nil {
		return gerrors.ErrInvalidMessage
	}
	pid := addr.core.route(message)
	rctx := contextFromPool().build(ctx, pid, message, userMessage)
	return pid.doReceive(rctx)
}

// Ask delivers message to one instance and blocks until the handler responds,
// the context expires, or the group stops.
//
// When ctx carries no deadline the handle's ask timeout applies (10s unless
// configured). An expired deadline surfaces as ErrRequestTimeout, a canceled
// context as ErrRequestCanceled. Asking an instance hosted on the same Serial
// runtime from inside a handler deadlocks; use Send or NotifyLater there.
func (addr *Address) Ask(ctx context.Context, message any) (any, error) {
	if message == nil {
		return nil, gerrors.ErrInvalidMessage
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, addr.core.askTimeout)
		defer cancel()
	}

	pid := addr.core.route(message)
	comp := future.NewCompletable()
	rctx := contextFromPool().build(ctx, pid, message, userMessage).withResponse(comp)
	if err := pid.doReceive(rctx); err != nil {
		return nil, err
	}

	value, err := comp.Future().Await(ctx)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return nil, gerrors.ErrRequestTimeout
	case errors.Is(err, context.Canceled):
		return nil, gerrors.ErrRequestCanceled
	}
	return value, err
}

// SendLater schedules message for delivery to one instance after delay, on
// the group's runtime timer. The returned cancel reports whether delivery was
// averted. Messages still pending when the group stops follow the
// handle-delayed-on-stop policy.
func (addr *Address) SendLater(message any, delay time.Duration) runtime.CancelFunc {
	if message == nil {
		return func() bool { return false }
	}
	return addr.core.route(message).notifyLater(message, delay)
}

// Run executes task against one instance with the same exclusivity guarantee
// as a message handler: no other handler runs on that instance while task
// does. It blocks for the result like Ask.
func (addr *Address) Run(ctx context.Context, task func(ctx context.Context, instance Actor) (any, error)) (any, error) {
	if task == nil {
		return nil, gerrors.ErrInvalidMessage
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, addr.core.askTimeout)
		defer cancel()
	}

	pid := addr.core.route(task)
	comp := future.NewCompletable()
	rctx := contextFromPool().build(ctx, pid, nil, closureMessage).withResponse(comp)
	rctx.withTask(func(taskCtx context.Context, instance Actor) {
		value, err := task(taskCtx, instance)
		if err != nil {
			rctx.Err(err)
			return
		}
		rctx.Response(value)
	})
	if err := pid.doReceive(rctx); err != nil {
		return nil, err
	}

	value, err := comp.Future().Await(ctx)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return nil, gerrors.ErrRequestTimeout
	case errors.Is(err, context.Canceled):
		return nil, gerrors.ErrRequestCanceled
	}
	return value, err
}

// RunLater schedules task to execute against one instance after delay,
// fire-and-forget. The returned cancel reports whether execution was averted.
func (addr *Address) RunLater(task func(ctx context.Context, instance Actor), delay time.Duration) runtime.CancelFunc {
	if task == nil {
		return func() bool { return false }
	}
	return addr.core.route(task).runLater(task, delay)
}

// Broadcast delivers message to every instance of the group, fire-and-forget.
// Per-instance failures are combined into the returned error.
func (addr *Address) Broadcast(ctx context.Context, message any) error {
	if message == nil {
		return gerrors.ErrInvalidMessage
	}
	var errs error
	for _, pid := range addr.core.pids {
		rctx := contextFromPool().build(ctx, pid, message, userMessage)
		if err := pid.doReceive(rctx); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

// Clone creates another owning handle on the same group. Each clone must be
// closed independently; the group stops once every owning handle is closed.
// Cloning a non-owning or already closed handle returns a non-owning view.
func (addr *Address) Clone() *Address {
	if addr.weak || addr.closed.Load() {
		return &Address{core: addr.core, weak: true, closed: atomic.NewBool(false)}
	}
	addr.core.refs.Inc()
	return &Address{core: addr.core, closed: atomic.NewBool(false)}
}

// Close releases this owning handle. When it was the last one, the group is
// stopped: every instance drains its mailbox, failing queued requests with
// ErrMailboxClosed, and runs PostStop. Close blocks until the group has fully
// stopped or ctx expires. Closing a handle twice, or closing a non-owning
// handle, is a no-op.
func (addr *Address) Close(ctx context.Context) error {
	if addr.weak || !addr.closed.CompareAndSwap(false, true) {
		return nil
	}
	if addr.core.refs.Dec() > 0 {
		return nil
	}
	return addr.core.stopAll(ctx)
}

// Weak returns a non-owning reference to the group. It can be upgraded back
// to an owning handle while at least one owning handle is still open.
func (addr *Address) Weak() *WeakAddress {
	return &WeakAddress{core: addr.core}
}

// IsClosed reports whether the group has no owning handle left.
func (addr *Address) IsClosed() bool {
	return addr.core.refs.Load() <= 0
}

// RunningCount returns the number of instances currently accepting messages.
func (addr *Address) RunningCount() int {
	count := 0
	for _, pid := range addr.core.pids {
		if pid.IsRunning() {
			count++
		}
	}
	return count
}

// WeakAddress is a reference to an actor group that does not keep it alive.
type WeakAddress struct {
	core *addressCore
}

// Upgrade turns the weak reference into an owning handle. It fails with
// ErrAddressClosed once the last owning handle has been closed.
func (weak *WeakAddress) Upgrade() (*Address, error) {
	for {
		refs := weak.core.refs.Load()
		if refs <= 0 {
			return nil, gerrors.ErrAddressClosed
		}
		if weak.core.refs.CompareAndSwap(refs, refs+1) {
			return &Address{core: weak.core, closed: atomic.NewBool(false)}, nil
		}
	}
}

// Ask sends message through addr and decodes the response into R. A response
// of a different dynamic type fails with ErrTypeMismatch.
func Ask[R any](ctx context.Context, addr *Address, message any) (R, error) {
	var zero R
	value, err := addr.Ask(ctx, message)
	if err != nil {
		return zero, err
	}
	typed, ok := value.(R)
	if !ok {
		return zero, fmt.Errorf("%w: response is %T not %T", gerrors.ErrTypeMismatch, value, zero)
	}
	return typed, nil
}
