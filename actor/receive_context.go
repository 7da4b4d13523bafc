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
	"sync"
	"time"

	"github.com/tochemey/stage/future"
	"github.com/tochemey/stage/log"
	"github.com/tochemey/stage/runtime"
)

// receiveKind discriminates the envelopes flowing through a mailbox.
type receiveKind int8

const (
	// userMessage is a message submitted through Send, Ask or a delayed send.
	userMessage receiveKind = iota
	// closureMessage carries a task submitted through Run or RunLater; it
	// executes against the instance with exclusive access to its state.
	closureMessage
	// stopMessage is the internal poison pill that shuts the instance down.
	// Everything behind it in the mailbox is drained, not handled.
	stopMessage
)

// contextPool recycles envelopes so that steady-state sends do not allocate.
var contextPool = sync.Pool{New: func() any { return new(ReceiveContext) }}

// contextFromPool returns a zeroed envelope from the pool.
func contextFromPool() *ReceiveContext {
	return contextPool.Get().(*ReceiveContext)
}

// returnToPool resets the envelope and hands it back. Only the consumer side
// calls this, after the handler invocation has fully completed.
func returnToPool(rctx *ReceiveContext) {
	rctx.reset()
	contextPool.Put(rctx)
}

// ReceiveContext is both the mailbox envelope and the API surface a handler
// sees while processing one message. It is pooled; handlers must not retain
// it past the Receive invocation.
type ReceiveContext struct {
	ctx      context.Context
	message  any
	kind     receiveKind
	response *future.Completable
	task     func(ctx context.Context, instance Actor)
	pid      *PID
	err      error
	stop     bool
}

func (rctx *ReceiveContext) build(ctx context.Context, pid *PID, message any, kind receiveKind) *ReceiveContext {
	rctx.ctx = ctx
	rctx.pid = pid
	rctx.message = message
	rctx.kind = kind
	return rctx
}

func (rctx *ReceiveContext) withResponse(response *future.Completable) *ReceiveContext {
	rctx.response = response
	return rctx
}

func (rctx *ReceiveContext) withTask(task func(ctx context.Context, instance Actor)) *ReceiveContext {
	rctx.task = task
	return rctx
}

func (rctx *ReceiveContext) reset() {
	rctx.ctx = nil
	rctx.message = nil
	rctx.kind = userMessage
	rctx.response = nil
	rctx.task = nil
	rctx.pid = nil
	rctx.err = nil
	rctx.stop = false
}

// Context returns the go context attached to the message by the sender. It
// carries the sender's deadline for request/response sends.
func (rctx *ReceiveContext) Context() context.Context {
	return rctx.ctx
}

// Message returns the message being processed.
func (rctx *ReceiveContext) Message() any {
	return rctx.message
}

// Self returns a non-owning address of the instance processing the message.
// Sends through it succeed while the instance runs and fail with
// ErrMailboxClosed once it has stopped; holding it never keeps the actor
// alive.
func (rctx *ReceiveContext) Self() *Address {
	return rctx.pid.selfAddress()
}

// Response completes the pending request/response send with the given value.
// It is a no-op when the message was fire-and-forget.
func (rctx *ReceiveContext) Response(value any) {
	if rctx.response != nil {
		rctx.response.Success(value)
	}
}

// Err reports a handler failure. For a request/response send the asker's
// future fails with err; in all cases the instance's failure policy
// (stop or restart, per the builder configuration) applies after the
// handler returns.
func (rctx *ReceiveContext) Err(err error) {
	rctx.err = err
	if rctx.response != nil {
		rctx.response.Failure(err)
	}
}

// Stop asks the instance to shut down gracefully once the current handler
// returns. Messages already queued behind the current one are drained, not
// handled.
func (rctx *ReceiveContext) Stop() {
	rctx.stop = true
}

// NotifyLater schedules message to be delivered to this same instance after
// the given delay, using the runtime's timer facility. The returned cancel
// function reports whether the delivery was averted.
func (rctx *ReceiveContext) NotifyLater(message any, delay time.Duration) runtime.CancelFunc {
	return rctx.pid.notifyLater(message, delay)
}

// Logger returns the logger of the hosting instance.
func (rctx *ReceiveContext) Logger() log.Logger {
	return rctx.pid.logger
}

// Runtime returns the substrate the instance runs on.
func (rctx *ReceiveContext) Runtime() runtime.Runtime {
	return rctx.pid.runtime
}
