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

// Package actor implements the execution engine: stateful message handlers
// spawned onto an interchangeable runtime substrate and reached exclusively
// through Address handles.
package actor

import (
	"context"
)

// Actor defines the core interface for an actor in the engine's concurrency
// model.
//
// Actors are isolated units of computation that communicate exclusively via
// message passing. Each actor instance has its own mailbox and processes
// messages sequentially, ensuring thread safety without explicit
// synchronization: the instance's state is owned by its run loop and is never
// touched by two handler invocations at once.
//
// The lifecycle of an actor instance follows three phases:
//  1. PreStart – setup before message handling begins
//  2. Receive – the message handling loop
//  3. PostStop – cleanup after the instance has stopped
type Actor interface {
	// PreStart is invoked once before the instance processes any message.
	//
	// Use this hook to initialize state or acquire external resources. If an
	// error is returned the instance fails to start and never processes a
	// message; the failure is surfaced to the caller of Builder.Start.
	PreStart(ctx context.Context) error

	// Receive handles one message popped from the instance's mailbox.
	//
	// Receive is invoked sequentially per instance: the run loop never starts
	// a second invocation before the current one returns. A handler may block
	// on external I/O; while it does, the mailbox keeps queueing.
	Receive(ctx *ReceiveContext)

	// PostStop is invoked after the instance has processed its final message
	// and is about to terminate. It is called exactly once per instance, even
	// when a Receive invocation panicked.
	PostStop(ctx context.Context) error
}
