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

// Package errors defines the sentinel errors surfaced by the stage engine.
//
// Every failure the engine reports to a caller is, or wraps, one of these
// values so that callers can branch with errors.Is.
package errors

import "errors"

var (
	// ErrMailboxClosed is returned when a message is sent to an actor whose
	// mailbox has been closed, either because the actor stopped itself or
	// because every owning Address handle was closed.
	ErrMailboxClosed = errors.New("mailbox is closed")

	// ErrRequestTimeout indicates that an Ask timed out while waiting for
	// the actor to produce a response.
	ErrRequestTimeout = errors.New("request timed out")

	// ErrRequestCanceled indicates that the caller context of an Ask was
	// canceled before the actor produced a response.
	ErrRequestCanceled = errors.New("request canceled")

	// ErrTypeMismatch is returned when a message or a response does not
	// decode to the type the caller or the handler declared.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrUnhandled is returned when an actor receives a message type it has
	// no registered handler for.
	ErrUnhandled = errors.New("unhandled message")

	// ErrSpawnFailure indicates that the configured runtime could not
	// schedule the actor task. This is fatal to the instance being started.
	ErrSpawnFailure = errors.New("runtime failed to spawn actor task")

	// ErrInitFailure is returned when the actor's PreStart hook fails during
	// initialization. The actor never processes a message.
	ErrInitFailure = errors.New("preStart failed")

	// ErrHandlerPanic is returned to the asker when the handler invocation
	// processing its message panicked.
	ErrHandlerPanic = errors.New("handler panicked")

	// ErrDisposed indicates an operation on a mailbox after Dispose.
	ErrDisposed = errors.New("mailbox is disposed")

	// ErrInvalidPoolSize is returned when an actor pool is configured with a
	// size of zero or less.
	ErrInvalidPoolSize = errors.New("pool size must be positive")

	// ErrInvalidMessage indicates that a nil or otherwise unusable message
	// was submitted.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrSchedulerNotStarted is returned when attempting to schedule a
	// message before the scheduler has started.
	ErrSchedulerNotStarted = errors.New("scheduler has not started")

	// ErrScheduledJobNotFound is returned when canceling an unknown
	// scheduled job.
	ErrScheduledJobNotFound = errors.New("scheduled job not found")

	// ErrRuntimeStopped indicates a task was submitted to a runtime that has
	// been shut down.
	ErrRuntimeStopped = errors.New("runtime is stopped")

	// ErrAddressClosed is returned by Weak address upgrades once every
	// owning handle has been closed.
	ErrAddressClosed = errors.New("address is closed")
)
