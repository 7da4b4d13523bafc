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

// Package testkit provides a message probe for unit-testing actors: point
// your actor's outbound sends at the probe's address and assert on what
// arrives.
package testkit

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/flowchartsman/retry"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/stage/actor"
	"github.com/tochemey/stage/log"
)

var errStillRunning = errors.New("actor group still running")

const (
	// MessagesQueueMax is the probe's buffered capacity.
	MessagesQueueMax int = 1000
	// DefaultTimeout bounds every Expect* assertion without an explicit
	// duration.
	DefaultTimeout time.Duration = 3 * time.Second
)

// Probe is a test double actor. Messages sent to its Address are captured and
// asserted on with the Expect* methods.
type Probe interface {
	// Address returns the probe's address, to hand to the actor under test.
	Address() *actor.Address
	// ExpectMessage asserts that the next captured message equals message.
	ExpectMessage(message any)
	// ExpectMessageWithin is ExpectMessage with an explicit deadline.
	ExpectMessageWithin(duration time.Duration, message any)
	// ExpectAnyMessage returns the next captured message, failing the test
	// when none arrives in time.
	ExpectAnyMessage() any
	// ExpectAnyMessageWithin is ExpectAnyMessage with an explicit deadline.
	ExpectAnyMessageWithin(duration time.Duration) any
	// ExpectNoMessage asserts that nothing is captured within the default
	// timeout window.
	ExpectNoMessage()
	// ExpectMessageOfType asserts that the next captured message has the same
	// dynamic type as sample, and returns it.
	ExpectMessageOfType(sample any) any
	// ExpectTerminated asserts that the given group stops within the default
	// timeout, polling its running count.
	ExpectTerminated(addr *actor.Address)
	// Stop tears the probe down.
	Stop()
}

// probeActor captures everything it receives.
type probeActor struct {
	messageQueue chan any
}

// enforce compilation error
var _ actor.Actor = (*probeActor)(nil)

func (x *probeActor) PreStart(context.Context) error { return nil }

func (x *probeActor) Receive(rctx *actor.ReceiveContext) {
	x.messageQueue <- rctx.Message()
}

func (x *probeActor) PostStop(context.Context) error { return nil }

// probe implements Probe.
type probe struct {
	pt *testing.T

	testCtx        context.Context
	addr           *actor.Address
	messageQueue   chan any
	defaultTimeout time.Duration
}

// enforce compilation error
var _ Probe = (*probe)(nil)

// New starts a probe actor and returns its handle. The probe is stopped with
// Stop; tests that forget leak a goroutine, which goleak will flag.
func New(ctx context.Context, t *testing.T) Probe {
	t.Helper()
	messageQueue := make(chan any, MessagesQueueMax)
	addr, err := actor.NewBuilder(func() actor.Actor {
		return &probeActor{messageQueue: messageQueue}
	}, actor.WithLogger(log.DiscardLogger)).Start(ctx)
	require.NoError(t, err)

	return &probe{
		pt:             t,
		testCtx:        ctx,
		addr:           addr,
		messageQueue:   messageQueue,
		defaultTimeout: DefaultTimeout,
	}
}

func (x *probe) Address() *actor.Address {
	return x.addr
}

func (x *probe) ExpectMessage(message any) {
	x.pt.Helper()
	x.expectMessage(x.defaultTimeout, message)
}

func (x *probe) ExpectMessageWithin(duration time.Duration, message any) {
	x.pt.Helper()
	x.expectMessage(duration, message)
}

func (x *probe) ExpectAnyMessage() any {
	x.pt.Helper()
	return x.expectAnyMessage(x.defaultTimeout)
}

func (x *probe) ExpectAnyMessageWithin(duration time.Duration) any {
	x.pt.Helper()
	return x.expectAnyMessage(duration)
}

func (x *probe) ExpectNoMessage() {
	x.pt.Helper()
	select {
	case received := <-x.messageQueue:
		x.pt.Fatalf("expected no message but received %v", received)
	case <-time.After(x.defaultTimeout):
	}
}

func (x *probe) ExpectMessageOfType(sample any) any {
	x.pt.Helper()
	received := x.expectAnyMessage(x.defaultTimeout)
	require.Equal(x.pt, reflect.TypeOf(sample), reflect.TypeOf(received))
	return received
}

func (x *probe) ExpectTerminated(addr *actor.Address) {
	x.pt.Helper()
	retrier := retry.NewRetrier(int(x.defaultTimeout/(50*time.Millisecond)), 50*time.Millisecond, 200*time.Millisecond)
	err := retrier.RunContext(x.testCtx, func(context.Context) error {
		if addr.RunningCount() != 0 {
			return errStillRunning
		}
		return nil
	})
	require.NoError(x.pt, err, "actor group did not terminate")
}

func (x *probe) Stop() {
	x.pt.Helper()
	require.NoError(x.pt, x.addr.Close(x.testCtx))
}

func (x *probe) expectMessage(timeout time.Duration, message any) {
	received := x.expectAnyMessage(timeout)
	require.Equal(x.pt, message, received)
}

func (x *probe) expectAnyMessage(timeout time.Duration) any {
	select {
	case received := <-x.messageQueue:
		return received
	case <-time.After(timeout):
		x.pt.Fatal("timeout waiting for a message")
		return nil
	}
}
