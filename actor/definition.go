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
	"reflect"

	gerrors "github.com/tochemey/stage/errors"
)

// Definition describes an actor declaratively: a state constructor plus one
// typed handler per message type. It removes the type switch an Actor
// implementation would otherwise write by hand.
//
// Register handlers with On and OnReceive, then Start the definition. A
// message whose type has no registered handler fails with ErrUnhandled.
// Definitions are meant to be fully built before Start; registration is not
// safe concurrently with running instances.
type Definition[S any] struct {
	newState func() S
	preStart func(ctx context.Context, state S) error
	postStop func(ctx context.Context, state S) error
	handlers map[reflect.Type]func(rctx *ReceiveContext, state S)
}

// NewDefinition creates a Definition whose instances start from the state
// newState returns. Every pool member and every restart gets its own state.
func NewDefinition[S any](newState func() S) *Definition[S] {
	return &Definition[S]{
		newState: newState,
		handlers: make(map[reflect.Type]func(rctx *ReceiveContext, state S)),
	}
}

// WithPreStart registers a hook running after the state is constructed and
// before the instance accepts messages.
func (def *Definition[S]) WithPreStart(hook func(ctx context.Context, state S) error) *Definition[S] {
	def.preStart = hook
	return def
}

// WithPostStop registers a hook running after the instance has processed its
// final message.
func (def *Definition[S]) WithPostStop(hook func(ctx context.Context, state S) error) *Definition[S] {
	def.postStop = hook
	return def
}

// Factory returns the instance factory backing this definition, for use with
// NewBuilder.
func (def *Definition[S]) Factory() func() Actor {
	return func() Actor {
		return &definitionActor[S]{def: def}
	}
}

// Start builds and starts an actor group from this definition.
func (def *Definition[S]) Start(ctx context.Context, opts ...Option) (*Address, error) {
	return NewBuilder(def.Factory(), opts...).Start(ctx)
}

// On registers the handler for messages of type M. The returned value answers
// a pending Ask; fire-and-forget senders simply discard it. Registering M
// twice keeps the last handler.
func On[S, M, R any](def *Definition[S], handler func(ctx context.Context, state S, message M) (R, error)) *Definition[S] {
	key := reflect.TypeOf((*M)(nil)).Elem()
	def.handlers[key] = func(rctx *ReceiveContext, state S) {
		message, ok := rctx.Message().(M)
		if !ok {
			rctx.Err(fmt.Errorf("%w: message is %T", gerrors.ErrTypeMismatch, rctx.Message()))
			return
		}
		result, err := handler(rctx.Context(), state, message)
		if err != nil {
			rctx.Err(err)
			return
		}
		rctx.Response(result)
	}
	return def
}

// OnReceive registers a handler for messages of type M that needs the full
// ReceiveContext, for stopping the instance or scheduling delayed
// self-messages.
func OnReceive[S, M any](def *Definition[S], handler func(rctx *ReceiveContext, state S, message M)) *Definition[S] {
	key := reflect.TypeOf((*M)(nil)).Elem()
	def.handlers[key] = func(rctx *ReceiveContext, state S) {
		message, ok := rctx.Message().(M)
		if !ok {
			rctx.Err(fmt.Errorf("%w: message is %T", gerrors.ErrTypeMismatch, rctx.Message()))
			return
		}
		handler(rctx, state, message)
	}
	return def
}

// definitionActor adapts a Definition to the Actor interface.
type definitionActor[S any] struct {
	def   *Definition[S]
	state S
}

// enforce compilation error
var _ Actor = (*definitionActor[int])(nil)

func (actor *definitionActor[S]) PreStart(ctx context.Context) error {
	actor.state = actor.def.newState()
	if actor.def.preStart != nil {
		return actor.def.preStart(ctx, actor.state)
	}
	return nil
}

func (actor *definitionActor[S]) Receive(rctx *ReceiveContext) {
	if rctx.Message() == nil {
		rctx.Err(gerrors.ErrInvalidMessage)
		return
	}
	handler, registered := actor.def.handlers[reflect.TypeOf(rctx.Message())]
	if !registered {
		rctx.Err(fmt.Errorf("%w: %T", gerrors.ErrUnhandled, rctx.Message()))
		return
	}
	handler(rctx, actor.state)
}

func (actor *definitionActor[S]) PostStop(ctx context.Context) error {
	if actor.def.postStop != nil {
		return actor.def.postStop(ctx, actor.state)
	}
	return nil
}
