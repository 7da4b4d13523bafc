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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	gerrors "github.com/tochemey/stage/errors"
	"github.com/tochemey/stage/log"
)

type deposit struct{ amount int }

type withdraw struct{ amount int }

type balance struct{}

type account struct {
	funds int
}

func newAccountDefinition() *Definition[*account] {
	def := NewDefinition(func() *account { return &account{} })
	On(def, func(_ context.Context, state *account, msg deposit) (int, error) {
		state.funds += msg.amount
		return state.funds, nil
	})
	On(def, func(_ context.Context, state *account, msg withdraw) (int, error) {
		if msg.amount > state.funds {
			return 0, gerrors.ErrInvalidMessage
		}
		state.funds -= msg.amount
		return state.funds, nil
	})
	On(def, func(_ context.Context, state *account, _ balance) (int, error) {
		return state.funds, nil
	})
	return def
}

func TestDefinitionDispatchesByMessageType(t *testing.T) {
	ctx := context.Background()
	addr, err := newAccountDefinition().Start(ctx, WithLogger(log.DiscardLogger))
	require.NoError(t, err)
	defer func() { _ = addr.Close(ctx) }()

	funds, err := Ask[int](ctx, addr, deposit{amount: 100})
	require.NoError(t, err)
	assert.Equal(t, 100, funds)

	funds, err = Ask[int](ctx, addr, withdraw{amount: 30})
	require.NoError(t, err)
	assert.Equal(t, 70, funds)

	_, err = Ask[int](ctx, addr, withdraw{amount: 1000})
	assert.ErrorIs(t, err, gerrors.ErrInvalidMessage)

	funds, err = Ask[int](ctx, addr, balance{})
	require.NoError(t, err)
	assert.Equal(t, 70, funds)
}

func TestDefinitionUnhandledMessage(t *testing.T) {
	ctx := context.Background()
	addr, err := newAccountDefinition().Start(ctx, WithLogger(log.DiscardLogger))
	require.NoError(t, err)
	defer func() { _ = addr.Close(ctx) }()

	_, err = addr.Ask(ctx, "not part of the protocol")
	assert.ErrorIs(t, err, gerrors.ErrUnhandled)
}

func TestDefinitionOnReceiveCanStop(t *testing.T) {
	ctx := context.Background()
	type shutdown struct{}

	def := newAccountDefinition()
	OnReceive(def, func(rctx *ReceiveContext, _ *account, _ shutdown) {
		rctx.Stop()
	})

	addr, err := def.Start(ctx, WithLogger(log.DiscardLogger))
	require.NoError(t, err)

	require.NoError(t, addr.Send(ctx, shutdown{}))
	require.Eventually(t, func() bool {
		return addr.RunningCount() == 0
	}, testWait, testTick)
	_ = addr.Close(ctx)
}

func TestDefinitionHooks(t *testing.T) {
	ctx := context.Background()
	started := atomic.NewInt32(0)
	stopped := atomic.NewInt32(0)

	def := newAccountDefinition().
		WithPreStart(func(context.Context, *account) error {
			started.Inc()
			return nil
		}).
		WithPostStop(func(context.Context, *account) error {
			stopped.Inc()
			return nil
		})

	addr, err := def.Start(ctx, WithLogger(log.DiscardLogger), WithPoolSize(3))
	require.NoError(t, err)
	assert.EqualValues(t, 3, started.Load())

	require.NoError(t, addr.Close(ctx))
	assert.EqualValues(t, 3, stopped.Load())
}

func TestDefinitionPoolIsolatesState(t *testing.T) {
	ctx := context.Background()
	addr, err := newAccountDefinition().Start(ctx, WithLogger(log.DiscardLogger), WithPoolSize(2))
	require.NoError(t, err)
	defer func() { _ = addr.Close(ctx) }()

	// round-robin alternates instances, so each deposit lands on its own state
	first, err := Ask[int](ctx, addr, deposit{amount: 10})
	require.NoError(t, err)
	second, err := Ask[int](ctx, addr, deposit{amount: 10})
	require.NoError(t, err)
	assert.Equal(t, 10, first)
	assert.Equal(t, 10, second)
}
