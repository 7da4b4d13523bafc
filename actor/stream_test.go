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

	gerrors "github.com/tochemey/stage/errors"
	"github.com/tochemey/stage/log"
)

func TestPipeForwardsInOrder(t *testing.T) {
	ctx := context.Background()
	addr := startCounter(t)
	defer func() { _ = addr.Close(ctx) }()

	in := make(chan increment)
	go func() {
		defer close(in)
		for i := 0; i < 10; i++ {
			in <- increment{by: 1}
		}
	}()

	require.NoError(t, Pipe(ctx, addr, in))
	value, err := Ask[int](ctx, addr, getValue{})
	require.NoError(t, err)
	assert.Equal(t, 10, value)
}

func TestPipeStopsWhenGroupCloses(t *testing.T) {
	ctx := context.Background()
	addr := startCounter(t)
	require.NoError(t, addr.Close(ctx))

	in := make(chan increment, 1)
	in <- increment{by: 1}
	assert.ErrorIs(t, Pipe(ctx, addr, in), gerrors.ErrMailboxClosed)
}

func TestPipeAskEmitsOneResultPerMessage(t *testing.T) {
	ctx := context.Background()
	addr, err := NewBuilder(func() Actor {
		return &funcActor{receive: func(rctx *ReceiveContext) {
			rctx.Response(rctx.Message().(int) * 2)
		}}
	}, WithLogger(log.DiscardLogger)).Start(ctx)
	require.NoError(t, err)
	defer func() { _ = addr.Close(ctx) }()

	in := make(chan int)
	go func() {
		defer close(in)
		for i := 0; i < 5; i++ {
			in <- i
		}
	}()

	var doubled []int
	for result := range PipeAsk(ctx, addr, in) {
		require.NoError(t, result.Err)
		doubled = append(doubled, result.Value.(int))
	}
	assert.Equal(t, []int{0, 2, 4, 6, 8}, doubled)
}

func TestPipeAskReportsFailuresWithoutStopping(t *testing.T) {
	ctx := context.Background()
	addr, err := newAccountDefinition().Start(ctx, WithLogger(log.DiscardLogger))
	require.NoError(t, err)
	defer func() { _ = addr.Close(ctx) }()

	in := make(chan any)
	go func() {
		defer close(in)
		in <- deposit{amount: 5}
		in <- withdraw{amount: 50}
		in <- balance{}
	}()

	var results []Result
	for result := range PipeAsk(ctx, addr, in) {
		results = append(results, result)
	}
	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, gerrors.ErrInvalidMessage)
	assert.NoError(t, results[2].Err)
	assert.Equal(t, 5, results[2].Value)
}
