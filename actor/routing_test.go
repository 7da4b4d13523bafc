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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/tochemey/stage/log"
)

func TestRoundRobinRoutingCycles(t *testing.T) {
	strategy := NewRoundRobinRouting()
	var picked []int
	for i := 0; i < 8; i++ {
		picked = append(picked, strategy.Route("m", 4))
	}
	assert.Equal(t, []int{0, 1, 2, 3, 0, 1, 2, 3}, picked)
}

func TestRandomRoutingStaysInRange(t *testing.T) {
	strategy := NewRandomRouting()
	for i := 0; i < 100; i++ {
		index := strategy.Route("m", 4)
		assert.GreaterOrEqual(t, index, 0)
		assert.Less(t, index, 4)
	}
}

func TestHashRoutingIsKeyAffine(t *testing.T) {
	strategy := NewHashRouting(func(message any) []byte {
		return []byte(message.(string))
	})
	first := strategy.Route("order-42", 4)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, strategy.Route("order-42", 4))
	}
	assert.Equal(t, 0, strategy.Route("", 4), "empty key routes to the first instance")
}

func TestPoolSpreadsWorkAcrossInstances(t *testing.T) {
	ctx := context.Background()
	total := atomic.NewInt64(0)
	instances := atomic.NewInt32(0)
	addr, err := NewBuilder(func() Actor {
		instances.Inc()
		return &funcActor{receive: func(rctx *ReceiveContext) {
			total.Inc()
		}}
	}, WithLogger(log.DiscardLogger), WithPoolSize(4)).Start(ctx)
	require.NoError(t, err)
	defer func() { _ = addr.Close(ctx) }()

	assert.EqualValues(t, 4, instances.Load())
	assert.Equal(t, 4, addr.RunningCount())

	const sends = 1000
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < sends/8; i++ {
				require.NoError(t, addr.Send(ctx, "work"))
			}
		}()
	}
	wg.Wait()

	require.Eventually(t, func() bool {
		return total.Load() == sends
	}, 2*time.Second, 5*time.Millisecond)
}

func TestPoolHashRoutingPinsKeysToOneInstance(t *testing.T) {
	ctx := context.Background()
	next := atomic.NewInt32(0)
	addr, err := NewBuilder(func() Actor {
		id := next.Inc()
		return &funcActor{receive: func(rctx *ReceiveContext) {
			rctx.Response(id)
		}}
	},
		WithLogger(log.DiscardLogger),
		WithPoolSize(4),
		WithRouting(NewHashRouting(func(message any) []byte {
			return []byte(message.(string))
		})),
	).Start(ctx)
	require.NoError(t, err)
	defer func() { _ = addr.Close(ctx) }()

	first, err := Ask[int32](ctx, addr, "session-7")
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Ask[int32](ctx, addr, "session-7")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
