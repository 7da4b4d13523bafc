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

package runtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVirtualSpawnIsDeferred(t *testing.T) {
	v := NewVirtual(time.Unix(0, 0))
	ran := false
	require.NoError(t, v.Spawn(func() { ran = true }))
	assert.False(t, ran, "task must not run before the host pumps the executor")

	executed := v.RunUntilIdle()
	assert.Equal(t, 1, executed)
	assert.True(t, ran)
}

func TestVirtualTasksChain(t *testing.T) {
	v := NewVirtual(time.Unix(0, 0))
	var order []string
	_ = v.Spawn(func() {
		order = append(order, "outer")
		_ = v.Spawn(func() {
			order = append(order, "inner")
		})
	})

	v.RunUntilIdle()
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestVirtualTimerFiresOnAdvance(t *testing.T) {
	start := time.Unix(0, 0)
	v := NewVirtual(start)

	var firedAt time.Time
	v.After(5*time.Second, func() {
		firedAt = v.Now()
	})

	v.Advance(4 * time.Second)
	assert.True(t, firedAt.IsZero(), "timer fired early")

	v.Advance(time.Second)
	assert.Equal(t, start.Add(5*time.Second), firedAt)
	assert.Equal(t, start.Add(5*time.Second), v.Now())
}

func TestVirtualTimersFireInDeadlineOrder(t *testing.T) {
	v := NewVirtual(time.Unix(0, 0))
	var order []string
	v.After(3*time.Second, func() { order = append(order, "late") })
	v.After(time.Second, func() { order = append(order, "early") })
	v.After(2*time.Second, func() { order = append(order, "middle") })

	v.Advance(5 * time.Second)
	assert.Equal(t, []string{"early", "middle", "late"}, order)
}

func TestVirtualTimerCancel(t *testing.T) {
	v := NewVirtual(time.Unix(0, 0))
	cancel := v.After(time.Second, func() {
		t.Error("canceled timer fired")
	})
	assert.True(t, cancel())
	assert.False(t, cancel(), "second cancel must report false")
	v.Advance(2 * time.Second)
}

func TestVirtualTimerChains(t *testing.T) {
	// a timer that registers another timer within the same Advance window
	v := NewVirtual(time.Unix(0, 0))
	var fired []string
	v.After(time.Second, func() {
		fired = append(fired, "first")
		v.After(time.Second, func() {
			fired = append(fired, "second")
		})
	})

	v.Advance(3 * time.Second)
	assert.Equal(t, []string{"first", "second"}, fired)
}
