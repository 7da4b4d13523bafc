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
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tochemey/stage/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestGoroutineSpawn(t *testing.T) {
	r := NewGoroutine()
	assert.Equal(t, "goroutine", r.Name())

	var wg sync.WaitGroup
	wg.Add(1)
	require.NoError(t, r.Spawn(wg.Done))
	wg.Wait()
}

func TestGoroutineAfter(t *testing.T) {
	r := NewGoroutine()
	fired := make(chan time.Time, 1)
	started := time.Now()
	r.After(20*time.Millisecond, func() {
		fired <- time.Now()
	})

	at := <-fired
	assert.GreaterOrEqual(t, at.Sub(started), 20*time.Millisecond)
}

func TestGoroutineAfterCancel(t *testing.T) {
	r := NewGoroutine()
	cancel := r.After(time.Hour, func() {
		t.Error("timer should not have fired")
	})
	assert.True(t, cancel())
}

func TestWorkersExecutesAllTasks(t *testing.T) {
	r := NewWorkers(4)
	defer r.Stop()
	assert.Equal(t, "workers", r.Name())

	const tasks = 200
	var wg sync.WaitGroup
	var mu sync.Mutex
	count := 0
	wg.Add(tasks)
	for i := 0; i < tasks; i++ {
		require.NoError(t, r.Spawn(func() {
			mu.Lock()
			count++
			mu.Unlock()
			wg.Done()
		}))
	}
	wg.Wait()
	assert.Equal(t, tasks, count)
}

func TestWorkersSpawnAfterStop(t *testing.T) {
	r := NewWorkers(2)
	require.NoError(t, r.Spawn(func() {}))
	r.Stop()
	assert.ErrorIs(t, r.Spawn(func() {}), errors.ErrRuntimeStopped)
}

func TestWorkersAfter(t *testing.T) {
	r := NewWorkers(1)
	defer r.Stop()
	fired := make(chan struct{})
	r.After(10*time.Millisecond, func() { close(fired) })
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer never fired on the pool")
	}
}

func TestSerialRunsInSubmissionOrder(t *testing.T) {
	r := NewSerial()
	defer r.Stop()
	assert.Equal(t, "serial", r.Name())

	const tasks = 100
	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	wg.Add(tasks)
	for i := 0; i < tasks; i++ {
		i := i
		require.NoError(t, r.Spawn(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			wg.Done()
		}))
	}
	wg.Wait()

	require.Len(t, order, tasks)
	for i := 0; i < tasks; i++ {
		assert.Equal(t, i, order[i])
	}
}

func TestSerialNeverOverlaps(t *testing.T) {
	r := NewSerial()
	defer r.Stop()

	var running, maxRunning int32
	var mu sync.Mutex
	var wg sync.WaitGroup
	const tasks = 50
	wg.Add(tasks)
	for i := 0; i < tasks; i++ {
		require.NoError(t, r.Spawn(func() {
			mu.Lock()
			running++
			if running > maxRunning {
				maxRunning = running
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			running--
			mu.Unlock()
			wg.Done()
		}))
	}
	wg.Wait()
	assert.EqualValues(t, 1, maxRunning)
}

func TestSerialSpawnAfterStop(t *testing.T) {
	r := NewSerial()
	require.NoError(t, r.Spawn(func() {}))
	r.Stop()
	assert.ErrorIs(t, r.Spawn(func() {}), errors.ErrRuntimeStopped)
}
