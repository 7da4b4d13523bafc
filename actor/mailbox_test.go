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
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envelope(message any) *ReceiveContext {
	return &ReceiveContext{message: message}
}

func TestDefaultMailboxFIFO(t *testing.T) {
	mailbox := NewDefaultMailbox()
	assert.True(t, mailbox.IsEmpty())

	for i := 0; i < 10; i++ {
		require.NoError(t, mailbox.Enqueue(envelope(i)))
	}
	assert.False(t, mailbox.IsEmpty())
	assert.EqualValues(t, 10, mailbox.Len())

	for i := 0; i < 10; i++ {
		popped := mailbox.Dequeue()
		require.NotNil(t, popped)
		assert.Equal(t, i, popped.message)
	}
	assert.Nil(t, mailbox.Dequeue())
	assert.True(t, mailbox.IsEmpty())
}

func TestDefaultMailboxConcurrentProducers(t *testing.T) {
	mailbox := NewDefaultMailbox()
	const producers = 8
	const perProducer = 500

	var wg sync.WaitGroup
	wg.Add(producers)
	for i := 0; i < producers; i++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				_ = mailbox.Enqueue(envelope("m"))
			}
		}()
	}
	wg.Wait()

	count := 0
	for mailbox.Dequeue() != nil {
		count++
	}
	assert.Equal(t, producers*perProducer, count)
}

func TestBoundedMailboxFIFO(t *testing.T) {
	mailbox := NewBoundedMailbox(16)
	defer mailbox.Dispose()

	for i := 0; i < 5; i++ {
		require.NoError(t, mailbox.Enqueue(envelope(i)))
	}
	assert.EqualValues(t, 5, mailbox.Len())
	for i := 0; i < 5; i++ {
		popped := mailbox.Dequeue()
		require.NotNil(t, popped)
		assert.Equal(t, i, popped.message)
	}
	assert.True(t, mailbox.IsEmpty())
	assert.Nil(t, mailbox.Dequeue())
}

func TestBoundedMailboxBlocksAtCapacity(t *testing.T) {
	mailbox := NewBoundedMailbox(1)
	defer mailbox.Dispose()
	require.NoError(t, mailbox.Enqueue(envelope("first")))

	unblocked := make(chan struct{})
	go func() {
		_ = mailbox.Enqueue(envelope("second"))
		close(unblocked)
	}()

	select {
	case <-unblocked:
		t.Fatal("enqueue did not block on a full mailbox")
	case <-time.After(50 * time.Millisecond):
	}

	popped := mailbox.Dequeue()
	require.NotNil(t, popped)
	assert.Equal(t, "first", popped.message)
	<-unblocked
}

func TestBoundedMailboxEnqueueAfterDispose(t *testing.T) {
	mailbox := NewBoundedMailbox(4)
	mailbox.Dispose()
	assert.Error(t, mailbox.Enqueue(envelope("late")))
}
