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
	gods "github.com/Workiva/go-datastructures/queue"

	gerrors "github.com/tochemey/stage/errors"
)

// BoundedMailbox is a fixed-capacity MPSC mailbox with blocking backpressure:
// when the buffer is full, Enqueue blocks the producer until the consumer
// makes room or the mailbox is disposed. FIFO order is preserved.
//
// Use it when a slow actor must throttle its senders instead of queueing
// without bound.
type BoundedMailbox struct {
	underlying *gods.RingBuffer
}

// enforce compilation error
var _ Mailbox = (*BoundedMailbox)(nil)

// NewBoundedMailbox creates a bounded blocking mailbox with the given
// capacity. Capacity must be positive.
func NewBoundedMailbox(capacity int) *BoundedMailbox {
	return &BoundedMailbox{
		underlying: gods.NewRingBuffer(uint64(capacity)),
	}
}

// Enqueue inserts the envelope, blocking while the mailbox is full. It
// returns ErrDisposed once the mailbox has been disposed.
func (mailbox *BoundedMailbox) Enqueue(msg *ReceiveContext) error {
	if err := mailbox.underlying.Put(msg); err != nil {
		return gerrors.ErrDisposed
	}
	return nil
}

// Dequeue pops the next envelope, or nil when the mailbox is empty or
// disposed. Single consumer only.
func (mailbox *BoundedMailbox) Dequeue() *ReceiveContext {
	if mailbox.underlying.Len() > 0 {
		item, _ := mailbox.underlying.Get()
		if msg, ok := item.(*ReceiveContext); ok {
			return msg
		}
	}
	return nil
}

// IsEmpty reports whether the mailbox currently holds no envelope.
func (mailbox *BoundedMailbox) IsEmpty() bool {
	return mailbox.underlying.Len() == 0
}

// Len returns the number of buffered envelopes.
func (mailbox *BoundedMailbox) Len() int64 {
	return int64(mailbox.underlying.Len())
}

// Dispose tears down the ring buffer and releases any producer blocked in
// Enqueue.
func (mailbox *BoundedMailbox) Dispose() {
	mailbox.underlying.Dispose()
}
