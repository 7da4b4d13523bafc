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

// Mailbox is the queue standing between an actor instance's producers and its
// single consumer. Implementations must be safe for concurrent Enqueue calls
// from many goroutines (MPSC) and must preserve FIFO order across producers.
// Exactly one goroutine at a time may call Dequeue.
type Mailbox interface {
	// Enqueue pushes a message envelope onto the mailbox. Depending on the
	// implementation it may block (bounded mailbox at capacity) or fail when
	// the mailbox has been disposed.
	Enqueue(msg *ReceiveContext) error
	// Dequeue pops the next envelope, or returns nil when the mailbox is
	// empty. Single consumer only.
	Dequeue() *ReceiveContext
	// IsEmpty reports whether the mailbox has no pending envelope. The answer
	// is a snapshot and may be stale under concurrent producers.
	IsEmpty() bool
	// Len returns the number of pending envelopes. Best-effort snapshot.
	Len() int64
	// Dispose releases any resources held by the mailbox and unblocks
	// internal waiters. The mailbox must not be used afterwards.
	Dispose()
}
