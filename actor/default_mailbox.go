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
	"sync/atomic"
)

// queueNode is a link in the unbounded MPSC chain.
type queueNode struct {
	next atomic.Pointer[queueNode]
	data *ReceiveContext
}

// nodes are recycled across all mailboxes to keep Enqueue allocation-free in
// the steady state
var queueNodePool = sync.Pool{New: func() any { return new(queueNode) }}

// DefaultMailbox is the unbounded, lock-free mailbox every instance gets
// unless a capacity is configured.
//
// It is a multi-producer single-consumer intrusive queue: producers append by
// atomically swapping the tail and linking through the previous node, the
// consumer walks the head pointer. FIFO order holds across all producers.
// There is a brief window between the tail swap and the link where the new
// node is not yet reachable from head; Dequeue simply reports empty during
// that window and no message is ever lost.
//
// Enqueue never blocks and never fails. IsEmpty is O(1); Len walks the chain
// and is meant for diagnostics only.
type DefaultMailbox struct {
	// head and tail live on separate cache lines so producers and the
	// consumer do not false-share
	head atomic.Pointer[queueNode] // consumer side
	_    [64]byte
	tail atomic.Pointer[queueNode] // producer side
	_    [64]byte
}

// enforce compilation error
var _ Mailbox = (*DefaultMailbox)(nil)

// NewDefaultMailbox creates an empty unbounded mailbox. A stub node seeds the
// chain so producers never have to special-case the empty queue.
func NewDefaultMailbox() *DefaultMailbox {
	stub := queueNodePool.Get().(*queueNode)
	stub.next.Store(nil)
	stub.data = nil
	mailbox := &DefaultMailbox{}
	mailbox.head.Store(stub)
	mailbox.tail.Store(stub)
	return mailbox
}

// Enqueue appends the envelope. It never blocks and always returns nil.
func (mailbox *DefaultMailbox) Enqueue(msg *ReceiveContext) error {
	node := queueNodePool.Get().(*queueNode)
	node.data = msg

	prev := mailbox.tail.Swap(node)
	prev.next.Store(node)
	return nil
}

// Dequeue pops the oldest envelope, or nil when the mailbox is empty.
// Single consumer only.
func (mailbox *DefaultMailbox) Dequeue() *ReceiveContext {
	head := mailbox.head.Load()
	next := head.next.Load()
	if next == nil {
		return nil
	}

	mailbox.head.Store(next)
	msg := next.data
	next.data = nil

	head.next.Store(nil)
	queueNodePool.Put(head)
	return msg
}

// IsEmpty reports whether the mailbox has no reachable envelope.
func (mailbox *DefaultMailbox) IsEmpty() bool {
	return mailbox.head.Load().next.Load() == nil
}

// Len counts the reachable envelopes. O(n) snapshot, approximate under
// concurrent producers.
func (mailbox *DefaultMailbox) Len() int64 {
	var count int64
	for node := mailbox.head.Load().next.Load(); node != nil; node = node.next.Load() {
		count++
	}
	return count
}

// Dispose is a no-op for the unbounded mailbox.
func (mailbox *DefaultMailbox) Dispose() {}
