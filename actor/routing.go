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
	"math/rand"

	"github.com/zeebo/xxh3"
	"go.uber.org/atomic"
)

// Routing picks which instance of a pool receives a given message. Count is
// always at least 2; the returned index must be in [0, count).
//
// Implementations must be safe for concurrent use: every handle of the group
// routes through the same instance.
type Routing interface {
	Route(message any, count int) int
}

// RoundRobinRouting cycles through the pool, spreading load evenly regardless
// of the message.
type RoundRobinRouting struct {
	next *atomic.Int64
}

// enforce compilation error
var _ Routing = (*RoundRobinRouting)(nil)

// NewRoundRobinRouting creates a round-robin strategy starting at the first
// instance.
func NewRoundRobinRouting() *RoundRobinRouting {
	return &RoundRobinRouting{next: atomic.NewInt64(-1)}
}

// Route returns the next index in the cycle.
func (r *RoundRobinRouting) Route(_ any, count int) int {
	return int(r.next.Inc() % int64(count))
}

// RandomRouting picks a uniformly random instance per message.
type RandomRouting struct{}

// enforce compilation error
var _ Routing = (*RandomRouting)(nil)

// NewRandomRouting creates a random routing strategy.
func NewRandomRouting() *RandomRouting {
	return &RandomRouting{}
}

// Route returns a random index.
func (r *RandomRouting) Route(_ any, count int) int {
	return rand.Intn(count)
}

// HashRouting routes messages with the same key to the same instance, so
// per-key ordering survives pooling. The key is extracted from the message by
// the caller-provided function and hashed with xxh3.
type HashRouting struct {
	extract func(message any) []byte
}

// enforce compilation error
var _ Routing = (*HashRouting)(nil)

// NewHashRouting creates a key-affine routing strategy. extract must return a
// stable byte key for every message the group accepts; messages it returns
// nil for go to the first instance.
func NewHashRouting(extract func(message any) []byte) *HashRouting {
	return &HashRouting{extract: extract}
}

// Route hashes the message key onto an instance index.
func (r *HashRouting) Route(message any, count int) int {
	key := r.extract(message)
	if len(key) == 0 {
		return 0
	}
	return int(xxh3.Hash(key) % uint64(count))
}
