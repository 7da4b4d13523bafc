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
	"fmt"
	"reflect"

	mapset "github.com/deckarep/golang-set/v2"

	gerrors "github.com/tochemey/stage/errors"
)

// Ref is a capability-reduced view of an Address: it forwards only the
// message types it was erased with and rejects everything else with
// ErrTypeMismatch. Handing a Ref to a component hides both the concrete actor
// behind the address and the rest of its message protocol.
//
// A Ref never owns the group; it does not keep the actors alive.
type Ref interface {
	// Send forwards an accepted message fire-and-forget.
	Send(ctx context.Context, message any) error
	// Ask forwards an accepted message and waits for the response.
	Ask(ctx context.Context, message any) (any, error)
	// Accepts reports whether the message's type passes the erasure filter.
	Accepts(message any) bool
}

// typedRef implements Ref over a shared address core.
type typedRef struct {
	addr    *Address
	allowed mapset.Set[reflect.Type]
}

// enforce compilation error
var _ Ref = (*typedRef)(nil)

// Erase narrows addr to the message types of the given samples. Each sample's
// dynamic type is admitted; all other types are rejected at the Ref boundary
// before touching the mailbox.
func Erase(addr *Address, accepts ...any) Ref {
	allowed := mapset.NewSet[reflect.Type]()
	for _, sample := range accepts {
		if sample != nil {
			allowed.Add(reflect.TypeOf(sample))
		}
	}
	return &typedRef{addr: addr, allowed: allowed}
}

func (ref *typedRef) Accepts(message any) bool {
	return message != nil && ref.allowed.Contains(reflect.TypeOf(message))
}

func (ref *typedRef) Send(ctx context.Context, message any) error {
	if !ref.Accepts(message) {
		return fmt.Errorf("%w: %T not accepted by this ref", gerrors.ErrTypeMismatch, message)
	}
	return ref.addr.Send(ctx, message)
}

func (ref *typedRef) Ask(ctx context.Context, message any) (any, error) {
	if !ref.Accepts(message) {
		return nil, fmt.Errorf("%w: %T not accepted by this ref", gerrors.ErrTypeMismatch, message)
	}
	return ref.addr.Ask(ctx, message)
}
