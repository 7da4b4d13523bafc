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
)

// Result carries one PipeAsk response: either the handler's response value or
// the error that settled the request.
type Result struct {
	Value any
	Err   error
}

// Pipe forwards every message received on in to the address, fire-and-forget
// and in channel order. It returns when in closes, when ctx is canceled, or
// on the first send failure. Callers who want the pipe in the background
// wrap it in a goroutine.
func Pipe[M any](ctx context.Context, addr *Address, in <-chan M) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case message, open := <-in:
			if !open {
				return nil
			}
			if err := addr.Send(ctx, message); err != nil {
				return err
			}
		}
	}
}

// PipeAsk forwards every message received on in as a request and emits one
// Result per message on the returned channel, in input order. The output
// channel closes once in closes or ctx is canceled; a failed request is
// reported as a Result and does not stop the pipe.
func PipeAsk[M any](ctx context.Context, addr *Address, in <-chan M) <-chan Result {
	out := make(chan Result)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case message, open := <-in:
				if !open {
					return
				}
				value, err := addr.Ask(ctx, message)
				select {
				case out <- Result{Value: value, Err: err}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
