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
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	gerrors "github.com/tochemey/stage/errors"
	"github.com/tochemey/stage/log"
	"github.com/tochemey/stage/runtime"
)

// instance lifecycle states
const (
	stateStarting int32 = iota
	stateRunning
	stateStopping
	stateStopped
)

// processing loop states for the idle/busy scheduling handshake
const (
	procIdle int32 = iota
	procBusy
)

// delayedEntry tracks one in-flight delayed delivery so that it can be
// canceled or flushed at shutdown.
type delayedEntry struct {
	message any
	task    func(ctx context.Context, instance Actor)
	cancel  runtime.CancelFunc
}

// PID hosts one actor instance: its state, its mailbox and its run loop.
//
// The run loop is not a dedicated goroutine. Whenever a producer observes the
// loop idle it flips an atomic flag and spawns one processing pass on the
// configured runtime; the pass handles messages until the mailbox drains and
// flips back to idle. The flag guarantees at most one pass is live at any
// moment, which is what makes handler invocations sequential per instance on
// every substrate.
type PID struct {
	id      string
	actor   Actor
	factory func() Actor
	mailbox Mailbox
	runtime runtime.Runtime
	logger  log.Logger

	state      *atomic.Int32
	processing *atomic.Int32

	restartOnError      bool
	handleDelayedOnStop bool

	delayedMu  sync.Mutex
	delayed    map[int64]*delayedEntry
	delayedSeq *atomic.Int64

	stoppedCh chan struct{}
	self      *Address
}

// newPID assembles an instance host. The instance is not usable until start
// has run its PreStart hook.
func newPID(factory func() Actor, mailbox Mailbox, rt runtime.Runtime, logger log.Logger, restartOnError, handleDelayedOnStop bool) *PID {
	pid := &PID{
		id:                  uuid.NewString(),
		actor:               factory(),
		factory:             factory,
		mailbox:             mailbox,
		runtime:             rt,
		logger:              logger,
		state:               atomic.NewInt32(stateStarting),
		processing:          atomic.NewInt32(procIdle),
		restartOnError:      restartOnError,
		handleDelayedOnStop: handleDelayedOnStop,
		delayed:             make(map[int64]*delayedEntry),
		delayedSeq:          atomic.NewInt64(0),
		stoppedCh:           make(chan struct{}),
	}
	pid.self = newSelfAddress(pid)
	return pid
}

// ID returns the unique identifier of the instance.
func (pid *PID) ID() string {
	return pid.id
}

// IsRunning reports whether the instance is accepting messages.
func (pid *PID) IsRunning() bool {
	return pid.state.Load() == stateRunning
}

// start runs the PreStart hook on the caller's goroutine and transitions the
// instance to running. A PreStart failure leaves the instance stopped and is
// wrapped in ErrInitFailure.
func (pid *PID) start(ctx context.Context) error {
	if err := pid.actor.PreStart(ctx); err != nil {
		pid.state.Store(stateStopped)
		close(pid.stoppedCh)
		return fmt.Errorf("%w: %v", gerrors.ErrInitFailure, err)
	}
	pid.state.Store(stateRunning)
	return nil
}

// doReceive enqueues the envelope and wakes the run loop. It fails fast with
// ErrMailboxClosed once the instance is stopping or stopped, completing any
// attached reply future so that askers never hang.
func (pid *PID) doReceive(rctx *ReceiveContext) error {
	if pid.state.Load() >= stateStopping {
		pid.discard(rctx)
		return gerrors.ErrMailboxClosed
	}
	if err := pid.mailbox.Enqueue(rctx); err != nil {
		pid.discard(rctx)
		return gerrors.ErrMailboxClosed
	}
	return pid.schedule()
}

// discard fails the envelope's pending reply, if any, and recycles it.
func (pid *PID) discard(rctx *ReceiveContext) {
	if rctx.response != nil {
		rctx.response.Failure(gerrors.ErrMailboxClosed)
	}
	returnToPool(rctx)
}

// schedule spawns one processing pass when the loop is idle. A spawn refusal
// is fatal to the submission and surfaces as ErrSpawnFailure.
func (pid *PID) schedule() error {
	if pid.processing.CompareAndSwap(procIdle, procBusy) {
		if err := pid.runtime.Spawn(pid.receiveLoop); err != nil {
			pid.processing.Store(procIdle)
			return fmt.Errorf("%w: %v", gerrors.ErrSpawnFailure, err)
		}
	}
	return nil
}

// receiveLoop is one processing pass. It drains the mailbox and then races
// the idle flip against late producers so that no wakeup is lost.
func (pid *PID) receiveLoop() {
	for {
		if rctx := pid.mailbox.Dequeue(); rctx != nil {
			pid.handle(rctx)
			continue
		}

		pid.processing.Store(procIdle)
		if pid.mailbox.IsEmpty() || !pid.processing.CompareAndSwap(procIdle, procBusy) {
			return
		}
	}
}

// handle dispatches one envelope on the consumer goroutine.
func (pid *PID) handle(rctx *ReceiveContext) {
	switch {
	case rctx.kind == stopMessage:
		returnToPool(rctx)
		pid.shutdown(context.Background())
	case pid.state.Load() != stateRunning:
		// envelope raced past the stop fast-path; treat it as undeliverable
		pid.discard(rctx)
	default:
		stop := pid.invoke(rctx)
		if stop {
			pid.shutdown(context.Background())
		}
	}
}

// invoke runs the handler for one envelope, applies the failure policy and
// reports whether the handler requested a stop.
func (pid *PID) invoke(rctx *ReceiveContext) bool {
	err := pid.invokeSafe(rctx)
	if rctx.response != nil {
		// a handler that returned without responding settles the ask with nil
		rctx.response.Success(nil)
	}
	stop := rctx.stop
	returnToPool(rctx)

	if err != nil {
		pid.logger.Errorf("actor=%s message failed: %v", pid.id, err)
		switch {
		case pid.restartOnError:
			pid.restart()
		case isPanicErr(err):
			// an unrecovered panic without a restart policy poisons the
			// instance
			return true
		}
	}
	return stop
}

// invokeSafe calls the handler with panic recovery. A panic is converted to
// ErrHandlerPanic, failing the pending reply if there is one.
func (pid *PID) invokeSafe(rctx *ReceiveContext) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", gerrors.ErrHandlerPanic, r)
			rctx.Err(err)
		}
	}()

	if rctx.kind == closureMessage {
		rctx.task(rctx.ctx, pid.actor)
	} else {
		pid.actor.Receive(rctx)
	}
	return rctx.err
}

func isPanicErr(err error) bool {
	return errors.Is(err, gerrors.ErrHandlerPanic)
}

// restart replaces the instance state with a fresh one from the factory and
// reruns PreStart. A failing PreStart stops the instance for good.
func (pid *PID) restart() {
	pid.logger.Warnf("actor=%s restarting", pid.id)
	fresh := pid.factory()
	if err := fresh.PreStart(context.Background()); err != nil {
		pid.logger.Errorf("actor=%s restart failed: %v", pid.id, err)
		pid.shutdown(context.Background())
		return
	}
	pid.actor = fresh
}

// notifyLater arms a runtime timer that re-enqueues message to this instance
// after delay. The returned cancel reports whether delivery was averted.
func (pid *PID) notifyLater(message any, delay time.Duration) runtime.CancelFunc {
	return pid.scheduleDelayed(&delayedEntry{message: message}, delay)
}

// runLater is notifyLater for closures.
func (pid *PID) runLater(task func(ctx context.Context, instance Actor), delay time.Duration) runtime.CancelFunc {
	return pid.scheduleDelayed(&delayedEntry{task: task}, delay)
}

func (pid *PID) scheduleDelayed(entry *delayedEntry, delay time.Duration) runtime.CancelFunc {
	if pid.state.Load() != stateRunning {
		return func() bool { return false }
	}

	seq := pid.delayedSeq.Inc()
	pid.delayedMu.Lock()
	pid.delayed[seq] = entry
	pid.delayedMu.Unlock()

	fire := func() {
		pid.delayedMu.Lock()
		_, live := pid.delayed[seq]
		delete(pid.delayed, seq)
		pid.delayedMu.Unlock()
		if !live {
			return
		}
		if err := pid.doReceive(pid.delayedEnvelope(entry)); err != nil {
			pid.logger.Warnf("actor=%s delayed delivery dropped: %v", pid.id, err)
		}
	}

	cancel := pid.runtime.After(delay, fire)
	pid.delayedMu.Lock()
	if e, armed := pid.delayed[seq]; armed {
		e.cancel = cancel
	} else {
		// fired or flushed before we could record the timer handle
		cancel()
	}
	pid.delayedMu.Unlock()

	return func() bool {
		pid.delayedMu.Lock()
		e, live := pid.delayed[seq]
		delete(pid.delayed, seq)
		pid.delayedMu.Unlock()
		if !live {
			return false
		}
		if e.cancel != nil {
			e.cancel()
		}
		return true
	}
}

func (pid *PID) delayedEnvelope(entry *delayedEntry) *ReceiveContext {
	if entry.task != nil {
		return contextFromPool().build(context.Background(), pid, nil, closureMessage).withTask(entry.task)
	}
	return contextFromPool().build(context.Background(), pid, entry.message, userMessage)
}

// stop enqueues the internal poison pill. All teardown work happens on the
// consumer goroutine; callers wait on Done.
func (pid *PID) stop() {
	if pid.state.Load() >= stateStopping {
		return
	}
	rctx := contextFromPool().build(context.Background(), pid, nil, stopMessage)
	if err := pid.mailbox.Enqueue(rctx); err != nil {
		returnToPool(rctx)
		return
	}
	if err := pid.schedule(); err != nil {
		pid.logger.Errorf("actor=%s stop could not be scheduled: %v", pid.id, err)
	}
}

// Done is closed once the instance has fully stopped, after PostStop.
func (pid *PID) Done() <-chan struct{} {
	return pid.stoppedCh
}

// shutdown tears the instance down on the consumer goroutine: it flushes or
// cancels delayed deliveries, drains the mailbox failing every pending reply,
// runs PostStop, and finally marks the instance stopped.
func (pid *PID) shutdown(ctx context.Context) {
	if pid.state.Load() >= stateStopping {
		return
	}
	pid.state.Store(stateStopping)

	pid.flushDelayed()
	pid.drain()

	if err := pid.postStopSafe(ctx); err != nil {
		pid.logger.Errorf("actor=%s postStop failed: %v", pid.id, err)
	}

	pid.state.Store(stateStopped)
	close(pid.stoppedCh)
	pid.mailbox.Dispose()
	pid.logger.Debugf("actor=%s stopped", pid.id)
}

// flushDelayed settles outstanding delayed deliveries. When the instance was
// configured to handle delayed messages on stop, every delivery whose timer
// was averted runs inline in scheduling order; otherwise they are dropped.
func (pid *PID) flushDelayed() {
	pid.delayedMu.Lock()
	pending := pid.delayed
	pid.delayed = make(map[int64]*delayedEntry)
	pid.delayedMu.Unlock()

	seqs := make([]int64, 0, len(pending))
	for seq := range pending {
		seqs = append(seqs, seq)
	}
	sort.Slice(seqs, func(i, j int) bool { return seqs[i] < seqs[j] })

	for _, seq := range seqs {
		entry := pending[seq]
		if entry.cancel == nil || !entry.cancel() {
			// the timer already fired; its envelope is settled by drain
			continue
		}
		if pid.handleDelayedOnStop {
			rctx := pid.delayedEnvelope(entry)
			if err := pid.invokeSafe(rctx); err != nil {
				pid.logger.Errorf("actor=%s delayed message failed during stop: %v", pid.id, err)
			}
			returnToPool(rctx)
		}
	}
}

// drain empties the mailbox, failing every pending reply with
// ErrMailboxClosed.
func (pid *PID) drain() {
	for {
		rctx := pid.mailbox.Dequeue()
		if rctx == nil {
			return
		}
		if rctx.kind == stopMessage {
			returnToPool(rctx)
			continue
		}
		pid.discard(rctx)
	}
}

func (pid *PID) postStopSafe(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", gerrors.ErrHandlerPanic, r)
		}
	}()
	return pid.actor.PostStop(ctx)
}

// selfAddress returns the non-owning handle handlers use for self-sends.
func (pid *PID) selfAddress() *Address {
	return pid.self
}
