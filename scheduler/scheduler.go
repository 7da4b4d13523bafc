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

// Package scheduler delivers messages to actors on a recurring or calendar
// basis. One-shot delays are already covered by Address.SendLater; this
// package adds fixed-interval and cron schedules on top of quartz.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reugn/go-quartz/job"
	quartzlogger "github.com/reugn/go-quartz/logger"
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/atomic"

	"github.com/tochemey/stage/actor"
	gerrors "github.com/tochemey/stage/errors"
	"github.com/tochemey/stage/log"
)

// Option sets a custom scheduler setting.
type Option func(scheduler *Scheduler)

// WithLogger sets the scheduler logger.
func WithLogger(logger log.Logger) Option {
	return func(scheduler *Scheduler) {
		scheduler.logger = logger
	}
}

// WithStopTimeout bounds how long Stop waits for in-flight deliveries.
func WithStopTimeout(timeout time.Duration) Option {
	return func(scheduler *Scheduler) {
		scheduler.stopTimeout = timeout
	}
}

// Scheduler stacks messages for future delivery to actor addresses. Every
// schedule call returns a job identifier usable with Cancel.
type Scheduler struct {
	mu              sync.Mutex
	quartzScheduler quartz.Scheduler
	started         *atomic.Bool
	logger          log.Logger
	stopTimeout     time.Duration
}

// New creates a scheduler. It delivers nothing until Start.
func New(opts ...Option) *Scheduler {
	quartzScheduler, _ := quartz.NewStdScheduler(quartz.WithLogger(quartzlogger.NewSimpleLogger(nil, quartzlogger.LevelOff)))

	scheduler := &Scheduler{
		quartzScheduler: quartzScheduler,
		started:         atomic.NewBool(false),
		logger:          log.DefaultLogger,
		stopTimeout:     3 * time.Second,
	}
	for _, opt := range opts {
		opt(scheduler)
	}
	return scheduler
}

// Start starts the scheduler.
func (x *Scheduler) Start(ctx context.Context) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.logger.Info("starting messages scheduler...")
	x.quartzScheduler.Start(ctx)
	x.started.Store(x.quartzScheduler.IsStarted())
	x.logger.Info("messages scheduler started")
}

// Stop clears every schedule and shuts the scheduler down, waiting up to the
// stop timeout for in-flight deliveries.
func (x *Scheduler) Stop(ctx context.Context) {
	if !x.started.Load() {
		return
	}

	x.logger.Info("stopping messages scheduler...")
	x.mu.Lock()
	defer x.mu.Unlock()
	_ = x.quartzScheduler.Clear()
	x.quartzScheduler.Stop()
	x.started.Store(x.quartzScheduler.IsStarted())

	ctx, cancel := context.WithTimeout(ctx, x.stopTimeout)
	defer cancel()
	x.quartzScheduler.Wait(ctx)

	x.logger.Info("messages scheduler stopped")
}

// ScheduleOnce delivers message to addr once, after delay. It returns the job
// identifier.
func (x *Scheduler) ScheduleOnce(addr *actor.Address, message any, delay time.Duration) (string, error) {
	return x.schedule(addr, message, quartz.NewRunOnceTrigger(delay))
}

// ScheduleEvery delivers message to addr repeatedly at the given interval,
// starting one interval from now, until the job is canceled or the scheduler
// stops.
func (x *Scheduler) ScheduleEvery(addr *actor.Address, message any, interval time.Duration) (string, error) {
	return x.schedule(addr, message, quartz.NewSimpleTrigger(interval))
}

// ScheduleWithCron delivers message to addr on the given cron expression,
// evaluated in the local time zone.
func (x *Scheduler) ScheduleWithCron(addr *actor.Address, message any, cronExpression string) (string, error) {
	trigger, err := quartz.NewCronTriggerWithLoc(cronExpression, time.Now().Location())
	if err != nil {
		x.logger.Error(fmt.Errorf("failed to schedule message: %w", err))
		return "", err
	}
	return x.schedule(addr, message, trigger)
}

// Cancel removes a scheduled job. Unknown identifiers fail with
// ErrScheduledJobNotFound.
func (x *Scheduler) Cancel(jobID string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if !x.started.Load() {
		return gerrors.ErrSchedulerNotStarted
	}
	if err := x.quartzScheduler.DeleteJob(quartz.NewJobKey(jobID)); err != nil {
		return gerrors.ErrScheduledJobNotFound
	}
	return nil
}

func (x *Scheduler) schedule(addr *actor.Address, message any, trigger quartz.Trigger) (string, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if !x.started.Load() {
		return "", gerrors.ErrSchedulerNotStarted
	}

	deliver := job.NewFunctionJob[bool](
		func(ctx context.Context) (bool, error) {
			err := addr.Send(ctx, message)
			return err == nil, err
		},
	)

	key := uuid.NewString()
	detail := quartz.NewJobDetail(deliver, quartz.NewJobKey(key))
	if err := x.quartzScheduler.ScheduleJob(detail, trigger); err != nil {
		return "", err
	}
	return key, nil
}
