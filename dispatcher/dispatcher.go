// Copyright 2026 The Schedulem8 Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// End Copyright

// Package dispatcher drives time-based delivery: a periodic tick that
// drains due jobs from every local shard's store and fires their HTTP
// callbacks, re-enrolling cron jobs at their next occurrence first.
// Grounded on crolt.Cron.WorkLoops/Cron.work (the per-partition polling
// goroutine) and crolt's Job.Do (the outbound HTTP send), generalized
// from crolt's per-partition bolt cursor scan to ticking each shard's
// Store.Next in the order the Cluster lists shards.
package dispatcher

import (
	"time"

	"github.com/AGhost-7/schedule-m8/cluster"
	"github.com/AGhost-7/schedule-m8/core"
	"github.com/AGhost-7/schedule-m8/cronplan"
	"github.com/AGhost-7/schedule-m8/job"
	"github.com/AGhost-7/schedule-m8/shard"
)

// TickPeriod is the dispatcher's wake-up interval. 500ms: enough
// precision for an HTTP callback scheduler without busy-polling the
// store.
const TickPeriod = 500 * time.Millisecond

// localShard is the subset of shard.Shard state the dispatcher acts
// on: a store to drain and its shard index (used only for logging).
type localShard struct {
	index int
	store shard.Store
}

// Dispatcher owns the tick loop. It holds shared references to every
// local shard's store; stores do not know the dispatcher, avoiding a
// reference cycle.
type Dispatcher struct {
	shards  []localShard
	planner *cronplan.Planner
	sender  Sender

	stop chan struct{}
	done chan struct{}
}

// Sender sends a Job's HTTP callback. Implemented by Client in this
// package; a test double can substitute any Sender.
type Sender interface {
	Send(ctx *core.Context, j *job.Job)
}

// New builds a Dispatcher over the given shard vector's local shards
// (non-local shards, i.e. Remote and Migrating, are skipped: their
// owning node ticks them). planner resolves cron successors; sender
// fires the HTTP callback.
func New(shards [cluster.NumShards]shard.Shard, planner *cronplan.Planner, sender Sender) *Dispatcher {
	d := &Dispatcher{planner: planner, sender: sender, stop: make(chan struct{}), done: make(chan struct{})}
	for i, s := range shards {
		if store, ok := s.Local(); ok {
			d.shards = append(d.shards, localShard{index: i, store: store})
		}
	}
	return d
}

// Start runs the tick loop until Stop is called. It blocks; call it in
// its own goroutine.
func (d *Dispatcher) Start(ctx *core.Context) {
	defer close(d.done)
	ticker := time.NewTicker(TickPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-d.stop:
			core.Log(core.INFO|core.DISPATCH, ctx, "Dispatcher.Start", "stopping", true)
			return
		case <-ticker.C:
			d.tick(ctx)
		}
	}
}

// Stop signals the dispatcher to interrupt at the next tick boundary
// and blocks until the loop has exited. In-flight HTTP requests are
// allowed to complete or time out under the HTTP client's own rules;
// Stop does not cancel them.
func (d *Dispatcher) Stop() {
	close(d.stop)
	<-d.done
}

// tick drains every local shard's store, in shard-index order,
// draining one shard's Next() fully before moving to the next. Firings
// within one shard proceed in timestamp order; across shards, ordering
// is unspecified.
func (d *Dispatcher) tick(ctx *core.Context) {
	timer := core.NewTimer(ctx, "Dispatcher.tick")
	defer timer.Stop()

	for _, ls := range d.shards {
		for {
			j, ok, err := ls.store.Next(ctx)
			if err != nil {
				core.Log(core.ERROR|core.DISPATCH, ctx, "Dispatcher.tick", "shard", ls.index, "error", err)
				break
			}
			if !ok {
				break
			}
			d.fire(ctx, ls, j)
		}
	}
}

// fire re-enrolls a cron job's successor (before sending, so a crash
// between enroll and send produces at most one missed firing of the
// current occurrence but never a double enrollment), then sends the
// HTTP callback. One-shots are not re-queued: at-least-once delivery
// for one-shots means a failed send is logged and dropped, never
// retried by this loop.
func (d *Dispatcher) fire(ctx *core.Context, ls localShard, j *job.Job) {
	if j.IsCron() {
		next, err := d.planner.Next(j.Schedule, time.Now())
		if err != nil {
			// The schedule was validated at push time; a failure
			// here means the stored value was corrupted after the
			// fact. Log and drop the recurrence rather than wedge
			// the tick loop.
			core.Log(core.ERROR|core.DISPATCH|core.CRON, ctx, "Dispatcher.fire", "id", j.Id, "error", err)
		} else {
			successor := j.Clone()
			successor.SetTimestamp(next)
			if err := ls.store.Push(ctx, successor); err != nil {
				core.Log(core.ERROR|core.DISPATCH|core.CRON, ctx, "Dispatcher.fire", "id", j.Id, "error", err, "when", "re-enroll")
			} else {
				core.Log(core.INFO|core.DISPATCH|core.CRON, ctx, "Dispatcher.fire", "id", j.Id, "next", next)
			}
		}
	}

	d.sender.Send(ctx, j)
}
