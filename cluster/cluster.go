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

// Package cluster owns the fixed vector of shards and routes a job id
// to exactly one of them by consistent hashing. Generalizes
// crolt.Cron.Partition (an fnv64a hash modulo a small partition count)
// from 4 partitions hand-rolled per account to 127 shards addressed
// uniformly through the shard.Shard contract.
package cluster

import (
	"hash/fnv"

	"github.com/AGhost-7/schedule-m8/core"
	"github.com/AGhost-7/schedule-m8/job"
	"github.com/AGhost-7/schedule-m8/shard"
)

// NumShards is the size of the fixed shard vector every node agrees
// on. 127 is prime, which reduces modular bias from the hash, and
// balances the number of independent priority queues against the cost
// of a linear Clear fan-out.
const NumShards = 127

// Cluster routes by id to one of a fixed vector of shards. All
// operations taking an id delegate to shards[Index(id)]; Clear fans
// out to every shard and aggregates errors.
type Cluster struct {
	shards [NumShards]shard.Shard
}

// New builds a Cluster from exactly NumShards shards, indexed 0..126
// in the order given.
func New(shards [NumShards]shard.Shard) *Cluster {
	return &Cluster{shards: shards}
}

// Index deterministically maps an id to a shard index using a 64-bit
// FNV-1a hash modulo NumShards. The same function must run on every
// node so a future remote peer can independently route a client's
// request to the owning shard.
func Index(id string) int {
	h := fnv.New64a()
	h.Write([]byte(id))
	return int(h.Sum64() % NumShards)
}

// ShardFor returns the shard that owns id.
func (c *Cluster) ShardFor(id string) shard.Shard {
	return c.shards[Index(id)]
}

// Shards exposes the underlying vector in index order, for the
// Dispatcher to walk and for bootstrap/topology wiring.
func (c *Cluster) Shards() [NumShards]shard.Shard {
	return c.shards
}

// Push routes j to its owning shard by j.Id.
func (c *Cluster) Push(ctx *core.Context, j *job.Job) error {
	s := c.ShardFor(j.Id)
	core.Log(core.INFO|core.CLUSTER, ctx, "Cluster.Push", "id", j.Id, "shard", Index(j.Id))
	return s.Push(ctx, j)
}

// Remove routes to id's owning shard.
func (c *Cluster) Remove(ctx *core.Context, id string) (*job.Job, bool, error) {
	s := c.ShardFor(id)
	core.Log(core.INFO|core.CLUSTER, ctx, "Cluster.Remove", "id", id, "shard", Index(id))
	return s.Remove(ctx, id)
}

// Clear fans out to every shard, aggregating (not short-circuiting on)
// the first error so one unreachable remote shard doesn't hide whether
// the other 126 succeeded.
func (c *Cluster) Clear(ctx *core.Context) error {
	core.Log(core.INFO|core.CLUSTER, ctx, "Cluster.Clear")
	var errs []error
	for i, s := range c.shards {
		if err := s.Clear(ctx); err != nil {
			core.Log(core.WARN|core.CLUSTER, ctx, "Cluster.Clear", "shard", i, "error", err)
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return core.NewUnexpectedError("clear failed on %d/%d shards: %v", len(errs), NumShards, errs[0])
}
