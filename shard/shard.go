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

// Package shard gives the router one contract over three kinds of
// placement: a Local store, a Remote peer reached over RPC, and a
// Migrating shard caught between the two. Generalizes crolt.Cron (the
// one-and-only placement the teacher had) into a variant so future
// versions can hand a shard to a remote peer without touching Cluster.
package shard

import (
	"github.com/AGhost-7/schedule-m8/core"
	"github.com/AGhost-7/schedule-m8/job"
)

// Shard is the uniform push/remove/clear contract every placement
// implements.
type Shard interface {
	Push(ctx *core.Context, j *job.Job) error
	Remove(ctx *core.Context, id string) (*job.Job, bool, error)
	Clear(ctx *core.Context) error

	// Local reports whether this shard's store lives in this
	// process, i.e. whether the Dispatcher should tick it directly.
	Local() (store Store, ok bool)
}

// Store is the subset of *store.Store the shard package depends on.
// Kept as an interface (rather than importing the store package
// directly) so Local can be satisfied by anything with the right
// shape, including test doubles.
type Store interface {
	Push(ctx *core.Context, j *job.Job) error
	Next(ctx *core.Context) (*job.Job, bool, error)
	Remove(ctx *core.Context, id string) (*job.Job, bool, error)
	Clear(ctx *core.Context) error
}

// Peer is the subset of the RPC client the shard package depends on.
type Peer interface {
	Push(ctx *core.Context, j *job.Job) error
	Remove(ctx *core.Context, id string) (*job.Job, bool, error)
	Clear(ctx *core.Context) error
}

// LocalShard delegates directly to an in-process Store.
type LocalShard struct {
	store Store
}

func NewLocal(s Store) *LocalShard {
	return &LocalShard{store: s}
}

func (l *LocalShard) Push(ctx *core.Context, j *job.Job) error {
	return l.store.Push(ctx, j)
}

func (l *LocalShard) Remove(ctx *core.Context, id string) (*job.Job, bool, error) {
	return l.store.Remove(ctx, id)
}

func (l *LocalShard) Clear(ctx *core.Context) error {
	return l.store.Clear(ctx)
}

func (l *LocalShard) Local() (Store, bool) {
	return l.store, true
}

// RemoteShard forwards every call to a peer over RPC. Errors surface
// as whatever core.Problem kind the peer client mapped them to.
type RemoteShard struct {
	peer Peer
}

func NewRemote(p Peer) *RemoteShard {
	return &RemoteShard{peer: p}
}

func (r *RemoteShard) Push(ctx *core.Context, j *job.Job) error {
	return r.peer.Push(ctx, j)
}

func (r *RemoteShard) Remove(ctx *core.Context, id string) (*job.Job, bool, error) {
	return r.peer.Remove(ctx, id)
}

func (r *RemoteShard) Clear(ctx *core.Context) error {
	return r.peer.Clear(ctx)
}

func (r *RemoteShard) Local() (Store, bool) {
	return nil, false
}

// MigratingShard is reserved for moving a shard's ownership from a
// local store to a remote peer without the router ever seeing a
// third shard kind appear. Nothing in this version drives a migration
// (no-goal per spec), but the dual-sourced read path is real: pushes
// always go to the new owner (the remote peer), while removes must
// consult both, since the record may still be sitting in the local
// store when the migration started.
type MigratingShard struct {
	store Store
	peer  Peer
}

func NewMigrating(s Store, p Peer) *MigratingShard {
	return &MigratingShard{store: s, peer: p}
}

func (m *MigratingShard) Push(ctx *core.Context, j *job.Job) error {
	return m.peer.Push(ctx, j)
}

func (m *MigratingShard) Remove(ctx *core.Context, id string) (*job.Job, bool, error) {
	j, ok, err := m.peer.Remove(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if ok {
		return j, true, nil
	}
	return m.store.Remove(ctx, id)
}

func (m *MigratingShard) Clear(ctx *core.Context) error {
	if err := m.peer.Clear(ctx); err != nil {
		return err
	}
	return m.store.Clear(ctx)
}

func (m *MigratingShard) Local() (Store, bool) {
	// A migrating shard still owns in-flight local entries, but the
	// dispatcher must not tick it directly: the remote peer is the
	// new owner of record for anything freshly pushed, and driving
	// fire time from both sides at once would double-fire. Migration
	// isn't driven by this version, so this is unreachable in
	// practice, but the contract is: migrating shards are not local.
	return nil, false
}
