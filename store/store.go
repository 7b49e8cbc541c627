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

// Package store implements the durable priority queue each shard owns:
// a thread-safe id -> Job map combined with a min-priority queue keyed
// on timestamp, backed by an embedded bolt database so the queue
// survives restart. Grounded on storage/bolt's Add/Remove/Load/Clear
// shape and crolt.Cron's bucket layout, generalized to a single
// bucket per store with an in-memory heap standing in for the
// time-ordered key range crolt scanned directly in bolt.
package store

import (
	"sync"
	"time"

	"github.com/AGhost-7/schedule-m8/core"
	"github.com/AGhost-7/schedule-m8/job"
	"github.com/boltdb/bolt"
)

// QueueBucket is the single bolt bucket a Store uses. A fixed name
// namespaces the queue from any other future keyspace in the same
// database file.
var QueueBucket = []byte("q")

// Store is a thread-safe mapping from job id to Job, combined with a
// min-priority queue on timestamp, durable under DB.
type Store struct {
	db *bolt.DB

	mu   sync.Mutex
	heap *idHeap
}

var openOptions = &bolt.Options{Timeout: 5 * time.Second}

// Open opens (creating if necessary) the bolt database at path and
// rebuilds the in-memory priority queue by scanning every key under
// the queue bucket. After Open returns, Next is always correct even if
// the previous process crashed mid-tick: the in-memory queue is a pure
// cache of the durable keyspace, never the source of truth.
func Open(ctx *core.Context, path string) (*Store, error) {
	core.Log(core.INFO|core.STORE, ctx, "Store.Open", "path", path)

	db, err := bolt.Open(path, 0644, openOptions)
	if err != nil {
		return nil, core.NewUnexpectedError("opening store %s: %v", path, err)
	}

	s := &Store{db: db, heap: newIDHeap()}

	err = db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(QueueBucket)
		if err != nil {
			return err
		}
		c := bucket.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var j job.Job
			if err := j.UnmarshalBinary(v); err != nil {
				core.Log(core.CRIT|core.STORE, ctx, "Store.Open", "error", err, "key", string(k))
				return core.NewUnexpectedError("decoding job %s: %v", k, err)
			}
			s.heap.Upsert(j.Id, j.Timestamp)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	core.Log(core.INFO|core.STORE, ctx, "Store.Open", "path", path, "recovered", s.heap.Len())
	return s, nil
}

// Close releases the underlying bolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Push upserts job into both the durable log and the in-memory
// priority queue. Safe for concurrent use alongside Next and Remove.
func (s *Store) Push(ctx *core.Context, j *job.Job) error {
	timer := core.NewTimer(ctx, "Store.Push")
	defer timer.Stop()

	bs, err := j.MarshalBinary()
	if err != nil {
		return core.NewUnexpectedError("encoding job %s: %v", j.Id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(QueueBucket).Put([]byte(j.Id), bs)
	})
	if err != nil {
		return core.NewUnexpectedError("persisting job %s: %v", j.Id, err)
	}

	s.heap.Upsert(j.Id, j.Timestamp)
	core.Log(core.INFO|core.STORE, ctx, "Store.Push", "id", j.Id, "at", j.Timestamp)
	return nil
}

// Next peeks the earliest entry; if its timestamp is at or before now,
// it pops it, deletes the durable entry, and returns the decoded Job.
// Otherwise it returns (nil, false, nil): nothing is due yet.
func (s *Store) Next(ctx *core.Context) (*job.Job, bool, error) {
	timer := core.NewTimer(ctx, "Store.Next")
	defer timer.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	id, ts, ok := s.heap.PeekMin()
	if !ok || ts.After(time.Now().UTC()) {
		return nil, false, nil
	}

	var j job.Job
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(QueueBucket)
		bs := bucket.Get([]byte(id))
		if bs == nil {
			// The in-memory queue said this id was present; the
			// durable log disagrees. That's a bug, not a
			// recoverable condition: the store is the source of
			// truth for its own invariants.
			panic("store: durable entry missing for id " + id)
		}
		if err := j.UnmarshalBinary(bs); err != nil {
			panic("store: corrupt durable entry for id " + id + ": " + err.Error())
		}
		return bucket.Delete([]byte(id))
	})
	if err != nil {
		return nil, false, core.NewUnexpectedError("popping job %s: %v", id, err)
	}

	if _, ok := s.heap.PopMin(); !ok {
		panic("store: heap entry vanished under the lock for id " + id)
	}

	core.Log(core.INFO|core.STORE, ctx, "Store.Next", "id", id, "at", j.Timestamp)
	return &j, true, nil
}

// Remove deletes the durable entry for id, if present, and evicts the
// matching priority entry. Returns (job, true, nil) on a hit, (nil,
// false, nil) if id was never pushed or was already popped/removed.
func (s *Store) Remove(ctx *core.Context, id string) (*job.Job, bool, error) {
	timer := core.NewTimer(ctx, "Store.Remove")
	defer timer.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		j     job.Job
		found bool
	)
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(QueueBucket)
		bs := bucket.Get([]byte(id))
		if bs == nil {
			return nil
		}
		if err := j.UnmarshalBinary(bs); err != nil {
			return core.NewUnexpectedError("decoding job %s: %v", id, err)
		}
		found = true
		return bucket.Delete([]byte(id))
	})
	if err != nil {
		return nil, false, err
	}
	if !found {
		core.Log(core.INFO|core.STORE, ctx, "Store.Remove", "id", id, "found", false)
		return nil, false, nil
	}

	s.heap.Evict(id)
	core.Log(core.INFO|core.STORE, ctx, "Store.Remove", "id", id, "found", true)
	return &j, true, nil
}

// Clear truncates the entire queue keyspace and the in-memory queue.
func (s *Store) Clear(ctx *core.Context) error {
	timer := core.NewTimer(ctx, "Store.Clear")
	defer timer.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(QueueBucket); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(QueueBucket)
		return err
	})
	if err != nil {
		return core.NewUnexpectedError("clearing store: %v", err)
	}

	s.heap = newIDHeap()
	core.Log(core.INFO|core.STORE, ctx, "Store.Clear")
	return nil
}

// Len reports the number of jobs currently queued, for diagnostics.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.heap.Len()
}
