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

package shard

import (
	"testing"
	"time"

	"github.com/AGhost-7/schedule-m8/core"
	"github.com/AGhost-7/schedule-m8/job"
	"github.com/stretchr/testify/require"
)

// memStore is a minimal in-memory Store double for shard-level tests.
type memStore struct {
	jobs map[string]*job.Job
}

func newMemStore() *memStore { return &memStore{jobs: map[string]*job.Job{}} }

func (m *memStore) Push(ctx *core.Context, j *job.Job) error {
	m.jobs[j.Id] = j
	return nil
}
func (m *memStore) Next(ctx *core.Context) (*job.Job, bool, error) { return nil, false, nil }
func (m *memStore) Remove(ctx *core.Context, id string) (*job.Job, bool, error) {
	j, ok := m.jobs[id]
	delete(m.jobs, id)
	return j, ok, nil
}
func (m *memStore) Clear(ctx *core.Context) error {
	m.jobs = map[string]*job.Job{}
	return nil
}

type memPeer struct {
	jobs map[string]*job.Job
}

func newMemPeer() *memPeer { return &memPeer{jobs: map[string]*job.Job{}} }

func (p *memPeer) Push(ctx *core.Context, j *job.Job) error {
	p.jobs[j.Id] = j
	return nil
}
func (p *memPeer) Remove(ctx *core.Context, id string) (*job.Job, bool, error) {
	j, ok := p.jobs[id]
	delete(p.jobs, id)
	return j, ok, nil
}
func (p *memPeer) Clear(ctx *core.Context) error {
	p.jobs = map[string]*job.Job{}
	return nil
}

func TestLocalShardReportsLocal(t *testing.T) {
	s := NewLocal(newMemStore())
	_, ok := s.Local()
	require.True(t, ok)
}

func TestRemoteShardReportsNotLocal(t *testing.T) {
	s := NewRemote(newMemPeer())
	_, ok := s.Local()
	require.False(t, ok)
}

func TestMigratingShardPushesToRemoteOnly(t *testing.T) {
	local := newMemStore()
	remote := newMemPeer()
	m := NewMigrating(local, remote)
	ctx := core.Background()

	j, err := job.New("id-1", "GET", "http://example.test", "", time.Now(), "")
	require.NoError(t, err)
	require.NoError(t, m.Push(ctx, j))

	require.Contains(t, remote.jobs, "id-1")
	require.NotContains(t, local.jobs, "id-1")
}

func TestMigratingShardRemoveFallsBackToLocal(t *testing.T) {
	local := newMemStore()
	remote := newMemPeer()
	m := NewMigrating(local, remote)
	ctx := core.Background()

	j, err := job.New("id-1", "GET", "http://example.test", "", time.Now(), "")
	require.NoError(t, err)
	local.jobs["id-1"] = j

	got, ok, err := m.Remove(ctx, "id-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "id-1", got.Id)
}

func TestMigratingShardIsNotDispatchedLocally(t *testing.T) {
	m := NewMigrating(newMemStore(), newMemPeer())
	_, ok := m.Local()
	require.False(t, ok)
}
