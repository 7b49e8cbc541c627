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

package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/AGhost-7/schedule-m8/core"
	"github.com/AGhost-7/schedule-m8/job"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shard.db")
	s, err := Open(core.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func mustJob(t *testing.T, id string, at time.Time) *job.Job {
	t.Helper()
	j, err := job.New(id, "POST", "http://example.test/cb", "{}", at, "")
	require.NoError(t, err)
	return j
}

func TestPushThenRemoveLeavesNothingDue(t *testing.T) {
	s := openTestStore(t)
	ctx := core.Background()
	j := mustJob(t, "id-1", time.Now().Add(-time.Second))

	require.NoError(t, s.Push(ctx, j))

	got, ok, err := s.Remove(ctx, "id-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "id-1", got.Id)

	next, ok, err := s.Next(ctx)
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, next)
}

func TestNextYieldsEarliestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := core.Background()
	now := time.Now().Add(-time.Minute)

	later := mustJob(t, "later", now.Add(10*time.Second))
	earlier := mustJob(t, "earlier", now)

	require.NoError(t, s.Push(ctx, later))
	require.NoError(t, s.Push(ctx, earlier))

	first, ok, err := s.Next(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "earlier", first.Id)

	second, ok, err := s.Next(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "later", second.Id)
}

func TestClearEmptiesEverything(t *testing.T) {
	s := openTestStore(t)
	ctx := core.Background()
	require.NoError(t, s.Push(ctx, mustJob(t, "id-1", time.Now().Add(-time.Second))))

	require.NoError(t, s.Clear(ctx))

	_, ok, err := s.Next(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = s.Remove(ctx, "id-1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestOpenRecoversPendingJobs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shard.db")
	ctx := core.Background()

	s1, err := Open(ctx, path)
	require.NoError(t, err)
	past := time.Now().Add(-time.Second)
	require.NoError(t, s1.Push(ctx, mustJob(t, "id-1", past)))
	require.NoError(t, s1.Push(ctx, mustJob(t, "id-2", past.Add(time.Millisecond))))
	require.NoError(t, s1.Close())

	s2, err := Open(ctx, path)
	require.NoError(t, err)
	defer s2.Close()

	ids := map[string]bool{}
	for i := 0; i < 2; i++ {
		j, ok, err := s2.Next(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		ids[j.Id] = true
	}
	require.Equal(t, map[string]bool{"id-1": true, "id-2": true}, ids)
}

func TestNotDueYetReturnsNone(t *testing.T) {
	s := openTestStore(t)
	ctx := core.Background()
	require.NoError(t, s.Push(ctx, mustJob(t, "id-1", time.Now().Add(time.Hour))))

	_, ok, err := s.Next(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRemoveOfNeverPushedIDReturnsNotFound(t *testing.T) {
	s := openTestStore(t)
	_, ok, err := s.Remove(core.Background(), "ghost")
	require.NoError(t, err)
	require.False(t, ok)
}

func BenchmarkJobRoundTrip(b *testing.B) {
	j, err := job.New("id-1", "POST", "http://example.test/cb", `{"hello":"world"}`, time.Now(), "")
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bs, err := j.MarshalBinary()
		if err != nil {
			b.Fatal(err)
		}
		var got job.Job
		if err := got.UnmarshalBinary(bs); err != nil {
			b.Fatal(err)
		}
	}
}
