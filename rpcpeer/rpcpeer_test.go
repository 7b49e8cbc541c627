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

package rpcpeer

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/AGhost-7/schedule-m8/core"
	"github.com/AGhost-7/schedule-m8/job"
	"github.com/AGhost-7/schedule-m8/store"
	"github.com/stretchr/testify/require"
)

func startTestServer(t *testing.T) (*Peer, *store.Store) {
	t.Helper()
	ctx := core.Background()

	s, err := store.Open(ctx, filepath.Join(t.TempDir(), "shard.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	// Port 0 lets the OS pick a free port; Server.Addr() reports the
	// actual bound address once Start returns, avoiding the flakiness
	// of guessing a fixed port across parallel test binaries.
	srv := NewServer(ctx, "127.0.0.1:0", s)
	require.NoError(t, srv.Start())
	t.Cleanup(srv.Stop)

	peer, err := Dial(srv.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { peer.Close() })

	return peer, s
}

func TestPeerPushReachesRemoteStore(t *testing.T) {
	peer, s := startTestServer(t)
	ctx := core.Background()

	j, err := job.New("id-1", "POST", "http://example.test/cb", "{}", time.Now().Add(time.Hour), "")
	require.NoError(t, err)

	require.NoError(t, peer.Push(ctx, j))
	require.Equal(t, 1, s.Len())
}

func TestPeerRemoveRoundTripsTheJob(t *testing.T) {
	peer, _ := startTestServer(t)
	ctx := core.Background()

	at := time.Now().Add(time.Hour)
	j, err := job.New("id-1", "PUT", "http://example.test/cb", "payload", at, "")
	require.NoError(t, err)
	require.NoError(t, peer.Push(ctx, j))

	got, ok, err := peer.Remove(ctx, "id-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "id-1", got.Id)
	require.Equal(t, "PUT", got.Method)
	require.Equal(t, "payload", got.Body)
	require.WithinDuration(t, at, got.Timestamp, time.Second)
}

func TestPeerRemoveOfUnknownIDReportsNotFound(t *testing.T) {
	peer, _ := startTestServer(t)
	ctx := core.Background()

	got, ok, err := peer.Remove(ctx, "never-pushed")
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, got)
}

func TestPeerClearEmptiesTheRemoteStore(t *testing.T) {
	peer, s := startTestServer(t)
	ctx := core.Background()

	j, err := job.New("id-1", "POST", "http://example.test/cb", "{}", time.Now().Add(time.Hour), "")
	require.NoError(t, err)
	require.NoError(t, peer.Push(ctx, j))
	require.Equal(t, 1, s.Len())

	require.NoError(t, peer.Clear(ctx))
	require.Equal(t, 0, s.Len())
}

func TestFromWireOfUnknownWireMethodIsValidationError(t *testing.T) {
	_, s := startTestServer(t)
	ctx := core.Background()

	// Drive FromWire directly: job.New would itself reject an unknown
	// method before a WireJob could ever be built, so the only way an
	// unknown wireMethod reaches Push is a future/foreign peer sending
	// an enum value this generation doesn't recognize.
	_, err := FromWire(&WireJob{Id: "id-1", Method: wireMethod(99), URL: "http://example.test"})
	require.Error(t, err)
	var ve *core.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, 0, s.Len())
}
