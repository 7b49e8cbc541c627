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

package cluster

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadTopologyWithEmptyPathMeansEverythingLocal(t *testing.T) {
	topo, err := LoadTopology("")
	require.NoError(t, err)
	_, ok := topo.AddrFor(0)
	require.False(t, ok)
}

func TestLoadTopologyParsesPeerAddresses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topology.yaml")
	require.NoError(t, os.WriteFile(path, []byte("peers:\n  3: 10.0.0.1:9001\n  9: 10.0.0.2:9001\n"), 0644))

	topo, err := LoadTopology(path)
	require.NoError(t, err)

	addr, ok := topo.AddrFor(3)
	require.True(t, ok)
	require.Equal(t, "10.0.0.1:9001", addr)

	_, ok = topo.AddrFor(4)
	require.False(t, ok)
}

func TestLoadTopologyRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topology.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not: [valid"), 0644))

	_, err := LoadTopology(path)
	require.Error(t, err)
}
