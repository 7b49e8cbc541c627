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

	"github.com/AGhost-7/schedule-m8/core"
	"gopkg.in/yaml.v2"
)

// Topology names, for a subset of shard indices, the address of the
// remote peer that owns them. A shard index absent from Peers is
// Local. Read from SCHEDULE_M8_TOPOLOGY_FILE; when that env var is
// unset every shard is Local.
type Topology struct {
	Peers map[int]string `yaml:"peers"`
}

// LoadTopology reads and parses a topology file. path == "" returns an
// empty Topology (every shard Local) without touching the filesystem.
func LoadTopology(path string) (*Topology, error) {
	if path == "" {
		return &Topology{Peers: map[int]string{}}, nil
	}
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, core.NewUnexpectedError("reading topology file %s: %v", path, err)
	}
	var t Topology
	if err := yaml.Unmarshal(bs, &t); err != nil {
		return nil, core.NewValidationError("parsing topology file %s: %v", path, err)
	}
	if t.Peers == nil {
		t.Peers = map[int]string{}
	}
	return &t, nil
}

// AddrFor reports the remote peer address for shard index idx, if any.
func (t *Topology) AddrFor(idx int) (string, bool) {
	addr, ok := t.Peers[idx]
	return addr, ok
}
