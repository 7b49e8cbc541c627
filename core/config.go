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

package core

import (
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
)

// Config are read-only, boot-time settings bound from the environment.
// Once loaded, these values don't change for the life of the process.
type Config struct {
	// BindAddr is the address the HTTP API adapter listens on.
	BindAddr string `envconfig:"BIND_ADDR" default:"0.0.0.0:8001"`

	// DataDir holds the per-shard bolt databases.
	DataDir string `envconfig:"DATA_DIR"`

	// TopologyFile optionally names a YAML file mapping shard
	// indices to remote peer addresses; shards not listed are
	// Local. Empty means every shard is Local.
	TopologyFile string `envconfig:"TOPOLOGY_FILE" default:""`

	// RPCBindAddr, if set, serves this node's locally-owned shards
	// over the Node RPC service so another node's topology file can
	// name this node as their remote peer. Empty disables the RPC
	// server: a single-node deployment has no need for it.
	RPCBindAddr string `envconfig:"RPC_BIND_ADDR" default:""`
}

// EnvPrefix is the envconfig prefix: SCHEDULE_M8_BIND_ADDR,
// SCHEDULE_M8_DATA_DIR, SCHEDULE_M8_TOPOLOGY_FILE.
const EnvPrefix = "SCHEDULE_M8"

// LoadConfig reads Config from the environment, defaulting DataDir to
// <cwd>/.data when unset.
func LoadConfig() (*Config, error) {
	var c Config
	if err := envconfig.Process(EnvPrefix, &c); err != nil {
		return nil, NewUnexpectedError("loading config: %v", err)
	}
	if c.DataDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, NewUnexpectedError("getwd: %v", err)
		}
		c.DataDir = filepath.Join(cwd, ".data")
	}
	return &c, nil
}
