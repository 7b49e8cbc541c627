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

// Command schedulem8 boots one node of the scheduler: it opens a
// per-shard bolt database for every shard this node owns locally,
// dials a remote peer for every shard the topology file hands to
// another node, and serves both the HTTP API and (when
// SCHEDULE_M8_RPC_BIND_ADDR is set) the RPC peer interface. Generalizes
// crolt/main.go's open-db-then-serve shape from a single bolt file
// and three handlers to 127 shards and two transports.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/AGhost-7/schedule-m8/api"
	"github.com/AGhost-7/schedule-m8/cluster"
	"github.com/AGhost-7/schedule-m8/core"
	"github.com/AGhost-7/schedule-m8/cronplan"
	"github.com/AGhost-7/schedule-m8/dispatcher"
	"github.com/AGhost-7/schedule-m8/rpcpeer"
	"github.com/AGhost-7/schedule-m8/shard"
	"github.com/AGhost-7/schedule-m8/store"
)

func main() {
	ctx := core.Background()

	cfg, err := core.LoadConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	topo, err := cluster.LoadTopology(cfg.TopologyFile)
	if err != nil {
		log.Fatalf("loading topology: %v", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("creating data dir %s: %v", cfg.DataDir, err)
	}

	var shards [cluster.NumShards]shard.Shard
	var stores []*store.Store
	var peers []*rpcpeer.Peer

	for i := 0; i < cluster.NumShards; i++ {
		if addr, remote := topo.AddrFor(i); remote {
			peer, err := rpcpeer.Dial(addr)
			if err != nil {
				log.Fatalf("dialing shard %d peer %s: %v", i, addr, err)
			}
			peers = append(peers, peer)
			shards[i] = shard.NewRemote(peer)
			continue
		}

		path := filepath.Join(cfg.DataDir, fmt.Sprintf("shard-%03d.db", i))
		s, err := store.Open(ctx, path)
		if err != nil {
			log.Fatalf("opening shard %d store %s: %v", i, path, err)
		}
		stores = append(stores, s)
		shards[i] = shard.NewLocal(s)
	}

	clust := cluster.New(shards)
	// LegacyQuestionMark is true here because the dispatcher's
	// re-enrollment planner must parse cron schedules stored by
	// either API generation: v1 cron jobs persist their raw,
	// unrewritten Schedule string (which may contain Quartz's legacy
	// '?'), and the rewrite is a no-op on schedules that never had one.
	planner := cronplan.NewPlanner(true)
	httpClient := dispatcher.NewClient()
	disp := dispatcher.New(shards, planner, httpClient)

	apiHandler := api.New(clust)
	apiSrv := api.NewServer(ctx, cfg.BindAddr, apiHandler)
	if err := apiSrv.Start(); err != nil {
		log.Fatalf("starting api server: %v", err)
	}

	var rpcSrv *rpcpeer.Server
	if cfg.RPCBindAddr != "" {
		rpcSrv = rpcpeer.NewServer(ctx, cfg.RPCBindAddr, clust)
		if err := rpcSrv.Start(); err != nil {
			log.Fatalf("starting rpc server: %v", err)
		}
	}

	go disp.Start(ctx)

	core.Log(core.INFO|core.SYS, ctx, "schedulem8.main", "bind_addr", apiSrv.Addr(), "data_dir", cfg.DataDir, "shards", cluster.NumShards)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	core.Log(core.INFO|core.SYS, ctx, "schedulem8.main", "shutting_down", true)

	disp.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := apiSrv.Stop(shutdownCtx); err != nil {
		core.Log(core.ERROR|core.SYS, ctx, "schedulem8.main", "error", err, "when", "api shutdown")
	}
	if rpcSrv != nil {
		rpcSrv.Stop()
	}

	for _, p := range peers {
		if err := p.Close(); err != nil {
			core.Log(core.WARN|core.SYS, ctx, "schedulem8.main", "error", err, "when", "peer close")
		}
	}
	for _, s := range stores {
		if err := s.Close(); err != nil {
			core.Log(core.WARN|core.SYS, ctx, "schedulem8.main", "error", err, "when", "store close")
		}
	}
}
