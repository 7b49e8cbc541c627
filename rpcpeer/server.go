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
	"context"
	"net"

	"github.com/AGhost-7/schedule-m8/core"
	"github.com/AGhost-7/schedule-m8/job"
	"google.golang.org/grpc"
)

// LocalStore is the push/remove/clear surface a Server fronts. It is
// deliberately shard.Peer-shaped rather than shard.Store-shaped: Next
// is a polling concern the Dispatcher drives locally and never an RPC
// method, and *cluster.Cluster itself satisfies this interface, so one
// Server can front every shard a node owns locally at once, routing by
// id exactly the way a local caller would.
type LocalStore interface {
	Push(ctx *core.Context, j *job.Job) error
	Remove(ctx *core.Context, id string) (*job.Job, bool, error)
	Clear(ctx *core.Context) error
}

// storeServer adapts a LocalStore to NodeServer, translating to and
// from wire types at the boundary and mapping every core.Problem onto
// the gRPC status via problemToStatus.
type storeServer struct {
	ctx   *core.Context
	store LocalStore
}

func (s *storeServer) Push(ctx context.Context, req *WireJob) (*Empty, error) {
	j, err := FromWire(req)
	if err != nil {
		return nil, problemToStatus(ctx, err)
	}
	if err := s.store.Push(s.withStd(ctx), j); err != nil {
		return nil, problemToStatus(ctx, err)
	}
	return &Empty{}, nil
}

func (s *storeServer) Remove(ctx context.Context, req *IdRequest) (*JobReply, error) {
	j, ok, err := s.store.Remove(s.withStd(ctx), req.Id)
	if err != nil {
		return nil, problemToStatus(ctx, err)
	}
	if !ok {
		return &JobReply{Found: false}, nil
	}
	return &JobReply{Found: true, Job: ToWire(j)}, nil
}

func (s *storeServer) Clear(ctx context.Context, _ *Empty) (*Empty, error) {
	if err := s.store.Clear(s.withStd(ctx)); err != nil {
		return nil, problemToStatus(ctx, err)
	}
	return &Empty{}, nil
}

// withStd swaps the standard context carried on the inbound gRPC call
// into the logging core.Context this process otherwise threads
// everywhere, keeping call-scoped deadlines and cancellation.
func (s *storeServer) withStd(std context.Context) *core.Context {
	return core.NewContext(std, s.ctx.Logger)
}

// Server binds a LocalStore (one shard's Store, or a whole Cluster) to
// a listening address over gRPC,
// using the msgpack codec in place of protobuf. Modeled on
// crolt.main's listen-then-serve shape, generalized with an explicit
// ready signal: per spec 4.6, once Start returns the server is
// guaranteed to already be accepting connections.
type Server struct {
	ctx     *core.Context
	addr    string
	grpcSrv *grpc.Server
	stopped chan struct{}
}

// NewServer constructs a Server for store, to be bound at addr once
// Start is called.
func NewServer(ctx *core.Context, addr string, store LocalStore) *Server {
	grpcSrv := grpc.NewServer(grpc.ForceServerCodec(msgpackCodec{}))
	RegisterNodeServer(grpcSrv, &storeServer{ctx: ctx, store: store})
	return &Server{ctx: ctx, addr: addr, grpcSrv: grpcSrv, stopped: make(chan struct{})}
}

// Start binds addr and begins serving in the background. It returns
// only after the listener is open, so a caller that wants the shard
// reachable before proceeding (e.g. before announcing it in a
// topology file) can rely on the return of Start rather than a
// fixed sleep.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return core.NewUnexpectedError("listening on %s: %v", s.addr, err)
	}
	s.addr = lis.Addr().String()
	go func() {
		defer close(s.stopped)
		_ = s.grpcSrv.Serve(lis)
	}()
	core.Log(core.INFO|core.SYS|core.RPC, s.ctx, "rpcpeer.start", "addr", s.addr)
	return nil
}

// Addr reports the address this server is bound to. Before Start is
// called it echoes the address passed to NewServer; afterward it's
// the listener's actual address, so a "host:0" given to NewServer
// resolves to the OS-chosen port a test or a peer can dial.
func (s *Server) Addr() string {
	return s.addr
}

// Stop drains in-flight RPCs and blocks until the serve loop has
// fully returned, acknowledging shutdown the way spec 4.6 describes:
// a second one-shot completes only once the listener is actually
// closed.
func (s *Server) Stop() {
	s.grpcSrv.GracefulStop()
	<-s.stopped
	core.Log(core.INFO|core.SYS|core.RPC, s.ctx, "rpcpeer.stop", "addr", s.addr)
}
