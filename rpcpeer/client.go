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
	"time"

	"github.com/AGhost-7/schedule-m8/core"
	"github.com/AGhost-7/schedule-m8/job"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

// DefaultCallTimeout bounds a single RPC when the caller's context
// carries no deadline of its own.
const DefaultCallTimeout = 10 * time.Second

// Peer is an RPC client satisfying shard.Peer, reaching one remote
// node's Store over gRPC with the msgpack codec forced on both ends.
type Peer struct {
	addr string
	conn *grpc.ClientConn
}

// Dial opens a connection to addr. The connection is lazy (gRPC
// dials on first use), matching the teacher's habit of deferring
// network work to the first real call rather than blocking at
// construction.
func Dial(addr string) (*Peer, error) {
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(msgpackCodec{})),
	)
	if err != nil {
		return nil, core.NewNodeUnreachable(addr, "dialing: %v", err)
	}
	return &Peer{addr: addr, conn: conn}, nil
}

// Close releases the underlying connection.
func (p *Peer) Close() error {
	return p.conn.Close()
}

func (p *Peer) callCtx(ctx *core.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Context.Deadline(); ok {
		return ctx.Context, func() {}
	}
	return context.WithTimeout(ctx.Context, DefaultCallTimeout)
}

func (p *Peer) invoke(ctx *core.Context, method string, req, reply interface{}) error {
	std, cancel := p.callCtx(ctx)
	defer cancel()

	var trailer metadata.MD
	err := p.conn.Invoke(std, "/"+serviceName+"/"+method, req, reply, grpc.Trailer(&trailer))
	if err != nil {
		return statusToProblem(err, trailer, p.addr)
	}
	return nil
}

// Push sends j to the remote node.
func (p *Peer) Push(ctx *core.Context, j *job.Job) error {
	return p.invoke(ctx, "Push", ToWire(j), new(Empty))
}

// Remove asks the remote node to remove id.
func (p *Peer) Remove(ctx *core.Context, id string) (*job.Job, bool, error) {
	reply := new(JobReply)
	if err := p.invoke(ctx, "Remove", &IdRequest{Id: id}, reply); err != nil {
		return nil, false, err
	}
	if !reply.Found {
		return nil, false, nil
	}
	j, err := FromWire(reply.Job)
	if err != nil {
		return nil, false, err
	}
	return j, true, nil
}

// Clear asks the remote node to drop everything it holds.
func (p *Peer) Clear(ctx *core.Context) error {
	return p.invoke(ctx, "Clear", new(Empty), new(Empty))
}
