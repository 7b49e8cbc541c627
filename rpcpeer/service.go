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

	"google.golang.org/grpc"
)

// serviceName is the gRPC full service name, "<package>.<Service>".
const serviceName = "schedulem8.Node"

// NodeServer is the application-level interface the Node gRPC service
// dispatches to: one shard's push/remove/clear contract, expressed in
// wire types instead of job.Job so this package stays the only one
// that knows about the wire encoding.
type NodeServer interface {
	Push(ctx context.Context, req *WireJob) (*Empty, error)
	Remove(ctx context.Context, req *IdRequest) (*JobReply, error)
	Clear(ctx context.Context, req *Empty) (*Empty, error)
}

func pushHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(WireJob)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeServer).Push(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/Push"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(NodeServer).Push(ctx, req.(*WireJob))
	}
	return interceptor(ctx, in, info, handler)
}

func removeHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(IdRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeServer).Remove(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/Remove"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(NodeServer).Remove(ctx, req.(*IdRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func clearHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeServer).Clear(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/Clear"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(NodeServer).Clear(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// nodeServiceDesc is the hand-written equivalent of what
// protoc-gen-go-grpc would generate from a Node service with Push,
// Remove, and Clear unary RPCs. Written by hand because the wire
// types here are plain structs moved by the msgpack codec rather than
// protoc-generated proto.Message values, so there is no .proto to run
// through the generator.
var nodeServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*NodeServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Push", Handler: pushHandler},
		{MethodName: "Remove", Handler: removeHandler},
		{MethodName: "Clear", Handler: clearHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "schedulem8/node.proto",
}

// RegisterNodeServer attaches impl to s under the Node service.
func RegisterNodeServer(s *grpc.Server, impl NodeServer) {
	s.RegisterService(&nodeServiceDesc, impl)
}
