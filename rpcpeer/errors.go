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

	"github.com/AGhost-7/schedule-m8/core"
	"github.com/vmihailenco/msgpack/v5"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// errorDetailKey is the binary trailer metadata key carrying a
// msgpack-encoded ErrorDetail, piggy-backed on the transport status
// the way spec 4.6 describes, without requiring a proto.Message (this
// service's messages are plain structs moved by the msgpack codec, not
// protoc-generated types).
const errorDetailKey = "error-detail-bin"

const (
	kindValidation  = "validation"
	kindUnexpected  = "unexpected"
	kindNodeUnreach = "node_unreachable"
	kindDeserialize = "rpc_deserialization"
)

// problemToStatus maps a core.Problem to a gRPC status code and sets
// an ErrorDetail trailer describing its kind, so the client can
// reconstruct the same Problem kind after the call returns.
func problemToStatus(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	var code codes.Code
	var kind string
	switch err.(type) {
	case *core.ValidationError:
		code, kind = codes.InvalidArgument, kindValidation
	case *core.NodeUnreachable:
		code, kind = codes.Unavailable, kindNodeUnreach
	case *core.RpcDeserializationError:
		code, kind = codes.Internal, kindDeserialize
	default:
		code, kind = codes.Internal, kindUnexpected
	}

	detail := ErrorDetail{Kind: kind, Message: err.Error()}
	if bs, encErr := msgpack.Marshal(&detail); encErr == nil {
		grpc.SetTrailer(ctx, metadata.Pairs(errorDetailKey, string(bs)))
	}
	return status.Error(code, err.Error())
}

// statusToProblem reconstructs a core.Problem from a failed call's
// status and trailer metadata. A status with no trailer, or a trailer
// that does not decode, yields RpcDeserializationError; a trailer
// naming an unknown kind yields UnexpectedRpcError carrying the kind
// and message; a status the transport itself produced (Unavailable,
// DeadlineExceeded with no trailer at all) decodes to NodeUnreachable.
func statusToProblem(err error, trailer metadata.MD, addr string) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return core.NewNodeUnreachable(addr, "%v", err)
	}

	vals := trailer.Get(errorDetailKey)
	if len(vals) == 0 {
		if st.Code() == codes.Unavailable || st.Code() == codes.DeadlineExceeded {
			return core.NewNodeUnreachable(addr, "%s", st.Message())
		}
		return core.NewRpcDeserializationError("no error detail trailer on status %s: %s", st.Code(), st.Message())
	}

	var detail ErrorDetail
	if err := msgpack.Unmarshal([]byte(vals[0]), &detail); err != nil {
		return core.NewRpcDeserializationError("decoding error detail: %v", err)
	}

	switch detail.Kind {
	case kindValidation:
		return core.NewValidationError("%s", detail.Message)
	case kindUnexpected:
		return core.NewUnexpectedError("%s", detail.Message)
	case kindNodeUnreach:
		return core.NewNodeUnreachable(addr, "%s", detail.Message)
	case kindDeserialize:
		return core.NewRpcDeserializationError("%s", detail.Message)
	default:
		return core.NewUnexpectedRpcError("%s: %s", detail.Kind, detail.Message)
	}
}
