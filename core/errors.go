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

import "fmt"

// Problem is the interface every error kind surfaced at an API or RPC
// boundary implements. Internal invariant violations inside Store are
// not Problems: they panic, because they indicate a bug, not a
// recoverable condition.
type Problem interface {
	error
	IsFatal() bool
}

// ValidationError is malformed input: a bad cron expression, an unknown
// HTTP method, a bad id. Never retried.
type ValidationError struct {
	Msg string
}

func NewValidationError(s string, args ...interface{}) *ValidationError {
	return &ValidationError{fmt.Sprintf(s, args...)}
}

func (e *ValidationError) Error() string { return "validation: " + e.Msg }
func (e *ValidationError) IsFatal() bool { return false }

// UnexpectedError is an internal invariant violation or an I/O failure
// outside the expected class. Logged, mapped to 500 at the API.
type UnexpectedError struct {
	Msg string
}

func NewUnexpectedError(s string, args ...interface{}) *UnexpectedError {
	return &UnexpectedError{fmt.Sprintf(s, args...)}
}

func (e *UnexpectedError) Error() string { return "unexpected: " + e.Msg }
func (e *UnexpectedError) IsFatal() bool { return true }

// NodeUnreachable is an RPC transport failure talking to a remote
// shard. Mapped to 503 at the API.
type NodeUnreachable struct {
	Addr string
	Msg  string
}

func NewNodeUnreachable(addr string, s string, args ...interface{}) *NodeUnreachable {
	return &NodeUnreachable{addr, fmt.Sprintf(s, args...)}
}

func (e *NodeUnreachable) Error() string {
	return fmt.Sprintf("node unreachable (%s): %s", e.Addr, e.Msg)
}
func (e *NodeUnreachable) IsFatal() bool { return false }

// RpcDeserializationError means a remote peer returned a structurally
// invalid error payload. Mapped to 500.
type RpcDeserializationError struct {
	Msg string
}

func NewRpcDeserializationError(s string, args ...interface{}) *RpcDeserializationError {
	return &RpcDeserializationError{fmt.Sprintf(s, args...)}
}

func (e *RpcDeserializationError) Error() string { return "rpc deserialization: " + e.Msg }
func (e *RpcDeserializationError) IsFatal() bool { return true }

// UnexpectedRpcError wraps an application error a remote peer returned
// that doesn't map to any known kind. The message is preserved for logs.
type UnexpectedRpcError struct {
	Msg string
}

func NewUnexpectedRpcError(s string, args ...interface{}) *UnexpectedRpcError {
	return &UnexpectedRpcError{fmt.Sprintf(s, args...)}
}

func (e *UnexpectedRpcError) Error() string { return "unexpected rpc error: " + e.Msg }
func (e *UnexpectedRpcError) IsFatal() bool { return false }
