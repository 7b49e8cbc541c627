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

// Package rpcpeer exposes a shard's push/remove/clear contract over
// gRPC so a Remote shard can reach its owning Store on another node.
// Grounded on the method-enum wire conversion in original_source's
// node/convert.rs, carried over to this generation's wire types.
package rpcpeer

import (
	"time"

	"github.com/AGhost-7/schedule-m8/core"
	"github.com/AGhost-7/schedule-m8/job"
)

func msToTime(ms uint64) time.Time {
	return time.UnixMilli(int64(ms)).UTC()
}

// wireMethod is the on-wire integer encoding of an HTTP method, the
// same enum the original implementation's node/convert.rs used: 0..8
// for the nine standard methods, -1 for anything else (rejected on
// the receiver rather than silently defaulting, since by the time a
// Job reaches the wire its method has already been validated once).
type wireMethod int32

const (
	methodGet wireMethod = iota
	methodHead
	methodPost
	methodPut
	methodDelete
	methodConnect
	methodOptions
	methodTrace
	methodPatch
	methodUnknown wireMethod = -1
)

var methodToWireTable = map[string]wireMethod{
	"GET": methodGet, "HEAD": methodHead, "POST": methodPost,
	"PUT": methodPut, "DELETE": methodDelete, "CONNECT": methodConnect,
	"OPTIONS": methodOptions, "TRACE": methodTrace, "PATCH": methodPatch,
}

var wireToMethodTable = map[wireMethod]string{
	methodGet: "GET", methodHead: "HEAD", methodPost: "POST",
	methodPut: "PUT", methodDelete: "DELETE", methodConnect: "CONNECT",
	methodOptions: "OPTIONS", methodTrace: "TRACE", methodPatch: "PATCH",
}

func methodToWire(m string) wireMethod {
	if w, ok := methodToWireTable[m]; ok {
		return w
	}
	return methodUnknown
}

func wireToMethod(w wireMethod) (string, bool) {
	m, ok := wireToMethodTable[w]
	return m, ok
}

// WireJob is the on-wire representation of a job.Job. Method is a
// small integer; schedule presence is an explicit flag so an empty
// schedule with HasSchedule=false round-trips to a true one-shot, and
// (in principle) an empty-but-present schedule is distinguishable from
// "no schedule at all" -- the canonical "no schedule" encoding is
// Schedule=="" && HasSchedule==false.
type WireJob struct {
	Id              string     `msgpack:"id"`
	Method          wireMethod `msgpack:"method"`
	URL             string     `msgpack:"url"`
	Body            string     `msgpack:"body"`
	TimestampMillis uint64     `msgpack:"timestamp_ms"`
	HasSchedule     bool       `msgpack:"has_schedule"`
	Schedule        string     `msgpack:"schedule"`
}

// ToWire converts a job.Job to its wire form. The method must already
// be one job.New would have accepted; callers that constructed Job
// outside of job.New are a programming error, not a wire concern.
func ToWire(j *job.Job) *WireJob {
	return &WireJob{
		Id:              j.Id,
		Method:          methodToWire(j.Method),
		URL:             j.URL,
		Body:            j.Body,
		TimestampMillis: uint64(j.TimestampMillis),
		HasSchedule:     j.Schedule != "",
		Schedule:        j.Schedule,
	}
}

// FromWire converts a WireJob back to a job.Job, or a ValidationError
// if the method integer is unknown (methodUnknown, or any value this
// generation doesn't recognize).
func FromWire(w *WireJob) (*job.Job, error) {
	method, ok := wireToMethod(w.Method)
	if !ok {
		return nil, core.NewValidationError("unknown wire method %d for job %s", w.Method, w.Id)
	}
	schedule := ""
	if w.HasSchedule {
		schedule = w.Schedule
	}
	j := &job.Job{
		Id:       w.Id,
		Method:   method,
		URL:      w.URL,
		Body:     w.Body,
		Schedule: schedule,
	}
	j.SetTimestamp(msToTime(w.TimestampMillis))
	return j, nil
}

// IdRequest names a job id for Remove.
type IdRequest struct {
	Id string `msgpack:"id"`
}

// JobReply carries an optional Job back from Remove: Found=false means
// the id was never pushed or was already popped/removed.
type JobReply struct {
	Found bool     `msgpack:"found"`
	Job   *WireJob `msgpack:"job,omitempty"`
}

// Empty is the request/reply shape for calls that carry no payload
// (Push's reply, Clear's request and reply).
type Empty struct{}

// ErrorDetail carries the Problem kind of a failed call across the
// wire. It travels msgpack-encoded in the call's binary trailer
// metadata (errorDetailKey) next to the gRPC status, not inside the
// status's details.
type ErrorDetail struct {
	Kind    string `msgpack:"kind"`
	Message string `msgpack:"message"`
}
