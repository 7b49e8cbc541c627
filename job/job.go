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

// Package job defines the scheduled-callback entity the rest of this
// module moves around: the Store persists it, the Dispatcher fires
// it, the Cluster routes by its id.
package job

import (
	"fmt"
	"time"

	"github.com/AGhost-7/schedule-m8/core"
	"github.com/vmihailenco/msgpack/v5"
)

// DefaultMethod is used when a Job is created without an explicit
// method, and when the dispatcher fails to parse a stored method at
// fire time (backward compatibility with jobs written before method
// was required).
const DefaultMethod = "POST"

// ValidMethods is the standard set of HTTP methods a Job may carry.
var ValidMethods = map[string]bool{
	"GET": true, "HEAD": true, "POST": true, "PUT": true, "DELETE": true,
	"CONNECT": true, "OPTIONS": true, "TRACE": true, "PATCH": true,
}

// Job is a scheduled HTTP callback, one-shot or recurring. It is
// immutable once stored except for Timestamp, which the dispatcher
// replaces wholesale on cron re-enrollment.
type Job struct {
	Id       string `msgpack:"id"`
	Method   string `msgpack:"method"`
	URL      string `msgpack:"url"`
	Body     string `msgpack:"body"`
	// Timestamp is the fire instant, millisecond precision, UTC.
	Timestamp time.Time `msgpack:"-"`
	TimestampMillis int64 `msgpack:"timestamp_ms"`
	// Schedule is a cron expression; empty means one-shot.
	Schedule string `msgpack:"schedule"`
}

// New validates and constructs a Job. method == "" defaults to POST.
func New(id, method, url, body string, ts time.Time, schedule string) (*Job, error) {
	if id == "" {
		return nil, core.NewValidationError("job id must not be empty")
	}
	if method == "" {
		method = DefaultMethod
	}
	if !ValidMethods[method] {
		return nil, core.NewValidationError("unknown HTTP method %q", method)
	}
	if url == "" {
		return nil, core.NewValidationError("job url must not be empty")
	}
	j := &Job{
		Id:       id,
		Method:   method,
		URL:      url,
		Body:     body,
		Schedule: schedule,
	}
	j.SetTimestamp(ts.UTC())
	return j, nil
}

// SetTimestamp updates the fire instant, keeping the millisecond
// mirror used for encoding in sync.
func (j *Job) SetTimestamp(ts time.Time) {
	j.Timestamp = ts.UTC()
	j.TimestampMillis = j.Timestamp.UnixMilli()
}

// IsCron reports whether this Job recurs.
func (j *Job) IsCron() bool {
	return j.Schedule != ""
}

// Due reports whether the Job's timestamp is at or before now.
func (j *Job) Due(now time.Time) bool {
	return !j.Timestamp.After(now)
}

// Clone returns a deep copy safe to hand to a different goroutine.
func (j *Job) Clone() *Job {
	cp := *j
	return &cp
}

// MarshalBinary encodes the Job in the compact binary format the Store
// persists. round-trips exactly: encode(decode(bytes)) == bytes for any
// value produced here.
func (j *Job) MarshalBinary() ([]byte, error) {
	return msgpack.Marshal(j)
}

// UnmarshalBinary decodes bytes produced by MarshalBinary.
func (j *Job) UnmarshalBinary(data []byte) error {
	if err := msgpack.Unmarshal(data, j); err != nil {
		return err
	}
	j.Timestamp = time.UnixMilli(j.TimestampMillis).UTC()
	return nil
}

func (j *Job) String() string {
	return fmt.Sprintf("Job{id=%s method=%s url=%s at=%s cron=%q}",
		j.Id, j.Method, j.URL, j.Timestamp.Format(time.RFC3339), j.Schedule)
}
