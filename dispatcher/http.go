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

package dispatcher

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/AGhost-7/schedule-m8/core"
	"github.com/AGhost-7/schedule-m8/job"
)

// DefaultTimeout bounds each outbound callback request. The scheduler
// never retries; a request that times out is logged and dropped, same
// as any other transport error.
const DefaultTimeout = 30 * time.Second

// Client sends a Job's HTTP callback. Non-2xx responses and transport
// errors are logged and discarded: they never affect scheduling state.
type Client struct {
	HTTP *http.Client
}

// NewClient returns a Client with DefaultTimeout.
func NewClient() *Client {
	return &Client{HTTP: &http.Client{Timeout: DefaultTimeout}}
}

// Send constructs and issues the request described by j. Method
// parsing falls back to POST for backward compatibility (a job that
// somehow stored an unparseable method still fires); a malformed URL
// is treated as a validation bug that reached the store and is fatal
// to this call but not to the tick loop.
func (c *Client) Send(ctx *core.Context, j *job.Job) {
	timer := core.NewTimer(ctx, "Dispatcher.Send")
	defer timer.Stop()

	method := strings.ToUpper(j.Method)
	if !job.ValidMethods[method] {
		method = job.DefaultMethod
	}

	req, err := http.NewRequest(method, j.URL, strings.NewReader(j.Body))
	if err != nil {
		core.Log(core.ERROR|core.DISPATCH, ctx, "Dispatcher.Send", "id", j.Id, "error", err, "when", "building request")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		core.Log(core.ERROR|core.DISPATCH, ctx, "Dispatcher.Send", "id", j.Id, "error", err, "when", "sending")
		return
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	level := core.INFO
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		level = core.WARN
	}
	core.Log(level|core.DISPATCH, ctx, "Dispatcher.Send", "id", j.Id, "status", resp.StatusCode)
}
