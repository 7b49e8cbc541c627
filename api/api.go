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

// Package api adapts the two generations of HTTP request schema this
// scheduler has ever exposed onto the core push/remove/clear
// operations. Grounded on crolt/handlers.go's read-body-then-dispatch
// shape and service/httpd.go's protest-on-error convention, fused with
// the v1/v2 schema split supplemented from original_source's api.rs.
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/AGhost-7/schedule-m8/core"
	"github.com/AGhost-7/schedule-m8/cronplan"
	"github.com/AGhost-7/schedule-m8/job"
	"github.com/google/uuid"
)

func millisToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// Core is the set of operations the adapter drives; satisfied by
// *cluster.Cluster in production and a fake in tests.
type Core interface {
	Push(ctx *core.Context, j *job.Job) error
	Remove(ctx *core.Context, id string) (*job.Job, bool, error)
	Clear(ctx *core.Context) error
}

// Handler routes every generation of this scheduler's HTTP surface to
// Core. The zero value is not usable; build one with New.
type Handler struct {
	core       Core
	v1Planner  *cronplan.Planner
	v2Planner  *cronplan.Planner
	newID      func() string
}

// New builds a Handler dispatching onto c.
func New(c Core) *Handler {
	return &Handler{
		core:      c,
		v1Planner: cronplan.NewPlanner(true),
		v2Planner: cronplan.NewPlanner(false),
		newID:     func() string { return uuid.NewString() },
	}
}

func protest(w http.ResponseWriter, status int, fm string, args ...interface{}) {
	w.WriteHeader(status)
	fmt.Fprintf(w, fm+"\n", args...)
}

func readJSON(r *http.Request, v interface{}) error {
	bs, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(bs, v)
}

// ServeHTTP dispatches by method and path onto the v1/v2 routes this
// scheduler recognizes. Anything else is a 404.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := core.NewContext(r.Context(), core.DefaultLogger)
	timer := core.NewTimer(ctx, "api.ServeHTTP")
	defer timer.Stop()

	path := r.URL.Path
	switch {
	case r.Method == http.MethodPost && path == "/scheduler/api":
		h.handleV1OneShot(ctx, w, r)
	case r.Method == http.MethodPost && path == "/scheduler/api/cron":
		h.handleV1Cron(ctx, w, r)
	case r.Method == http.MethodPost && path == "/api/job":
		h.handleV2OneShot(ctx, w, r)
	case r.Method == http.MethodPost && path == "/api/cron":
		h.handleV2Cron(ctx, w, r)

	case r.Method == http.MethodDelete && path == "/scheduler/api":
		h.handleClear(ctx, w, http.StatusOK)
	case r.Method == http.MethodDelete && path == "/api/job":
		h.handleClear(ctx, w, http.StatusNoContent)
	case r.Method == http.MethodDelete && strings.HasPrefix(path, "/scheduler/api/"):
		h.handleRemove(ctx, w, strings.TrimPrefix(path, "/scheduler/api/"), http.StatusOK)
	case r.Method == http.MethodDelete && strings.HasPrefix(path, "/api/job/"):
		h.handleRemove(ctx, w, strings.TrimPrefix(path, "/api/job/"), http.StatusNoContent)

	default:
		protest(w, http.StatusNotFound, "no such route: %s %s", r.Method, path)
	}
}

// v1OneShotRequest is the body {timestamp: u64 millis, url, payload}
// accepted by POST /scheduler/api. POST /api/job is served by the v2
// handler, which takes the same fields but does not rewrite the URL.
type v1OneShotRequest struct {
	Timestamp int64  `json:"timestamp"`
	URL       string `json:"url"`
	Payload   string `json:"payload"`
}

// appendKeyParam rewrites url to carry the job id as a key query
// parameter, unconditionally appending rather than merging with any
// existing query string -- the preserved v1 quirk this generation's
// callers still depend on.
func appendKeyParam(rawURL, id string) string {
	return rawURL + "?key=" + id
}

func (h *Handler) handleV1OneShot(ctx *core.Context, w http.ResponseWriter, r *http.Request) {
	var req v1OneShotRequest
	if err := readJSON(r, &req); err != nil {
		protest(w, http.StatusBadRequest, "error parsing body: %v", err)
		return
	}

	id := h.newID()
	url := appendKeyParam(req.URL, id)
	j, err := job.New(id, job.DefaultMethod, url, req.Payload, millisToTime(req.Timestamp), "")
	if err != nil {
		protest(w, http.StatusBadRequest, "error creating job: %v", err)
		return
	}
	if err := h.core.Push(ctx, j); err != nil {
		writeProblem(w, err)
		return
	}

	writeJSONEnvelope(w, http.StatusOK, map[string]interface{}{"id": id, "job": j})
}

// v1CronRequest is the body {schedule, payload, name, group, url}
// accepted by POST /scheduler/api/cron.
type v1CronRequest struct {
	Schedule string `json:"schedule"`
	Payload  string `json:"payload"`
	Name     string `json:"name"`
	Group    string `json:"group"`
	URL      string `json:"url"`
}

func (h *Handler) handleV1Cron(ctx *core.Context, w http.ResponseWriter, r *http.Request) {
	var req v1CronRequest
	if err := readJSON(r, &req); err != nil {
		protest(w, http.StatusBadRequest, "error parsing body: %v", err)
		return
	}

	if err := h.v1Planner.Validate(req.Schedule); err != nil {
		protest(w, http.StatusBadRequest, "bad schedule: %v", err)
		return
	}
	first, err := h.v1Planner.Next(req.Schedule, time.Now())
	if err != nil {
		protest(w, http.StatusBadRequest, "bad schedule: %v", err)
		return
	}

	id := req.Group + "::_" + req.Name
	j, err := job.New(id, job.DefaultMethod, req.URL, req.Payload, first, req.Schedule)
	if err != nil {
		protest(w, http.StatusBadRequest, "error creating job: %v", err)
		return
	}
	if err := h.core.Push(ctx, j); err != nil {
		writeProblem(w, err)
		return
	}

	writeJSONEnvelope(w, http.StatusOK, map[string]interface{}{"id": id, "job": j})
}

// v2OneShotRequest is the body for POST /api/job (v2 form): adds an
// optional method field the v1 form never had.
type v2OneShotRequest struct {
	Timestamp int64  `json:"timestamp"`
	URL       string `json:"url"`
	Payload   string `json:"payload"`
	Method    string `json:"method"`
}

func (h *Handler) handleV2OneShot(ctx *core.Context, w http.ResponseWriter, r *http.Request) {
	var req v2OneShotRequest
	if err := readJSON(r, &req); err != nil {
		protest(w, http.StatusBadRequest, "error parsing body: %v", err)
		return
	}

	id := h.newID()
	j, err := job.New(id, req.Method, req.URL, req.Payload, millisToTime(req.Timestamp), "")
	if err != nil {
		protest(w, http.StatusBadRequest, "error creating job: %v", err)
		return
	}
	if err := h.core.Push(ctx, j); err != nil {
		writeProblem(w, err)
		return
	}

	writeJSONEnvelope(w, http.StatusOK, map[string]interface{}{"id": id, "job": j})
}

// v2CronRequest is the body for POST /api/cron: the full cron dialect,
// no "?" rewrite, and its own id rather than a group/name pair.
type v2CronRequest struct {
	Id       string `json:"id"`
	Schedule string `json:"schedule"`
	Payload  string `json:"payload"`
	URL      string `json:"url"`
	Method   string `json:"method"`
}

func (h *Handler) handleV2Cron(ctx *core.Context, w http.ResponseWriter, r *http.Request) {
	var req v2CronRequest
	if err := readJSON(r, &req); err != nil {
		protest(w, http.StatusBadRequest, "error parsing body: %v", err)
		return
	}

	if err := h.v2Planner.Validate(req.Schedule); err != nil {
		protest(w, http.StatusBadRequest, "bad schedule: %v", err)
		return
	}
	first, err := h.v2Planner.Next(req.Schedule, time.Now())
	if err != nil {
		protest(w, http.StatusBadRequest, "bad schedule: %v", err)
		return
	}

	id := req.Id
	if id == "" {
		id = h.newID()
	}
	j, err := job.New(id, req.Method, req.URL, req.Payload, first, req.Schedule)
	if err != nil {
		protest(w, http.StatusBadRequest, "error creating job: %v", err)
		return
	}
	if err := h.core.Push(ctx, j); err != nil {
		writeProblem(w, err)
		return
	}

	writeJSONEnvelope(w, http.StatusOK, map[string]interface{}{"id": id, "job": j})
}

func (h *Handler) handleRemove(ctx *core.Context, w http.ResponseWriter, id string, okStatus int) {
	if id == "" {
		protest(w, http.StatusBadRequest, "need an id")
		return
	}
	j, found, err := h.core.Remove(ctx, id)
	if err != nil {
		writeProblem(w, err)
		return
	}
	if !found {
		protest(w, http.StatusNotFound, "not found")
		return
	}
	if okStatus == http.StatusNoContent {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSONEnvelope(w, okStatus, map[string]interface{}{"job": j})
}

func (h *Handler) handleClear(ctx *core.Context, w http.ResponseWriter, okStatus int) {
	if err := h.core.Clear(ctx); err != nil {
		writeProblem(w, err)
		return
	}
	if okStatus == http.StatusNoContent {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSONEnvelope(w, okStatus, map[string]interface{}{"status": "ok"})
}

func writeJSONEnvelope(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeProblem maps a core.Problem to the HTTP status spec 7 assigns
// it. Anything that isn't a recognized Problem is a bug, not an
// expected outcome, so it's still reported as 500 rather than panicking
// the handler goroutine.
func writeProblem(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch err.(type) {
	case *core.ValidationError:
		status = http.StatusBadRequest
	case *core.NodeUnreachable:
		status = http.StatusServiceUnavailable
	case *core.UnexpectedError, *core.RpcDeserializationError:
		status = http.StatusInternalServerError
	}
	protest(w, status, "%v", err)
}
