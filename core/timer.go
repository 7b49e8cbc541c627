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

import "time"

// Timer logs the elapsed time of an operation at TIMER severity when
// stopped. Typical use:
//
//	timer := core.NewTimer(ctx, "Store.Push")
//	defer timer.Stop()
type Timer struct {
	ctx   *Context
	op    string
	start time.Time
}

func NewTimer(ctx *Context, op string) *Timer {
	return &Timer{ctx: ctx, op: op, start: time.Now()}
}

func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Log(TIMER, t.ctx, t.op, "elapsed", elapsed.Nanoseconds())
	return elapsed
}
