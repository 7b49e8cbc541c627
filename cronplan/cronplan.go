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

// Package cronplan computes the next occurrence of a cron expression.
// It wraps gorhill/cronexpr the same way crolt's Cron.set did, but as
// its own component instead of being buried in the store.
package cronplan

import (
	"strings"
	"time"

	"github.com/AGhost-7/schedule-m8/core"
	"github.com/gorhill/cronexpr"
)

// Planner validates and evaluates 6- or 7-field cron expressions
// (second minute hour day-of-month month day-of-week [year]).
type Planner struct {
	// LegacyQuestionMark rewrites a literal '?' to '*' before
	// parsing, the v1 API's Quartz-style no-specific-value quirk.
	// v2 callers leave this false and are strict.
	LegacyQuestionMark bool
}

func NewPlanner(legacyQuestionMark bool) *Planner {
	return &Planner{LegacyQuestionMark: legacyQuestionMark}
}

// Validate parses expr and returns a ValidationError (never any other
// kind) if it's malformed. Call this at push time so a bad cron
// expression never reaches the dispatcher.
func (p *Planner) Validate(expr string) error {
	_, err := p.parse(expr)
	if err != nil {
		return core.NewValidationError("invalid cron expression %q: %v", expr, err)
	}
	return nil
}

// Next returns the next scheduled instant strictly after ref, in UTC.
func (p *Planner) Next(expr string, ref time.Time) (time.Time, error) {
	schedule, err := p.parse(expr)
	if err != nil {
		return time.Time{}, core.NewValidationError("invalid cron expression %q: %v", expr, err)
	}
	return schedule.Next(ref.UTC()), nil
}

func (p *Planner) parse(expr string) (*cronexpr.Expression, error) {
	if p.LegacyQuestionMark {
		expr = strings.ReplaceAll(expr, "?", "*")
	}
	// cronexpr reads a 6-field expression as minute..year; appending a
	// wildcard year keeps the first field as seconds.
	if len(strings.Fields(expr)) == 6 {
		expr += " *"
	}
	return cronexpr.Parse(expr)
}
