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

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestSimpleLoggerWritesOneJSONLinePerRecord(t *testing.T) {
	var buf bytes.Buffer
	ctx := NewContext(nil, NewSimpleLogger(&buf))

	Log(INFO, ctx, "Store.Push", "id", "abc123", "shard", 4)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}

	var m map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &m); err != nil {
		t.Fatalf("record isn't valid JSON: %v", err)
	}
	if m["op"] != "Store.Push" {
		t.Fatalf("op = %v, want Store.Push", m["op"])
	}
	if m["id"] != "abc123" {
		t.Fatalf("id = %v, want abc123", m["id"])
	}
}

func TestLogFallsBackToDefaultLoggerWithNilContext(t *testing.T) {
	var buf bytes.Buffer
	prev := DefaultLogger
	DefaultLogger = NewSimpleLogger(&buf)
	defer func() { DefaultLogger = prev }()

	Log(WARN, nil, "Dispatcher.tick")

	if buf.Len() == 0 {
		t.Fatal("expected DefaultLogger to receive the record")
	}
}

func TestTimerLogsElapsed(t *testing.T) {
	var buf bytes.Buffer
	ctx := NewContext(nil, NewSimpleLogger(&buf))

	timer := NewTimer(ctx, "Store.Next")
	timer.Stop()

	var m map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("record isn't valid JSON: %v", err)
	}
	if _, ok := m["elapsed"]; !ok {
		t.Fatal("expected an elapsed field")
	}
}
