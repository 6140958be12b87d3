/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSinkWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fpl.log")
	var console bytes.Buffer
	Init(Options{Level: "debug", File: path, Console: &console})
	defer Init(Options{Console: io.Discard})

	WithOperation(WithComponent("history"), "undo").Info("cursor moved", slog.Int("cursor", 3))

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log file: %v", err)
	}
	defer func() { _ = f.Close() }()
	var last map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if len(bytes.TrimSpace(sc.Bytes())) == 0 {
			continue
		}
		last = nil
		if err := json.Unmarshal(sc.Bytes(), &last); err != nil {
			t.Fatalf("bad json line %q: %v", sc.Text(), err)
		}
	}
	if last == nil {
		t.Fatalf("log file has no records")
	}
	want := map[string]any{"app": "floorplanner", "component": "history", "op": "undo", "msg": "cursor moved", "cursor": float64(3)}
	for k, v := range want {
		if last[k] != v {
			t.Fatalf("%s = %v, want %v (record %v)", k, last[k], v, last)
		}
	}
	if _, ok := last["ver"].(string); !ok {
		t.Fatalf("missing ver: %v", last)
	}
	if console.Len() == 0 {
		t.Fatalf("console sink should also receive the record")
	}
}

func TestJSONConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Format: "JSON", Console: &buf})
	defer Init(Options{Console: io.Discard})

	L().Debug("hidden")
	L().Warn("shown", Floor("f-2"))
	var m map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &m); err != nil {
		t.Fatalf("expected a single json record, got %q: %v", buf.String(), err)
	}
	if m["msg"] != "shown" || m["floor"] != "f-2" {
		t.Fatalf("unexpected record %v", m)
	}
}

func TestRotationDefaults(t *testing.T) {
	r := Rotation{MaxBackups: 7}.withDefaults()
	if r.MaxSizeMB != 10 || r.MaxBackups != 7 || r.MaxAgeDays != 28 {
		t.Fatalf("rotation defaults %+v", r)
	}
}
