/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"strings"
	"testing"

	"floorplanner/internal/config"
	"floorplanner/internal/vector"
)

const kitchen = `
name: kitchen
steps:
  - op: insert
    as: k
    kind: rect
    at: [200, 150]
    width: 100
    height: 60
    name: Kitchen
  - op: down
    at: [150, 120]
  - op: move
    at: [155, 122]
  - op: tick
  - op: move
    at: [160, 125]
  - op: up
    at: [160, 125]
  - op: expect
    floors: 1
    history: 4
  - op: undo
    times: 2
  - op: draw
    as: hall
    points: [[0, 0], [80, 0], [80, 40], [0, 40]]
  - op: insert_vertex
    floor: hall
    at: [40, 1]
  - op: expect
    floor: hall
    vertices: 5
  - op: style
    floor: hall
    fill: "#00ff00"
  - op: grow
    floor: k
    times: 2
  - op: delete
    floor: hall
  - op: expect
    floors: 1
`

func TestParseValidScript(t *testing.T) {
	s, errs := Parse([]byte(kitchen))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if s.Name != "kitchen" || len(s.Steps) != 15 {
		t.Fatalf("unexpected script %q with %d steps", s.Name, len(s.Steps))
	}
	if s.Steps[0].Line != 4 || s.Steps[1].Line != 11 {
		t.Fatalf("step lines = %d, %d", s.Steps[0].Line, s.Steps[1].Line)
	}
	if *s.Steps[0].At != (Point{200, 150}) {
		t.Fatalf("unexpected position %v", *s.Steps[0].At)
	}
}

func TestParseReportsProblems(t *testing.T) {
	_, errs := Parse([]byte("steps:\n  - op: fly\n  - op: drag\n    floor: a\n"))
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %+v", errs)
	}
	if errs[0].Line != 2 || !strings.Contains(errs[0].Message, "fly") {
		t.Fatalf("unexpected first error %+v", errs[0])
	}
	if errs[1].Line != 3 || !strings.Contains(errs[1].Message, "to") {
		t.Fatalf("unexpected second error %+v", errs[1])
	}
	if _, errs := Parse([]byte("steps: [")); len(errs) != 1 {
		t.Fatalf("malformed yaml should yield one error")
	}
	if _, errs := Parse([]byte("name: empty\n")); len(errs) != 1 {
		t.Fatalf("empty script should be reported")
	}
}

func TestRunKitchen(t *testing.T) {
	s, errs := Parse([]byte(kitchen))
	if len(errs) != 0 {
		t.Fatalf("parse: %+v", errs)
	}
	env := NewEnv(config.EditorConfig{}, "test")
	defer env.Close()
	if err := env.Run(s); err != nil {
		t.Fatal(err)
	}
	f, ok := env.Editor.Floor(env.ID("k"))
	if !ok {
		t.Fatalf("kitchen floor missing")
	}
	if f.Name != "Kitchen" {
		t.Fatalf("name = %q", f.Name)
	}
	// undo x2 restored the inserted corner, then two grows scaled it
	want := vector.Pt{X: -50 * 1.05 * 1.05, Y: -30 * 1.05 * 1.05}
	if !f.Points[0].Near(want, 1e-9) {
		t.Fatalf("corner = %v, want %v", f.Points[0], want)
	}
}

func TestRunStopsAtFailingExpectation(t *testing.T) {
	s, errs := Parse([]byte("steps:\n  - op: expect\n    floors: 3\n"))
	if len(errs) != 0 {
		t.Fatalf("parse: %+v", errs)
	}
	env := NewEnv(config.EditorConfig{}, "")
	defer env.Close()
	err := env.Run(s)
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("expected failure at line 2, got %v", err)
	}
}
