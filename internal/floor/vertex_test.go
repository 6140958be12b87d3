/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package floor

import (
	"errors"
	"testing"

	"floorplanner/internal/vector"
)

type countingNotifier struct {
	dirty, render, snapshot int
	failed                  []error
}

func (c *countingNotifier) MarkDirty()       { c.dirty++ }
func (c *countingNotifier) RequestRender()   { c.render++ }
func (c *countingNotifier) RequestSnapshot() { c.snapshot++ }
func (c *countingNotifier) EditFailed(_ string, err error) {
	c.failed = append(c.failed, err)
}

func setupVertex(t *testing.T, x, y float64) (*Registry, *VertexEditor, *countingNotifier, *Shape) {
	t.Helper()
	r := NewRegistry()
	s := rectFloor(t, "f", 100, 60, x, y)
	if err := r.Add(s); err != nil {
		t.Fatalf("add: %v", err)
	}
	n := &countingNotifier{}
	v := NewVertexEditor(r, n)
	if err := v.AttachHandles("f"); err != nil {
		t.Fatalf("attach: %v", err)
	}
	return r, v, n, s
}

func TestAttachHandlesReplaces(t *testing.T) {
	_, v, _, s := setupVertex(t, 100, 100)
	if err := v.AttachHandles("f"); err != nil {
		t.Fatalf("re-attach: %v", err)
	}
	hs := v.Handles("f")
	if len(hs) != len(s.Points) {
		t.Fatalf("expected %d handles, got %d", len(s.Points), len(hs))
	}
	if hs[0].Pos != (vector.Pt{X: 50, Y: 70}) || hs[0].ShapeID != "f" || hs[3].Index != 3 {
		t.Fatalf("unexpected handle %+v", hs[0])
	}
	if i, ok := v.HandleAt("f", vector.Pt{X: 152, Y: 131}, 6); !ok || i != 2 {
		t.Fatalf("HandleAt = %d %v", i, ok)
	}
	if _, ok := v.HandleAt("f", vector.Pt{X: 100, Y: 100}, 6); ok {
		t.Fatalf("center is not a handle")
	}
}

func TestDragVertex(t *testing.T) {
	r, v, n, s := setupVertex(t, 0, 0)
	if err := v.DragVertex("f", 0, vector.Pt{X: -40, Y: -25}); err != nil {
		t.Fatalf("drag: %v", err)
	}
	if s.Points[0] != (vector.Pt{X: -40, Y: -25}) {
		t.Fatalf("vertex not moved: %v", s.Points[0])
	}
	if !r.Meta("f").RenderDirty || n.dirty != 1 || n.render != 1 || n.snapshot != 0 {
		t.Fatalf("unexpected side effects: %+v dirty=%v", n, r.Meta("f").RenderDirty)
	}
	if v.Handles("f")[0].Pos != (vector.Pt{X: -40, Y: -25}) {
		t.Fatalf("handle not following vertex")
	}
	if err := v.DragVertex("f", 4, vector.Pt{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("out of range: %v", err)
	}
	if err := v.DragVertex("nope", 0, vector.Pt{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown shape: %v", err)
	}
	s.Locked = true
	if err := v.DragVertex("f", 0, vector.Pt{}); !errors.Is(err, ErrNotApplicable) {
		t.Fatalf("locked shape: %v", err)
	}
}

func TestInsertVertexNearestEdge(t *testing.T) {
	_, v, n, s := setupVertex(t, 100, 100)
	at, err := v.InsertVertex("f", vector.Pt{X: 100, Y: 65})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if at != 1 || len(s.Points) != 5 {
		t.Fatalf("at=%d len=%d", at, len(s.Points))
	}
	if s.Points[1] != (vector.Pt{X: 0, Y: -35}) {
		t.Fatalf("inserted vertex should be the local click point, got %v", s.Points[1])
	}
	if len(v.Handles("f")) != 5 || n.snapshot != 1 {
		t.Fatalf("handles must be rebuilt and a snapshot requested")
	}
	for i, h := range v.Handles("f") {
		if h.Index != i {
			t.Fatalf("handle %d bound to index %d", i, h.Index)
		}
	}
}

func TestInsertVertexClosingEdgeAndTies(t *testing.T) {
	_, v, _, s := setupVertex(t, 0, 0)
	at, _ := v.InsertVertex("f", vector.Pt{X: -55, Y: 0})
	if at != 4 || s.Points[4] != (vector.Pt{X: -55, Y: 0}) {
		t.Fatalf("closing edge insert: at=%d pts=%v", at, s.Points)
	}

	_, v2, _, s2 := setupVertex(t, 0, 0)
	// center is equidistant from top (edge 0) and bottom (edge 2)
	at, _ = v2.InsertVertex("f", vector.Pt{X: 0, Y: 0})
	if at != 1 || len(s2.Points) != 5 {
		t.Fatalf("tie should pick the earliest edge: at=%d", at)
	}
}

func TestInsertVertexShortShapeIsNoop(t *testing.T) {
	_, v, n, s := setupVertex(t, 0, 0)
	s.Points = s.Points[:1]
	at, err := v.InsertVertex("f", vector.Pt{X: 1, Y: 1})
	if err != nil || at != -1 || len(s.Points) != 1 || n.snapshot != 0 {
		t.Fatalf("expected no-op, got at=%d err=%v len=%d", at, err, len(s.Points))
	}
}

func TestInsertHandlerDetachedOnRemove(t *testing.T) {
	r, v, _, _ := setupVertex(t, 0, 0)
	if r.Meta("f").OnInsert == nil {
		t.Fatalf("attach should bind insertion handler")
	}
	r.Remove("f")
	if _, err := v.InsertVertex("f", vector.Pt{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("removed shape: %v", err)
	}
	if v.Handles("f") != nil {
		t.Fatalf("handles survived removal")
	}
}

func TestInsertHandlerReportsFailure(t *testing.T) {
	r, _, n, _ := setupVertex(t, 100, 100)
	insert := r.Meta("f").OnInsert
	if insert == nil {
		t.Fatalf("handles should bind an insert handler")
	}
	insert(vector.Pt{X: 100, Y: 70})
	if len(n.failed) != 0 {
		t.Fatalf("insert on a live floor failed: %v", n.failed)
	}
	if !r.Remove("f") {
		t.Fatalf("remove failed")
	}
	insert(vector.Pt{X: 100, Y: 70})
	if len(n.failed) != 1 || !errors.Is(n.failed[0], ErrNotFound) {
		t.Fatalf("expected one ErrNotFound report, got %v", n.failed)
	}
}
