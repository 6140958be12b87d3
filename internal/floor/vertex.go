/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package floor

import (
	"fmt"
	"slices"

	"floorplanner/internal/vector"
)

// Notifier receives the side effects of vertex edits. The editor implements it.
type Notifier interface {
	// MarkDirty sets the interaction-dirty flag read by the history timer.
	MarkDirty()
	RequestRender()
	// RequestSnapshot asks for a history entry now.
	RequestSnapshot()
	// EditFailed reports an edit started by a bound handler that could not be applied.
	EditFailed(id string, err error)
}

type nopNotifier struct{}

func (nopNotifier) MarkDirty()               {}
func (nopNotifier) RequestRender()           {}
func (nopNotifier) RequestSnapshot()         {}
func (nopNotifier) EditFailed(string, error) {}

// VertexEditor manages vertex handles and edits polygon geometry through them.
type VertexEditor struct {
	reg *Registry
	n   Notifier
}

func NewVertexEditor(reg *Registry, n Notifier) *VertexEditor {
	if n == nil {
		n = nopNotifier{}
	}
	return &VertexEditor{reg: reg, n: n}
}

func (v *VertexEditor) lookup(id string) (*Shape, *Meta, error) {
	s, ok := v.reg.FindByID(id)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if !s.VertexEditable() {
		return nil, nil, fmt.Errorf("%w: %s %q is not vertex-editable", ErrNotApplicable, s.Kind, id)
	}
	return s, v.reg.Meta(id), nil
}

// AttachHandles builds one handle per vertex and binds the insertion handler.
// Any previous handle set for the shape is replaced.
func (v *VertexEditor) AttachHandles(id string) error {
	s, m, err := v.lookup(id)
	if err != nil {
		return err
	}
	world := s.WorldPoints()
	hs := make([]Handle, len(world))
	for i, p := range world {
		hs[i] = Handle{ShapeID: id, Index: i, Pos: p}
	}
	m.Handles = hs
	m.OnInsert = func(p vector.Pt) {
		if _, err := v.InsertVertex(id, p); err != nil {
			v.n.EditFailed(id, err)
		}
	}
	m.RenderDirty = true
	return nil
}

// DetachHandles drops the handles and insertion handler of id.
func (v *VertexEditor) DetachHandles(id string) {
	if m := v.reg.Meta(id); m != nil {
		m.Handles = nil
		m.OnInsert = nil
		m.RenderDirty = true
	}
}

// Handles returns a copy of the current handles of id.
func (v *VertexEditor) Handles(id string) []Handle {
	if m := v.reg.Meta(id); m != nil {
		return slices.Clone(m.Handles)
	}
	return nil
}

// HandleAt returns the index of the handle of id within radius of p.
func (v *VertexEditor) HandleAt(id string, p vector.Pt, radius float64) (int, bool) {
	m := v.reg.Meta(id)
	if m == nil {
		return -1, false
	}
	for _, h := range m.Handles {
		if h.Pos.Dist(p) <= radius {
			return h.Index, true
		}
	}
	return -1, false
}

// DragVertex overwrites vertex index with a local-space position. It marks the
// interaction dirty and requests a render but records no history itself.
func (v *VertexEditor) DragVertex(id string, index int, local vector.Pt) error {
	s, m, err := v.lookup(id)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(s.Points) {
		return fmt.Errorf("%w: vertex %d of %q", ErrNotFound, index, id)
	}
	s.Points[index] = local
	if index < len(m.Handles) {
		m.Handles[index].Pos = s.Matrix().Apply(local)
	}
	m.RenderDirty = true
	v.n.MarkDirty()
	v.n.RequestRender()
	return nil
}

// InsertVertex adds a vertex on the edge nearest to a canvas point. The new vertex
// goes right after the start index of that edge; on ties the earliest edge wins.
// Shapes with fewer than two points are left alone and -1 is returned. Handles
// are rebuilt and a snapshot is requested.
func (v *VertexEditor) InsertVertex(id string, canvasPt vector.Pt) (int, error) {
	s, _, err := v.lookup(id)
	if err != nil {
		return -1, err
	}
	n := len(s.Points)
	if n < 2 {
		return -1, nil
	}
	local := s.ToLocal(canvasPt)
	edges := n - 1
	if s.Closed() {
		edges = n
	}
	best, bestDist := 0, vector.SegmentDist(local, s.Points[0], s.Points[1%n])
	for i := 1; i < edges; i++ {
		if d := vector.SegmentDist(local, s.Points[i], s.Points[(i+1)%n]); d < bestDist {
			best, bestDist = i, d
		}
	}
	at := best + 1
	s.Points = slices.Insert(s.Points, at, local)
	if err := v.AttachHandles(id); err != nil {
		return -1, err
	}
	v.n.RequestRender()
	v.n.RequestSnapshot()
	return at, nil
}
