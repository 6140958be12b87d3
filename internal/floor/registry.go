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
	"strings"

	"floorplanner/internal/vector"
)

// Handle is one draggable vertex control, bound to a shape id and vertex index.
// Pos is the canvas position of the vertex at the time the handle was built or
// last dragged.
type Handle struct {
	ShapeID string
	Index   int
	Pos     vector.Pt
}

// Meta is editor bookkeeping for one shape. It lives beside the shape instead of
// on it so that it never reaches a snapshot.
type Meta struct {
	Handles []Handle
	// OnInsert is the vertex-insertion handler the canvas dispatcher calls on a
	// double-click over this shape.
	OnInsert    func(canvasPt vector.Pt)
	RenderDirty bool
}

// Registry owns the floor shapes of one canvas in z-order, bottom first.
// It is not safe for concurrent use; the editor serializes access.
type Registry struct {
	order []*Shape
	byID  map[string]*Shape
	meta  map[string]*Meta
}

func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Shape), meta: make(map[string]*Meta)}
}

// Add places s on top. Ids must be non-empty and unique; names may repeat.
func (r *Registry) Add(s *Shape) error {
	if s == nil {
		return fmt.Errorf("%w: nil shape", ErrDegenerate)
	}
	if strings.TrimSpace(s.ID) == "" {
		return ErrEmptyID
	}
	if _, ok := r.byID[s.ID]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateID, s.ID)
	}
	if s.PointBased() {
		need := 2
		if s.Closed() {
			need = 3
		}
		if len(s.Points) < need {
			return fmt.Errorf("%w: %s %q has %d points", ErrDegenerate, s.Kind, s.ID, len(s.Points))
		}
	}
	r.order = append(r.order, s)
	r.byID[s.ID] = s
	r.meta[s.ID] = &Meta{}
	return nil
}

// Remove deletes the shape and its side-table entry, detaching any handler bound
// to it. Unknown ids are ignored. It reports whether anything was removed.
func (r *Registry) Remove(id string) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	delete(r.byID, id)
	delete(r.meta, id)
	for i, s := range r.order {
		if s.ID == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

func (r *Registry) FindByID(id string) (*Shape, bool) {
	s, ok := r.byID[id]
	return s, ok
}

// ListByZOrder returns the shapes bottom first. The slice is a copy.
func (r *Registry) ListByZOrder() []*Shape { return append([]*Shape(nil), r.order...) }

func (r *Registry) Len() int { return len(r.order) }

// SendToBack moves the shape to the bottom of the z-order.
func (r *Registry) SendToBack(id string) bool {
	for i, s := range r.order {
		if s.ID == id {
			copy(r.order[1:i+1], r.order[:i])
			r.order[0] = s
			return true
		}
	}
	return false
}

// Meta returns the side-table entry for id, or nil when id is not registered.
func (r *Registry) Meta(id string) *Meta { return r.meta[id] }

// Selected returns the selected shape, if any.
func (r *Registry) Selected() *Shape {
	for _, s := range r.order {
		if s.Selected {
			return s
		}
	}
	return nil
}

// Select marks id as the only selected shape. An empty id clears the selection.
func (r *Registry) Select(id string) bool {
	found := false
	for _, s := range r.order {
		s.Selected = s.ID == id
		found = found || s.Selected
	}
	return found
}

// Clear drops every shape and all editor metadata.
func (r *Registry) Clear() {
	r.order = nil
	r.byID = make(map[string]*Shape)
	r.meta = make(map[string]*Meta)
}
