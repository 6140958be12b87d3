/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"errors"
	"fmt"
	"log/slog"

	"floorplanner/internal/floor"
	applog "floorplanner/internal/log"
	"floorplanner/internal/vector"
)

// Primitive describes a floor to insert. Polygon and polyline points, line
// endpoints (X1/Y1, X2/Y2) and path data are canvas coordinates. Other kinds are
// centered on At.
type Primitive struct {
	Kind   floor.Kind
	Name   string
	At     vector.Pt
	Angle  float64
	Params floor.Params
	Points []vector.Pt
	// Style overrides the default floor style when set.
	Style  *floor.Style
	HiFi   bool
	Locked bool
}

func (e *Editor) build(id string, p Primitive) (*floor.Shape, error) {
	switch p.Kind {
	case floor.KindPolygon:
		return floor.NewPolygon(id, p.Points), nil
	case floor.KindPolyline:
		return floor.NewPolyline(id, p.Points), nil
	case floor.KindLine:
		s := floor.NewLine(id, vector.Pt{X: p.Params.X1, Y: p.Params.Y1}, vector.Pt{X: p.Params.X2, Y: p.Params.Y2})
		s.Transform.Angle = p.Angle
		return s, nil
	case floor.KindPath:
		return floor.NewPath(id, p.Params.PathData)
	}
	t := floor.At(p.At.X, p.At.Y)
	t.Angle = p.Angle
	return floor.New(id, p.Kind, p.Params, t), nil
}

// Insert normalizes a primitive into a floor, places it at the bottom of the
// z-order and records a snapshot. Paths stay paths; unknown kinds are refused.
func (e *Editor) Insert(p Primitive) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, err := e.build(e.newID(), p)
	if err != nil {
		return "", err
	}
	s.Name = p.Name
	if s.Name == "" {
		s.Name = e.nextName()
	}
	if p.Style != nil {
		s.Style = *p.Style
	}
	s.Locked = p.Locked
	if err := e.addFloor(s, p.HiFi); err != nil {
		return "", err
	}
	return s.ID, nil
}

// addFloor normalizes, attaches and snapshots s. Called with mu held.
func (e *Editor) addFloor(s *floor.Shape, hifi bool) error {
	seg := e.cfg.CircleSegments
	if hifi {
		seg = e.cfg.HiFiSegments
	}
	if err := floor.Normalize(s, seg); err != nil {
		if !errors.Is(err, floor.ErrNotApplicable) || errors.Is(err, floor.ErrUnsupportedKind) {
			return err
		}
		s.Floor = true
	}
	if err := e.attach(s); err != nil {
		return err
	}
	e.checkOutline(s)
	e.cv.RequestRender()
	e.rec.Snapshot()
	e.log.Info("floor added", applog.Floor(s.ID), slog.String("kind", string(s.Kind)), slog.String("source", string(s.SourceKind)))
	return nil
}

// CommitDraw turns the outline drawn so far into a polygon floor and returns to
// the select tool. At least three distinct points are required.
func (e *Editor) CommitDraw() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.commitDraftLocked()
}

func (e *Editor) commitDraftLocked() (string, error) {
	if len(e.draft) < 3 {
		return "", fmt.Errorf("%w: outline has %d points", floor.ErrDegenerate, len(e.draft))
	}
	s := floor.NewPolygon(e.newID(), e.draft)
	s.Name = e.nextName()
	if err := e.addFloor(s, false); err != nil {
		return "", err
	}
	e.draft = nil
	e.tool = ToolSelect
	return s.ID, nil
}

// CancelDraw drops the outline being drawn.
func (e *Editor) CancelDraw() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft = nil
	e.cv.RequestRender()
}

// Select makes id the selection. An empty id clears it.
func (e *Editor) Select(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if id != "" {
		if _, ok := e.reg.FindByID(id); !ok {
			return fmt.Errorf("%w: %q", floor.ErrNotFound, id)
		}
	}
	e.selectLocked(id)
	return nil
}

// Selected returns the selected floor id or "".
func (e *Editor) Selected() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if s := e.reg.Selected(); s != nil {
		return s.ID
	}
	return ""
}

// editable returns a floor that may be changed. Called with mu held.
func (e *Editor) editable(id string) (*floor.Shape, error) {
	s, ok := e.reg.FindByID(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", floor.ErrNotFound, id)
	}
	if s.Locked {
		return nil, fmt.Errorf("%w: %q is locked", floor.ErrNotApplicable, id)
	}
	return s, nil
}

// Resize applies a factor or pixel step to a floor.
func (e *Editor) Resize(id string, a floor.Adjust) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, err := e.editable(id)
	if err != nil {
		return err
	}
	floor.Resize(s, a, e.cfg.MinSizePx)
	e.changed(s)
	return nil
}

// Grow enlarges the selected floor by the configured factor. It reports whether
// a floor was selected.
func (e *Editor) Grow() bool { return e.resizeSelected(e.cfg.GrowFactor) }

// Shrink reverses Grow.
func (e *Editor) Shrink() bool { return e.resizeSelected(e.cfg.ShrinkFactor()) }

func (e *Editor) resizeSelected(f float64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.reg.Selected()
	if s == nil || s.Locked {
		return false
	}
	floor.Resize(s, floor.Adjust{Factor: f}, e.cfg.MinSizePx)
	e.changed(s)
	return true
}

// changed refreshes handles, renders and snapshots after a one-shot edit.
func (e *Editor) changed(s *floor.Shape) {
	e.bindHandles(s)
	e.checkOutline(s)
	e.cv.RequestRender()
	e.rec.Snapshot()
}

// Move translates a floor on the canvas.
func (e *Editor) Move(id string, dx, dy float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, err := e.editable(id)
	if err != nil {
		return err
	}
	s.Move(dx, dy)
	e.changed(s)
	return nil
}

// SetStyle replaces the style of a floor. Colors must parse.
func (e *Editor) SetStyle(id string, st floor.Style) error {
	if _, err := vector.ParseColor(st.Fill); err != nil {
		return fmt.Errorf("fill: %w", err)
	}
	if _, err := vector.ParseColor(st.Stroke); err != nil {
		return fmt.Errorf("stroke: %w", err)
	}
	if st.StrokeWidth < 0 {
		return fmt.Errorf("stroke width %g is negative", st.StrokeWidth)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.reg.FindByID(id)
	if !ok {
		return fmt.Errorf("%w: %q", floor.ErrNotFound, id)
	}
	s.Style = st
	e.cv.RequestRender()
	e.rec.Snapshot()
	return nil
}

// SetName renames a floor. Names need not be unique.
func (e *Editor) SetName(id, name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.reg.FindByID(id)
	if !ok {
		return fmt.Errorf("%w: %q", floor.ErrNotFound, id)
	}
	s.Name = name
	e.rec.Snapshot()
	return nil
}

// SetLocked locks or unlocks a floor. Locked floors keep no vertex handles.
func (e *Editor) SetLocked(id string, locked bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.reg.FindByID(id)
	if !ok {
		return fmt.Errorf("%w: %q", floor.ErrNotFound, id)
	}
	s.Locked = locked
	e.bindHandles(s)
	e.cv.RequestRender()
	e.rec.Snapshot()
	return nil
}

// MoveVertex moves one vertex to a canvas point as a single history step.
func (e *Editor) MoveVertex(id string, index int, p vector.Pt) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.reg.FindByID(id)
	if !ok {
		return fmt.Errorf("%w: %q", floor.ErrNotFound, id)
	}
	e.endDrag()
	e.rec.Begin()
	defer e.rec.End()
	if err := e.vx.DragVertex(id, index, s.ToLocal(p)); err != nil {
		return err
	}
	e.checkOutline(s)
	return nil
}

// InsertVertex adds a vertex to a floor on the edge nearest p.
func (e *Editor) InsertVertex(id string, p vector.Pt) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i, err := e.vx.InsertVertex(id, p)
	if err == nil {
		if s, ok := e.reg.FindByID(id); ok {
			e.checkOutline(s)
		}
	}
	return i, err
}

// Delete removes a floor. Unknown ids are ignored.
func (e *Editor) Delete(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.deleteLocked(id)
}

// DeleteSelected removes the selected floor, if any.
func (e *Editor) DeleteSelected() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.reg.Selected()
	if s == nil {
		return false
	}
	return e.deleteLocked(s.ID)
}

func (e *Editor) deleteLocked(id string) bool {
	if !e.detach(id) {
		return false
	}
	e.cv.RequestRender()
	e.rec.Snapshot()
	e.log.Info("floor removed", applog.Floor(id))
	return true
}

// Undo restores the previous history entry. It reports false at the start of
// history.
func (e *Editor) Undo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.endDrag()
	snap, ok := e.hist.Undo()
	if !ok {
		return false
	}
	e.restoreLocked(snap.Blob)
	return true
}

// Redo re-applies the next history entry. It reports false at the end of history.
func (e *Editor) Redo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.endDrag()
	snap, ok := e.hist.Redo()
	if !ok {
		return false
	}
	e.restoreLocked(snap.Blob)
	return true
}

func (e *Editor) endDrag() {
	if e.drag != nil {
		e.drag = nil
		e.rec.End()
	}
}

// Load replaces the floor set with a serialized one and records it as a new
// history entry. Records that fail to decode are skipped and returned.
func (e *Editor) Load(data []byte) ([]floor.Skipped, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.endDrag()
	if _, _, err := floor.DecodeSnapshot(data); err != nil {
		return nil, err
	}
	skipped := e.restoreLocked(data)
	e.rec.Snapshot()
	return skipped, nil
}
