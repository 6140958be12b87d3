/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"log/slog"

	"floorplanner/internal/canvas"
	"floorplanner/internal/floor"
	applog "floorplanner/internal/log"
	"floorplanner/internal/vector"
)

// dispatch is the one canvas handler of the session. Per-floor behavior is
// looked up in the registry side table by the id under the pointer.
func (e *Editor) dispatch(ev canvas.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	switch ev.Type {
	case canvas.PointerDown:
		e.pointerDown(ev.Pt)
	case canvas.PointerMove:
		e.pointerMove(ev.Pt)
	case canvas.PointerUp:
		e.pointerUp()
	case canvas.DoubleClick:
		e.doubleClick(ev.Pt)
	}
}

func (e *Editor) pointerDown(p vector.Pt) {
	if e.tool == ToolDraw {
		if n := len(e.draft); n == 0 || !e.draft[n-1].Near(p, 1e-9) {
			e.draft = append(e.draft, p)
		}
		e.cv.RequestRender()
		return
	}
	// A pointer-down without a matching up ends the previous interaction.
	e.endDrag()
	if sel := e.reg.Selected(); sel != nil && e.startVertexDrag(sel, p) {
		return
	}
	target := e.floorAt(p)
	if target == nil {
		e.selectLocked("")
		return
	}
	e.selectLocked(target.ID)
	if e.startVertexDrag(target, p) || target.Locked {
		return
	}
	e.drag = &interaction{id: target.ID, vertex: -1, last: p}
	e.rec.Begin()
}

func (e *Editor) startVertexDrag(s *floor.Shape, p vector.Pt) bool {
	if !s.VertexEditable() {
		return false
	}
	idx, ok := e.vx.HandleAt(s.ID, p, e.cfg.HandleRadiusPx)
	if !ok {
		return false
	}
	e.drag = &interaction{id: s.ID, vertex: idx, last: p}
	e.rec.Begin()
	return true
}

func (e *Editor) pointerMove(p vector.Pt) {
	if e.drag == nil {
		return
	}
	s, ok := e.reg.FindByID(e.drag.id)
	if !ok {
		e.drag = nil
		return
	}
	if e.drag.vertex >= 0 {
		if err := e.vx.DragVertex(s.ID, e.drag.vertex, s.ToLocal(p)); err != nil {
			e.log.Warn("vertex drag failed", applog.Floor(s.ID), slog.Int("vertex", e.drag.vertex), slog.Any("err", err))
		}
	} else {
		d := p.Sub(e.drag.last)
		s.Move(d.X, d.Y)
		e.bindHandles(s)
		e.rec.MarkDirty()
		e.cv.RequestRender()
	}
	e.drag.last = p
}

func (e *Editor) pointerUp() {
	if e.drag == nil {
		return
	}
	if s, ok := e.reg.FindByID(e.drag.id); ok && e.drag.vertex >= 0 {
		e.checkOutline(s)
	}
	e.drag = nil
	e.rec.End()
}

func (e *Editor) doubleClick(p vector.Pt) {
	if e.tool == ToolDraw {
		if len(e.draft) > 2 {
			if _, err := e.commitDraftLocked(); err != nil {
				e.log.Warn("draw commit failed", slog.Any("err", err))
			}
		}
		return
	}
	target := e.floorAt(p)
	if target == nil {
		return
	}
	if m := e.reg.Meta(target.ID); m != nil && m.OnInsert != nil {
		m.OnInsert(p)
	}
}

// floorAt returns the registered floor under p. Scanning covers every canvas
// object, so furniture above a floor hides it from the pointer.
func (e *Editor) floorAt(p vector.Pt) *floor.Shape {
	hit := e.hit.TopmostFloorAt(p, e.cv.Objects())
	if hit == nil {
		return nil
	}
	s, ok := e.reg.FindByID(hit.ID)
	if !ok {
		return nil
	}
	return s
}
