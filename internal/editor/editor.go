/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package editor runs a floor editing session on top of a canvas: it owns the
// floor registry, routes pointer input to the vertex editor, applies keyboard
// effects and keeps the undo history.
package editor

import (
	"log/slog"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"floorplanner/internal/canvas"
	"floorplanner/internal/config"
	"floorplanner/internal/floor"
	applog "floorplanner/internal/log"
	"floorplanner/internal/undo"
	"floorplanner/internal/vector"
)

// Tool is the active pointer tool.
type Tool int

const (
	ToolSelect Tool = iota
	ToolDraw
)

func (t Tool) String() string {
	if t == ToolDraw {
		return "draw"
	}
	return "select"
}

// Options configure a new Editor. Zero values fall back to config.Defaults.
type Options struct {
	Config config.EditorConfig
	// Scheduler drives the history timer. Nil uses a real ticker.
	Scheduler undo.Scheduler
	// NewID generates floor ids. Nil uses random UUIDs.
	NewID   func() string
	Session string
}

// interaction is the pointer drag in progress. vertex is -1 for a body move.
type interaction struct {
	id     string
	vertex int
	last   vector.Pt
}

// Editor is safe for concurrent use. All state changes, including history
// timer ticks, happen under one lock.
type Editor struct {
	mu sync.Mutex

	cv    canvas.Canvas
	reg   *floor.Registry
	vx    *floor.VertexEditor
	hit   floor.HitTester
	hist  *undo.Manager
	rec   *undo.Recorder
	cfg   config.EditorConfig
	log   *slog.Logger
	newID func() string

	tool   Tool
	draft  []vector.Pt
	drag   *interaction
	seq    int
	unsub  func()
	closed bool
}

// New binds an editor to cv and records the empty starting state as the first
// history entry.
func New(cv canvas.Canvas, opts Options) *Editor {
	cfg := withDefaults(opts.Config)
	e := &Editor{
		cv:    cv,
		reg:   floor.NewRegistry(),
		hit:   floor.NewHitTester(cfg.HitMarginPx),
		cfg:   cfg,
		newID: opts.NewID,
		log:   applog.WithComponent("editor"),
	}
	if opts.Session != "" {
		e.log = applog.WithSession(e.log, opts.Session)
	}
	if e.newID == nil {
		e.newID = uuid.NewString
	}
	e.vx = floor.NewVertexEditor(e.reg, e)
	e.hist = undo.NewManager(undo.Config{Capacity: cfg.HistoryCapacity, Interval: cfg.SnapshotInterval()})
	sched := opts.Scheduler
	if sched == nil {
		sched = undo.TickerScheduler{}
	}
	e.rec = undo.NewRecorder(e.hist, e.capture, undo.Guarded(sched, &e.mu))
	e.rec.Snapshot()
	e.unsub = cv.Subscribe(e.dispatch)
	e.log.Debug("editor ready", slog.Int("capacity", e.hist.Config().Capacity), slog.Duration("interval", e.hist.Config().Interval))
	return e
}

func withDefaults(c config.EditorConfig) config.EditorConfig {
	d := config.Defaults().Editor
	if c.HistoryCapacity <= 0 {
		c.HistoryCapacity = d.HistoryCapacity
	}
	if c.SnapshotIntervalMs <= 0 {
		c.SnapshotIntervalMs = d.SnapshotIntervalMs
	}
	if c.HitMarginPx <= 0 {
		c.HitMarginPx = d.HitMarginPx
	}
	if c.MinSizePx <= 0 {
		c.MinSizePx = d.MinSizePx
	}
	if c.CircleSegments < 3 {
		c.CircleSegments = d.CircleSegments
	}
	if c.HiFiSegments < 3 {
		c.HiFiSegments = d.HiFiSegments
	}
	if c.GrowFactor <= 1 {
		c.GrowFactor = d.GrowFactor
	}
	if c.StepPx <= 0 {
		c.StepPx = d.StepPx
	}
	if c.HandleRadiusPx <= 0 {
		c.HandleRadiusPx = d.HandleRadiusPx
	}
	return c
}

// Close stops listening to the canvas and ends any open interaction.
func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.rec.End()
	e.drag = nil
	if e.unsub != nil {
		e.unsub()
	}
}

// Notifier implementation used by the vertex editor. Called with mu held.

func (e *Editor) MarkDirty()       { e.rec.MarkDirty() }
func (e *Editor) RequestRender()   { e.cv.RequestRender() }
func (e *Editor) RequestSnapshot() { e.rec.Snapshot() }

func (e *Editor) EditFailed(id string, err error) {
	e.log.Warn("vertex insert failed", applog.Floor(id), slog.Any("err", err))
}

// capture serializes the floor set in z-order. Called with mu held.
func (e *Editor) capture() ([]byte, error) {
	return floor.EncodeSnapshot(e.reg.ListByZOrder())
}

// Snapshot returns the current serialized floor set.
func (e *Editor) Snapshot() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.capture()
}

// Floors returns copies of the floors, bottom first.
func (e *Editor) Floors() []*floor.Shape {
	e.mu.Lock()
	defer e.mu.Unlock()
	src := e.reg.ListByZOrder()
	out := make([]*floor.Shape, len(src))
	for i, s := range src {
		out[i] = s.Clone()
		out[i].Selected = s.Selected
	}
	return out
}

// Floor returns a copy of one floor.
func (e *Editor) Floor(id string) (*floor.Shape, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.reg.FindByID(id)
	if !ok {
		return nil, false
	}
	c := s.Clone()
	c.Selected = s.Selected
	return c, true
}

// Handles returns the vertex handles of a floor in canvas coordinates.
func (e *Editor) Handles(id string) []floor.Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.vx.Handles(id)
}

// HistoryStats describes the undo history.
type HistoryStats struct {
	Entries int
	Cursor  int
	Bytes   int
	CanUndo bool
	CanRedo bool
	State   undo.State
}

func (e *Editor) History() HistoryStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	b, n, c := e.hist.Stats()
	return HistoryStats{Entries: n, Cursor: c, Bytes: b, CanUndo: e.hist.CanUndo(), CanRedo: e.hist.CanRedo(), State: e.rec.State()}
}

// Tool returns the active pointer tool.
func (e *Editor) Tool() Tool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tool
}

// SetTool switches tools. Leaving the draw tool discards an unfinished outline.
func (e *Editor) SetTool(t Tool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if t != ToolDraw {
		e.draft = nil
	}
	e.tool = t
	e.cv.RequestRender()
}

// DraftPoints returns the points of the outline being drawn.
func (e *Editor) DraftPoints() []vector.Pt {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]vector.Pt(nil), e.draft...)
}

// attach adds s to the registry and canvas, sends it to the back and binds its
// vertex handles. Called with mu held.
func (e *Editor) attach(s *floor.Shape) error {
	if err := e.reg.Add(s); err != nil {
		return err
	}
	e.cv.Add(s)
	e.reg.SendToBack(s.ID)
	e.cv.SendToBack(s.ID)
	e.bindHandles(s)
	return nil
}

func (e *Editor) bindHandles(s *floor.Shape) {
	if !s.VertexEditable() {
		e.vx.DetachHandles(s.ID)
		return
	}
	if err := e.vx.AttachHandles(s.ID); err != nil {
		e.log.Warn("attach handles failed", applog.Floor(s.ID), slog.Any("err", err))
	}
}

// detach removes id from registry and canvas. Called with mu held.
func (e *Editor) detach(id string) bool {
	if e.drag != nil && e.drag.id == id {
		e.rec.End()
		e.drag = nil
	}
	if !e.reg.Remove(id) {
		return false
	}
	e.cv.Remove(id)
	if e.cv.Active() == id {
		e.cv.SetActive("")
	}
	return true
}

// selectLocked makes id the selection on both registry and canvas.
func (e *Editor) selectLocked(id string) {
	e.reg.Select(id)
	e.cv.SetActive(id)
	e.cv.RequestRender()
}

// checkOutline logs outlines that simple-feature validation rejects. Edits are
// never refused for it.
func (e *Editor) checkOutline(s *floor.Shape) {
	if err := floor.Check(s); err != nil {
		e.log.Warn("floor outline invalid", applog.Floor(s.ID), slog.Any("err", err))
	}
}

func (e *Editor) nextName() string {
	e.seq++
	return "Floor " + strconv.Itoa(e.seq)
}
