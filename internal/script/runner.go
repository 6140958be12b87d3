/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"fmt"
	"log/slog"

	"floorplanner/internal/canvas"
	"floorplanner/internal/config"
	"floorplanner/internal/editor"
	"floorplanner/internal/floor"
	applog "floorplanner/internal/log"
	"floorplanner/internal/undo"
	"floorplanner/internal/vector"
)

// Env is a headless editing session. The history timer only fires on "tick"
// steps so replays are deterministic.
type Env struct {
	Surface *canvas.Surface
	Clock   *undo.ManualScheduler
	Editor  *editor.Editor

	aliases map[string]string
	log     *slog.Logger
}

func NewEnv(cfg config.EditorConfig, session string) *Env {
	cv := canvas.NewSurface()
	clock := &undo.ManualScheduler{}
	return &Env{
		Surface: cv,
		Clock:   clock,
		Editor:  editor.New(cv, editor.Options{Config: cfg, Scheduler: clock, Session: session}),
		aliases: make(map[string]string),
		log:     applog.WithComponent("script"),
	}
}

func (env *Env) Close() { env.Editor.Close() }

// ID resolves a script name to a floor id. Unknown names are used as ids.
func (env *Env) ID(name string) string {
	if id, ok := env.aliases[name]; ok {
		return id
	}
	return name
}

// Run replays every step and stops at the first failure.
func (env *Env) Run(s Script) error {
	for i, st := range s.Steps {
		if err := env.step(st); err != nil {
			return fmt.Errorf("step %d (line %d) %s: %w", i+1, st.Line, st.Op, err)
		}
	}
	env.log.Info("script finished", slog.String("script", s.Name), slog.Int("steps", len(s.Steps)), slog.Int("floors", len(env.Editor.Floors())))
	return nil
}

func pt(p *Point) vector.Pt {
	if p == nil {
		return vector.Pt{}
	}
	return vector.Pt{X: p[0], Y: p[1]}
}

func times(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func (env *Env) step(st Step) error {
	ed := env.Editor
	id := env.ID(st.Floor)
	switch st.Op {
	case "insert":
		return env.insert(st)
	case "draw":
		return env.draw(st)
	case "tool":
		switch st.Tool {
		case "draw":
			ed.SetTool(editor.ToolDraw)
		case "select":
			ed.SetTool(editor.ToolSelect)
		default:
			return fmt.Errorf("unknown tool %q", st.Tool)
		}
	case "down":
		env.Surface.Dispatch(canvas.Event{Type: canvas.PointerDown, Pt: pt(st.At)})
	case "move":
		env.Surface.Dispatch(canvas.Event{Type: canvas.PointerMove, Pt: pt(st.At)})
	case "up":
		env.Surface.Dispatch(canvas.Event{Type: canvas.PointerUp, Pt: pt(st.At)})
	case "click":
		env.Surface.Click(canvas.Event{Pt: pt(st.At)})
	case "dblclick":
		env.Surface.Dispatch(canvas.Event{Type: canvas.DoubleClick, Pt: pt(st.At)})
	case "select":
		return ed.Select(id)
	case "drag":
		return ed.MoveVertex(id, st.Vertex, pt(st.To))
	case "insert_vertex":
		_, err := ed.InsertVertex(id, pt(st.At))
		return err
	case "grow", "shrink":
		if st.Floor != "" {
			if err := ed.Select(id); err != nil {
				return err
			}
		}
		for i := 0; i < times(st.Times); i++ {
			ok := ed.Grow
			if st.Op == "shrink" {
				ok = ed.Shrink
			}
			if !ok() {
				return fmt.Errorf("no editable floor selected")
			}
		}
	case "resize":
		return ed.Resize(id, floor.Adjust{Factor: st.Factor, Step: st.Step})
	case "translate":
		return ed.Move(id, st.By[0], st.By[1])
	case "style":
		return env.style(id, st)
	case "lock", "unlock":
		return ed.SetLocked(id, st.Op == "lock")
	case "delete":
		if st.Floor == "" {
			ed.DeleteSelected()
			return nil
		}
		ed.Delete(id)
	case "undo":
		for i := 0; i < times(st.Times); i++ {
			ed.Undo()
		}
	case "redo":
		for i := 0; i < times(st.Times); i++ {
			ed.Redo()
		}
	case "tick":
		for i := 0; i < times(st.Times); i++ {
			env.Clock.Fire()
		}
	case "expect":
		return env.expect(id, st)
	default:
		return fmt.Errorf("unknown op %q", st.Op)
	}
	return nil
}

func (env *Env) insert(st Step) error {
	k, err := floor.ParseKind(st.Kind)
	if err != nil {
		return err
	}
	p := editor.Primitive{
		Kind:  k,
		Name:  st.Name,
		At:    pt(st.At),
		Angle: st.Angle,
		Params: floor.Params{
			Width: st.Width, Height: st.Height, Radius: st.Radius, RX: st.RX, RY: st.RY, PathData: st.Path,
		},
		HiFi:   st.HiFi,
		Locked: st.Locked,
	}
	for _, q := range st.Points {
		p.Points = append(p.Points, pt(&q))
	}
	if k == floor.KindLine {
		if len(st.Points) != 2 {
			return fmt.Errorf("line needs exactly 2 points")
		}
		p.Params.X1, p.Params.Y1 = st.Points[0][0], st.Points[0][1]
		p.Params.X2, p.Params.Y2 = st.Points[1][0], st.Points[1][1]
	}
	if st.Fill != "" || st.Stroke != "" || st.StrokeWidth != nil {
		s := mergeStyle(floor.DefaultStyle(), st)
		p.Style = &s
	}
	id, err := env.Editor.Insert(p)
	if err != nil {
		return err
	}
	env.remember(st.As, id)
	return nil
}

// draw clicks the outline with the draw tool and commits it with a double-click.
func (env *Env) draw(st Step) error {
	ed := env.Editor
	before := len(ed.Floors())
	ed.SetTool(editor.ToolDraw)
	for _, q := range st.Points {
		env.Surface.Click(canvas.Event{Pt: pt(&q)})
	}
	last := st.Points[len(st.Points)-1]
	env.Surface.Dispatch(canvas.Event{Type: canvas.DoubleClick, Pt: pt(&last)})
	fs := ed.Floors()
	if len(fs) == before {
		ed.SetTool(editor.ToolSelect)
		return fmt.Errorf("outline of %d points was not committed", len(st.Points))
	}
	// new floors go to the bottom of the z-order
	env.remember(st.As, fs[0].ID)
	return nil
}

func (env *Env) remember(alias, id string) {
	if alias != "" {
		env.aliases[alias] = id
	}
}

func mergeStyle(s floor.Style, st Step) floor.Style {
	if st.Fill != "" {
		s.Fill = st.Fill
	}
	if st.Stroke != "" {
		s.Stroke = st.Stroke
	}
	if st.StrokeWidth != nil {
		s.StrokeWidth = *st.StrokeWidth
	}
	return s
}

func (env *Env) style(id string, st Step) error {
	f, ok := env.Editor.Floor(id)
	if !ok {
		return fmt.Errorf("%w: %q", floor.ErrNotFound, id)
	}
	return env.Editor.SetStyle(id, mergeStyle(f.Style, st))
}

func (env *Env) expect(id string, st Step) error {
	ed := env.Editor
	if st.Floors != nil {
		if n := len(ed.Floors()); n != *st.Floors {
			return fmt.Errorf("expected %d floors, have %d", *st.Floors, n)
		}
	}
	if st.Vertices != nil {
		f, ok := ed.Floor(id)
		if !ok {
			return fmt.Errorf("%w: %q", floor.ErrNotFound, id)
		}
		if len(f.Points) != *st.Vertices {
			return fmt.Errorf("expected %d vertices on %q, have %d", *st.Vertices, st.Floor, len(f.Points))
		}
	}
	h := ed.History()
	if st.History != nil && h.Entries != *st.History {
		return fmt.Errorf("expected %d history entries, have %d", *st.History, h.Entries)
	}
	if st.Cursor != nil && h.Cursor != *st.Cursor {
		return fmt.Errorf("expected history cursor %d, have %d", *st.Cursor, h.Cursor)
	}
	return nil
}
