/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package floor holds the floor shape model and the geometry engines that act on it:
// normalization into editable polygons, resizing, hit-testing, the z-ordered registry
// with its editor side table, vertex editing, and the snapshot codec.
package floor

import (
	"errors"

	"floorplanner/internal/vector"
)

var (
	ErrEmptyID         = errors.New("floor: empty id")
	ErrDuplicateID     = errors.New("floor: duplicate id")
	ErrDegenerate      = errors.New("floor: degenerate geometry")
	ErrNotFound        = errors.New("floor: not found")
	ErrUnsupportedKind = errors.New("floor: unsupported kind")
	ErrNotApplicable   = errors.New("floor: not applicable")
)

// Style is what the properties panel edits.
type Style struct {
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
}

// DefaultStyle is applied to freshly drawn floors.
func DefaultStyle() Style {
	return Style{Fill: "rgba(200,200,200,0.3)", Stroke: "black", StrokeWidth: 1}
}

// Transform places shape-local geometry on the canvas. X/Y is the position of the
// local origin, which is the center of the shape. Angle is in degrees.
type Transform struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Angle  float64 `json:"angle"`
	ScaleX float64 `json:"scaleX"`
	ScaleY float64 `json:"scaleY"`
}

// At returns an unrotated, unscaled transform at (x, y).
func At(x, y float64) Transform { return Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1} }

// Matrix returns local-to-canvas as Translate * Rotate * Scale.
func (t Transform) Matrix() vector.Affine2D {
	return vector.Translate(t.X, t.Y).Mul(vector.Rotate(vector.Deg(t.Angle))).Mul(vector.Scale(t.ScaleX, t.ScaleY))
}

// Params are the raw construction parameters of a primitive. Once a shape is
// normalized they are kept for serialization only.
type Params struct {
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	Radius   float64 `json:"radius,omitempty"`
	RX       float64 `json:"rx,omitempty"`
	RY       float64 `json:"ry,omitempty"`
	X1       float64 `json:"x1,omitempty"`
	Y1       float64 `json:"y1,omitempty"`
	X2       float64 `json:"x2,omitempty"`
	Y2       float64 `json:"y2,omitempty"`
	PathData string  `json:"path,omitempty"`
}

// Shape is one object on the canvas. Floors carry Floor=true; everything else is
// opaque to the editor.
type Shape struct {
	ID   string
	Name string
	Kind Kind
	// SourceKind is the primitive kind a normalized shape was produced from.
	SourceKind Kind
	// Points is the live geometry in shape-local space for polygon and polyline kinds.
	Points    []vector.Pt
	Params    Params
	Style     Style
	Transform Transform

	Floor    bool
	Editable bool
	Locked   bool
	Selected bool

	ops  kindOps
	path *vector.Path
}

// New returns a primitive shape of the given kind. The capability table for the
// kind is resolved here once.
func New(id string, kind Kind, p Params, t Transform) *Shape {
	s := &Shape{ID: id, Kind: kind, Params: p, Style: DefaultStyle(), Transform: t, Editable: true}
	s.bind()
	return s
}

// NewPolygon builds a closed polygon from canvas points. The points are re-expressed
// around their bounding-box center, which becomes the shape position.
func NewPolygon(id string, canvasPts []vector.Pt) *Shape {
	return newPointShape(id, KindPolygon, canvasPts)
}

// NewPolyline is NewPolygon for an open point list.
func NewPolyline(id string, canvasPts []vector.Pt) *Shape {
	return newPointShape(id, KindPolyline, canvasPts)
}

func newPointShape(id string, kind Kind, canvasPts []vector.Pt) *Shape {
	c := vector.Bounds(canvasPts).Center()
	local := make([]vector.Pt, len(canvasPts))
	for i, p := range canvasPts {
		local[i] = p.Sub(c)
	}
	s := New(id, kind, Params{}, At(c.X, c.Y))
	s.Points = local
	return s
}

// NewLine builds a primitive line between two canvas points, positioned at its midpoint.
func NewLine(id string, a, b vector.Pt) *Shape {
	mid := a.Add(b).Mul(0.5)
	p := Params{X1: a.X - mid.X, Y1: a.Y - mid.Y, X2: b.X - mid.X, Y2: b.Y - mid.Y}
	return New(id, KindLine, p, At(mid.X, mid.Y))
}

// NewPath parses SVG path data given in canvas coordinates. The shape is placed
// at the center of the path's bounding box and keeps its geometry in local space
// around the origin, like every other kind.
func NewPath(id, data string) (*Shape, error) {
	p, c, err := localPath(data)
	if err != nil {
		return nil, err
	}
	s := New(id, KindPath, Params{PathData: data}, At(c.X, c.Y))
	s.path = p
	return s, nil
}

// localPath parses data and moves it so its bounding box is centered on the
// origin. c is the original center.
func localPath(data string) (p *vector.Path, c vector.Pt, err error) {
	parsed, err := vector.ParseSVGPath(data)
	if err != nil {
		return nil, vector.Pt{}, err
	}
	c = parsed.Bounds().Center()
	parsed.Translate(-c.X, -c.Y)
	return &parsed, c, nil
}

func (s *Shape) bind() { s.ops = opsFor(s.Kind) }

// caps returns the capability implementation for the shape kind.
func (s *Shape) caps() kindOps {
	if s.ops == nil || s.ops.kind() != s.Kind {
		s.bind()
	}
	return s.ops
}

// Closed reports whether the outline wraps back to its first point.
func (s *Shape) Closed() bool { return s.caps().closed() }

// PointBased reports whether Points is the live geometry of the shape.
func (s *Shape) PointBased() bool { return s.Kind == KindPolygon || s.Kind == KindPolyline }

// VertexEditable reports whether vertex handles may be attached.
func (s *Shape) VertexEditable() bool {
	return s.Floor && s.Editable && !s.Locked && s.PointBased()
}

// Matrix is shorthand for s.Transform.Matrix().
func (s *Shape) Matrix() vector.Affine2D { return s.Transform.Matrix() }

// ToLocal maps a canvas point into shape-local space.
func (s *Shape) ToLocal(p vector.Pt) vector.Pt { return s.Matrix().Invert().Apply(p) }

// WorldPoints returns Points mapped to canvas space.
func (s *Shape) WorldPoints() []vector.Pt { return s.Matrix().ApplyAll(s.Points) }

// LocalBounds is the unscaled local bounding box.
func (s *Shape) LocalBounds() vector.Rect { return s.caps().localBounds(s) }

// Bounds returns the canvas-space bounding box.
func (s *Shape) Bounds() vector.Rect {
	b := s.LocalBounds()
	m := s.Matrix()
	return vector.Bounds([]vector.Pt{
		m.Apply(b.Min()),
		m.Apply(vector.Pt{X: b.X + b.W, Y: b.Y}),
		m.Apply(b.Max()),
		m.Apply(vector.Pt{X: b.X, Y: b.Y + b.H}),
	})
}

// Center returns the canvas position of the local bounding-box center.
func (s *Shape) Center() vector.Pt { return s.Matrix().Apply(s.LocalBounds().Center()) }

// Move translates the shape on the canvas.
func (s *Shape) Move(dx, dy float64) {
	s.Transform.X += dx
	s.Transform.Y += dy
}

// Clone returns a deep copy. Selection state is not copied.
func (s *Shape) Clone() *Shape {
	c := *s
	c.Points = append([]vector.Pt(nil), s.Points...)
	c.Selected = false
	if s.path != nil {
		p := vector.Path{Cmds: append([]vector.PathCmd(nil), s.path.Cmds...)}
		c.path = &p
	}
	return &c
}

// parsedPath returns the cached local path, parsing Params.PathData on first use.
func (s *Shape) parsedPath() *vector.Path {
	if s.path == nil && s.Params.PathData != "" {
		if p, _, err := localPath(s.Params.PathData); err == nil {
			s.path = p
		}
	}
	return s.path
}

// LocalPath returns a copy of the path geometry in shape-local space, or nil for
// shapes that are not paths or whose data does not parse.
func (s *Shape) LocalPath() *vector.Path {
	if s.Kind != KindPath {
		return nil
	}
	p := s.parsedPath()
	if p == nil {
		return nil
	}
	return &vector.Path{Cmds: append([]vector.PathCmd(nil), p.Cmds...)}
}
