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
	"math"
	"testing"

	"floorplanner/internal/vector"
)

func rectFloor(t *testing.T, id string, w, h, x, y float64) *Shape {
	t.Helper()
	s := New(id, KindRect, Params{Width: w, Height: h}, At(x, y))
	if err := Normalize(s, DefaultSegments); err != nil {
		t.Fatalf("normalize %s: %v", id, err)
	}
	return s
}

func TestNormalizeRect(t *testing.T) {
	s := rectFloor(t, "r1", 100, 60, 0, 0)
	want := []vector.Pt{{X: -50, Y: -30}, {X: 50, Y: -30}, {X: 50, Y: 30}, {X: -50, Y: 30}}
	if s.Kind != KindPolygon || s.SourceKind != KindRect {
		t.Fatalf("kind=%s source=%s", s.Kind, s.SourceKind)
	}
	if len(s.Points) != 4 {
		t.Fatalf("expected 4 points, got %d", len(s.Points))
	}
	for i := range want {
		if s.Points[i] != want[i] {
			t.Fatalf("point %d = %v, want %v", i, s.Points[i], want[i])
		}
	}
	if !s.Floor {
		t.Fatalf("normalized shape must be marked as floor")
	}
	if s.Params.Width != 100 || s.Params.Height != 60 {
		t.Fatalf("raw params should be kept: %+v", s.Params)
	}
}

func TestNormalizeAppliesScale(t *testing.T) {
	s := New("r", KindRect, Params{Width: 10, Height: 10}, Transform{ScaleX: 2, ScaleY: 3})
	if err := Normalize(s, 0); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	b := vector.Bounds(s.Points)
	if b.W != 20 || b.H != 30 {
		t.Fatalf("unexpected extents %+v", b)
	}
	if s.Transform.ScaleX != 1 || s.Transform.ScaleY != 1 {
		t.Fatalf("scale should be baked into points: %+v", s.Transform)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	s := rectFloor(t, "r", 100, 60, 10, 20)
	before := append([]vector.Pt(nil), s.Points...)
	tf := s.Transform
	if err := Normalize(s, DefaultSegments); err != nil {
		t.Fatalf("second normalize: %v", err)
	}
	if s.Transform != tf || len(s.Points) != len(before) {
		t.Fatalf("re-normalize changed shape")
	}
	for i := range before {
		if s.Points[i] != before[i] {
			t.Fatalf("point %d changed: %v -> %v", i, before[i], s.Points[i])
		}
	}

	pl := NewPolyline("pl", []vector.Pt{{X: 0, Y: 0}, {X: 10, Y: 5}, {X: 20, Y: 0}})
	c, err := Normalized(pl, DefaultSegments)
	if err != nil {
		t.Fatalf("normalize polyline: %v", err)
	}
	if c.Kind != KindPolyline || len(c.Points) != 3 {
		t.Fatalf("polyline should pass through: %+v", c)
	}
}

func TestNormalizeCircleAndEllipse(t *testing.T) {
	c := New("c", KindCircle, Params{Radius: 10}, At(0, 0))
	if err := Normalize(c, DefaultSegments); err != nil {
		t.Fatalf("normalize circle: %v", err)
	}
	if len(c.Points) != 16 {
		t.Fatalf("expected 16 points, got %d", len(c.Points))
	}
	if !c.Points[0].Near(vector.Pt{X: 10}, 1e-12) || !c.Points[4].Near(vector.Pt{Y: 10}, 1e-12) {
		t.Fatalf("unexpected vertices %v %v", c.Points[0], c.Points[4])
	}
	for _, p := range c.Points {
		if math.Abs(math.Hypot(p.X, p.Y)-10) > 1e-9 {
			t.Fatalf("vertex %v not on circle", p)
		}
	}

	e := New("e", KindEllipse, Params{RX: 20, RY: 5}, At(0, 0))
	if err := Normalize(e, HiFiSegments); err != nil {
		t.Fatalf("normalize ellipse: %v", err)
	}
	if len(e.Points) != 32 {
		t.Fatalf("expected 32 points, got %d", len(e.Points))
	}
	b := vector.Bounds(e.Points)
	if math.Abs(b.W-40) > 1e-9 || math.Abs(b.H-10) > 1e-9 {
		t.Fatalf("unexpected ellipse bounds %+v", b)
	}
}

func TestNormalizeTriangleAndLine(t *testing.T) {
	tr := New("t", KindTriangle, Params{Width: 40, Height: 30}, At(0, 0))
	if err := Normalize(tr, 0); err != nil {
		t.Fatalf("normalize triangle: %v", err)
	}
	if len(tr.Points) != 3 || tr.Points[0] != (vector.Pt{X: 0, Y: -15}) {
		t.Fatalf("unexpected triangle %v", tr.Points)
	}

	l := NewLine("l", vector.Pt{X: 0, Y: 0}, vector.Pt{X: 100, Y: 0})
	if err := Normalize(l, 0); err != nil {
		t.Fatalf("normalize line: %v", err)
	}
	if l.Kind != KindPolyline || l.Closed() || len(l.Points) != 2 {
		t.Fatalf("line should become an open 2-point polyline: %+v", l)
	}
	if l.Points[0] != (vector.Pt{X: -50}) || l.Transform.X != 50 {
		t.Fatalf("line not centered on midpoint: %v at %v", l.Points, l.Transform)
	}
}

func TestNormalizeNotApplicable(t *testing.T) {
	p, err := NewPath("p", "M0 0 L10 0 L10 10 Z")
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	if err := Normalize(p, 0); !errors.Is(err, ErrNotApplicable) {
		t.Fatalf("expected ErrNotApplicable, got %v", err)
	}
	if p.Kind != KindPath || p.Floor {
		t.Fatalf("path must be left untouched")
	}

	u := New("u", Kind("hexagon"), Params{}, At(0, 0))
	err = Normalize(u, 0)
	if !errors.Is(err, ErrNotApplicable) || !errors.Is(err, ErrUnsupportedKind) {
		t.Fatalf("unknown kind: got %v", err)
	}
}

func TestNormalizeDegenerate(t *testing.T) {
	s := New("z", KindRect, Params{Width: 0, Height: 0}, At(0, 0))
	if err := Normalize(s, 0); !errors.Is(err, ErrDegenerate) {
		t.Fatalf("expected ErrDegenerate, got %v", err)
	}
	if s.Kind != KindRect {
		t.Fatalf("failed normalize must not change kind")
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind(" Polygon "); err != nil || k != KindPolygon {
		t.Fatalf("got %q %v", k, err)
	}
	if _, err := ParseKind("star"); !errors.Is(err, ErrUnsupportedKind) {
		t.Fatalf("expected ErrUnsupportedKind, got %v", err)
	}
}
