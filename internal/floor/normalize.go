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
	"math"

	"floorplanner/internal/vector"
)

const (
	// DefaultSegments approximates circles and ellipses for previews and drawing.
	DefaultSegments = 16
	// HiFiSegments is used when a smoother outline is wanted.
	HiFiSegments = 32
)

// Normalize turns a primitive into its editable polygon or polyline form in place and
// marks it as a floor. Polygons and polylines pass through unchanged. Paths and
// unknown kinds return ErrNotApplicable and are left as they were.
func Normalize(s *Shape, segments int) error {
	if segments < 3 {
		segments = DefaultSegments
	}
	ops := s.caps()
	pts, kind, err := ops.normalize(s, segments)
	if err != nil {
		return err
	}
	need := 3
	if kind == KindPolyline {
		need = 2
	}
	if len(pts) < need || distinct(pts) < need {
		return fmt.Errorf("%w: %s %q yields %d distinct points", ErrDegenerate, s.Kind, s.ID, distinct(pts))
	}
	if kind != s.Kind {
		if s.SourceKind == "" {
			s.SourceKind = s.Kind
		}
		s.Kind = kind
		s.Points = pts
		s.Transform.ScaleX, s.Transform.ScaleY = 1, 1
		s.bind()
	}
	s.Floor = true
	return nil
}

// Normalized returns a normalized clone, leaving s untouched.
func Normalized(s *Shape, segments int) (*Shape, error) {
	c := s.Clone()
	if err := Normalize(c, segments); err != nil {
		return nil, err
	}
	return c, nil
}

func distinct(pts []vector.Pt) int {
	seen := make(map[vector.Pt]struct{}, len(pts))
	for _, p := range pts {
		seen[p] = struct{}{}
	}
	return len(seen)
}

func (rectOps) normalize(s *Shape, _ int) ([]vector.Pt, Kind, error) {
	w := s.Params.Width * s.Transform.ScaleX
	h := s.Params.Height * s.Transform.ScaleY
	return []vector.Pt{{X: -w / 2, Y: -h / 2}, {X: w / 2, Y: -h / 2}, {X: w / 2, Y: h / 2}, {X: -w / 2, Y: h / 2}}, KindPolygon, nil
}

func (triangleOps) normalize(s *Shape, _ int) ([]vector.Pt, Kind, error) {
	return trianglePoints(s.Params.Width*s.Transform.ScaleX, s.Params.Height*s.Transform.ScaleY), KindPolygon, nil
}

func (circleOps) normalize(s *Shape, n int) ([]vector.Pt, Kind, error) {
	return ngon(s.Params.Radius*s.Transform.ScaleX, s.Params.Radius*s.Transform.ScaleY, n), KindPolygon, nil
}

func (ellipseOps) normalize(s *Shape, n int) ([]vector.Pt, Kind, error) {
	return ngon(s.Params.RX*s.Transform.ScaleX, s.Params.RY*s.Transform.ScaleY, n), KindPolygon, nil
}

// ngon places n vertices at angle k*2pi/n on the ellipse with radii rx, ry.
func ngon(rx, ry float64, n int) []vector.Pt {
	pts := make([]vector.Pt, n)
	for k := 0; k < n; k++ {
		a := float64(k) * 2 * math.Pi / float64(n)
		pts[k] = vector.Pt{X: rx * math.Cos(a), Y: ry * math.Sin(a)}
	}
	return pts
}

func (lineOps) normalize(s *Shape, _ int) ([]vector.Pt, Kind, error) {
	sx, sy := s.Transform.ScaleX, s.Transform.ScaleY
	return []vector.Pt{
		{X: s.Params.X1 * sx, Y: s.Params.Y1 * sy},
		{X: s.Params.X2 * sx, Y: s.Params.Y2 * sy},
	}, KindPolyline, nil
}

func (o polyOps) normalize(s *Shape, _ int) ([]vector.Pt, Kind, error) {
	return s.Points, o.k, nil
}

func (pathOps) normalize(s *Shape, _ int) ([]vector.Pt, Kind, error) {
	return nil, "", fmt.Errorf("%w: path %q stays a primitive", ErrNotApplicable, s.ID)
}

func (o unknownOps) normalize(s *Shape, _ int) ([]vector.Pt, Kind, error) {
	return nil, "", fmt.Errorf("%w: %w %q", ErrNotApplicable, ErrUnsupportedKind, o.k)
}
