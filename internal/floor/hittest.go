/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package floor

import (
	"math"

	"floorplanner/internal/vector"
)

// DefaultHitMargin is added to half the stroke width for line and edge hits.
const DefaultHitMargin = 6.0

// onEdgeEps absorbs rounding for points exactly on an outline.
const onEdgeEps = 1e-9

// HitTester decides whether a canvas point strikes a shape. Every comparison is
// made in canvas space after applying the shape transform, except native
// containment which maps the point into local space instead.
type HitTester struct {
	Margin float64
}

func NewHitTester(margin float64) HitTester {
	if margin < 0 {
		margin = DefaultHitMargin
	}
	return HitTester{Margin: margin}
}

// Test checks, in order: native containment, line distance, polygon edges plus
// ray cast, the stroke of a primitive whose fill missed, and finally the
// bounding box for kinds with none of those.
func (h HitTester) Test(p vector.Pt, s *Shape) bool {
	if s == nil {
		return false
	}
	ops := s.caps()
	m := s.Matrix()
	inside, native := ops.contains(s, m.Invert().Apply(p))
	if inside {
		return true
	}
	tol := s.Style.StrokeWidth/2 + h.Margin
	if a, b, ok := ops.segment(s); ok {
		return vector.SegmentDist(p, m.Apply(a), m.Apply(b)) <= tol
	}
	if s.PointBased() && len(s.Points) > 0 {
		return hitOutline(p, m.ApplyAll(s.Points), ops.closed(), tol)
	}
	if native {
		return hitStroke(p, s, tol)
	}
	return s.Bounds().Contains(p)
}

// hitStroke tests p against the outline of a primitive with native containment.
// Its bounding box is never used: for rotated or round kinds it covers area the
// shape does not.
func hitStroke(p vector.Pt, s *Shape, tol float64) bool {
	n, err := Normalized(s, HiFiSegments)
	if err != nil || len(n.Points) < 2 {
		return false
	}
	return edgeDist(p, n.WorldPoints(), n.Closed()) <= tol
}

func hitOutline(p vector.Pt, pts []vector.Pt, closed bool, tol float64) bool {
	if len(pts) == 1 {
		return p.Dist(pts[0]) <= tol
	}
	if edgeDist(p, pts, closed) <= tol {
		return true
	}
	return closed && len(pts) >= 3 && vector.InPolygon(p, pts)
}

// edgeDist is the minimum distance from p to any edge, including the closing
// edge when closed.
func edgeDist(p vector.Pt, pts []vector.Pt, closed bool) float64 {
	best := math.Inf(1)
	n := len(pts)
	edges := n - 1
	if closed {
		edges = n
	}
	for i := 0; i < edges; i++ {
		if d := vector.SegmentDist(p, pts[i], pts[(i+1)%n]); d < best {
			best = d
		}
	}
	return best
}

// TopmostFloorAt scans shapes from the top of the z-order (the end of the slice)
// down. The first shape hit decides: a floor is returned, anything else (such as
// furniture lying over a floor) occludes what is below and yields nil.
func (h HitTester) TopmostFloorAt(p vector.Pt, shapes []*Shape) *Shape {
	for i := len(shapes) - 1; i >= 0; i-- {
		s := shapes[i]
		if s == nil || !h.Test(p, s) {
			continue
		}
		if s.Floor {
			return s
		}
		return nil
	}
	return nil
}

func (o rectOps) contains(s *Shape, l vector.Pt) (bool, bool) {
	b := o.localBounds(s)
	return math.Abs(l.X) <= b.W/2+onEdgeEps && math.Abs(l.Y) <= b.H/2+onEdgeEps, true
}

func (triangleOps) contains(s *Shape, l vector.Pt) (bool, bool) {
	tri := trianglePoints(s.Params.Width, s.Params.Height)
	return vector.InPolygon(l, tri) || edgeDist(l, tri, true) <= onEdgeEps, true
}

func (circleOps) contains(s *Shape, l vector.Pt) (bool, bool) {
	r := absf(s.Params.Radius)
	return math.Hypot(l.X, l.Y) <= r+onEdgeEps, true
}

func (ellipseOps) contains(s *Shape, l vector.Pt) (bool, bool) {
	rx, ry := absf(s.Params.RX), absf(s.Params.RY)
	if rx == 0 || ry == 0 {
		return false, true
	}
	return (l.X*l.X)/(rx*rx)+(l.Y*l.Y)/(ry*ry) <= 1+onEdgeEps, true
}
