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
	"strings"

	"floorplanner/internal/vector"
)

// Kind names a shape type as the canvas serializes it.
type Kind string

const (
	KindRect     Kind = "rect"
	KindCircle   Kind = "circle"
	KindEllipse  Kind = "ellipse"
	KindLine     Kind = "line"
	KindPolygon  Kind = "polygon"
	KindPolyline Kind = "polyline"
	KindPath     Kind = "path"
	KindTriangle Kind = "triangle"
)

// ParseKind accepts any known kind, case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Known() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedKind, s)
	}
	return k, nil
}

func (k Kind) Known() bool {
	switch k {
	case KindRect, KindCircle, KindEllipse, KindLine, KindPolygon, KindPolyline, KindPath, KindTriangle:
		return true
	}
	return false
}

// kindOps is the per-kind behaviour shared by the normalizer, the resize engine
// and the hit tester. One implementation is bound to a shape when it is built.
type kindOps interface {
	kind() Kind
	closed() bool
	// localBounds is the bounding box in unscaled local space.
	localBounds(s *Shape) vector.Rect
	// normalize returns origin-centered points with the current scale applied.
	normalize(s *Shape, segments int) ([]vector.Pt, Kind, error)
	scaleBy(s *Shape, f, min float64)
	grow(s *Shape, step, min float64)
	// contains reports native filled-area containment of a local point.
	// ok is false when the kind has no native test.
	contains(s *Shape, local vector.Pt) (hit, ok bool)
	// segment returns the local endpoints of a primitive line.
	segment(s *Shape) (a, b vector.Pt, ok bool)
}

func opsFor(k Kind) kindOps {
	switch k {
	case KindRect:
		return rectOps{}
	case KindTriangle:
		return triangleOps{}
	case KindCircle:
		return circleOps{}
	case KindEllipse:
		return ellipseOps{}
	case KindLine:
		return lineOps{}
	case KindPolygon:
		return polyOps{k: KindPolygon, isClosed: true}
	case KindPolyline:
		return polyOps{k: KindPolyline}
	case KindPath:
		return pathOps{}
	default:
		return unknownOps{k: k}
	}
}

// noNative is embedded by kinds without native containment or a line segment.
type noNative struct{}

func (noNative) contains(*Shape, vector.Pt) (bool, bool)     { return false, false }
func (noNative) segment(*Shape) (vector.Pt, vector.Pt, bool) { return vector.Pt{}, vector.Pt{}, false }
func centered(w, h float64) vector.Rect                      { return vector.R(-w/2, -h/2, w, h) }
func absf(v float64) float64                                 { return math.Abs(v) }

type rectOps struct{}

func (rectOps) kind() Kind   { return KindRect }
func (rectOps) closed() bool { return true }
func (rectOps) localBounds(s *Shape) vector.Rect {
	return centered(absf(s.Params.Width), absf(s.Params.Height))
}
func (rectOps) segment(*Shape) (vector.Pt, vector.Pt, bool) { return vector.Pt{}, vector.Pt{}, false }

type triangleOps struct{}

func (triangleOps) kind() Kind   { return KindTriangle }
func (triangleOps) closed() bool { return true }
func (triangleOps) localBounds(s *Shape) vector.Rect {
	return centered(absf(s.Params.Width), absf(s.Params.Height))
}
func (triangleOps) segment(*Shape) (vector.Pt, vector.Pt, bool) {
	return vector.Pt{}, vector.Pt{}, false
}

// trianglePoints is apex-up: top center, bottom right, bottom left.
func trianglePoints(w, h float64) []vector.Pt {
	return []vector.Pt{{X: 0, Y: -h / 2}, {X: w / 2, Y: h / 2}, {X: -w / 2, Y: h / 2}}
}

type circleOps struct{}

func (circleOps) kind() Kind   { return KindCircle }
func (circleOps) closed() bool { return true }
func (circleOps) localBounds(s *Shape) vector.Rect {
	d := 2 * absf(s.Params.Radius)
	return centered(d, d)
}
func (circleOps) segment(*Shape) (vector.Pt, vector.Pt, bool) { return vector.Pt{}, vector.Pt{}, false }

type ellipseOps struct{}

func (ellipseOps) kind() Kind   { return KindEllipse }
func (ellipseOps) closed() bool { return true }
func (ellipseOps) localBounds(s *Shape) vector.Rect {
	return centered(2*absf(s.Params.RX), 2*absf(s.Params.RY))
}
func (ellipseOps) segment(*Shape) (vector.Pt, vector.Pt, bool) {
	return vector.Pt{}, vector.Pt{}, false
}

type lineOps struct{}

func (lineOps) kind() Kind   { return KindLine }
func (lineOps) closed() bool { return false }
func (lineOps) localBounds(s *Shape) vector.Rect {
	a, b, _ := lineOps{}.segment(s)
	return vector.Bounds([]vector.Pt{a, b})
}
func (lineOps) contains(*Shape, vector.Pt) (bool, bool) { return false, false }
func (lineOps) segment(s *Shape) (vector.Pt, vector.Pt, bool) {
	return vector.Pt{X: s.Params.X1, Y: s.Params.Y1}, vector.Pt{X: s.Params.X2, Y: s.Params.Y2}, true
}

type polyOps struct {
	noNative
	k        Kind
	isClosed bool
}

func (o polyOps) kind() Kind                     { return o.k }
func (o polyOps) closed() bool                   { return o.isClosed }
func (polyOps) localBounds(s *Shape) vector.Rect { return vector.Bounds(s.Points) }

type pathOps struct{ noNative }

func (pathOps) kind() Kind   { return KindPath }
func (pathOps) closed() bool { return true }
func (pathOps) localBounds(s *Shape) vector.Rect {
	p := s.parsedPath()
	if p == nil {
		return vector.Rect{}
	}
	return p.Bounds()
}

// unknownOps keeps shapes of kinds this build does not know about usable as
// opaque objects: bounding-box hits and uniform scaling only.
type unknownOps struct {
	noNative
	k Kind
}

func (o unknownOps) kind() Kind                   { return o.k }
func (unknownOps) closed() bool                   { return false }
func (unknownOps) localBounds(*Shape) vector.Rect { return vector.Rect{} }
