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

// DefaultMinSize is the smallest extent, in canvas pixels, a resize may shrink a shape to.
const DefaultMinSize = 6.0

// Adjust is one resize request. Factor is multiplicative and wins when both are
// set. Step is an additive pixel delta applied on every side, so each resized
// extent changes by 2*Step.
type Adjust struct {
	Factor float64
	Step   float64
}

// Resize scales s in place around its center. Requests that would take any
// extent below min are clamped. A zero Adjust is a no-op.
func Resize(s *Shape, a Adjust, min float64) {
	if min <= 0 {
		min = DefaultMinSize
	}
	ops := s.caps()
	switch {
	case a.Factor > 0:
		if a.Factor != 1 {
			ops.scaleBy(s, a.Factor, min)
		}
	case a.Step != 0:
		ops.grow(s, a.Step, min)
	}
}

// clampFactor limits a shrinking factor so that no non-zero extent ends below min.
// An extent already below min is not shrunk further.
func clampFactor(f, min float64, extents ...float64) float64 {
	for _, e := range extents {
		if e > 0 && e*f < min {
			f = math.Max(f, math.Min(1, min/e))
		}
	}
	return f
}

// growExtent adds 2*step to ext without going below min.
func growExtent(ext, step, min float64) float64 {
	t := ext + 2*step
	if t < min {
		return math.Min(ext, min)
	}
	return t
}

// withSign keeps the flip of the original scale.
func withSign(v, like float64) float64 {
	if like < 0 {
		return -v
	}
	return v
}

// scaleTransform multiplies the transform scale. Shared by every kind whose
// geometry lives in its construction parameters.
func scaleTransform(s *Shape, f, min float64) {
	b := s.LocalBounds()
	f = clampFactor(f, min, b.W*absf(s.Transform.ScaleX), b.H*absf(s.Transform.ScaleY))
	s.Transform.ScaleX *= f
	s.Transform.ScaleY *= f
}

// growTransform turns a pixel step into a uniform factor on the larger extent.
func growTransform(s *Shape, step, min float64) {
	b := s.LocalBounds()
	w, h := b.W*absf(s.Transform.ScaleX), b.H*absf(s.Transform.ScaleY)
	d := math.Max(w, h)
	if d == 0 {
		return
	}
	scaleTransform(s, (d+2*step)/d, min)
}

// growBox recomputes both scale factors from a base width and height.
func growBox(s *Shape, w, h, step, min float64) {
	sx, sy := s.Transform.ScaleX, s.Transform.ScaleY
	if w != 0 && sx != 0 {
		s.Transform.ScaleX = withSign(growExtent(absf(w*sx), step, min)/absf(w), sx)
	}
	if h != 0 && sy != 0 {
		s.Transform.ScaleY = withSign(growExtent(absf(h*sy), step, min)/absf(h), sy)
	}
}

func (rectOps) scaleBy(s *Shape, f, min float64) { scaleTransform(s, f, min) }
func (rectOps) grow(s *Shape, step, min float64) {
	growBox(s, s.Params.Width, s.Params.Height, step, min)
}

func (triangleOps) scaleBy(s *Shape, f, min float64) { scaleTransform(s, f, min) }
func (triangleOps) grow(s *Shape, step, min float64) {
	growBox(s, s.Params.Width, s.Params.Height, step, min)
}

func (circleOps) scaleBy(s *Shape, f, min float64) { scaleTransform(s, f, min) }

// grow changes the radius directly; the scale is left alone.
func (circleOps) grow(s *Shape, step, min float64) {
	sx := absf(s.Transform.ScaleX)
	if sx == 0 {
		return
	}
	d := growExtent(2*absf(s.Params.Radius)*sx, step, min)
	s.Params.Radius = d / 2 / sx
}

func (ellipseOps) scaleBy(s *Shape, f, min float64) {
	f = clampFactor(f, min, 2*absf(s.Params.RX*s.Transform.ScaleX), 2*absf(s.Params.RY*s.Transform.ScaleY))
	s.Params.RX *= f
	s.Params.RY *= f
}

func (ellipseOps) grow(s *Shape, step, min float64) {
	if sx := absf(s.Transform.ScaleX); sx != 0 {
		s.Params.RX = growExtent(2*absf(s.Params.RX)*sx, step, min) / 2 / sx
	}
	if sy := absf(s.Transform.ScaleY); sy != 0 {
		s.Params.RY = growExtent(2*absf(s.Params.RY)*sy, step, min) / 2 / sy
	}
}

func lineLength(s *Shape) float64 {
	a, b, _ := lineOps{}.segment(s)
	return math.Hypot((b.X-a.X)*s.Transform.ScaleX, (b.Y-a.Y)*s.Transform.ScaleY)
}

// scaleBy moves both endpoints toward or away from the midpoint.
func (lineOps) scaleBy(s *Shape, f, min float64) {
	f = clampFactor(f, min, lineLength(s))
	a, b, _ := lineOps{}.segment(s)
	mid := a.Add(b).Mul(0.5)
	a = mid.Add(a.Sub(mid).Mul(f))
	b = mid.Add(b.Sub(mid).Mul(f))
	s.Params.X1, s.Params.Y1, s.Params.X2, s.Params.Y2 = a.X, a.Y, b.X, b.Y
}

func (o lineOps) grow(s *Shape, step, min float64) {
	l := lineLength(s)
	if l == 0 {
		return
	}
	o.scaleBy(s, growExtent(l, step, min)/l, min)
}

// scaleBy moves every vertex around the center of the local bounding box, which
// keeps the canvas center fixed.
func (polyOps) scaleBy(s *Shape, f, min float64) {
	b := vector.Bounds(s.Points)
	f = clampFactor(f, min, b.W*absf(s.Transform.ScaleX), b.H*absf(s.Transform.ScaleY))
	c := b.Center()
	for i, p := range s.Points {
		s.Points[i] = c.Add(p.Sub(c).Mul(f))
	}
}

func (o polyOps) grow(s *Shape, step, min float64) {
	b := vector.Bounds(s.Points)
	d := math.Max(b.W*absf(s.Transform.ScaleX), b.H*absf(s.Transform.ScaleY))
	if d == 0 {
		return
	}
	o.scaleBy(s, (d+2*step)/d, min)
}

func (pathOps) scaleBy(s *Shape, f, min float64)    { scaleTransform(s, f, min) }
func (pathOps) grow(s *Shape, step, min float64)    { growTransform(s, step, min) }
func (unknownOps) scaleBy(s *Shape, f, min float64) { scaleTransform(s, f, min) }
func (unknownOps) grow(s *Shape, step, min float64) { growTransform(s, step, min) }
