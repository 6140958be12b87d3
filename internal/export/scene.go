/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders a floor plan to PNG, SVG and PDF.
package export

import (
	"errors"
	"math"

	"floorplanner/internal/floor"
	"floorplanner/internal/vector"
)

var (
	// ErrEmpty is returned when there is nothing to draw.
	ErrEmpty = errors.New("export: no shapes")
	// ErrTooLarge is returned when a raster page would exceed Options.MaxPixels.
	ErrTooLarge = errors.New("export: page too large")
)

// DefaultMaxPixels caps a PNG page at 64 Mi pixels, 256 MiB of RGBA.
const DefaultMaxPixels = 64 << 20

// Options controls all exporters. Canvas units are CSS pixels at 96 dpi.
type Options struct {
	// DPI sets the raster density for PNG and the pixel size attributes for SVG.
	DPI            int
	Margin         float64
	IncludeHandles bool
	Labels         bool
	Background     vector.Color
	// MaxPixels bounds width*height of a PNG page. Zero means DefaultMaxPixels.
	MaxPixels int
}

func (o Options) withDefaults() Options {
	if o.DPI <= 0 {
		o.DPI = 96
	}
	if o.Margin < 0 {
		o.Margin = 0
	}
	if o.MaxPixels <= 0 {
		o.MaxPixels = DefaultMaxPixels
	}
	if o.Background == (vector.Color{}) {
		o.Background = vector.White
	}
	return o
}

// item is one shape flattened to canvas-space outlines.
type item struct {
	id, name string
	rings    [][]vector.Pt
	closed   bool
	floor    bool
	fill     vector.Color
	stroke   vector.Color
	width    float64
	handles  []vector.Pt
	center   vector.Pt
}

// scene holds items translated so the page starts at (0,0).
type scene struct {
	items []item
	w, h  float64
}

func buildScene(shapes []*floor.Shape, opt Options) (scene, error) {
	var (
		sc     scene
		bounds vector.Rect
		first  = true
	)
	for _, s := range shapes {
		if s == nil {
			continue
		}
		it := toItem(s, opt)
		if len(it.rings) == 0 {
			continue
		}
		for _, r := range it.rings {
			b := vector.Bounds(r)
			if first {
				bounds, first = b, false
			} else {
				bounds = bounds.Union(b)
			}
		}
		sc.items = append(sc.items, it)
	}
	if len(sc.items) == 0 {
		return scene{}, ErrEmpty
	}
	page := bounds.Inset(-opt.Margin, -opt.Margin)
	off := vector.Pt{X: -page.X, Y: -page.Y}
	for i := range sc.items {
		it := &sc.items[i]
		for _, r := range it.rings {
			for j := range r {
				r[j] = r[j].Add(off)
			}
		}
		for j := range it.handles {
			it.handles[j] = it.handles[j].Add(off)
		}
		it.center = it.center.Add(off)
	}
	sc.w = math.Max(1, page.W)
	sc.h = math.Max(1, page.H)
	return sc, nil
}

func toItem(s *floor.Shape, opt Options) item {
	it := item{
		id:     s.ID,
		name:   s.Name,
		closed: true,
		floor:  s.Floor,
		fill:   vector.MustColor(s.Style.Fill, vector.Transparent),
		stroke: vector.MustColor(s.Style.Stroke, vector.Black),
		width:  s.Style.StrokeWidth,
		center: s.Center(),
	}
	switch {
	case s.PointBased():
		it.rings = [][]vector.Pt{s.WorldPoints()}
		it.closed = s.Closed()
		if opt.IncludeHandles && s.VertexEditable() {
			it.handles = s.WorldPoints()
		}
	case s.Kind == floor.KindPath:
		p := s.LocalPath()
		if p == nil {
			it.rings = [][]vector.Pt{corners(s.Bounds())}
			break
		}
		m := s.Matrix()
		for _, sub := range p.Flatten(8) {
			it.rings = append(it.rings, m.ApplyAll(sub))
		}
	default:
		if n, err := floor.Normalized(s, floor.HiFiSegments); err == nil {
			it.rings = [][]vector.Pt{n.WorldPoints()}
			it.closed = n.Closed()
		} else if b := s.Bounds(); b.W > 0 || b.H > 0 {
			it.rings = [][]vector.Pt{corners(b)}
		}
	}
	return it
}

func corners(r vector.Rect) []vector.Pt {
	return []vector.Pt{r.Min(), {X: r.X + r.W, Y: r.Y}, r.Max(), {X: r.X, Y: r.Y + r.H}}
}
