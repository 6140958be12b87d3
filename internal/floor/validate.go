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

	"github.com/peterstace/simplefeatures/geom"
)

// outline returns the canvas-space outline of a closed point-based shape as a
// simplefeatures polygon. The ring is closed by repeating the first point.
// ok is false for shapes without an outline; err is set when the constructors
// reject the geometry (self-intersecting or collapsed rings).
func outline(s *Shape) (poly geom.Polygon, ok bool, err error) {
	if !s.PointBased() || !s.Closed() || len(s.Points) < 3 {
		return geom.Polygon{}, false, nil
	}
	world := s.WorldPoints()
	coords := make([]float64, 0, 2*(len(world)+1))
	for _, p := range world {
		coords = append(coords, p.X, p.Y)
	}
	coords = append(coords, world[0].X, world[0].Y)
	ring, err := geom.NewLineString(geom.NewSequence(coords, geom.DimXY))
	if err != nil {
		return geom.Polygon{}, true, err
	}
	poly, err = geom.NewPolygon([]geom.LineString{ring})
	return poly, true, err
}

// Check reports whether a closed floor outline is a simple polygon. Open and
// primitive shapes always pass. Vertex edits may produce self-intersections; the
// editor logs them but does not refuse the edit.
func Check(s *Shape) error {
	_, ok, err := outline(s)
	if !ok {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %s %q: %v", ErrDegenerate, s.Kind, s.ID, err)
	}
	return nil
}

// Area is the canvas-space area of a closed floor, or 0 for anything else.
func (s *Shape) Area() float64 {
	poly, ok, err := outline(s)
	if !ok || err != nil {
		return 0
	}
	return poly.Area()
}
