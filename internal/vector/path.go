/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Path commands for free-form floors. Paths are never vertex-edited; they only
// need bounds for hit-testing and a flattened outline for export.

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type PathOp uint8

const (
	MoveTo PathOp = iota
	LineTo
	QuadTo  // quadratic bezier (cx, cy, x, y)
	CubicTo // cubic bezier (cx1, cy1, cx2, cy2, x, y)
	Close
)

type PathCmd struct {
	Op   PathOp
	Data [6]float64 // enough for cubic; unused slots are zero
}

type Path struct{ Cmds []PathCmd }

func (p *Path) MoveTo(x, y float64) {
	p.Cmds = append(p.Cmds, PathCmd{Op: MoveTo, Data: [6]float64{x, y}})
}
func (p *Path) LineTo(x, y float64) {
	p.Cmds = append(p.Cmds, PathCmd{Op: LineTo, Data: [6]float64{x, y}})
}
func (p *Path) QuadTo(cx, cy, x, y float64) {
	p.Cmds = append(p.Cmds, PathCmd{Op: QuadTo, Data: [6]float64{cx, cy, x, y}})
}
func (p *Path) CubicTo(cx1, cy1, cx2, cy2, x, y float64) {
	p.Cmds = append(p.Cmds, PathCmd{Op: CubicTo, Data: [6]float64{cx1, cy1, cx2, cy2, x, y}})
}
func (p *Path) Close() { p.Cmds = append(p.Cmds, PathCmd{Op: Close}) }

// Points returns every on-curve and control point in command order.
// Control points over-approximate the curve, which is what bounds want.
func (p *Path) Points() []Pt {
	var pts []Pt
	for _, c := range p.Cmds {
		switch c.Op {
		case MoveTo, LineTo:
			pts = append(pts, Pt{c.Data[0], c.Data[1]})
		case QuadTo:
			pts = append(pts, Pt{c.Data[0], c.Data[1]}, Pt{c.Data[2], c.Data[3]})
		case CubicTo:
			pts = append(pts, Pt{c.Data[0], c.Data[1]}, Pt{c.Data[2], c.Data[3]}, Pt{c.Data[4], c.Data[5]})
		}
	}
	return pts
}

// Translate shifts every on-curve and control point by dx, dy.
func (p *Path) Translate(dx, dy float64) {
	for i := range p.Cmds {
		c := &p.Cmds[i]
		n := 0
		switch c.Op {
		case MoveTo, LineTo:
			n = 1
		case QuadTo:
			n = 2
		case CubicTo:
			n = 3
		}
		for k := 0; k < n; k++ {
			c.Data[2*k] += dx
			c.Data[2*k+1] += dy
		}
	}
}

// Bounds returns an axis-aligned bounding box of the path using control points.
func (p *Path) Bounds() Rect { return Bounds(p.Points()) }

var svgCmdRe = regexp.MustCompile(`([MmLlHhVvQqCcZz])([^MmLlHhVvQqCcZz]*)`)

// ParseSVGPath reads the subset of SVG path data floors are drawn with:
// M, L, H, V, Q, C and Z in absolute and relative form. Repeated coordinate
// pairs after a command are treated as implicit repeats of that command.
func ParseSVGPath(d string) (Path, error) {
	var p Path
	d = strings.TrimSpace(d)
	if d == "" {
		return p, fmt.Errorf("empty path")
	}
	var cur, start Pt
	for _, m := range svgCmdRe.FindAllStringSubmatch(d, -1) {
		cmd := m[1]
		args, err := parseCoords(m[2])
		if err != nil {
			return Path{}, fmt.Errorf("path command %s: %w", cmd, err)
		}
		rel := strings.ToLower(cmd) == cmd
		off := func() Pt {
			if rel {
				return cur
			}
			return Pt{}
		}
		switch strings.ToUpper(cmd) {
		case "M", "L":
			for i := 0; i+1 < len(args); i += 2 {
				o := off()
				cur = Pt{o.X + args[i], o.Y + args[i+1]}
				if strings.ToUpper(cmd) == "M" && i == 0 {
					p.MoveTo(cur.X, cur.Y)
					start = cur
				} else {
					p.LineTo(cur.X, cur.Y)
				}
			}
		case "H":
			for _, x := range args {
				if rel {
					cur.X += x
				} else {
					cur.X = x
				}
				p.LineTo(cur.X, cur.Y)
			}
		case "V":
			for _, y := range args {
				if rel {
					cur.Y += y
				} else {
					cur.Y = y
				}
				p.LineTo(cur.X, cur.Y)
			}
		case "Q":
			for i := 0; i+3 < len(args); i += 4 {
				o := off()
				p.QuadTo(o.X+args[i], o.Y+args[i+1], o.X+args[i+2], o.Y+args[i+3])
				cur = Pt{o.X + args[i+2], o.Y + args[i+3]}
			}
		case "C":
			for i := 0; i+5 < len(args); i += 6 {
				o := off()
				p.CubicTo(o.X+args[i], o.Y+args[i+1], o.X+args[i+2], o.Y+args[i+3], o.X+args[i+4], o.Y+args[i+5])
				cur = Pt{o.X + args[i+4], o.Y + args[i+5]}
			}
		case "Z":
			p.Close()
			cur = start
		}
	}
	if len(p.Cmds) == 0 {
		return Path{}, fmt.Errorf("no drawable commands in %q", d)
	}
	return p, nil
}

func parseCoords(s string) ([]float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", " "))
	if s == "" {
		return nil, nil
	}
	var out []float64
	for _, part := range strings.Fields(s) {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Flatten approximates curves with steps line segments each and returns one
// point list per subpath. Close does not repeat the first point, and subpaths
// of a single point are dropped.
func (p *Path) Flatten(steps int) [][]Pt {
	if steps < 1 {
		steps = 8
	}
	var (
		out [][]Pt
		cur []Pt
	)
	flush := func() {
		if len(cur) > 1 {
			out = append(out, cur)
		}
		cur = nil
	}
	last := func() Pt {
		if len(cur) == 0 {
			return Pt{}
		}
		return cur[len(cur)-1]
	}
	for _, c := range p.Cmds {
		switch c.Op {
		case MoveTo:
			flush()
			cur = []Pt{{c.Data[0], c.Data[1]}}
		case LineTo:
			cur = append(cur, Pt{c.Data[0], c.Data[1]})
		case QuadTo:
			p0, c1, p1 := last(), Pt{c.Data[0], c.Data[1]}, Pt{c.Data[2], c.Data[3]}
			for i := 1; i <= steps; i++ {
				t := float64(i) / float64(steps)
				u := 1 - t
				cur = append(cur, p0.Mul(u*u).Add(c1.Mul(2*u*t)).Add(p1.Mul(t*t)))
			}
		case CubicTo:
			p0, c1, c2, p1 := last(), Pt{c.Data[0], c.Data[1]}, Pt{c.Data[2], c.Data[3]}, Pt{c.Data[4], c.Data[5]}
			for i := 1; i <= steps; i++ {
				t := float64(i) / float64(steps)
				u := 1 - t
				cur = append(cur, p0.Mul(u*u*u).Add(c1.Mul(3*u*u*t)).Add(c2.Mul(3*u*t*t)).Add(p1.Mul(t*t*t)))
			}
		case Close:
			if len(cur) > 0 {
				start := cur[0]
				flush()
				// drawing after Z continues from the subpath start
				cur = []Pt{start}
			}
		}
	}
	flush()
	return out
}
