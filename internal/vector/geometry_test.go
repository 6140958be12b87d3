/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import (
	"math"
	"testing"
)

func TestRectContainsAndInset(t *testing.T) {
	r := R(10, 20, 100, 50)
	if !r.Contains(Pt{10, 20}) || !r.Contains(Pt{110, 70}) {
		t.Fatalf("expected edge points to be contained")
	}
	in := r.Inset(5, 5)
	if in.X != 15 || in.Y != 25 || in.W != 90 || in.H != 40 {
		t.Fatalf("unexpected inset: %+v", in)
	}
}

func TestAffineBasic(t *testing.T) {
	m := Translate(10, 5).Mul(Scale(2, 3))
	p := m.Apply(Pt{1, 1})
	if p.X != 12 || p.Y != 8 { // (1*2+10, 1*3+5)
		t.Fatalf("unexpected transform result: %+v", p)
	}
}

func TestAffineInvertRoundTrip(t *testing.T) {
	m := Translate(40, -7).Mul(Rotate(Deg(30))).Mul(Scale(2, 0.5))
	inv := m.Invert()
	for _, p := range []Pt{{0, 0}, {3, 4}, {-12.5, 8}} {
		q := inv.Apply(m.Apply(p))
		if !q.Near(p, 1e-9) {
			t.Fatalf("round trip %v -> %v", p, q)
		}
	}
	if (Affine2D{}).Invert() != Identity {
		t.Fatalf("singular matrix should invert to identity")
	}
}

func TestBounds(t *testing.T) {
	b := Bounds([]Pt{{3, -2}, {-1, 5}, {4, 0}})
	if b.X != -1 || b.Y != -2 || b.W != 5 || b.H != 7 {
		t.Fatalf("unexpected bounds: %+v", b)
	}
	if Bounds(nil) != (Rect{}) {
		t.Fatalf("empty input should give zero rect")
	}
	u := R(0, 0, 1, 1).Union(R(5, 5, 1, 1))
	if u.W != 6 || u.H != 6 {
		t.Fatalf("unexpected union: %+v", u)
	}
}

func TestSegmentDist(t *testing.T) {
	a, b := Pt{0, 0}, Pt{10, 0}
	if d := SegmentDist(Pt{5, 3}, a, b); d != 3 {
		t.Fatalf("perpendicular distance = %v", d)
	}
	if d := SegmentDist(Pt{13, 4}, a, b); d != 5 {
		t.Fatalf("endpoint distance = %v", d)
	}
	if d := SegmentDist(Pt{3, 4}, a, a); d != 5 {
		t.Fatalf("degenerate segment distance = %v", d)
	}
}

func TestInPolygon(t *testing.T) {
	sq := []Pt{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	if !InPolygon(Pt{5, 5}, sq) {
		t.Fatalf("center should be inside")
	}
	if InPolygon(Pt{15, 5}, sq) || InPolygon(Pt{-1, 5}, sq) {
		t.Fatalf("outside points reported inside")
	}
	if InPolygon(Pt{1, 1}, sq[:2]) {
		t.Fatalf("two points cannot enclose anything")
	}
}

func TestFloatRound(t *testing.T) {
	if v := FloatRound(math.Pi, 2); v != 3.14 {
		t.Fatalf("got %v", v)
	}
	if v := FloatRound(1.23456, -1); v != 1.23456 {
		t.Fatalf("negative places should pass through, got %v", v)
	}
}
