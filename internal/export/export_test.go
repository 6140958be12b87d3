/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"floorplanner/internal/floor"
	"floorplanner/internal/vector"
)

func samplePlan(t *testing.T) []*floor.Shape {
	t.Helper()
	room := floor.New("room", floor.KindRect, floor.Params{Width: 100, Height: 60}, floor.At(100, 80))
	if err := floor.Normalize(room, 0); err != nil {
		t.Fatal(err)
	}
	room.Name = "Kitchen"
	room.Style = floor.Style{Fill: "#ff0000", Stroke: "black", StrokeWidth: 2}
	wall := floor.NewPolyline("wall", []vector.Pt{{X: 50, Y: 200}, {X: 150, Y: 200}})
	wall.Floor = true
	sofa := floor.New("sofa", floor.KindEllipse, floor.Params{RX: 10, RY: 5}, floor.At(100, 80))
	return []*floor.Shape{room, wall, sofa}
}

func TestBuildSceneOffsetsByMargin(t *testing.T) {
	sc, err := buildScene(samplePlan(t), Options{Margin: 10}.withDefaults())
	if err != nil {
		t.Fatal(err)
	}
	// plan spans x 50..150 and y 50..200
	if sc.w != 120 || sc.h != 170 {
		t.Fatalf("page size %vx%v", sc.w, sc.h)
	}
	if got := sc.items[0].rings[0][0]; got != (vector.Pt{X: 10, Y: 10}) {
		t.Fatalf("room corner = %v", got)
	}
	if sc.items[1].closed {
		t.Fatalf("polyline must stay open")
	}
	if len(sc.items[2].rings[0]) != floor.HiFiSegments {
		t.Fatalf("primitive furniture should be flattened")
	}
}

func TestPathExportsAtItsBounds(t *testing.T) {
	s, err := floor.NewPath("p", "M100 100 L200 100 L200 200 L100 200 Z")
	if err != nil {
		t.Fatal(err)
	}
	s.Floor = true
	it := toItem(s, Options{})
	if len(it.rings) != 1 {
		t.Fatalf("rings = %d", len(it.rings))
	}
	if got, want := vector.Bounds(it.rings[0]), s.Bounds(); got != want {
		t.Fatalf("exported ring bounds %+v, shape bounds %+v", got, want)
	}
	if want := vector.R(100, 100, 100, 100); s.Bounds() != want {
		t.Fatalf("shape bounds %+v", s.Bounds())
	}
}

func TestRenderPNGRefusesHugePages(t *testing.T) {
	a := floor.NewPolygon("a", []vector.Pt{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}})
	b := floor.NewPolygon("b", []vector.Pt{{X: 1e6, Y: 1e6}, {X: 1e6 + 10, Y: 1e6}, {X: 1e6, Y: 1e6 + 10}})
	if _, err := RenderPNG([]*floor.Shape{a, b}, Options{}); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	// the same plan fits once the cap is raised past the page size
	if _, err := RenderPNG([]*floor.Shape{a}, Options{MaxPixels: 400}); err != nil {
		t.Fatalf("small page: %v", err)
	}
	if _, err := RenderPNG([]*floor.Shape{a}, Options{MaxPixels: 50}); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge under a 50 pixel cap, got %v", err)
	}
	out := filepath.Join(t.TempDir(), "big.png")
	if err := ExportPNG(out, []*floor.Shape{a, b}, Options{}); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("ExportPNG: expected ErrTooLarge, got %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("refused export left a file behind: %v", err)
	}
}

func TestEmptyPlan(t *testing.T) {
	if _, err := RenderPNG(nil, Options{}); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestRenderPNGFillsFloor(t *testing.T) {
	img, err := RenderPNG(samplePlan(t), Options{Margin: 10})
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 120 || b.Dy() != 170 {
		t.Fatalf("image size %v", b)
	}
	// inside the room, away from the sofa
	if c := img.RGBAAt(20, 20); c != (color.RGBA{255, 0, 0, 255}) {
		t.Fatalf("expected red fill, got %v", c)
	}
	if c := img.RGBAAt(5, 5); c != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("margin should be background, got %v", c)
	}
	hi, err := RenderPNG(samplePlan(t), Options{Margin: 10, DPI: 192})
	if err != nil {
		t.Fatal(err)
	}
	if hi.Bounds().Dx() != 240 {
		t.Fatalf("DPI should scale the raster, got %v", hi.Bounds())
	}
}

func TestWriteSVG(t *testing.T) {
	plan := samplePlan(t)
	plan[0].Name = "A & B"
	var buf bytes.Buffer
	if err := WriteSVG(&buf, plan, Options{Margin: 10, Labels: true, IncludeHandles: true}); err != nil {
		t.Fatal(err)
	}
	s := buf.String()
	for _, want := range []string{
		"viewBox=\"0 0 120 170\"",
		"<polygon class=\"floor\" data-id=\"room\" points=\"10,10 110,10 110,70 10,70\" fill=\"#ff0000\"",
		"<polyline class=\"floor\" data-id=\"wall\"",
		"class=\"shape\" data-id=\"sofa\"",
		"class=\"handle\"",
		"A &amp; B</text>",
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("svg missing %q:\n%s", want, s)
		}
	}
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, samplePlan(t), Options{Labels: true}); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("not a pdf")
	}
}

func TestBatchPresets(t *testing.T) {
	dir := t.TempDir()
	paths, err := Batch(samplePlan(t), BatchOptions{Preset: PresetPrint, OutDir: filepath.Join(dir, "out"), Name: "plan"})
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 {
		t.Fatalf("print preset writes pdf and png, got %v", paths)
	}
	for _, p := range paths {
		st, err := os.Stat(p)
		if err != nil {
			t.Fatalf("missing %s: %v", p, err)
		}
		if st.Size() <= 0 {
			t.Fatalf("empty file: %s", p)
		}
	}
	if _, err := Batch(samplePlan(t), BatchOptions{Formats: []string{"png"}, OutDir: dir, MaxPixels: 10}); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge from a capped batch, got %v", err)
	}
	if _, err := Batch(samplePlan(t), BatchOptions{Formats: []string{"cbz"}, OutDir: dir}); err == nil {
		t.Fatalf("unknown format should fail")
	}
}
