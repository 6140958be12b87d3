/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	rast "golang.org/x/image/vector"

	"floorplanner/internal/floor"
	"floorplanner/internal/vector"
)

const handleSize = 6

var handleColor = color.RGBA{R: 0, G: 120, B: 215, A: 255}

// RenderPNG rasterizes shapes into an RGBA image, bottom first.
func RenderPNG(shapes []*floor.Shape, opt Options) (*image.RGBA, error) {
	opt = opt.withDefaults()
	sc, err := buildScene(shapes, opt)
	if err != nil {
		return nil, err
	}
	scale := float64(opt.DPI) / 96.0
	fw, fh := math.Ceil(sc.w*scale), math.Ceil(sc.h*scale)
	if fw*fh > float64(opt.MaxPixels) {
		return nil, fmt.Errorf("%w: %.0fx%.0f px exceeds %d", ErrTooLarge, fw, fh, opt.MaxPixels)
	}
	pixW, pixH := int(fw), int(fh)
	img := image.NewRGBA(image.Rect(0, 0, pixW, pixH))
	draw.Draw(img, img.Bounds(), image.NewUniform(toRGBA(opt.Background)), image.Point{}, draw.Src)

	r := rast.NewRasterizer(pixW, pixH)
	for _, it := range sc.items {
		if it.closed && it.fill.A > 0 {
			r.Reset(pixW, pixH)
			for _, ring := range it.rings {
				traceRing(r, ring, scale)
			}
			r.Draw(img, img.Bounds(), image.NewUniform(toRGBA(it.fill)), image.Point{})
		}
		if it.width > 0 && it.stroke.A > 0 {
			r.Reset(pixW, pixH)
			hw := math.Max(0.5, it.width*scale/2)
			for _, ring := range it.rings {
				strokeRing(r, ring, it.closed, scale, hw)
			}
			r.Draw(img, img.Bounds(), image.NewUniform(toRGBA(it.stroke)), image.Point{})
		}
		for _, h := range it.handles {
			x, y := int(math.Round(h.X*scale)), int(math.Round(h.Y*scale))
			fillRect(img, x-handleSize/2, y-handleSize/2, x+handleSize/2, y+handleSize/2, color.RGBA{255, 255, 255, 255})
			strokeRect(img, x-handleSize/2, y-handleSize/2, x+handleSize/2, y+handleSize/2, handleColor)
		}
	}
	if opt.Labels {
		for _, it := range sc.items {
			if it.floor && it.name != "" {
				drawLabel(img, it.name, it.center.Mul(scale))
			}
		}
	}
	return img, nil
}

// WritePNG encodes the rendered plan to w.
func WritePNG(w io.Writer, shapes []*floor.Shape, opt Options) error {
	img, err := RenderPNG(shapes, opt)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// ExportPNG writes the plan to path, creating parent directories. Nothing is
// written when rendering fails.
func ExportPNG(path string, shapes []*floor.Shape, opt Options) error {
	img, err := RenderPNG(shapes, opt)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	return nil
}

func traceRing(r *rast.Rasterizer, ring []vector.Pt, scale float64) {
	if len(ring) < 3 {
		return
	}
	r.MoveTo(float32(ring[0].X*scale), float32(ring[0].Y*scale))
	for _, p := range ring[1:] {
		r.LineTo(float32(p.X*scale), float32(p.Y*scale))
	}
	r.ClosePath()
}

// strokeRing adds one quad of half-width hw per edge.
func strokeRing(r *rast.Rasterizer, ring []vector.Pt, closed bool, scale, hw float64) {
	n := len(ring)
	edges := n - 1
	if closed && n > 2 {
		edges = n
	}
	for i := 0; i < edges; i++ {
		a, b := ring[i].Mul(scale), ring[(i+1)%n].Mul(scale)
		d := b.Sub(a)
		l := math.Hypot(d.X, d.Y)
		if l == 0 {
			continue
		}
		nx, ny := -d.Y/l*hw, d.X/l*hw
		r.MoveTo(float32(a.X+nx), float32(a.Y+ny))
		r.LineTo(float32(b.X+nx), float32(b.Y+ny))
		r.LineTo(float32(b.X-nx), float32(b.Y-ny))
		r.LineTo(float32(a.X-nx), float32(a.Y-ny))
		r.ClosePath()
	}
}

// drawLabel centers s on c using the built-in 7x13 face.
func drawLabel(img *image.RGBA, s string, c vector.Pt) {
	d := &font.Drawer{Dst: img, Src: image.NewUniform(color.Black), Face: basicfont.Face7x13}
	w := float64(d.MeasureString(s) >> 6)
	d.Dot = fixed.P(int(math.Round(c.X-w/2)), int(math.Round(c.Y+4)))
	d.DrawString(s)
}

func toRGBA(c vector.Color) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// strokeRect draws a 1px axis-aligned rectangle border inclusive of endpoints.
func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y0, col)
		img.SetRGBA(x, y1, col)
	}
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x0, y, col)
		img.SetRGBA(x1, y, col)
	}
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			img.SetRGBA(x, y, col)
		}
	}
}
