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
	"io"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"floorplanner/internal/floor"
	"floorplanner/internal/vector"
	"floorplanner/internal/version"
)

// pxToPt converts canvas pixels (96 dpi) to PDF points.
const pxToPt = 72.0 / 96.0

// WritePDF writes the plan as a single-page vector PDF sized to the plan.
func WritePDF(w io.Writer, shapes []*floor.Shape, opt Options) error {
	opt = opt.withDefaults()
	sc, err := buildScene(shapes, opt)
	if err != nil {
		return err
	}
	pageW, pageH := sc.w*pxToPt, sc.h*pxToPt
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: pageW, Ht: pageH},
	})
	pdf.SetTitle("Floor plan", false)
	pdf.SetCreator("floorplanner "+version.String(), false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Helvetica", "", 9)
	pdf.AddPageFormat("", gofpdf.SizeType{Wd: pageW, Ht: pageH})

	if opt.Background.A > 0 {
		setFillColor(pdf, opt.Background)
		pdf.Rect(0, 0, pageW, pageH, "F")
	}
	for _, it := range sc.items {
		if it.closed && it.fill.A > 0 {
			setFillColor(pdf, it.fill)
			pdf.SetAlpha(it.fill.Opacity(), "Normal")
			for _, ring := range it.rings {
				if len(ring) >= 3 {
					pdf.Polygon(pdfPoints(ring), "F")
				}
			}
		}
		if it.width > 0 && it.stroke.A > 0 {
			setDrawColor(pdf, it.stroke)
			pdf.SetAlpha(it.stroke.Opacity(), "Normal")
			pdf.SetLineWidth(it.width * pxToPt)
			for _, ring := range it.rings {
				tracePath(pdf, ring, it.closed)
			}
		}
		pdf.SetAlpha(1, "Normal")
		if len(it.handles) > 0 {
			setFillColor(pdf, vector.White)
			setDrawColor(pdf, vector.Color{R: 0, G: 120, B: 215, A: 255})
			pdf.SetLineWidth(0.75)
			s := handleSize * pxToPt
			for _, h := range it.handles {
				pdf.Rect(h.X*pxToPt-s/2, h.Y*pxToPt-s/2, s, s, "FD")
			}
		}
	}
	if opt.Labels {
		pdf.SetTextColor(0, 0, 0)
		for _, it := range sc.items {
			if it.floor && it.name != "" {
				c := it.center.Mul(pxToPt)
				pdf.Text(c.X-pdf.GetStringWidth(it.name)/2, c.Y+3, it.name)
			}
		}
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// ExportPDF writes the plan to path, creating parent directories.
func ExportPDF(path string, shapes []*floor.Shape, opt Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create pdf: %w", err)
	}
	if err := WritePDF(f, shapes, opt); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close pdf: %w", err)
	}
	return nil
}

func pdfPoints(ring []vector.Pt) []gofpdf.PointType {
	pts := make([]gofpdf.PointType, len(ring))
	for i, p := range ring {
		pts[i] = gofpdf.PointType{X: p.X * pxToPt, Y: p.Y * pxToPt}
	}
	return pts
}

func tracePath(pdf *gofpdf.Fpdf, ring []vector.Pt, closed bool) {
	if len(ring) < 2 {
		return
	}
	pdf.MoveTo(ring[0].X*pxToPt, ring[0].Y*pxToPt)
	for _, p := range ring[1:] {
		pdf.LineTo(p.X*pxToPt, p.Y*pxToPt)
	}
	if closed {
		pdf.ClosePath()
	}
	pdf.DrawPath("D")
}

func setDrawColor(pdf *gofpdf.Fpdf, c vector.Color) { pdf.SetDrawColor(int(c.R), int(c.G), int(c.B)) }
func setFillColor(pdf *gofpdf.Fpdf, c vector.Color) { pdf.SetFillColor(int(c.R), int(c.G), int(c.B)) }
