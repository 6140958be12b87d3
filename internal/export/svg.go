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
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"floorplanner/internal/floor"
	"floorplanner/internal/vector"
)

// WriteSVG writes the plan as an SVG document. The viewBox is in canvas units;
// width and height attributes follow opt.DPI.
func WriteSVG(w io.Writer, shapes []*floor.Shape, opt Options) error {
	opt = opt.withDefaults()
	sc, err := buildScene(shapes, opt)
	if err != nil {
		return err
	}
	scale := float64(opt.DPI) / 96.0
	pxW := int(math.Ceil(sc.w * scale))
	pxH := int(math.Ceil(sc.h * scale))

	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%dpx\" height=\"%dpx\" viewBox=\"0 0 %g %g\">\n", pxW, pxH, sc.w, sc.h)
	wf("  <rect x=\"0\" y=\"0\" width=\"%g\" height=\"%g\" fill=\"%s\"%s/>\n", sc.w, sc.h, opt.Background.Hex(), opacityAttr("fill-opacity", opt.Background))

	for _, it := range sc.items {
		fill := "none"
		fillOp := ""
		if it.closed && it.fill.A > 0 {
			fill = it.fill.Hex()
			fillOp = opacityAttr("fill-opacity", it.fill)
		}
		stroke := "none"
		strokeOp := ""
		if it.width > 0 && it.stroke.A > 0 {
			stroke = it.stroke.Hex()
			strokeOp = opacityAttr("stroke-opacity", it.stroke)
		}
		cls := "shape"
		if it.floor {
			cls = "floor"
		}
		for _, ring := range it.rings {
			tag := "polyline"
			if it.closed {
				tag = "polygon"
			}
			wf("  <%s class=\"%s\" data-id=\"%s\" points=\"%s\" fill=\"%s\"%s stroke=\"%s\"%s stroke-width=\"%g\"/>\n",
				tag, cls, escAttr(it.id), svgPoints(ring), fill, fillOp, stroke, strokeOp, it.width)
		}
		for _, h := range it.handles {
			wf("  <rect class=\"handle\" x=\"%g\" y=\"%g\" width=\"%d\" height=\"%d\" fill=\"#ffffff\" stroke=\"#0078d7\" stroke-width=\"1\"/>\n",
				h.X-handleSize/2, h.Y-handleSize/2, handleSize, handleSize)
		}
	}
	if opt.Labels {
		for _, it := range sc.items {
			if it.floor && it.name != "" {
				wf("  <text x=\"%g\" y=\"%g\" text-anchor=\"middle\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"12\" fill=\"#000\">%s</text>\n",
					it.center.X, it.center.Y+4, escText(it.name))
			}
		}
	}
	wf("</svg>\n")
	if werr != nil {
		return fmt.Errorf("build svg: %w", werr)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

// ExportSVG writes the plan to path, creating parent directories.
func ExportSVG(path string, shapes []*floor.Shape, opt Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	var buf bytes.Buffer
	if err := WriteSVG(&buf, shapes, opt); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func svgPoints(ring []vector.Pt) string {
	var sb strings.Builder
	for i, p := range ring {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.FormatFloat(vector.FloatRound(p.X, 3), 'f', -1, 64))
		sb.WriteByte(',')
		sb.WriteString(strconv.FormatFloat(vector.FloatRound(p.Y, 3), 'f', -1, 64))
	}
	return sb.String()
}

func opacityAttr(name string, c vector.Color) string {
	if c.A == 255 {
		return ""
	}
	return fmt.Sprintf(" %s=\"%s\"", name, strconv.FormatFloat(vector.FloatRound(c.Opacity(), 3), 'f', -1, 64))
}

func escAttr(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '"':
			out = append(out, "&quot;"...)
		case '&':
			out = append(out, "&amp;"...)
		case '<':
			out = append(out, "&lt;"...)
		case '\n':
			out = append(out, ' ')
		case '\r':
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}

func escText(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '&':
			out = append(out, "&amp;"...)
		case '<':
			out = append(out, "&lt;"...)
		case '>':
			out = append(out, "&gt;"...)
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}
