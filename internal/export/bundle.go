/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"floorplanner/internal/floor"
	"floorplanner/internal/version"
)

// Bundle entry names.
const (
	BundlePlan     = "plan.json"
	BundlePreview  = "preview.png"
	BundleDrawing  = "plan.svg"
	BundleManifest = "manifest.xml"
)

// WriteBundle packages a plan as a ZIP archive: the floor snapshot, a PNG
// preview, an SVG drawing and a manifest listing every floor.
func WriteBundle(outPath string, shapes []*floor.Shape, opt Options) error {
	if len(shapes) == 0 {
		return ErrEmpty
	}
	if !strings.HasSuffix(strings.ToLower(outPath), ".zip") {
		outPath += ".zip"
	}
	snap, err := floor.EncodeSnapshot(shapes)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	var pngBuf, svgBuf bytes.Buffer
	if err := WritePNG(&pngBuf, shapes, opt); err != nil {
		return fmt.Errorf("render preview: %w", err)
	}
	if err := WriteSVG(&svgBuf, shapes, opt); err != nil {
		return fmt.Errorf("render drawing: %w", err)
	}
	manifest, err := buildManifestXML(shapes)
	if err != nil {
		return fmt.Errorf("build manifest: %w", err)
	}

	zw, f, err := createZip(outPath)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	for _, e := range []struct {
		name string
		data []byte
	}{
		{BundleManifest, []byte(manifest)},
		{BundlePlan, snap},
		{BundlePreview, pngBuf.Bytes()},
		{BundleDrawing, svgBuf.Bytes()},
	} {
		if err := addZipFile(zw, e.name, e.data); err != nil {
			return fmt.Errorf("zip add %s: %w", e.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close zip: %w", err)
	}
	return nil
}

func createZip(outPath string) (*zip.Writer, *os.File, error) {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, nil, fmt.Errorf("create bundle: %w", err)
	}
	return zip.NewWriter(f), f, nil
}

func addZipFile(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// buildManifestXML lists floors with their area in square canvas units.
// Non-floor shapes are only counted.
func buildManifestXML(shapes []*floor.Shape) (string, error) {
	floors, others := 0, 0
	for _, s := range shapes {
		if s.Floor {
			floors++
		} else {
			others++
		}
	}
	buf := &bytes.Buffer{}
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(buf, format, args...)
	}
	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<Floorplan generator=\"floorplanner %s\">\n", xmlEsc(version.String()))
	wf("  <FloorCount>%d</FloorCount>\n", floors)
	wf("  <ObjectCount>%d</ObjectCount>\n", others)
	for _, s := range shapes {
		if !s.Floor {
			continue
		}
		wf("  <Floor id=\"%s\" kind=\"%s\" area=\"%.1f\"", xmlEsc(s.ID), xmlEsc(string(s.Kind)), s.Area())
		if s.Locked {
			wf(" locked=\"true\"")
		}
		if s.Name != "" {
			wf(">%s</Floor>\n", xmlEsc(s.Name))
		} else {
			wf("/>\n")
		}
	}
	wf("</Floorplan>\n")
	if werr != nil {
		return "", fmt.Errorf("build xml: %w", werr)
	}
	return buf.String(), nil
}

func xmlEsc(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&apos;")
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
