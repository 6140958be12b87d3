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
	"path/filepath"
	"strings"

	"floorplanner/internal/floor"
)

// PresetName represents a named export preset.
type PresetName string

const (
	PresetWeb   PresetName = "web"
	PresetPrint PresetName = "print"
)

// BatchOptions controls export of one plan to several formats.
//
// Files are written as <OutDir>/<Name>.<format>. Name defaults to "floorplan".
type BatchOptions struct {
	Preset         PresetName
	Formats        []string // allowed: pdf, png, svg, zip; empty means preset defaults
	OutDir         string
	Name           string
	DPIOverride    int   // when > 0 overrides the preset DPI
	IncludeHandles *bool // when set, overrides the preset default
	Labels         *bool
	Margin         float64
	MaxPixels      int
}

// Batch exports shapes according to the preset and returns the written paths.
func Batch(shapes []*floor.Shape, opt BatchOptions) ([]string, error) {
	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	}
	name := opt.Name
	if name == "" {
		name = "floorplan"
	}
	eo := presetOptions(opt.Preset)
	if opt.DPIOverride > 0 {
		eo.DPI = opt.DPIOverride
	}
	if opt.IncludeHandles != nil {
		eo.IncludeHandles = *opt.IncludeHandles
	}
	if opt.Labels != nil {
		eo.Labels = *opt.Labels
	}
	if opt.Margin > 0 {
		eo.Margin = opt.Margin
	}
	eo.MaxPixels = opt.MaxPixels

	var written []string
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		out := filepath.Join(opt.OutDir, name+"."+f)
		var err error
		switch f {
		case "pdf":
			err = ExportPDF(out, shapes, eo)
		case "png":
			err = ExportPNG(out, shapes, eo)
		case "svg":
			err = ExportSVG(out, shapes, eo)
		case "zip":
			err = WriteBundle(out, shapes, eo)
		default:
			return written, fmt.Errorf("unknown format: %s", f)
		}
		if err != nil {
			return written, fmt.Errorf("%s: %w", f, err)
		}
		written = append(written, out)
	}
	return written, nil
}

func presetDefaultFormats(p PresetName) []string {
	switch p {
	case PresetWeb:
		return []string{"png", "svg"}
	case PresetPrint:
		return []string{"pdf", "png"}
	default:
		return []string{"svg"}
	}
}

func presetOptions(p PresetName) Options {
	switch p {
	case PresetPrint:
		return Options{DPI: 300, Margin: 36, Labels: true}
	default:
		return Options{DPI: 96, Margin: 20}
	}
}
