/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func useConfigFile(t *testing.T, body string) {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if body != "" {
		if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}
	}
	t.Setenv(EnvConfigFile, p)
}

func TestDefaultsWhenFileMissing(t *testing.T) {
	useConfigFile(t, "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	e := cfg.Editor
	if e.HistoryCapacity != 300 || e.SnapshotInterval() != 250*time.Millisecond || e.HitMarginPx != 6 || e.MinSizePx != 6 {
		t.Fatalf("unexpected defaults: %#v", e)
	}
	if e.GrowFactor != 1.05 || e.StepPx != 8 || e.CircleSegments != 16 || e.HiFiSegments != 32 {
		t.Fatalf("unexpected defaults: %#v", e)
	}
	if got := e.GrowFactor * e.ShrinkFactor(); got < 0.999999 || got > 1.000001 {
		t.Fatalf("shrink should invert grow, product %v", got)
	}
}

func TestFileValuesMerged(t *testing.T) {
	useConfigFile(t, "config_version: 1\neditor:\n  history_capacity: 50\n  step_px: 4\nexport:\n  dpi: 300\n  include_handles: true\n  max_pixels: 1000000\n")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Editor.HistoryCapacity != 50 || cfg.Editor.StepPx != 4 || cfg.Editor.MinSizePx != 6 {
		t.Fatalf("editor not merged: %#v", cfg.Editor)
	}
	if cfg.Export.DPI != 300 || !cfg.Export.IncludeHandles || cfg.Export.MarginPx != 20 || cfg.Export.MaxPixels != 1000000 {
		t.Fatalf("export not merged: %#v", cfg.Export)
	}
}

func TestMalformedFileIsAnError(t *testing.T) {
	useConfigFile(t, "editor: [not, a, map")
	if _, err := Load(); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestEnvOverridesEditor(t *testing.T) {
	useConfigFile(t, "editor:\n  history_capacity: 50\n")
	t.Setenv(EnvHistoryCapacity, "10")
	t.Setenv(EnvMinSize, "12.5")
	t.Setenv(EnvExportHandles, "yes")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Editor.HistoryCapacity != 10 || cfg.Editor.MinSizePx != 12.5 || !cfg.Export.IncludeHandles {
		t.Fatalf("env overrides not applied: %#v %#v", cfg.Editor, cfg.Export)
	}
	if env, ok := EnvOverrideFor("editor.history_capacity"); !ok || env != EnvHistoryCapacity {
		t.Fatalf("EnvOverrideFor = %q %v", env, ok)
	}
	if _, ok := EnvOverrideFor("editor.step_px"); ok {
		t.Fatalf("step_px has no env override")
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = "DEBUG "
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "/tmp/fpl.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "/tmp/fpl.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}

func TestEnvOverridesLogging(t *testing.T) {
	useConfigFile(t, "")
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvLogSource, "1")
	t.Setenv(EnvLogFile, "/tmp/fpl.log")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source || cfg.Logging.File != "/tmp/fpl.log" {
		t.Fatalf("env overrides not applied to logging: %#v", cfg.Logging)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	useConfigFile(t, "")
	cfg := Defaults()
	cfg.Editor.StepPx = 3
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Editor.StepPx != 3 {
		t.Fatalf("saved value lost: %#v", got.Editor)
	}
}
