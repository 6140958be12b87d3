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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on unmarshal.

// EditorConfig tunes the floor editing session.
type EditorConfig struct {
	HistoryCapacity    int     `yaml:"history_capacity"`
	SnapshotIntervalMs int     `yaml:"snapshot_interval_ms"`
	HitMarginPx        float64 `yaml:"hit_margin_px"`
	MinSizePx          float64 `yaml:"min_size_px"`
	CircleSegments     int     `yaml:"circle_segments"`
	HiFiSegments       int     `yaml:"hifi_segments"`
	GrowFactor         float64 `yaml:"grow_factor"`
	StepPx             float64 `yaml:"step_px"`
	HandleRadiusPx     float64 `yaml:"handle_radius_px"`
}

// ExportConfig controls PNG/SVG/PDF output.
type ExportConfig struct {
	DPI            int  `yaml:"dpi"`
	IncludeHandles bool `yaml:"include_handles"`
	// MarginPx is the blank border around the floor set.
	MarginPx float64 `yaml:"margin_px"`
	// MaxPixels caps width*height of a PNG page. Zero keeps the exporter default.
	MaxPixels int `yaml:"max_pixels"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Editor        EditorConfig  `yaml:"editor"`
	Export        ExportConfig  `yaml:"export"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Editor: EditorConfig{
			HistoryCapacity:    300,
			SnapshotIntervalMs: 250,
			HitMarginPx:        6,
			MinSizePx:          6,
			CircleSegments:     16,
			HiFiSegments:       32,
			GrowFactor:         1.05,
			StepPx:             8,
			HandleRadiusPx:     6,
		},
		Export:  ExportConfig{DPI: 96, IncludeHandles: false, MarginPx: 20},
		Logging: LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// SnapshotInterval is the history timer period.
func (e EditorConfig) SnapshotInterval() time.Duration {
	return time.Duration(e.SnapshotIntervalMs) * time.Millisecond
}

// ShrinkFactor is the inverse of GrowFactor, so grow then shrink restores the size.
func (e EditorConfig) ShrinkFactor() float64 {
	if e.GrowFactor <= 0 {
		return 1
	}
	return 1 / e.GrowFactor
}

// Env var names used as overrides.
const (
	EnvHistoryCapacity  = "FPL_HISTORY_CAPACITY"
	EnvSnapshotInterval = "FPL_SNAPSHOT_INTERVAL_MS"
	EnvHitMargin        = "FPL_HIT_MARGIN_PX"
	EnvMinSize          = "FPL_MIN_SIZE_PX"
	EnvExportDPI        = "FPL_EXPORT_DPI"
	EnvExportHandles    = "FPL_EXPORT_HANDLES"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "FPL_LOG_LEVEL"
	EnvLogFormat = "FPL_LOG_FORMAT"
	EnvLogSource = "FPL_LOG_SOURCE"
	EnvLogFile   = "FPL_LOG_FILE"
	// EnvConfigFile points Load at a specific file instead of the per-user path.
	EnvConfigFile = "FPL_CONFIG"
)

// ConfigPath returns the per-user config file path, or FPL_CONFIG when set.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigFile)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "Floorplanner")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "Floorplanner")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "floorplanner")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges environment overrides.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Defaults()
		applyEnvOverrides(&cfg)
		return cfg, err
	}
	return LoadFile(path)
}

// LoadFile is Load for an explicit path. A missing file yields defaults; an
// unreadable or malformed one is an error.
func LoadFile(path string) (AppConfig, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	case !errors.Is(err, os.ErrNotExist):
		return cfg, err
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	// editor: zero means "not set in file"
	e, s := &dst.Editor, src.Editor
	if s.HistoryCapacity > 0 {
		e.HistoryCapacity = s.HistoryCapacity
	}
	if s.SnapshotIntervalMs > 0 {
		e.SnapshotIntervalMs = s.SnapshotIntervalMs
	}
	if s.HitMarginPx > 0 {
		e.HitMarginPx = s.HitMarginPx
	}
	if s.MinSizePx > 0 {
		e.MinSizePx = s.MinSizePx
	}
	if s.CircleSegments >= 3 {
		e.CircleSegments = s.CircleSegments
	}
	if s.HiFiSegments >= 3 {
		e.HiFiSegments = s.HiFiSegments
	}
	if s.GrowFactor > 1 {
		e.GrowFactor = s.GrowFactor
	}
	if s.StepPx > 0 {
		e.StepPx = s.StepPx
	}
	if s.HandleRadiusPx > 0 {
		e.HandleRadiusPx = s.HandleRadiusPx
	}
	// export
	if src.Export.DPI > 0 {
		dst.Export.DPI = src.Export.DPI
	}
	if src.Export.MarginPx > 0 {
		dst.Export.MarginPx = src.Export.MarginPx
	}
	if src.Export.MaxPixels > 0 {
		dst.Export.MaxPixels = src.Export.MaxPixels
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.Export.IncludeHandles = src.Export.IncludeHandles
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func truthy(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvHistoryCapacity)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Editor.HistoryCapacity = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvSnapshotInterval)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Editor.SnapshotIntervalMs = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvHitMargin)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.Editor.HitMarginPx = f
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvMinSize)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.Editor.MinSizePx = f
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvExportDPI)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Export.DPI = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvExportHandles)); v != "" {
		cfg.Export.IncludeHandles = truthy(v)
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	env := map[string]string{
		"editor.history_capacity":     EnvHistoryCapacity,
		"editor.snapshot_interval_ms": EnvSnapshotInterval,
		"editor.hit_margin_px":        EnvHitMargin,
		"editor.min_size_px":          EnvMinSize,
		"export.dpi":                  EnvExportDPI,
		"export.include_handles":      EnvExportHandles,
		"logging.level":               EnvLogLevel,
		"logging.format":              EnvLogFormat,
		"logging.source":              EnvLogSource,
		"logging.file":                EnvLogFile,
	}[key]
	if env != "" && os.Getenv(env) != "" {
		return env, true
	}
	return "", false
}
