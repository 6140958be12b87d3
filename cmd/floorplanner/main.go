/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"floorplanner/internal/config"
	"floorplanner/internal/crash"
	"floorplanner/internal/export"
	"floorplanner/internal/floor"
	applog "floorplanner/internal/log"
	"floorplanner/internal/script"
	"floorplanner/internal/telemetry"
	"floorplanner/internal/version"
)

func usage(w io.Writer) {
	_, _ = fmt.Fprintf(w, "Floorplanner %s\n\n", version.String())
	_, _ = fmt.Fprintln(w, "Usage:")
	_, _ = fmt.Fprintln(w, "  floorplanner version|-v|--version                 Show version")
	_, _ = fmt.Fprintln(w, "  floorplanner run <script.yaml> [flags]             Replay an editing script")
	_, _ = fmt.Fprintln(w, "      --out <file.json>  write the final floor snapshot")
	_, _ = fmt.Fprintln(w, "      --png/--svg/--pdf <file>  export the final plan")
	_, _ = fmt.Fprintln(w, "      --labels --handles  draw floor names and vertex handles")
	_, _ = fmt.Fprintln(w, "  floorplanner validate <snapshot.json>             Check a floor snapshot")
	_, _ = fmt.Fprintln(w, "  floorplanner export <snapshot.json> [--preset web|print] [--dir <dir>] [--formats png,svg,pdf,zip]")
}

func main() {
	cfg, cfgErr := config.Load()
	applog.Init(applog.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format, AddSource: cfg.Logging.Source, File: cfg.Logging.File})
	l := applog.WithComponent("cli")
	if cfgErr != nil {
		l.Warn("config not loaded, using defaults", slog.Any("err", cfgErr))
	}

	session := uuid.NewString()[:8]
	tc := telemetry.New(telemetry.FromEnv(), session)
	telemetry.SetDefault(tc)
	cc := &crash.Context{Session: session}
	defer crash.Recover(cc)

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)), slog.String("session", session))
	if len(args) < 2 {
		usage(os.Stdout)
		return
	}
	var err error
	switch args[1] {
	case "version", "--version", "-v":
		fmt.Println(version.String())
		return
	case "run":
		err = runCmd(cfg, session, cc, args[2:])
	case "validate":
		err = validateCmd(args[2:])
	case "export":
		err = exportCmd(cfg, args[2:])
	case "help", "-h", "--help":
		usage(os.Stdout)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", args[1])
		usage(os.Stderr)
		os.Exit(2)
	}
	flushTelemetry(tc)
	if errors.Is(err, errUsage) {
		usage(os.Stderr)
		os.Exit(2)
	}
	if err != nil {
		l.Error(args[1]+" failed", slog.Any("err", err))
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// flushTelemetry gives queued events a short window before the process exits.
func flushTelemetry(tc *telemetry.Client) {
	if !tc.Enabled() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	tc.Flush(ctx)
	tc.Close()
}

var errUsage = errors.New("usage")

// splitArgs separates the leading positional argument from flags so both
// "run s.yaml --out x" and "run --out x s.yaml" work.
func splitArgs(fs *flag.FlagSet, args []string) (string, error) {
	var pos string
	if len(args) > 0 && len(args[0]) > 0 && args[0][0] != '-' {
		pos, args = args[0], args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return "", errUsage
	}
	if pos == "" && fs.NArg() > 0 {
		pos = fs.Arg(0)
	}
	if pos == "" {
		return "", errUsage
	}
	return pos, nil
}

type runFlags struct {
	out, png, svg, pdf string
	labels, handles    bool
}

func runCmd(cfg config.AppConfig, session string, cc *crash.Context, args []string) error {
	var rf runFlags
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&rf.out, "out", "", "snapshot output")
	fs.StringVar(&rf.png, "png", "", "png output")
	fs.StringVar(&rf.svg, "svg", "", "svg output")
	fs.StringVar(&rf.pdf, "pdf", "", "pdf output")
	fs.BoolVar(&rf.labels, "labels", false, "draw floor names")
	fs.BoolVar(&rf.handles, "handles", cfg.Export.IncludeHandles, "draw vertex handles")
	path, err := splitArgs(fs, args)
	if err != nil {
		return err
	}
	return runScript(cfg, session, cc, path, rf)
}

func runScript(cfg config.AppConfig, session string, cc *crash.Context, path string, rf runFlags) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	s, errs := script.Parse(data)
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "%s:%s\n", path, e.Error())
		}
		return fmt.Errorf("%s: %d script errors", path, len(errs))
	}
	env := script.NewEnv(cfg.Editor, session)
	defer env.Close()
	if cc != nil {
		cc.Snapshot = func() []byte {
			b, _ := env.Editor.Snapshot()
			return b
		}
	}
	if err := env.Run(s); err != nil {
		return err
	}

	if rf.out != "" {
		snap, err := env.Editor.Snapshot()
		if err != nil {
			return err
		}
		if err := writeFile(rf.out, snap); err != nil {
			return err
		}
	}
	opt := export.Options{DPI: cfg.Export.DPI, Margin: cfg.Export.MarginPx, IncludeHandles: rf.handles, Labels: rf.labels, MaxPixels: cfg.Export.MaxPixels}
	objects := env.Surface.Objects()
	for _, x := range []struct {
		path string
		fn   func(string, []*floor.Shape, export.Options) error
	}{{rf.png, export.ExportPNG}, {rf.svg, export.ExportSVG}, {rf.pdf, export.ExportPDF}} {
		if x.path == "" {
			continue
		}
		if err := x.fn(x.path, objects, opt); err != nil {
			return err
		}
	}
	h := env.Editor.History()
	telemetry.Default().Send("script_run", map[string]int{
		"steps": len(s.Steps), "floors": len(env.Editor.Floors()), "history": h.Entries,
	})
	fmt.Printf("%s: %d steps, %d floors, history %d/%d\n", path, len(s.Steps), len(env.Editor.Floors()), h.Cursor+1, h.Entries)
	return nil
}

func validateCmd(args []string) error {
	if len(args) < 1 {
		return errUsage
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	shapes, skipped, err := floor.DecodeSnapshot(data)
	if err != nil {
		return err
	}
	for _, sk := range skipped {
		fmt.Printf("skipped: %v\n", sk)
	}
	invalid := 0
	for _, s := range shapes {
		if err := floor.Check(s); err != nil {
			invalid++
			fmt.Printf("invalid: %v\n", err)
		}
	}
	fmt.Printf("%d floors, %d skipped, %d invalid outlines\n", len(shapes), len(skipped), invalid)
	if len(skipped) > 0 || invalid > 0 {
		return fmt.Errorf("snapshot has problems")
	}
	return nil
}

func exportCmd(cfg config.AppConfig, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	preset := fs.String("preset", string(export.PresetWeb), "web or print")
	dir := fs.String("dir", "exports", "output directory")
	formats := fs.String("formats", "", "comma separated: png,svg,pdf,zip")
	path, err := splitArgs(fs, args)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	shapes, skipped, err := floor.DecodeSnapshot(data)
	if err != nil {
		return err
	}
	for _, sk := range skipped {
		applog.WithComponent("cli").Warn("snapshot record skipped", slog.Any("err", sk))
	}
	name := filepath.Base(path)
	name = name[:len(name)-len(filepath.Ext(name))]
	written, err := export.Batch(shapes, export.BatchOptions{
		Preset: export.PresetName(*preset), OutDir: *dir, Name: name, DPIOverride: exportDPI(cfg, *preset),
		Formats: splitList(*formats), MaxPixels: cfg.Export.MaxPixels,
	})
	for _, w := range written {
		fmt.Println("wrote", w)
	}
	telemetry.Default().Send("export_"+*preset, map[string]int{"floors": len(shapes), "files": len(written)})
	return err
}

func splitList(v string) []string {
	var out []string
	for _, f := range strings.Split(v, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// exportDPI lets a configured DPI override the web preset; print keeps its own.
func exportDPI(cfg config.AppConfig, preset string) int {
	if export.PresetName(preset) == export.PresetPrint {
		return 0
	}
	return cfg.Export.DPI
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
