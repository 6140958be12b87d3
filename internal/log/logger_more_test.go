/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestFromEnv(t *testing.T) {
	t.Setenv("FPL_LOG_LEVEL", "warn")
	t.Setenv("FPL_LOG_FORMAT", "json")
	t.Setenv("FPL_LOG_SOURCE", "TRUE")
	t.Setenv("FPL_LOG_FILE", "")

	opts := FromEnv()
	if opts.Level != "warn" || opts.Format != "json" || !opts.AddSource || opts.File != "" {
		t.Fatalf("FromEnv mismatch: %+v", opts)
	}
	if v := getenv("FPL_LOG_UNSET_FOR_TEST", "fallback"); v != "fallback" {
		t.Fatalf("getenv fallback failed: %q", v)
	}
}

func TestConsoleHandlerLine(t *testing.T) {
	var buf bytes.Buffer
	h := newConsoleHandler(&buf, slog.LevelWarn, false)
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatalf("info should be filtered at warn level")
	}

	hh := h.WithAttrs([]slog.Attr{slog.String("component", "editor"), slog.String("app", "floorplanner"), slog.String("k", "v")}).
		WithGroup("drag")
	r := slog.NewRecord(time.Date(2026, 1, 2, 3, 4, 5, 6e6, time.UTC), slog.LevelError, "vertex rejected", 0)
	r.AddAttrs(slog.Int("index", 2), slog.Float64("x", 12.5), slog.String("reason", "self intersecting"))
	if err := hh.Handle(context.Background(), r); err != nil {
		t.Fatalf("handle: %v", err)
	}

	got := strings.TrimSpace(buf.String())
	want := `03:04:05.006 ERR [editor] vertex rejected k=v drag.index=2 drag.x=12.5 drag.reason="self intersecting"`
	if got != want {
		t.Fatalf("line mismatch\n got: %s\nwant: %s", got, want)
	}
}

func TestLevelTag(t *testing.T) {
	for l, want := range map[slog.Level]string{
		slog.LevelDebug - 4: "DBG", slog.LevelInfo: "INF", slog.LevelWarn + 1: "WRN", slog.LevelError + 4: "ERR",
	} {
		if got := levelTag(l); got != want {
			t.Fatalf("levelTag(%v) = %s, want %s", l, got, want)
		}
	}
}

func TestSessionAndFloorAttrs(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "debug", Console: &buf})
	defer Init(Options{Console: io.Discard})

	WithSession(WithComponent("editor"), "s1").Debug("floor added", Floor("f-1"))
	L().InfoContext(ContextWithSession(context.Background(), "s2"), "restored")

	out := buf.String()
	for _, want := range []string{"[editor] floor added", "session=s1", "floor=f-1", "restored session=s2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
	if strings.Contains(out, "app=") {
		t.Fatalf("console should not repeat static attrs: %q", out)
	}
}
