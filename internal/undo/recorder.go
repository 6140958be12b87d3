/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package undo

import (
	"log/slog"
	"time"

	applog "floorplanner/internal/log"
)

// State of a Recorder.
type State int

const (
	Idle State = iota
	Recording
)

func (s State) String() string {
	if s == Recording {
		return "recording"
	}
	return "idle"
}

// Capture serializes the current floor set.
type Capture func() ([]byte, error)

// Recorder turns a stream of edits into history entries. While an interaction is
// in progress it snapshots at most once per interval, and only when something
// changed. It is not safe for concurrent use on its own; callers share one lock
// between input handling and the scheduler (see Guarded).
type Recorder struct {
	mgr     *Manager
	capture Capture
	sched   Scheduler
	log     *slog.Logger

	state State
	dirty bool
	stop  func()
	// Now is the clock used for snapshot timestamps.
	Now func() time.Time
}

func NewRecorder(mgr *Manager, capture Capture, sched Scheduler) *Recorder {
	if sched == nil {
		sched = TickerScheduler{}
	}
	return &Recorder{
		mgr:     mgr,
		capture: capture,
		sched:   sched,
		log:     applog.WithComponent("history"),
		Now:     time.Now,
	}
}

func (r *Recorder) State() State { return r.state }
func (r *Recorder) Dirty() bool  { return r.dirty }

// MarkDirty flags a change for the next tick.
func (r *Recorder) MarkDirty() { r.dirty = true }

// Begin moves Idle to Recording, stores the starting state if it differs from
// the last entry, and starts the timer. A Begin while recording is ignored.
func (r *Recorder) Begin() {
	if r.state == Recording {
		return
	}
	r.state = Recording
	r.dirty = false
	r.Snapshot()
	r.stop = r.sched.Every(r.mgr.Config().Interval, r.Tick)
}

// Tick captures a snapshot when recording and dirty, then clears the flag.
func (r *Recorder) Tick() {
	if r.state != Recording || !r.dirty {
		return
	}
	r.dirty = false
	r.Snapshot()
}

// End flushes pending changes into a final snapshot before returning to Idle.
func (r *Recorder) End() {
	if r.state != Recording {
		return
	}
	if r.stop != nil {
		r.stop()
		r.stop = nil
	}
	if r.dirty {
		r.dirty = false
		r.Snapshot()
	}
	r.state = Idle
}

// Snapshot captures and pushes the current state right away. It reports whether
// a new entry was stored.
func (r *Recorder) Snapshot() bool {
	blob, err := r.capture()
	if err != nil {
		r.log.Warn("snapshot capture failed", slog.Any("err", err))
		return false
	}
	if !r.mgr.Push(Snapshot{Blob: blob, TS: r.Now()}) {
		r.log.Debug("snapshot deduplicated")
		return false
	}
	r.log.Debug("snapshot pushed", slog.Int("len", r.mgr.Len()), slog.Int("bytes", len(blob)))
	return true
}
