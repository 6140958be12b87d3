/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package undo implements linear snapshot history for the floor editor: a bounded
// list of serialized states with one cursor, and a recorder that debounces
// snapshots while an interaction is in progress.
package undo

import (
	"bytes"
	"sync"
	"time"
)

const (
	DefaultCapacity = 300
	DefaultInterval = 250 * time.Millisecond
	DefaultMaxBytes = 16 * 1024 * 1024 // 16 MiB
)

// Snapshot is one serialized state of the whole floor set.
// Blob content is opaque to the manager; size is estimated as len(Blob).
// TS is when the snapshot was captured.
type Snapshot struct {
	Blob []byte
	TS   time.Time
}

// Config controls depth and memory caps and the recorder interval.
type Config struct {
	// Capacity is the number of snapshots retained; the oldest go first.
	Capacity int
	// MaxBytes is a soft cap; older entries are pruned when exceeded, but the
	// entry under the cursor is always kept.
	MaxBytes int
	// Interval is how often a Recorder checks the dirty flag while recording.
	Interval time.Duration
}

// Manager is a linear undo/redo history. Entries before the cursor are undoable,
// entries after it redoable. It is safe for concurrent use.
type Manager struct {
	cfg     Config
	mu      sync.Mutex
	entries []Snapshot
	cursor  int
	// accounting
	totalBytes int
}

func NewManager(cfg Config) *Manager {
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultCapacity
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	return &Manager{cfg: cfg, cursor: -1}
}

// Config returns the effective configuration after defaults.
func (m *Manager) Config() Config { return m.cfg }

// Push records s after the cursor. A blob equal to the one under the cursor is
// discarded and Push reports false. Otherwise every entry after the cursor is
// dropped, s becomes the tail, and the oldest entries are pruned to the caps.
func (m *Manager) Push(s Snapshot) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cursor >= 0 && bytes.Equal(m.entries[m.cursor].Blob, s.Blob) {
		return false
	}
	for _, e := range m.entries[m.cursor+1:] {
		m.totalBytes -= len(e.Blob)
	}
	m.entries = append(m.entries[:m.cursor+1], s)
	m.totalBytes += len(s.Blob)
	m.cursor = len(m.entries) - 1
	m.enforceCapsLocked()
	return true
}

// Undo moves the cursor back one and returns the snapshot there. At the oldest
// retained entry it reports false and leaves the cursor alone.
func (m *Manager) Undo() (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cursor <= 0 {
		return Snapshot{}, false
	}
	m.cursor--
	return m.entries[m.cursor], true
}

// Redo moves the cursor forward one. At the tail it reports false.
func (m *Manager) Redo() (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cursor >= len(m.entries)-1 {
		return Snapshot{}, false
	}
	m.cursor++
	return m.entries[m.cursor], true
}

// Current returns the snapshot under the cursor.
func (m *Manager) Current() (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cursor < 0 {
		return Snapshot{}, false
	}
	return m.entries[m.cursor], true
}

func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor > 0
}

func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor < len(m.entries)-1
}

// Len is the number of retained snapshots.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Cursor is the index of the current snapshot, or -1 when empty.
func (m *Manager) Cursor() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor
}

// Clear drops all history to free memory.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	m.cursor = -1
	m.totalBytes = 0
}

// Stats returns current sizes for diagnostics.
func (m *Manager) Stats() (totalBytes int, snapshots int, cursor int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totalBytes, len(m.entries), m.cursor
}

func (m *Manager) enforceCapsLocked() {
	drop := len(m.entries) - m.cfg.Capacity
	// Global memory cap: prune oldest, never the current entry
	bytesLeft := m.totalBytes
	for i := 0; i < len(m.entries); i++ {
		if i < drop {
			bytesLeft -= len(m.entries[i].Blob)
			continue
		}
		if bytesLeft <= m.cfg.MaxBytes || i >= m.cursor {
			break
		}
		bytesLeft -= len(m.entries[i].Blob)
		drop = i + 1
	}
	if drop <= 0 {
		return
	}
	m.totalBytes = bytesLeft
	m.entries = append([]Snapshot{}, m.entries[drop:]...)
	m.cursor -= drop
}
