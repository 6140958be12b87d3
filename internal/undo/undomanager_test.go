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
	"fmt"
	"testing"
	"time"
)

func blob(i int) Snapshot { return Snapshot{Blob: []byte(fmt.Sprintf("s%03d", i)), TS: time.Now()} }

func TestUndoRedoBasic(t *testing.T) {
	m := NewManager(Config{})
	m.Push(Snapshot{Blob: []byte("a")})
	m.Push(Snapshot{Blob: []byte("b")})
	if _, n, cur := m.Stats(); n != 2 || cur != 1 {
		t.Fatalf("expected 2 snapshots and cursor 1, got n=%d cursor=%d", n, cur)
	}
	s, ok := m.Undo()
	if !ok || string(s.Blob) != "a" {
		t.Fatalf("undo expected 'a', got ok=%v blob=%q", ok, string(s.Blob))
	}
	if _, ok := m.Undo(); ok {
		t.Fatalf("undo past the oldest entry must be a no-op")
	}
	s, ok = m.Redo()
	if !ok || string(s.Blob) != "b" {
		t.Fatalf("redo expected 'b', got ok=%v blob=%q", ok, string(s.Blob))
	}
	if _, ok := m.Redo(); ok {
		t.Fatalf("redo at the tail must be a no-op")
	}
}

func TestEmptyManager(t *testing.T) {
	m := NewManager(Config{})
	if m.Cursor() != -1 || m.CanUndo() || m.CanRedo() {
		t.Fatalf("fresh manager should be empty")
	}
	if _, ok := m.Current(); ok {
		t.Fatalf("no current snapshot expected")
	}
	if _, ok := m.Undo(); ok {
		t.Fatalf("undo on empty history")
	}
	if m.Config().Capacity != DefaultCapacity || m.Config().Interval != DefaultInterval {
		t.Fatalf("defaults not applied: %+v", m.Config())
	}
}

func TestDedupConsecutive(t *testing.T) {
	m := NewManager(Config{})
	if !m.Push(Snapshot{Blob: []byte("x")}) {
		t.Fatalf("first push should store")
	}
	if m.Push(Snapshot{Blob: []byte("x")}) {
		t.Fatalf("identical push should be discarded")
	}
	if m.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", m.Len())
	}
}

func TestCapacityKeepsMostRecent(t *testing.T) {
	m := NewManager(Config{Capacity: 300})
	for i := 0; i < 350; i++ {
		m.Push(blob(i))
	}
	if m.Len() != 300 {
		t.Fatalf("expected 300 retained, got %d", m.Len())
	}
	if cur, _ := m.Current(); string(cur.Blob) != "s349" {
		t.Fatalf("tail should be newest, got %q", cur.Blob)
	}
	undone := 0
	for i := 0; i < 300; i++ {
		if _, ok := m.Undo(); ok {
			undone++
		}
	}
	if undone != 299 {
		t.Fatalf("expected 299 successful undos, got %d", undone)
	}
	if cur, _ := m.Current(); string(cur.Blob) != "s050" {
		t.Fatalf("expected oldest retained s050, got %q", cur.Blob)
	}
	if m.CanUndo() {
		t.Fatalf("cannot undo beyond oldest retained")
	}
}

func TestPushAfterUndoTruncates(t *testing.T) {
	m := NewManager(Config{})
	for i := 0; i < 5; i++ {
		m.Push(blob(i))
	}
	m.Undo()
	m.Undo()
	if !m.CanRedo() {
		t.Fatalf("redo should be available after undo")
	}
	m.Push(Snapshot{Blob: []byte("new")})
	if m.Len() != 4 {
		t.Fatalf("expected entries after cursor discarded, len=%d", m.Len())
	}
	if _, ok := m.Redo(); ok {
		t.Fatalf("redo must have no effect after a new push")
	}
	if cur, _ := m.Current(); string(cur.Blob) != "new" {
		t.Fatalf("unexpected current %q", cur.Blob)
	}
}

func TestDedupAfterUndoKeepsRedo(t *testing.T) {
	m := NewManager(Config{})
	m.Push(blob(0))
	m.Push(blob(1))
	m.Undo()
	if m.Push(blob(0)) {
		t.Fatalf("pushing the current state again is a no-op")
	}
	if s, ok := m.Redo(); !ok || string(s.Blob) != "s001" {
		t.Fatalf("redo should survive a no-op push")
	}
}

func TestMaxBytesPrunesOldest(t *testing.T) {
	m := NewManager(Config{MaxBytes: 20})
	for i := 0; i < 10; i++ {
		m.Push(Snapshot{Blob: []byte(fmt.Sprintf("xxxx%d", i))})
	}
	total, n, cur := m.Stats()
	if total > 20 || n != 4 || cur != 3 {
		t.Fatalf("expected byte cap to keep 4, got total=%d n=%d cursor=%d", total, n, cur)
	}

	big := NewManager(Config{MaxBytes: 1})
	big.Push(Snapshot{Blob: []byte("0123456789")})
	if big.Len() != 1 {
		t.Fatalf("current entry must survive the byte cap")
	}
}

func TestClear(t *testing.T) {
	m := NewManager(Config{})
	m.Push(blob(1))
	m.Clear()
	if total, n, cur := m.Stats(); total != 0 || n != 0 || cur != -1 {
		t.Fatalf("clear left state: %d %d %d", total, n, cur)
	}
	if !m.Push(blob(1)) {
		t.Fatalf("push after clear should store")
	}
}
