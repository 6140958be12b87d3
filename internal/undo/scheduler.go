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
	"sync"
	"time"
)

// Scheduler runs fn every d until the returned stop function is called.
// Stop must be safe to call more than once.
type Scheduler interface {
	Every(d time.Duration, fn func()) (stop func())
}

// TickerScheduler runs callbacks from a time.Ticker on its own goroutine.
type TickerScheduler struct{}

func (TickerScheduler) Every(d time.Duration, fn func()) func() {
	t := time.NewTicker(d)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-t.C:
				fn()
			case <-done:
				return
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			t.Stop()
			close(done)
		})
	}
}

// ManualScheduler only runs callbacks when Fire is called. Scripted sessions and
// tests use it to step the history timer deterministically.
type ManualScheduler struct {
	mu   sync.Mutex
	next int
	fns  map[int]func()
}

func (m *ManualScheduler) Every(_ time.Duration, fn func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fns == nil {
		m.fns = make(map[int]func())
	}
	id := m.next
	m.next++
	m.fns[id] = fn
	return func() {
		m.mu.Lock()
		delete(m.fns, id)
		m.mu.Unlock()
	}
}

// Fire runs every registered callback once, in registration order.
func (m *ManualScheduler) Fire() {
	m.mu.Lock()
	fns := make([]func(), 0, len(m.fns))
	for id := 0; id < m.next; id++ {
		if fn, ok := m.fns[id]; ok {
			fns = append(fns, fn)
		}
	}
	m.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Active is the number of running timers.
func (m *ManualScheduler) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.fns)
}

// Guarded wraps every callback of s in l, so timer ticks never overlap the
// input handlers that hold the same lock.
func Guarded(s Scheduler, l sync.Locker) Scheduler { return guarded{s: s, l: l} }

type guarded struct {
	s Scheduler
	l sync.Locker
}

func (g guarded) Every(d time.Duration, fn func()) func() {
	return g.s.Every(d, func() {
		g.l.Lock()
		defer g.l.Unlock()
		fn()
	})
}
