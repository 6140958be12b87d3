/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package canvas

import (
	"slices"
	"sync"

	"floorplanner/internal/floor"
)

// Surface is an in-memory Canvas. Events are fed through Dispatch.
type Surface struct {
	mu       sync.Mutex
	objects  []*floor.Shape
	active   string
	renders  int
	nextSub  int
	handlers map[int]Handler
}

func NewSurface() *Surface { return &Surface{handlers: make(map[int]Handler)} }

func (s *Surface) Add(sh *floor.Shape) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = append(s.objects, sh)
}

func (s *Surface) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = slices.DeleteFunc(s.objects, func(o *floor.Shape) bool { return o.ID == id })
	if s.active == id {
		s.active = ""
	}
}

func (s *Surface) Objects() []*floor.Shape {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.objects)
}

func (s *Surface) SendToBack(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.objects, func(o *floor.Shape) bool { return o.ID == id })
	if i <= 0 {
		return
	}
	o := s.objects[i]
	copy(s.objects[1:i+1], s.objects[:i])
	s.objects[0] = o
}

func (s *Surface) RequestRender() {
	s.mu.Lock()
	s.renders++
	s.mu.Unlock()
}

// Renders counts render requests since creation.
func (s *Surface) Renders() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renders
}

func (s *Surface) SetActive(id string) {
	s.mu.Lock()
	s.active = id
	s.mu.Unlock()
}

func (s *Surface) Active() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *Surface) Subscribe(h Handler) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.handlers[id] = h
	return func() {
		s.mu.Lock()
		delete(s.handlers, id)
		s.mu.Unlock()
	}
}

// Subscribers is the number of registered handlers.
func (s *Surface) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handlers)
}

// Dispatch delivers ev to every handler in subscription order.
func (s *Surface) Dispatch(ev Event) {
	s.mu.Lock()
	hs := make([]Handler, 0, len(s.handlers))
	for id := 0; id < s.nextSub; id++ {
		if h, ok := s.handlers[id]; ok {
			hs = append(hs, h)
		}
	}
	s.mu.Unlock()
	for _, h := range hs {
		h(ev)
	}
}

// Click is a pointer down followed by up at the same point.
func (s *Surface) Click(ev Event) {
	s.Dispatch(Event{Type: PointerDown, Pt: ev.Pt})
	s.Dispatch(Event{Type: PointerUp, Pt: ev.Pt})
}
