/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package canvas describes the drawing surface the floor editor runs on and
// provides a headless implementation used by the CLI and tests.
package canvas

import (
	"floorplanner/internal/floor"
	"floorplanner/internal/vector"
)

type EventType int

const (
	PointerDown EventType = iota
	PointerMove
	PointerUp
	DoubleClick
)

func (t EventType) String() string {
	switch t {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	case DoubleClick:
		return "dblclick"
	}
	return "unknown"
}

// Event is a pointer event in canvas coordinates.
type Event struct {
	Type EventType
	Pt   vector.Pt
}

type Handler func(Event)

// Canvas is what the editor needs from the host surface. Objects are shared by
// pointer; the editor mutates floors in place and asks for a render.
type Canvas interface {
	Add(s *floor.Shape)
	// Remove is a no-op for unknown ids.
	Remove(id string)
	// Objects returns every object bottom first, floors and furniture alike.
	Objects() []*floor.Shape
	SendToBack(id string)
	RequestRender()
	// SetActive marks the active selection; "" clears it.
	SetActive(id string)
	Active() string
	// Subscribe registers h for every pointer event and returns a function
	// that removes it.
	Subscribe(h Handler) (unsubscribe func())
}
