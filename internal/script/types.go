/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import "fmt"

// Script is a scripted editing session: a list of steps replayed against an
// editor on a headless canvas. Floors created by a step can be named with "as"
// and referred to by that name in later steps.
type Script struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Point is an [x, y] pair in canvas coordinates.
type Point [2]float64

// Step is one operation. Which fields apply depends on Op.
type Step struct {
	Op    string `yaml:"op"`
	As    string `yaml:"as,omitempty"`
	Floor string `yaml:"floor,omitempty"`

	// insert
	Kind   string  `yaml:"kind,omitempty"`
	Name   string  `yaml:"name,omitempty"`
	Width  float64 `yaml:"width,omitempty"`
	Height float64 `yaml:"height,omitempty"`
	Radius float64 `yaml:"radius,omitempty"`
	RX     float64 `yaml:"rx,omitempty"`
	RY     float64 `yaml:"ry,omitempty"`
	Angle  float64 `yaml:"angle,omitempty"`
	Path   string  `yaml:"path,omitempty"`
	HiFi   bool    `yaml:"hifi,omitempty"`
	Locked bool    `yaml:"locked,omitempty"`

	At     *Point  `yaml:"at,omitempty"`
	To     *Point  `yaml:"to,omitempty"`
	By     *Point  `yaml:"by,omitempty"`
	Points []Point `yaml:"points,omitempty"`

	Vertex int     `yaml:"vertex,omitempty"`
	Factor float64 `yaml:"factor,omitempty"`
	Step   float64 `yaml:"step,omitempty"`

	Fill        string   `yaml:"fill,omitempty"`
	Stroke      string   `yaml:"stroke,omitempty"`
	StrokeWidth *float64 `yaml:"stroke_width,omitempty"`

	Tool  string `yaml:"tool,omitempty"`
	Times int    `yaml:"times,omitempty"`

	// expect
	Floors   *int `yaml:"floors,omitempty"`
	Vertices *int `yaml:"vertices,omitempty"`
	History  *int `yaml:"history,omitempty"`
	Cursor   *int `yaml:"cursor,omitempty"`

	// Line is the 1-based source line of the step.
	Line int `yaml:"-"`
}

// Error represents a parse error with position context.
type Error struct {
	Line    int
	Column  int
	Message string
}

func (e Error) Error() string { return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message) }
