/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ops lists the step operations and the fields each one requires.
var ops = map[string][]string{
	"insert":        {"kind"},
	"draw":          {"points"},
	"tool":          {"tool"},
	"down":          {"at"},
	"move":          {"at"},
	"up":            {"at"},
	"click":         {"at"},
	"dblclick":      {"at"},
	"select":        nil,
	"drag":          {"floor", "to"},
	"insert_vertex": {"floor", "at"},
	"grow":          nil,
	"shrink":        nil,
	"resize":        {"floor"},
	"translate":     {"floor", "by"},
	"style":         {"floor"},
	"lock":          {"floor"},
	"unlock":        {"floor"},
	"delete":        nil,
	"undo":          nil,
	"redo":          nil,
	"tick":          nil,
	"expect":        nil,
}

// Parse reads a YAML script. Structural problems are returned as errors with
// the line of the offending step; a script with errors should not be run.
func Parse(input []byte) (Script, []Error) {
	var root yaml.Node
	if err := yaml.Unmarshal(input, &root); err != nil {
		return Script{}, []Error{{Line: 1, Column: 1, Message: err.Error()}}
	}
	var s Script
	if err := root.Decode(&s); err != nil {
		return Script{}, []Error{{Line: 1, Column: 1, Message: err.Error()}}
	}
	var errs []Error
	stepNodes := findSteps(&root)
	for i := range s.Steps {
		st := &s.Steps[i]
		line, col := 0, 0
		if i < len(stepNodes) {
			line, col = stepNodes[i].Line, stepNodes[i].Column
		}
		st.Line = line
		st.Op = strings.ToLower(strings.TrimSpace(st.Op))
		required, ok := ops[st.Op]
		if !ok {
			errs = append(errs, Error{Line: line, Column: col, Message: fmt.Sprintf("unknown op %q", st.Op)})
			continue
		}
		for _, f := range required {
			if !has(st, f) {
				errs = append(errs, Error{Line: line, Column: col, Message: fmt.Sprintf("%s: missing %q", st.Op, f)})
			}
		}
	}
	if len(s.Steps) == 0 {
		errs = append(errs, Error{Line: 1, Column: 1, Message: "script has no steps"})
	}
	return s, errs
}

func findSteps(root *yaml.Node) []*yaml.Node {
	doc := root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	if doc.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(doc.Content); i += 2 {
		if doc.Content[i].Value == "steps" && doc.Content[i+1].Kind == yaml.SequenceNode {
			return doc.Content[i+1].Content
		}
	}
	return nil
}

func has(st *Step, field string) bool {
	switch field {
	case "kind":
		return st.Kind != ""
	case "points":
		return len(st.Points) > 0
	case "tool":
		return st.Tool != ""
	case "at":
		return st.At != nil
	case "to":
		return st.To != nil
	case "by":
		return st.By != nil
	case "floor":
		return st.Floor != ""
	}
	return true
}
