/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package floor

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"floorplanner/internal/vector"
)

// SnapshotVersion is written into every encoded snapshot.
const SnapshotVersion = 1

//go:embed schema/floor.schema.json
var recordSchemaJSON []byte

var (
	recordSchemaOnce sync.Once
	recordSchema     *gojsonschema.Schema
	recordSchemaErr  error
)

func loadRecordSchema() (*gojsonschema.Schema, error) {
	recordSchemaOnce.Do(func() {
		recordSchema, recordSchemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(recordSchemaJSON))
	})
	return recordSchema, recordSchemaErr
}

type snapshotDoc struct {
	Version int               `json:"version"`
	Floors  []json.RawMessage `json:"floors"`
}

// record is the serialized form of a Shape. Selection and editor metadata are
// not stored.
type record struct {
	ID         string       `json:"id"`
	Name       string       `json:"name,omitempty"`
	Kind       Kind         `json:"kind"`
	SourceKind Kind         `json:"sourceKind,omitempty"`
	Points     [][2]float64 `json:"points,omitempty"`
	Params     *Params      `json:"params,omitempty"`
	Style      Style        `json:"style"`
	Transform  Transform    `json:"transform"`
	Floor      bool         `json:"isFloor"`
	Editable   bool         `json:"editable"`
	Locked     bool         `json:"locked,omitempty"`
}

func toRecord(s *Shape) record {
	r := record{
		ID: s.ID, Name: s.Name, Kind: s.Kind, SourceKind: s.SourceKind,
		Style: s.Style, Transform: s.Transform,
		Floor: s.Floor, Editable: s.Editable, Locked: s.Locked,
	}
	if len(s.Points) > 0 {
		r.Points = make([][2]float64, len(s.Points))
		for i, p := range s.Points {
			r.Points[i] = [2]float64{p.X, p.Y}
		}
	}
	if s.Params != (Params{}) {
		p := s.Params
		r.Params = &p
	}
	return r
}

// EncodeSnapshot serializes shapes in the given order. Equal shape sets encode to
// identical bytes, which is what history deduplication compares.
func EncodeSnapshot(shapes []*Shape) ([]byte, error) {
	doc := struct {
		Version int      `json:"version"`
		Floors  []record `json:"floors"`
	}{Version: SnapshotVersion, Floors: make([]record, 0, len(shapes))}
	for _, s := range shapes {
		doc.Floors = append(doc.Floors, toRecord(s))
	}
	return json.Marshal(doc)
}

// Skipped describes a snapshot record that could not be restored.
type Skipped struct {
	Index int
	ID    string
	Err   error
}

func (s Skipped) Error() string {
	return fmt.Sprintf("record %d (%q): %v", s.Index, s.ID, s.Err)
}

// DecodeSnapshot restores shapes in stored order. A malformed document is an
// error; an individual bad record is skipped and reported so the caller can keep
// going with the rest.
func DecodeSnapshot(data []byte) ([]*Shape, []Skipped, error) {
	var doc snapshotDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if doc.Version > SnapshotVersion {
		return nil, nil, fmt.Errorf("decode snapshot: version %d is newer than %d", doc.Version, SnapshotVersion)
	}
	schema, err := loadRecordSchema()
	if err != nil {
		return nil, nil, fmt.Errorf("load record schema: %w", err)
	}
	var (
		shapes  []*Shape
		skipped []Skipped
	)
	for i, raw := range doc.Floors {
		s, err := decodeRecord(schema, raw)
		if err != nil {
			skipped = append(skipped, Skipped{Index: i, ID: peekID(raw), Err: err})
			continue
		}
		shapes = append(shapes, s)
	}
	return shapes, skipped, nil
}

var errInvalidRecord = errors.New("record does not match schema")

func decodeRecord(schema *gojsonschema.Schema, raw json.RawMessage) (*Shape, error) {
	res, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("%w: %s", errInvalidRecord, strings.Join(msgs, "; "))
	}
	var r record
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, err
	}
	k, err := ParseKind(string(r.Kind))
	if err != nil {
		return nil, err
	}
	s := &Shape{
		ID: r.ID, Name: r.Name, Kind: k, SourceKind: r.SourceKind,
		Style: r.Style, Transform: r.Transform,
		Floor: r.Floor, Editable: r.Editable, Locked: r.Locked,
	}
	if r.Params != nil {
		s.Params = *r.Params
	}
	if len(r.Points) > 0 {
		s.Points = make([]vector.Pt, len(r.Points))
		for i, p := range r.Points {
			s.Points[i] = vector.Pt{X: p[0], Y: p[1]}
		}
	}
	s.bind()
	if s.PointBased() {
		need := 2
		if s.Closed() {
			need = 3
		}
		if len(s.Points) < need {
			return nil, fmt.Errorf("%w: %d points", ErrDegenerate, len(s.Points))
		}
	}
	if k == KindPath && s.parsedPath() == nil {
		return nil, fmt.Errorf("%w: unreadable path data", ErrDegenerate)
	}
	return s, nil
}

func peekID(raw json.RawMessage) string {
	var v struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(raw, &v)
	return v.ID
}
