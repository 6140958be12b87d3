/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"log/slog"

	"floorplanner/internal/floor"
	applog "floorplanner/internal/log"
)

// restoreLocked rebuilds the floor set from a snapshot. Everything the editor
// keeps per floor is recreated: registry entry, canvas object, handles and the
// insertion handler. The selection survives when its floor still exists.
// Called with mu held.
func (e *Editor) restoreLocked(blob []byte) []floor.Skipped {
	shapes, skipped, err := floor.DecodeSnapshot(blob)
	if err != nil {
		e.log.Error("snapshot restore failed", slog.Any("err", err))
		return nil
	}
	for _, sk := range skipped {
		e.log.Warn("snapshot record skipped", slog.Int("index", sk.Index), applog.Floor(sk.ID), slog.Any("err", sk.Err))
	}
	prev := ""
	if s := e.reg.Selected(); s != nil {
		prev = s.ID
	}
	for _, s := range e.reg.ListByZOrder() {
		e.cv.Remove(s.ID)
	}
	e.reg.Clear()
	e.drag = nil

	kept := make([]*floor.Shape, 0, len(shapes))
	for _, s := range shapes {
		if s.Floor && !s.PointBased() && s.Kind != floor.KindPath {
			if err := floor.Normalize(s, e.cfg.CircleSegments); err != nil {
				e.log.Warn("snapshot floor not normalized", applog.Floor(s.ID), slog.Any("err", err))
			}
		}
		if err := e.reg.Add(s); err != nil {
			e.log.Warn("snapshot floor rejected", applog.Floor(s.ID), slog.Any("err", err))
			continue
		}
		e.cv.Add(s)
		kept = append(kept, s)
	}
	for i := len(kept) - 1; i >= 0; i-- {
		e.cv.SendToBack(kept[i].ID)
	}
	for _, s := range kept {
		e.bindHandles(s)
	}
	if _, ok := e.reg.FindByID(prev); ok {
		e.selectLocked(prev)
	} else if prev != "" {
		e.selectLocked("")
	}
	e.cv.RequestRender()
	e.log.Debug("snapshot restored", slog.Int("floors", len(kept)), slog.Int("skipped", len(skipped)))
	return skipped
}
