// Copyright 2025 The TSGraph Authors
// This file is part of TSGraph.
//
// TSGraph is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// TSGraph is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with TSGraph. If not, see <http://www.gnu.org/licenses/>.

package tsvalue

import "github.com/tsgraph/core/scheduler"

// SetDelta is a TSS's one-tick change summary (spec.md §4.F).
type SetDelta struct {
	Added   []any
	Removed []any
}

// MapDelta is a TSD's one-tick change summary (spec.md §4.F).
type MapDelta struct {
	Added   []any
	Updated []any
	Removed []any
}

// ScalarDelta is the shared delta shape for every kind whose change is
// fully described by "modified at this tick, now holds this value"
// (TS, TSB, TSL, TSW; spec.md §4.F: "Scalar/bundle/list/window: delta is
// modified at this tick with current value").
type ScalarDelta struct {
	Modified bool
	At       scheduler.Time
}

// Delta returns the one-tick ScalarDelta for every kind, TSS and TSD
// included; the added/removed keys of a TSS or TSD are read through
// SetDelta()/DictDelta().
func (v *TSValue) Delta(t scheduler.Time) ScalarDelta {
	return ScalarDelta{Modified: v.ModifiedAt(t), At: v.LastModifiedTime()}
}
