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

import (
	"github.com/tsgraph/core/overlay"
	"github.com/tsgraph/core/scheduler"
)

// SetAdd inserts value into a TSS at engine time t, reporting whether it
// was newly inserted (spec.md §4.F: "TSS: add(value, t)").
func (v *TSValue) SetAdd(t scheduler.Time, value any) bool {
	slot, inserted := v.set.Insert(value)
	if inserted {
		v.Overlay.(*overlay.SetOverlay).RecordAdded(slot, t)
	}
	return inserted
}

// SetRemove erases value from a TSS at engine time t, reporting whether
// it was present (spec.md §4.F: "TSS: remove(value, t)").
func (v *TSValue) SetRemove(t scheduler.Time, value any) bool {
	slot, ok := v.set.Find(value)
	if !ok {
		return false
	}
	v.Overlay.(*overlay.SetOverlay).RecordRemoved(slot, t, value)
	v.set.Erase(value)
	return true
}

// SetContains reports whether value is a live member of a TSS.
func (v *TSValue) SetContains(value any) bool { return v.set.Contains(value) }

// SetLen returns the live member count of a TSS.
func (v *TSValue) SetLen() int { return v.set.Len() }

// SetDelta returns the (added, removed) values recorded this tick
// (spec.md §4.F: "TSS delta: added/removed value lists", §8 scenario 4's
// zero-net cancellation).
func (v *TSValue) SetDelta() SetDelta {
	var d SetDelta
	so := v.Overlay.(*overlay.SetOverlay)
	for _, slot := range so.AddedSlots() {
		if key, ok := v.set.KeyAtSlot(int(slot)); ok {
			d.Added = append(d.Added, key)
		}
	}
	for _, slot := range so.RemovedSlots() {
		if val, ok := so.RemovedValue(int(slot)); ok {
			d.Removed = append(d.Removed, val)
		}
	}
	return d
}
