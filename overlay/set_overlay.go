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

package overlay

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/tsgraph/core/scheduler"
)

// SetOverlay is the overlay for TSS (spec.md §3, §4.E). added_slots and
// removed_slots are Roaring bitmaps rather than Go sets: slot indices are
// small dense integers, exactly roaring's sweet spot, and the teacher's
// pack already carries RoaringBitmap/roaring/v2 for this shape of
// membership tracking.
//
// Zero-net set change policy (DESIGN.md Open Question 1, decided "no"):
// an insert-then-erase of the same slot within one tick cancels out of
// both bitmaps and rolls this overlay's own timestamp back to its value
// at the start of the tick. The parent's timestamp, and the observer
// notifications sent when the insert was recorded, are not rolled back.
// An erase-then-insert records both (spec.md
// §8: "slot reuse semantics").
type SetOverlay struct {
	base

	added             *roaring.Bitmap
	removed           *roaring.Bitmap
	removedValues     map[int]any
	lastDeltaTime     scheduler.Time
	deltaValid        bool
	tickStartModified scheduler.Time
}

// NewSetOverlay constructs an empty set overlay.
func NewSetOverlay() *SetOverlay {
	return &SetOverlay{
		base:          newBase(),
		added:         roaring.New(),
		removed:       roaring.New(),
		removedValues: make(map[int]any),
	}
}

func (o *SetOverlay) MarkModified(t scheduler.Time) { o.markModified(t) }
func (o *SetOverlay) MarkInvalid()                  { o.markInvalid() }

func (o *SetOverlay) resetIfNewTick(t scheduler.Time) {
	if !o.deltaValid || t != o.lastDeltaTime {
		o.added.Clear()
		o.removed.Clear()
		for k := range o.removedValues {
			delete(o.removedValues, k)
		}
		o.lastDeltaTime = t
		o.deltaValid = true
		o.tickStartModified = o.lastModified
	}
}

// RecordAdded records that slot was inserted at tick t, lazily resetting
// the delta buffers if t starts a new tick (spec.md §4.E).
func (o *SetOverlay) RecordAdded(slot int, t scheduler.Time) {
	o.resetIfNewTick(t)
	o.added.Add(uint32(slot))
	o.MarkModified(t)
}

// RecordRemoved records that slot holding val was erased at tick t. An
// insert-then-erase of the same slot this tick cancels: val is dropped,
// the slot is pulled back out of added, and once the tick's delta is back
// to empty this overlay's own timestamp is rolled back to what it was
// before the cancelled pair, so HasValue/ModifiedAt read as if neither
// call had happened (spec.md §8 scenario 4, DESIGN.md Open Question 1).
// A parent this overlay already propagated to while the pair was still
// pending keeps its advanced timestamp.
func (o *SetOverlay) RecordRemoved(slot int, t scheduler.Time, val any) {
	o.resetIfNewTick(t)
	if o.added.Contains(uint32(slot)) {
		o.added.Remove(uint32(slot))
		if o.added.IsEmpty() && o.removed.IsEmpty() {
			o.lastModified = o.tickStartModified
		}
		return
	}
	o.removed.Add(uint32(slot))
	o.removedValues[slot] = val
	o.MarkModified(t)
}

// WasAdded reports whether slot is in this tick's added delta.
func (o *SetOverlay) WasAdded(slot int) bool { return o.added.Contains(uint32(slot)) }

// WasRemoved reports whether slot is in this tick's removed delta.
func (o *SetOverlay) WasRemoved(slot int) bool { return o.removed.Contains(uint32(slot)) }

// RemovedValue returns the buffered value for a slot removed this tick
// (spec.md §4.E: "Removed values are buffered until next tick").
func (o *SetOverlay) RemovedValue(slot int) (any, bool) {
	v, ok := o.removedValues[slot]
	return v, ok
}

// AddedSlots returns the current tick's added-slot list.
func (o *SetOverlay) AddedSlots() []uint32 { return o.added.ToArray() }

// RemovedSlots returns the current tick's removed-slot list.
func (o *SetOverlay) RemovedSlots() []uint32 { return o.removed.ToArray() }
