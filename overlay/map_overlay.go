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
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/tsgraph/core/scheduler"
)

// removedEntry buffers a removed TSD key/value-overlay pair for the
// remainder of the tick it was removed in (spec.md §4.E: "record_key_removed
// moves the value's overlay into a buffer (kept for this tick) before
// destruction").
type removedEntry struct {
	key          any
	valueOverlay Overlay
}

// MapOverlay is the overlay for TSD (spec.md §3, §4.E). Keys parallel
// SetOverlay's added/removed bitmap tracking and zero-net cancellation
// policy; in addition each live key owns a lazily-created child value
// overlay, and an is_empty child tracks empty<->non-empty transitions
// without the subscriber having to scan.
type MapOverlay struct {
	base

	added             *roaring.Bitmap
	removed           *roaring.Bitmap
	updated           *roaring.Bitmap
	lastDeltaTime     scheduler.Time
	deltaValid        bool
	tickStartModified scheduler.Time

	children      map[int]Overlay
	removedBuffer map[int]removedEntry
	updatedKeys   mapset.Set[any]

	live    int
	IsEmpty *ScalarOverlay
}

// NewMapOverlay constructs an empty map overlay. Child value overlays
// are supplied by the caller at RecordKeyAdded time rather than built
// here, since tsvalue.TSValue's recursive constructor is what actually
// knows how to build a child of the map's value TS kind (spec.md §4.E:
// "child overlays are created lazily where semantically needed, e.g.
// TSD value overlays are created on record_key_added").
func NewMapOverlay() *MapOverlay {
	m := &MapOverlay{
		base:          newBase(),
		added:         roaring.New(),
		removed:       roaring.New(),
		updated:       roaring.New(),
		children:      make(map[int]Overlay),
		removedBuffer: make(map[int]removedEntry),
		updatedKeys:   mapset.NewThreadUnsafeSet[any](),
		IsEmpty:       NewScalarOverlay(),
	}
	m.IsEmpty.SetParent(m)
	return m
}

func (o *MapOverlay) MarkModified(t scheduler.Time) { o.markModified(t) }
func (o *MapOverlay) MarkInvalid()                  { o.markInvalid() }

func (o *MapOverlay) resetIfNewTick(t scheduler.Time) {
	if !o.deltaValid || t != o.lastDeltaTime {
		o.added.Clear()
		o.removed.Clear()
		o.updated.Clear()
		o.updatedKeys.Clear()
		for k := range o.removedBuffer {
			delete(o.removedBuffer, k)
		}
		o.lastDeltaTime = t
		o.deltaValid = true
		o.tickStartModified = o.lastModified
	}
}

func (o *MapOverlay) noteEmptyTransition(t scheduler.Time, wasEmpty bool) {
	isEmpty := o.live == 0
	if wasEmpty != isEmpty {
		o.IsEmpty.MarkModified(t)
	}
}

// RecordKeyAdded records a new key at slot, parenting the caller-built
// child value overlay to this map so mark_modified propagates upward
// through it.
func (o *MapOverlay) RecordKeyAdded(slot int, t scheduler.Time, key any, child Overlay) {
	o.resetIfNewTick(t)
	wasEmpty := o.live == 0
	child.SetParent(o)
	o.children[slot] = child
	o.added.Add(uint32(slot))
	o.live++
	o.noteEmptyTransition(t, wasEmpty)
	o.MarkModified(t)
}

// RecordKeyUpdated records that an existing key's value changed without
// the key itself being re-inserted.
func (o *MapOverlay) RecordKeyUpdated(slot int, t scheduler.Time, key any) {
	o.resetIfNewTick(t)
	o.updated.Add(uint32(slot))
	o.updatedKeys.Add(key)
	o.MarkModified(t)
}

// RecordKeyRemoved buffers key and its child value overlay for the rest
// of the tick and removes the live child. An insert-then-erase of the
// same slot this tick cancels, mirroring SetOverlay's policy: once the
// tick's added/removed delta is back to empty, this overlay's own
// timestamp is rolled back to what it was before the cancelled pair
// (DESIGN.md Open Question 1). A parent already propagated to while the
// pair was pending keeps its advanced timestamp.
func (o *MapOverlay) RecordKeyRemoved(slot int, t scheduler.Time, key any) {
	o.resetIfNewTick(t)
	child := o.children[slot]
	delete(o.children, slot)
	wasEmpty := o.live == 0
	if o.added.Contains(uint32(slot)) {
		o.added.Remove(uint32(slot))
		o.live--
		o.noteEmptyTransition(t, wasEmpty)
		if o.added.IsEmpty() && o.removed.IsEmpty() {
			o.lastModified = o.tickStartModified
		}
		return
	}
	o.removed.Add(uint32(slot))
	o.removedBuffer[slot] = removedEntry{key: key, valueOverlay: child}
	o.live--
	o.noteEmptyTransition(t, wasEmpty)
	o.MarkModified(t)
}

// ChildAt returns the live child value overlay for slot, if any.
func (o *MapOverlay) ChildAt(slot int) (Overlay, bool) {
	c, ok := o.children[slot]
	return c, ok
}

// RemovedKeyValue returns the buffered key and value overlay for a slot
// removed this tick (spec.md §4.E, §8 scenario 5).
func (o *MapOverlay) RemovedKeyValue(slot int) (key any, valueOverlay Overlay, ok bool) {
	e, ok := o.removedBuffer[slot]
	return e.key, e.valueOverlay, ok
}

// WasKeyAdded reports whether slot is in this tick's added delta.
func (o *MapOverlay) WasKeyAdded(slot int) bool { return o.added.Contains(uint32(slot)) }

// WasKeyRemoved reports whether slot is in this tick's removed delta.
func (o *MapOverlay) WasKeyRemoved(slot int) bool { return o.removed.Contains(uint32(slot)) }

// WasKeyUpdated reports whether slot is in this tick's updated delta.
func (o *MapOverlay) WasKeyUpdated(slot int) bool { return o.updated.Contains(uint32(slot)) }

// Len returns the number of live keys.
func (o *MapOverlay) Len() int { return o.live }

// AddedSlots returns the current tick's added-slot list.
func (o *MapOverlay) AddedSlots() []uint32 { return o.added.ToArray() }

// RemovedSlots returns the current tick's removed-slot list.
func (o *MapOverlay) RemovedSlots() []uint32 { return o.removed.ToArray() }

// UpdatedSlots returns the current tick's updated-slot list.
func (o *MapOverlay) UpdatedSlots() []uint32 { return o.updated.ToArray() }
