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
	"github.com/tsgraph/core/config"
	"github.com/tsgraph/core/container"
	"github.com/tsgraph/core/overlay"
	"github.com/tsgraph/core/scheduler"
	"github.com/tsgraph/core/tsmeta"
	"github.com/tsgraph/core/typemeta"
)

// dictStorage is TSD's backing storage (spec.md §3, §4.F): a key Set
// peered with a parallel map of fully-built child TSValues, one per
// live key, each with its own overlay parented into the owning
// MapOverlay. Unlike container.Map's generic valueArray, a TSD value is
// never a bare Ops-constructed scalar - it can itself be a bundle, list,
// set or window - so the parallel map holds *TSValue, built recursively
// via New.
type dictStorage struct {
	keys      *container.Set
	values    map[int]*TSValue
	keyType   *typemeta.TypeMeta
	childMeta *tsmeta.TSMeta
	overlay   *overlay.MapOverlay

	typeReg *typemeta.Registry
	tsReg   *tsmeta.Registry
	opts    config.Options
}

func newDictStorage(meta *tsmeta.TSMeta, typeReg *typemeta.Registry, tsReg *tsmeta.Registry, opts config.Options) *dictStorage {
	d := &dictStorage{
		keys:      container.NewSet(meta.Key),
		values:    make(map[int]*TSValue),
		keyType:   meta.Key,
		childMeta: meta.Elem,
		overlay:   overlay.NewMapOverlay(),
		typeReg:   typeReg,
		tsReg:     tsReg,
		opts:      opts,
	}
	keys := d.keys
	scheduler.RegisterDeltaResetCallback(func() {
		keys.ReclaimDead(func(slot int) { delete(d.values, slot) })
	})
	return d
}

// getOrCreate returns the child TSValue for key, building a fresh one
// and recording it as a newly added key if key wasn't already live.
func (d *dictStorage) getOrCreate(t scheduler.Time, key any) *TSValue {
	slot, inserted := d.keys.Insert(key)
	if inserted {
		child := New(d.typeReg, d.tsReg, d.childMeta, d.opts)
		d.values[slot] = child
		d.overlay.RecordKeyAdded(slot, t, key, child.Overlay)
		return child
	}
	d.overlay.RecordKeyUpdated(slot, t, key)
	return d.values[slot]
}

func (d *dictStorage) get(key any) (*TSValue, bool) {
	slot, ok := d.keys.Find(key)
	if !ok {
		return nil, false
	}
	return d.values[slot], true
}

func (d *dictStorage) delete(t scheduler.Time, key any) bool {
	slot, ok := d.keys.Find(key)
	if !ok {
		return false
	}
	d.overlay.RecordKeyRemoved(slot, t, key)
	d.keys.Erase(key)
	return true
}

func (d *dictStorage) len() int { return d.keys.Len() }

// DictGetOrCreate returns the TSD value bound to key, constructing a
// fresh default child TSValue and recording a key-added delta if key was
// not already live (spec.md §4.F: "TSD: get_or_create(key, t)").
func (v *TSValue) DictGetOrCreate(t scheduler.Time, key any) *TSValue {
	return v.dict.getOrCreate(t, key)
}

// DictGet returns the TSD value bound to key, if key is live.
func (v *TSValue) DictGet(key any) (*TSValue, bool) { return v.dict.get(key) }

// DictDelete removes key from a TSD, reporting whether it was present.
func (v *TSValue) DictDelete(t scheduler.Time, key any) bool { return v.dict.delete(t, key) }

// DictLen returns the number of live keys in a TSD.
func (v *TSValue) DictLen() int { return v.dict.len() }

// DictKeys returns every currently live key, in no particular order. Used
// by callers (port.alternative) that need to seed a parallel view from a
// TSD's existing contents rather than only its per-tick delta.
func (v *TSValue) DictKeys() []any {
	keys := make([]any, 0, v.dict.keys.Len())
	for slot := 0; slot < v.dict.keys.SlotCap(); slot++ {
		if !v.dict.keys.SlotLive(slot) {
			continue
		}
		if key, ok := v.dict.keys.KeyAtSlot(slot); ok {
			keys = append(keys, key)
		}
	}
	return keys
}

// DictKeySet exposes the backing key Set of a TSD.
func (v *TSValue) DictKeySet() *container.Set { return v.dict.keys }

// DictWasKeyAdded reports whether key's slot was added this tick.
func (v *TSValue) DictWasKeyAdded(key any) bool {
	slot, ok := v.dict.keys.Find(key)
	return ok && v.dict.overlay.WasKeyAdded(slot)
}

// DictDelta returns the (added, removed, updated) keys recorded this
// tick (spec.md §4.F: "TSD delta: added/removed/updated key lists").
func (v *TSValue) DictDelta() MapDelta {
	var d MapDelta
	for _, slot := range v.dict.overlay.AddedSlots() {
		if key, ok := v.dict.keys.KeyAtSlot(int(slot)); ok {
			d.Added = append(d.Added, key)
		}
	}
	for _, slot := range v.dict.overlay.UpdatedSlots() {
		if key, ok := v.dict.keys.KeyAtSlot(int(slot)); ok {
			d.Updated = append(d.Updated, key)
		}
	}
	for _, slot := range v.dict.overlay.RemovedSlots() {
		if key, _, ok := v.dict.overlay.RemovedKeyValue(int(slot)); ok {
			d.Removed = append(d.Removed, key)
		}
	}
	return d
}
