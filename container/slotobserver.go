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

// Package container implements the concrete value storages behind every
// TypeMeta kind (spec.md §3, §4.B): tuple, bundle, list, set, map, cyclic
// buffer, queue and reference. Set invokes a small set of slot-observer
// hooks so that a Map's value array can track its key Set's insert/erase.
package container

// SlotObserver is the pluggable notification contract Set invokes on
// structural change (spec.md §4.B); a Map's value array is registered on
// the Map's key Set. CyclicBuffer and Queue invoke no observer hooks.
// Observers are registered by pointer identity;
// duplicate adds are rejected.
type SlotObserver interface {
	OnCapacity(oldCap, newCap int)
	OnInsert(slot int)
	OnUpdate(slot int)
	OnErase(slot int)
	OnClear()
}

// observerList is the small de-duplicated, pointer-identity-keyed list of
// SlotObservers a container storage owns. It is intentionally not
// exported: callers register through each storage's AddObserver method.
type observerList struct {
	obs []SlotObserver
}

func (l *observerList) add(o SlotObserver) bool {
	for _, existing := range l.obs {
		if existing == o {
			return false
		}
	}
	l.obs = append(l.obs, o)
	return true
}

func (l *observerList) remove(o SlotObserver) bool {
	for i, existing := range l.obs {
		if existing == o {
			l.obs = append(l.obs[:i], l.obs[i+1:]...)
			return true
		}
	}
	return false
}

func (l *observerList) capacity(oldCap, newCap int) {
	for _, o := range l.obs {
		o.OnCapacity(oldCap, newCap)
	}
}

func (l *observerList) insert(slot int) {
	for _, o := range l.obs {
		o.OnInsert(slot)
	}
}

func (l *observerList) update(slot int) {
	for _, o := range l.obs {
		o.OnUpdate(slot)
	}
}

func (l *observerList) erase(slot int) {
	for _, o := range l.obs {
		o.OnErase(slot)
	}
}

func (l *observerList) clear() {
	for _, o := range l.obs {
		o.OnClear()
	}
}
