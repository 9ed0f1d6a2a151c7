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

package container

import (
	"strings"

	"github.com/tsgraph/core/typemeta"
)

// slotState tracks a Set slot's lifecycle. A slot that has been erased
// stays slotDead - its key bytes kept alive - until the next tick's
// reclaim pass, per spec.md §4.B: "erase marks a slot dead but keeps the
// key bytes alive until next tick to enable delta processing".
type slotState uint8

const (
	slotFree slotState = iota
	slotLive
	slotDead
)

// Set is a slot table of keys with a free list for erased slots, indexed
// by a hash -> candidate-slots map, or scanned linearly when the element
// type is not hashable (spec.md §3, §4.B). Unlike a classic rehashing table, slot indices here
// are stable for the storage's lifetime: growth never moves a live key,
// so overlays and alternatives can key deltas by slot index without a
// remap step. OnCapacity still fires on growth so observers that expect
// the contract from spec.md §4.B see the event, even though - as a
// documented Go re-architecture, see DESIGN.md - no live slot actually
// moves.
type Set struct {
	elemType *typemeta.TypeMeta
	keys     []any
	states   []slotState
	freeNext []int // free-list chain parallel to keys/states; -1 terminates
	freeHead int
	index    map[uint64][]int // hash -> candidate slot indices, nil if elemType isn't hashable
	live     int

	observerList
}

// NewSet constructs an empty Set over elemType.
func NewSet(elemType *typemeta.TypeMeta) *Set {
	s := &Set{elemType: elemType, freeHead: -1}
	if elemType.Ops.Hash != nil {
		s.index = make(map[uint64][]int)
	}
	return s
}

func (s *Set) findLive(key any) (int, bool) {
	if s.index != nil {
		h, ok := s.elemType.Ops.Hash(s.elemType, key)
		if ok {
			for _, slot := range s.index[h] {
				if s.states[slot] == slotLive && s.elemType.Ops.Equals(s.elemType, s.keys[slot], key) {
					return slot, true
				}
			}
			return -1, false
		}
	}
	for slot, st := range s.states {
		if st == slotLive && s.elemType.Ops.Equals(s.elemType, s.keys[slot], key) {
			return slot, true
		}
	}
	return -1, false
}

// Find returns the slot holding key, considering only live slots.
func (s *Set) Find(key any) (int, bool) { return s.findLive(key) }

// Contains reports whether key is a live member.
func (s *Set) Contains(key any) bool {
	_, ok := s.findLive(key)
	return ok
}

// KeyAtSlot returns the key stored at slot if the slot is live or
// dead-pending-reclaim (so a buffered delta can still read it), false if
// the slot is free.
func (s *Set) KeyAtSlot(slot int) (any, bool) {
	if slot < 0 || slot >= len(s.keys) || s.states[slot] == slotFree {
		return nil, false
	}
	return s.keys[slot], true
}

// SlotLive reports whether slot currently holds a live member.
func (s *Set) SlotLive(slot int) bool {
	return slot >= 0 && slot < len(s.states) && s.states[slot] == slotLive
}

func (s *Set) addIndex(h uint64, slot int) {
	if s.index != nil {
		s.index[h] = append(s.index[h], slot)
	}
}

// Insert adds key if absent, returning the slot it occupies and whether
// it was newly inserted.
func (s *Set) Insert(key any) (int, bool) {
	if slot, ok := s.findLive(key); ok {
		return slot, false
	}
	var h uint64
	var hashed bool
	if s.elemType.Ops.Hash != nil {
		h, hashed = s.elemType.Ops.Hash(s.elemType, key)
	}

	var slot int
	if s.freeHead != -1 {
		slot = s.freeHead
		s.freeHead = s.freeNext[slot]
		s.keys[slot] = key
		s.states[slot] = slotLive
	} else {
		oldCap := len(s.keys)
		slot = oldCap
		s.keys = append(s.keys, key)
		s.states = append(s.states, slotLive)
		s.freeNext = append(s.freeNext, -1)
		s.observerList.capacity(oldCap, len(s.keys))
	}
	if hashed {
		s.addIndex(h, slot)
	}
	s.live++
	s.observerList.insert(slot)
	return slot, true
}

// Erase marks key's slot dead: its bytes stay readable via KeyAtSlot until
// ReclaimDead runs at the next tick boundary (spec.md §4.B, §4.E).
func (s *Set) Erase(key any) bool {
	slot, ok := s.findLive(key)
	if !ok {
		return false
	}
	s.states[slot] = slotDead
	s.live--
	s.observerList.erase(slot)
	return true
}

// ReclaimDead returns every dead slot to the free list, invoking onReclaim
// (if non-nil) with each slot before its key is dropped so a caller
// holding parallel per-slot state (e.g. a map's value array) can clean up
// in step. Callers register this through
// scheduler.RegisterDeltaResetCallback so reclamation happens exactly
// once per tick boundary, never mid-tick.
func (s *Set) ReclaimDead(onReclaim func(slot int)) {
	for slot, st := range s.states {
		if st == slotDead {
			if onReclaim != nil {
				onReclaim(slot)
			}
			s.keys[slot] = nil
			s.states[slot] = slotFree
			s.freeNext[slot] = s.freeHead
			s.freeHead = slot
		}
	}
}

// Clear empties the set entirely, including dead-pending slots.
func (s *Set) Clear() {
	s.keys = s.keys[:0]
	s.states = s.states[:0]
	s.freeNext = s.freeNext[:0]
	s.freeHead = -1
	s.live = 0
	if s.index != nil {
		s.index = make(map[uint64][]int)
	}
	s.observerList.clear()
}

// Len returns the number of live members.
func (s *Set) Len() int { return s.live }

// SlotCap returns one past the highest slot index ever allocated, so a
// caller can iterate every slot via KeyAtSlot/SlotLive without reaching
// into the storage directly.
func (s *Set) SlotCap() int { return len(s.keys) }

// AddObserver registers a slot observer (e.g. a Map's value array) by
// pointer identity, rejecting a duplicate add per spec.md §4.B.
func (s *Set) AddObserver(o SlotObserver) bool { return s.observerList.add(o) }

// RemoveObserver unregisters a previously added observer.
func (s *Set) RemoveObserver(o SlotObserver) bool { return s.observerList.remove(o) }

func setEquals(_ *typemeta.TypeMeta, a, b any) bool {
	sa, sb := a.(*Set), b.(*Set)
	if sa.Len() != sb.Len() {
		return false
	}
	for slot, st := range sa.states {
		if st != slotLive {
			continue
		}
		if !sb.Contains(sa.keys[slot]) {
			return false
		}
	}
	return true
}

func setToString(schema *typemeta.TypeMeta, data any) string {
	s := data.(*Set)
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	for slot, st := range s.states {
		if st != slotLive {
			continue
		}
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(schema.Elem.Ops.ToString(schema.Elem, s.keys[slot]))
	}
	sb.WriteByte('}')
	return sb.String()
}

func setOps() typemeta.Ops {
	return typemeta.Ops{
		Construct:     func(schema *typemeta.TypeMeta) any { return NewSet(schema.Elem) },
		Destruct:      func(*typemeta.TypeMeta, any) {},
		CopyAssign: func(schema *typemeta.TypeMeta, _, src any) any {
			out := NewSet(schema.Elem)
			s := src.(*Set)
			for slot, st := range s.states {
				if st == slotLive {
					out.Insert(schema.Elem.Ops.CopyAssign(schema.Elem, nil, s.keys[slot]))
				}
			}
			return out
		},
		MoveAssign:    func(_ *typemeta.TypeMeta, _, src any) any { return src },
		MoveConstruct: func(_ *typemeta.TypeMeta, src any) any { return src },
		Equals:        setEquals,
		ToString:      setToString,
		Length:        func(_ *typemeta.TypeMeta, data any) int { return data.(*Set).Len() },
		Contains:      func(_ *typemeta.TypeMeta, data any, key any) bool { return data.(*Set).Contains(key) },
		Insert: func(_ *typemeta.TypeMeta, data any, value any) (int, bool) {
			return data.(*Set).Insert(value)
		},
		Erase: func(_ *typemeta.TypeMeta, data any, key any) bool { return data.(*Set).Erase(key) },
		Clear: func(_ *typemeta.TypeMeta, data any) any { data.(*Set).Clear(); return data },
	}
}

// SetType interns a TSS-style set-of-scalars schema.
func SetType(reg *typemeta.Registry, name string, elem *typemeta.TypeMeta) (*typemeta.TypeMeta, error) {
	return reg.Register(name, typemeta.SchemaDescriptor{
		Kind:  typemeta.KindSet,
		Elem:  elem,
		Flags: typemeta.FlagContainer,
		Ops:   setOps(),
	})
}
