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

// valueArray is the parallel value storage a Map registers as its key
// Set's slot observer (spec.md §4.B: "Maps compose a set storage (keys)
// with a parallel value array that registers itself as a slot observer
// so that key insertions/erasures drive matching value slot
// creation/destruction").
type valueArray struct {
	valueType *typemeta.TypeMeta
	values    []any
}

func newValueArray(valueType *typemeta.TypeMeta) *valueArray {
	return &valueArray{valueType: valueType}
}

func (v *valueArray) ensure(n int) {
	for len(v.values) < n {
		v.values = append(v.values, nil)
	}
}

func (v *valueArray) OnCapacity(_, newCap int) { v.ensure(newCap) }

func (v *valueArray) OnInsert(slot int) {
	v.ensure(slot + 1)
	v.values[slot] = v.valueType.Ops.Construct(v.valueType)
}

func (v *valueArray) OnUpdate(int) {} // value already written via At/SetAt

// OnErase intentionally leaves the slot's value in place: per spec.md
// §4.E the overlay buffers the removed value for the remainder of the
// tick, and Go's GC makes an explicit destruct step unnecessary - the
// value becomes unreachable once the overlay's buffer drops it and a
// later insert reuses this slot (OnInsert constructs a fresh value there)
// or the map is cleared; ReclaimDead does not touch it.
func (v *valueArray) OnErase(int) {}

func (v *valueArray) OnClear() { v.values = v.values[:0] }

// At returns the value at slot, valid iff the matching key slot is live
// (callers check that via the owning Map's key Set).
func (v *valueArray) At(slot int) any {
	if slot < 0 || slot >= len(v.values) {
		return nil
	}
	return v.values[slot]
}

func (v *valueArray) SetAt(slot int, value any) {
	v.ensure(slot + 1)
	v.values[slot] = value
}

// Map composes a key Set with a parallel valueArray (spec.md §3, §4.B).
type Map struct {
	Keys   *Set
	Values *valueArray
}

// NewMap constructs an empty Map over (keyType, valueType).
func NewMap(keyType, valueType *typemeta.TypeMeta) *Map {
	m := &Map{Keys: NewSet(keyType), Values: newValueArray(valueType)}
	m.Keys.AddObserver(m.Values)
	return m
}

// Get returns the value bound to key, if key is a live member.
func (m *Map) Get(key any) (any, bool) {
	slot, ok := m.Keys.Find(key)
	if !ok {
		return nil, false
	}
	return m.Values.At(slot), true
}

// Set inserts or overwrites key -> value, reporting whether key was
// newly inserted (as opposed to an update of an existing key).
func (m *Map) Set(key, value any) bool {
	slot, inserted := m.Keys.Insert(key)
	m.Values.SetAt(slot, value)
	if !inserted {
		m.Keys.observerList.update(slot)
	}
	return inserted
}

// Erase removes key, if present.
func (m *Map) Erase(key any) bool { return m.Keys.Erase(key) }

// Len returns the number of live entries.
func (m *Map) Len() int { return m.Keys.Len() }

// Clear empties both the key set and value array.
func (m *Map) Clear() { m.Keys.Clear() }

func mapEquals(schema *typemeta.TypeMeta, a, b any) bool {
	ma, mb := a.(*Map), b.(*Map)
	if ma.Len() != mb.Len() {
		return false
	}
	for slot, st := range ma.Keys.states {
		if st != slotLive {
			continue
		}
		k := ma.Keys.keys[slot]
		bv, ok := mb.Get(k)
		if !ok {
			return false
		}
		av, _ := ma.Get(k)
		if !schema.Elem.Ops.Equals(schema.Elem, av, bv) {
			return false
		}
	}
	return true
}

func mapToString(schema *typemeta.TypeMeta, data any) string {
	m := data.(*Map)
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	for slot, st := range m.Keys.states {
		if st != slotLive {
			continue
		}
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(schema.Key.Ops.ToString(schema.Key, m.Keys.keys[slot]))
		sb.WriteString(": ")
		sb.WriteString(schema.Elem.Ops.ToString(schema.Elem, m.Values.At(slot)))
	}
	sb.WriteByte('}')
	return sb.String()
}

func mapOps() typemeta.Ops {
	return typemeta.Ops{
		Construct: func(schema *typemeta.TypeMeta) any { return NewMap(schema.Key, schema.Elem) },
		Destruct:  func(*typemeta.TypeMeta, any) {},
		CopyAssign: func(schema *typemeta.TypeMeta, _, src any) any {
			out := NewMap(schema.Key, schema.Elem)
			m := src.(*Map)
			for slot, st := range m.Keys.states {
				if st == slotLive {
					k := schema.Key.Ops.CopyAssign(schema.Key, nil, m.Keys.keys[slot])
					v := schema.Elem.Ops.CopyAssign(schema.Elem, nil, m.Values.At(slot))
					out.Set(k, v)
				}
			}
			return out
		},
		MoveAssign:    func(_ *typemeta.TypeMeta, _, src any) any { return src },
		MoveConstruct: func(_ *typemeta.TypeMeta, src any) any { return src },
		Equals:        mapEquals,
		ToString:      mapToString,
		Length:        func(_ *typemeta.TypeMeta, data any) int { return data.(*Map).Len() },
		Contains:      func(_ *typemeta.TypeMeta, data any, key any) bool { _, ok := data.(*Map).Get(key); return ok },
		MapGet:        func(_ *typemeta.TypeMeta, data any, key any) (any, bool) { return data.(*Map).Get(key) },
		MapSet:        func(_ *typemeta.TypeMeta, data any, key any, value any) bool { return data.(*Map).Set(key, value) },
		Erase:         func(_ *typemeta.TypeMeta, data any, key any) bool { return data.(*Map).Erase(key) },
		Clear:         func(_ *typemeta.TypeMeta, data any) any { data.(*Map).Clear(); return data },
	}
}

// MapType interns a TSD-style key->value map schema.
func MapType(reg *typemeta.Registry, name string, key, elem *typemeta.TypeMeta) (*typemeta.TypeMeta, error) {
	return reg.Register(name, typemeta.SchemaDescriptor{
		Kind:  typemeta.KindMap,
		Key:   key,
		Elem:  elem,
		Flags: typemeta.FlagContainer,
		Ops:   mapOps(),
	})
}
