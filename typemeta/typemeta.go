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

package typemeta

// Field describes one named slot of a Bundle, in declaration order.
type Field struct {
	Name string
	Type *TypeMeta
}

// TypeMeta is an interned, process-scope schema descriptor (spec.md §3).
// Two structurally identical schemas are guaranteed to be the same
// pointer (Registry.Register / the ts* constructors deduplicate), so all
// identity and equality checks on schemas are pointer comparisons.
//
// Container storages hold their runtime data as `any` rather than a raw
// (data-pointer, field-offset) pair: Go's garbage collector and type
// system give no benefit to hand-rolled POD layouts the way C++'s does,
// and boxing the concrete Go value behind the schema's Ops is the
// idiomatic equivalent of spec.md §9's "trait object... polymorphism is
// per schema, not per instance" (see DESIGN.md, typemeta/container
// ledger entries).
type TypeMeta struct {
	Kind  Kind
	Flags Flags

	// Name is the human-readable name passed to Register, if any.
	Name string

	// Elem is the element type for List/Set/CyclicBuffer/Queue, the
	// value type for Map, and the target type for Ref.
	Elem *TypeMeta
	// Key is the key type for Map.
	Key *TypeMeta

	// Fields is the ordered field list for Tuple/Bundle.
	Fields []Field

	// FixedSize is the list length for a fixed-size List (0 == dynamic),
	// or the capacity for CyclicBuffer/Queue (0 == unbounded queue).
	FixedSize int

	Ops Ops

	// structKey is the deduplication key this schema was registered
	// under; Register compares it to detect a name re-bound to a
	// different structure (see registry.go).
	structKey structKey
}

// FieldCount returns len(Fields) for Tuple/Bundle kinds, 0 otherwise.
func (t *TypeMeta) FieldCount() int { return len(t.Fields) }

// FieldByName performs the linear field-name lookup spec.md §4.B
// explicitly allows ("small record assumption; linear is acceptable").
func (t *TypeMeta) FieldByName(name string) (int, *TypeMeta, bool) {
	for i, f := range t.Fields {
		if f.Name == name {
			return i, f.Type, true
		}
	}
	return -1, nil, false
}

// IsType reports whether other is exactly m — implemented as requested in spec.md §4.A via pointer
// identity.
func IsType(m, other *TypeMeta) bool { return m == other }

// IsScalar reports whether m describes a scalar.
func IsScalar(m *TypeMeta) bool { return m != nil && m.Kind == KindScalar }

func (t *TypeMeta) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KindScalar:
		if t.Name != "" {
			return t.Name
		}
		return "Scalar"
	case KindRef:
		return "Ref[" + t.Elem.String() + "]"
	case KindList:
		if t.FixedSize > 0 {
			return "List[" + t.Elem.String() + "," + itoa(t.FixedSize) + "]"
		}
		return "List[" + t.Elem.String() + "]"
	case KindSet:
		return "Set[" + t.Elem.String() + "]"
	case KindMap:
		return "Map[" + t.Key.String() + "," + t.Elem.String() + "]"
	case KindCyclicBuffer:
		return "CyclicBuffer[" + t.Elem.String() + "," + itoa(t.FixedSize) + "]"
	case KindQueue:
		return "Queue[" + t.Elem.String() + "]"
	case KindTuple, KindBundle:
		s := t.Kind.String() + "[{"
		for i, f := range t.Fields {
			if i > 0 {
				s += ", "
			}
			s += f.Name + ": " + f.Type.String()
		}
		return s + "}]"
	default:
		return t.Kind.String()
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
