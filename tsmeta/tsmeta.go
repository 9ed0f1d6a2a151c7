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

// Package tsmeta implements the interned time-series schema layer
// (spec.md §3, §4.D): TSMeta variants {TS, TSB, TSL, TSD, TSS, TSW, REF,
// SIGNAL} over the typemeta container schemas, with the same
// structural-dedup interning contract as typemeta.Registry.
package tsmeta

import (
	"fmt"

	"github.com/tsgraph/core/container"
	"github.com/tsgraph/core/typemeta"
)

// TSKind identifies the shape of a TSMeta.
type TSKind int

const (
	KindTS TSKind = iota
	KindTSB
	KindTSL
	KindTSD
	KindTSS
	KindTSW
	KindREF
	KindSignal
)

func (k TSKind) String() string {
	switch k {
	case KindTS:
		return "TS"
	case KindTSB:
		return "TSB"
	case KindTSL:
		return "TSL"
	case KindTSD:
		return "TSD"
	case KindTSS:
		return "TSS"
	case KindTSW:
		return "TSW"
	case KindREF:
		return "REF"
	case KindSignal:
		return "SIGNAL"
	default:
		return "Unknown"
	}
}

// TSField is one named slot of a TSB, in declaration order.
type TSField struct {
	Name string
	TS   *TSMeta
}

// TSMeta is an interned time-series schema (spec.md §3, §4.D). As with
// typemeta.TypeMeta, two structurally identical TSMeta descriptions are
// guaranteed to be the same pointer.
type TSMeta struct {
	Kind TSKind

	// Scalar is the underlying element TypeMeta for TS, TSS and TSW.
	Scalar *typemeta.TypeMeta
	// Elem is the element TS for TSL, the value TS for TSD, and the
	// target TS for REF.
	Elem *TSMeta
	// Key is the key TypeMeta for TSD.
	Key *typemeta.TypeMeta
	// Fields is the ordered field list for TSB.
	Fields []TSField

	// FixedSize is the TSL length (0 == dynamic).
	FixedSize int

	// WindowSize is a TSW's entry-count bound (0 if duration-bound).
	WindowSize int
	// WindowDuration is a TSW's duration bound in engine-time units (0 if
	// size-bound). Exactly one of WindowSize/WindowDuration is nonzero.
	WindowDuration int64
	// WindowMin is the minimum entry count before the window reports
	// has_value() == true.
	WindowMin int

	Name      string
	structKey structKey
}

func (m *TSMeta) String() string {
	if m == nil {
		return "<nil>"
	}
	switch m.Kind {
	case KindTS:
		return "TS[" + m.Scalar.String() + "]"
	case KindTSS:
		return "TSS[" + m.Scalar.String() + "]"
	case KindTSW:
		if m.WindowDuration > 0 {
			return fmt.Sprintf("TSW[%s,dur=%d,min=%d]", m.Scalar.String(), m.WindowDuration, m.WindowMin)
		}
		return fmt.Sprintf("TSW[%s,n=%d,min=%d]", m.Scalar.String(), m.WindowSize, m.WindowMin)
	case KindREF:
		return "REF[" + m.Elem.String() + "]"
	case KindTSL:
		if m.FixedSize > 0 {
			return fmt.Sprintf("TSL[%s,%d]", m.Elem.String(), m.FixedSize)
		}
		return "TSL[" + m.Elem.String() + "]"
	case KindTSD:
		return "TSD[" + m.Key.String() + "," + m.Elem.String() + "]"
	case KindTSB:
		s := "TSB[{"
		for i, f := range m.Fields {
			if i > 0 {
				s += ", "
			}
			s += f.Name + ": " + f.TS.String()
		}
		return s + "}]"
	case KindSignal:
		return "SIGNAL"
	default:
		return m.Kind.String()
	}
}

// IsSignal reports whether m is the pure edge-trigger SIGNAL schema.
func IsSignal(m *TSMeta) bool { return m != nil && m.Kind == KindSignal }

// IsRef reports whether m is a REF wrapper.
func IsRef(m *TSMeta) bool { return m != nil && m.Kind == KindREF }

// ValueSchema computes the typemeta container schema backing m's runtime
// storage, recursively flattening non-peered composites (TSL, TSD's value,
// REF) the way container storages expect. TSB is peered (spec.md
// GLOSSARY) and is composed of independently overlaid child TSValues
// rather than a single flat container.Record, so ValueSchema is never
// called for a TSB's own fields by tsvalue - only by TSL/TSD/REF nesting
// a TSB as their non-peered element/value/target type.
func ValueSchema(reg *typemeta.Registry, m *TSMeta) *typemeta.TypeMeta {
	switch m.Kind {
	case KindTS, KindTSS:
		return m.Scalar
	case KindTSW:
		return m.Scalar
	case KindSignal:
		return nil
	case KindREF:
		target := ValueSchema(reg, m.Elem)
		t, err := container.RefType(reg, "", target)
		if err != nil {
			panic(err)
		}
		return t
	case KindTSL:
		elem := ValueSchema(reg, m.Elem)
		t, err := container.ListType(reg, "", elem, m.FixedSize)
		if err != nil {
			panic(err)
		}
		return t
	case KindTSD:
		elem := ValueSchema(reg, m.Elem)
		t, err := container.MapType(reg, "", m.Key, elem)
		if err != nil {
			panic(err)
		}
		return t
	case KindTSB:
		fields := make([]typemeta.Field, len(m.Fields))
		for i, f := range m.Fields {
			fields[i] = typemeta.Field{Name: f.Name, Type: ValueSchema(reg, f.TS)}
		}
		t, err := container.BundleType(reg, "", fields)
		if err != nil {
			panic(err)
		}
		return t
	default:
		return nil
	}
}
