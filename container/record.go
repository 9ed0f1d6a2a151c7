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

	"github.com/pkg/errors"

	"github.com/tsgraph/core/internal/xerrors"
	"github.com/tsgraph/core/typemeta"
)

// Record is the storage shared by Tuple and Bundle: values at fixed
// offsets determined by schema field order (spec.md §4.B). Field lookup
// by index is O(1); by name it is the linear scan spec.md explicitly
// allows for the "small record assumption".
type Record struct {
	Values []any
}

// NewRecord constructs a Record with every field default-constructed via
// its own schema's Construct op.
func NewRecord(schema *typemeta.TypeMeta) *Record {
	r := &Record{Values: make([]any, len(schema.Fields))}
	for i, f := range schema.Fields {
		r.Values[i] = f.Type.Ops.Construct(f.Type)
	}
	return r
}

// FieldAt returns the i'th field value, or an error wrapping
// ErrIndexOutOfRange.
func (r *Record) FieldAt(i int) (any, error) {
	if i < 0 || i >= len(r.Values) {
		return nil, errors.WithStack(xerrors.ErrIndexOutOfRange)
	}
	return r.Values[i], nil
}

// SetFieldAt overwrites the i'th field value in place.
func (r *Record) SetFieldAt(i int, v any) error {
	if i < 0 || i >= len(r.Values) {
		return errors.WithStack(xerrors.ErrIndexOutOfRange)
	}
	r.Values[i] = v
	return nil
}

func recordEquals(schema *typemeta.TypeMeta, a, b any) bool {
	ra, rb := a.(*Record), b.(*Record)
	for i, f := range schema.Fields {
		if !f.Type.Ops.Equals(f.Type, ra.Values[i], rb.Values[i]) {
			return false
		}
	}
	return true
}

func recordToString(schema *typemeta.TypeMeta, data any) string {
	r := data.(*Record)
	var sb strings.Builder
	sb.WriteByte('{')
	for i, f := range schema.Fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.Name)
		sb.WriteString(": ")
		sb.WriteString(f.Type.Ops.ToString(f.Type, r.Values[i]))
	}
	sb.WriteByte('}')
	return sb.String()
}

func recordHash(schema *typemeta.TypeMeta, data any) (uint64, bool) {
	r := data.(*Record)
	var sum uint64 = 14695981039346656037 // FNV offset basis, composed across fields
	for i, f := range schema.Fields {
		if f.Type.Ops.Hash == nil {
			return 0, false
		}
		h, ok := f.Type.Ops.Hash(f.Type, r.Values[i])
		if !ok {
			return 0, false
		}
		sum = (sum ^ h) * 1099511628211
	}
	return sum, true
}

func recordCopy(schema *typemeta.TypeMeta, data any) *Record {
	src := data.(*Record)
	out := &Record{Values: make([]any, len(src.Values))}
	for i, f := range schema.Fields {
		out.Values[i] = f.Type.Ops.CopyAssign(f.Type, nil, src.Values[i])
	}
	return out
}

func bundleOps() typemeta.Ops {
	return typemeta.Ops{
		Construct:     func(schema *typemeta.TypeMeta) any { return NewRecord(schema) },
		Destruct:      func(*typemeta.TypeMeta, any) {},
		CopyAssign:    func(schema *typemeta.TypeMeta, _, src any) any { return recordCopy(schema, src) },
		MoveAssign:    func(_ *typemeta.TypeMeta, _, src any) any { return src },
		MoveConstruct: func(_ *typemeta.TypeMeta, src any) any { return src },
		Equals:        recordEquals,
		ToString:      recordToString,
		Hash:          recordHash,
		Length:        func(schema *typemeta.TypeMeta, _ any) int { return len(schema.Fields) },
		GetField:      func(_ *typemeta.TypeMeta, data any, index int) any { v, _ := data.(*Record).FieldAt(index); return v },
		SetField:      func(_ *typemeta.TypeMeta, data any, index int, value any) { _ = data.(*Record).SetFieldAt(index, value) },
		ToEncoded:     recordToEncoded,
		FromEncoded:   nil, // no composite decode is implemented
	}
}

func recordToEncoded(schema *typemeta.TypeMeta, data any) ([]byte, error) {
	r := data.(*Record)
	var sb strings.Builder
	sb.WriteByte('{')
	for i, f := range schema.Fields {
		if i > 0 {
			sb.WriteByte(',')
		}
		enc, err := f.Type.Ops.ToEncoded(f.Type, r.Values[i])
		if err != nil {
			return nil, errors.Wrapf(err, "encode field %q", f.Name)
		}
		sb.WriteString(f.Name)
		sb.WriteByte(':')
		sb.Write(enc)
	}
	sb.WriteByte('}')
	return []byte(sb.String()), nil
}

// BundleType interns a TSB-style bundle schema: a named record whose
// field order and types are exactly those of fields.
func BundleType(reg *typemeta.Registry, name string, fields []typemeta.Field) (*typemeta.TypeMeta, error) {
	return reg.Register(name, typemeta.SchemaDescriptor{
		Kind:   typemeta.KindBundle,
		Fields: fields,
		Flags:  typemeta.FlagContainer,
		Ops:    bundleOps(),
	})
}

// TupleType interns an (optionally variadic) tuple schema. A variadic
// tuple sets typemeta.FlagVariadicTuple; its Record still holds exactly
// len(fields) values and has no growth operation.
func TupleType(reg *typemeta.Registry, name string, fields []typemeta.Field, variadic bool) (*typemeta.TypeMeta, error) {
	flags := typemeta.FlagContainer
	if variadic {
		flags |= typemeta.FlagVariadicTuple
	}
	return reg.Register(name, typemeta.SchemaDescriptor{
		Kind:   typemeta.KindTuple,
		Fields: fields,
		Flags:  flags,
		Ops:    bundleOps(),
	})
}
