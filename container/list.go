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

// List is the storage behind both fixed-size and dynamic homogeneous
// lists (spec.md §4.B). Fixed == 0 on the owning schema's FixedSize means
// dynamic; a fixed list never grows or shrinks past its declared size.
type List struct {
	Items []any
	Fixed int // 0 == dynamic, matching typemeta.TypeMeta.FixedSize
}

// NewList default-constructs a fixed list's elements up front; a dynamic
// list starts empty, preserving insertion order as elements are appended.
func NewList(schema *typemeta.TypeMeta) *List {
	l := &List{Fixed: schema.FixedSize}
	if schema.FixedSize > 0 {
		l.Items = make([]any, schema.FixedSize)
		for i := range l.Items {
			l.Items[i] = schema.Elem.Ops.Construct(schema.Elem)
		}
	}
	return l
}

// At returns the element at i, or ErrIndexOutOfRange.
func (l *List) At(i int) (any, error) {
	if i < 0 || i >= len(l.Items) {
		return nil, errors.WithStack(xerrors.ErrIndexOutOfRange)
	}
	return l.Items[i], nil
}

// SetAt overwrites the element at i, or ErrIndexOutOfRange.
func (l *List) SetAt(i int, v any) error {
	if i < 0 || i >= len(l.Items) {
		return errors.WithStack(xerrors.ErrIndexOutOfRange)
	}
	l.Items[i] = v
	return nil
}

// Append grows a dynamic list by one element; it is a programmer error to
// call it on a fixed list (callers gate on schema.FixedSize == 0).
func (l *List) Append(v any) int {
	l.Items = append(l.Items, v)
	return len(l.Items) - 1
}

// Resize grows or truncates a dynamic list to n elements, default
// constructing any newly-added slots.
func (l *List) Resize(schema *typemeta.TypeMeta, n int) {
	if n <= len(l.Items) {
		l.Items = l.Items[:n]
		return
	}
	for len(l.Items) < n {
		l.Items = append(l.Items, schema.Elem.Ops.Construct(schema.Elem))
	}
}

// Clear empties a dynamic list in place; fixed lists are reset to
// default-constructed elements rather than shrunk.
func (l *List) Clear(schema *typemeta.TypeMeta) {
	if schema.FixedSize > 0 {
		for i := range l.Items {
			l.Items[i] = schema.Elem.Ops.Construct(schema.Elem)
		}
		return
	}
	l.Items = l.Items[:0]
}

func listEquals(schema *typemeta.TypeMeta, a, b any) bool {
	la, lb := a.(*List), b.(*List)
	if len(la.Items) != len(lb.Items) {
		return false
	}
	for i := range la.Items {
		if !schema.Elem.Ops.Equals(schema.Elem, la.Items[i], lb.Items[i]) {
			return false
		}
	}
	return true
}

func listToString(schema *typemeta.TypeMeta, data any) string {
	l := data.(*List)
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range l.Items {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(schema.Elem.Ops.ToString(schema.Elem, v))
	}
	sb.WriteByte(']')
	return sb.String()
}

func listCopy(schema *typemeta.TypeMeta, data any) *List {
	src := data.(*List)
	out := &List{Fixed: src.Fixed, Items: make([]any, len(src.Items))}
	for i, v := range src.Items {
		out.Items[i] = schema.Elem.Ops.CopyAssign(schema.Elem, nil, v)
	}
	return out
}

func listToEncoded(schema *typemeta.TypeMeta, data any) ([]byte, error) {
	l := data.(*List)
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range l.Items {
		if i > 0 {
			sb.WriteByte(',')
		}
		enc, err := schema.Elem.Ops.ToEncoded(schema.Elem, v)
		if err != nil {
			return nil, errors.Wrapf(err, "encode element %d", i)
		}
		sb.Write(enc)
	}
	sb.WriteByte(']')
	return []byte(sb.String()), nil
}

func listOps() typemeta.Ops {
	return typemeta.Ops{
		Construct:     func(schema *typemeta.TypeMeta) any { return NewList(schema) },
		Destruct:      func(*typemeta.TypeMeta, any) {},
		CopyAssign:    func(schema *typemeta.TypeMeta, _, src any) any { return listCopy(schema, src) },
		MoveAssign:    func(_ *typemeta.TypeMeta, _, src any) any { return src },
		MoveConstruct: func(_ *typemeta.TypeMeta, src any) any { return src },
		Equals:        listEquals,
		ToString:      listToString,
		ToEncoded:     listToEncoded,
		Length:        func(_ *typemeta.TypeMeta, data any) int { return len(data.(*List).Items) },
		GetAt: func(_ *typemeta.TypeMeta, data any, index int) (any, bool) {
			v, err := data.(*List).At(index)
			return v, err == nil
		},
		SetAt: func(_ *typemeta.TypeMeta, data any, index int, value any) bool {
			return data.(*List).SetAt(index, value) == nil
		},
		Resize: func(schema *typemeta.TypeMeta, data any, n int) any {
			data.(*List).Resize(schema, n)
			return data
		},
		Clear: func(schema *typemeta.TypeMeta, data any) any {
			data.(*List).Clear(schema)
			return data
		},
	}
}

// ListType interns a homogeneous list schema. fixedSize == 0 means
// dynamic (spec.md §3 TSL[TS,N]: "N=0 means dynamic").
func ListType(reg *typemeta.Registry, name string, elem *typemeta.TypeMeta, fixedSize int) (*typemeta.TypeMeta, error) {
	return reg.Register(name, typemeta.SchemaDescriptor{
		Kind:      typemeta.KindList,
		Elem:      elem,
		FixedSize: fixedSize,
		Flags:     typemeta.FlagContainer,
		Ops:       listOps(),
	})
}
