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

// CyclicBuffer is a fixed-capacity ring; Push when full evicts the oldest
// entry (spec.md §3, §4.B).
type CyclicBuffer struct {
	elemType *typemeta.TypeMeta
	data     []any
	head     int
	count    int
	capacity int
}

// NewCyclicBuffer constructs an empty ring of the given capacity.
func NewCyclicBuffer(elemType *typemeta.TypeMeta, capacity int) *CyclicBuffer {
	return &CyclicBuffer{elemType: elemType, data: make([]any, capacity), capacity: capacity}
}

// Push appends v, evicting the oldest entry if the buffer is already at
// capacity; it reports whether an eviction occurred.
func (c *CyclicBuffer) Push(v any) (evicted bool) {
	if c.capacity == 0 {
		return false
	}
	if c.count < c.capacity {
		c.data[(c.head+c.count)%c.capacity] = v
		c.count++
		return false
	}
	c.data[c.head] = v
	c.head = (c.head + 1) % c.capacity
	return true
}

// At returns the i'th oldest-to-newest element.
func (c *CyclicBuffer) At(i int) (any, error) {
	if i < 0 || i >= c.count {
		return nil, errors.WithStack(xerrors.ErrIndexOutOfRange)
	}
	return c.data[(c.head+i)%c.capacity], nil
}

// Len returns the number of elements currently held.
func (c *CyclicBuffer) Len() int { return c.count }

// Clear empties the buffer without changing its capacity.
func (c *CyclicBuffer) Clear() {
	for i := range c.data {
		c.data[i] = nil
	}
	c.head, c.count = 0, 0
}

func cyclicEquals(_ *typemeta.TypeMeta, a, b any) bool {
	ca, cb := a.(*CyclicBuffer), b.(*CyclicBuffer)
	if ca.Len() != cb.Len() {
		return false
	}
	for i := 0; i < ca.Len(); i++ {
		av, _ := ca.At(i)
		bv, _ := cb.At(i)
		if !ca.elemType.Ops.Equals(ca.elemType, av, bv) {
			return false
		}
	}
	return true
}

func cyclicToString(_ *typemeta.TypeMeta, data any) string {
	c := data.(*CyclicBuffer)
	var sb strings.Builder
	sb.WriteByte('[')
	for i := 0; i < c.Len(); i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		v, _ := c.At(i)
		sb.WriteString(c.elemType.Ops.ToString(c.elemType, v))
	}
	sb.WriteByte(']')
	return sb.String()
}

func cyclicOps() typemeta.Ops {
	return typemeta.Ops{
		Construct: func(schema *typemeta.TypeMeta) any { return NewCyclicBuffer(schema.Elem, schema.FixedSize) },
		Destruct:  func(*typemeta.TypeMeta, any) {},
		CopyAssign: func(schema *typemeta.TypeMeta, _, src any) any {
			c := src.(*CyclicBuffer)
			out := NewCyclicBuffer(schema.Elem, schema.FixedSize)
			for i := 0; i < c.Len(); i++ {
				v, _ := c.At(i)
				out.Push(schema.Elem.Ops.CopyAssign(schema.Elem, nil, v))
			}
			return out
		},
		MoveAssign:    func(_ *typemeta.TypeMeta, _, src any) any { return src },
		MoveConstruct: func(_ *typemeta.TypeMeta, src any) any { return src },
		Equals:        cyclicEquals,
		ToString:      cyclicToString,
		Length:        func(_ *typemeta.TypeMeta, data any) int { return data.(*CyclicBuffer).Len() },
		GetAt: func(_ *typemeta.TypeMeta, data any, index int) (any, bool) {
			v, err := data.(*CyclicBuffer).At(index)
			return v, err == nil
		},
		Clear: func(_ *typemeta.TypeMeta, data any) any { data.(*CyclicBuffer).Clear(); return data },
	}
}

// CyclicBufferType interns a fixed-capacity ring buffer schema.
func CyclicBufferType(reg *typemeta.Registry, name string, elem *typemeta.TypeMeta, capacity int) (*typemeta.TypeMeta, error) {
	return reg.Register(name, typemeta.SchemaDescriptor{
		Kind:      typemeta.KindCyclicBuffer,
		Elem:      elem,
		FixedSize: capacity,
		Flags:     typemeta.FlagContainer | typemeta.FlagBufferCompatible,
		Ops:       cyclicOps(),
	})
}
