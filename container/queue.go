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

// QueuePolicy selects what Push does when a bounded Queue is full. This
// is the "reject" vs. eviction choice SPEC_FULL.md §SUPPLEMENTED FEATURES
// pins down: spec.md §4.B leaves the bounded-queue full policy open,
// §7 item 7 names CapacityExceeded as the reject path's error.
type QueuePolicy int

const (
	// RejectOnFull is the default: Push on a full bounded queue returns
	// ErrCapacityExceeded and leaves the queue unchanged.
	RejectOnFull QueuePolicy = iota
	// DropOldest evicts the front entry to make room, mirroring
	// CyclicBuffer's eviction semantics for callers who want bounded
	// memory with no error path.
	DropOldest
)

// Queue is a FIFO with an optional max capacity (0 == unbounded).
type Queue struct {
	elemType *typemeta.TypeMeta
	data     []any
	capacity int
	policy   QueuePolicy
}

// NewQueue constructs an empty queue. capacity == 0 means unbounded, in
// which case policy is irrelevant.
func NewQueue(elemType *typemeta.TypeMeta, capacity int, policy QueuePolicy) *Queue {
	return &Queue{elemType: elemType, capacity: capacity, policy: policy}
}

// Push enqueues v, applying the configured full-queue policy.
func (q *Queue) Push(v any) error {
	if q.capacity > 0 && len(q.data) >= q.capacity {
		if q.policy == RejectOnFull {
			return errors.WithStack(xerrors.ErrCapacityExceeded)
		}
		q.data = q.data[1:]
	}
	q.data = append(q.data, v)
	return nil
}

// Pop dequeues the front element, if any.
func (q *Queue) Pop() (any, bool) {
	if len(q.data) == 0 {
		return nil, false
	}
	v := q.data[0]
	q.data = q.data[1:]
	return v, true
}

// At returns the i'th element from the front without removing it.
func (q *Queue) At(i int) (any, error) {
	if i < 0 || i >= len(q.data) {
		return nil, errors.WithStack(xerrors.ErrIndexOutOfRange)
	}
	return q.data[i], nil
}

// Len returns the number of queued elements.
func (q *Queue) Len() int { return len(q.data) }

// Clear empties the queue.
func (q *Queue) Clear() { q.data = q.data[:0] }

func queueEquals(_ *typemeta.TypeMeta, a, b any) bool {
	qa, qb := a.(*Queue), b.(*Queue)
	if qa.Len() != qb.Len() {
		return false
	}
	for i := 0; i < qa.Len(); i++ {
		av, _ := qa.At(i)
		bv, _ := qb.At(i)
		if !qa.elemType.Ops.Equals(qa.elemType, av, bv) {
			return false
		}
	}
	return true
}

func queueToString(_ *typemeta.TypeMeta, data any) string {
	q := data.(*Queue)
	var sb strings.Builder
	sb.WriteByte('[')
	for i := 0; i < q.Len(); i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		v, _ := q.At(i)
		sb.WriteString(q.elemType.Ops.ToString(q.elemType, v))
	}
	sb.WriteByte(']')
	return sb.String()
}

func queueOps() typemeta.Ops {
	return typemeta.Ops{
		Construct: func(schema *typemeta.TypeMeta) any { return NewQueue(schema.Elem, schema.FixedSize, RejectOnFull) },
		Destruct:  func(*typemeta.TypeMeta, any) {},
		CopyAssign: func(schema *typemeta.TypeMeta, _, src any) any {
			q := src.(*Queue)
			out := NewQueue(schema.Elem, q.capacity, q.policy)
			for i := 0; i < q.Len(); i++ {
				v, _ := q.At(i)
				_ = out.Push(schema.Elem.Ops.CopyAssign(schema.Elem, nil, v))
			}
			return out
		},
		MoveAssign:    func(_ *typemeta.TypeMeta, _, src any) any { return src },
		MoveConstruct: func(_ *typemeta.TypeMeta, src any) any { return src },
		Equals:        queueEquals,
		ToString:      queueToString,
		Length:        func(_ *typemeta.TypeMeta, data any) int { return data.(*Queue).Len() },
		GetAt: func(_ *typemeta.TypeMeta, data any, index int) (any, bool) {
			v, err := data.(*Queue).At(index)
			return v, err == nil
		},
		Clear: func(_ *typemeta.TypeMeta, data any) any { data.(*Queue).Clear(); return data },
	}
}

// QueueType interns a FIFO queue schema; capacity == 0 means unbounded.
func QueueType(reg *typemeta.Registry, name string, elem *typemeta.TypeMeta, capacity int) (*typemeta.TypeMeta, error) {
	return reg.Register(name, typemeta.SchemaDescriptor{
		Kind:      typemeta.KindQueue,
		Elem:      elem,
		FixedSize: capacity,
		Flags:     typemeta.FlagContainer,
		Ops:       queueOps(),
	})
}
