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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tsgraph/core/internal/xerrors"
	"github.com/tsgraph/core/typemeta"
)

func TestSetInsertFindEraseReclaim(t *testing.T) {
	s := NewSet(typemeta.String)

	slot, inserted := s.Insert("alice")
	require.True(t, inserted)
	require.Equal(t, 1, s.Len())

	_, inserted = s.Insert("alice")
	require.False(t, inserted, "re-inserting a live key is a no-op")
	require.Equal(t, 1, s.Len())

	require.True(t, s.Contains("alice"))
	got, ok := s.KeyAtSlot(slot)
	require.True(t, ok)
	require.Equal(t, "alice", got)

	require.True(t, s.Erase("alice"))
	require.False(t, s.Contains("alice"), "erased key is no longer live")
	_, ok = s.KeyAtSlot(slot)
	require.True(t, ok, "dead slot stays readable until reclaim")
	require.False(t, s.SlotLive(slot))

	reclaimed := false
	s.ReclaimDead(func(reclaimedSlot int) {
		reclaimed = true
		require.Equal(t, slot, reclaimedSlot)
	})
	require.True(t, reclaimed)
	_, ok = s.KeyAtSlot(slot)
	require.False(t, ok, "reclaimed slot is free")

	slot2, inserted := s.Insert("bob")
	require.True(t, inserted)
	require.Equal(t, slot, slot2, "the free list reuses the reclaimed slot")
}

type countingObserver struct {
	inserted, erased []int
	capacities       [][2]int
	cleared          int
}

func (c *countingObserver) OnCapacity(oldCap, newCap int) { c.capacities = append(c.capacities, [2]int{oldCap, newCap}) }
func (c *countingObserver) OnInsert(slot int)             { c.inserted = append(c.inserted, slot) }
func (c *countingObserver) OnUpdate(int)                  {}
func (c *countingObserver) OnErase(slot int)              { c.erased = append(c.erased, slot) }
func (c *countingObserver) OnClear()                      { c.cleared++ }

func TestSetObserverDedupAndStructuralEvents(t *testing.T) {
	s := NewSet(typemeta.Int64)
	obs := &countingObserver{}

	require.True(t, s.AddObserver(obs))
	require.False(t, s.AddObserver(obs), "duplicate add by pointer identity is rejected")

	slot, _ := s.Insert(int64(1))
	require.Contains(t, obs.inserted, slot)
	require.NotEmpty(t, obs.capacities, "growth beyond the initial empty backing array fires OnCapacity")

	s.Erase(int64(1))
	require.Contains(t, obs.erased, slot)

	s.Clear()
	require.Equal(t, 1, obs.cleared)

	require.True(t, s.RemoveObserver(obs))
	require.False(t, s.RemoveObserver(obs))
}

func TestMapSetGetEraseTracksKeySet(t *testing.T) {
	m := NewMap(typemeta.String, typemeta.Int64)

	inserted := m.Set("AAPL", int64(150))
	require.True(t, inserted)
	inserted = m.Set("AAPL", int64(151))
	require.False(t, inserted, "re-setting an existing key is an update, not an insert")

	v, ok := m.Get("AAPL")
	require.True(t, ok)
	require.Equal(t, int64(151), v)
	require.Equal(t, 1, m.Len())

	require.True(t, m.Erase("AAPL"))
	_, ok = m.Get("AAPL")
	require.False(t, ok)
	require.Equal(t, 0, m.Len())
}

func TestMapValueArrayTracksKeySlotLifecycle(t *testing.T) {
	m := NewMap(typemeta.String, typemeta.Int64)
	m.Set("a", int64(1))
	m.Set("b", int64(2))
	m.Set("c", int64(3))

	require.True(t, m.Erase("b"))
	m.Keys.ReclaimDead(func(slot int) {})

	va, ok := m.Get("a")
	require.True(t, ok)
	require.Equal(t, int64(1), va)
	vc, ok := m.Get("c")
	require.True(t, ok)
	require.Equal(t, int64(3), vc)
}

func TestListFixedSizeDefaultConstructsAndBoundsChecks(t *testing.T) {
	l := &List{Fixed: 3, Items: make([]any, 3)}
	for i := range l.Items {
		l.Items[i] = int64(0)
	}

	require.NoError(t, l.SetAt(1, int64(42)))
	v, err := l.At(1)
	require.NoError(t, err)
	require.Equal(t, int64(42), v)

	_, err = l.At(5)
	require.ErrorIs(t, err, xerrors.ErrIndexOutOfRange)
}

func TestListDynamicAppendAndResize(t *testing.T) {
	l := &List{Fixed: 0}
	l.Append(int64(1))
	l.Append(int64(2))
	require.Equal(t, 2, len(l.Items))

	l.Resize(&typemeta.TypeMeta{Elem: typemeta.Int64}, 4)
	require.Equal(t, 4, len(l.Items))
	require.Equal(t, int64(0), l.Items[2])

	l.Resize(&typemeta.TypeMeta{Elem: typemeta.Int64}, 1)
	require.Equal(t, 1, len(l.Items))
}

func TestQueueRejectOnFullPolicy(t *testing.T) {
	q := NewQueue(typemeta.Int64, 2, RejectOnFull)
	require.NoError(t, q.Push(int64(1)))
	require.NoError(t, q.Push(int64(2)))
	err := q.Push(int64(3))
	require.ErrorIs(t, err, xerrors.ErrCapacityExceeded)
	require.Equal(t, 2, q.Len())

	v, ok := q.Pop()
	require.True(t, ok)
	require.Equal(t, int64(1), v)
}

func TestQueueDropOldestPolicy(t *testing.T) {
	q := NewQueue(typemeta.Int64, 2, DropOldest)
	require.NoError(t, q.Push(int64(1)))
	require.NoError(t, q.Push(int64(2)))
	require.NoError(t, q.Push(int64(3)), "DropOldest never rejects")

	v, ok := q.Pop()
	require.True(t, ok)
	require.Equal(t, int64(2), v, "the oldest entry was evicted to make room for 3")
}

func TestCyclicBufferEvictsOldestOnOverflow(t *testing.T) {
	c := NewCyclicBuffer(typemeta.Int64, 3)
	require.False(t, c.Push(int64(1)))
	require.False(t, c.Push(int64(2)))
	require.False(t, c.Push(int64(3)))
	evicted := c.Push(int64(4))
	require.True(t, evicted)

	require.Equal(t, 3, c.Len())
	oldest, err := c.At(0)
	require.NoError(t, err)
	require.Equal(t, int64(2), oldest)
	newest, err := c.At(2)
	require.NoError(t, err)
	require.Equal(t, int64(4), newest)
}

func TestRecordFieldAtAndSetFieldAt(t *testing.T) {
	schema := &typemeta.TypeMeta{
		Fields: []typemeta.Field{
			{Name: "price", Type: typemeta.Int64},
			{Name: "qty", Type: typemeta.Int64},
		},
	}
	r := NewRecord(schema)
	require.NoError(t, r.SetFieldAt(0, int64(100)))

	v, err := r.FieldAt(0)
	require.NoError(t, err)
	require.Equal(t, int64(100), v)

	_, err = r.FieldAt(9)
	require.ErrorIs(t, err, xerrors.ErrIndexOutOfRange)
}

func TestReferenceStateTransitions(t *testing.T) {
	r := NewReference()
	require.Equal(t, RefEmpty, r.State)

	r.Bind("target-handle", Path{Field("x")})
	require.Equal(t, RefBound, r.State)
	require.Equal(t, "target-handle", r.Target)

	r.Unbind([]any{"a", "b"})
	require.Equal(t, RefUnbound, r.State)
	require.Nil(t, r.Target)
	require.Equal(t, []any{"a", "b"}, r.Pending)

	r.Clear()
	require.Equal(t, RefEmpty, r.State)
	require.Nil(t, r.Pending)
}

func TestPathStringRendersFieldsAndIndices(t *testing.T) {
	p := Path{Field("quote"), Index(2), Field("price")}
	require.Equal(t, ".quote[2].price", p.String())
}
