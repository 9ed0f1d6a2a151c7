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

package tsvalue

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tsgraph/core/config"
	"github.com/tsgraph/core/tsmeta"
	"github.com/tsgraph/core/typemeta"
)

func newRegs() (*typemeta.Registry, *tsmeta.Registry) {
	return typemeta.NewRegistry(), tsmeta.NewRegistry()
}

func TestScalarSetMarksModified(t *testing.T) {
	typeReg, tsReg := newRegs()
	meta := tsmeta.TS(tsReg, typemeta.Int64)
	v := New(typeReg, tsReg, meta, config.Default())

	require.False(t, v.HasValue())
	v.Set(5, int64(42))
	require.True(t, v.HasValue())
	require.True(t, v.ModifiedAt(5))
	require.Equal(t, int64(42), v.Get())
}

func TestBundlePartialFieldModification(t *testing.T) {
	typeReg, tsReg := newRegs()
	fields := []tsmeta.TSField{
		{Name: "price", TS: tsmeta.TS(tsReg, typemeta.Int64)},
		{Name: "size", TS: tsmeta.TS(tsReg, typemeta.Int64)},
	}
	bundleMeta, err := tsmeta.TSB(tsReg, "quote", fields)
	require.NoError(t, err)
	v := New(typeReg, tsReg, bundleMeta, config.Default())

	price := v.Field("price")
	require.NotNil(t, price)
	price.Set(10, int64(100))

	require.True(t, v.ModifiedAt(10), "parent bundle observes child field modification")
	require.False(t, v.Field("size").ModifiedAt(10), "untouched sibling field stays unmodified")
	require.True(t, v.Field("size").LastModifiedTime() < 10)
}

func TestSetAddRemoveZeroNetCancellation(t *testing.T) {
	typeReg, tsReg := newRegs()
	meta := tsmeta.TSS(tsReg, typemeta.String)
	v := New(typeReg, tsReg, meta, config.Default())

	inserted := v.SetAdd(1, "alice")
	require.True(t, inserted)
	require.True(t, v.SetContains("alice"))

	removed := v.SetRemove(1, "alice")
	require.True(t, removed)

	delta := v.SetDelta()
	require.Empty(t, delta.Added, "insert-then-erase within one tick cancels out of the added delta")
	require.Empty(t, delta.Removed, "insert-then-erase within one tick cancels out of the removed delta")
	require.False(t, v.ModifiedAt(1), "a fully-cancelled pair never advances the overlay timestamp")
}

func TestSetEraseThenInsertRecordsBoth(t *testing.T) {
	typeReg, tsReg := newRegs()
	meta := tsmeta.TSS(tsReg, typemeta.String)
	v := New(typeReg, tsReg, meta, config.Default())

	v.SetAdd(1, "bob")

	v.SetRemove(2, "bob")
	v.SetAdd(2, "bob")

	delta := v.SetDelta()
	require.Contains(t, delta.Added, "bob")
	require.Contains(t, delta.Removed, "bob")
	require.True(t, v.ModifiedAt(2))
}

func TestDictKeyAddedAndBufferedRemoval(t *testing.T) {
	typeReg, tsReg := newRegs()
	valueTS := tsmeta.TS(tsReg, typemeta.Int64)
	meta := tsmeta.TSD(tsReg, typemeta.String, valueTS)
	v := New(typeReg, tsReg, meta, config.Default())

	child := v.DictGetOrCreate(1, "AAPL")
	child.Set(1, int64(150))

	require.True(t, v.DictWasKeyAdded("AAPL"))
	got, ok := v.DictGet("AAPL")
	require.True(t, ok)
	require.Equal(t, int64(150), got.Get())

	ok = v.DictDelete(2, "AAPL")
	require.True(t, ok)
	delta := v.DictDelta()
	require.Contains(t, delta.Removed, "AAPL")
	require.Equal(t, 0, v.DictLen())
}

func TestWindowEvictsBySize(t *testing.T) {
	typeReg, tsReg := newRegs()
	meta := tsmeta.TSW(tsReg, typemeta.Int64, 3, 0, 0)
	v := New(typeReg, tsReg, meta, config.Default())

	v.WindowPush(1, int64(10))
	v.WindowPush(2, int64(20))
	v.WindowPush(3, int64(30))
	v.WindowPush(4, int64(40))

	w := v.Window()
	require.Equal(t, 3, w.Len())
	oldest, ok := w.Oldest()
	require.True(t, ok)
	require.Equal(t, int64(20), oldest.Value)
	newest, ok := w.Newest()
	require.True(t, ok)
	require.Equal(t, int64(40), newest.Value)
}

func TestRefBindMarksModified(t *testing.T) {
	typeReg, tsReg := newRegs()
	target := tsmeta.TS(tsReg, typemeta.Int64)
	meta := tsmeta.REF(tsReg, target)
	v := New(typeReg, tsReg, meta, config.Default())

	require.False(t, v.HasValue())
	v.RefBind(3, "some-output-handle", nil)
	require.True(t, v.ModifiedAt(3))
	require.Equal(t, "some-output-handle", v.Reference().Target)
}

func TestListSetAtMarksSharedNonPeeredOverlay(t *testing.T) {
	typeReg, tsReg := newRegs()
	elem := tsmeta.TS(tsReg, typemeta.Int64)
	meta := tsmeta.TSL(tsReg, elem, 4)
	v := New(typeReg, tsReg, meta, config.Default())

	require.Equal(t, 4, v.ListLen())
	err := v.ListSetAt(1, 2, int64(7))
	require.NoError(t, err)
	require.True(t, v.ModifiedAt(1), "list overlay is a single shared flag, not per-element")
}
