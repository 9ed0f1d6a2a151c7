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

package view

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tsgraph/core/container"
	"github.com/tsgraph/core/internal/xerrors"
	"github.com/tsgraph/core/typemeta"
)

func TestInvalidViewPropagatesThroughNavigation(t *testing.T) {
	require.False(t, Invalid.Valid())
	require.False(t, Invalid.Field("x").Valid())
	require.False(t, Invalid.FieldAt(0).Valid())
	require.False(t, Invalid.Index(0).Valid())
	require.Nil(t, Invalid.Get())
}

func TestFieldNavigatesBundleRecord(t *testing.T) {
	schema := &typemeta.TypeMeta{
		Fields: []typemeta.Field{
			{Name: "bid", Type: typemeta.Int64},
			{Name: "ask", Type: typemeta.Int64},
		},
	}
	rec := container.NewRecord(schema)
	rec.Values[0] = int64(100)
	var boxed any = rec

	v := New(&boxed, schema, nil)
	bid := v.Field("bid")
	require.True(t, bid.Valid())
	require.Equal(t, int64(100), bid.Get())
	require.Equal(t, ".bid", bid.Path().String())

	require.False(t, v.Field("missing").Valid())
}

func TestIndexNavigatesList(t *testing.T) {
	listSchema := &typemeta.TypeMeta{Elem: typemeta.Int64, FixedSize: 3}
	l := container.NewList(listSchema)
	l.Items[1] = int64(42)
	var boxed any = l

	v := New(&boxed, listSchema, nil)
	elem := v.Index(1)
	require.True(t, elem.Valid())
	require.Equal(t, int64(42), elem.Get())
	require.Equal(t, "[1]", elem.Path().String())

	require.False(t, v.Index(9).Valid(), "out-of-range index is Invalid, not a panic")
}

func TestAsReturnsTypeMismatchOnWrongType(t *testing.T) {
	var boxed any = int64(5)
	v := New(&boxed, typemeta.Int64, nil)

	got, err := As[int64](v)
	require.NoError(t, err)
	require.Equal(t, int64(5), got)

	_, err = As[string](v)
	require.ErrorIs(t, err, xerrors.ErrTypeMismatch)

	_, err = As[int64](Invalid)
	require.ErrorIs(t, err, xerrors.ErrTypeMismatch)
}

func TestMutableSetOverwritesInPlace(t *testing.T) {
	var boxed any = int64(1)
	m := NewMutable(&boxed, typemeta.Int64, nil)
	m.Set(int64(99))
	require.Equal(t, int64(99), m.Get())

	Mutable{}.Set(int64(1)) // no-op on an invalid view, must not panic
}

func TestMutableFieldNavigationReturnsMutable(t *testing.T) {
	schema := &typemeta.TypeMeta{
		Fields: []typemeta.Field{{Name: "x", Type: typemeta.Int64}},
	}
	rec := container.NewRecord(schema)
	var boxed any = rec

	m := NewMutable(&boxed, schema, nil)
	child := m.Field("x")
	child.Set(int64(7))
	require.Equal(t, int64(7), rec.Values[0])
}
