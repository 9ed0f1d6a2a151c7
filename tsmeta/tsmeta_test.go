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

package tsmeta

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tsgraph/core/internal/xerrors"
	"github.com/tsgraph/core/typemeta"
)

func TestTSInternsByStructuralIdentity(t *testing.T) {
	reg := NewRegistry()
	a := TS(reg, typemeta.Int64)
	b := TS(reg, typemeta.Int64)
	require.Same(t, a, b, "two TS(Int64) calls intern to the same pointer")

	c := TS(reg, typemeta.String)
	require.NotSame(t, a, c)
}

func TestTSBRejectsNameReboundToDifferentStructure(t *testing.T) {
	reg := NewRegistry()
	fieldsA := []TSField{{Name: "bid", TS: TS(reg, typemeta.Int64)}}
	fieldsB := []TSField{{Name: "ask", TS: TS(reg, typemeta.Int64)}}

	_, err := TSB(reg, "quote", fieldsA)
	require.NoError(t, err)

	_, err = TSB(reg, "quote", fieldsB)
	require.ErrorIs(t, err, xerrors.ErrSchemaAlreadyRegistered)
}

func TestTSBReregisteringSameNameAndStructureReturnsSamePointer(t *testing.T) {
	reg := NewRegistry()
	fields := []TSField{{Name: "bid", TS: TS(reg, typemeta.Int64)}}

	a, err := TSB(reg, "quote", fields)
	require.NoError(t, err)
	b, err := TSB(reg, "quote", fields)
	require.NoError(t, err)
	require.Same(t, a, b)
}

func TestTSLInternsBySizeAndElement(t *testing.T) {
	reg := NewRegistry()
	elem := TS(reg, typemeta.Int64)
	a := TSL(reg, elem, 3)
	b := TSL(reg, elem, 3)
	require.Same(t, a, b)

	c := TSL(reg, elem, 4)
	require.NotSame(t, a, c)

	dyn := TSL(reg, elem, 0)
	require.NotSame(t, a, dyn)
}

func TestTSDInternsByKeyAndElement(t *testing.T) {
	reg := NewRegistry()
	elem := TS(reg, typemeta.Int64)
	a := TSD(reg, typemeta.String, elem)
	b := TSD(reg, typemeta.String, elem)
	require.Same(t, a, b)

	c := TSD(reg, typemeta.Int64, elem)
	require.NotSame(t, a, c)
}

func TestREFInternsByTarget(t *testing.T) {
	reg := NewRegistry()
	target := TS(reg, typemeta.Int64)
	a := REF(reg, target)
	b := REF(reg, target)
	require.Same(t, a, b)
	require.True(t, IsRef(a))
	require.False(t, IsRef(target))
}

func TestSIGNALIsASingletonAcrossCalls(t *testing.T) {
	reg := NewRegistry()
	a := SIGNAL(reg)
	b := SIGNAL(reg)
	require.Same(t, a, b)
	require.True(t, IsSignal(a))
}

func TestDereferenceStripsLeadingRefLayersRecursively(t *testing.T) {
	reg := NewRegistry()
	elem := TS(reg, typemeta.Int64)
	ref1 := REF(reg, elem)
	ref2 := REF(reg, ref1)

	require.Same(t, elem, Dereference(ref2))
	require.Same(t, elem, Dereference(ref1))
	require.Same(t, elem, Dereference(elem), "dereferencing a non-REF schema is a no-op")
}

func TestValueSchemaFlattensNonPeeredComposites(t *testing.T) {
	typeReg := typemeta.NewRegistry()
	reg := NewRegistry()

	elem := TS(reg, typemeta.Int64)
	listTS := TSL(reg, elem, 3)
	listSchema := ValueSchema(typeReg, listTS)
	require.Equal(t, typemeta.KindList, listSchema.Kind)
	require.Same(t, typemeta.Int64, listSchema.Elem)

	dictTS := TSD(reg, typemeta.String, elem)
	dictSchema := ValueSchema(typeReg, dictTS)
	require.Equal(t, typemeta.KindMap, dictSchema.Kind)
	require.Same(t, typemeta.String, dictSchema.Key)

	refTS := REF(reg, elem)
	refSchema := ValueSchema(typeReg, refTS)
	require.Equal(t, typemeta.KindRef, refSchema.Kind)

	require.Nil(t, ValueSchema(typeReg, SIGNAL(reg)), "SIGNAL carries no runtime payload")
}

func TestTSMetaStringRendersEachKind(t *testing.T) {
	reg := NewRegistry()
	elem := TS(reg, typemeta.Int64)

	require.Equal(t, "TS["+typemeta.Int64.String()+"]", elem.String())
	require.Equal(t, "REF[TS["+typemeta.Int64.String()+"]]", REF(reg, elem).String())
	require.Equal(t, "TSL[TS["+typemeta.Int64.String()+"],3]", TSL(reg, elem, 3).String())
	require.Equal(t, "TSD["+typemeta.String.String()+",TS["+typemeta.Int64.String()+"]]", TSD(reg, typemeta.String, elem).String())
}

func TestLookupByName(t *testing.T) {
	reg := NewRegistry()
	fields := []TSField{{Name: "bid", TS: TS(reg, typemeta.Int64)}}
	registered, err := TSB(reg, "quote", fields)
	require.NoError(t, err)

	found, ok := reg.Lookup("quote")
	require.True(t, ok)
	require.Same(t, registered, found)

	_, ok = reg.Lookup("missing")
	require.False(t, ok)
}
