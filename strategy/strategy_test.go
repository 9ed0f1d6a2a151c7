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

package strategy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tsgraph/core/config"
	"github.com/tsgraph/core/container"
	"github.com/tsgraph/core/internal/xerrors"
	"github.com/tsgraph/core/scheduler"
	"github.com/tsgraph/core/tsmeta"
	"github.com/tsgraph/core/tsvalue"
	"github.com/tsgraph/core/typemeta"
)

type countingOwner struct{ notified []scheduler.Time }

func (c *countingOwner) Notify(t scheduler.Time) { c.notified = append(c.notified, t) }

func newRegs() (*typemeta.Registry, *tsmeta.Registry) {
	return typemeta.NewRegistry(), tsmeta.NewRegistry()
}

func TestBuildDirectOnIdenticalScalarSchema(t *testing.T) {
	typeReg, tsReg := newRegs()
	ts := tsmeta.TS(tsReg, typemeta.Int64)
	output := tsvalue.New(typeReg, tsReg, ts, config.Default())
	owner := &countingOwner{}

	strat, err := Build(ts, output, owner)
	require.NoError(t, err)
	_, ok := strat.(*Direct)
	require.True(t, ok, "identical scalar schemas bind Direct")

	output.Set(1, int64(7))
	strat.Activate()
	v, err := strat.Value()
	require.NoError(t, err)
	require.Equal(t, int64(7), v)
	require.True(t, strat.ModifiedAt(1))
}

func TestBuildSchemaMismatchReported(t *testing.T) {
	typeReg, tsReg := newRegs()
	intTS := tsmeta.TS(tsReg, typemeta.Int64)
	strTS := tsmeta.TS(tsReg, typemeta.String)
	output := tsvalue.New(typeReg, tsReg, strTS, config.Default())

	_, err := Build(intTS, output, nil)
	require.ErrorIs(t, err, xerrors.ErrSchemaMismatch)
}

func TestBuildBundleCollectionRecursesPerField(t *testing.T) {
	typeReg, tsReg := newRegs()
	fields := []tsmeta.TSField{
		{Name: "bid", TS: tsmeta.TS(tsReg, typemeta.Int64)},
		{Name: "ask", TS: tsmeta.TS(tsReg, typemeta.Int64)},
	}
	bundleTS, err := tsmeta.TSB(tsReg, "quote", fields)
	require.NoError(t, err)
	// The output's "ask" field is a REF, so the two bundle schemas differ
	// in one field and Build recurses per field instead of binding Direct.
	outputTS, err := tsmeta.TSB(tsReg, "quote_ref", []tsmeta.TSField{
		{Name: "bid", TS: tsmeta.TS(tsReg, typemeta.Int64)},
		{Name: "ask", TS: tsmeta.REF(tsReg, tsmeta.TS(tsReg, typemeta.Int64))},
	})
	require.NoError(t, err)
	output := tsvalue.New(typeReg, tsReg, outputTS, config.Default())
	owner := &countingOwner{}

	strat, err := Build(bundleTS, output, owner)
	require.NoError(t, err)
	coll, ok := strat.(*Collection)
	require.True(t, ok)
	require.Len(t, coll.Children(), 2)

	output.Field("bid").Set(5, int64(100))
	strat.Activate()
	require.True(t, strat.ModifiedAt(5))
}

func TestBuildRefObserverRebindsOnTargetChange(t *testing.T) {
	typeReg, tsReg := newRegs()
	elemTS := tsmeta.TS(tsReg, typemeta.Int64)
	refTS := tsmeta.REF(tsReg, elemTS)
	refOutput := tsvalue.New(typeReg, tsReg, refTS, config.Default())
	owner := &countingOwner{}

	strat, err := Build(elemTS, refOutput, owner)
	require.NoError(t, err)
	ro, ok := strat.(*RefObserver)
	require.True(t, ok)
	require.Nil(t, ro.Bound())

	targetA := tsvalue.New(typeReg, tsReg, elemTS, config.Default())
	targetA.Set(1, int64(11))
	refOutput.RefBind(2, targetA, nil)

	require.NotNil(t, ro.Bound())
	require.Equal(t, targetA, ro.Bound())
	require.Len(t, owner.notified, 1)
	require.Equal(t, scheduler.Time(2), owner.notified[0])

	targetB := tsvalue.New(typeReg, tsReg, elemTS, config.Default())
	targetB.Set(3, int64(22))
	refOutput.RefBind(3, targetB, nil)

	require.Equal(t, targetB, ro.Bound())
	require.Len(t, owner.notified, 2)
}

func TestBuildRefObserverUnresolvedTargetIsNotAnError(t *testing.T) {
	typeReg, tsReg := newRegs()
	elemTS := tsmeta.TS(tsReg, typemeta.Int64)
	refTS := tsmeta.REF(tsReg, elemTS)
	refOutput := tsvalue.New(typeReg, tsReg, refTS, config.Default())

	ro, err := newRefObserver(elemTS, refOutput, nil)
	require.NoError(t, err)
	require.Nil(t, ro.LastError())
	require.Nil(t, ro.Bound())
}

func TestBuildRefObserverTargetResolutionFailure(t *testing.T) {
	typeReg, tsReg := newRegs()
	elemTS := tsmeta.TS(tsReg, typemeta.Int64)
	refTS := tsmeta.REF(tsReg, elemTS)
	refOutput := tsvalue.New(typeReg, tsReg, refTS, config.Default())

	ro, err := newRefObserver(elemTS, refOutput, nil)
	require.NoError(t, err)

	refOutput.RefBind(1, "not-a-tsvalue", nil)
	require.ErrorIs(t, ro.LastError(), xerrors.ErrTargetResolutionFailed)
}

func TestBuildRefWrapperWrapsNonRefOutput(t *testing.T) {
	typeReg, tsReg := newRegs()
	elemTS := tsmeta.TS(tsReg, typemeta.Int64)
	refTS := tsmeta.REF(tsReg, elemTS)
	target := tsvalue.New(typeReg, tsReg, elemTS, config.Default())
	target.Set(1, int64(9))

	strat, err := Build(refTS, target, nil)
	require.NoError(t, err)
	wrapper, ok := strat.(*RefWrapper)
	require.True(t, ok)

	v, err := wrapper.Value()
	require.NoError(t, err)
	ref, ok := v.(*container.Reference)
	require.True(t, ok)
	require.Equal(t, container.RefBound, ref.State)
	require.Equal(t, target, ref.Target)
}

func TestBuildListCollectionDirectOnIdenticalSchema(t *testing.T) {
	typeReg, tsReg := newRegs()
	elemTS := tsmeta.TS(tsReg, typemeta.Int64)
	listTS := tsmeta.TSL(tsReg, elemTS, 3)
	output := tsvalue.New(typeReg, tsReg, listTS, config.Default())
	require.NoError(t, output.ListSetAt(1, 0, int64(42)))

	owner := &countingOwner{}
	strat, err := Build(listTS, output, owner)
	require.NoError(t, err)
	_, ok := strat.(*Direct)
	require.True(t, ok, "identical list schema and size binds Direct")

	v, err := strat.Value()
	require.NoError(t, err)
	require.Nil(t, v, "Direct has no single scalar for a composite kind")
}

// Element has no independent TSValue of its own: a non-peered list shares
// one overlay across every index, so reads and subscriptions both go
// through the parent (spec.md §4.H variant 3).
func TestElementReadsAndSubscribesThroughParent(t *testing.T) {
	typeReg, tsReg := newRegs()
	elemTS := tsmeta.TS(tsReg, typemeta.Int64)
	listTS := tsmeta.TSL(tsReg, elemTS, 3)
	parent := tsvalue.New(typeReg, tsReg, listTS, config.Default())
	require.NoError(t, parent.ListSetAt(1, 2, int64(99)))

	owner := &countingOwner{}
	e := &Element{parent: parent, index: 2, owner: owner}
	require.Nil(t, e.Bound())
	v, err := e.Value()
	require.NoError(t, err)
	require.Equal(t, int64(99), v)

	e.Activate()
	require.NoError(t, parent.ListSetAt(4, 0, int64(1)))
	require.True(t, e.ModifiedAt(4), "index 0's change is observed through the shared list overlay")
}
