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

package port

import (
	"github.com/pkg/errors"

	"github.com/tsgraph/core/scheduler"
	"github.com/tsgraph/core/tsmeta"
)

// alternative is a parallel TSD view of a native TSD output, keyed the
// same but holding a REF to each native child instead of the child
// itself (spec.md §4.I: "an alternative is a parallel TSValue whose
// leaves are links back to the native value"). Rather than registering a
// container.SlotObserver directly against the native key Set - which
// fires mid-mutation with no tick time available - the alternative
// subscribes like any other consumer and resyncs from the native
// output's own per-tick key delta, which already carries the time the
// delta was recorded against (a documented Go re-architecture, see
// DESIGN.md).
type alternative struct {
	ts     *tsmeta.TSMeta
	native *TSOutput
	output *TSOutput
}

func newAlternative(native *TSOutput, ts *tsmeta.TSMeta) (*alternative, error) {
	nativeTS := native.value.Meta
	if nativeTS.Kind != tsmeta.KindTSD || ts.Kind != tsmeta.KindTSD {
		return nil, errors.Errorf("port: alternative views are only defined between TSD schemas, got %s -> %s", nativeTS.Kind, ts.Kind)
	}
	if nativeTS.Key != ts.Key {
		return nil, errors.Errorf("port: alternative key schema must match the native key schema")
	}
	if tsmeta.Dereference(ts.Elem) != nativeTS.Elem {
		return nil, errors.Errorf("port: alternative element schema must be a reference to the native element schema")
	}

	alt := &alternative{
		ts:     ts,
		native: native,
		output: MakeOutput(native.typeReg, native.tsReg, ts, native.owner, native.opts),
	}
	alt.seed(native.value.LastModifiedTime())
	native.Subscribe(alt)
	return alt, nil
}

// seed mirrors every key already live in the native TSD at construction
// time, since the subscription only sees changes from this point on.
func (a *alternative) seed(t scheduler.Time) {
	for _, key := range a.native.value.DictKeys() {
		a.bind(t, key)
	}
}

func (a *alternative) bind(t scheduler.Time, key any) {
	child, ok := a.native.value.DictGet(key)
	if !ok {
		return
	}
	altChild := a.output.value.DictGetOrCreate(t, key)
	altChild.RefBind(t, child, nil)
}

// Notify implements scheduler.Notifiable: the alternative is a regular
// subscriber of the native output's overlay, so it resyncs from the
// native TSD's delta on every tick the native value changed.
func (a *alternative) Notify(t scheduler.Time) {
	delta := a.native.value.DictDelta()
	for _, key := range delta.Added {
		a.bind(t, key)
	}
	for _, key := range delta.Updated {
		a.bind(t, key)
	}
	for _, key := range delta.Removed {
		a.output.value.DictDelete(t, key)
	}
}
