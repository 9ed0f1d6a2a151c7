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

// Package port implements the producer/consumer facades (spec.md §4.I):
// TSOutput owns a tsvalue.TSValue and exposes mutation/subscription;
// TSInput owns a strategy.Strategy root bound to some output, with its
// own active/passive flag and a pointer to its owning node.
package port

import (
	logpkg "github.com/erigontech/erigon-lib/log/v3"

	"github.com/tsgraph/core/config"
	"github.com/tsgraph/core/scheduler"
	"github.com/tsgraph/core/tsmeta"
	"github.com/tsgraph/core/tsvalue"
	"github.com/tsgraph/core/typemeta"
)

var log = logpkg.New("pkg", "port")

// TSOutput is exclusively owned by the node that produces it (spec.md
// §5: "Outputs are exclusively owned by their producing node").
type TSOutput struct {
	value   *tsvalue.TSValue
	owner   scheduler.Notifiable
	typeReg *typemeta.Registry
	tsReg   *tsmeta.Registry
	opts    config.Options

	alternatives []*alternative
}

// MakeOutput constructs a TSOutput of schema ts owned by owner (spec.md
// §6: "make_output(TSMeta*, owner) -> TSOutput").
func MakeOutput(typeReg *typemeta.Registry, tsReg *tsmeta.Registry, ts *tsmeta.TSMeta, owner scheduler.Notifiable, opts config.Options) *TSOutput {
	return &TSOutput{
		value:   tsvalue.New(typeReg, tsReg, ts, opts),
		owner:   owner,
		typeReg: typeReg,
		tsReg:   tsReg,
		opts:    opts,
	}
}

// View returns the backing TSValue if it was modified at exactly t, nil
// otherwise, matching the read-at-a-tick contract overlays expose
// (spec.md §6: "TSOutput::view(t)").
func (o *TSOutput) View(t scheduler.Time) *tsvalue.TSValue {
	if !o.value.ModifiedAt(t) {
		return nil
	}
	return o.value
}

// Value returns the backing TSValue unconditionally, for callers (e.g.
// strategy.Build) that need to navigate or bind against it regardless of
// whether it was modified at any particular tick.
func (o *TSOutput) Value() *tsvalue.TSValue { return o.value }

// SetValue writes a new scalar value at t (spec.md §6:
// "TSOutput::set_value(t, v)"); only meaningful for TS-kind outputs,
// matching TSValue.Set's own contract.
func (o *TSOutput) SetValue(t scheduler.Time, v any) { o.value.Set(t, v) }

// Subscribe registers n against the output's top-level overlay (spec.md
// §6: "TSOutput::subscribe(Notifiable*)").
func (o *TSOutput) Subscribe(n scheduler.Notifiable) { o.value.Overlay.Observers().Add(n) }

// Unsubscribe removes a previously registered subscriber.
func (o *TSOutput) Unsubscribe(n scheduler.Notifiable) { o.value.Overlay.Observers().Remove(n) }

// Alternative synthesises (or returns the already-built) parallel view of
// this output in a foreign schema ts, structurally mirroring key
// add/remove so e.g. TSD[str, TS[int]] and TSD[str, REF[TS[int]]] stay in
// sync (spec.md §4.I).
func (o *TSOutput) Alternative(ts *tsmeta.TSMeta) (*TSOutput, error) {
	for _, alt := range o.alternatives {
		if alt.ts == ts {
			return alt.output, nil
		}
	}
	alt, err := newAlternative(o, ts)
	if err != nil {
		return nil, err
	}
	o.alternatives = append(o.alternatives, alt)
	return alt.output, nil
}
