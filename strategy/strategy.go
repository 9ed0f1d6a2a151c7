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

// Package strategy implements the access-strategy binding machine
// (spec.md §4.H): given a pair of TSMeta schemas (input, output), Build
// walks them in parallel and returns a tree of strategy nodes that knows
// how to read the output's value as the input's schema, subscribe when
// active, and unbind cleanly.
package strategy

import (
	"fmt"

	"github.com/pkg/errors"

	logpkg "github.com/erigontech/erigon-lib/log/v3"

	"github.com/tsgraph/core/internal/xerrors"
	"github.com/tsgraph/core/scheduler"
	"github.com/tsgraph/core/tsmeta"
	"github.com/tsgraph/core/tsvalue"
)

var log = logpkg.New("pkg", "strategy")

// Strategy is the contract every bound-access node satisfies (spec.md
// §4.H). Bound returns the underlying TSValue for strategies whose value
// is itself a peered TSValue (Direct, Collection, RefObserver once
// resolved); it is nil for Element, whose value is a raw element inside
// a non-peered collection with no independent TSValue of its own - such
// strategies are read through Value() instead.
type Strategy interface {
	Activate()
	Deactivate()
	Bound() *tsvalue.TSValue
	Value() (any, error)
	ModifiedAt(t scheduler.Time) bool
	Unbind()
}

func schemaMismatch(inputTS, outputTS *tsmeta.TSMeta, reason string) error {
	return errors.WithStack(fmt.Errorf("%w: input=%s output=%s: %s", xerrors.ErrSchemaMismatch, inputTS.String(), outputTS.String(), reason))
}

// Build walks inputTS against output's schema per the deterministic
// algorithm in spec.md §4.H and returns the strategy tree bound to
// output. owner receives Notify(t) from any strategy level that needs to
// tell the input's owning node about an out-of-band structural change
// (currently only RefObserver, on rebind).
//
// Build takes the concrete bound *tsvalue.TSValue rather than a second
// bare TSMeta (spec.md §4.H's signature is schema-only) because every
// concrete strategy needs the live output to subscribe to or navigate,
// not just its shape; output.Meta already carries the schema the
// algorithm switches on.
func Build(inputTS *tsmeta.TSMeta, output *tsvalue.TSValue, owner scheduler.Notifiable) (Strategy, error) {
	outputTS := output.Meta
	deref := tsmeta.Dereference(outputTS)

	switch {
	case outputTS.Kind == tsmeta.KindREF && inputTS.Kind != tsmeta.KindREF:
		return newRefObserver(inputTS, output, owner)

	case inputTS == deref && inputTS.Kind != tsmeta.KindREF:
		return &Direct{output: output, owner: owner}, nil

	case inputTS.Kind == tsmeta.KindREF && outputTS.Kind != tsmeta.KindREF:
		return newRefWrapper(inputTS, output)

	case inputTS.Kind == tsmeta.KindTSB && outputTS.Kind == tsmeta.KindTSB:
		return buildBundleCollection(inputTS, output, owner)

	case inputTS.Kind == tsmeta.KindTSL && outputTS.Kind == tsmeta.KindTSL:
		return buildListCollection(inputTS, output, owner)

	default:
		return nil, schemaMismatch(inputTS, outputTS, "no binding rule applies")
	}
}

// Direct binds an input directly to an output whose schema matches
// exactly (spec.md §4.H variant 1): subscribes to the bound output only
// while active, reads values straight through.
type Direct struct {
	output *tsvalue.TSValue
	owner  scheduler.Notifiable
	active bool
}

func (d *Direct) Activate() {
	if d.active {
		return
	}
	d.output.Overlay.Observers().Add(d.owner)
	d.active = true
}

func (d *Direct) Deactivate() {
	if !d.active {
		return
	}
	d.output.Overlay.Observers().Remove(d.owner)
	d.active = false
}

func (d *Direct) Bound() *tsvalue.TSValue { return d.output }

// Value returns the bound scalar for TS-kind bindings; for composite
// kinds bound whole (e.g. an identical TSB or TSL) callers should read
// through Bound() instead, since there is no single scalar to return.
func (d *Direct) Value() (any, error) {
	if d.output.Meta.Kind == tsmeta.KindTS {
		return d.output.Get(), nil
	}
	return nil, nil
}

func (d *Direct) ModifiedAt(t scheduler.Time) bool { return d.output.ModifiedAt(t) }

func (d *Direct) Unbind() { d.Deactivate() }
