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

	"github.com/tsgraph/core/internal/xerrors"
	"github.com/tsgraph/core/scheduler"
	"github.com/tsgraph/core/strategy"
	"github.com/tsgraph/core/tsmeta"
	"github.com/tsgraph/core/tsvalue"
	"github.com/tsgraph/core/typemeta"
)

// TSInput binds to exactly one TSOutput at a time through a
// strategy.Strategy root (spec.md §4.H, §6). An input starts passive: its
// strategy tree is built on bind but does not subscribe to anything until
// MakeActive is called, matching the teacher's lazy-subscription
// convention for consumer-side wiring.
type TSInput struct {
	ts    *tsmeta.TSMeta
	owner scheduler.Notifiable

	strat  strategy.Strategy
	active bool

	typeReg *typemeta.Registry
	tsReg   *tsmeta.Registry
}

// MakeInput constructs an unbound TSInput of schema ts, owned by owner
// (spec.md §6: "make_input(TSMeta*, owner) -> TSInput"). owner receives
// Notify(t) both for ordinary value changes on the bound output and for
// structural events a strategy raises out of band (currently only
// RefObserver, on target rebind).
func MakeInput(typeReg *typemeta.Registry, tsReg *tsmeta.Registry, ts *tsmeta.TSMeta, owner scheduler.Notifiable) *TSInput {
	return &TSInput{ts: ts, owner: owner, typeReg: typeReg, tsReg: tsReg}
}

// BindOutput builds a fresh strategy tree against output and replaces any
// previously bound strategy, carrying the input's current active/passive
// state across the rebind (spec.md §6: "TSInput::bind(TSOutput*)").
func (in *TSInput) BindOutput(output *TSOutput) error {
	strat, err := strategy.Build(in.ts, output.value, in.owner)
	if err != nil {
		return errors.Wrap(err, "port: bind input")
	}
	wasActive := in.active
	in.UnbindOutput()
	in.strat = strat
	if wasActive {
		in.strat.Activate()
		in.active = true
	}
	return nil
}

// UnbindOutput releases the current strategy tree, if any, leaving the
// input passive and unbound.
func (in *TSInput) UnbindOutput() {
	if in.strat != nil {
		in.strat.Unbind()
		in.strat = nil
	}
	in.active = false
}

// MakeActive subscribes the input's strategy tree to its bound output, a
// no-op if unbound (spec.md §6: "TSInput::make_active()").
func (in *TSInput) MakeActive() {
	if in.strat == nil || in.active {
		return
	}
	in.strat.Activate()
	in.active = true
}

// MakePassive unsubscribes without discarding the binding, so the input
// can be reactivated later without rebuilding its strategy tree.
func (in *TSInput) MakePassive() {
	if in.strat == nil || !in.active {
		return
	}
	in.strat.Deactivate()
	in.active = false
}

// Active reports whether the input is currently subscribed.
func (in *TSInput) Active() bool { return in.active }

// Bound reports whether the input currently has a strategy bound, whether
// or not it is active.
func (in *TSInput) Bound() bool { return in.strat != nil }

// View returns the strategy's underlying TSValue, nil for strategies with
// no independent backing value (Element) or when unbound.
func (in *TSInput) View() *tsvalue.TSValue {
	if in.strat == nil {
		return nil
	}
	return in.strat.Bound()
}

// Value returns the input's current value through its bound strategy,
// ErrUnboundInput if the input is not currently bound.
func (in *TSInput) Value() (any, error) {
	if in.strat == nil {
		return nil, errors.WithStack(xerrors.ErrUnboundInput)
	}
	return in.strat.Value()
}

// ModifiedAt reports whether the input's bound value changed at exactly
// t, false if unbound.
func (in *TSInput) ModifiedAt(t scheduler.Time) bool {
	if in.strat == nil {
		return false
	}
	return in.strat.ModifiedAt(t)
}
