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

// Package overlay implements the parallel per-element timestamp /
// observer / delta tree that sits alongside container storage (spec.md
// §3, §4.E): one overlay variant per TSMeta kind, each tracking
// last_modified_time, a lazily-allocated observer list, an optional
// parent backpointer for upward propagation, and kind-specific deltas.
package overlay

import (
	logpkg "github.com/erigontech/erigon-lib/log/v3"

	"github.com/tsgraph/core/observer"
	"github.com/tsgraph/core/scheduler"
)

var log = logpkg.New("pkg", "overlay")

// Overlay is the contract every kind-specific overlay satisfies (spec.md
// §4.E, §8 universal invariants).
type Overlay interface {
	// LastModifiedTime returns the overlay's own monotonic timestamp.
	LastModifiedTime() scheduler.Time
	// ModifiedAt reports last_modified_time == t.
	ModifiedAt(t scheduler.Time) bool
	// HasValue reports last_modified_time > MinTime.
	HasValue() bool
	// MarkModified sets local timestamp to max(current, t), propagates to
	// the parent chain if it advanced, then notifies this level's
	// observers (spec.md §4.E).
	MarkModified(t scheduler.Time)
	// MarkInvalid sets local timestamp to the sentinel MinTime without
	// propagating (spec.md §4.E: "invalidation is local").
	MarkInvalid()
	// Observers returns this level's subscriber list.
	Observers() *observer.List
	// SetParent wires the upward-propagation backpointer.
	SetParent(p Overlay)
	// Parent returns the upward-propagation backpointer, nil at the root.
	Parent() Overlay
}

// base is the shared state and mark_modified/mark_invalid mechanics
// every concrete overlay embeds (spec.md §4.E, §9: "represent the parent
// link as a raw back-pointer").
type base struct {
	lastModified scheduler.Time
	parent       Overlay
	observers    observer.List
}

func newBase() base { return base{lastModified: scheduler.MinTime} }

func (b *base) LastModifiedTime() scheduler.Time { return b.lastModified }
func (b *base) ModifiedAt(t scheduler.Time) bool { return b.lastModified == t }
func (b *base) HasValue() bool                   { return b.lastModified > scheduler.MinTime }
func (b *base) Observers() *observer.List        { return &b.observers }
func (b *base) SetParent(p Overlay)              { b.parent = p }
func (b *base) Parent() Overlay                  { return b.parent }

// markModified implements the shared spec.md §4.E mark_modified
// contract. It is called by every concrete overlay's own MarkModified so
// that Overlay's dynamic type (not base) is what observers see, even
// though observers here only receive a timestamp, not the overlay.
func (b *base) markModified(t scheduler.Time) {
	if b.lastModified < t {
		b.lastModified = t
		if b.parent != nil {
			b.parent.MarkModified(t)
		}
	}
	b.observers.Notify(t)
}

func (b *base) markInvalid() { b.lastModified = scheduler.MinTime }

// ScalarOverlay is the overlay for TS (REF and SIGNAL have their own
// RefOverlay and SignalOverlay): no delta beyond "modified at this tick"
// (spec.md §4.F: "Scalar/bundle/list/window: delta is modified at this
// tick with current value").
type ScalarOverlay struct{ base }

// NewScalarOverlay constructs a fresh, never-modified scalar overlay.
func NewScalarOverlay() *ScalarOverlay { return &ScalarOverlay{base: newBase()} }

func (o *ScalarOverlay) MarkModified(t scheduler.Time) { o.markModified(t) }
func (o *ScalarOverlay) MarkInvalid()                  { o.markInvalid() }

// BundleOverlay is the overlay for TSB: a peered composite whose named
// children are independently overlaid, with this level aggregating
// "was this bundle or any descendant modified" via normal parent
// propagation (spec.md §4.E, §8 scenario 3).
type BundleOverlay struct {
	base
	Fields map[string]Overlay
	Order  []string
}

// NewBundleOverlay constructs a bundle overlay with child overlays
// already built and parented to it; fieldOrder controls Order's
// iteration order for deterministic diagnostics.
func NewBundleOverlay(children map[string]Overlay, fieldOrder []string) *BundleOverlay {
	b := &BundleOverlay{base: newBase(), Fields: children, Order: fieldOrder}
	for _, name := range fieldOrder {
		children[name].SetParent(b)
	}
	return b
}

func (o *BundleOverlay) MarkModified(t scheduler.Time) { o.markModified(t) }
func (o *BundleOverlay) MarkInvalid()                  { o.markInvalid() }

// Field returns the named child overlay, nil if absent.
func (o *BundleOverlay) Field(name string) Overlay { return o.Fields[name] }

// ListOverlay is the overlay for TSL: non-peered (GLOSSARY), a single
// shared "modified at this tick" flag with no per-element tracking -
// element-level access goes through strategy.Element's read-time
// navigation instead (spec.md §4.H).
type ListOverlay struct{ base }

// NewListOverlay constructs a fresh, never-modified list overlay.
func NewListOverlay() *ListOverlay { return &ListOverlay{base: newBase()} }

func (o *ListOverlay) MarkModified(t scheduler.Time) { o.markModified(t) }
func (o *ListOverlay) MarkInvalid()                  { o.markInvalid() }

// SignalOverlay is the overlay for SIGNAL: a pure edge-trigger with no
// payload at all, still a full Overlay so it composes with the same
// observer/subscription machinery as every other kind.
type SignalOverlay struct{ base }

// NewSignalOverlay constructs a fresh, never-fired signal overlay.
func NewSignalOverlay() *SignalOverlay { return &SignalOverlay{base: newBase()} }

func (o *SignalOverlay) MarkModified(t scheduler.Time) { o.markModified(t) }
func (o *SignalOverlay) MarkInvalid()                  { o.markInvalid() }

// RefOverlay is the overlay for REF: mark_modified semantics identical
// to ScalarOverlay (spec.md §3: "Changing a reference marks the REF
// output modified"); kept as a distinct named type so call sites read
// as REF-specific even though the mechanics are shared.
type RefOverlay struct{ base }

// NewRefOverlay constructs a fresh, never-modified reference overlay.
func NewRefOverlay() *RefOverlay { return &RefOverlay{base: newBase()} }

func (o *RefOverlay) MarkModified(t scheduler.Time) { o.markModified(t) }
func (o *RefOverlay) MarkInvalid()                  { o.markInvalid() }
