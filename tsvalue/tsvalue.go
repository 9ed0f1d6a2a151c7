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

// Package tsvalue implements the union of container storage and overlay
// that is the primary unit owned by outputs (spec.md §3, §4.F): TSValue
// composes a container.* storage with a matching overlay.Overlay tree,
// exposing chainable navigation and modification queries. A TSB's fields
// are themselves recursively-built child TSValues (peered, per the
// GLOSSARY) rather than a single flat container.Record, so that each
// field keeps its own independently-subscribable overlay.
package tsvalue

import (
	logpkg "github.com/erigontech/erigon-lib/log/v3"

	"github.com/tsgraph/core/config"
	"github.com/tsgraph/core/container"
	"github.com/tsgraph/core/overlay"
	"github.com/tsgraph/core/scheduler"
	"github.com/tsgraph/core/tsmeta"
	"github.com/tsgraph/core/typemeta"
)

var log = logpkg.New("pkg", "tsvalue")

// TSValue is the runtime value behind a time-series output (spec.md
// §3 "TSValue", §4.F). At most one of the kind-specific payload fields
// is populated, selected by Meta.Kind; TSW and SIGNAL use none of them.
type TSValue struct {
	Meta    *tsmeta.TSMeta
	Overlay overlay.Overlay

	scalar any              // KindTS
	fields []*TSValue        // KindTSB, parallel to Meta.Fields
	list   *container.List   // KindTSL (non-peered, flattened)
	dict   *dictStorage      // KindTSD
	set    *container.Set    // KindTSS
	ref    *container.Reference // KindREF

	cachedEncoded []byte
	cacheValid    bool

	typeReg *typemeta.Registry
	tsReg   *tsmeta.Registry
	opts    config.Options
}

// New recursively constructs a TSValue for meta, wiring container storage
// and overlay together and registering any tick-boundary reclaim hooks
// the concrete kind needs (spec.md §4.F: "Construction: given a TSMeta,
// allocate container storage of the mapped value-schema and the matching
// overlay tree, linking parent pointers").
func New(typeReg *typemeta.Registry, tsReg *tsmeta.Registry, meta *tsmeta.TSMeta, opts config.Options) *TSValue {
	v := &TSValue{Meta: meta, typeReg: typeReg, tsReg: tsReg, opts: opts}
	switch meta.Kind {
	case tsmeta.KindTS:
		v.Overlay = overlay.NewScalarOverlay()
		v.scalar = meta.Scalar.Ops.Construct(meta.Scalar)
	case tsmeta.KindTSB:
		children := make(map[string]overlay.Overlay, len(meta.Fields))
		order := make([]string, len(meta.Fields))
		v.fields = make([]*TSValue, len(meta.Fields))
		for i, f := range meta.Fields {
			child := New(typeReg, tsReg, f.TS, opts)
			v.fields[i] = child
			children[f.Name] = child.Overlay
			order[i] = f.Name
		}
		v.Overlay = overlay.NewBundleOverlay(children, order)
	case tsmeta.KindTSL:
		v.Overlay = overlay.NewListOverlay()
		schema := tsmeta.ValueSchema(typeReg, meta)
		v.list = container.NewList(schema)
	case tsmeta.KindTSS:
		v.Overlay = overlay.NewSetOverlay()
		v.set = container.NewSet(meta.Scalar)
		set := v.set
		scheduler.RegisterDeltaResetCallback(func() { set.ReclaimDead(nil) })
	case tsmeta.KindTSD:
		v.dict = newDictStorage(meta, typeReg, tsReg, opts)
		v.Overlay = v.dict.overlay
	case tsmeta.KindTSW:
		v.Overlay = overlay.NewWindowOverlay(meta.WindowSize, meta.WindowDuration, meta.WindowMin, opts.WindowCompaction)
	case tsmeta.KindREF:
		v.Overlay = overlay.NewRefOverlay()
		v.ref = container.NewReference()
	case tsmeta.KindSignal:
		v.Overlay = overlay.NewSignalOverlay()
	}
	return v
}

// ModifiedAt reports whether this value's overlay was modified exactly
// at t.
func (v *TSValue) ModifiedAt(t scheduler.Time) bool { return v.Overlay.ModifiedAt(t) }

// LastModifiedTime returns the value's own monotonic modification time.
func (v *TSValue) LastModifiedTime() scheduler.Time { return v.Overlay.LastModifiedTime() }

// HasValue reports whether the value has ever been modified. For a
// window, it additionally requires at least Min entries (spec.md §3:
// TSW[T, period|duration, min]).
func (v *TSValue) HasValue() bool {
	if w, ok := v.Overlay.(*overlay.WindowOverlay); ok {
		return w.HasValue() && w.HasMinEntries()
	}
	return v.Overlay.HasValue()
}

func (v *TSValue) invalidateCache() { v.cacheValid = false; v.cachedEncoded = nil }

// Set writes a new scalar value at engine time t (KindTS only); it marks
// the overlay modified and invalidates any cached encoded form (spec.md
// §4.F: "set(value, t) writes through the mutable container view, calls
// mark_modified(t)... Navigation produces child views").
func (v *TSValue) Set(t scheduler.Time, value any) {
	v.scalar = value
	v.invalidateCache()
	v.Overlay.MarkModified(t)
}

// Get returns the raw boxed scalar value (KindTS only).
func (v *TSValue) Get() any { return v.scalar }

// Invalidate marks this value's overlay invalid without propagating
// upward (spec.md §4.E: mark_invalid).
func (v *TSValue) Invalidate() {
	v.invalidateCache()
	v.Overlay.MarkInvalid()
}

// Field returns the named child TSValue of a TSB, nil if absent or not
// a bundle.
func (v *TSValue) Field(name string) *TSValue {
	if v.Meta.Kind != tsmeta.KindTSB {
		return nil
	}
	for i, f := range v.Meta.Fields {
		if f.Name == name {
			return v.fields[i]
		}
	}
	return nil
}

// FieldAt returns the index'th child TSValue of a TSB.
func (v *TSValue) FieldAt(index int) *TSValue {
	if v.Meta.Kind != tsmeta.KindTSB || index < 0 || index >= len(v.fields) {
		return nil
	}
	return v.fields[index]
}

// EncodedValue returns the external-representation encoding of a scalar
// leaf, memoising it until the next Set/Invalidate when
// config.Options.EnableDeltaCache is on (spec.md §4.F, §6
// enable_delta_cache).
func (v *TSValue) EncodedValue() ([]byte, error) {
	if v.Meta.Kind != tsmeta.KindTS {
		return nil, nil
	}
	if v.opts.EnableDeltaCache && v.cacheValid {
		return v.cachedEncoded, nil
	}
	enc, err := v.Meta.Scalar.Ops.ToEncoded(v.Meta.Scalar, v.scalar)
	if err != nil {
		return nil, err
	}
	if v.opts.EnableDeltaCache {
		v.cachedEncoded = enc
		v.cacheValid = true
	}
	return enc, nil
}

// List returns the backing container.List of a TSL, nil otherwise.
func (v *TSValue) List() *container.List { return v.list }

// ListLen returns the current element count of a TSL.
func (v *TSValue) ListLen() int {
	if v.list == nil {
		return 0
	}
	return len(v.list.Items)
}

// ListAt returns the i'th element of a TSL.
func (v *TSValue) ListAt(i int) (any, error) { return v.list.At(i) }

// ListSetAt overwrites the i'th element of a TSL and marks the (single,
// non-peered) list overlay modified at t.
func (v *TSValue) ListSetAt(t scheduler.Time, i int, value any) error {
	if err := v.list.SetAt(i, value); err != nil {
		return err
	}
	v.invalidateCache()
	v.Overlay.MarkModified(t)
	return nil
}

// ListAppend grows a dynamic TSL by one element and marks it modified.
func (v *TSValue) ListAppend(t scheduler.Time, value any) int {
	idx := v.list.Append(value)
	v.invalidateCache()
	v.Overlay.MarkModified(t)
	return idx
}

// Window returns the backing overlay.WindowOverlay of a TSW, nil
// otherwise. The window has no separate container storage (spec.md §9).
func (v *TSValue) Window() *overlay.WindowOverlay {
	w, _ := v.Overlay.(*overlay.WindowOverlay)
	return w
}

// WindowPush appends (value, t) to a TSW.
func (v *TSValue) WindowPush(t scheduler.Time, value any) {
	v.Window().Push(value, t)
}

// Reference returns the backing container.Reference of a REF, nil
// otherwise.
func (v *TSValue) Reference() *container.Reference { return v.ref }

// RefBind binds a REF to target/path at engine time t, marking the REF
// output modified so every subscribed reference-observer strategy
// rebinds (spec.md §3: "Changing a reference marks the REF output
// modified and triggers all subscribed reference-observer strategies to
// rebind").
func (v *TSValue) RefBind(t scheduler.Time, target any, path container.Path) {
	v.ref.Bind(target, path)
	v.invalidateCache()
	v.Overlay.MarkModified(t)
}

// RefUnbind sets a REF to Unbound with the given pending target list.
func (v *TSValue) RefUnbind(t scheduler.Time, pending []any) {
	v.ref.Unbind(pending)
	v.invalidateCache()
	v.Overlay.MarkModified(t)
}
