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
	"github.com/tsgraph/core/scheduler"
	"github.com/tsgraph/core/tsmeta"
	"github.com/tsgraph/core/tsvalue"
)

// Collection binds a TSB or TSL input to a TSB/TSL output whose schema
// differs field-by-field or element-by-element (spec.md §4.H variant 2):
// it owns child strategies and simply propagates Activate/Deactivate,
// with no subscription of its own.
type Collection struct {
	output   *tsvalue.TSValue
	children []Strategy
	active   bool
}

func (c *Collection) Activate() {
	for _, ch := range c.children {
		ch.Activate()
	}
	c.active = true
}

func (c *Collection) Deactivate() {
	for _, ch := range c.children {
		ch.Deactivate()
	}
	c.active = false
}

func (c *Collection) Bound() *tsvalue.TSValue { return c.output }

// Value returns nil for a Collection: a composite has no single scalar,
// callers navigate Bound()'s fields/elements or the Children slice.
func (c *Collection) Value() (any, error) { return nil, nil }

func (c *Collection) ModifiedAt(t scheduler.Time) bool { return c.output.ModifiedAt(t) }

func (c *Collection) Unbind() {
	for _, ch := range c.children {
		ch.Unbind()
	}
}

// Children returns the ordered child strategies (one per bundle field or
// list index).
func (c *Collection) Children() []Strategy { return c.children }

// Element navigates to a fixed element of a non-peered collection output
// on every read (spec.md §4.H variant 3): list elements share a single
// overlay with the rest of the list, so there is no independent TSValue
// to bind a child strategy to - subscribing and reading both happen
// against the parent.
type Element struct {
	parent *tsvalue.TSValue
	index  int
	owner  scheduler.Notifiable
	active bool
}

func (e *Element) Activate() {
	if e.active {
		return
	}
	e.parent.Overlay.Observers().Add(e.owner)
	e.active = true
}

func (e *Element) Deactivate() {
	if !e.active {
		return
	}
	e.parent.Overlay.Observers().Remove(e.owner)
	e.active = false
}

// Bound returns nil: an element of a non-peered list has no TSValue of
// its own.
func (e *Element) Bound() *tsvalue.TSValue { return nil }

func (e *Element) Value() (any, error) { return e.parent.ListAt(e.index) }

func (e *Element) ModifiedAt(t scheduler.Time) bool { return e.parent.ModifiedAt(t) }

func (e *Element) Unbind() { e.Deactivate() }

func sameFieldNames(a, b *tsmeta.TSMeta) bool {
	if len(a.Fields) != len(b.Fields) {
		return false
	}
	for i := range a.Fields {
		if a.Fields[i].Name != b.Fields[i].Name {
			return false
		}
	}
	return true
}

// buildBundleCollection builds one child strategy per field, in
// declaration order: identical field schemas bind Direct to the peered
// child TSValue (spec.md §4.H: "peered" bundle fields are independently
// overlaid, so nested Direct/RefObserver/etc. strategies compose just as
// they would at the top level); differing fields recurse through Build.
func buildBundleCollection(inputTS *tsmeta.TSMeta, output *tsvalue.TSValue, owner scheduler.Notifiable) (Strategy, error) {
	outputTS := output.Meta
	if !sameFieldNames(inputTS, outputTS) {
		return nil, schemaMismatch(inputTS, outputTS, "bundle field names/order differ")
	}
	children := make([]Strategy, len(inputTS.Fields))
	for i, f := range inputTS.Fields {
		fieldOutput := output.FieldAt(i)
		if f.TS == outputTS.Fields[i].TS {
			children[i] = &Direct{output: fieldOutput, owner: owner}
			continue
		}
		child, err := Build(f.TS, fieldOutput, owner)
		if err != nil {
			return nil, err
		}
		children[i] = child
	}
	return &Collection{output: output, children: children}, nil
}

// buildListCollection builds one Element child per fixed-size list
// index when the element schemas are not pointer-identical but do
// dereference to the same shape; a dynamic list (FixedSize == 0) or any
// element-schema mismatch beyond REF-stripping is reported as
// SchemaMismatch - binding a per-element recursive strategy (e.g. a
// per-index RefObserver) to a non-peered, resizable list is not
// supported, since an Element has no independent overlay to rebind
// underneath.
func buildListCollection(inputTS *tsmeta.TSMeta, output *tsvalue.TSValue, owner scheduler.Notifiable) (Strategy, error) {
	outputTS := output.Meta
	if inputTS.Elem == outputTS.Elem && inputTS.FixedSize == outputTS.FixedSize {
		return &Direct{output: output, owner: owner}, nil
	}
	if outputTS.FixedSize == 0 || inputTS.FixedSize != outputTS.FixedSize {
		return nil, schemaMismatch(inputTS, outputTS, "dynamic or differently-sized list element binding unsupported")
	}
	if tsmeta.Dereference(outputTS.Elem) != inputTS.Elem {
		return nil, schemaMismatch(inputTS, outputTS, "list element schemas do not match even after dereferencing")
	}
	children := make([]Strategy, outputTS.FixedSize)
	for i := range children {
		children[i] = &Element{parent: output, index: i, owner: owner}
	}
	return &Collection{output: output, children: children}, nil
}
