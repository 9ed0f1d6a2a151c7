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

// Package view implements the lightweight navigator over container
// storage (spec.md §4.C): a (data-pointer, schema, optional root, path)
// tuple with chainable Field/Index navigation, read-only by default with
// a Mutable variant adding write accessors.
package view

import (
	"github.com/pkg/errors"

	"github.com/tsgraph/core/container"
	"github.com/tsgraph/core/internal/xerrors"
	"github.com/tsgraph/core/typemeta"
)

// View holds a pointer to a value slot, its schema, an optional root
// handle (opaque - the owning TSOutput, when a view was built from one),
// and the path that was walked to reach it. A View is valid iff both
// data and schema are non-nil; invalid views propagate through
// navigation rather than panicking (spec.md §4.C).
type View struct {
	data   *any
	schema *typemeta.TypeMeta
	root   any
	path   container.Path
}

// New wraps an addressable value slot as a root view.
func New(data *any, schema *typemeta.TypeMeta, root any) View {
	return View{data: data, schema: schema, root: root}
}

// Invalid is the zero View; every operation on it returns another
// Invalid view rather than panicking.
var Invalid = View{}

// Valid reports whether both the data pointer and schema are non-nil.
func (v View) Valid() bool { return v.data != nil && v.schema != nil }

// Schema returns the view's schema, nil if invalid.
func (v View) Schema() *typemeta.TypeMeta { return v.schema }

// Root returns the optional owning-output handle this view was built
// from, nil if the view was not constructed from a root.
func (v View) Root() any { return v.root }

// Path returns the path walked from the root to reach this view.
func (v View) Path() container.Path { return v.path }

// Get returns the raw boxed value at this view, nil if invalid.
func (v View) Get() any {
	if !v.Valid() {
		return nil
	}
	return *v.data
}

// Field navigates to a named Bundle/Tuple field, returning Invalid if v
// is invalid, not a record kind, or name does not exist.
func (v View) Field(name string) View {
	if !v.Valid() {
		return Invalid
	}
	idx, childSchema, ok := v.schema.FieldByName(name)
	if !ok {
		return Invalid
	}
	return v.fieldAt(idx, childSchema, container.Field(name))
}

// FieldAt navigates to the index'th Bundle/Tuple field.
func (v View) FieldAt(index int) View {
	if !v.Valid() || index < 0 || index >= len(v.schema.Fields) {
		return Invalid
	}
	return v.fieldAt(index, v.schema.Fields[index].Type, container.Index(index))
}

func (v View) fieldAt(index int, childSchema *typemeta.TypeMeta, elem container.PathElem) View {
	rec, ok := v.Get().(*container.Record)
	if !ok {
		return Invalid
	}
	return View{data: &rec.Values[index], schema: childSchema, root: v.root, path: v.path.Extend(elem)}
}

// Index navigates to the i'th List element.
func (v View) Index(i int) View {
	if !v.Valid() {
		return Invalid
	}
	l, ok := v.Get().(*container.List)
	if !ok || i < 0 || i >= len(l.Items) {
		return Invalid
	}
	return View{data: &l.Items[i], schema: v.schema.Elem, root: v.root, path: v.path.Extend(container.Index(i))}
}

// As is a checked typed accessor: it returns ErrTypeMismatch (wrapped
// with a stack trace) rather than panicking when the boxed value is not
// a T, matching spec.md §4.C's "except as<T>... fails with
// TypeMismatch in checked mode".
func As[T any](v View) (T, error) {
	var zero T
	if !v.Valid() {
		return zero, errors.WithStack(xerrors.ErrTypeMismatch)
	}
	val, ok := v.Get().(T)
	if !ok {
		return zero, errors.WithStack(xerrors.ErrTypeMismatch)
	}
	return val, nil
}

// Mutable wraps a View with write accessors.
type Mutable struct {
	View
}

// NewMutable wraps an addressable value slot as a mutable root view.
func NewMutable(data *any, schema *typemeta.TypeMeta, root any) Mutable {
	return Mutable{View: New(data, schema, root)}
}

// Set overwrites the value at this view in place; a no-op on an invalid view.
func (m Mutable) Set(v any) {
	if !m.Valid() {
		return
	}
	*m.data = v
}

// Field navigates to a named field, returning a Mutable child view.
func (m Mutable) Field(name string) Mutable { return Mutable{View: m.View.Field(name)} }

// FieldAt navigates to the index'th field, returning a Mutable child view.
func (m Mutable) FieldAt(index int) Mutable { return Mutable{View: m.View.FieldAt(index)} }

// Index navigates to the i'th List element, returning a Mutable child view.
func (m Mutable) Index(i int) Mutable { return Mutable{View: m.View.Index(i)} }
