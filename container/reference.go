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

package container

import "github.com/tsgraph/core/typemeta"

// RefState is the Reference tagged-union discriminant (spec.md §3).
type RefState uint8

const (
	RefEmpty RefState = iota
	RefBound
	RefUnbound
)

func (s RefState) String() string {
	switch s {
	case RefEmpty:
		return "empty"
	case RefBound:
		return "bound"
	case RefUnbound:
		return "unbound"
	default:
		return "unknown"
	}
}

// Reference is the tagged union {Empty, Bound(target, path), Unbound(pending)}
// from spec.md §3. Target is an opaque handle to the bound output - the
// container package never imports port, so it can only carry it as `any`;
// the strategy package's RefObserver is the reader that type-asserts it
// back to a *tsvalue.TSValue.
type Reference struct {
	State   RefState
	Target  any
	Path    Path
	Pending []any
}

// NewReference constructs an Empty reference.
func NewReference() *Reference { return &Reference{State: RefEmpty} }

// Bind sets the reference to Bound(target, path), clearing any pending list.
func (r *Reference) Bind(target any, path Path) {
	r.State = RefBound
	r.Target = target
	r.Path = path
	r.Pending = nil
}

// Unbind sets the reference to Unbound with the given pending targets
// (possibly empty, meaning Empty in all but name).
func (r *Reference) Unbind(pending []any) {
	r.State = RefUnbound
	r.Target = nil
	r.Path = nil
	r.Pending = pending
}

// Clear resets the reference to Empty.
func (r *Reference) Clear() {
	r.State = RefEmpty
	r.Target = nil
	r.Path = nil
	r.Pending = nil
}

func referenceEquals(_ *typemeta.TypeMeta, a, b any) bool {
	ra, rb := a.(*Reference), b.(*Reference)
	if ra.State != rb.State {
		return false
	}
	switch ra.State {
	case RefBound:
		return ra.Target == rb.Target
	case RefUnbound:
		if len(ra.Pending) != len(rb.Pending) {
			return false
		}
		for i := range ra.Pending {
			if ra.Pending[i] != rb.Pending[i] {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func referenceToString(_ *typemeta.TypeMeta, data any) string {
	r := data.(*Reference)
	switch r.State {
	case RefBound:
		return "Ref(bound:" + r.Path.String() + ")"
	case RefUnbound:
		return "Ref(unbound)"
	default:
		return "Ref(empty)"
	}
}

func referenceOps() typemeta.Ops {
	return typemeta.Ops{
		Construct:     func(*typemeta.TypeMeta) any { return NewReference() },
		Destruct:      func(*typemeta.TypeMeta, any) {},
		CopyAssign:    func(_ *typemeta.TypeMeta, _, src any) any { return src },
		MoveAssign:    func(_ *typemeta.TypeMeta, _, src any) any { return src },
		MoveConstruct: func(_ *typemeta.TypeMeta, src any) any { return src },
		Equals:        referenceEquals,
		ToString:      referenceToString,
		Clear:         func(_ *typemeta.TypeMeta, data any) any { data.(*Reference).Clear(); return data },
	}
}

// RefType interns a REF[TS] container schema wrapping target's value type.
func RefType(reg *typemeta.Registry, name string, target *typemeta.TypeMeta) (*typemeta.TypeMeta, error) {
	return reg.Register(name, typemeta.SchemaDescriptor{
		Kind:  typemeta.KindRef,
		Elem:  target,
		Flags: typemeta.FlagContainer,
		Ops:   referenceOps(),
	})
}
