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

package typemeta

// Ops is the flat per-schema vtable (spec.md §4.A, §9: "prefer a single
// flat vtable per schema over per-operation dispatch"). Every field takes
// the owning *TypeMeta so one function can serve every concrete type that
// shares a representation (e.g. one Equals for all fixed-size lists).
//
// The builtin scalar schemas set every required field. Register does not
// check them: the container schemas leave FromEncoded nil, and ToEncoded
// too except for List and Record. Optional fields are nil when the operation is not supported for that schema
// (e.g. Hash is nil - not merely a false-returning stub - for a schema
// with no hashable representation at all, as opposed to Hash returning
// ok=false for a composite containing a non-hashable leaf).
type Ops struct {
	// Required.
	Construct     func(schema *TypeMeta) any
	Destruct      func(schema *TypeMeta, data any)
	CopyAssign    func(schema *TypeMeta, dst, src any) any
	MoveAssign    func(schema *TypeMeta, dst, src any) any
	MoveConstruct func(schema *TypeMeta, src any) any
	Equals        func(schema *TypeMeta, a, b any) bool
	ToString      func(schema *TypeMeta, data any) string
	ToEncoded     func(schema *TypeMeta, data any) ([]byte, error)
	FromEncoded   func(schema *TypeMeta, enc []byte) (any, error)

	// Optional, nil when unsupported.
	Hash      func(schema *TypeMeta, data any) (sum uint64, ok bool)
	Less      func(schema *TypeMeta, a, b any) bool
	Length    func(schema *TypeMeta, data any) int
	Contains  func(schema *TypeMeta, data any, key any) bool
	GetAt     func(schema *TypeMeta, data any, index int) (any, bool)
	SetAt     func(schema *TypeMeta, data any, index int, value any) bool
	GetField  func(schema *TypeMeta, data any, index int) any
	SetField  func(schema *TypeMeta, data any, index int, value any)
	Insert    func(schema *TypeMeta, data any, value any) (slot int, inserted bool)
	Erase     func(schema *TypeMeta, data any, key any) bool
	MapGet    func(schema *TypeMeta, data any, key any) (any, bool)
	MapSet    func(schema *TypeMeta, data any, key any, value any) bool
	Resize    func(schema *TypeMeta, data any, n int) any
	Clear     func(schema *TypeMeta, data any) any
	Arithmetic func(schema *TypeMeta, op string, a, b any) (any, bool)
}
