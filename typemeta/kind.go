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

// Package typemeta implements the interned, type-erased schema layer
// (spec.md §3, §4.A): TypeMeta values describing scalars, tuples,
// bundles, lists, sets, maps, cyclic buffers, queues and references, each
// carrying a flat operation table so the rest of the core can construct,
// copy, compare, hash and (de)serialize values without knowing their
// concrete Go type.
package typemeta

// Kind identifies the structural shape of a TypeMeta.
type Kind int

const (
	KindScalar Kind = iota
	KindTuple
	KindBundle
	KindList
	KindSet
	KindMap
	KindCyclicBuffer
	KindQueue
	KindRef
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "Scalar"
	case KindTuple:
		return "Tuple"
	case KindBundle:
		return "Bundle"
	case KindList:
		return "List"
	case KindSet:
		return "Set"
	case KindMap:
		return "Map"
	case KindCyclicBuffer:
		return "CyclicBuffer"
	case KindQueue:
		return "Queue"
	case KindRef:
		return "Ref"
	default:
		return "Unknown"
	}
}

// Flags is the per-schema capability bitset (spec.md §3).
type Flags uint32

const (
	FlagTriviallyCopyable Flags = 1 << iota
	FlagHashable
	FlagEquatable
	FlagComparable
	FlagBufferCompatible
	FlagVariadicTuple
	FlagContainer
)

// Has reports whether flag is set.
func (f Flags) Has(flag Flags) bool { return f&flag != 0 }
