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

import "strconv"

// PathElem is one step of a Path: either a named field or an index.
// Exactly one of Name/IsIndex is meaningful, selected by IsIndex.
type PathElem struct {
	Name    string
	Index   int
	IsIndex bool
}

// Field returns a named-field path element.
func Field(name string) PathElem { return PathElem{Name: name} }

// Index returns an index path element.
func Index(i int) PathElem { return PathElem{Index: i, IsIndex: true} }

// Path is a sequence of path elements from a root. It is mainly
// diagnostic (spec.md §4.C) but a Reference's bound path must survive
// target changes so REF-aware inputs can re-navigate after a rebind
// (spec.md §4.C, §4.H).
type Path []PathElem

// Extend returns a new Path with elem appended; Path is treated as
// immutable by convention so that views sharing a prefix never alias.
func (p Path) Extend(elem PathElem) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = elem
	return out
}

func (p Path) String() string {
	s := ""
	for _, e := range p {
		if e.IsIndex {
			s += "[" + strconv.Itoa(e.Index) + "]"
		} else {
			s += "." + e.Name
		}
	}
	return s
}
