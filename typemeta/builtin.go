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

import (
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	json "github.com/goccy/go-json"
	"github.com/holiman/uint256"
)

// Builtin scalar schemas, registered against the Default() registry at
// package init so every embedding program sees the same pointers
// (spec.md §4.A: "lifetime is process-scope").
var (
	Bool    *TypeMeta
	Int64   *TypeMeta
	Float64 *TypeMeta
	String  *TypeMeta
	Bytes   *TypeMeta
	Time    *TypeMeta
	UInt256 *TypeMeta
)

func mustScalar(name string, flags Flags, ops Ops) *TypeMeta {
	m, err := defaultRegistry.Register(name, SchemaDescriptor{Kind: KindScalar, Flags: flags, Ops: ops})
	if err != nil {
		panic(err)
	}
	return m
}

func init() {
	Bool = mustScalar("bool", FlagTriviallyCopyable|FlagHashable|FlagEquatable|FlagComparable, Ops{
		Construct:     func(*TypeMeta) any { return false },
		Destruct:      func(*TypeMeta, any) {},
		CopyAssign:    func(_ *TypeMeta, _, src any) any { return src },
		MoveAssign:    func(_ *TypeMeta, _, src any) any { return src },
		MoveConstruct: func(_ *TypeMeta, src any) any { return src },
		Equals:        func(_ *TypeMeta, a, b any) bool { return a.(bool) == b.(bool) },
		ToString:      func(_ *TypeMeta, data any) string { return strconv.FormatBool(data.(bool)) },
		ToEncoded:     func(_ *TypeMeta, data any) ([]byte, error) { return json.Marshal(data.(bool)) },
		FromEncoded: func(_ *TypeMeta, enc []byte) (any, error) {
			var v bool
			err := json.Unmarshal(enc, &v)
			return v, err
		},
		Hash: func(_ *TypeMeta, data any) (uint64, bool) {
			if data.(bool) {
				return 1, true
			}
			return 0, true
		},
		Less: func(_ *TypeMeta, a, b any) bool { return !a.(bool) && b.(bool) },
	})

	Int64 = mustScalar("int64", FlagTriviallyCopyable|FlagHashable|FlagEquatable|FlagComparable, Ops{
		Construct:     func(*TypeMeta) any { return int64(0) },
		Destruct:      func(*TypeMeta, any) {},
		CopyAssign:    func(_ *TypeMeta, _, src any) any { return src },
		MoveAssign:    func(_ *TypeMeta, _, src any) any { return src },
		MoveConstruct: func(_ *TypeMeta, src any) any { return src },
		Equals:        func(_ *TypeMeta, a, b any) bool { return a.(int64) == b.(int64) },
		ToString:      func(_ *TypeMeta, data any) string { return strconv.FormatInt(data.(int64), 10) },
		ToEncoded:     func(_ *TypeMeta, data any) ([]byte, error) { return json.Marshal(data.(int64)) },
		FromEncoded: func(_ *TypeMeta, enc []byte) (any, error) {
			var v int64
			err := json.Unmarshal(enc, &v)
			return v, err
		},
		Hash: func(_ *TypeMeta, data any) (uint64, bool) { return xxhash.Sum64String(strconv.FormatInt(data.(int64), 10)), true },
		Less: func(_ *TypeMeta, a, b any) bool { return a.(int64) < b.(int64) },
		Arithmetic: func(_ *TypeMeta, op string, a, b any) (any, bool) {
			x, y := a.(int64), b.(int64)
			switch op {
			case "add":
				return x + y, true
			case "sub":
				return x - y, true
			case "mul":
				return x * y, true
			default:
				return nil, false
			}
		},
	})

	Float64 = mustScalar("float64", FlagTriviallyCopyable|FlagEquatable|FlagComparable, Ops{
		Construct:     func(*TypeMeta) any { return float64(0) },
		Destruct:      func(*TypeMeta, any) {},
		CopyAssign:    func(_ *TypeMeta, _, src any) any { return src },
		MoveAssign:    func(_ *TypeMeta, _, src any) any { return src },
		MoveConstruct: func(_ *TypeMeta, src any) any { return src },
		Equals:        func(_ *TypeMeta, a, b any) bool { return a.(float64) == b.(float64) },
		ToString:      func(_ *TypeMeta, data any) string { return strconv.FormatFloat(data.(float64), 'g', -1, 64) },
		ToEncoded:     func(_ *TypeMeta, data any) ([]byte, error) { return json.Marshal(data.(float64)) },
		FromEncoded: func(_ *TypeMeta, enc []byte) (any, error) {
			var v float64
			err := json.Unmarshal(enc, &v)
			return v, err
		},
		// Hash intentionally nil: float equality/hash consistency is
		// fragile (NaN, -0 vs 0), so float64 is Equatable but not
		// Hashable - a composite containing it hashes to the sentinel
		// per spec.md §4.A.
		Less: func(_ *TypeMeta, a, b any) bool { return a.(float64) < b.(float64) },
	})

	String = mustScalar("string", FlagHashable|FlagEquatable|FlagComparable, Ops{
		Construct:     func(*TypeMeta) any { return "" },
		Destruct:      func(*TypeMeta, any) {},
		CopyAssign:    func(_ *TypeMeta, _, src any) any { return src },
		MoveAssign:    func(_ *TypeMeta, _, src any) any { return src },
		MoveConstruct: func(_ *TypeMeta, src any) any { return src },
		Equals:        func(_ *TypeMeta, a, b any) bool { return a.(string) == b.(string) },
		ToString:      func(_ *TypeMeta, data any) string { return data.(string) },
		ToEncoded:     func(_ *TypeMeta, data any) ([]byte, error) { return json.Marshal(data.(string)) },
		FromEncoded: func(_ *TypeMeta, enc []byte) (any, error) {
			var v string
			err := json.Unmarshal(enc, &v)
			return v, err
		},
		Hash: func(_ *TypeMeta, data any) (uint64, bool) { return xxhash.Sum64String(data.(string)), true },
		Less: func(_ *TypeMeta, a, b any) bool { return a.(string) < b.(string) },
	})

	Bytes = mustScalar("bytes", FlagHashable|FlagEquatable, Ops{
		Construct: func(*TypeMeta) any { return []byte(nil) },
		Destruct:  func(*TypeMeta, any) {},
		CopyAssign: func(_ *TypeMeta, _, src any) any {
			b := src.([]byte)
			cp := make([]byte, len(b))
			copy(cp, b)
			return cp
		},
		MoveAssign:    func(_ *TypeMeta, _, src any) any { return src },
		MoveConstruct: func(_ *TypeMeta, src any) any { return src },
		Equals: func(_ *TypeMeta, a, b any) bool {
			x, y := a.([]byte), b.([]byte)
			if len(x) != len(y) {
				return false
			}
			for i := range x {
				if x[i] != y[i] {
					return false
				}
			}
			return true
		},
		ToString:    func(_ *TypeMeta, data any) string { return string(data.([]byte)) },
		ToEncoded:   func(_ *TypeMeta, data any) ([]byte, error) { return data.([]byte), nil },
		FromEncoded: func(_ *TypeMeta, enc []byte) (any, error) { return enc, nil },
		Hash:        func(_ *TypeMeta, data any) (uint64, bool) { return xxhash.Sum64(data.([]byte)), true },
	})

	Time = mustScalar("time", FlagHashable|FlagEquatable|FlagComparable, Ops{
		Construct:     func(*TypeMeta) any { return time.Time{} },
		Destruct:      func(*TypeMeta, any) {},
		CopyAssign:    func(_ *TypeMeta, _, src any) any { return src },
		MoveAssign:    func(_ *TypeMeta, _, src any) any { return src },
		MoveConstruct: func(_ *TypeMeta, src any) any { return src },
		Equals:        func(_ *TypeMeta, a, b any) bool { return a.(time.Time).Equal(b.(time.Time)) },
		ToString:      func(_ *TypeMeta, data any) string { return data.(time.Time).Format(time.RFC3339Nano) },
		ToEncoded:     func(_ *TypeMeta, data any) ([]byte, error) { return data.(time.Time).MarshalBinary() },
		FromEncoded: func(_ *TypeMeta, enc []byte) (any, error) {
			var v time.Time
			err := v.UnmarshalBinary(enc)
			return v, err
		},
		Hash: func(_ *TypeMeta, data any) (uint64, bool) { return xxhash.Sum64String(data.(time.Time).Format(time.RFC3339Nano)), true },
		Less: func(_ *TypeMeta, a, b any) bool { return a.(time.Time).Before(b.(time.Time)) },
	})

	UInt256 = mustScalar("uint256", FlagHashable|FlagEquatable|FlagComparable, Ops{
		Construct:     func(*TypeMeta) any { return new(uint256.Int) },
		Destruct:      func(*TypeMeta, any) {},
		CopyAssign:    func(_ *TypeMeta, _, src any) any { return new(uint256.Int).Set(src.(*uint256.Int)) },
		MoveAssign:    func(_ *TypeMeta, _, src any) any { return src },
		MoveConstruct: func(_ *TypeMeta, src any) any { return src },
		Equals:        func(_ *TypeMeta, a, b any) bool { return a.(*uint256.Int).Eq(b.(*uint256.Int)) },
		ToString:      func(_ *TypeMeta, data any) string { return data.(*uint256.Int).Dec() },
		ToEncoded:     func(_ *TypeMeta, data any) ([]byte, error) { return data.(*uint256.Int).Bytes(), nil },
		FromEncoded:   func(_ *TypeMeta, enc []byte) (any, error) { return new(uint256.Int).SetBytes(enc), nil },
		Hash:          func(_ *TypeMeta, data any) (uint64, bool) { return xxhash.Sum64(data.(*uint256.Int).Bytes()), true },
		Less:          func(_ *TypeMeta, a, b any) bool { return a.(*uint256.Int).Lt(b.(*uint256.Int)) },
		Arithmetic: func(_ *TypeMeta, op string, a, b any) (any, bool) {
			x, y := a.(*uint256.Int), b.(*uint256.Int)
			switch op {
			case "add":
				return new(uint256.Int).Add(x, y), true
			case "sub":
				return new(uint256.Int).Sub(x, y), true
			case "mul":
				return new(uint256.Int).Mul(x, y), true
			default:
				return nil, false
			}
		},
	})
}
