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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsgraph/core/internal/xerrors"
)

func TestRegistry_InterningIsPointerStable(t *testing.T) {
	r := NewRegistry()
	desc := SchemaDescriptor{Kind: KindList, Elem: Int64, FixedSize: 4, Ops: Ops{
		Construct: func(*TypeMeta) any { return nil },
	}}

	a, err := r.Register("", desc)
	require.NoError(t, err)
	b, err := r.Register("", desc)
	require.NoError(t, err)

	assert.Same(t, a, b, "identical structural descriptors must intern to the same pointer")
}

func TestRegistry_NameCollisionOnDifferentStructure(t *testing.T) {
	r := NewRegistry()
	_, err := r.Register("point", SchemaDescriptor{Kind: KindList, Elem: Int64, FixedSize: 2, Ops: Ops{
		Construct: func(*TypeMeta) any { return nil },
	}})
	require.NoError(t, err)

	_, err = r.Register("point", SchemaDescriptor{Kind: KindList, Elem: Int64, FixedSize: 3, Ops: Ops{
		Construct: func(*TypeMeta) any { return nil },
	}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, xerrors.ErrSchemaAlreadyRegistered))
}

func TestRegistry_SameNameSameStructureReturnsExisting(t *testing.T) {
	r := NewRegistry()
	desc := SchemaDescriptor{Kind: KindScalar, Ops: Ops{Construct: func(*TypeMeta) any { return nil }}}

	a, err := r.Register("widget", desc)
	require.NoError(t, err)
	b, err := r.Register("widget", desc)
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestBuiltinScalars_RoundTrip(t *testing.T) {
	cases := []struct {
		name   string
		schema *TypeMeta
		value  any
	}{
		{"bool", Bool, true},
		{"int64", Int64, int64(42)},
		{"string", String, "hello"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			enc, err := c.schema.Ops.ToEncoded(c.schema, c.value)
			require.NoError(t, err)
			dec, err := c.schema.Ops.FromEncoded(c.schema, enc)
			require.NoError(t, err)
			assert.True(t, c.schema.Ops.Equals(c.schema, c.value, dec))
		})
	}
}

func TestBuiltinScalars_HashSentinelForNonHashable(t *testing.T) {
	assert.Nil(t, Float64.Ops.Hash, "float64 must not advertise a Hash op")
	assert.False(t, Float64.Flags.Has(FlagHashable))
}
