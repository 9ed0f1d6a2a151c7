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

package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultOptions(t *testing.T) {
	o := Default()
	require.True(t, o.EnableDeltaCache)
	require.Equal(t, WindowCompactionLazy, o.WindowCompaction)
	require.True(t, o.SubscriptionDedup)
}

func TestWindowCompactionString(t *testing.T) {
	require.Equal(t, "lazy", WindowCompactionLazy.String())
	require.Equal(t, "eager", WindowCompactionEager.String())
	require.Equal(t, "unknown", WindowCompaction(99).String())
}
