/*
Copyright 2025 The Helix Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package mvrewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixdb/helix/go/planner/scalar"
	"github.com/helixdb/helix/go/sqltypes"
)

func TestRollupFunctionName(t *testing.T) {
	col := scalar.NewColumn(1, "c", sqltypes.Int64, true)

	tests := []struct {
		call *scalar.AggCall
		mode Mode
		want string
		ok   bool
	}{
		{scalar.NewAggCall(scalar.AggCount, sqltypes.Int64, col), SingleView, scalar.AggSum, true},
		{scalar.NewAggCall(scalar.AggSum, sqltypes.Int64, col), SingleView, scalar.AggSum, true},
		{scalar.NewAggCall(scalar.AggMin, sqltypes.Int64, col), SingleView, scalar.AggMin, true},
		{scalar.NewAggCall(scalar.AggMax, sqltypes.Int64, col), SingleView, scalar.AggMax, true},
		{scalar.NewAggCall(scalar.AggBitmapUnion, sqltypes.Bitmap, col), SingleView, scalar.AggBitmapUnion, true},
		{scalar.NewAggCall(scalar.AggHLLUnion, sqltypes.HLL, col), SingleView, scalar.AggHLLUnion, true},

		// Combinator outputs re-merge under themselves, but only over stored
		// view rows.
		{scalar.NewAggCall("sum_merge", sqltypes.Int64, col), SingleView, "sum_merge", true},
		{scalar.NewAggCall("array_agg_union", sqltypes.VarChar, col), SingleView, "array_agg_union", true},
		{scalar.NewAggCall("sum_merge", sqltypes.Int64, col), UnionCompensation, "", false},

		// avg never rolls up directly; it must be decomposed first.
		{scalar.NewAggCall(scalar.AggAvg, sqltypes.Float64, col), SingleView, "", false},
		{scalar.NewAggCall(scalar.AggAvg, sqltypes.Float64, col), UnionCompensation, "", false},

		{scalar.NewAggCall(scalar.AggCount, sqltypes.Int64, col), UnionCompensation, scalar.AggSum, true},
		{scalar.NewAggCall(scalar.AggMax, sqltypes.Int64, col), UnionCompensation, scalar.AggMax, true},

		// DISTINCT blocks rollup except for the tolerated functions.
		{scalar.NewDistinctAggCall(scalar.AggCount, sqltypes.Int64, col), SingleView, "", false},
		{scalar.NewDistinctAggCall(scalar.AggSum, sqltypes.Int64, col), UnionCompensation, "", false},
	}
	for _, tc := range tests {
		t.Run(tc.call.String(), func(t *testing.T) {
			name, ok := RollupFunctionName(tc.call, tc.mode)
			require.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, name)
		})
	}
}

func TestRollupCallKeepsDeclaredType(t *testing.T) {
	col := scalar.NewColumn(1, "c", sqltypes.Int64, true)
	partial := scalar.NewColumn(2, "partial", sqltypes.Int64, true)

	count := scalar.NewAggCall(scalar.AggCount, sqltypes.Int64, col)
	rolled := rollupCall(count, scalar.AggSum, partial)

	assert.Equal(t, scalar.AggSum, rolled.Func)
	assert.Equal(t, sqltypes.Int64, rolled.Typ)
	assert.True(t, rolled.Args[0].Equal(partial))
}

func TestIsNonCumulative(t *testing.T) {
	col := scalar.NewColumn(1, "c", sqltypes.Int64, true)
	assert.True(t, IsNonCumulative(scalar.NewAggCall(scalar.AggMin, sqltypes.Int64, col)))
	assert.True(t, IsNonCumulative(scalar.NewAggCall(scalar.AggMax, sqltypes.Int64, col)))
	assert.False(t, IsNonCumulative(scalar.NewAggCall(scalar.AggSum, sqltypes.Int64, col)))
	assert.False(t, IsNonCumulative(scalar.NewAggCall(scalar.AggCount, sqltypes.Int64, col)))
}

func TestGenRollupProject(t *testing.T) {
	arg := scalar.NewColumn(1, "c", sqltypes.Int64, true)
	out := scalar.NewColumn(2, "rolled", sqltypes.Int64, true)

	count := scalar.NewAggCall(scalar.AggCount, sqltypes.Int64, arg)
	sum := scalar.NewAggCall(scalar.AggSum, sqltypes.Int64, arg)

	// Only a keyless count needs the NULL-to-zero patch.
	wrapped := genRollupProject(count, out, false)
	call, ok := wrapped.(*scalar.Call)
	require.True(t, ok)
	assert.Equal(t, scalar.FuncCoalesce, call.Func)

	assert.True(t, genRollupProject(count, out, true).Equal(out))
	assert.True(t, genRollupProject(sum, out, false).Equal(out))
}
