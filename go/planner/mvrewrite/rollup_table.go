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
	"strings"

	"github.com/helixdb/helix/go/planner/scalar"
)

// Mode selects the rollup function table. Re-aggregating stored view rows
// tolerates more functions than re-aggregating a union of view rows with
// freshly computed rows, so the two tables are kept apart.
type Mode int

const (
	// SingleView re-aggregates rows of one materialized view.
	SingleView Mode = iota
	// UnionCompensation re-aggregates a union of view rows and base rows.
	UnionCompensation
)

// singleViewRollup maps an aggregate over base rows to the aggregate that
// rolls its stored per-group results up to coarser groups.
var singleViewRollup = map[string]string{
	scalar.AggCount:       scalar.AggSum,
	scalar.AggSum:         scalar.AggSum,
	scalar.AggMin:         scalar.AggMin,
	scalar.AggMax:         scalar.AggMax,
	scalar.AggBitmapUnion: scalar.AggBitmapUnion,
	scalar.AggHLLUnion:    scalar.AggHLLUnion,
}

// unionRollup is the stricter table for union compensation. A count over a
// union branch still rolls up as a sum of branch counts, but state-merge
// combinators are excluded: merging a merge output with raw branch rows is
// not defined.
var unionRollup = map[string]string{
	scalar.AggCount:       scalar.AggSum,
	scalar.AggSum:         scalar.AggSum,
	scalar.AggMin:         scalar.AggMin,
	scalar.AggMax:         scalar.AggMax,
	scalar.AggBitmapUnion: scalar.AggBitmapUnion,
	scalar.AggHLLUnion:    scalar.AggHLLUnion,
}

// nonCumulativeFuncs are aggregates whose rollup is only sound when the
// argument is constant within every stored group, which holds exactly when
// the argument is built from the view's grouping keys.
var nonCumulativeFuncs = map[string]bool{
	scalar.AggMin: true,
	scalar.AggMax: true,
}

// distinctTolerantFuncs may keep DISTINCT on the view side without blocking
// a rollup rewrite of a distinct query aggregate.
var distinctTolerantFuncs = map[string]bool{
	scalar.AggArrayAgg: true,
}

// RollupFunctionName returns the aggregate function that rolls up stored
// results of the given call, or false when the call cannot be rolled up in
// the given mode.
func RollupFunctionName(call *scalar.AggCall, mode Mode) (string, bool) {
	if call.Distinct && !distinctTolerantFuncs[call.Func] {
		return "", false
	}
	switch mode {
	case SingleView:
		if name, ok := singleViewRollup[call.Func]; ok {
			return name, true
		}
		// Combinator outputs re-merge under the same combinator.
		if strings.HasSuffix(call.Func, scalar.MergeSuffix) ||
			strings.HasSuffix(call.Func, scalar.UnionSuffix) {
			return call.Func, true
		}
		return "", false
	case UnionCompensation:
		name, ok := unionRollup[call.Func]
		return name, ok
	default:
		return "", false
	}
}

// IsNonCumulative reports whether the call's function only rolls up over
// grouping-key arguments.
func IsNonCumulative(call *scalar.AggCall) bool {
	return nonCumulativeFuncs[call.Func]
}

// rollupCall builds the rollup aggregate reading the stored partial result.
// The declared return type of the original call is preserved: a count rolled
// up as a sum still produces the count's integer type.
func rollupCall(orig *scalar.AggCall, name string, arg scalar.Expr) *scalar.AggCall {
	return scalar.NewAggCall(name, orig.Typ, arg)
}

// genRollupProject wraps the rollup output column for the final projection.
// A count with no grouping keys returns 0 over an empty input, but its
// sum-based rollup returns NULL, so that one case gets a coalesce.
func genRollupProject(orig *scalar.AggCall, col *scalar.ColumnRef, hasGroupKeys bool) scalar.Expr {
	if orig.Func == scalar.AggCount && !hasGroupKeys {
		return scalar.NewCall(scalar.FuncCoalesce, orig.Typ, col, scalar.NewIntLiteral(0))
	}
	return col
}
