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
	"github.com/helixdb/helix/go/planner/operators"
	"github.com/helixdb/helix/go/planner/plancontext"
	"github.com/helixdb/helix/go/planner/scalar"
	"github.com/helixdb/helix/go/sqltypes"
)

// decomposeAggregations pre-normalizes the query's aggregate calls before
// rollup resolution. avg has no rollup of its own but decomposes into a sum
// and a count that both do; each avg output is replaced by two minted
// aggregation entries and a division reassembling them.
//
// The returned entries are what rollup resolution works on. outer maps each
// decomposed output column to its reassembly expression over the minted
// columns; outputs that were not decomposed do not appear in it.
func decomposeAggregations(agg *operators.Aggregate, columns *plancontext.ColumnFactory) (entries []operators.AggOutput, outer map[int]scalar.Expr) {
	outer = make(map[int]scalar.Expr)
	for _, out := range agg.Aggregations {
		call := out.Call
		if call.Func != scalar.AggAvg || call.Distinct || len(call.Args) != 1 {
			entries = append(entries, out)
			continue
		}
		arg := call.Args[0]
		sumCall := scalar.NewAggCall(scalar.AggSum, arg.Type(), arg)
		countCall := scalar.NewAggCall(scalar.AggCount, sqltypes.Int64, arg)
		sumCol := columns.NewColumnFor(out.Col.Name+"_sum", sumCall)
		countCol := columns.NewColumnFor(out.Col.Name+"_count", countCall)
		entries = append(entries,
			operators.AggOutput{Col: sumCol, Call: sumCall},
			operators.AggOutput{Col: countCol, Call: countCall},
		)
		outer[out.Col.ID] = scalar.NewCall(scalar.FuncDivide, call.Typ, sumCol, countCol)
	}
	return entries, outer
}
