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
	"github.com/helixdb/helix/go/planner/planerr"
	"github.com/helixdb/helix/go/planner/scalar"
	"github.com/helixdb/helix/go/slice"
)

// RewriteUnion builds the union compensation plan for a partially fresh
// view: one branch answers the stale partition from stored rows, the other
// computes the fresh partition from base rows, and a merging aggregation
// above their union rolls the branches together.
//
// Both branches must already produce the query aggregation's outputs
// positionally: keys first, then one partial per aggregate call. The merge
// uses the stricter union rollup table, and a query aggregation that carries
// extra output expressions is rejected since the branches could not be
// aligned column-for-column.
func (rw *Rewriter) RewriteUnion(fresh, view operators.Operator) operators.Operator {
	ctx := rw.ctx
	query := ctx.Query

	if query.Projection() != nil {
		rw.failf("query aggregation carries extra output expressions; union branches cannot align")
		return nil
	}

	outputs := query.OutputColumns()
	freshOuts := fresh.OutputColumns()
	viewOuts := view.OutputColumns()
	planerr.Assert(len(freshOuts) == len(outputs),
		"fresh branch produces %d columns, want %d", len(freshOuts), len(outputs))
	planerr.Assert(len(viewOuts) == len(outputs),
		"view branch produces %d columns, want %d", len(viewOuts), len(outputs))

	unionOuts := slice.Map(outputs, ctx.Columns.NewColumnLike)
	union := operators.NewUnionAll(
		[]operators.Operator{fresh, view},
		unionOuts,
		[][]*scalar.ColumnRef{freshOuts, viewOuts},
	)

	hasKeys := len(query.GroupingKeys) > 0
	subst := make(map[int]scalar.Expr, len(outputs))

	groupCols := make([]*scalar.ColumnRef, len(query.GroupingKeys))
	for i, key := range query.GroupingKeys {
		groupCols[i] = unionOuts[i]
		subst[key.ID] = unionOuts[i]
	}

	var newAggs []operators.AggOutput
	for i, entry := range query.Aggregations {
		name, ok := RollupFunctionName(entry.Call, UnionCompensation)
		if !ok {
			rw.failf("aggregate %s cannot roll up over a union", entry.Call)
			return nil
		}
		partial := unionOuts[len(query.GroupingKeys)+i]
		newCol := ctx.Columns.NewColumnLike(entry.Col)
		newAggs = append(newAggs, operators.AggOutput{Col: newCol, Call: rollupCall(entry.Call, name, partial)})
		subst[entry.Col.ID] = genRollupProject(entry.Call, newCol, hasKeys)
	}

	agg := operators.NewAggregate(union, groupCols, newAggs)
	if query.Having != nil {
		agg.Having = scalar.ReplaceColumns(query.Having, subst)
	}

	final := &operators.Projection{}
	for _, col := range outputs {
		final.Add(col, subst[col.ID])
	}
	agg.SetProjection(final)
	return agg
}
