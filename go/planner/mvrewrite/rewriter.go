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

// Package mvrewrite rewrites aggregation queries to read from materialized
// views instead of base tables.
//
// A rewrite either replaces the whole aggregation or fails closed: when any
// output, grouping key or predicate cannot be expressed over the view's
// stored columns the attempt returns nil and the original plan stands. There
// is no partial or best-effort result.
package mvrewrite

import (
	"fmt"

	"github.com/helixdb/helix/go/planner/operators"
	"github.com/helixdb/helix/go/planner/planerr"
	"github.com/helixdb/helix/go/planner/scalar"
	"github.com/helixdb/helix/go/slice"
)

// Rewriter drives one rewrite attempt over the Context it was built with.
type Rewriter struct {
	ctx *Context
}

// NewRewriter returns a rewriter for one attempt.
func NewRewriter(ctx *Context) *Rewriter {
	return &Rewriter{ctx: ctx}
}

// Rewrite attempts to answer the query's aggregation from the view. It
// returns the replacement plan, or nil when the view does not apply.
func (rw *Rewriter) Rewrite() operators.Operator {
	r := rw.ctx.buildEquationRewriter()
	if !needsRollup(rw.ctx) {
		return rw.rewriteExact(r)
	}
	if rw.blockingDistinct() {
		rw.failf("distinct aggregates on both sides cannot roll up")
		return nil
	}
	return rw.rewriteForRollup(r)
}

func (rw *Rewriter) failf(format string, args ...any) {
	rw.ctx.Tracer.Rejected(rw.ctx.ViewName, rw.ctx.ID, fmt.Sprintf(format, args...))
}

// blockingDistinct reports whether both sides carry a distinct aggregate the
// rollup tables cannot merge. Stored distinct results cannot be re-deduped
// across groups, so the combination is rejected before any resolution work.
func (rw *Rewriter) blockingDistinct() bool {
	viewDistinct := slice.Any(rw.ctx.View.Aggregations, func(a operators.AggOutput) bool {
		return a.Call.Distinct && !distinctTolerantFuncs[a.Call.Func]
	})
	queryDistinct := slice.Any(rw.ctx.Query.Aggregations, func(a operators.AggOutput) bool {
		return a.Call.Distinct
	})
	return viewDistinct && queryDistinct
}

// outputDefs maps every query-side output column, keys and aggregations
// alike, to its fully inlined defining expression.
func (rw *Rewriter) outputDefs() map[int]scalar.Expr {
	query := rw.ctx.Query
	defs := make(map[int]scalar.Expr, len(rw.ctx.QueryDefs())+len(query.Aggregations))
	for id, def := range rw.ctx.QueryDefs() {
		defs[id] = def
	}
	for _, agg := range query.Aggregations {
		defs[agg.Col.ID] = agg.Call
	}
	return defs
}

// rewriteExact keeps the stored grouping: every query output resolves to an
// expression over the view scan columns and the aggregation disappears. The
// output columns keep their original identities so the parent plan is
// untouched.
func (rw *Rewriter) rewriteExact(r *EquationRewriter) operators.Operator {
	ctx := rw.ctx
	query := ctx.Query
	defs := rw.outputDefs()

	proj := &operators.Projection{}
	outputs := query.OutputColumns()
	for i, col := range outputs {
		var raw scalar.Expr = col
		if p := query.Projection(); p != nil {
			raw = p.Exprs[i]
		}
		inlined := scalar.ReplaceColumns(raw, defs)
		resolved, ok := r.Rewrite(inlined)
		if !ok {
			rw.failf("output %s is not computable from view %s", col, ctx.ViewName)
			return nil
		}
		proj.Add(col, resolved)
	}

	scan := operators.Clone(ctx.ViewScan).(*operators.Scan)
	scan.SetProjection(proj)

	// The grouping the HAVING filtered is the stored grouping, so the
	// predicate moves onto the scan once its columns resolve.
	if query.Having != nil {
		inlined := scalar.ReplaceColumns(query.Having, defs)
		resolved, ok := r.Rewrite(inlined)
		if !ok {
			rw.failf("having predicate is not computable from view %s", ctx.ViewName)
			return nil
		}
		scan.SetPredicate(scalar.AndExpressions(scan.Predicate(), resolved))
	}
	return scan
}

// rewriteForRollup re-aggregates stored rows to the query's coarser
// grouping. Keys resolve through the equation table; each aggregate call
// resolves to its stored partial plus a rollup function, or to a complete
// replacement form produced by an equivalence heuristic.
func (rw *Rewriter) rewriteForRollup(r *EquationRewriter) operators.Operator {
	ctx := rw.ctx
	query := ctx.Query
	hasKeys := len(query.GroupingKeys) > 0

	// subst maps original query output columns to their replacements in the
	// new plan's namespace. It is the single source for rebuilding the
	// having predicate and the final projection.
	subst := make(map[int]scalar.Expr)

	keyExprs := ctx.QueryKeyExprs()
	for i, key := range query.GroupingKeys {
		resolved, ok := r.Rewrite(keyExprs[i])
		if !ok {
			rw.failf("grouping key %s is not computable from view %s", key, ctx.ViewName)
			return nil
		}
		subst[key.ID] = resolved
	}

	entries, outer := decomposeAggregations(query, ctx.Columns)
	var newAggs []operators.AggOutput
	for _, entry := range entries {
		inlined := scalar.ReplaceColumns(entry.Call, ctx.QueryDefs())
		call, ok := inlined.(*scalar.AggCall)
		planerr.Assert(ok, "aggregation output %s lost its aggregate call during inlining", entry.Col)

		resolved, complete := r.RewriteAggRollup(call)
		if resolved == nil {
			rw.failf("aggregate %s is not computable from view %s", call, ctx.ViewName)
			return nil
		}

		switch {
		case !complete:
			// Stored partial column: re-aggregate it per the rollup table.
			partial := resolved.(*scalar.ColumnRef)
			name, ok := RollupFunctionName(call, SingleView)
			if !ok {
				rw.failf("aggregate %s has no rollup function", call)
				return nil
			}
			newCol := ctx.Columns.NewColumnLike(entry.Col)
			newAggs = append(newAggs, operators.AggOutput{Col: newCol, Call: rollupCall(call, name, partial)})
			subst[entry.Col.ID] = genRollupProject(call, newCol, hasKeys)

		default:
			if aggForm, isAgg := resolved.(*scalar.AggCall); isAgg {
				newCol := ctx.Columns.NewColumnLike(entry.Col)
				newAggs = append(newAggs, operators.AggOutput{Col: newCol, Call: aggForm})
				subst[entry.Col.ID] = genRollupProject(call, newCol, hasKeys)
				continue
			}
			// Composite form: a scalar wrapper that must contain exactly one
			// aggregate call. The inner call runs in the aggregation and the
			// wrapper moves to the projection above it.
			inner := scalar.AggCalls(resolved)
			if len(inner) != 1 {
				rw.failf("aggregate %s resolved to a form with %d aggregate calls, want 1", call, len(inner))
				return nil
			}
			innerCall := inner[0]
			innerCol := ctx.Columns.NewColumnFor(entry.Col.Name, innerCall)
			wrapper := scalar.Rewrite(resolved, func(sub scalar.Expr) (scalar.Expr, bool) {
				if sub.Equal(innerCall) {
					return innerCol, true
				}
				return nil, false
			})
			newAggs = append(newAggs, operators.AggOutput{Col: innerCol, Call: innerCall})
			subst[entry.Col.ID] = wrapper
		}
	}

	// Reassemble decomposed avg outputs from their minted sum and count.
	for colID, expr := range outer {
		subst[colID] = scalar.ReplaceColumns(expr, subst)
	}

	return rw.assembleRollup(newAggs, subst, hasKeys)
}

// assembleRollup builds the replacement plan: the view scan, an optional
// intermediate projection materializing non-column grouping keys, the rollup
// aggregation, and the final projection restoring the query's original
// output columns in count and order.
func (rw *Rewriter) assembleRollup(newAggs []operators.AggOutput, subst map[int]scalar.Expr, hasKeys bool) operators.Operator {
	ctx := rw.ctx
	query := ctx.Query

	scan := operators.Clone(ctx.ViewScan).(*operators.Scan)

	needProjection := slice.Any(query.GroupingKeys, func(key *scalar.ColumnRef) bool {
		_, isCol := subst[key.ID].(*scalar.ColumnRef)
		return !isCol
	})
	if needProjection {
		proj := &operators.Projection{}
		seen := make(map[int]bool)
		for _, agg := range newAggs {
			for _, c := range scalar.Columns(agg.Call) {
				if !seen[c.ID] {
					seen[c.ID] = true
					proj.Add(c, c)
				}
			}
		}
		for _, key := range query.GroupingKeys {
			resolved := subst[key.ID]
			if col, isCol := resolved.(*scalar.ColumnRef); isCol {
				if !seen[col.ID] {
					seen[col.ID] = true
					proj.Add(col, col)
				}
				continue
			}
			minted := ctx.Columns.NewColumnFor(key.Name, resolved)
			proj.Add(minted, resolved)
			subst[key.ID] = minted
		}
		scan.SetProjection(proj)
	}

	// Distinct query keys can resolve to the same stored column; the
	// aggregation groups by each stored column once.
	var groupCols []*scalar.ColumnRef
	seenKeys := make(map[int]bool)
	for _, key := range query.GroupingKeys {
		col := subst[key.ID].(*scalar.ColumnRef)
		if seenKeys[col.ID] {
			continue
		}
		seenKeys[col.ID] = true
		groupCols = append(groupCols, col)
	}

	agg := operators.NewAggregate(scan, groupCols, newAggs)
	if query.Having != nil {
		agg.Having = scalar.ReplaceColumns(query.Having, subst)
	}

	final := &operators.Projection{}
	if p := query.Projection(); p != nil {
		for i, col := range p.Columns {
			final.Add(col, scalar.ReplaceColumns(p.Exprs[i], subst))
		}
	} else {
		for _, col := range query.OutputColumns() {
			final.Add(col, subst[col.ID])
		}
	}
	agg.SetProjection(final)
	return agg
}
