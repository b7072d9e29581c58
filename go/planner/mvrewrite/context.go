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
	"github.com/google/uuid"

	"github.com/helixdb/helix/go/planner/operators"
	"github.com/helixdb/helix/go/planner/plancontext"
	"github.com/helixdb/helix/go/planner/planerr"
	"github.com/helixdb/helix/go/planner/scalar"
)

// Context carries the state of one rewrite attempt: the two aggregation
// trees, the scan over the view's stored rows, and the column mapping that
// bridges the namespaces. A Context is built per attempt and never reused.
type Context struct {
	// ID tags trace output so concurrent attempts stay distinguishable.
	ID uuid.UUID

	ViewName string

	// Query is the aggregation to rewrite, in the query namespace.
	Query *operators.Aggregate
	// View is the view's defining aggregation, in the view namespace.
	View *operators.Aggregate
	// ViewScan reads the stored view rows. Its columns align positionally
	// with View's output columns.
	ViewScan *operators.Scan

	Mapping *ColumnMapping

	// PinnedPredicate holds the query's equality conjuncts consumed while
	// building the mapping; ResidualPredicate holds everything else.
	PinnedPredicate   scalar.Expr
	ResidualPredicate scalar.Expr

	Columns *plancontext.ColumnFactory

	// ViewSyncRefresh marks a synchronously refreshed view, and
	// ViewRandomDistribution one whose rows are spread without hash
	// clustering. Together they force the rollup path even on matching keys,
	// since per-node partial groups may overlap.
	ViewSyncRefresh        bool
	ViewRandomDistribution bool

	Tracer Tracer

	queryDefs map[int]scalar.Expr
	viewDefs  map[int]scalar.Expr
}

// NewContext builds the state for one rewrite attempt.
func NewContext(viewName string, query, view *operators.Aggregate, viewScan *operators.Scan,
	mapping *ColumnMapping, columns *plancontext.ColumnFactory) *Context {
	planerr.Assert(len(viewScan.Columns) == len(view.OutputColumns()),
		"view scan has %d columns but the view definition outputs %d",
		len(viewScan.Columns), len(view.OutputColumns()))
	return &Context{
		ID:       uuid.New(),
		ViewName: viewName,
		Query:    query,
		View:     view,
		ViewScan: viewScan,
		Mapping:  mapping,
		Columns:  columns,
		Tracer:   NewLogTracer(),
	}
}

// columnDefs collects the defining expression of every projected column in
// the subtree.
func columnDefs(op operators.Operator) map[int]scalar.Expr {
	defs := make(map[int]scalar.Expr)
	_ = operators.VisitTopDown(op, func(o operators.Operator) error {
		if p := o.Projection(); p != nil {
			for i, c := range p.Columns {
				defs[c.ID] = p.Exprs[i]
			}
		}
		return nil
	})
	return defs
}

// QueryDefs maps query-side column ids below the aggregation to their
// defining expressions.
func (ctx *Context) QueryDefs() map[int]scalar.Expr {
	if ctx.queryDefs == nil {
		ctx.queryDefs = columnDefs(ctx.Query.Source)
	}
	return ctx.queryDefs
}

// ViewDefs maps view-side column ids below the view's aggregation to their
// defining expressions.
func (ctx *Context) ViewDefs() map[int]scalar.Expr {
	if ctx.viewDefs == nil {
		ctx.viewDefs = columnDefs(ctx.View.Source)
	}
	return ctx.viewDefs
}

// QueryKeyExprs returns the query's grouping keys with intermediate
// projections inlined, so structurally equal keys compare equal.
func (ctx *Context) QueryKeyExprs() []scalar.Expr {
	exprs := make([]scalar.Expr, len(ctx.Query.GroupingKeys))
	for i, key := range ctx.Query.GroupingKeys {
		exprs[i] = scalar.ReplaceColumns(key, ctx.QueryDefs())
	}
	return exprs
}

// ViewKeyExprs returns the view's grouping keys inlined and translated into
// the query namespace.
func (ctx *Context) ViewKeyExprs() []scalar.Expr {
	exprs := make([]scalar.Expr, len(ctx.View.GroupingKeys))
	for i, key := range ctx.View.GroupingKeys {
		inlined := scalar.ReplaceColumns(key, ctx.ViewDefs())
		exprs[i] = ctx.Mapping.Translate(inlined, ViewToQuery)
	}
	return exprs
}

// EqualityPinnedExprs returns, for each equality-to-constant conjunct in the
// query's predicates, the pinned expression with projections inlined. A view
// grouping key missing from the query's keys does not force a rollup when
// one of these fixes it to a single value.
func (ctx *Context) EqualityPinnedExprs() []scalar.Expr {
	var conjuncts []scalar.Expr
	conjuncts = scalar.SplitAndExpression(conjuncts, ctx.PinnedPredicate)
	conjuncts = scalar.SplitAndExpression(conjuncts, ctx.ResidualPredicate)

	var pinned []scalar.Expr
	for _, conjunct := range conjuncts {
		cmp, ok := conjunct.(*scalar.Comparison)
		if !ok || cmp.Op != scalar.EqualOp {
			continue
		}
		switch {
		case scalar.IsConstant(cmp.Right) && !scalar.IsConstant(cmp.Left):
			pinned = append(pinned, scalar.ReplaceColumns(cmp.Left, ctx.QueryDefs()))
		case scalar.IsConstant(cmp.Left) && !scalar.IsConstant(cmp.Right):
			pinned = append(pinned, scalar.ReplaceColumns(cmp.Right, ctx.QueryDefs()))
		}
	}
	return pinned
}

// buildEquationRewriter derives the resolution table from the view
// definition: each view output's defining expression, fully inlined and
// translated into the query namespace, maps to the scan column storing it.
func (ctx *Context) buildEquationRewriter() *EquationRewriter {
	r := NewEquationRewriter(ctx.ViewScan.Columns)

	defs := make(map[int]scalar.Expr, len(ctx.ViewDefs())+len(ctx.View.Aggregations))
	for id, def := range ctx.ViewDefs() {
		defs[id] = def
	}
	for _, agg := range ctx.View.Aggregations {
		defs[agg.Col.ID] = agg.Call
	}

	keys := scalar.NewColumnSet(ctx.View.GroupingKeys...)
	outputs := ctx.View.OutputColumns()
	for i, out := range outputs {
		var raw scalar.Expr = out
		if p := ctx.View.Projection(); p != nil {
			raw = p.Exprs[i]
		}
		inlined := scalar.ReplaceColumns(raw, defs)
		translated := ctx.Mapping.Translate(inlined, ViewToQuery)
		r.Add(translated, ctx.ViewScan.Columns[i])

		if col, ok := raw.(*scalar.ColumnRef); ok && keys.Contains(col.ID) {
			r.AddGroupKey(ctx.ViewScan.Columns[i])
		}
	}
	return r
}
