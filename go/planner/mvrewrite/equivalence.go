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
	"github.com/helixdb/helix/go/planner/scalar"
	"github.com/helixdb/helix/go/sqltypes"
)

type (
	// EquivalentKind separates heuristics applicable inside scalar
	// expressions from those that produce aggregation forms.
	EquivalentKind int

	// Equivalent is one equivalence heuristic: given an expression the plain
	// table lookup missed, it may produce a replacement built over the view's
	// stored columns. The list is open; heuristics register themselves and
	// every EquationRewriter consults all of them.
	Equivalent interface {
		Name() string
		Kind() EquivalentKind
		Rewrite(r *EquationRewriter, e scalar.Expr) (scalar.Expr, bool)
	}

	// EquationRewriter resolves query-namespace expressions into the view
	// scan's output columns. The table maps the canonical form of each view
	// output's defining expression, translated into the query namespace, to
	// the scan column storing it.
	EquationRewriter struct {
		entries map[string]*scalar.ColumnRef
		// targets are the view scan's output columns. An expression is fully
		// resolved when every column it references is a target.
		targets scalar.ColumnSet
		// groupKeyTargets are the targets that store view grouping keys.
		// Their values are constant within every stored group, which is what
		// makes non-cumulative rollups sound.
		groupKeyTargets scalar.ColumnSet
		equivalents     []Equivalent
		// usedEquivalent is set once any heuristic fires during a rewrite.
		usedEquivalent bool
	}
)

const (
	// EquivalentScalar heuristics run while resolving scalar expressions.
	EquivalentScalar EquivalentKind = iota
	// EquivalentAggregate heuristics run while resolving a whole aggregate
	// call on the rollup path and may return aggregation forms.
	EquivalentAggregate
)

// registeredEquivalents is consulted in registration order; first match wins.
var registeredEquivalents = []Equivalent{
	commutativeEquivalent{},
	avgDecomposeEquivalent{},
	aggStateEquivalent{},
	distinctCountEquivalent{},
}

// RegisterEquivalent adds a heuristic for all rewriters built afterwards.
// Not safe to call concurrently with rewriting.
func RegisterEquivalent(eq Equivalent) {
	registeredEquivalents = append(registeredEquivalents, eq)
}

// NewEquationRewriter returns an empty rewriter targeting the given view
// scan columns.
func NewEquationRewriter(targets []*scalar.ColumnRef) *EquationRewriter {
	return &EquationRewriter{
		entries:         make(map[string]*scalar.ColumnRef),
		targets:         scalar.NewColumnSet(targets...),
		groupKeyTargets: make(scalar.ColumnSet),
		equivalents:     registeredEquivalents,
	}
}

// Add registers one view output: the defining expression in query-namespace
// form and the scan column that stores its value.
func (r *EquationRewriter) Add(def scalar.Expr, col *scalar.ColumnRef) {
	r.entries[def.String()] = col
}

// AddGroupKey marks a target column as storing a view grouping key.
func (r *EquationRewriter) AddGroupKey(col *scalar.ColumnRef) {
	r.groupKeyTargets.Add(col)
}

// Lookup finds the stored column for an expression by canonical form.
func (r *EquationRewriter) Lookup(e scalar.Expr) (*scalar.ColumnRef, bool) {
	col, ok := r.entries[e.String()]
	return col, ok
}

// FullyResolved reports whether the expression references only view scan
// columns. Resolution is all-or-nothing: a partially resolved expression is
// as useless as an unresolved one.
func (r *EquationRewriter) FullyResolved(e scalar.Expr) bool {
	return scalar.AllColumnsIn(e, r.targets)
}

// UsedEquivalent reports whether any heuristic fired since the last Reset.
func (r *EquationRewriter) UsedEquivalent() bool { return r.usedEquivalent }

// Reset clears the heuristic-use flag before a fresh resolution round.
func (r *EquationRewriter) Reset() { r.usedEquivalent = false }

// Rewrite resolves a scalar expression into view scan columns. It returns
// false when any part of the expression has no stored counterpart, including
// any aggregate call the view does not materialize whole.
func (r *EquationRewriter) Rewrite(e scalar.Expr) (scalar.Expr, bool) {
	out := r.rewriteScalar(e)
	if !r.FullyResolved(out) || scalar.ContainsAggCall(out) {
		return nil, false
	}
	return out, true
}

// rewriteScalar matches top-down: the whole node first, then the registered
// heuristics, then the children. Matching the node before its children is
// what lets a stored expression column shadow its own inputs.
func (r *EquationRewriter) rewriteScalar(e scalar.Expr) scalar.Expr {
	if scalar.IsConstant(e) {
		return e
	}
	if col, ok := r.Lookup(e); ok {
		return col
	}
	for _, eq := range r.equivalents {
		if eq.Kind() != EquivalentScalar {
			continue
		}
		if out, ok := eq.Rewrite(r, e); ok {
			r.usedEquivalent = true
			return out
		}
	}
	children := e.Children()
	if len(children) == 0 {
		return e
	}
	newChildren := make([]scalar.Expr, len(children))
	changed := false
	for i, child := range children {
		newChildren[i] = r.rewriteScalar(child)
		changed = changed || newChildren[i] != child
	}
	if !changed {
		return e
	}
	return scalar.WithChildren(e, newChildren)
}

// RewriteAggRollup resolves one aggregate call on the rollup path.
//
// When complete is false the result is the scan column storing the call's
// per-group partials and the caller derives the re-aggregation from the
// rollup function table. When complete is true the result already is the
// replacement aggregation form: an aggregate call, or a scalar wrapper
// around exactly one. A nil result means the view cannot answer the call.
func (r *EquationRewriter) RewriteAggRollup(call *scalar.AggCall) (out scalar.Expr, complete bool) {
	if col, ok := r.Lookup(call); ok {
		return col, false
	}
	for _, eq := range r.equivalents {
		if eq.Kind() != EquivalentAggregate {
			continue
		}
		if out, ok := eq.Rewrite(r, call); ok {
			r.usedEquivalent = true
			return out, true
		}
	}
	// A min/max whose argument is built from view grouping keys evaluates
	// identically over stored rows, so the call itself carries over with
	// resolved arguments.
	if IsNonCumulative(call) && !call.Distinct {
		args := make([]scalar.Expr, len(call.Args))
		for i, arg := range call.Args {
			resolved, ok := r.Rewrite(arg)
			if !ok || !scalar.AllColumnsIn(resolved, r.groupKeyTargets) {
				return nil, false
			}
			args[i] = resolved
		}
		return scalar.WithChildren(call, args), true
	}
	return nil, false
}

// commutativeEquivalent retries the table lookup with the operands of a
// commutative node swapped.
type commutativeEquivalent struct{}

func (commutativeEquivalent) Name() string         { return "commutative" }
func (commutativeEquivalent) Kind() EquivalentKind { return EquivalentScalar }

func (commutativeEquivalent) Rewrite(r *EquationRewriter, e scalar.Expr) (scalar.Expr, bool) {
	switch node := e.(type) {
	case *scalar.Call:
		if (node.Func == scalar.FuncAdd || node.Func == scalar.FuncMultiply) && len(node.Args) == 2 {
			swapped := scalar.NewCall(node.Func, node.Typ, node.Args[1], node.Args[0])
			if col, ok := r.Lookup(swapped); ok {
				return col, true
			}
		}
	case *scalar.Comparison:
		if node.Op == scalar.EqualOp || node.Op == scalar.NotEqualOp {
			swapped := scalar.NewComparison(node.Op, node.Right, node.Left)
			if col, ok := r.Lookup(swapped); ok {
				return col, true
			}
		}
	}
	return nil, false
}

// avgDecomposeEquivalent answers avg(x) from a view storing sum(x) and
// count(x) as the stored sum divided by the stored count.
type avgDecomposeEquivalent struct{}

func (avgDecomposeEquivalent) Name() string         { return "avg-decompose" }
func (avgDecomposeEquivalent) Kind() EquivalentKind { return EquivalentScalar }

func (avgDecomposeEquivalent) Rewrite(r *EquationRewriter, e scalar.Expr) (scalar.Expr, bool) {
	call, ok := e.(*scalar.AggCall)
	if !ok || call.Func != scalar.AggAvg || call.Distinct || len(call.Args) != 1 {
		return nil, false
	}
	arg := call.Args[0]
	sumCol, ok := r.Lookup(scalar.NewAggCall(scalar.AggSum, arg.Type(), arg))
	if !ok {
		return nil, false
	}
	countCol, ok := r.Lookup(scalar.NewAggCall(scalar.AggCount, sqltypes.Int64, arg))
	if !ok {
		return nil, false
	}
	return scalar.NewCall(scalar.FuncDivide, call.Typ, sumCol, countCol), true
}

// aggStateEquivalent answers f(x) from a view storing the partial state
// f_state(x) by merging the stored states with f_merge.
type aggStateEquivalent struct{}

func (aggStateEquivalent) Name() string         { return "agg-state-merge" }
func (aggStateEquivalent) Kind() EquivalentKind { return EquivalentAggregate }

func (aggStateEquivalent) Rewrite(r *EquationRewriter, e scalar.Expr) (scalar.Expr, bool) {
	call, ok := e.(*scalar.AggCall)
	if !ok || call.Distinct {
		return nil, false
	}
	state := scalar.NewAggCall(call.Func+scalar.StateSuffix, call.Typ, call.Args...)
	col, ok := r.Lookup(state)
	if !ok {
		return nil, false
	}
	return scalar.NewAggCall(call.Func+scalar.MergeSuffix, call.Typ, col), true
}

// distinctCountEquivalent answers count(distinct x) from a view storing a
// bitmap or HLL union of x, as the cardinality of the re-merged partials.
type distinctCountEquivalent struct{}

func (distinctCountEquivalent) Name() string         { return "distinct-count" }
func (distinctCountEquivalent) Kind() EquivalentKind { return EquivalentAggregate }

func (distinctCountEquivalent) Rewrite(r *EquationRewriter, e scalar.Expr) (scalar.Expr, bool) {
	call, ok := e.(*scalar.AggCall)
	if !ok || call.Func != scalar.AggCount || !call.Distinct || len(call.Args) != 1 {
		return nil, false
	}
	arg := call.Args[0]
	if col, ok := r.Lookup(scalar.NewAggCall(scalar.AggBitmapUnion, sqltypes.Bitmap, arg)); ok {
		merged := scalar.NewAggCall(scalar.AggBitmapUnion, col.Typ, col)
		return scalar.NewCall(scalar.FuncBitmapCardinality, call.Typ, merged), true
	}
	if col, ok := r.Lookup(scalar.NewAggCall(scalar.AggHLLUnion, sqltypes.HLL, arg)); ok {
		merged := scalar.NewAggCall(scalar.AggHLLUnion, col.Typ, col)
		return scalar.NewCall(scalar.FuncHLLCardinality, call.Typ, merged), true
	}
	return nil, false
}
