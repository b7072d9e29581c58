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

package scalar

// ColumnSet is a set of column ids.
type ColumnSet map[int]bool

// NewColumnSet builds a set from the given columns.
func NewColumnSet(cols ...*ColumnRef) ColumnSet {
	s := make(ColumnSet, len(cols))
	for _, c := range cols {
		s.Add(c)
	}
	return s
}

func (s ColumnSet) Add(c *ColumnRef)      { s[c.ID] = true }
func (s ColumnSet) Contains(id int) bool  { return s[id] }
func (s ColumnSet) AddUsed(exprs ...Expr) {
	for _, e := range exprs {
		for _, c := range Columns(e) {
			s.Add(c)
		}
	}
}

// Columns returns every column reference in the tree, in visit order.
// A column referenced twice appears twice.
func Columns(e Expr) []*ColumnRef {
	var cols []*ColumnRef
	Walk(e, func(sub Expr) bool {
		if col, ok := sub.(*ColumnRef); ok {
			cols = append(cols, col)
		}
		return true
	})
	return cols
}

// AllColumnsIn reports whether every column referenced by the expression is
// a member of the set.
func AllColumnsIn(e Expr, s ColumnSet) bool {
	ok := true
	Walk(e, func(sub Expr) bool {
		if col, isCol := sub.(*ColumnRef); isCol && !s.Contains(col.ID) {
			ok = false
		}
		return ok
	})
	return ok
}

// IsLiteral reports whether the expression is a bare constant.
func IsLiteral(e Expr) bool {
	_, ok := e.(*Literal)
	return ok
}

// IsConstant reports whether the expression references no columns.
func IsConstant(e Expr) bool {
	constant := true
	Walk(e, func(sub Expr) bool {
		if _, isCol := sub.(*ColumnRef); isCol {
			constant = false
		}
		return constant
	})
	return constant
}

// ContainsAggCall reports whether any aggregate call appears in the tree.
func ContainsAggCall(e Expr) bool {
	return len(AggCalls(e)) > 0
}

// AggCalls returns every aggregate call in the tree, outermost first.
func AggCalls(e Expr) []*AggCall {
	var calls []*AggCall
	Walk(e, func(sub Expr) bool {
		if call, ok := sub.(*AggCall); ok {
			calls = append(calls, call)
		}
		return true
	})
	return calls
}

// SplitAndExpression breaks a predicate tree on conjunctions and appends the
// conjuncts to filters. A nil node contributes nothing.
func SplitAndExpression(filters []Expr, node Expr) []Expr {
	if node == nil {
		return filters
	}
	if and, ok := node.(*AndExpr); ok {
		filters = SplitAndExpression(filters, and.Left)
		return SplitAndExpression(filters, and.Right)
	}
	return append(filters, node)
}

// AndExpressions rebuilds a single predicate from conjuncts, dropping nils.
// It returns nil when no conjunct remains.
func AndExpressions(exprs ...Expr) Expr {
	var result Expr
	for _, e := range exprs {
		if e == nil {
			continue
		}
		if result == nil {
			result = e
			continue
		}
		result = &AndExpr{Left: result, Right: e}
	}
	return result
}
