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

import "github.com/helixdb/helix/go/planner/planerr"

// RewriteFunc inspects a node after its children have been rewritten. It
// returns the replacement and true, or nil and false to keep the node.
type RewriteFunc func(Expr) (Expr, bool)

// Rewrite applies f bottom-up over the tree, allocating new nodes only along
// changed paths. Unchanged subtrees are shared with the input, never copied.
// Replacements returned by f are not descended into.
func Rewrite(e Expr, f RewriteFunc) Expr {
	rewritten := rewriteChildren(e, f)
	if replacement, changed := f(rewritten); changed {
		return replacement
	}
	return rewritten
}

func rewriteChildren(e Expr, f RewriteFunc) Expr {
	children := e.Children()
	if len(children) == 0 {
		return e
	}
	var newChildren []Expr
	for i, child := range children {
		newChild := Rewrite(child, f)
		if newChild == child {
			if newChildren != nil {
				newChildren[i] = newChild
			}
			continue
		}
		if newChildren == nil {
			newChildren = make([]Expr, len(children))
			copy(newChildren, children[:i])
		}
		newChildren[i] = newChild
	}
	if newChildren == nil {
		return e
	}
	return WithChildren(e, newChildren)
}

// WithChildren reconstructs a node around new children. The node kinds form
// a closed set; anything else is a malformed plan. Leaf nodes have no
// children and must not be passed here.
func WithChildren(e Expr, children []Expr) Expr {
	switch node := e.(type) {
	case *Call:
		return &Call{Func: node.Func, Args: children, Typ: node.Typ}
	case *AggCall:
		return &AggCall{Func: node.Func, Args: children, Distinct: node.Distinct, Typ: node.Typ}
	case *Comparison:
		planerr.Assert(len(children) == 2, "comparison must have two children, got %d", len(children))
		return &Comparison{Op: node.Op, Left: children[0], Right: children[1]}
	case *AndExpr:
		planerr.Assert(len(children) == 2, "conjunction must have two children, got %d", len(children))
		return &AndExpr{Left: children[0], Right: children[1]}
	case *OrExpr:
		planerr.Assert(len(children) == 2, "disjunction must have two children, got %d", len(children))
		return &OrExpr{Left: children[0], Right: children[1]}
	default:
		panic(planerr.Internalf("unexpected expression node %T", e))
	}
}

// Walk visits the tree pre-order. Returning false from visit skips the
// children of the current node.
func Walk(e Expr, visit func(Expr) bool) {
	if !visit(e) {
		return
	}
	for _, child := range e.Children() {
		Walk(child, visit)
	}
}

// ReplaceColumns substitutes column references by their defining expressions.
// Substitution is recursive: definitions that themselves reference mapped
// columns are expanded too. Plans are acyclic, so this terminates.
func ReplaceColumns(e Expr, defs map[int]Expr) Expr {
	return Rewrite(e, func(sub Expr) (Expr, bool) {
		col, ok := sub.(*ColumnRef)
		if !ok {
			return nil, false
		}
		def, ok := defs[col.ID]
		if !ok || def.Equal(col) {
			return nil, false
		}
		return ReplaceColumns(def, defs), true
	})
}
