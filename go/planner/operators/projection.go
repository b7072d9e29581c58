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

package operators

import (
	"github.com/helixdb/helix/go/planner/planerr"
	"github.com/helixdb/helix/go/planner/scalar"
)

// Projection is an ordered mapping from output columns to their defining
// expressions. Order is significant: the final projection of a rewritten
// plan must reproduce the original query's output columns in the exact
// count and order.
type Projection struct {
	Columns []*scalar.ColumnRef
	Exprs   []scalar.Expr
}

// NewProjection pairs output columns with defining expressions. Mismatched
// lengths mean the upstream plan is malformed.
func NewProjection(columns []*scalar.ColumnRef, exprs []scalar.Expr) *Projection {
	planerr.Assert(len(columns) == len(exprs),
		"projection has %d columns but %d expressions", len(columns), len(exprs))
	for i, e := range exprs {
		planerr.Assert(e != nil, "projection expression for column %s is nil", columns[i])
	}
	return &Projection{Columns: columns, Exprs: exprs}
}

// Add appends one output column with its defining expression.
func (p *Projection) Add(col *scalar.ColumnRef, e scalar.Expr) {
	planerr.Assert(e != nil, "projection expression for column %s is nil", col)
	p.Columns = append(p.Columns, col)
	p.Exprs = append(p.Exprs, e)
}

// ExprFor returns the defining expression of the given output column.
func (p *Projection) ExprFor(col *scalar.ColumnRef) (scalar.Expr, bool) {
	for i, c := range p.Columns {
		if c.ID == col.ID {
			return p.Exprs[i], true
		}
	}
	return nil, false
}

// Defs returns the projection as a column-id to expression map, the shape
// the scalar substitution helpers consume.
func (p *Projection) Defs() map[int]scalar.Expr {
	defs := make(map[int]scalar.Expr, len(p.Columns))
	for i, c := range p.Columns {
		defs[c.ID] = p.Exprs[i]
	}
	return defs
}
