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

import "github.com/helixdb/helix/go/planner/scalar"

// Direction selects which way Translate maps column references.
type Direction int

const (
	// QueryToView maps query-namespace columns onto view-namespace columns.
	QueryToView Direction = iota
	// ViewToQuery maps view-namespace columns onto query-namespace columns.
	ViewToQuery
)

// ColumnMapping is the bidirectional association between query-side and
// view-side column references. It is derived upstream from equality
// predicates and output alignment; this package only consumes it.
//
// The view-to-query direction is the one used to reconstruct final outputs
// and must be injective; when several query columns are functionally equal
// to one view column, the caller picks the representative before building
// the mapping.
type ColumnMapping struct {
	toView  map[int]*scalar.ColumnRef
	toQuery map[int]*scalar.ColumnRef
}

// NewColumnMapping returns an empty mapping.
func NewColumnMapping() *ColumnMapping {
	return &ColumnMapping{
		toView:  make(map[int]*scalar.ColumnRef),
		toQuery: make(map[int]*scalar.ColumnRef),
	}
}

// Add associates a query column with its functionally equal view column.
func (m *ColumnMapping) Add(query, view *scalar.ColumnRef) {
	m.toView[query.ID] = view
	m.toQuery[view.ID] = query
}

// Translate rewrites every column reference in the expression through the
// mapping in the requested direction. Constants and function structure are
// reconstructed around translated children; a reference with no mapping is
// left unchanged, and callers detect non-resolution through the rewriter's
// full-coverage check.
func (m *ColumnMapping) Translate(e scalar.Expr, dir Direction) scalar.Expr {
	table := m.toView
	if dir == ViewToQuery {
		table = m.toQuery
	}
	return scalar.Rewrite(e, func(sub scalar.Expr) (scalar.Expr, bool) {
		col, ok := sub.(*scalar.ColumnRef)
		if !ok {
			return nil, false
		}
		mapped, ok := table[col.ID]
		if !ok {
			return nil, false
		}
		return mapped, true
	})
}
