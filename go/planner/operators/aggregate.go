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
	"slices"

	"github.com/helixdb/helix/go/planner/planerr"
	"github.com/helixdb/helix/go/planner/scalar"
)

type (
	// AggOutput binds one aggregation output column to the aggregate call
	// that defines it.
	AggOutput struct {
		Col  *scalar.ColumnRef
		Call *scalar.AggCall
	}

	// Aggregate represents a group-by γ relational operator. All
	// aggregations with no grouping, and the inverse of all grouping with no
	// aggregations, are both valid configurations.
	Aggregate struct {
		opBase

		Source       Operator
		GroupingKeys []*scalar.ColumnRef
		Aggregations []AggOutput

		// Having is the predicate evaluated after grouping, over the
		// grouping keys and aggregation outputs.
		Having scalar.Expr
	}
)

var _ Operator = (*Aggregate)(nil)

// NewAggregate builds an aggregation node. An aggregation output without an
// aggregate call means the upstream plan is malformed.
func NewAggregate(source Operator, keys []*scalar.ColumnRef, aggregations []AggOutput) *Aggregate {
	for _, agg := range aggregations {
		planerr.Assert(agg.Call != nil, "aggregation output %s is not bound to an aggregate call", agg.Col)
	}
	return &Aggregate{Source: source, GroupingKeys: keys, Aggregations: aggregations}
}

func (a *Aggregate) Inputs() []Operator { return []Operator{a.Source} }

func (a *Aggregate) Clone(inputs []Operator) Operator {
	checkInputs(inputs, 1)
	clone := *a
	clone.Source = inputs[0]
	clone.GroupingKeys = slices.Clone(a.GroupingKeys)
	clone.Aggregations = slices.Clone(a.Aggregations)
	return &clone
}

// OutputColumns returns the grouping keys followed by the aggregation
// output columns, or the attached projection's columns when present.
func (a *Aggregate) OutputColumns() []*scalar.ColumnRef {
	if a.projection != nil {
		return a.projection.Columns
	}
	out := make([]*scalar.ColumnRef, 0, len(a.GroupingKeys)+len(a.Aggregations))
	out = append(out, a.GroupingKeys...)
	for _, agg := range a.Aggregations {
		out = append(out, agg.Col)
	}
	return out
}

// CallFor returns the aggregate call bound to the given output column.
func (a *Aggregate) CallFor(col *scalar.ColumnRef) (*scalar.AggCall, bool) {
	for _, agg := range a.Aggregations {
		if agg.Col.ID == col.ID {
			return agg.Call, true
		}
	}
	return nil, false
}
