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

// Union concatenates the rows of its sources. Each source's output columns
// are mapped positionally onto the union's freshly minted output columns.
type Union struct {
	opBase

	Sources []Operator
	Outputs []*scalar.ColumnRef
	// ChildOutputs[i] lists, per union output position, the column of
	// Sources[i] feeding it.
	ChildOutputs [][]*scalar.ColumnRef
	// All distinguishes UNION ALL from UNION DISTINCT.
	All bool
}

var _ Operator = (*Union)(nil)

// NewUnionAll builds a UNION ALL over the sources.
func NewUnionAll(sources []Operator, outputs []*scalar.ColumnRef, childOutputs [][]*scalar.ColumnRef) *Union {
	planerr.Assert(len(childOutputs) == len(sources),
		"union has %d sources but %d child output lists", len(sources), len(childOutputs))
	for i, child := range childOutputs {
		planerr.Assert(len(child) == len(outputs),
			"union child %d supplies %d columns, want %d", i, len(child), len(outputs))
	}
	return &Union{Sources: sources, Outputs: outputs, ChildOutputs: childOutputs, All: true}
}

func (u *Union) Inputs() []Operator { return u.Sources }

func (u *Union) Clone(inputs []Operator) Operator {
	checkInputs(inputs, len(u.Sources))
	clone := *u
	clone.Sources = inputs
	clone.Outputs = slices.Clone(u.Outputs)
	clone.ChildOutputs = slices.Clone(u.ChildOutputs)
	return &clone
}

func (u *Union) OutputColumns() []*scalar.ColumnRef {
	if u.projection != nil {
		return u.projection.Columns
	}
	return u.Outputs
}
