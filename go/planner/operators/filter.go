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

import "github.com/helixdb/helix/go/planner/scalar"

// Filter keeps the rows of its source for which the condition holds.
type Filter struct {
	opBase

	Source    Operator
	Condition scalar.Expr
}

var _ Operator = (*Filter)(nil)

func (f *Filter) Inputs() []Operator { return []Operator{f.Source} }

func (f *Filter) Clone(inputs []Operator) Operator {
	checkInputs(inputs, 1)
	clone := *f
	clone.Source = inputs[0]
	return &clone
}

func (f *Filter) OutputColumns() []*scalar.ColumnRef {
	if f.projection != nil {
		return f.projection.Columns
	}
	return f.Source.OutputColumns()
}
