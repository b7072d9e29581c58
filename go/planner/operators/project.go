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

// Project evaluates expressions over its source. Unlike the optional
// projection carried by other operators, a Project node always has one.
type Project struct {
	opBase

	Source Operator
}

var _ Operator = (*Project)(nil)

// NewProject builds a projection node over the source.
func NewProject(source Operator, p *Projection) *Project {
	planerr.Assert(p != nil, "project node requires a projection")
	proj := &Project{Source: source}
	proj.SetProjection(p)
	return proj
}

func (p *Project) Inputs() []Operator { return []Operator{p.Source} }

func (p *Project) Clone(inputs []Operator) Operator {
	checkInputs(inputs, 1)
	clone := *p
	clone.Source = inputs[0]
	return &clone
}

func (p *Project) OutputColumns() []*scalar.ColumnRef {
	planerr.Assert(p.projection != nil, "project node requires a projection")
	return p.projection.Columns
}
