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

	"github.com/helixdb/helix/go/planner/scalar"
)

// Scan reads a table or a materialized view.
type Scan struct {
	opBase

	Table string
	// MaterializedView is true when the scan reads stored view rows instead
	// of base-table rows.
	MaterializedView bool
	Columns          []*scalar.ColumnRef
}

var _ Operator = (*Scan)(nil)

func (s *Scan) Inputs() []Operator { return nil }

func (s *Scan) Clone(inputs []Operator) Operator {
	checkInputs(inputs, 0)
	clone := *s
	clone.Columns = slices.Clone(s.Columns)
	return &clone
}

func (s *Scan) OutputColumns() []*scalar.ColumnRef {
	if s.projection != nil {
		return s.projection.Columns
	}
	return s.Columns
}
