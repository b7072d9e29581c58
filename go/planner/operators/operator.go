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

// Package operators contains the logical operator algebra the planner works
// on: scan, filter, projection, aggregation and union.
//
// The operator set is closed. Code dispatching on operator kind uses a type
// switch over the concrete types and treats any other type as a malformed
// plan. Every operator can carry an optional projection, which redefines its
// output columns, and an optional residual predicate evaluated over its
// input columns.
package operators

import (
	"github.com/helixdb/helix/go/planner/planerr"
	"github.com/helixdb/helix/go/planner/scalar"
)

// Operator is a node in the logical plan tree.
type Operator interface {
	// Inputs returns the child operators, in order.
	Inputs() []Operator

	// Clone returns a shallow copy of the operator with the given inputs.
	Clone(inputs []Operator) Operator

	// OutputColumns returns the columns the operator produces, in order.
	// When a projection is attached, the projection defines the output.
	OutputColumns() []*scalar.ColumnRef

	// Projection returns the attached projection, or nil.
	Projection() *Projection

	// SetProjection attaches a projection, replacing the operator's natural
	// output columns.
	SetProjection(p *Projection)

	// Predicate returns the residual predicate, or nil.
	Predicate() scalar.Expr

	// SetPredicate replaces the residual predicate.
	SetPredicate(e scalar.Expr)
}

// opBase carries the projection and predicate every operator can have.
type opBase struct {
	projection *Projection
	predicate  scalar.Expr
}

func (b *opBase) Projection() *Projection     { return b.projection }
func (b *opBase) SetProjection(p *Projection) { b.projection = p }
func (b *opBase) Predicate() scalar.Expr      { return b.predicate }
func (b *opBase) SetPredicate(e scalar.Expr)  { b.predicate = e }

// VisitTopDown walks the tree breadth-first, visiting parents before
// children.
func VisitTopDown(root Operator, visit func(Operator) error) error {
	queue := []Operator{root}
	for len(queue) > 0 {
		this := queue[0]
		queue = append(queue[1:], this.Inputs()...)
		if err := visit(this); err != nil {
			return err
		}
	}
	return nil
}

// Clone deep-copies an operator tree. Scalar expressions are immutable and
// are shared between the copies.
func Clone(op Operator) Operator {
	inputs := op.Inputs()
	clones := make([]Operator, len(inputs))
	for i, input := range inputs {
		clones[i] = Clone(input)
	}
	return op.Clone(clones)
}

func checkInputs(inputs []Operator, shouldBe int) {
	planerr.Assert(len(inputs) == shouldBe,
		"got the wrong number of inputs: got %d, expected %d", len(inputs), shouldBe)
}
