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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixdb/helix/go/planner/scalar"
	"github.com/helixdb/helix/go/sqltypes"
)

func cols(ids ...int) []*scalar.ColumnRef {
	out := make([]*scalar.ColumnRef, len(ids))
	for i, id := range ids {
		out[i] = scalar.NewColumn(id, "c", sqltypes.Int64, true)
	}
	return out
}

func TestAggregateOutputColumns(t *testing.T) {
	c := cols(1, 2, 3)
	scan := &Scan{Table: "t", Columns: c}
	sum := scalar.NewAggCall(scalar.AggSum, sqltypes.Int64, c[2])
	sumCol := scalar.NewColumn(10, "sum_c", sqltypes.Int64, true)

	agg := NewAggregate(scan, c[:2], []AggOutput{{Col: sumCol, Call: sum}})

	// Keys first, then aggregation outputs.
	out := agg.OutputColumns()
	require.Len(t, out, 3)
	assert.Equal(t, []*scalar.ColumnRef{c[0], c[1], sumCol}, out)

	// An attached projection redefines the outputs entirely.
	projCol := scalar.NewColumn(11, "p", sqltypes.Int64, true)
	agg.SetProjection(NewProjection([]*scalar.ColumnRef{projCol}, []scalar.Expr{sumCol}))
	assert.Equal(t, []*scalar.ColumnRef{projCol}, agg.OutputColumns())

	call, ok := agg.CallFor(sumCol)
	require.True(t, ok)
	assert.Same(t, sum, call)
	_, ok = agg.CallFor(projCol)
	assert.False(t, ok)
}

func TestAggregateRequiresBoundCalls(t *testing.T) {
	scan := &Scan{Table: "t", Columns: cols(1)}
	unbound := []AggOutput{{Col: scalar.NewColumn(10, "x", sqltypes.Int64, true)}}
	assert.Panics(t, func() {
		NewAggregate(scan, nil, unbound)
	})
}

func TestCloneIsDeep(t *testing.T) {
	c := cols(1, 2)
	scan := &Scan{Table: "t", Columns: c}
	filter := &Filter{Source: scan, Condition: scalar.NewEquals(c[0], scalar.NewIntLiteral(1))}
	agg := NewAggregate(filter, c[:1], []AggOutput{{
		Col:  scalar.NewColumn(10, "cnt", sqltypes.Int64, false),
		Call: scalar.NewAggCall(scalar.AggCount, sqltypes.Int64, c[1]),
	}})

	clone := Clone(agg).(*Aggregate)
	require.NotSame(t, agg, clone)
	require.NotSame(t, agg.Source, clone.Source)

	// Mutating the clone's operator structure leaves the original alone.
	clone.GroupingKeys[0] = c[1]
	assert.Same(t, c[0], agg.GroupingKeys[0])

	cloneScan := clone.Source.(*Filter).Source.(*Scan)
	cloneScan.Table = "other"
	assert.Equal(t, "t", scan.Table)
}

func TestProjectionDefs(t *testing.T) {
	c := cols(1, 2)
	expr := scalar.NewCall(scalar.FuncAdd, sqltypes.Int64, c[0], c[1])
	out := scalar.NewColumn(10, "a_plus_b", sqltypes.Int64, true)

	p := NewProjection([]*scalar.ColumnRef{out}, []scalar.Expr{expr})
	defs := p.Defs()
	require.Len(t, defs, 1)
	assert.True(t, defs[10].Equal(expr))

	got, ok := p.ExprFor(out)
	require.True(t, ok)
	assert.True(t, got.Equal(expr))
	_, ok = p.ExprFor(c[0])
	assert.False(t, ok)

	assert.Panics(t, func() {
		NewProjection([]*scalar.ColumnRef{out}, nil)
	})
}

func TestUnionAlignment(t *testing.T) {
	left := &Scan{Table: "l", Columns: cols(1, 2)}
	right := &Scan{Table: "r", Columns: cols(3, 4)}
	outs := cols(10, 11)

	u := NewUnionAll(
		[]Operator{left, right},
		outs,
		[][]*scalar.ColumnRef{left.Columns, right.Columns},
	)
	assert.True(t, u.All)
	assert.Equal(t, outs, u.OutputColumns())

	// A branch with the wrong arity is a malformed plan.
	assert.Panics(t, func() {
		NewUnionAll(
			[]Operator{left, right},
			outs,
			[][]*scalar.ColumnRef{left.Columns, cols(3)},
		)
	})
}

func TestVisitTopDown(t *testing.T) {
	scan := &Scan{Table: "t", Columns: cols(1)}
	filter := &Filter{Source: scan}
	project := NewProject(filter, NewProjection(cols(2), []scalar.Expr{cols(1)[0]}))

	var visited []Operator
	err := VisitTopDown(project, func(op Operator) error {
		visited = append(visited, op)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, visited, 3)
	assert.Same(t, Operator(project), visited[0])
	assert.Same(t, Operator(filter), visited[1])
	assert.Same(t, Operator(scan), visited[2])
}
