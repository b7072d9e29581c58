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

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/helixdb/helix/go/planner/operators"
	"github.com/helixdb/helix/go/planner/plancontext"
	"github.com/helixdb/helix/go/planner/scalar"
	"github.com/helixdb/helix/go/slice"
	"github.com/helixdb/helix/go/sqltypes"
)

// fixture models a sales table seen through two namespaces: the query plans
// against columns 1..4, the view definition against 101..104, and the
// column mapping bridges the two. Everything minted during a test comes from
// the shared factory, far away from both.
type fixture struct {
	cols *plancontext.ColumnFactory

	qRegion, qDay, qAmount, qUser *scalar.ColumnRef
	vRegion, vDay, vAmount, vUser *scalar.ColumnRef

	mapping *ColumnMapping
}

func newFixture() *fixture {
	f := &fixture{
		cols:    plancontext.NewColumnFactory(1000),
		qRegion: scalar.NewColumn(1, "region", sqltypes.VarChar, true),
		qDay:    scalar.NewColumn(2, "day", sqltypes.Date, true),
		qAmount: scalar.NewColumn(3, "amount", sqltypes.Int64, true),
		qUser:   scalar.NewColumn(4, "user_id", sqltypes.Int64, true),
		vRegion: scalar.NewColumn(101, "region", sqltypes.VarChar, true),
		vDay:    scalar.NewColumn(102, "day", sqltypes.Date, true),
		vAmount: scalar.NewColumn(103, "amount", sqltypes.Int64, true),
		vUser:   scalar.NewColumn(104, "user_id", sqltypes.Int64, true),
	}
	f.mapping = NewColumnMapping()
	f.mapping.Add(f.qRegion, f.vRegion)
	f.mapping.Add(f.qDay, f.vDay)
	f.mapping.Add(f.qAmount, f.vAmount)
	f.mapping.Add(f.qUser, f.vUser)
	return f
}

func (f *fixture) queryScan() *operators.Scan {
	return &operators.Scan{
		Table:   "sales",
		Columns: []*scalar.ColumnRef{f.qRegion, f.qDay, f.qAmount, f.qUser},
	}
}

func (f *fixture) viewBaseScan() *operators.Scan {
	return &operators.Scan{
		Table:   "sales",
		Columns: []*scalar.ColumnRef{f.vRegion, f.vDay, f.vAmount, f.vUser},
	}
}

// aggOut binds a fresh output column to the call.
func (f *fixture) aggOut(name string, call *scalar.AggCall) operators.AggOutput {
	return operators.AggOutput{Col: f.cols.NewColumnFor(name, call), Call: call}
}

func (f *fixture) queryAgg(keys []*scalar.ColumnRef, aggs ...operators.AggOutput) *operators.Aggregate {
	return operators.NewAggregate(f.queryScan(), keys, aggs)
}

// viewDef builds the view's defining aggregation and the scan over its
// stored rows, with scan columns aligned positionally to the definition's
// outputs.
func (f *fixture) viewDef(keys []*scalar.ColumnRef, aggs ...operators.AggOutput) (*operators.Aggregate, *operators.Scan) {
	view := operators.NewAggregate(f.viewBaseScan(), keys, aggs)
	scan := &operators.Scan{
		Table:            "mv_sales",
		MaterializedView: true,
		Columns:          slice.Map(view.OutputColumns(), f.cols.NewColumnLike),
	}
	return view, scan
}

func (f *fixture) context(query, view *operators.Aggregate, scan *operators.Scan) *Context {
	ctx := NewContext("mv_sales", query, view, scan, f.mapping, f.cols)
	ctx.Tracer = NopTracer{}
	return ctx
}

// mustMatch fails the test when want and got differ, with a readable diff.
func mustMatch(t *testing.T, want, got any) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected difference (-want +got):\n%s", diff)
	}
}

// recordingTracer keeps every rejection for assertions.
type recordingTracer struct {
	causes   []string
	attempts []uuid.UUID
}

func (rt *recordingTracer) Rejected(view string, attempt uuid.UUID, cause string) {
	rt.causes = append(rt.causes, fmt.Sprintf("%s: %s", view, cause))
	rt.attempts = append(rt.attempts, attempt)
}
