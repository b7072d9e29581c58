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

// Package scalar models the scalar and aggregate expression trees the planner
// rewrites. Expressions are immutable once constructed: every rewrite
// allocates new nodes bottom-up and structurally shares unchanged subtrees.
package scalar

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/helixdb/helix/go/slice"
	"github.com/helixdb/helix/go/sqltypes"
)

type (
	// Expr is a node in a scalar or aggregate expression tree.
	Expr interface {
		// Type is the declared result type of the expression.
		Type() sqltypes.Type
		// Nullable reports whether the expression can evaluate to NULL.
		Nullable() bool
		// Children returns the direct subexpressions, in order.
		Children() []Expr
		// Equal reports structural equality. Column references compare by id.
		Equal(other Expr) bool
		// String renders a canonical form. Two expressions render equal
		// strings iff they are Equal, so the form is usable as a map key.
		String() string
	}

	// ColumnRef is a reference to a column produced by some operator. The id
	// is the column's identity: references with the same id are the same
	// column no matter what they are named. Query-side and view-side ids
	// live in disjoint namespaces.
	ColumnRef struct {
		ID   int
		Name string
		Typ  sqltypes.Type
		Null bool
	}

	// Literal is a constant value.
	Literal struct {
		Typ sqltypes.Type
		Val string
	}

	// Call is a scalar function call.
	Call struct {
		Func string
		Args []Expr
		Typ  sqltypes.Type
	}

	// AggCall is an aggregate function call. It only ever appears as the
	// defining expression of an aggregation output, or wrapped in scalar
	// expressions inside one.
	AggCall struct {
		Func     string
		Args     []Expr
		Distinct bool
		// Typ is the declared return type. Rollup rewrites must preserve it
		// even when the argument changes.
		Typ sqltypes.Type
	}

	// ComparisonOp is a binary comparison operator.
	ComparisonOp int

	// Comparison is a binary comparison predicate.
	Comparison struct {
		Op          ComparisonOp
		Left, Right Expr
	}

	// AndExpr is a boolean conjunction.
	AndExpr struct {
		Left, Right Expr
	}

	// OrExpr is a boolean disjunction.
	OrExpr struct {
		Left, Right Expr
	}
)

const (
	EqualOp ComparisonOp = iota
	NotEqualOp
	LessThanOp
	LessEqualOp
	GreaterThanOp
	GreaterEqualOp
)

// Scalar function names used by the rewriter.
const (
	FuncAdd      = "add"
	FuncSubtract = "subtract"
	FuncMultiply = "multiply"
	FuncDivide   = "divide"
	FuncCoalesce = "coalesce"

	// Cardinality functions over sketch/collection partials.
	FuncHLLCardinality    = "hll_cardinality"
	FuncBitmapCardinality = "bitmap_cardinality"
)

// Aggregate function names used by the rewriter.
const (
	AggCount    = "count"
	AggSum      = "sum"
	AggMin      = "min"
	AggMax      = "max"
	AggAvg      = "avg"
	AggArrayAgg = "array_agg"

	AggBitmapUnion = "bitmap_union"
	AggHLLUnion    = "hll_union"

	// Combinator suffixes for partial aggregate state columns. A view that
	// stores `sum_state(x)` answers `sum(x)` through `sum_merge`.
	StateSuffix = "_state"
	MergeSuffix = "_merge"
	UnionSuffix = "_union"
)

func (op ComparisonOp) String() string {
	switch op {
	case EqualOp:
		return "="
	case NotEqualOp:
		return "!="
	case LessThanOp:
		return "<"
	case LessEqualOp:
		return "<="
	case GreaterThanOp:
		return ">"
	case GreaterEqualOp:
		return ">="
	default:
		return "?"
	}
}

// NewColumn builds a column reference. Most code should mint columns through
// plancontext.ColumnFactory so ids stay unique; this constructor is for
// callers that manage ids themselves.
func NewColumn(id int, name string, typ sqltypes.Type, nullable bool) *ColumnRef {
	return &ColumnRef{ID: id, Name: name, Typ: typ, Null: nullable}
}

// NewIntLiteral builds an integer constant.
func NewIntLiteral(v int64) *Literal {
	return &Literal{Typ: sqltypes.Int64, Val: strconv.FormatInt(v, 10)}
}

// NewStrLiteral builds a string constant.
func NewStrLiteral(v string) *Literal {
	return &Literal{Typ: sqltypes.VarChar, Val: v}
}

// NewCall builds a scalar function call.
func NewCall(fn string, typ sqltypes.Type, args ...Expr) *Call {
	return &Call{Func: fn, Args: args, Typ: typ}
}

// NewAggCall builds an aggregate function call.
func NewAggCall(fn string, typ sqltypes.Type, args ...Expr) *AggCall {
	return &AggCall{Func: fn, Args: args, Typ: typ}
}

// NewDistinctAggCall builds an aggregate function call with DISTINCT.
func NewDistinctAggCall(fn string, typ sqltypes.Type, args ...Expr) *AggCall {
	return &AggCall{Func: fn, Args: args, Distinct: true, Typ: typ}
}

// NewComparison builds a binary comparison.
func NewComparison(op ComparisonOp, left, right Expr) *Comparison {
	return &Comparison{Op: op, Left: left, Right: right}
}

// NewEquals builds an equality comparison.
func NewEquals(left, right Expr) *Comparison {
	return &Comparison{Op: EqualOp, Left: left, Right: right}
}

func (c *ColumnRef) Type() sqltypes.Type { return c.Typ }
func (c *ColumnRef) Nullable() bool      { return c.Null }
func (c *ColumnRef) Children() []Expr    { return nil }

func (c *ColumnRef) Equal(other Expr) bool {
	o, ok := other.(*ColumnRef)
	return ok && o.ID == c.ID
}

func (c *ColumnRef) String() string {
	return "#" + strconv.Itoa(c.ID)
}

func (l *Literal) Type() sqltypes.Type { return l.Typ }
func (l *Literal) Nullable() bool      { return false }
func (l *Literal) Children() []Expr    { return nil }

func (l *Literal) Equal(other Expr) bool {
	o, ok := other.(*Literal)
	return ok && o.Typ == l.Typ && o.Val == l.Val
}

func (l *Literal) String() string {
	if l.Typ == sqltypes.VarChar {
		return "'" + l.Val + "'"
	}
	return l.Val
}

func (c *Call) Type() sqltypes.Type { return c.Typ }
func (c *Call) Children() []Expr    { return c.Args }

func (c *Call) Nullable() bool {
	return slice.Any(c.Args, Expr.Nullable)
}

func (c *Call) Equal(other Expr) bool {
	o, ok := other.(*Call)
	return ok && o.Func == c.Func && equalExprs(c.Args, o.Args)
}

func (c *Call) String() string {
	return c.Func + "(" + joinExprs(c.Args) + ")"
}

func (a *AggCall) Type() sqltypes.Type { return a.Typ }
func (a *AggCall) Children() []Expr    { return a.Args }

// Nullable is false for count, which returns zero over empty groups, and
// true for everything else.
func (a *AggCall) Nullable() bool {
	return a.Func != AggCount
}

func (a *AggCall) Equal(other Expr) bool {
	o, ok := other.(*AggCall)
	return ok && o.Func == a.Func && o.Distinct == a.Distinct && equalExprs(a.Args, o.Args)
}

func (a *AggCall) String() string {
	if a.Distinct {
		return a.Func + "(distinct " + joinExprs(a.Args) + ")"
	}
	return a.Func + "(" + joinExprs(a.Args) + ")"
}

func (c *Comparison) Type() sqltypes.Type { return sqltypes.Boolean }
func (c *Comparison) Children() []Expr    { return []Expr{c.Left, c.Right} }

func (c *Comparison) Nullable() bool {
	return c.Left.Nullable() || c.Right.Nullable()
}

func (c *Comparison) Equal(other Expr) bool {
	o, ok := other.(*Comparison)
	return ok && o.Op == c.Op && c.Left.Equal(o.Left) && c.Right.Equal(o.Right)
}

func (c *Comparison) String() string {
	return fmt.Sprintf("%s %s %s", c.Left, c.Op, c.Right)
}

func (a *AndExpr) Type() sqltypes.Type { return sqltypes.Boolean }
func (a *AndExpr) Children() []Expr    { return []Expr{a.Left, a.Right} }

func (a *AndExpr) Nullable() bool {
	return a.Left.Nullable() || a.Right.Nullable()
}

func (a *AndExpr) Equal(other Expr) bool {
	o, ok := other.(*AndExpr)
	return ok && a.Left.Equal(o.Left) && a.Right.Equal(o.Right)
}

func (a *AndExpr) String() string {
	return fmt.Sprintf("(%s and %s)", a.Left, a.Right)
}

func (o *OrExpr) Type() sqltypes.Type { return sqltypes.Boolean }
func (o *OrExpr) Children() []Expr    { return []Expr{o.Left, o.Right} }

func (o *OrExpr) Nullable() bool {
	return o.Left.Nullable() || o.Right.Nullable()
}

func (o *OrExpr) Equal(other Expr) bool {
	oo, ok := other.(*OrExpr)
	return ok && o.Left.Equal(oo.Left) && o.Right.Equal(oo.Right)
}

func (o *OrExpr) String() string {
	return fmt.Sprintf("(%s or %s)", o.Left, o.Right)
}

func equalExprs(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i, e := range a {
		if !e.Equal(b[i]) {
			return false
		}
	}
	return true
}

func joinExprs(exprs []Expr) string {
	return strings.Join(slice.Map(exprs, Expr.String), ", ")
}
