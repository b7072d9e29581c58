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

// Package plancontext holds the per-session planning state: the column-id
// allocator and the optimistic snapshot versions used by lock-free planning.
package plancontext

import (
	"sync"

	"github.com/helixdb/helix/go/planner/scalar"
	"github.com/helixdb/helix/go/sqltypes"
)

// ColumnFactory allocates column references with unique ids. A factory is
// safe for concurrent use; rewrite attempts running in parallel either get
// their own factory or share one, and ids never repeat either way.
//
// Query-side and view-side columns must come from namespaces that cannot
// collide. Sharing one factory for both trees guarantees that; separate
// factories need disjoint base offsets.
type ColumnFactory struct {
	mu   sync.Mutex
	next int
}

// NewColumnFactory returns a factory whose first id is base+1.
func NewColumnFactory(base int) *ColumnFactory {
	return &ColumnFactory{next: base}
}

// NewColumn mints a fresh column reference.
func (f *ColumnFactory) NewColumn(name string, typ sqltypes.Type, nullable bool) *scalar.ColumnRef {
	f.mu.Lock()
	f.next++
	id := f.next
	f.mu.Unlock()
	return scalar.NewColumn(id, name, typ, nullable)
}

// NewColumnLike mints a fresh column carrying the name, type and
// nullability of the given column but a new identity.
func (f *ColumnFactory) NewColumnLike(c *scalar.ColumnRef) *scalar.ColumnRef {
	return f.NewColumn(c.Name, c.Typ, c.Null)
}

// NewColumnFor mints a column to hold the result of the given expression.
func (f *ColumnFactory) NewColumnFor(name string, e scalar.Expr) *scalar.ColumnRef {
	return f.NewColumn(name, e.Type(), e.Nullable())
}
