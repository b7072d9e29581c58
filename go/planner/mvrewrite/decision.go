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
	"github.com/helixdb/helix/go/planner/scalar"
	"github.com/helixdb/helix/go/slice"
)

// needsRollup decides between the exact path, which reads stored rows as-is,
// and the rollup path, which re-aggregates them to coarser groups. The checks
// run in a fixed order:
//
//  1. a sync-refreshed view with random distribution may hold overlapping
//     partial groups per node, so even matching keys must re-aggregate;
//  2. a query key the view does not group by means the stored grouping is
//     unrelated and only a rollup can regroup it;
//  3. full coverage of the view's keys means each stored group is exactly
//     one query group;
//  4. a leftover view key still yields exact when the query pins it to one
//     value through an equality-to-constant predicate.
func needsRollup(ctx *Context) bool {
	if ctx.ViewSyncRefresh && ctx.ViewRandomDistribution {
		return true
	}

	viewKeys := slice.DistinctBy(ctx.ViewKeyExprs(), scalar.Expr.String)
	matched := make([]bool, len(viewKeys))

	for _, queryKey := range ctx.QueryKeyExprs() {
		found := false
		for i, viewKey := range viewKeys {
			if viewKey.Equal(queryKey) {
				matched[i] = true
				found = true
				break
			}
		}
		if !found {
			return true
		}
	}

	if slice.All(matched, func(m bool) bool { return m }) {
		return false
	}

	pinned := ctx.EqualityPinnedExprs()
	for i, viewKey := range viewKeys {
		if matched[i] {
			continue
		}
		fixed := slice.Any(pinned, viewKey.Equal)
		if !fixed {
			return true
		}
	}
	return false
}
