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

package plancontext

import "sync/atomic"

// Lock-free planning does not hold the catalog lock through optimization.
// Instead every planning attempt captures a snapshot version at start, and
// after optimization re-validates that no table it read moved past that
// snapshot. DDL bumps table versions through the same counter, so a table
// version greater than the snapshot means the schema changed mid-plan.

var optimisticVersion atomic.Int64

// NextSnapshot returns a monotonically increasing snapshot version.
func NextSnapshot() int64 {
	return optimisticVersion.Add(1)
}

// VersionedTable is the slice of the catalog the optimistic validation
// needs: a name for error reporting and the last schema-change version.
type VersionedTable interface {
	Name() string
	Version() int64
}

// ValidateTableUpdate reports whether the table is still the one the
// planning attempt started from.
func ValidateTableUpdate(t VersionedTable, snapshot int64) bool {
	return t.Version() <= snapshot
}
