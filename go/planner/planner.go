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

// Package planner drives plan generation. Planning normally runs lock-free:
// an attempt captures a snapshot version, optimizes without holding the
// catalog lock, and validates afterwards that no table it read changed. An
// invalidated attempt is retried from scratch a bounded number of times.
package planner

import (
	"context"
	"strings"

	"github.com/spf13/pflag"

	"github.com/helixdb/helix/go/log"
	"github.com/helixdb/helix/go/planner/operators"
	"github.com/helixdb/helix/go/planner/plancontext"
	"github.com/helixdb/helix/go/planner/planerr"
)

var (
	defaultMaxRetries = 3
	defaultLockFree   = true
)

// RegisterFlags installs the planner flags on the given flag set.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.IntVar(&defaultMaxRetries, "planner_max_retries", defaultMaxRetries,
		"how many times to retry a planning attempt invalidated by a concurrent schema change")
	fs.BoolVar(&defaultLockFree, "planner_lock_free", defaultLockFree,
		"plan without holding the catalog lock, validating table versions afterwards")
}

// PlanFunc runs one planning attempt against the given snapshot version. It
// returns the plan and every table the attempt read.
type PlanFunc func(snapshot int64) (operators.Operator, []plancontext.VersionedTable, error)

// Planner runs planning attempts with the configured retry policy.
type Planner struct {
	// MaxRetries bounds the lock-free attempts before giving up.
	MaxRetries int
	// LockFree disables the optimistic loop when false; the caller then
	// holds the catalog lock and a single attempt is authoritative.
	LockFree bool
}

// NewPlanner returns a planner configured from the process flags.
func NewPlanner() *Planner {
	return &Planner{MaxRetries: defaultMaxRetries, LockFree: defaultLockFree}
}

// Plan produces a plan through the attempt function.
//
// Under lock-free planning each attempt gets a fresh snapshot version and is
// validated against the tables it read. When every attempt is invalidated by
// concurrent schema changes the error names the tables that kept moving, so
// the failure is attributable rather than a silent wrong plan.
func (p *Planner) Plan(ctx context.Context, attempt PlanFunc) (operators.Operator, error) {
	if !p.LockFree {
		plan, _, err := attempt(plancontext.NextSnapshot())
		return plan, err
	}

	var changed []string
	for i := 0; i < p.MaxRetries; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		snapshot := plancontext.NextSnapshot()
		plan, tables, err := attempt(snapshot)
		if err != nil {
			return nil, err
		}

		changed = changed[:0]
		for _, t := range tables {
			if !plancontext.ValidateTableUpdate(t, snapshot) {
				changed = append(changed, t.Name())
			}
		}
		if len(changed) == 0 {
			return plan, nil
		}
		log.Warningf("planning attempt %d invalidated by schema changes on %s, retrying",
			i+1, strings.Join(changed, ", "))
	}
	return nil, planerr.Errorf(planerr.CodeSchemaChanged,
		"schema of %s was updated frequently during plan generation", strings.Join(changed, ", "))
}
