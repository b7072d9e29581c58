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

// Package sqltypes defines the column types the planner reasons about.
package sqltypes

// Type is the closed set of column types known to the planner.
type Type int

const (
	Unknown Type = iota
	Boolean
	Int64
	Float64
	Decimal
	VarChar
	Date
	Timestamp

	// HLL and Bitmap are the storage types of pre-aggregated sketch
	// partials kept in materialized views.
	HLL
	Bitmap
)

var typeNames = map[Type]string{
	Unknown:   "unknown",
	Boolean:   "boolean",
	Int64:     "int64",
	Float64:   "float64",
	Decimal:   "decimal",
	VarChar:   "varchar",
	Date:      "date",
	Timestamp: "timestamp",
	HLL:       "hll",
	Bitmap:    "bitmap",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// IsNumeric reports whether the type supports arithmetic.
func (t Type) IsNumeric() bool {
	switch t {
	case Int64, Float64, Decimal:
		return true
	}
	return false
}
