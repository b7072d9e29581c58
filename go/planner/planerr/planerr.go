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

// Package planerr provides the error type used across the planner.
//
// Errors carry a Code so that callers can react to the class of failure
// without string matching. Two conventions are important:
//
//   - A materialized-view rewrite that does not apply is NOT an error. It is
//     a nil plan, and the rewriter traces the reason. Errors are reserved for
//     broken invariants and hard planning failures.
//   - Malformed input plans are bugs in the caller. Code that detects one
//     panics with an Internal error, aborting the planning attempt.
package planerr

import (
	"errors"
	"fmt"
)

// Code classifies a planner error.
type Code int

const (
	// CodeUnknown is the code of errors that did not originate in the planner.
	CodeUnknown Code = iota

	// CodeInternal marks broken invariants: a malformed plan shape, an
	// impossible state. These indicate bugs, not user input.
	CodeInternal

	// CodeUnsupported marks valid input the planner cannot handle.
	CodeUnsupported

	// CodeSchemaChanged marks a planning attempt abandoned because table
	// schemas kept changing under optimistic, lock-free planning.
	CodeSchemaChanged
)

func (c Code) String() string {
	switch c {
	case CodeInternal:
		return "internal"
	case CodeUnsupported:
		return "unsupported"
	case CodeSchemaChanged:
		return "schema changed"
	default:
		return "unknown"
	}
}

type plannerError struct {
	code Code
	err  error
}

func (e *plannerError) Error() string { return e.err.Error() }
func (e *plannerError) Unwrap() error { return e.err }

// New returns an error with the given code.
func New(code Code, msg string) error {
	return &plannerError{code: code, err: errors.New(msg)}
}

// Errorf formats an error with the given code.
func Errorf(code Code, format string, args ...any) error {
	return &plannerError{code: code, err: fmt.Errorf(format, args...)}
}

// Internalf formats a CodeInternal error. Callers that detect a malformed
// plan should panic with the result.
func Internalf(format string, args ...any) error {
	return Errorf(CodeInternal, format, args...)
}

// Wrapf wraps an error with additional context, preserving its code.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &plannerError{
		code: CodeOf(err),
		err:  fmt.Errorf(format+": %w", append(args, err)...),
	}
}

// CodeOf extracts the planner code from an error, or CodeUnknown if the
// error did not originate here.
func CodeOf(err error) Code {
	var pe *plannerError
	if errors.As(err, &pe) {
		return pe.code
	}
	return CodeUnknown
}

// Assert panics with an Internal error when cond is false. It is used to
// reject malformed input plans: tolerating them risks producing an incorrect
// rewrite, so the whole planning attempt must die instead.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(Internalf(format, args...))
	}
}
