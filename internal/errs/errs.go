// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package errs defines the error taxonomy shared across the catalog,
// expansion engine, and runtimes.
package errs

import "fmt"

type Category string

const (
	CategoryInput    Category = "INPUT_ERROR"
	CategoryNotFound Category = "NOT_FOUND"
	CategoryExec     Category = "EXEC_ERROR"
)

// SemanticError is the interface every error raised by this module satisfies.
type SemanticError interface {
	error
	Category() Category
	Unwrap() error
}

// MalformedDefinition is raised by the definition model at parse time.
type MalformedDefinition struct {
	View   string
	Reason string
	Cause  error
}

func (e *MalformedDefinition) Error() string {
	return fmt.Sprintf("malformed definition for view %q: %s", e.View, e.Reason)
}
func (e *MalformedDefinition) Category() Category { return CategoryInput }
func (e *MalformedDefinition) Unwrap() error { return e.Cause }

// AlreadyExists is raised by define when a view name is already registered.
type AlreadyExists struct {
	View string
}

func (e *AlreadyExists) Error() string {
	return fmt.Sprintf("semantic view %q already exists: drop it first", e.View)
}
func (e *AlreadyExists) Category() Category { return CategoryInput }
func (e *AlreadyExists) Unwrap() error { return nil }

// NotFound is raised by drop/describe/bind when a view name is unregistered.
type NotFound struct {
	View       string
	Suggestion string
}

func (e *NotFound) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("semantic view %q not found; did you mean %q?", e.View, e.Suggestion)
	}
	return fmt.Sprintf("semantic view %q not found", e.View)
}
func (e *NotFound) Category() Category { return CategoryNotFound }
func (e *NotFound) Unwrap() error { return nil }

// EmptyRequest is raised when both dimensions and metrics are empty.
type EmptyRequest struct {
	View string
}

func (e *EmptyRequest) Error() string {
	return fmt.Sprintf("query against %q requested no dimensions and no metrics", e.View)
}
func (e *EmptyRequest) Category() Category { return CategoryInput }
func (e *EmptyRequest) Unwrap() error { return nil }

// DuplicateDimension is raised when a request repeats a dimension name.
type DuplicateDimension struct {
	View, Name string
}

func (e *DuplicateDimension) Error() string {
	return fmt.Sprintf("view %q: dimension %q requested more than once", e.View, e.Name)
}
func (e *DuplicateDimension) Category() Category { return CategoryInput }
func (e *DuplicateDimension) Unwrap() error { return nil }

// DuplicateMetric is raised when a request repeats a metric name.
type DuplicateMetric struct {
	View, Name string
}

func (e *DuplicateMetric) Error() string {
	return fmt.Sprintf("view %q: metric %q requested more than once", e.View, e.Name)
}
func (e *DuplicateMetric) Category() Category { return CategoryInput }
func (e *DuplicateMetric) Unwrap() error { return nil }

// UnknownDimension is raised when a requested dimension is not declared.
type UnknownDimension struct {
	View, Name string
	Available  []string
	Suggestion string
}

func (e *UnknownDimension) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("view %q has no dimension %q (available: %v); did you mean %q?", e.View, e.Name, e.Available, e.Suggestion)
	}
	return fmt.Sprintf("view %q has no dimension %q (available: %v)", e.View, e.Name, e.Available)
}
func (e *UnknownDimension) Category() Category { return CategoryInput }
func (e *UnknownDimension) Unwrap() error { return nil }

// UnknownMetric is raised when a requested metric is not declared.
type UnknownMetric struct {
	View, Name string
	Available  []string
	Suggestion string
}

func (e *UnknownMetric) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("view %q has no metric %q (available: %v); did you mean %q?", e.View, e.Name, e.Available, e.Suggestion)
	}
	return fmt.Sprintf("view %q has no metric %q (available: %v)", e.View, e.Name, e.Available)
}
func (e *UnknownMetric) Category() Category { return CategoryInput }
func (e *UnknownMetric) Unwrap() error { return nil }

// ExpansionFailed wraps any expansion engine error surfaced through a runtime.
type ExpansionFailed struct {
	View  string
	Cause error
}

func (e *ExpansionFailed) Error() string {
	return fmt.Sprintf("expansion failed for view %q: %v", e.View, e.Cause)
}
func (e *ExpansionFailed) Category() Category { return CategoryInput }
func (e *ExpansionFailed) Unwrap() error { return e.Cause }

// SqlExecution surfaces a host execution failure with the SQL that produced it.
type SqlExecution struct {
	Message     string
	ExpandedSQL string
	Cause       error
}

func (e *SqlExecution) Error() string {
	return fmt.Sprintf("%s\ngenerated sql:\n%s", e.Message, e.ExpandedSQL)
}
func (e *SqlExecution) Category() Category { return CategoryExec }
func (e *SqlExecution) Unwrap() error { return e.Cause }

// ViewNotFound is raised by the query/inspection runtime bind phase.
type ViewNotFound struct {
	View       string
	Suggestion string
}

func (e *ViewNotFound) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("no such semantic view %q; did you mean %q? (run describe_semantic_view to list members)", e.View, e.Suggestion)
	}
	return fmt.Sprintf("no such semantic view %q (run list_semantic_views to see registered views)", e.View)
}
func (e *ViewNotFound) Category() Category { return CategoryNotFound }
func (e *ViewNotFound) Unwrap() error { return nil }
