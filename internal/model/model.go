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

// Package model defines the typed representation of a semantic view
// definition and a query request, with strict JSON (de)serialization.
//
// Field order within every struct matches the canonical alphabetical JSON
// key order required by the round-trip law in spec §8; do not reorder
// struct fields without also updating the canonical-ordering test.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"semlayer/internal/errs"
)

var structValidate = validator.New()

// Dimension is a named SQL expression suitable for grouping.
type Dimension struct {
	Expr        string  `json:"expr" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	SourceTable *string `json:"source_table,omitempty"`
}

// Metric is a named SQL expression that is an aggregation.
type Metric struct {
	Expr        string  `json:"expr" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	SourceTable *string `json:"source_table,omitempty"`
}

// Join declares a physical table reachable from the base table and the
// predicate that joins it in. Declaration order encodes dependency order.
type Join struct {
	On    string `json:"on" validate:"required"`
	Table string `json:"table" validate:"required"`
}

// Definition is the unit of registration: a semantic view.
type Definition struct {
	BaseTable  string      `json:"base_table" validate:"required"`
	Dimensions []Dimension `json:"dimensions" validate:"dive"`
	Filters    []string    `json:"filters,omitempty"`
	Joins      []Join      `json:"joins,omitempty" validate:"dive"`
	Metrics    []Metric    `json:"metrics" validate:"dive"`
}

// QueryRequest names the dimensions and metrics a caller wants expanded.
type QueryRequest struct {
	Dimensions []string `json:"dimensions,omitempty"`
	Metrics    []string `json:"metrics,omitempty"`
}

// Parse validates and decodes JSON text into a Definition. viewName is used
// only for error messages. Unknown top-level keys are rejected.
func Parse(viewName, jsonText string) (Definition, error) {
	dec := json.NewDecoder(strings.NewReader(jsonText))
	dec.DisallowUnknownFields()

	var raw struct {
		BaseTable  *string     `json:"base_table"`
		Dimensions []Dimension `json:"dimensions"`
		Filters    []string    `json:"filters"`
		Joins      []Join      `json:"joins"`
		Metrics    []Metric    `json:"metrics"`
	}
	if err := dec.Decode(&raw); err != nil {
		return Definition{}, &errs.MalformedDefinition{View: viewName, Reason: err.Error(), Cause: err}
	}
	// strict mode rejects a trailing second JSON value too
	if dec.More() {
		return Definition{}, &errs.MalformedDefinition{View: viewName, Reason: "trailing content after JSON object"}
	}

	if raw.BaseTable == nil || *raw.BaseTable == "" {
		return Definition{}, &errs.MalformedDefinition{View: viewName, Reason: "base_table is required"}
	}
	if raw.Dimensions == nil {
		return Definition{}, &errs.MalformedDefinition{View: viewName, Reason: "dimensions is required"}
	}
	if raw.Metrics == nil {
		return Definition{}, &errs.MalformedDefinition{View: viewName, Reason: "metrics is required"}
	}

	def := Definition{
		BaseTable:  *raw.BaseTable,
		Dimensions: raw.Dimensions,
		Filters:    raw.Filters,
		Joins:      raw.Joins,
		Metrics:    raw.Metrics,
	}
	if err := Validate(viewName, def); err != nil {
		return Definition{}, err
	}
	return def, nil
}

// Validate checks structural shape: required-field presence (via
// validator/v10 struct tags), non-empty member expr/name, and
// case-insensitive uniqueness of dimension and metric names.
func Validate(viewName string, def Definition) error {
	if err := structValidate.Struct(def); err != nil {
		return &errs.MalformedDefinition{View: viewName, Reason: err.Error(), Cause: err}
	}

	seenDims := make(map[string]bool, len(def.Dimensions))
	for _, d := range def.Dimensions {
		if d.Name == "" {
			return &errs.MalformedDefinition{View: viewName, Reason: "dimension name is required"}
		}
		if d.Expr == "" {
			return &errs.MalformedDefinition{View: viewName, Reason: fmt.Sprintf("dimension %q: expr is required", d.Name)}
		}
		lower := strings.ToLower(d.Name)
		if seenDims[lower] {
			return &errs.MalformedDefinition{View: viewName, Reason: fmt.Sprintf("duplicate dimension name %q", d.Name)}
		}
		seenDims[lower] = true
	}
	seenMetrics := make(map[string]bool, len(def.Metrics))
	for _, m := range def.Metrics {
		if m.Name == "" {
			return &errs.MalformedDefinition{View: viewName, Reason: "metric name is required"}
		}
		if m.Expr == "" {
			return &errs.MalformedDefinition{View: viewName, Reason: fmt.Sprintf("metric %q: expr is required", m.Name)}
		}
		lower := strings.ToLower(m.Name)
		if seenMetrics[lower] {
			return &errs.MalformedDefinition{View: viewName, Reason: fmt.Sprintf("duplicate metric name %q", m.Name)}
		}
		seenMetrics[lower] = true
	}
	for _, j := range def.Joins {
		if j.Table == "" {
			return &errs.MalformedDefinition{View: viewName, Reason: "join table is required"}
		}
		if j.On == "" {
			return &errs.MalformedDefinition{View: viewName, Reason: fmt.Sprintf("join %q: on is required", j.Table)}
		}
	}
	return nil
}

// Canonical serializes def back to its canonical JSON form: alphabetically
// ordered object keys, compact (no insignificant whitespace).
func Canonical(def Definition) (string, error) {
	b, err := json.Marshal(def)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, b); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FindDimension looks up a dimension by case-insensitive name.
func FindDimension(def Definition, name string) (Dimension, bool) {
	lower := strings.ToLower(name)
	for _, d := range def.Dimensions {
		if strings.ToLower(d.Name) == lower {
			return d, true
		}
	}
	return Dimension{}, false
}

// FindMetric looks up a metric by case-insensitive name.
func FindMetric(def Definition, name string) (Metric, bool) {
	lower := strings.ToLower(name)
	for _, m := range def.Metrics {
		if strings.ToLower(m.Name) == lower {
			return m, true
		}
	}
	return Metric{}, false
}

// DimensionNames returns the declared dimension names in declaration order.
func DimensionNames(def Definition) []string {
	names := make([]string, len(def.Dimensions))
	for i, d := range def.Dimensions {
		names[i] = d.Name
	}
	return names
}

// MetricNames returns the declared metric names in declaration order.
func MetricNames(def Definition) []string {
	names := make([]string, len(def.Metrics))
	for i, m := range def.Metrics {
		names[i] = m.Name
	}
	return names
}
