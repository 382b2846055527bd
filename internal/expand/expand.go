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

// Package expand implements the pure expansion function: given a semantic
// view definition and a query request, it resolves requested members,
// infers the minimal join closure, composes filters, and emits a
// deterministic SQL string.
package expand

import (
	"strings"

	"semlayer/internal/errs"
	"semlayer/internal/model"
	"semlayer/internal/sqlgen/quote"
	"semlayer/internal/suggest"
)

const baseCTEName = "_base"

// Expand is a pure function: (view name, definition, request) -> SQL text.
// The definition and request are never mutated.
func Expand(viewName string, def model.Definition, req model.QueryRequest) (string, error) {
	if len(req.Dimensions) == 0 && len(req.Metrics) == 0 {
		return "", &errs.EmptyRequest{View: viewName}
	}

	if err := checkNoDuplicates(viewName, req); err != nil {
		return "", err
	}

	resolvedDims, err := resolveDimensions(viewName, def, req.Dimensions)
	if err != nil {
		return "", err
	}
	resolvedMets, err := resolveMetrics(viewName, def, req.Metrics)
	if err != nil {
		return "", err
	}

	included := joinClosure(def, resolvedDims, resolvedMets)

	var sb strings.Builder
	sb.WriteString("WITH ")
	sb.WriteString(quote.Identifier(baseCTEName))
	sb.WriteString(" AS (\n")
	sb.WriteString("    SELECT *\n")
	sb.WriteString("    FROM ")
	sb.WriteString(quote.Identifier(def.BaseTable))
	sb.WriteString("\n")
	for _, j := range included {
		sb.WriteString("    JOIN ")
		sb.WriteString(quote.Identifier(j.Table))
		sb.WriteString(" ON ")
		sb.WriteString(j.On)
		sb.WriteString("\n")
	}
	if len(def.Filters) > 0 {
		sb.WriteString("    WHERE ")
		parts := make([]string, len(def.Filters))
		for i, f := range def.Filters {
			parts[i] = "(" + f + ")"
		}
		sb.WriteString(strings.Join(parts, " AND "))
		sb.WriteString("\n")
	}
	sb.WriteString(")\n")

	dimsOnly := len(resolvedMets) == 0
	if dimsOnly {
		sb.WriteString("SELECT DISTINCT\n")
	} else {
		sb.WriteString("SELECT\n")
	}

	selectParts := make([]string, 0, len(resolvedDims)+len(resolvedMets))
	for _, d := range resolvedDims {
		selectParts = append(selectParts, "    "+d.Expr+" AS "+quote.Identifier(d.Name))
	}
	for _, m := range resolvedMets {
		selectParts = append(selectParts, "    "+m.Expr+" AS "+quote.Identifier(m.Name))
	}
	sb.WriteString(strings.Join(selectParts, ",\n"))
	sb.WriteString("\n")

	sb.WriteString("FROM ")
	sb.WriteString(quote.Identifier(baseCTEName))

	if len(resolvedDims) > 0 && !dimsOnly {
		sb.WriteString("\nGROUP BY\n")
		groupParts := make([]string, len(resolvedDims))
		for i, d := range resolvedDims {
			groupParts[i] = "    " + d.Expr
		}
		sb.WriteString(strings.Join(groupParts, ",\n"))
	}

	return sb.String(), nil
}

func checkNoDuplicates(viewName string, req model.QueryRequest) error {
	seenDims := make(map[string]bool, len(req.Dimensions))
	for _, name := range req.Dimensions {
		lower := strings.ToLower(name)
		if seenDims[lower] {
			return &errs.DuplicateDimension{View: viewName, Name: name}
		}
		seenDims[lower] = true
	}
	seenMets := make(map[string]bool, len(req.Metrics))
	for _, name := range req.Metrics {
		lower := strings.ToLower(name)
		if seenMets[lower] {
			return &errs.DuplicateMetric{View: viewName, Name: name}
		}
		seenMets[lower] = true
	}
	return nil
}

func resolveDimensions(viewName string, def model.Definition, names []string) ([]model.Dimension, error) {
	available := model.DimensionNames(def)
	out := make([]model.Dimension, 0, len(names))
	for _, name := range names {
		d, ok := model.FindDimension(def, name)
		if !ok {
			return nil, &errs.UnknownDimension{
				View:       viewName,
				Name:       name,
				Available:  available,
				Suggestion: suggest.Closest(name, available),
			}
		}
		out = append(out, d)
	}
	return out, nil
}

func resolveMetrics(viewName string, def model.Definition, names []string) ([]model.Metric, error) {
	available := model.MetricNames(def)
	out := make([]model.Metric, 0, len(names))
	for _, name := range names {
		m, ok := model.FindMetric(def, name)
		if !ok {
			return nil, &errs.UnknownMetric{
				View:       viewName,
				Name:       name,
				Available:  available,
				Suggestion: suggest.Closest(name, available),
			}
		}
		out = append(out, m)
	}
	return out, nil
}

// joinClosure computes the transitive set of declared joins required to
// satisfy the tables referenced by the resolved members, returning the
// included joins in original declaration order. See spec §4.4 and the
// open design note on substring-based ON-clause dependency detection in
// §9: this is a heuristic, not a SQL parse, and can spuriously include a
// join when a table name merely appears inside a string literal or
// comment in another join's ON fragment. That is accepted behavior, not a
// bug: it only ever widens the join set, never narrows it incorrectly.
func joinClosure(def model.Definition, dims []model.Dimension, mets []model.Metric) []model.Join {
	needed := make(map[string]bool)
	for _, d := range dims {
		if d.SourceTable != nil && *d.SourceTable != "" {
			needed[*d.SourceTable] = true
		}
	}
	for _, m := range mets {
		if m.SourceTable != nil && *m.SourceTable != "" {
			needed[*m.SourceTable] = true
		}
	}

	included := make([]bool, len(def.Joins))
	for {
		changed := false
		for i, j := range def.Joins {
			if !included[i] && needed[j.Table] {
				included[i] = true
				changed = true
			}
		}
		for i, j := range def.Joins {
			if !included[i] {
				continue
			}
			for k, other := range def.Joins {
				if k == i {
					continue
				}
				if strings.Contains(other.On, j.Table) && !needed[other.Table] {
					needed[other.Table] = true
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}

	result := make([]model.Join, 0, len(def.Joins))
	for i, j := range def.Joins {
		if included[i] {
			result = append(result, j)
		}
	}
	return result
}
