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

// Package inspect implements the companion diagnostic table-valued
// operation, explain_semantic_view (spec §4.8): a three-part text output of
// metadata, pretty-printed expanded SQL, and the host's own query plan.
package inspect

import (
	"context"
	"fmt"
	"strings"

	"semlayer/internal/errs"
	"semlayer/internal/expand"
	"semlayer/internal/model"
	"semlayer/internal/registry"
	"semlayer/internal/suggest"
)

const opName = "explain_semantic_view"

// rowCap bounds the number of text lines emitted, the Go analogue of the
// spec's "fixed per-chunk row cap to bound memory".
const rowCap = 4096

func init() {
	if !registry.Register(opName, newOp) {
		panic(fmt.Sprintf("inspect: operation %q already registered", opName))
	}
}

type op struct{ deps registry.Deps }

func newOp(deps registry.Deps) registry.Operation { return op{deps: deps} }

func (op) Name() string { return opName }

// Invoke expects params {"name": string, "dimensions": []string, "metrics":
// []string} and returns []registry.Row, one row per output line under
// column "line".
func (o op) Invoke(ctx context.Context, params map[string]any) (any, error) {
	name, _ := params["name"].(string)
	req := model.QueryRequest{
		Dimensions: stringSlice(params["dimensions"]),
		Metrics:    stringSlice(params["metrics"]),
	}

	defJSON, ok := o.deps.Catalog.Get(name)
	if !ok {
		return nil, &errs.ViewNotFound{View: name, Suggestion: suggest.Closest(name, o.deps.Catalog.SortedNames())}
	}
	def, err := model.Parse(name, defJSON)
	if err != nil {
		return nil, fmt.Errorf("inspect: stored definition for %q is invalid: %w", name, err)
	}

	expanded, err := expand.Expand(name, def, req)
	if err != nil {
		return nil, &errs.ExpansionFailed{View: name, Cause: err}
	}

	var lines []string
	lines = append(lines, metadataLines(name, req)...)
	lines = append(lines, prettyPrintLines(expanded)...)
	lines = append(lines, o.planLines(ctx, expanded)...)

	if len(lines) > rowCap {
		lines = lines[:rowCap]
	}

	rows := make([]registry.Row, len(lines))
	for i, line := range lines {
		rows[i] = registry.Row{"line": line}
	}
	return rows, nil
}

func metadataLines(view string, req model.QueryRequest) []string {
	return []string{
		fmt.Sprintf("-- view: %s", view),
		fmt.Sprintf("-- dimensions: %s", strings.Join(req.Dimensions, ", ")),
		fmt.Sprintf("-- metrics: %s", strings.Join(req.Metrics, ", ")),
	}
}

// prettyPrintLines splits already-multiline SQL text (expand.Expand already
// emits one clause per line) into individual output rows.
func prettyPrintLines(expanded string) []string {
	return strings.Split(expanded, "\n")
}

// planLines runs the host's native EXPLAIN on an independent child
// connection; any failure becomes a single fallback line rather than an
// error, per spec §4.8.
func (o op) planLines(ctx context.Context, expanded string) []string {
	conn, err := o.deps.Host.OpenChild(ctx)
	if err != nil {
		return []string{fmt.Sprintf("-- (not available -- %v)", err)}
	}
	plan, err := o.deps.Host.Explain(ctx, conn, expanded)
	if err != nil {
		return []string{fmt.Sprintf("-- (not available -- %v)", err)}
	}
	return plan
}

func stringSlice(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
