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

// Package query implements the principal user-facing table-valued
// operation, semantic_query (spec §4.7): bind a view name plus requested
// dimensions/metrics to an expanded SQL statement, execute it on an
// independent host connection, and stream results back as text rows.
package query

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"semlayer/internal/errs"
	"semlayer/internal/expand"
	"semlayer/internal/model"
	"semlayer/internal/registry"
	"semlayer/internal/sqlgen/quote"
	"semlayer/internal/suggest"
)

const opName = "semantic_query"

func init() {
	if !registry.Register(opName, newOp) {
		panic(fmt.Sprintf("query: operation %q already registered", opName))
	}
}

type op struct{ deps registry.Deps }

func newOp(deps registry.Deps) registry.Operation { return op{deps: deps} }

func (op) Name() string { return opName }

// Invoke expects params {"name": string, "dimensions": []string, "metrics":
// []string} and returns []registry.Row, every value already coerced to
// text, mirroring the FFI path's uniform text representation requirement.
func (o op) Invoke(ctx context.Context, params map[string]any) (any, error) {
	name, _ := params["name"].(string)
	req := model.QueryRequest{
		Dimensions: stringSlice(params["dimensions"]),
		Metrics:    stringSlice(params["metrics"]),
	}

	traceID := uuid.NewString()
	if o.deps.Logger != nil {
		o.deps.Logger.InfoContext(ctx, "semantic_query bind", "trace_id", traceID, "view", name)
	}

	wrapped, columns, err := o.bind(ctx, name, req)
	if err != nil {
		return nil, err
	}
	rows, err := o.run(ctx, wrapped, columns)
	if o.deps.Logger != nil {
		o.deps.Logger.InfoContext(ctx, "semantic_query output", "trace_id", traceID, "view", name, "rows", len(rows))
	}
	return rows, err
}

// bind resolves name, expands the request to SQL, wraps it to coerce every
// output column to text, and infers column names (spec §4.7 steps 1-6).
func (o op) bind(ctx context.Context, name string, req model.QueryRequest) (string, []string, error) {
	defJSON, ok := o.deps.Catalog.Get(name)
	if !ok {
		return "", nil, &errs.ViewNotFound{View: name, Suggestion: suggest.Closest(name, o.deps.Catalog.SortedNames())}
	}
	def, err := model.Parse(name, defJSON)
	if err != nil {
		return "", nil, fmt.Errorf("query: stored definition for %q is invalid: %w", name, err)
	}

	expanded, err := expand.Expand(name, def, req)
	if err != nil {
		return "", nil, &errs.ExpansionFailed{View: name, Cause: err}
	}

	fallback := fallbackColumnNames(req)
	columns, err := o.inferColumns(ctx, expanded, fallback)
	if err != nil {
		// Column-name inference is a best-effort convenience; execution
		// failure here is not yet a query failure, only the fallback names
		// are used. The real SQL runs (and can fail for real) in run().
		columns = fallback
	}

	wrapped := wrapForTextCast(expanded, columns)
	return wrapped, columns, nil
}

// inferColumns executes the expanded SQL with a zero-row limit and reads
// back the column-name metadata (spec §4.7 step 5).
func (o op) inferColumns(ctx context.Context, expanded string, fallback []string) ([]string, error) {
	conn, err := o.deps.Host.OpenChild(ctx)
	if err != nil {
		return nil, err
	}
	probe := fmt.Sprintf("SELECT * FROM (%s) AS probe LIMIT 0", expanded)
	rows, err := conn.QueryContext(ctx, probe)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return fallback, nil
	}
	return cols, nil
}

func wrapForTextCast(expanded string, columns []string) string {
	casts := make([]string, len(columns))
	for i, c := range columns {
		casts[i] = fmt.Sprintf("CAST(%s AS TEXT) AS %s", quote.Identifier(c), quote.Identifier(c))
	}
	return fmt.Sprintf("SELECT %s FROM (\n%s\n) AS expanded", strings.Join(casts, ", "), expanded)
}

func fallbackColumnNames(req model.QueryRequest) []string {
	out := make([]string, 0, len(req.Dimensions)+len(req.Metrics))
	out = append(out, req.Dimensions...)
	out = append(out, req.Metrics...)
	return out
}

// run executes wrapped on an independent child connection and streams every
// row as a registry.Row of string values (spec §4.7 output phase).
func (o op) run(ctx context.Context, wrapped string, columns []string) ([]registry.Row, error) {
	conn, err := o.deps.Host.OpenChild(ctx)
	if err != nil {
		return nil, &errs.SqlExecution{Message: "failed to open child connection", ExpandedSQL: wrapped, Cause: err}
	}

	rows, err := conn.QueryContext(ctx, wrapped)
	if err != nil {
		return nil, &errs.SqlExecution{Message: "host rejected expanded sql", ExpandedSQL: wrapped, Cause: err}
	}
	defer rows.Close()

	actualCols, err := rows.Columns()
	if err != nil {
		return nil, &errs.SqlExecution{Message: "failed to read column metadata", ExpandedSQL: wrapped, Cause: err}
	}
	if len(actualCols) > 0 {
		columns = actualCols
	}

	out := make([]registry.Row, 0)
	scratch := make([]sql.NullString, len(columns))
	dest := make([]any, len(columns))
	for i := range scratch {
		dest[i] = &scratch[i]
	}

	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, &errs.SqlExecution{Message: "failed to decode result row", ExpandedSQL: wrapped, Cause: err}
		}
		row := make(registry.Row, len(columns))
		for i, c := range columns {
			if scratch[i].Valid {
				row[c] = scratch[i].String
			} else {
				row[c] = nil
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &errs.SqlExecution{Message: "error while streaming results", ExpandedSQL: wrapped, Cause: err}
	}
	return out, nil
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
