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

package ddl

import (
	"context"
	"encoding/json"
	"fmt"

	"semlayer/internal/model"
	"semlayer/internal/registry"
)

const describeOpName = "describe_semantic_view"

func init() {
	if !registry.Register(describeOpName, newDescribeOp) {
		panic(fmt.Sprintf("ddl: operation %q already registered", describeOpName))
	}
}

type describeOp struct{ deps registry.Deps }

func newDescribeOp(deps registry.Deps) registry.Operation { return describeOp{deps: deps} }

func (describeOp) Name() string { return describeOpName }

// Invoke expects params {"name": string} and returns a single row of
// (name, base_table, dimensions, metrics, filters, joins) with the last
// four rendered as JSON text. Errors: *errs.NotFound with a suggestion.
func (o describeOp) Invoke(ctx context.Context, params map[string]any) (any, error) {
	name, _ := params["name"].(string)

	defJSON, ok := o.deps.Catalog.Get(name)
	if !ok {
		return nil, notFoundWithSuggestion(o.deps, name)
	}

	def, err := model.Parse(name, defJSON)
	if err != nil {
		return nil, fmt.Errorf("ddl: describe: stored definition for %q is invalid: %w", name, err)
	}

	dims, err := json.Marshal(def.Dimensions)
	if err != nil {
		return nil, err
	}
	mets, err := json.Marshal(def.Metrics)
	if err != nil {
		return nil, err
	}
	filters, err := json.Marshal(def.Filters)
	if err != nil {
		return nil, err
	}
	joins, err := json.Marshal(def.Joins)
	if err != nil {
		return nil, err
	}

	row := registry.Row{
		"name":       name,
		"base_table": def.BaseTable,
		"dimensions": string(dims),
		"metrics":    string(mets),
		"filters":    string(filters),
		"joins":      string(joins),
	}
	return []registry.Row{row}, nil
}
