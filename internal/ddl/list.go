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
	"fmt"

	"semlayer/internal/model"
	"semlayer/internal/registry"
)

const listOpName = "list_semantic_views"

func init() {
	if !registry.Register(listOpName, newListOp) {
		panic(fmt.Sprintf("ddl: operation %q already registered", listOpName))
	}
}

type listOp struct{ deps registry.Deps }

func newListOp(deps registry.Deps) registry.Operation { return listOp{deps: deps} }

func (listOp) Name() string { return listOpName }

// Invoke takes no parameters and returns rows of (name, base_table) sorted
// deterministically by name. Never errors.
func (o listOp) Invoke(ctx context.Context, _ map[string]any) (any, error) {
	entries := o.deps.Catalog.Entries() // already sorted by name
	rows := make([]registry.Row, 0, len(entries))
	for _, e := range entries {
		def, err := model.Parse(e.Name, e.Definition)
		if err != nil {
			// A definition that fails strict re-parse here indicates
			// corruption upstream of this layer's own writes; surface it
			// rather than silently dropping a row from the listing.
			return nil, fmt.Errorf("ddl: list: stored definition for %q is invalid: %w", e.Name, err)
		}
		rows = append(rows, registry.Row{"name": e.Name, "base_table": def.BaseTable})
	}
	return rows, nil
}
