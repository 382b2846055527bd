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
	"errors"
	"fmt"

	"semlayer/internal/errs"
	"semlayer/internal/registry"
)

const dropOpName = "drop_semantic_view"

func init() {
	if !registry.Register(dropOpName, newDropOp) {
		panic(fmt.Sprintf("ddl: operation %q already registered", dropOpName))
	}
}

type dropOp struct{ deps registry.Deps }

func newDropOp(deps registry.Deps) registry.Operation { return dropOp{deps: deps} }

func (dropOp) Name() string { return dropOpName }

// Invoke expects params {"name": string} and returns a confirmation
// message. Errors: *errs.NotFound, annotated with a fuzzy suggestion.
func (o dropOp) Invoke(ctx context.Context, params map[string]any) (any, error) {
	name, _ := params["name"].(string)

	err := o.deps.Catalog.Delete(ctx, name)
	if err == nil {
		return fmt.Sprintf("semantic view %q dropped", name), nil
	}

	var nf *errs.NotFound
	if errors.As(err, &nf) {
		return nil, notFoundWithSuggestion(o.deps, nf.View)
	}
	return nil, err
}
