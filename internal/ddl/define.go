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

// Package ddl implements the four host functions of spec §4.6: define,
// drop, list, describe. Each registers itself with internal/registry from
// its own init(), mirroring the teacher's one-kind-registers-itself
// convention (internal/tools/*/*.go).
package ddl

import (
	"context"
	"fmt"

	"semlayer/internal/registry"
)

const defineOpName = "define_semantic_view"

func init() {
	if !registry.Register(defineOpName, newDefineOp) {
		panic(fmt.Sprintf("ddl: operation %q already registered", defineOpName))
	}
}

type defineOp struct{ deps registry.Deps }

func newDefineOp(deps registry.Deps) registry.Operation { return defineOp{deps: deps} }

func (defineOp) Name() string { return defineOpName }

// Invoke expects params {"name": string, "json": string} and returns a
// confirmation message. Errors: *errs.AlreadyExists, *errs.MalformedDefinition.
func (o defineOp) Invoke(ctx context.Context, params map[string]any) (any, error) {
	name, _ := params["name"].(string)
	jsonText, _ := params["json"].(string)

	if err := o.deps.Catalog.Insert(ctx, name, jsonText); err != nil {
		return nil, err
	}
	return fmt.Sprintf("semantic view %q defined", name), nil
}
