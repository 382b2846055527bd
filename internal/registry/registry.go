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

// Package registry generalizes the teacher's tool-kind registration pattern
// (internal/tools.Register/ToolConfigFactory) to this plug-in's six host
// functions (spec §6): each operation package registers itself from its own
// init(), and callers (the HTTP surface, the CLI invoke subcommand) dispatch
// by name without importing the operation packages directly.
package registry

import (
	"context"
	"fmt"

	"semlayer/internal/catalog"
	"semlayer/internal/host"
	"semlayer/internal/log"
)

// Deps are the process-wide collaborators every operation is constructed
// with: the shared catalog, the host connection, and a logger.
type Deps struct {
	Catalog *catalog.Catalog
	Host    host.Host
	Logger  log.Logger
}

// Operation is a bound, invocable host function — scalar (define/drop) or
// table-valued (list/describe/semantic_query/explain_semantic_view). Both
// shapes funnel through Invoke; table-valued operations return a []Row.
type Operation interface {
	// Name is the host-visible function name (spec §6's Function column).
	Name() string
	// Invoke executes the operation against named parameters.
	Invoke(ctx context.Context, params map[string]any) (any, error)
}

// Row is one output row of a table-valued operation, column name to value.
type Row map[string]any

// Factory builds an Operation bound to deps.
type Factory func(deps Deps) Operation

var factories = make(map[string]Factory)

// Register associates name with factory. Called from each operation
// package's init(). Returns false (without overwriting) if name is already
// registered.
func Register(name string, factory Factory) bool {
	if _, exists := factories[name]; exists {
		return false
	}
	factories[name] = factory
	return true
}

// Build constructs every registered operation bound to deps, keyed by name.
func Build(deps Deps) map[string]Operation {
	out := make(map[string]Operation, len(factories))
	for name, factory := range factories {
		out[name] = factory(deps)
	}
	return out
}

// Names returns every registered operation name.
func Names() []string {
	out := make([]string, 0, len(factories))
	for name := range factories {
		out = append(out, name)
	}
	return out
}

// MustInvoke is a convenience for callers (CLI, tests) that already hold a
// built operation set and want a direct error on an unknown name.
func MustInvoke(ctx context.Context, ops map[string]Operation, name string, params map[string]any) (any, error) {
	op, ok := ops[name]
	if !ok {
		return nil, fmt.Errorf("registry: unknown operation %q", name)
	}
	return op.Invoke(ctx, params)
}
