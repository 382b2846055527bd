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

package inspect_test

import (
	"context"
	"strings"
	"testing"

	"semlayer/internal/catalog"
	"semlayer/internal/host/sqlitehost"
	_ "semlayer/internal/inspect"
	"semlayer/internal/log"
	"semlayer/internal/registry"
)

const ordersJSON = `{
	"base_table": "orders",
	"dimensions": [{"name": "region", "expr": "region"}],
	"metrics": [{"name": "total_revenue", "expr": "sum(amount)"}]
}`

func newTestDeps(t *testing.T) registry.Deps {
	t.Helper()
	h, err := sqlitehost.Open("")
	if err != nil {
		t.Fatalf("unexpected error opening host: %v", err)
	}
	t.Cleanup(func() { h.Close() })

	ctx := context.Background()
	if _, err := h.Raw().ExecContext(ctx, `CREATE TABLE orders (region TEXT, amount REAL)`); err != nil {
		t.Fatalf("unexpected error creating orders table: %v", err)
	}

	c := catalog.New(h, "semlayer", log.NoopLogger{})
	if err := c.Init(ctx); err != nil {
		t.Fatalf("unexpected error initializing catalog: %v", err)
	}
	if err := c.Insert(ctx, "orders_view", ordersJSON); err != nil {
		t.Fatalf("unexpected error defining view: %v", err)
	}

	return registry.Deps{Catalog: c, Host: h, Logger: log.NoopLogger{}}
}

func TestExplainSemanticViewThreePartOutput(t *testing.T) {
	deps := newTestDeps(t)
	ops := registry.Build(deps)

	result, err := registry.MustInvoke(context.Background(), ops, "explain_semantic_view", map[string]any{
		"name":       "orders_view",
		"dimensions": []string{"region"},
		"metrics":    []string{"total_revenue"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows, ok := result.([]registry.Row)
	if !ok {
		t.Fatalf("expected []registry.Row, got %T", result)
	}
	if len(rows) == 0 {
		t.Fatal("expected at least one output line")
	}

	var lines []string
	for _, r := range rows {
		line, _ := r["line"].(string)
		lines = append(lines, line)
	}
	joined := strings.Join(lines, "\n")

	if !strings.Contains(joined, "-- view: orders_view") {
		t.Error("expected metadata block to name the view")
	}
	if !strings.Contains(joined, "-- dimensions: region") {
		t.Error("expected metadata block to list requested dimensions")
	}
	if !strings.Contains(joined, "WITH") {
		t.Error("expected pretty-printed expanded sql in output")
	}
}

func TestExplainSemanticViewUnknownViewIsNotFound(t *testing.T) {
	deps := newTestDeps(t)
	ops := registry.Build(deps)

	_, err := registry.MustInvoke(context.Background(), ops, "explain_semantic_view", map[string]any{
		"name":       "missing_view",
		"dimensions": []string{"region"},
	})
	if err == nil {
		t.Fatal("expected error for unknown view")
	}
}
