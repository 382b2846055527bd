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

package query_test

import (
	"context"
	"errors"
	"testing"

	"semlayer/internal/catalog"
	"semlayer/internal/errs"
	"semlayer/internal/host/sqlitehost"
	"semlayer/internal/log"
	_ "semlayer/internal/query"
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

	raw := h.Raw()
	ctx := context.Background()
	if _, err := raw.ExecContext(ctx, `CREATE TABLE orders (region TEXT, amount REAL)`); err != nil {
		t.Fatalf("unexpected error creating orders table: %v", err)
	}
	seed := []struct {
		region string
		amount float64
	}{
		{"west", 100}, {"west", 50}, {"east", 25},
	}
	for _, s := range seed {
		if _, err := raw.ExecContext(ctx, `INSERT INTO orders(region, amount) VALUES (?, ?)`, s.region, s.amount); err != nil {
			t.Fatalf("unexpected error seeding orders: %v", err)
		}
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

func TestSemanticQueryGroupedAggregate(t *testing.T) {
	deps := newTestDeps(t)
	ops := registry.Build(deps)

	result, err := registry.MustInvoke(context.Background(), ops, "semantic_query", map[string]any{
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
	if len(rows) != 2 {
		t.Fatalf("expected 2 grouped rows, got %d: %v", len(rows), rows)
	}
	for _, row := range rows {
		if _, ok := row["region"]; !ok {
			t.Errorf("expected row to have region column: %v", row)
		}
		if _, ok := row["total_revenue"]; !ok {
			t.Errorf("expected row to have total_revenue column: %v", row)
		}
	}
}

func TestSemanticQueryUnknownViewReturnsSuggestion(t *testing.T) {
	deps := newTestDeps(t)
	ops := registry.Build(deps)

	_, err := registry.MustInvoke(context.Background(), ops, "semantic_query", map[string]any{
		"name":       "orders_veiw",
		"dimensions": []string{"region"},
	})
	if err == nil {
		t.Fatal("expected ViewNotFound error")
	}
	var vnf *errs.ViewNotFound
	if !errors.As(err, &vnf) {
		t.Fatalf("expected *errs.ViewNotFound, got %T: %v", err, err)
	}
	if vnf.Suggestion != "orders_view" {
		t.Errorf("expected suggestion %q, got %q", "orders_view", vnf.Suggestion)
	}
}

func TestSemanticQueryUnknownMetricWrapsExpansionFailed(t *testing.T) {
	deps := newTestDeps(t)
	ops := registry.Build(deps)

	_, err := registry.MustInvoke(context.Background(), ops, "semantic_query", map[string]any{
		"name":    "orders_view",
		"metrics": []string{"bogus_metric"},
	})
	if err == nil {
		t.Fatal("expected ExpansionFailed error")
	}
	var ef *errs.ExpansionFailed
	if !errors.As(err, &ef) {
		t.Fatalf("expected *errs.ExpansionFailed, got %T: %v", err, err)
	}
}
