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

package catalog_test

import (
	"context"
	"testing"

	"semlayer/internal/catalog"
	"semlayer/internal/host/sqlitehost"
	"semlayer/internal/log"
)

const minimalJSON = `{"base_table":"orders","dimensions":[{"name":"region","expr":"region"}],"metrics":[{"name":"total_revenue","expr":"sum(amount)"}]}`

func newTestCatalog(t *testing.T, path string) (*catalog.Catalog, *sqlitehost.Source) {
	t.Helper()
	h, err := sqlitehost.Open(path)
	if err != nil {
		t.Fatalf("unexpected error opening host: %v", err)
	}
	c := catalog.New(h, "semlayer", log.NoopLogger{})
	if err := c.Init(context.Background()); err != nil {
		t.Fatalf("unexpected error initializing catalog: %v", err)
	}
	return c, h
}

func TestInsertAndGet(t *testing.T) {
	c, h := newTestCatalog(t, "")
	defer h.Close()

	ctx := context.Background()
	if err := c.Insert(ctx, "simple_orders", minimalJSON); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	def, ok := c.Get("simple_orders")
	if !ok {
		t.Fatal("expected view to be present after insert")
	}
	if def == "" {
		t.Error("expected non-empty canonical definition")
	}
}

func TestInsertDuplicateNameRejected(t *testing.T) {
	c, h := newTestCatalog(t, "")
	defer h.Close()
	ctx := context.Background()

	if err := c.Insert(ctx, "simple_orders", minimalJSON); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Insert(ctx, "simple_orders", minimalJSON); err == nil {
		t.Fatal("expected AlreadyExists error on duplicate define")
	}
}

// P9 — drop erases
func TestDeleteThenGetNotFound(t *testing.T) {
	c, h := newTestCatalog(t, "")
	defer h.Close()
	ctx := context.Background()

	if err := c.Insert(ctx, "simple_orders", minimalJSON); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Delete(ctx, "simple_orders"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := c.Get("simple_orders"); ok {
		t.Error("expected view to be gone after delete")
	}
}

func TestDeleteUnknownViewNotFound(t *testing.T) {
	c, h := newTestCatalog(t, "")
	defer h.Close()

	if err := c.Delete(context.Background(), "nope"); err == nil {
		t.Fatal("expected NotFound error")
	}
}

// P8 — persistence round-trip across process restart
func TestPersistenceRoundTripAcrossRestart(t *testing.T) {
	dbPath := t.TempDir() + "/host.sqlite"

	c1, h1 := newTestCatalog(t, dbPath)
	ctx := context.Background()
	if err := c1.Insert(ctx, "restart_test", minimalJSON); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := h1.Close(); err != nil {
		t.Fatalf("unexpected error closing host: %v", err)
	}

	// simulate process restart: fresh host, fresh catalog, same db file
	c2, h2 := newTestCatalog(t, dbPath)
	defer h2.Close()

	names := c2.SortedNames()
	found := false
	for _, n := range names {
		if n == "restart_test" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected restart_test to survive restart, got %v", names)
	}
}

func TestDropSurvivesRestart(t *testing.T) {
	dbPath := t.TempDir() + "/host.sqlite"
	ctx := context.Background()

	c1, h1 := newTestCatalog(t, dbPath)
	if err := c1.Insert(ctx, "temp_view", minimalJSON); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c1.Delete(ctx, "temp_view"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := h1.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c2, h2 := newTestCatalog(t, dbPath)
	defer h2.Close()
	if _, ok := c2.Get("temp_view"); ok {
		t.Error("expected dropped view to remain absent after restart")
	}
}

func TestInitIsIdempotent(t *testing.T) {
	dbPath := t.TempDir() + "/host.sqlite"
	h, err := sqlitehost.Open(dbPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer h.Close()

	c := catalog.New(h, "semlayer", log.NoopLogger{})
	ctx := context.Background()
	if err := c.Init(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Insert(ctx, "v1", minimalJSON); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := c.SortedNames()

	if err := c.Init(ctx); err != nil {
		t.Fatalf("unexpected error on second init: %v", err)
	}
	after := c.SortedNames()

	if len(before) != len(after) || before[0] != after[0] {
		t.Errorf("init(); init() produced different state: %v vs %v", before, after)
	}
}

func TestInMemoryHostDisablesSidecarButKeepsMapping(t *testing.T) {
	c, h := newTestCatalog(t, "")
	defer h.Close()
	ctx := context.Background()
	if err := c.Insert(ctx, "mem_view", minimalJSON); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := c.Get("mem_view"); !ok {
		t.Error("expected in-memory mapping to retain the view within the process lifetime")
	}
}
