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

// Package catalog implements the process-wide mapping of semantic view
// name to definition JSON, with deadlock-safe cross-restart persistence via
// a sidecar file synchronized with a host table (spec §4.5).
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"

	"semlayer/internal/errs"
	"semlayer/internal/host"
	"semlayer/internal/log"
	"semlayer/internal/model"
	"semlayer/internal/sqlgen/quote"
)

// Entry pairs a view name with its canonical definition JSON.
type Entry struct {
	Name       string
	Definition string
}

// Catalog is the shared, process-wide view registry. The mapping is
// protected by a readers-writer lock: reads (expansion, list, describe,
// query bind) proceed in parallel; writes (define, drop) are exclusive.
// Definitions are handed out by value; no caller retains a reference
// across lock release.
type Catalog struct {
	mu      sync.RWMutex
	mapping map[string]string

	h           host.Host
	tableName   string // the host table's fully quoted identifier
	sidecarPath string
	logger      log.Logger
}

// Option configures New.
type Option func(*Catalog)

// WithSidecarSuffix overrides the default sidecar file suffix.
func WithSidecarSuffix(suffix string) Option {
	return func(c *Catalog) { c.sidecarPath = sidecarPathFor(c.h.MainDatabasePath(), suffix) }
}

// New constructs a Catalog bound to h. schema names the extension schema
// the host table lives under (spec §6: "<extension_schema>._definitions").
// sqlite has no first-class schema namespace reachable without ATTACH, so
// the schema-qualified name is realized as a single quoted identifier
// containing the literal dot, preserving the wire-visible table name
// without requiring per-connection ATTACH bookkeeping.
func New(h host.Host, schema string, logger log.Logger, opts ...Option) *Catalog {
	c := &Catalog{
		mapping:   make(map[string]string),
		h:         h,
		tableName: quote.Identifier(schema + "._definitions"),
		logger:    logger,
	}
	c.sidecarPath = sidecarPathFor(h.MainDatabasePath(), defaultSidecarSuffix)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Init idempotently ensures the host table exists, reads the sidecar (never
// failing when absent), merges sidecar rows into the host table, and loads
// the final mapping into memory. Call once at plug-in load, and again on
// any fresh writer connection before its first write (spec §4.6).
func (c *Catalog) Init(ctx context.Context) error {
	raw := c.h.Raw()
	createStmt := fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (name TEXT PRIMARY KEY, definition TEXT)`,
		c.tableName,
	)
	if _, err := raw.ExecContext(ctx, createStmt); err != nil {
		return fmt.Errorf("catalog: ensure host table: %w", err)
	}

	sidecarRows, err := readSidecar(c.sidecarPath)
	if err != nil {
		return fmt.Errorf("catalog: read sidecar: %w", err)
	}

	for name, def := range sidecarRows {
		upsert := fmt.Sprintf(
			`INSERT INTO %s(name, definition) VALUES(?, ?) ON CONFLICT(name) DO UPDATE SET definition = excluded.definition`,
			c.tableName,
		)
		if _, err := raw.ExecContext(ctx, upsert, name, def); err != nil {
			return fmt.Errorf("catalog: reconcile sidecar row %q into host table: %w", name, err)
		}
	}

	merged, err := loadHostTable(ctx, raw, c.tableName)
	if err != nil {
		return fmt.Errorf("catalog: load host table: %w", err)
	}

	c.mu.Lock()
	c.mapping = merged
	c.mu.Unlock()

	if c.logger != nil {
		c.logger.InfoContext(ctx, "catalog initialized", "views", len(merged), "sidecar", c.sidecarPath)
	}
	return nil
}

func loadHostTable(ctx context.Context, db *sql.DB, tableName string) (map[string]string, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT name, definition FROM %s`, tableName))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var name, def string
		if err := rows.Scan(&name, &def); err != nil {
			return nil, err
		}
		out[name] = def
	}
	return out, rows.Err()
}

// Insert validates definitionJSON, writes it through the host table (when
// reachable) and the sidecar, then publishes it into the in-memory mapping.
// On any upstream failure all state is left unchanged. Returns
// *errs.AlreadyExists if name is already registered.
func (c *Catalog) Insert(ctx context.Context, name, definitionJSON string) error {
	def, err := model.Parse(name, definitionJSON)
	if err != nil {
		return err
	}
	canonical, err := model.Canonical(def)
	if err != nil {
		return fmt.Errorf("catalog: canonicalize definition for %q: %w", name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.mapping[name]; exists {
		return &errs.AlreadyExists{View: name}
	}

	insert := fmt.Sprintf(`INSERT INTO %s(name, definition) VALUES(?, ?)`, c.tableName)
	if _, err := c.h.Raw().ExecContext(ctx, insert, name, canonical); err != nil {
		return fmt.Errorf("catalog: write host table for %q: %w", name, err)
	}

	next := cloneMapping(c.mapping)
	next[name] = canonical
	if err := writeSidecar(c.sidecarPath, next); err != nil {
		rollback := fmt.Sprintf(`DELETE FROM %s WHERE name = ?`, c.tableName)
		_, _ = c.h.Raw().ExecContext(ctx, rollback, name)
		return fmt.Errorf("catalog: write sidecar for %q: %w", name, err)
	}

	c.mapping[name] = canonical
	if c.logger != nil {
		c.logger.InfoContext(ctx, "view defined", "view", name)
	}
	return nil
}

// Delete removes name from the host table, sidecar, and in-memory mapping.
// The in-memory mapping is the authoritative existence check; Delete
// reports *errs.NotFound if name is absent.
func (c *Catalog) Delete(ctx context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.mapping[name]; !exists {
		return &errs.NotFound{View: name}
	}

	del := fmt.Sprintf(`DELETE FROM %s WHERE name = ?`, c.tableName)
	if _, err := c.h.Raw().ExecContext(ctx, del, name); err != nil {
		return fmt.Errorf("catalog: delete host table row for %q: %w", name, err)
	}

	next := cloneMapping(c.mapping)
	delete(next, name)
	if err := writeSidecar(c.sidecarPath, next); err != nil {
		return fmt.Errorf("catalog: write sidecar after deleting %q: %w", name, err)
	}

	delete(c.mapping, name)
	if c.logger != nil {
		c.logger.InfoContext(ctx, "view dropped", "view", name)
	}
	return nil
}

// Get returns the raw definition JSON for name under a read hold.
func (c *Catalog) Get(name string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.mapping[name]
	return def, ok
}

// Names returns every registered view name, in no particular order; callers
// that need determinism (the list DDL operation) sort it themselves.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.mapping))
	for name := range c.mapping {
		names = append(names, name)
	}
	return names
}

// SortedNames returns Names() sorted lexically — the deterministic order
// spec §4.6's list operation requires.
func (c *Catalog) SortedNames() []string {
	names := c.Names()
	sort.Strings(names)
	return names
}

// Entries returns a snapshot of every (name, definition) pair under a read
// hold. The slice and strings are safe to use after the hold releases.
func (c *Catalog) Entries() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Entry, 0, len(c.mapping))
	for name, def := range c.mapping {
		out = append(out, Entry{Name: name, Definition: def})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func cloneMapping(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
