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

// Package testhost provides a MySQL-backed host.Host, used only by an
// integration test that runs the catalog against a second, independent SQL
// engine rather than the embedded sqlite reference host alone. Grounded on
// Pieczasz-smf's testcontainers-based MySQL test setup.
package testhost

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"semlayer/internal/host"
)

// Source is a MySQL-backed Host. Unlike sqlitehost, it has no file path of
// its own, so a catalog bound to it keeps no sidecar file.
type Source struct {
	db *sql.DB
}

var _ host.Host = (*Source)(nil)

// Open wraps an already-reachable MySQL DSN (typically pointed at a
// testcontainers-managed instance) as a Host.
func Open(dsn string) (*Source, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("testhost: open %q: %w", dsn, err)
	}
	return &Source{db: db}, nil
}

func (s *Source) Raw() *sql.DB { return s.db }

func (s *Source) OpenChild(ctx context.Context) (*sql.DB, error) {
	if err := s.db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("testhost: child connection unreachable: %w", err)
	}
	return s.db, nil
}

// MainDatabasePath always reports "": this host has no sidecar-bearing
// file path, so the catalog's persistence is carried entirely by the host
// table for the lifetime of the container.
func (s *Source) MainDatabasePath() string { return "" }

// Explain runs MySQL's native EXPLAIN over sqlText.
func (s *Source) Explain(ctx context.Context, conn *sql.DB, sqlText string) ([]string, error) {
	rows, err := conn.QueryContext(ctx, "EXPLAIN "+sqlText)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", host.ErrExplainUnavailable, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", host.ErrExplainUnavailable, err)
	}

	var lines []string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("%w: %v", host.ErrExplainUnavailable, err)
		}
		parts := make([]string, len(cols))
		for i, v := range vals {
			parts[i] = fmt.Sprintf("%v", v)
		}
		lines = append(lines, fmt.Sprintf("%v", parts))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", host.ErrExplainUnavailable, err)
	}
	return lines, nil
}

// Close releases the underlying connection pool.
func (s *Source) Close() error { return s.db.Close() }
