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

// Package sqlitehost is the reference Host implementation this repository
// is tested and driven against: a pure-Go, embeddable engine
// (modernc.org/sqlite, no cgo) standing in for the analytic engine this
// plug-in would otherwise be loaded into.
package sqlitehost

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"semlayer/internal/host"
)

// Source is the sqlite-backed Host. path is the DSN/file path the database
// was opened from; "" or ":memory:" denotes an in-memory host.
type Source struct {
	db   *sql.DB
	path string
}

var _ host.Host = (*Source)(nil)

// Open opens (creating if necessary) a sqlite database at path and captures
// it as the host's raw connection. path == "" opens a private in-memory
// database.
func Open(path string) (*Source, error) {
	dsn := path
	if dsn == "" {
		dsn = ":memory:"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlitehost: open %q: %w", dsn, err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		// Non-fatal: in-memory databases don't support WAL, and pragma
		// support varies by build; the engine remains usable without it.
		_ = err
	}
	reportedPath := path
	if path == "" || path == ":memory:" {
		reportedPath = ""
	}
	return &Source{db: db, path: reportedPath}, nil
}

func (s *Source) Raw() *sql.DB { return s.db }

// OpenChild returns the same *sql.DB handle: database/sql already pools and
// serializes independent connections internally, so a single pool plays
// the role of the "independent child connection" the spec requires — no
// execution lock taken by a DDL scalar callback can block it.
func (s *Source) OpenChild(ctx context.Context) (*sql.DB, error) {
	if err := s.db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("sqlitehost: child connection unreachable: %w", err)
	}
	return s.db, nil
}

func (s *Source) MainDatabasePath() string { return s.path }

// Explain runs sqlite's native EXPLAIN QUERY PLAN over sqlText and returns
// one line per plan row.
func (s *Source) Explain(ctx context.Context, conn *sql.DB, sqlText string) ([]string, error) {
	rows, err := conn.QueryContext(ctx, "EXPLAIN QUERY PLAN "+sqlText)
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
		lines = append(lines, strings.Join(parts, "|"))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", host.ErrExplainUnavailable, err)
	}
	return lines, nil
}

// Close releases the underlying connection pool.
func (s *Source) Close() error { return s.db.Close() }
