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

// Package host abstracts the analytic SQL engine this plug-in is loaded
// into. A real DuckDB-style C-ABI extension captures a raw database handle
// at load time and later opens independent child connections from it; Host
// is the Go-idiomatic analogue of that contract, backed by database/sql.
package host

import (
	"context"
	"database/sql"
	"errors"
)

// ErrExplainUnavailable is returned by Explain when the host cannot produce
// a native plan for the given SQL (e.g. referenced physical tables are
// missing). Callers fall back to a textual placeholder line.
var ErrExplainUnavailable = errors.New("host: explain not available")

// Host is the raw connection and capability surface the plug-in consumes.
// A concrete Host is captured once at process/plug-in load time; the
// runtime opens as many independent child connections from it as it needs.
type Host interface {
	// Raw returns the connection handle captured at load time. The catalog
	// issues its host-table bootstrap (Init) and the row writes of DDL
	// define/drop on it.
	Raw() *sql.DB

	// OpenChild returns an independent connection usable for the query and
	// inspection runtimes. For embedded single-process hosts this may
	// simply be Raw() again; the contract only requires that issuing SQL
	// on it never blocks on a lock held by a DDL scalar callback.
	OpenChild(ctx context.Context) (*sql.DB, error)

	// Explain returns the host's own query plan for sql, one string per
	// line, or ErrExplainUnavailable (or a wrapped form of it) if the plan
	// cannot be produced.
	Explain(ctx context.Context, conn *sql.DB, sqlText string) ([]string, error)

	// MainDatabasePath returns the file path of the first attached
	// database with a non-empty path, or "" to denote an in-memory host
	// (sidecar persistence is then disabled; the in-memory catalog mapping
	// remains authoritative for the process).
	MainDatabasePath() string
}
