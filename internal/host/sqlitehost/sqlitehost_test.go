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

package sqlitehost_test

import (
	"context"
	"testing"

	"semlayer/internal/host/sqlitehost"
)

func TestOpenInMemoryHasEmptyPath(t *testing.T) {
	s, err := sqlitehost.Open("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Close()
	if got := s.MainDatabasePath(); got != "" {
		t.Errorf("MainDatabasePath() = %q, want empty for in-memory host", got)
	}
}

func TestOpenFileHasPath(t *testing.T) {
	path := t.TempDir() + "/host.sqlite"
	s, err := sqlitehost.Open(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Close()
	if got := s.MainDatabasePath(); got != path {
		t.Errorf("MainDatabasePath() = %q, want %q", got, path)
	}
}

func TestExplainReturnsLines(t *testing.T) {
	s, err := sqlitehost.Open("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	if _, err := s.Raw().ExecContext(ctx, "CREATE TABLE t(a INTEGER)"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	conn, err := s.OpenChild(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines, err := s.Explain(ctx, conn, "SELECT * FROM t")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) == 0 {
		t.Error("expected at least one plan line")
	}
}

func TestExplainUnavailableOnBadSQL(t *testing.T) {
	s, err := sqlitehost.Open("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	conn, err := s.OpenChild(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Explain(ctx, conn, "SELECT * FROM nonexistent_table"); err == nil {
		t.Fatal("expected explain error for missing table")
	}
}
