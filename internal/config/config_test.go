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

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"semlayer/internal/config"
	"semlayer/internal/log"
)

func TestLoadFillsDefaultsForUnsetFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "semlayer.yaml")
	if err := os.WriteFile(path, []byte("logLevel: debug\n"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected logLevel debug, got %q", cfg.LogLevel)
	}
	if cfg.LogFormat != "standard" {
		t.Errorf("expected default logFormat standard, got %q", cfg.LogFormat)
	}
	if cfg.ExtensionSchema != "semlayer" {
		t.Errorf("expected default extensionSchema semlayer, got %q", cfg.ExtensionSchema)
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "semlayer.yaml")
	if err := os.WriteFile(path, []byte("logLevel: info\n"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	w, err := config.NewWatcher(path, log.NoopLogger{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer w.Close()

	if got := w.Current().LogLevel; got != "info" {
		t.Fatalf("expected initial logLevel info, got %q", got)
	}

	if err := os.WriteFile(path, []byte("logLevel: debug\n"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if w.Current().LogLevel == "debug" {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("expected watcher to observe reload, last seen %q", w.Current().LogLevel)
}
