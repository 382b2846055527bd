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

package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
)

// defaultSidecarSuffix is appended to the host database file path to derive
// the sidecar file path (spec §4.5, §6). Overridable via WithSidecarSuffix.
const defaultSidecarSuffix = ".semlayer.json"

type sidecarEntry struct {
	Name       string `json:"name"`
	Definition string `json:"definition"`
}

// sidecarPathFor derives the sidecar path from the host database path. An
// empty dbPath (in-memory host) disables the sidecar entirely.
func sidecarPathFor(dbPath, suffix string) string {
	if dbPath == "" {
		return ""
	}
	return dbPath + suffix
}

// readSidecar returns an empty, non-error result when the file is absent —
// init must never fail on a missing sidecar.
func readSidecar(path string) (map[string]string, error) {
	out := make(map[string]string)
	if path == "" {
		return out, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, err
	}
	var entries []sidecarEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	for _, e := range entries {
		out[e.Name] = e.Definition
	}
	return out, nil
}

// writeSidecar serializes mapping as a canonical JSON array sorted by name
// and atomically replaces the sidecar file via write-to-temp-then-rename.
func writeSidecar(path string, mapping map[string]string) error {
	if path == "" {
		return nil
	}
	names := make([]string, 0, len(mapping))
	for name := range mapping {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]sidecarEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, sidecarEntry{Name: name, Definition: mapping[name]})
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".semlayer-sidecar-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
