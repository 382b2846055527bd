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

// Package config loads the plug-in's process configuration from YAML
// (goccy/go-yaml, the teacher's serialization choice for its own tool/source
// configs) and watches the file for changes via fsnotify, applying the
// teacher's hot-reload convention for its logging knobs to this plug-in's
// smaller configuration surface.
package config

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/goccy/go-yaml"

	"semlayer/internal/log"
)

// Config is the process-wide, hot-reloadable configuration.
type Config struct {
	// LogFormat is "standard" or "json", per internal/log.
	LogFormat string `yaml:"logFormat"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"logLevel"`
	// ExtensionSchema names the schema the catalog's host table lives under.
	ExtensionSchema string `yaml:"extensionSchema"`
	// SidecarSuffix overrides the catalog sidecar file's suffix.
	SidecarSuffix string `yaml:"sidecarSuffix"`
	// HostDSN is the embedded host's database path ("" for in-memory).
	HostDSN string `yaml:"hostDSN"`
	// Address is the HTTP surface's listen address.
	Address string `yaml:"address"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		LogFormat:       "standard",
		LogLevel:        "info",
		ExtensionSchema: "semlayer",
		SidecarSuffix:   "",
		HostDSN:         "",
		Address:         ":9097",
	}
}

// Load reads and parses a YAML config file at path, filling unset fields
// from Default.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// Watcher holds the live configuration and notifies on reload. Only the
// ambient knobs (log format/level) are safe to hot-swap; schema, sidecar
// suffix, and host DSN take effect only at the next process start since
// they're baked into already-constructed catalog/host objects.
type Watcher struct {
	mu     sync.RWMutex
	path   string
	cfg    Config
	logger log.Logger
	watch  *fsnotify.Watcher
}

// NewWatcher loads path once and begins watching it for writes. Call
// Close when done. A nil *Watcher is not usable; callers that didn't
// supply a config path should use Default() directly instead of a Watcher.
func NewWatcher(path string, logger log.Logger) (*Watcher, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: start fsnotify watcher: %w", err)
	}
	if err := fw.Add(path); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("config: watch %q: %w", path, err)
	}

	w := &Watcher{path: path, cfg: cfg, logger: logger, watch: fw}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.watch.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cfg, err := Load(w.path)
			if err != nil {
				if w.logger != nil {
					w.logger.WarnContext(context.Background(), "config: reload failed, keeping previous configuration", "error", err.Error())
				}
				continue
			}
			w.mu.Lock()
			w.cfg = cfg
			w.mu.Unlock()
			if w.logger != nil {
				w.logger.InfoContext(context.Background(), "config: reloaded", "logFormat", cfg.LogFormat, "logLevel", cfg.LogLevel)
			}
		case err, ok := <-w.watch.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.WarnContext(context.Background(), "config: watcher error", "error", err.Error())
			}
		}
	}
}

// Current returns the most recently loaded configuration.
func (w *Watcher) Current() Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.cfg
}

// Close stops watching the configuration file.
func (w *Watcher) Close() error { return w.watch.Close() }
