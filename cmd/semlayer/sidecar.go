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

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// newSidecarCommand groups operator diagnostics around the catalog's
// persistence sidecar. "sidecar inspect" prints the catalog state as loaded
// and reconciled at setup time, independent of the host table, useful when
// diagnosing a sidecar/host-table divergence.
func newSidecarCommand(rc *rootCommand) *cobra.Command {
	cmd := &cobra.Command{Use: "sidecar", Short: "Inspect catalog persistence"}
	cmd.AddCommand(newSidecarInspectCommand(rc))
	return cmd
}

func newSidecarInspectCommand(rc *rootCommand) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Print every semantic view as loaded from the catalog's sidecar/host-table reconciliation",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := rc.cat.Entries()
			out := make([]map[string]string, len(entries))
			for i, e := range entries {
				out[i] = map[string]string{"name": e.Name, "definition": e.Definition}
			}
			b, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return fmt.Errorf("semlayer: marshal sidecar inspection: %w", err)
			}
			fmt.Fprintln(rc.Out(), string(b))
			return nil
		},
	}
}
