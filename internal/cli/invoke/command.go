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

// Package invoke adapts the teacher's invoke subcommand (direct,
// non-HTTP tool execution from the shell) to this plug-in's six registered
// operations.
package invoke

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"semlayer/internal/log"
	"semlayer/internal/registry"
)

// RootCommand is the subset of the root command an invoke call needs:
// a built operation set, a logger, and somewhere to write output.
type RootCommand interface {
	Operations() map[string]registry.Operation
	Out() io.Writer
	Logger() log.Logger
}

func NewCommand(rootCmd RootCommand) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoke <operation-name> [params]",
		Short: "Execute a registered operation directly",
		Long: `Execute a registered semantic-layer operation directly with parameters.
Params must be a JSON object string.
Example:
  semlayer invoke define_semantic_view '{"name":"orders_view","json":"{...}"}'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runInvoke(c, args, rootCmd)
		},
	}
	return cmd
}

func runInvoke(cmd *cobra.Command, args []string, rootCmd RootCommand) error {
	ctx := cmd.Context()

	opName := args[0]
	ops := rootCmd.Operations()
	op, ok := ops[opName]
	if !ok {
		errMsg := fmt.Errorf("operation %q not found", opName)
		rootCmd.Logger().ErrorContext(ctx, errMsg.Error())
		return errMsg
	}

	var paramsInput string
	if len(args) > 1 {
		paramsInput = args[1]
	}

	params := make(map[string]any)
	if paramsInput != "" {
		if err := json.Unmarshal([]byte(paramsInput), &params); err != nil {
			errMsg := fmt.Errorf("params must be a valid JSON object string: %w", err)
			rootCmd.Logger().ErrorContext(ctx, errMsg.Error())
			return errMsg
		}
	}

	result, err := op.Invoke(ctx, params)
	if err != nil {
		errMsg := fmt.Errorf("operation execution failed: %w", err)
		rootCmd.Logger().ErrorContext(ctx, errMsg.Error())
		return errMsg
	}

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		errMsg := fmt.Errorf("failed to marshal result: %w", err)
		rootCmd.Logger().ErrorContext(ctx, errMsg.Error())
		return errMsg
	}
	fmt.Fprintln(rootCmd.Out(), string(output))

	return nil
}
