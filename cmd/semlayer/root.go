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
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"semlayer/internal/catalog"
	"semlayer/internal/cli/invoke"
	"semlayer/internal/config"
	"semlayer/internal/host"
	"semlayer/internal/host/sqlitehost"
	"semlayer/internal/log"
	"semlayer/internal/registry"
	"semlayer/internal/server"

	_ "semlayer/internal/ddl"
	_ "semlayer/internal/inspect"
	_ "semlayer/internal/query"
)

// rootCommand holds the plug-in's runtime state constructed once at Setup
// and shared by every subcommand, mirroring the teacher's RootCommand.
type rootCommand struct {
	*cobra.Command

	cfgFile string

	cfg    config.Config
	logger log.Logger
	h      host.Host
	cat    *catalog.Catalog
	ops    map[string]registry.Operation

	outWriter io.Writer
	errWriter io.Writer
}

func newRootCommand() *rootCommand {
	rc := &rootCommand{outWriter: os.Stdout, errWriter: os.Stderr}
	rc.Command = &cobra.Command{
		Use:           "semlayer",
		Short:         "A declarative semantic layer over an embedded analytic SQL engine",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	rc.PersistentFlags().StringVar(&rc.cfgFile, "config", "", "path to a YAML config file (optional; defaults are used otherwise)")
	rc.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return rc.setup(cmd.Context())
	}

	rc.AddCommand(newServeCommand(rc))
	rc.AddCommand(invoke.NewCommand(rc))
	rc.AddCommand(newSidecarCommand(rc))
	return rc
}

// setup loads configuration, opens the embedded host, initializes the
// catalog, and builds every registered operation. Idempotent.
func (rc *rootCommand) setup(ctx context.Context) error {
	if rc.logger != nil {
		return nil
	}

	cfg := config.Default()
	if rc.cfgFile != "" {
		loaded, err := config.Load(rc.cfgFile)
		if err != nil {
			return fmt.Errorf("semlayer: load config: %w", err)
		}
		cfg = loaded
	}
	rc.cfg = cfg

	logger, err := log.NewLogger(cfg.LogFormat, cfg.LogLevel, rc.outWriter, rc.errWriter)
	if err != nil {
		return fmt.Errorf("semlayer: construct logger: %w", err)
	}
	rc.logger = logger

	h, err := sqlitehost.Open(cfg.HostDSN)
	if err != nil {
		return fmt.Errorf("semlayer: open host: %w", err)
	}
	rc.h = h

	var catOpts []catalog.Option
	if cfg.SidecarSuffix != "" {
		catOpts = append(catOpts, catalog.WithSidecarSuffix(cfg.SidecarSuffix))
	}
	cat := catalog.New(h, cfg.ExtensionSchema, logger, catOpts...)
	if err := cat.Init(ctx); err != nil {
		return fmt.Errorf("semlayer: initialize catalog: %w", err)
	}
	rc.cat = cat

	rc.ops = registry.Build(registry.Deps{Catalog: cat, Host: h, Logger: logger})
	return nil
}

func (rc *rootCommand) Operations() map[string]registry.Operation { return rc.ops }
func (rc *rootCommand) Out() io.Writer { return rc.outWriter }
func (rc *rootCommand) Logger() log.Logger { return rc.logger }

func newServeCommand(rc *rootCommand) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the semantic-layer operations over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr := addr
			if listenAddr == "" {
				listenAddr = rc.cfg.Address
			}
			srv := server.New(registry.Deps{Catalog: rc.cat, Host: rc.h, Logger: rc.logger})
			rc.logger.InfoContext(cmd.Context(), "listening", "address", listenAddr)
			return http.ListenAndServe(listenAddr, srv)
		},
	}
	cmd.Flags().StringVar(&addr, "address", "", "listen address, overriding the config file's address")
	return cmd
}
