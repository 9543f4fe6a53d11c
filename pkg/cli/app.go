/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package cli implements the inventory command line.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openflighthpc/inventoryware/pkg/config"
	"github.com/openflighthpc/inventoryware/pkg/inventory"
	"github.com/openflighthpc/inventoryware/pkg/lifecycle"
	"github.com/openflighthpc/inventoryware/pkg/models"
	"github.com/openflighthpc/inventoryware/pkg/nodeset"
	"github.com/openflighthpc/inventoryware/pkg/version"
)

// DefaultStreams uses the process's standard streams.
func DefaultStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, ErrOut: os.Stderr}
}

// NewRootCommand builds the inventory command tree.
func NewRootCommand(streams Streams) *cobra.Command {
	a := &app{streams: streams}

	root := &cobra.Command{
		Use:   "inventory",
		Short: "Manage the asset inventory of an HPC cluster",
		Long: `Manage the asset inventory of an HPC cluster.

Every asset is a YAML record named after the node, kept in one directory per
cluster. Node arguments accept ranges and wildcards, e.g. node[01-10],gpu*.`,
		Example:       rootExamples,
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context(), cmd)
		},
	}

	root.SetIn(streams.In)
	root.SetOut(streams.Out)
	root.SetErr(streams.ErrOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.flags.ConfigPath, "config", models.DefaultInventoryConfigPath(), "path to the inventory config file")
	flags.StringVar(&a.flags.StoreDir, "store-dir", models.DefaultStoreDir, "directory holding one record directory per cluster")
	flags.StringVar(&a.flags.Cluster, "cluster", models.DefaultCluster, "cluster whose records are used")
	flags.BoolVar(&a.flags.Debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newListCommand(a),
		newShowCommand(a),
		newCreateCommand(a),
		newModifyCommand(a),
		newModifyGroupsCommand(a),
		newModifyLocationCommand(a),
		newMoveCommand(a),
		newMigrateCommand(a),
	)

	return root
}

// Execute runs the command tree against the process streams.
func Execute(ctx context.Context) error {
	return NewRootCommand(DefaultStreams()).ExecuteContext(ctx)
}

// setup loads configuration and builds the store. Explicit flags override the file.
func (a *app) setup(ctx context.Context, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}

	bootLog, err := lifecycle.CreateLoggerWithWriter(nil, a.flags.Debug, a.streams.ErrOut)
	if err != nil {
		return err
	}

	cfg := &models.InventoryConfig{
		StoreDir: a.flags.StoreDir,
		Cluster:  a.flags.Cluster,
	}

	if err := config.NewConfig(bootLog).LoadAndValidate(ctx, a.flags.ConfigPath, cfg); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("store-dir") {
		cfg.StoreDir = a.flags.StoreDir
	}

	if flags.Changed("cluster") {
		cfg.Cluster = a.flags.Cluster
	}

	log, err := lifecycle.CreateLoggerWithWriter(cfg.Logging, a.flags.Debug, a.streams.ErrOut)
	if err != nil {
		return err
	}

	store, err := inventory.NewStore(cfg, log)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = log
	a.store = store
	a.prompter = NewTypePrompter(a.streams.In, a.streams.ErrOut, cfg.DefaultType)

	log.Debug().
		Str("config", a.flags.ConfigPath).
		Str("dir", store.Dir()).
		Msg("Inventory store ready")

	return nil
}

func (a *app) expander() *inventory.Expander {
	return inventory.NewExpander(a.store, nodeset.Expander{}, a.prompter, a.logger)
}

func (a *app) query() *inventory.Query {
	return inventory.NewQuery(a.store, a.cfg.MinimumSchema, a.logger)
}
