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

// migrate-data upgrades inventory records written by older releases to the current schema.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/openflighthpc/inventoryware/pkg/config"
	"github.com/openflighthpc/inventoryware/pkg/inventory"
	"github.com/openflighthpc/inventoryware/pkg/lifecycle"
	"github.com/openflighthpc/inventoryware/pkg/models"
	"github.com/openflighthpc/inventoryware/pkg/schema"
)

type migrateConfig struct {
	configPath string
	storeDir   string
	cluster    string
	debug      bool
	target     string
}

var (
	errTooManyArgs    = errors.New("expected at most one node name or record path")
	errRecordNotFound = errors.New("no record for")
)

func main() {
	cfg, err := parseFlags()
	if err != nil {
		log.Fatalf("migrate-data: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("migrate-data failed: %v", err)
	}
}

func parseFlags() (migrateConfig, error) {
	var cfg migrateConfig

	flag.StringVar(&cfg.configPath, "config", models.DefaultInventoryConfigPath(), "path to the inventory config file")
	flag.StringVar(&cfg.storeDir, "store-dir", "", "override the configured store directory")
	flag.StringVar(&cfg.cluster, "cluster", "", "override the configured cluster")
	flag.BoolVar(&cfg.debug, "debug", false, "enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: migrate-data [options] [node-name | record-path]\n\n")
		fmt.Fprintf(flag.CommandLine.Output(), "Without an argument every record in the cluster is migrated.\n\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	switch flag.NArg() {
	case 0:
	case 1:
		cfg.target = flag.Arg(0)
	default:
		return cfg, errTooManyArgs
	}

	return cfg, nil
}

func run(ctx context.Context, mc migrateConfig) error {
	bootLog, err := lifecycle.CreateLogger(nil, mc.debug)
	if err != nil {
		return err
	}

	cfg := &models.InventoryConfig{StoreDir: models.DefaultStoreDir}

	if err := config.NewConfig(bootLog).LoadAndValidate(ctx, mc.configPath, cfg); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if mc.storeDir != "" {
		cfg.StoreDir = mc.storeDir
	}

	if mc.cluster != "" {
		cfg.Cluster = mc.cluster
	}

	logger, err := lifecycle.CreateComponentLogger("migrate-data", cfg.Logging, mc.debug, nil)
	if err != nil {
		return err
	}

	store, err := inventory.NewStore(cfg, logger)
	if err != nil {
		return err
	}

	migrator := schema.NewMigrator(cfg, logger)

	if mc.target == "" {
		results, err := migrator.MigrateAll(store)
		report(results)

		return err
	}

	node, err := targetNode(store, mc.target)
	if err != nil {
		return err
	}

	res, err := migrator.Migrate(node)
	if err != nil {
		return err
	}

	report([]schema.Result{res})

	return nil
}

// targetNode accepts either a node name or a path to a record file, and loads it.
func targetNode(store *inventory.Store, target string) (*inventory.Node, error) {
	var node *inventory.Node

	if strings.ContainsRune(target, os.PathSeparator) || strings.HasSuffix(target, store.Extension()) {
		node = store.Load(target)
	} else {
		var err error
		if node, err = store.Node(target); err != nil {
			return nil, err
		}
	}

	if _, err := node.Load(); err != nil {
		if inventory.IsNotFound(err) {
			return nil, fmt.Errorf("%w %q: %w", errRecordNotFound, target, err)
		}

		return nil, err
	}

	return node, nil
}

func report(results []schema.Result) {
	for _, r := range results {
		if r.Changed() {
			fmt.Printf("Updated '%s' from schema %g to %g\n", r.Name, r.From, r.To)

			continue
		}

		fmt.Printf("No changes needed for '%s' - at schema %g\n", r.Name, r.To)
	}
}
