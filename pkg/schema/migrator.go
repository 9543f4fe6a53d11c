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

// Package schema upgrades records written under older schema versions.
package schema

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/openflighthpc/inventoryware/pkg/inventory"
	"github.com/openflighthpc/inventoryware/pkg/logger"
	"github.com/openflighthpc/inventoryware/pkg/models"
)

var (
	// ErrNoMigrationPath is returned when a record is below the minimum schema and no step
	// can move it forward. The file has to be fixed or removed by hand.
	ErrNoMigrationPath = errors.New("no migration found for schema")

	// ErrUnknownState is returned when an unversioned record does not look like legacy data.
	ErrUnknownState = errors.New("record is in an unknown state")
)

// Step upgrades a record from one schema version to the next. Apply mutates the record's
// in-memory data, including its schema number, and must not save.
type Step struct {
	From        float64
	To          float64
	Description string
	Apply       func(node *inventory.Node, log logger.Logger) error
}

// Result describes what Migrate did to one record.
type Result struct {
	Name  string
	From  float64
	To    float64
	Steps int
}

// Changed reports whether any step ran.
func (r Result) Changed() bool {
	return r.Steps > 0
}

// Migrator applies steps until a record reaches the current schema.
type Migrator struct {
	current float64
	minimum float64
	steps   map[float64]Step
	logger  logger.Logger
}

// NewMigrator returns a migrator targeting cfg's schema bounds. With no steps given the
// default steps are used.
func NewMigrator(cfg *models.InventoryConfig, log logger.Logger, steps ...Step) *Migrator {
	if len(steps) == 0 {
		steps = DefaultSteps()
	}

	m := &Migrator{
		current: cfg.SchemaVersion,
		minimum: cfg.MinimumSchema,
		steps:   make(map[float64]Step, len(steps)),
		logger:  logger.Component(log, "schema"),
	}

	for _, s := range steps {
		m.steps[s.From] = s
	}

	return m
}

// DefaultSteps returns every known migration in order.
func DefaultSteps() []Step {
	return []Step{legacyStep()}
}

// Migrate upgrades node in memory and saves it once if anything changed.
func (m *Migrator) Migrate(node *inventory.Node) (Result, error) {
	res := Result{Name: node.Name()}

	if _, err := node.Data(); err != nil {
		return res, err
	}

	version, err := node.SchemaVersion()
	if err != nil {
		return res, err
	}

	res.From = version
	res.To = version

	for version < m.current {
		step, ok := m.steps[version]
		if !ok {
			if version < m.minimum {
				return res, fmt.Errorf("%w '%s' (record %q); edit or delete the file before continuing",
					ErrNoMigrationPath, inventory.FormatVersion(version), node.Name())
			}

			break
		}

		m.logger.Info().
			Str("node", node.Name()).
			Float64("from", step.From).
			Float64("to", step.To).
			Msg(step.Description)

		if err := step.Apply(node, m.logger); err != nil {
			return res, err
		}

		next, err := node.SchemaVersion()
		if err != nil {
			return res, err
		}

		if next <= version {
			return res, fmt.Errorf("%w '%s' (record %q): step did not advance the version",
				ErrNoMigrationPath, inventory.FormatVersion(version), node.Name())
		}

		version = next
		res.To = next
		res.Steps++
	}

	if !res.Changed() {
		m.logger.Debug().Str("node", node.Name()).Float64("schema", version).Msg("No changes needed")

		return res, nil
	}

	if err := node.Save(); err != nil {
		return res, err
	}

	m.logger.Info().
		Str("node", node.Name()).
		Float64("from", res.From).
		Float64("to", res.To).
		Msg("Migrated record")

	return res, nil
}

// MigrateAll migrates every record in store. Failures do not stop the batch; they are
// returned together once every record has been tried.
func (m *Migrator) MigrateAll(store *inventory.Store) ([]Result, error) {
	nodes, err := store.Nodes()
	if err != nil {
		return nil, err
	}

	return m.MigrateNodes(nodes)
}

// MigrateNodes migrates the given records, continuing past failures.
func (m *Migrator) MigrateNodes(nodes []*inventory.Node) ([]Result, error) {
	var errs *multierror.Error

	results := make([]Result, 0, len(nodes))

	for _, node := range nodes {
		res, err := m.Migrate(node)
		if err != nil {
			m.logger.Error().Err(err).Str("node", node.Name()).Msg("Migration failed")
			errs = multierror.Append(errs, err)

			continue
		}

		results = append(results, res)
	}

	return results, errs.ErrorOrNil()
}
