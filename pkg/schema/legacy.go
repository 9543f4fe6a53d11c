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

package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/openflighthpc/inventoryware/pkg/inventory"
	"github.com/openflighthpc/inventoryware/pkg/logger"
	"github.com/openflighthpc/inventoryware/pkg/models"
)

// legacyStep lifts records written before schema numbers existed. Those files wrap the
// record in a single key, e.g. {node01: {name: node01, ...}}.
func legacyStep() Step {
	return Step{
		From:        models.LegacySchemaVersion,
		To:          models.CurrentSchemaVersion,
		Description: "Updating record from no schema to schema 1",
		Apply:       applyLegacy,
	}
}

func applyLegacy(node *inventory.Node, log logger.Logger) error {
	data, err := node.Data()
	if err != nil {
		return err
	}

	if !LooksLikeLegacyFormat(data) {
		return fmt.Errorf("%w: %q", ErrUnknownState, node.Name())
	}

	record := data.Content[1]

	if mutable := inventory.MappingGet(record, models.KeyMutable); mutable == nil || mutable.Kind != yaml.MappingNode {
		inventory.MappingSet(record, models.KeyMutable, inventory.EmptyMapping())
	}

	inventory.MappingSet(record, models.KeySchema, inventory.NumberNode(models.CurrentSchemaVersion))

	if assetType, ok := inventory.ScalarValue(inventory.MappingGet(record, models.KeyType)); !ok || assetType == "" {
		log.Info().Str("node", node.Name()).Str("type", models.DefaultAssetType).Msg("Setting record type")
		inventory.MappingSet(record, models.KeyType, inventory.StringNode(models.DefaultAssetType))
	}

	node.SetData(record)

	return nil
}

// LooksLikeLegacyFormat reports whether data is an unversioned record: a mapping with
// exactly one key whose value is a mapping carrying a non-empty name.
func LooksLikeLegacyFormat(data *yaml.Node) bool {
	if data == nil || data.Kind != yaml.MappingNode || len(data.Content) != 2 {
		return false
	}

	record := data.Content[1]
	if record.Kind != yaml.MappingNode {
		return false
	}

	name, ok := inventory.ScalarValue(inventory.MappingGet(record, models.KeyName))

	return ok && name != ""
}
