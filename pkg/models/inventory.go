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

package models

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/openflighthpc/inventoryware/pkg/logger"
)

var (
	errStoreDirRequired    = errors.New("store_dir is required")
	errInvalidExtension    = errors.New("extension must start with '.'")
	errInvalidSchemaBounds = errors.New("minimum_schema must not exceed schema_version")
	errMissingRequiredKey  = errors.New("required_keys is missing a mandatory key")
	errInvalidCluster      = errors.New("cluster must be a single path element")
)

// Keys every record carries at the top level, in serialization order.
const (
	KeyName    = "name"
	KeySchema  = "schema"
	KeyMutable = "mutable"
	KeyType    = "type"
)

// Well-known mutable fields.
const (
	FieldPrimaryGroup    = "primary_group"
	FieldSecondaryGroups = "secondary_groups"
)

const (
	DefaultCluster             = "default"
	DefaultExtension           = ".yaml"
	DefaultAssetType           = "server"
	DefaultPrimaryGroup        = "orphan"
	CurrentSchemaVersion       = 1.0
	MinimumSchemaVersion       = 1.0
	LegacySchemaVersion        = 0.0
	secondaryGroupSeparator    = ","
	DefaultStoreDir            = "/opt/flight/var/store"
	defaultInventoryConfigPath = "/opt/flight/etc/inventory.yaml"
)

// DefaultRequiredKeys returns the keys serialized first in every record.
func DefaultRequiredKeys() []string {
	return []string{KeyName, KeySchema, KeyMutable, KeyType}
}

// DefaultInventoryConfigPath is used when no --config flag is given.
func DefaultInventoryConfigPath() string {
	return defaultInventoryConfigPath
}

// InventoryConfig is the configuration of a record store.
type InventoryConfig struct {
	StoreDir            string         `json:"store_dir" yaml:"store_dir"`
	Cluster             string         `json:"cluster" yaml:"cluster"`
	Extension           string         `json:"extension" yaml:"extension"`
	RequiredKeys        []string       `json:"required_keys" yaml:"required_keys"`
	SchemaVersion       float64        `json:"schema_version" yaml:"schema_version"`
	MinimumSchema       float64        `json:"minimum_schema" yaml:"minimum_schema"`
	DefaultType         string         `json:"default_type" yaml:"default_type"`
	DefaultPrimaryGroup string         `json:"default_primary_group" yaml:"default_primary_group"`
	Logging             *logger.Config `json:"logging" yaml:"logging"`
}

// ApplyDefaults fills unset fields with their defaults.
func (c *InventoryConfig) ApplyDefaults() {
	if c.Cluster == "" {
		c.Cluster = DefaultCluster
	}

	if c.Extension == "" {
		c.Extension = DefaultExtension
	}

	if len(c.RequiredKeys) == 0 {
		c.RequiredKeys = DefaultRequiredKeys()
	}

	if c.SchemaVersion == 0 {
		c.SchemaVersion = CurrentSchemaVersion
	}

	if c.MinimumSchema == 0 {
		c.MinimumSchema = MinimumSchemaVersion
	}

	if c.DefaultType == "" {
		c.DefaultType = DefaultAssetType
	}

	if c.DefaultPrimaryGroup == "" {
		c.DefaultPrimaryGroup = DefaultPrimaryGroup
	}

	if c.Logging == nil {
		c.Logging = logger.DefaultConfig()
	}
}

// Validate implements config.Validator.
func (c *InventoryConfig) Validate() error {
	if strings.TrimSpace(c.StoreDir) == "" {
		return errStoreDirRequired
	}

	if c.Cluster != "" && (strings.ContainsRune(c.Cluster, filepath.Separator) || c.Cluster == "..") {
		return fmt.Errorf("%w: %q", errInvalidCluster, c.Cluster)
	}

	if c.Extension != "" && !strings.HasPrefix(c.Extension, ".") {
		return fmt.Errorf("%w: %q", errInvalidExtension, c.Extension)
	}

	if c.MinimumSchema > c.SchemaVersion {
		return fmt.Errorf("%w: %g > %g", errInvalidSchemaBounds, c.MinimumSchema, c.SchemaVersion)
	}

	if len(c.RequiredKeys) > 0 {
		present := make(map[string]bool, len(c.RequiredKeys))
		for _, key := range c.RequiredKeys {
			present[key] = true
		}

		for _, key := range DefaultRequiredKeys() {
			if !present[key] {
				return fmt.Errorf("%w: %s", errMissingRequiredKey, key)
			}
		}
	}

	return nil
}

// RecordDir is the directory holding the active cluster's records.
func (c *InventoryConfig) RecordDir() string {
	cluster := c.Cluster
	if cluster == "" {
		cluster = DefaultCluster
	}

	return filepath.Join(c.StoreDir, cluster)
}

// IsRequiredKey reports whether key is one of the configured required keys.
func (c *InventoryConfig) IsRequiredKey(key string) bool {
	keys := c.RequiredKeys
	if len(keys) == 0 {
		keys = DefaultRequiredKeys()
	}

	for _, k := range keys {
		if k == key {
			return true
		}
	}

	return false
}

// Location describes where an asset physically sits. Empty parts are left untouched on update.
type Location struct {
	Site    string `json:"site" yaml:"site"`
	Room    string `json:"room" yaml:"room"`
	Rack    string `json:"rack" yaml:"rack"`
	Unit    string `json:"unit" yaml:"unit"`
	Chassis string `json:"chassis" yaml:"chassis"`
	Slot    string `json:"slot" yaml:"slot"`
}

// Fields returns the location parts in display order as mutable field pairs.
func (l Location) Fields() [][2]string {
	return [][2]string{
		{"site", l.Site},
		{"room", l.Room},
		{"rack", l.Rack},
		{"unit", l.Unit},
		{"chassis", l.Chassis},
		{"slot", l.Slot},
	}
}

// SplitGroups parses a secondary_groups value.
func SplitGroups(raw string) []string {
	groups := []string{}

	for _, part := range strings.Split(raw, secondaryGroupSeparator) {
		if part = strings.TrimSpace(part); part != "" {
			groups = append(groups, part)
		}
	}

	return groups
}

// JoinGroups renders groups as a secondary_groups value.
func JoinGroups(groups []string) string {
	return strings.Join(groups, secondaryGroupSeparator)
}
