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
	"os"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/openflighthpc/inventoryware/pkg/inventory"
	"github.com/openflighthpc/inventoryware/pkg/logger"
	"github.com/openflighthpc/inventoryware/pkg/models"
)

const currentRecord = "name: n3\nschema: 1\nmutable: {}\ntype: switch\n"

func newTestStore(t *testing.T, cfg *models.InventoryConfig) *inventory.Store {
	t.Helper()

	if cfg == nil {
		cfg = &models.InventoryConfig{}
	}

	cfg.StoreDir = t.TempDir()

	s, err := inventory.NewStore(cfg, logger.NewTestLogger())
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(s.Dir(), 0o755))

	return s
}

func writeRecord(t *testing.T, s *inventory.Store, name, content string) *inventory.Node {
	t.Helper()

	path, err := s.ResolveLocation(name)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return s.Load(path)
}

func readFile(t *testing.T, n *inventory.Node) string {
	t.Helper()

	content, err := os.ReadFile(n.Path())
	require.NoError(t, err)

	return string(content)
}

func TestMigrateLegacyRecord(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "bare legacy record",
			content: "n1:\n  name: n1\n",
			want:    "name: n1\nschema: 1\nmutable: {}\ntype: server\n",
		},
		{
			name:    "legacy record with fields",
			content: "n1:\n  name: n1\n  type: switch\n  mutable:\n    rack: \"3\"\n  lshw:\n    cpu: 2\n",
			want:    "name: n1\nschema: 1\nmutable:\n  rack: \"3\"\ntype: switch\nlshw:\n  cpu: 2\n",
		},
		{
			name:    "null mutable is replaced",
			content: "n1:\n  name: n1\n  mutable:\n",
			want:    "name: n1\nschema: 1\nmutable: {}\ntype: server\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t, nil)
			node := writeRecord(t, s, "n1", tt.content)

			res, err := NewMigrator(s.Config(), nil).Migrate(node)
			require.NoError(t, err)
			assert.Equal(t, Result{Name: "n1", From: 0, To: 1, Steps: 1}, res)
			assert.True(t, res.Changed())
			assert.Equal(t, tt.want, readFile(t, node))

			require.NoError(t, s.Load(node.Path()).CheckSchema(1))
		})
	}
}

func TestMigrateRefusesUnknownState(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "two top-level keys", content: "n1:\n  name: n1\nn2:\n  name: n2\n"},
		{name: "nested value without name", content: "n1:\n  type: server\n"},
		{name: "nested value not a mapping", content: "n1: server\n"},
		{name: "flat record without schema", content: "name: n1\nmutable: {}\ntype: server\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t, nil)
			node := writeRecord(t, s, "n1", tt.content)

			_, err := NewMigrator(s.Config(), nil).Migrate(node)
			require.ErrorIs(t, err, ErrUnknownState)
			assert.Equal(t, tt.content, readFile(t, node))
		})
	}
}

func TestMigrateCurrentRecordIsUntouched(t *testing.T) {
	s := newTestStore(t, nil)
	node := writeRecord(t, s, "n3", "type: switch\nname: n3\nschema: 1\nmutable: {}\n")

	res, err := NewMigrator(s.Config(), nil).Migrate(node)
	require.NoError(t, err)
	assert.False(t, res.Changed())
	assert.Equal(t, "type: switch\nname: n3\nschema: 1\nmutable: {}\n", readFile(t, node))
}

func setSchema(to string) func(*inventory.Node, logger.Logger) error {
	return func(n *inventory.Node, _ logger.Logger) error {
		data, err := n.Data()
		if err != nil {
			return err
		}

		inventory.MappingSet(data, models.KeySchema, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: to})

		return nil
	}
}

func TestMigrateChainsSteps(t *testing.T) {
	s := newTestStore(t, &models.InventoryConfig{SchemaVersion: 3, MinimumSchema: 3})
	node := writeRecord(t, s, "n1", "n1:\n  name: n1\n")

	steps := append(DefaultSteps(),
		Step{From: 1, To: 2, Description: "two", Apply: setSchema("2")},
		Step{From: 2, To: 3, Description: "three", Apply: setSchema("3")},
	)

	res, err := NewMigrator(s.Config(), nil, steps...).Migrate(node)
	require.NoError(t, err)
	assert.Equal(t, Result{Name: "n1", From: 0, To: 3, Steps: 3}, res)
	assert.Equal(t, "name: n1\nschema: 3\nmutable: {}\ntype: server\n", readFile(t, node))
}

func TestMigrateNoPath(t *testing.T) {
	t.Run("missing step below minimum", func(t *testing.T) {
		s := newTestStore(t, &models.InventoryConfig{SchemaVersion: 2, MinimumSchema: 2})
		node := writeRecord(t, s, "n3", currentRecord)

		_, err := NewMigrator(s.Config(), nil).Migrate(node)
		require.ErrorIs(t, err, ErrNoMigrationPath)
		assert.Equal(t, currentRecord, readFile(t, node))
	})

	t.Run("missing step above minimum", func(t *testing.T) {
		s := newTestStore(t, &models.InventoryConfig{SchemaVersion: 2, MinimumSchema: 1})
		node := writeRecord(t, s, "n3", currentRecord)

		res, err := NewMigrator(s.Config(), nil).Migrate(node)
		require.NoError(t, err)
		assert.False(t, res.Changed())
	})

	t.Run("step that does not advance", func(t *testing.T) {
		s := newTestStore(t, &models.InventoryConfig{SchemaVersion: 2, MinimumSchema: 2})
		node := writeRecord(t, s, "n3", currentRecord)

		stuck := Step{From: 1, To: 2, Description: "noop", Apply: setSchema("1")}

		_, err := NewMigrator(s.Config(), nil, stuck).Migrate(node)
		require.ErrorIs(t, err, ErrNoMigrationPath)
		assert.Equal(t, currentRecord, readFile(t, node))
	})
}

func TestMigrateAll(t *testing.T) {
	s := newTestStore(t, nil)
	legacy := writeRecord(t, s, "n1", "n1:\n  name: n1\n")
	writeRecord(t, s, "n2", "n1:\n  name: n1\nn2:\n  name: n2\n")
	writeRecord(t, s, "n3", currentRecord)
	writeRecord(t, s, "n4", "")

	results, err := NewMigrator(s.Config(), nil).MigrateAll(s)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrUnknownState)
	require.ErrorIs(t, err, inventory.ErrEmptyRecord)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 2)

	require.Len(t, results, 2)
	assert.Equal(t, "n1", results[0].Name)
	assert.True(t, results[0].Changed())
	assert.Equal(t, "n3", results[1].Name)
	assert.False(t, results[1].Changed())

	assert.Equal(t, "name: n1\nschema: 1\nmutable: {}\ntype: server\n", readFile(t, legacy))
}

func TestLooksLikeLegacyFormat(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{name: "legacy", content: "n1:\n  name: n1\n", want: true},
		{name: "empty name", content: "n1:\n  name: \"\"\n", want: false},
		{name: "two keys", content: "a:\n  name: a\nb: 1\n", want: false},
		{name: "current", content: currentRecord, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc yaml.Node
			require.NoError(t, yaml.Unmarshal([]byte(tt.content), &doc))

			assert.Equal(t, tt.want, LooksLikeLegacyFormat(doc.Content[0]))
		})
	}

	assert.False(t, LooksLikeLegacyFormat(nil))
}
