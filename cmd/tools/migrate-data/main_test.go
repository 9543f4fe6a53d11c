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

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openflighthpc/inventoryware/pkg/inventory"
	"github.com/openflighthpc/inventoryware/pkg/models"
	"github.com/openflighthpc/inventoryware/pkg/schema"
)

func writeLegacy(t *testing.T, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name+".yaml")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(path, []byte(name+":\n  name: "+name+"\n"), 0o644))

	return path
}

func TestRunMigratesSingleRecord(t *testing.T) {
	root := t.TempDir()
	path := writeLegacy(t, filepath.Join(root, "lab"), "n1")
	other := writeLegacy(t, filepath.Join(root, "lab"), "n2")

	err := run(context.Background(), migrateConfig{
		configPath: filepath.Join(root, "absent.yaml"),
		storeDir:   root,
		cluster:    "lab",
		target:     "n1",
	})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "name: n1\nschema: 1\nmutable: {}\ntype: server\n", string(content))

	content, err = os.ReadFile(other)
	require.NoError(t, err)
	assert.Equal(t, "n2:\n  name: n2\n", string(content))
}

func TestRunMigratesEverything(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, models.DefaultCluster)
	writeLegacy(t, dir, "n1")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("a: 1\nb: 2\n"), 0o644))

	err := run(context.Background(), migrateConfig{
		configPath: filepath.Join(root, "absent.yaml"),
		storeDir:   root,
	})
	require.ErrorIs(t, err, schema.ErrUnknownState)

	content, err := os.ReadFile(filepath.Join(dir, "n1.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "schema: 1")
}

func TestTargetNode(t *testing.T) {
	root := t.TempDir()

	store, err := inventory.NewStore(&models.InventoryConfig{StoreDir: root}, nil)
	require.NoError(t, err)

	path := writeLegacy(t, store.Dir(), "n1")

	node, err := targetNode(store, "n1")
	require.NoError(t, err)
	assert.Equal(t, path, node.Path())

	node, err = targetNode(store, path)
	require.NoError(t, err)
	assert.Equal(t, "n1", node.Name())

	_, err = targetNode(store, "n9")
	require.ErrorIs(t, err, inventory.ErrFileAccess)
	require.ErrorIs(t, err, errRecordNotFound)

	_, err = targetNode(store, filepath.Join(root, "elsewhere.yaml"))
	require.ErrorIs(t, err, errRecordNotFound)

	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "empty.yaml"), []byte("{}\n"), 0o644))

	_, err = targetNode(store, "empty")
	require.ErrorIs(t, err, inventory.ErrEmptyRecord)
	assert.NotErrorIs(t, err, errRecordNotFound)

	_, err = targetNode(store, "../n1")
	require.Error(t, err)
}
