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

package inventory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openflighthpc/inventoryware/pkg/logger"
	"github.com/openflighthpc/inventoryware/pkg/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	cfg := &models.InventoryConfig{StoreDir: t.TempDir()}

	s, err := NewStore(cfg, logger.NewTestLogger())
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(s.Dir(), 0o755))

	return s
}

func writeRecord(t *testing.T, s *Store, name, content string) string {
	t.Helper()

	path, err := s.ResolveLocation(name)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestNewStore(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		dir := t.TempDir()

		s, err := NewStore(&models.InventoryConfig{StoreDir: dir}, nil)
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(dir, models.DefaultCluster), s.Dir())
		assert.Equal(t, ".yaml", s.Extension())
	})

	t.Run("rejects missing store dir", func(t *testing.T) {
		_, err := NewStore(&models.InventoryConfig{}, nil)
		require.Error(t, err)
	})

	t.Run("rejects nil config", func(t *testing.T) {
		_, err := NewStore(nil, nil)
		require.ErrorIs(t, err, errNilConfig)
	})
}

func TestResolveLocation(t *testing.T) {
	s := newTestStore(t)

	path, err := s.ResolveLocation("node01")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Dir(), "node01.yaml"), path)

	for _, name := range []string{"", ".", "..", "a/b", `a\b`} {
		t.Run("invalid "+name, func(t *testing.T) {
			_, err := s.ResolveLocation(name)
			require.ErrorIs(t, err, ErrInvalidName)
		})
	}
}

func TestStoreList(t *testing.T) {
	t.Run("missing directory is empty", func(t *testing.T) {
		s, err := NewStore(&models.InventoryConfig{StoreDir: t.TempDir()}, nil)
		require.NoError(t, err)

		paths, err := s.List()
		require.NoError(t, err)
		assert.Empty(t, paths)
	})

	t.Run("sorted and filtered by extension", func(t *testing.T) {
		s := newTestStore(t)

		writeRecord(t, s, "n2", "name: n2\n")
		writeRecord(t, s, "n1", "name: n1\n")
		require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "notes.txt"), []byte("x"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), ".n3.yaml.123.tmp"), []byte("x"), 0o644))
		require.NoError(t, os.Mkdir(filepath.Join(s.Dir(), "sub.yaml"), 0o755))

		names, err := s.Names()
		require.NoError(t, err)
		assert.Equal(t, []string{"n1", "n2"}, names)

		paths, err := s.List()
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(s.Dir(), "n1.yaml"),
			filepath.Join(s.Dir(), "n2.yaml"),
		}, paths)
	})
}

func TestCreateIfMissing(t *testing.T) {
	s, err := NewStore(&models.InventoryConfig{StoreDir: t.TempDir()}, nil)
	require.NoError(t, err)

	path, err := s.ResolveLocation("n1")
	require.NoError(t, err)

	created, err := s.CreateIfMissing(path, "")
	require.NoError(t, err)
	assert.True(t, created)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "name: n1\nschema: 1\nmutable: {}\ntype: server\n", string(content))

	created, err = s.CreateIfMissing(path, "switch")
	require.NoError(t, err)
	assert.False(t, created)

	assetType, err := s.Load(path).Type()
	require.NoError(t, err)
	assert.Equal(t, "server", assetType)
}

func TestStoreMove(t *testing.T) {
	s := newTestStore(t)
	path := writeRecord(t, s, "n1", "name: n1\nschema: 1\nmutable: {}\ntype: server\n")

	node := s.Load(path)
	target := filepath.Join(s.Dir(), "n2.yaml")

	require.NoError(t, s.Move(node, target))
	assert.Equal(t, "n2", node.Name())
	assert.Equal(t, target, node.Path())
	assert.False(t, s.Exists(path))
	assert.True(t, s.Exists(target))

	other := writeRecord(t, s, "n3", "name: n3\n")
	err := s.Move(s.Load(other), target)
	require.ErrorIs(t, err, ErrFileAccess)
	assert.True(t, s.Exists(other))

	err = s.Move(s.Load(other), filepath.Join(s.Dir(), "missing", "n3.yaml"))
	require.ErrorIs(t, err, ErrFileAccess)
	assert.True(t, s.Exists(other))
}
