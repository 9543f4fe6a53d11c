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
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/openflighthpc/inventoryware/pkg/logger"
	"github.com/openflighthpc/inventoryware/pkg/models"
)

// Store maps node names to record files in a single cluster directory.
type Store struct {
	cfg    *models.InventoryConfig
	dir    string
	logger logger.Logger
}

// NewStore validates cfg and returns a store over cfg.RecordDir().
func NewStore(cfg *models.InventoryConfig, log logger.Logger) (*Store, error) {
	if cfg == nil {
		return nil, errNilConfig
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid inventory config: %w", err)
	}

	return &Store{
		cfg:    cfg,
		dir:    cfg.RecordDir(),
		logger: logger.Component(log, "store"),
	}, nil
}

var errNilConfig = errors.New("inventory config is required")

// Dir is the cluster directory holding the records.
func (s *Store) Dir() string {
	return s.dir
}

// Extension is the record file suffix, including the dot.
func (s *Store) Extension() string {
	return s.cfg.Extension
}

// Config returns the store's configuration.
func (s *Store) Config() *models.InventoryConfig {
	return s.cfg
}

// ResolveLocation returns the record path for name.
func (s *Store) ResolveLocation(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	return filepath.Join(s.dir, name+s.cfg.Extension), nil
}

// Exists reports whether path is a readable record file.
func (s *Store) Exists(path string) bool {
	return readable(path)
}

// Load binds a node to path without reading it.
func (s *Store) Load(path string) *Node {
	return newNode(path, s.cfg)
}

// Node binds a node to the record file for name.
func (s *Store) Node(name string) (*Node, error) {
	path, err := s.ResolveLocation(name)
	if err != nil {
		return nil, err
	}

	return s.Load(path), nil
}

// CreateIfMissing writes a minimal record at path unless one is already readable there.
func (s *Store) CreateIfMissing(path, assetType string) (bool, error) {
	if err := s.ensureDir(); err != nil {
		return false, err
	}

	node := s.Load(path)

	created, err := node.CreateIfNonExistent(assetType)
	if err != nil {
		return false, err
	}

	if created {
		s.logger.Debug().Str("node", node.Name()).Str("path", path).Msg("Created record")
	}

	return created, nil
}

// Move renames node's record file to newPath.
func (s *Store) Move(node *Node, newPath string) error {
	from := node.Path()

	if err := node.Move(newPath); err != nil {
		return err
	}

	s.logger.Info().Str("from", from).Str("to", newPath).Msg("Moved record")

	return nil
}

// List returns every record path in the directory in lexical order. A missing directory
// is an empty store.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug().Str("dir", s.dir).Msg("Record directory does not exist")

			return []string{}, nil
		}

		return nil, fmt.Errorf("%w: %w", ErrFileAccess, err)
	}

	paths := make([]string, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), s.cfg.Extension) {
			continue
		}

		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		paths = append(paths, filepath.Join(s.dir, entry.Name()))
	}

	sort.Strings(paths)

	return paths, nil
}

// Names returns the record names in the same order as List.
func (s *Store) Names() ([]string, error) {
	paths, err := s.List()
	if err != nil {
		return nil, err
	}

	names := make([]string, len(paths))
	for i, path := range paths {
		names[i] = nameFromPath(path, s.cfg.Extension)
	}

	return names, nil
}

// Nodes binds every record in the directory.
func (s *Store) Nodes() ([]*Node, error) {
	paths, err := s.List()
	if err != nil {
		return nil, err
	}

	nodes := make([]*Node, len(paths))
	for i, path := range paths {
		nodes[i] = s.Load(path)
	}

	return nodes, nil
}

func (s *Store) ensureDir() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrFileAccess, err)
	}

	return nil
}
