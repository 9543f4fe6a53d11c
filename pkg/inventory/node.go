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
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/openflighthpc/inventoryware/pkg/models"
)

// Node is one asset record. It is bound to a file path on construction and only read when
// one of its accessors needs the content.
//
// Accessors are answered from memory once the full document has been loaded. Before that
// they use a partial line scan of the file, which depends on Save writing the required keys
// first. Both paths return the same values for any record that satisfies that layout.
type Node struct {
	name string
	path string
	cfg  *models.InventoryConfig
	data *yaml.Node
}

// Field is one entry of a record's mutable mapping.
type Field struct {
	Key   string
	Value string
}

func newNode(path string, cfg *models.InventoryConfig) *Node {
	return &Node{
		name: nameFromPath(path, cfg.Extension),
		path: path,
		cfg:  cfg,
	}
}

func nameFromPath(path, ext string) string {
	base := filepath.Base(path)
	if ext != "" && strings.HasSuffix(base, ext) {
		return strings.TrimSuffix(base, ext)
	}

	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Name is the record's identity, derived from its file name.
func (n *Node) Name() string {
	return n.name
}

// Path is the backing file.
func (n *Node) Path() string {
	return n.path
}

// Loaded reports whether the full document is in memory.
func (n *Node) Loaded() bool {
	return n.data != nil
}

// Load parses the whole record file, replacing anything held in memory.
func (n *Node) Load() (*yaml.Node, error) {
	root, err := n.decodeFile("load")
	if err != nil {
		return nil, err
	}

	n.data = root

	return n.data, nil
}

// Data returns the full document, loading it on first use.
func (n *Node) Data() (*yaml.Node, error) {
	if n.data != nil {
		return n.data, nil
	}

	return n.Load()
}

// SetData replaces the in-memory document. It is persisted by the next Save.
func (n *Node) SetData(root *yaml.Node) {
	n.data = root
}

// Save writes the full document back with the required keys first.
func (n *Node) Save() error {
	// Load first so a record is never written out empty.
	data, err := n.Data()
	if err != nil {
		return err
	}

	if !writable(n.path) {
		return n.fail("save", fmt.Errorf("%w: output file not writable", ErrFileAccess))
	}

	out, err := encodeDocument(data, n.cfg.RequiredKeys)
	if err != nil {
		return n.fail("save", fmt.Errorf("%w: %w", ErrParse, err))
	}

	if err := writeFileAtomic(n.path, out); err != nil {
		return n.fail("save", fmt.Errorf("%w: %w", ErrFileAccess, err))
	}

	return nil
}

// CreateIfNonExistent writes a minimal record when the backing file cannot be read. An empty
// assetType uses the configured default. It reports whether a record was written.
func (n *Node) CreateIfNonExistent(assetType string) (bool, error) {
	if readable(n.path) {
		return false, nil
	}

	if assetType == "" {
		assetType = n.cfg.DefaultType
	}

	if err := validateValue(assetType); err != nil {
		return false, n.fail("create", err)
	}

	root := EmptyMapping()
	MappingSet(root, models.KeyName, StringNode(n.name))
	MappingSet(root, models.KeySchema, NumberNode(n.cfg.SchemaVersion))
	MappingSet(root, models.KeyMutable, EmptyMapping())
	MappingSet(root, models.KeyType, StringNode(assetType))

	n.data = root

	if err := n.Save(); err != nil {
		n.data = nil

		return false, err
	}

	return true, nil
}

// Move renames the backing file and rebinds the record to newPath. The target must not
// exist and its directory must. Nothing changes when the rename fails.
func (n *Node) Move(newPath string) error {
	if _, err := os.Lstat(newPath); err == nil {
		return n.fail("move", fmt.Errorf("%w: %s already exists", ErrFileAccess, newPath))
	}

	if err := os.Rename(n.path, newPath); err != nil {
		return n.fail("move", fmt.Errorf("%w: %w", ErrFileAccess, err))
	}

	n.path = newPath
	n.name = nameFromPath(newPath, n.cfg.Extension)

	return nil
}

// CheckSchema fails with ErrSchemaViolation when the record is below minimum.
func (n *Node) CheckSchema(minimum float64) error {
	version, err := n.SchemaVersion()
	if err != nil {
		return err
	}

	if version < minimum {
		return n.fail("check schema", fmt.Errorf("%w: has %s; minimum required is %s",
			ErrSchemaViolation, FormatVersion(version), FormatVersion(minimum)))
	}

	return nil
}

// Type is the asset classification, defaulting to the configured default type.
func (n *Node) Type() (string, error) {
	value, ok, err := n.topScalar(models.KeyType)
	if err != nil {
		return "", err
	}

	if !ok || value == "" {
		return n.cfg.DefaultType, nil
	}

	return value, nil
}

// SchemaVersion is the record's schema number; unversioned records report 0.
func (n *Node) SchemaVersion() (float64, error) {
	value, ok, err := n.topScalar(models.KeySchema)
	if err != nil {
		return 0, err
	}

	return parseVersion(value, ok), nil
}

// PrimaryGroup defaults to the configured orphan group.
func (n *Node) PrimaryGroup() (string, error) {
	fields, err := n.mutableScalars(models.FieldPrimaryGroup)
	if err != nil {
		return "", err
	}

	return n.primaryOrDefault(fields), nil
}

// SecondaryGroups is the comma-separated secondary_groups field as a list.
func (n *Node) SecondaryGroups() ([]string, error) {
	fields, err := n.mutableScalars(models.FieldSecondaryGroups)
	if err != nil {
		return nil, err
	}

	return models.SplitGroups(fields[models.FieldSecondaryGroups]), nil
}

// AllGroups is the secondary groups followed by the primary group, read in one pass.
func (n *Node) AllGroups() ([]string, error) {
	fields, err := n.mutableScalars(models.FieldPrimaryGroup, models.FieldSecondaryGroups)
	if err != nil {
		return nil, err
	}

	groups := models.SplitGroups(fields[models.FieldSecondaryGroups])

	return append(groups, n.primaryOrDefault(fields)), nil
}

func (n *Node) primaryOrDefault(fields map[string]string) string {
	if group := fields[models.FieldPrimaryGroup]; group != "" {
		return group
	}

	return n.cfg.DefaultPrimaryGroup
}

func (n *Node) topScalar(key string) (string, bool, error) {
	root := n.data

	if root == nil {
		scan, err := scanHeader(n.path, n.cfg.RequiredKeys, []string{key}, nil)
		if err != nil {
			return "", false, n.fail("scan", fmt.Errorf("%w: %w", ErrFileAccess, err))
		}

		if !scan.full {
			value, ok := scan.top[key]

			return value, ok, nil
		}

		if root, err = n.decodeFile("scan"); err != nil {
			return "", false, err
		}
	}

	value, ok := ScalarValue(MappingGet(root, key))

	return value, ok, nil
}

func (n *Node) mutableScalars(keys ...string) (map[string]string, error) {
	root := n.data

	if root == nil {
		scan, err := scanHeader(n.path, n.cfg.RequiredKeys, nil, keys)
		if err != nil {
			return nil, n.fail("scan", fmt.Errorf("%w: %w", ErrFileAccess, err))
		}

		if !scan.full {
			return scan.mutable, nil
		}

		if root, err = n.decodeFile("scan"); err != nil {
			return nil, err
		}
	}

	fields := make(map[string]string, len(keys))
	mutable := MappingGet(root, models.KeyMutable)

	for _, key := range keys {
		if value, ok := ScalarValue(MappingGet(mutable, key)); ok {
			fields[key] = value
		}
	}

	return fields, nil
}

// decodeFile parses the whole record without binding it to the node.
func (n *Node) decodeFile(op string) (*yaml.Node, error) {
	content, err := os.ReadFile(n.path)
	if err != nil {
		return nil, n.fail(op, fmt.Errorf("%w: %w", ErrFileAccess, err))
	}

	root, err := decodeDocument(content)
	if err != nil {
		return nil, n.fail(op, err)
	}

	return root, nil
}

// MutableFields returns the scalar entries of the mutable mapping in file order.
func (n *Node) MutableFields() ([]Field, error) {
	data, err := n.Data()
	if err != nil {
		return nil, err
	}

	mutable := MappingGet(data, models.KeyMutable)
	fields := make([]Field, 0, mappingLen(mutable))

	for i := 0; mutable != nil && i+1 < len(mutable.Content); i += 2 {
		if value, ok := ScalarValue(mutable.Content[i+1]); ok {
			fields = append(fields, Field{Key: mutable.Content[i].Value, Value: value})
		}
	}

	return fields, nil
}

// Mutable returns the scalar entries of the mutable mapping keyed by field name.
func (n *Node) Mutable() (map[string]string, error) {
	fields, err := n.MutableFields()
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(fields))
	for _, f := range fields {
		out[f.Key] = f.Value
	}

	return out, nil
}

// Field returns a single mutable field.
func (n *Node) Field(key string) (string, bool, error) {
	data, err := n.Data()
	if err != nil {
		return "", false, err
	}

	value, ok := ScalarValue(MappingGet(MappingGet(data, models.KeyMutable), key))

	return value, ok, nil
}

// SetField sets a mutable field. The change is persisted by Save.
func (n *Node) SetField(key, value string) error {
	if err := n.validateField(key); err != nil {
		return n.fail("set field", err)
	}

	if err := validateValue(value); err != nil {
		return n.fail("set field", err)
	}

	mutable, err := n.mutableMapping()
	if err != nil {
		return err
	}

	MappingSet(mutable, key, StringNode(value))

	return nil
}

// DeleteField removes a mutable field, reporting whether it was present.
func (n *Node) DeleteField(key string) (bool, error) {
	if err := n.validateField(key); err != nil {
		return false, n.fail("delete field", err)
	}

	data, err := n.Data()
	if err != nil {
		return false, err
	}

	return mappingDelete(MappingGet(data, models.KeyMutable), key), nil
}

// SetType changes the asset classification.
func (n *Node) SetType(assetType string) error {
	if assetType == "" {
		return n.fail("set type", fmt.Errorf("%w: type must not be empty", ErrInvalidField))
	}

	if err := validateValue(assetType); err != nil {
		return n.fail("set type", err)
	}

	data, err := n.Data()
	if err != nil {
		return err
	}

	MappingSet(data, models.KeyType, StringNode(assetType))

	return nil
}

// SetPrimaryGroup replaces the primary group.
func (n *Node) SetPrimaryGroup(group string) error {
	if err := validateGroup(group); err != nil {
		return n.fail("set primary group", err)
	}

	return n.SetField(models.FieldPrimaryGroup, group)
}

// SetSecondaryGroups replaces the secondary groups; an empty list removes the field.
func (n *Node) SetSecondaryGroups(groups []string) error {
	for _, group := range groups {
		if err := validateGroup(group); err != nil {
			return n.fail("set secondary groups", err)
		}
	}

	if len(groups) == 0 {
		_, err := n.DeleteField(models.FieldSecondaryGroups)

		return err
	}

	return n.SetField(models.FieldSecondaryGroups, models.JoinGroups(groups))
}

// SetLocation writes the non-empty parts of loc as mutable fields.
func (n *Node) SetLocation(loc models.Location) error {
	for _, part := range loc.Fields() {
		if part[1] == "" {
			continue
		}

		if err := n.SetField(part[0], part[1]); err != nil {
			return err
		}
	}

	return nil
}

// DiscoveryData returns an opaque top-level entry such as hardware scan output.
func (n *Node) DiscoveryData(key string) (*yaml.Node, error) {
	data, err := n.Data()
	if err != nil {
		return nil, err
	}

	return MappingGet(data, key), nil
}

// SetDiscoveryData stores value verbatim under a non-required top-level key.
func (n *Node) SetDiscoveryData(key string, value *yaml.Node) error {
	if key == "" || n.cfg.IsRequiredKey(key) {
		return n.fail("set discovery data", fmt.Errorf("%w: %q is reserved", ErrInvalidField, key))
	}

	if value == nil {
		return n.fail("set discovery data", fmt.Errorf("%w: nil value", ErrInvalidField))
	}

	data, err := n.Data()
	if err != nil {
		return err
	}

	MappingSet(data, key, cloneNode(value))

	return nil
}

func (n *Node) mutableMapping() (*yaml.Node, error) {
	data, err := n.Data()
	if err != nil {
		return nil, err
	}

	mutable := MappingGet(data, models.KeyMutable)
	if mutable == nil || mutable.Kind != yaml.MappingNode {
		mutable = EmptyMapping()
		MappingSet(data, models.KeyMutable, mutable)
	}

	// Block style keeps every field on its own two-space-indented line.
	mutable.Style = 0

	return mutable, nil
}

func (n *Node) validateField(key string) error {
	switch {
	case key == "":
		return fmt.Errorf("%w: field name must not be empty", ErrInvalidField)
	case n.cfg.IsRequiredKey(key):
		return fmt.Errorf("%w: %q is a reserved key", ErrInvalidField, key)
	case strings.ContainsAny(key, ":#,[]{}\"'") || strings.IndexFunc(key, isSpace) >= 0:
		return fmt.Errorf("%w: %q contains a reserved character", ErrInvalidField, key)
	}

	return nil
}

func validateValue(value string) error {
	if strings.ContainsAny(value, "\r\n") {
		return fmt.Errorf("%w: values must be a single line", ErrInvalidField)
	}

	return nil
}

func validateGroup(group string) error {
	if strings.TrimSpace(group) == "" || strings.Contains(group, ",") {
		return fmt.Errorf("%w: invalid group name %q", ErrInvalidField, group)
	}

	return validateValue(group)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// writeFileAtomic replaces path with content via a temporary file in the same directory.
func writeFileAtomic(path string, content []byte) (err error) {
	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(content); err != nil {
		_ = tmp.Close()

		return err
	}

	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()

		return err
	}

	if err = tmp.Close(); err != nil {
		return err
	}

	if err = os.Chmod(tmp.Name(), mode); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

// IsNotFound reports whether err came from a missing record file.
func IsNotFound(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
