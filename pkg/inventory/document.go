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
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	tagStr   = "!!str"
	tagInt   = "!!int"
	tagFloat = "!!float"
	tagMap   = "!!map"
	tagNull  = "!!null"

	yamlIndent = 2
)

// decodeDocument parses record content and returns its root mapping.
func decodeDocument(content []byte) (*yaml.Node, error) {
	var doc yaml.Node

	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, ErrEmptyRecord
	}

	root := doc.Content[0]

	switch {
	case root.Kind == yaml.ScalarNode && root.Tag == tagNull:
		return nil, ErrEmptyRecord
	case root.Kind == yaml.MappingNode && len(root.Content) == 0:
		return nil, ErrEmptyRecord
	case root.Kind != yaml.MappingNode:
		return nil, fmt.Errorf("%w: top level is not a mapping", ErrParse)
	}

	return root, nil
}

// encodeDocument is the single serialization routine for records. The required keys are
// moved to the front of the top-level mapping, in the order given, so the fast-path
// scanner finds them within the first few lines.
func encodeDocument(root *yaml.Node, required []string) ([]byte, error) {
	orderRequiredFirst(root, required)

	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(yamlIndent)

	if err := enc.Encode(root); err != nil {
		return nil, err
	}

	if err := enc.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// orderRequiredFirst reorders the key/value pairs of a mapping in place. Keys not listed in
// required keep their relative order.
func orderRequiredFirst(m *yaml.Node, required []string) {
	if m == nil || m.Kind != yaml.MappingNode {
		return
	}

	ordered := make([]*yaml.Node, 0, len(m.Content))
	taken := make(map[int]bool, len(required))

	for _, key := range required {
		for i := 0; i+1 < len(m.Content); i += 2 {
			if !taken[i] && m.Content[i].Value == key {
				ordered = append(ordered, m.Content[i], m.Content[i+1])
				taken[i] = true

				break
			}
		}
	}

	for i := 0; i+1 < len(m.Content); i += 2 {
		if !taken[i] {
			ordered = append(ordered, m.Content[i], m.Content[i+1])
		}
	}

	m.Content = ordered
}

// MappingGet returns the value stored under key in mapping m, or nil.
func MappingGet(m *yaml.Node, key string) *yaml.Node {
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}

	return nil
}

// MappingSet replaces the value under key, appending the pair when the key is absent.
func MappingSet(m *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content[i+1] = value

			return
		}
	}

	m.Content = append(m.Content, StringNode(key), value)
}

func mappingDelete(m *yaml.Node, key string) bool {
	if m == nil || m.Kind != yaml.MappingNode {
		return false
	}

	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content = append(m.Content[:i], m.Content[i+2:]...)

			return true
		}
	}

	return false
}

func mappingLen(m *yaml.Node) int {
	if m == nil || m.Kind != yaml.MappingNode {
		return 0
	}

	return len(m.Content) / 2
}

// ScalarValue returns the value of a non-null scalar node.
func ScalarValue(n *yaml.Node) (string, bool) {
	if n == nil {
		return "", false
	}

	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}

	if n.Kind != yaml.ScalarNode || n.Tag == tagNull {
		return "", false
	}

	return n.Value, true
}

// decodeScalarText decodes the text after "key: " on a single line as a YAML scalar.
func decodeScalarText(text string) (string, bool, error) {
	var doc yaml.Node

	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrParse, err)
	}

	if len(doc.Content) == 0 {
		return "", false, nil
	}

	value, ok := ScalarValue(doc.Content[0])

	return value, ok, nil
}

// decodeFlowMapping decodes an inline mapping such as "{primary_group: gpu}".
func decodeFlowMapping(text string) *yaml.Node {
	var doc yaml.Node

	if err := yaml.Unmarshal([]byte(text), &doc); err != nil || len(doc.Content) == 0 {
		return nil
	}

	if doc.Content[0].Kind != yaml.MappingNode {
		return nil
	}

	return doc.Content[0]
}

// StringNode returns a string scalar.
func StringNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tagStr, Value: value}
}

// NumberNode returns an int or float scalar for a schema number.
func NumberNode(value float64) *yaml.Node {
	tag := tagFloat
	if value == float64(int64(value)) {
		tag = tagInt
	}

	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: FormatVersion(value)}
}

// EmptyMapping returns a mapping with no entries.
func EmptyMapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: tagMap}
}

// FormatVersion renders a schema number without trailing zeros.
func FormatVersion(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// parseVersion reads a schema number; anything non-numeric counts as unversioned.
func parseVersion(raw string, ok bool) float64 {
	if !ok {
		return 0
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}

	return v
}

// cloneNode deep-copies a YAML node tree.
func cloneNode(n *yaml.Node) *yaml.Node {
	if n == nil {
		return nil
	}

	c := *n
	if len(n.Content) > 0 {
		c.Content = make([]*yaml.Node, len(n.Content))
		for i, child := range n.Content {
			c.Content[i] = cloneNode(child)
		}
	}

	return &c
}

// EncodeValue renders an arbitrary YAML node, used when printing discovery data.
func EncodeValue(w io.Writer, n *yaml.Node) error {
	if n == nil {
		return errors.New("nil node")
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(yamlIndent)

	if err := enc.Encode(n); err != nil {
		return err
	}

	return enc.Close()
}
