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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openflighthpc/inventoryware/pkg/logger"
)

func seedQueryStore(t *testing.T) *Store {
	t.Helper()

	s := newTestStore(t)
	writeRecord(t, s, "gpu01", "name: gpu01\nschema: 1\nmutable:\n  primary_group: gpu\ntype: Server\n")
	writeRecord(t, s, "login1", "name: login1\nschema: 1\nmutable:\n  primary_group: login\n  secondary_groups: gpu,users\ntype: login\n")
	writeRecord(t, s, "sw1", "name: sw1\nschema: 1\nmutable: {}\ntype: switch\n")

	return s
}

func TestFindAll(t *testing.T) {
	t.Run("returns every record", func(t *testing.T) {
		q := NewQuery(seedQueryStore(t), 1, logger.NewTestLogger())

		nodes, err := q.FindAll()
		require.NoError(t, err)
		assert.Equal(t, []string{"gpu01", "login1", "sw1"}, nodeNames(nodes))
	})

	t.Run("empty store", func(t *testing.T) {
		q := NewQuery(newTestStore(t), 1, nil)

		nodes, err := q.FindAll()
		require.NoError(t, err)
		assert.Empty(t, nodes)
	})

	t.Run("legacy record aborts", func(t *testing.T) {
		s := seedQueryStore(t)
		writeRecord(t, s, "old", "old:\n  name: old\n")

		_, err := NewQuery(s, 1, nil).FindAll()
		require.ErrorIs(t, err, ErrSchemaViolation)
	})
}

func TestFindInGroups(t *testing.T) {
	q := NewQuery(seedQueryStore(t), 1, nil)

	tests := []struct {
		name   string
		groups []string
		want   []string
	}{
		{name: "primary and secondary", groups: []string{"gpu"}, want: []string{"gpu01", "login1"}},
		{name: "default group", groups: []string{"orphan"}, want: []string{"sw1"}},
		{name: "any of several", groups: []string{"users", "orphan"}, want: []string{"login1", "sw1"}},
		{name: "case sensitive", groups: []string{"GPU"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes, err := q.FindInGroups(tt.groups, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, nodeNames(nodes))
		})
	}
}

func TestFindWithTypes(t *testing.T) {
	s := seedQueryStore(t)
	q := NewQuery(s, 1, nil)

	nodes, err := q.FindWithTypes([]string{"SERVER"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"gpu01"}, nodeNames(nodes))

	nodes, err = q.FindWithTypes([]string{"switch", "Login"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"login1", "sw1"}, nodeNames(nodes))

	t.Run("chained filters", func(t *testing.T) {
		inGPU, err := q.FindInGroups([]string{"gpu"}, nil)
		require.NoError(t, err)

		nodes, err := q.FindWithTypes([]string{"login"}, inGPU)
		require.NoError(t, err)
		assert.Equal(t, []string{"login1"}, nodeNames(nodes))
	})

	t.Run("empty subset stays empty", func(t *testing.T) {
		nodes, err := q.FindWithTypes([]string{"server"}, []*Node{})
		require.NoError(t, err)
		assert.Empty(t, nodes)
	})
}
