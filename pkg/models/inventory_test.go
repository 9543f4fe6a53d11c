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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryConfigDefaults(t *testing.T) {
	cfg := &InventoryConfig{StoreDir: "/var/store"}
	cfg.ApplyDefaults()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "/var/store/default", cfg.RecordDir())
	assert.Equal(t, ".yaml", cfg.Extension)
	assert.Equal(t, []string{"name", "schema", "mutable", "type"}, cfg.RequiredKeys)
	assert.InDelta(t, 1.0, cfg.SchemaVersion, 0)
	assert.Equal(t, "server", cfg.DefaultType)
	assert.Equal(t, "orphan", cfg.DefaultPrimaryGroup)
	assert.NotNil(t, cfg.Logging)
}

func TestInventoryConfigValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  InventoryConfig
		want error
	}{
		{
			name: "missing store dir",
			cfg:  InventoryConfig{},
			want: errStoreDirRequired,
		},
		{
			name: "extension without dot",
			cfg:  InventoryConfig{StoreDir: "/s", Extension: "yaml"},
			want: errInvalidExtension,
		},
		{
			name: "minimum above current",
			cfg:  InventoryConfig{StoreDir: "/s", SchemaVersion: 1, MinimumSchema: 2},
			want: errInvalidSchemaBounds,
		},
		{
			name: "required keys without type",
			cfg:  InventoryConfig{StoreDir: "/s", RequiredKeys: []string{"name", "schema", "mutable"}},
			want: errMissingRequiredKey,
		},
		{
			name: "cluster with separator",
			cfg:  InventoryConfig{StoreDir: "/s", Cluster: "a/b"},
			want: errInvalidCluster,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, tc.cfg.Validate(), tc.want)
		})
	}
}

func TestSplitGroups(t *testing.T) {
	assert.Equal(t, []string{}, SplitGroups(""))
	assert.Equal(t, []string{"a", "b"}, SplitGroups("a,,b"))
	assert.Equal(t, []string{"gpu", "ib"}, SplitGroups(" gpu , ib "))
	assert.Equal(t, "gpu,ib", JoinGroups([]string{"gpu", "ib"}))
}

func TestIsRequiredKey(t *testing.T) {
	cfg := &InventoryConfig{}
	assert.True(t, cfg.IsRequiredKey("mutable"))
	assert.False(t, cfg.IsRequiredKey("lshw"))
}
