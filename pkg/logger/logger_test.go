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

package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer

	log, err := NewWithWriter(&Config{Level: "debug", Format: FormatJSON}, &buf)
	require.NoError(t, err)

	log.Debug().Str("node", "node01").Msg("scanned")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "node01", entry["node"])
	assert.Equal(t, "scanned", entry["message"])
}

func TestSetDebug(t *testing.T) {
	var buf bytes.Buffer

	log, err := NewWithWriter(&Config{Level: "info", Format: FormatJSON}, &buf)
	require.NoError(t, err)

	log.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())

	log.SetDebug(true)
	log.Debug().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestInvalidConfig(t *testing.T) {
	_, err := New(&Config{Level: "loud"})
	require.Error(t, err)

	_, err = New(&Config{Format: "xml"})
	require.ErrorIs(t, err, errInvalidFormat)
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer

	parent, err := NewWithWriter(&Config{Format: FormatJSON}, &buf)
	require.NoError(t, err)

	Component(parent, "query").Info().Msg("hello")
	assert.Contains(t, buf.String(), `"component":"query"`)

	assert.NotNil(t, Component(nil, "query"))
}

func TestDefaultConfig(t *testing.T) {
	t.Setenv("INVENTORY_LOG_LEVEL", "warn")
	t.Setenv("INVENTORY_DEBUG", "yes")

	config := DefaultConfig()
	assert.Equal(t, "warn", config.Level)
	assert.True(t, config.Debug)
	assert.Equal(t, OutputStderr, config.Output)
}

func TestTestLoggerIsDisabled(t *testing.T) {
	log := NewTestLogger()
	assert.Equal(t, zerolog.Disabled, log.WithComponent("x").GetLevel())
}
