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

package lifecycle

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openflighthpc/inventoryware/pkg/logger"
)

func TestCreateComponentLogger(t *testing.T) {
	var buf bytes.Buffer

	cfg := &logger.Config{Level: "info", Format: logger.FormatJSON}

	log, err := CreateComponentLogger("migrate", cfg, false, &buf)
	require.NoError(t, err)

	log.Debug().Msg("hidden")
	log.Info().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"component":"migrate"`)
	assert.Contains(t, buf.String(), "shown")
	assert.False(t, cfg.Debug)
}

func TestCreateLoggerDebugOverride(t *testing.T) {
	var buf bytes.Buffer

	log, err := CreateLoggerWithWriter(&logger.Config{Level: "warn", Format: logger.FormatJSON}, true, &buf)
	require.NoError(t, err)

	log.Debug().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestCreateLoggerInvalidFormat(t *testing.T) {
	_, err := CreateLogger(&logger.Config{Format: "xml"}, false)
	require.Error(t, err)
}
