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
	"os"
	"strings"
)

const envPrefix = "INVENTORY_"

// DefaultConfig returns the logging configuration derived from the environment.
// Diagnostics go to stderr unless INVENTORY_LOG_OUTPUT says otherwise.
func DefaultConfig() *Config {
	return &Config{
		Level:      getEnvOrDefault(envPrefix+"LOG_LEVEL", "info"),
		Debug:      getEnvBoolOrDefault(envPrefix+"DEBUG", false),
		Output:     getEnvOrDefault(envPrefix+"LOG_OUTPUT", OutputStderr),
		Format:     getEnvOrDefault(envPrefix+"LOG_FORMAT", FormatConsole),
		TimeFormat: getEnvOrDefault(envPrefix+"LOG_TIME_FORMAT", ""),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	value = strings.ToLower(value)

	return value == "true" || value == "1" || value == "yes" || value == "on"
}
