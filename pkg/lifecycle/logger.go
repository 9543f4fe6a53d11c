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

// Package lifecycle holds process start-up helpers shared by the inventory binaries.
package lifecycle

import (
	"fmt"
	"io"

	"github.com/openflighthpc/inventoryware/pkg/logger"
)

// CreateLogger builds the process logger. debug forces debug level on top of config.
// If config is nil, it uses the default configuration.
func CreateLogger(config *logger.Config, debug bool) (logger.Logger, error) {
	return CreateLoggerWithWriter(config, debug, nil)
}

// CreateLoggerWithWriter is like CreateLogger but sends output to w when it is non-nil.
func CreateLoggerWithWriter(config *logger.Config, debug bool, w io.Writer) (logger.Logger, error) {
	if config == nil {
		config = logger.DefaultConfig()
	}

	effective := *config
	if debug {
		effective.Debug = true
	}

	log, err := logger.NewWithWriter(&effective, w)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return log, nil
}

// CreateComponentLogger creates a logger for a specific component.
func CreateComponentLogger(component string, config *logger.Config, debug bool, w io.Writer) (logger.Logger, error) {
	log, err := CreateLoggerWithWriter(config, debug, w)
	if err != nil {
		return nil, err
	}

	return logger.Component(log, component), nil
}
