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
)

// Sentinel errors returned by record operations.
var (
	// ErrEmptyRecord is returned when a record file parses to empty or null content.
	ErrEmptyRecord = errors.New("record is empty")

	// ErrParse is returned when a record file is not a YAML mapping.
	ErrParse = errors.New("record could not be parsed")

	// ErrSchemaViolation is returned when a record is below the minimum schema version.
	ErrSchemaViolation = errors.New("record has data in the wrong schema")

	// ErrFileAccess is returned when a record file cannot be read or written.
	ErrFileAccess = errors.New("record file not accessible")

	// ErrInvalidField is returned when a mutable field name or value is rejected.
	ErrInvalidField = errors.New("invalid field")

	// ErrInvalidName is returned for node names that cannot map to a record file.
	ErrInvalidName = errors.New("invalid node name")
)

// RecordError ties a failure to the record it happened on.
type RecordError struct {
	Op   string
	Name string
	Path string
	Err  error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s %s (%s): %v", e.Op, e.Name, e.Path, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

func (n *Node) fail(op string, err error) error {
	return &RecordError{Op: op, Name: n.name, Path: n.path, Err: err}
}
