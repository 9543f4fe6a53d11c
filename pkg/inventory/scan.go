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
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
)

// headerScan is the result of a partial read of a record file.
type headerScan struct {
	top     map[string]string
	mutable map[string]string
	// full is set when the file uses YAML the line scanner cannot answer for (aliases, block
	// scalars, multi-line values, unusual indentation). Callers then decode the whole file.
	full bool
}

// scanHeader reads a record line by line without parsing it as a whole. It picks up
// top-level "key: value" lines for topKeys, and the two-space-indented children of the
// "mutable:" block for mutableKeys.
//
// The scan ends once every requested key has been seen, or once every required key has been
// passed and a later top-level key starts (keys are unique, so nothing requested can follow).
// Records written by Save put the required keys first, which keeps the read to a handful of
// lines. Files not laid out that way are still answered correctly, just more slowly.
func scanHeader(path string, required, topKeys, mutableKeys []string) (*headerScan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s := &scanner{
		res: &headerScan{
			top:     make(map[string]string, len(topKeys)),
			mutable: make(map[string]string, len(mutableKeys)),
		},
		wantTop:         toSet(topKeys),
		wantMutable:     toSet(mutableKeys),
		pendingRequired: toSet(required),
		remaining:       len(topKeys) + len(mutableKeys),
		seenTop:         make(map[string]bool, len(topKeys)),
		seenMutable:     make(map[string]bool, len(mutableKeys)),
		continuation:    -1,
	}

	r := bufio.NewReader(f)

	for {
		line, err := r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}

		if !s.feed(strings.TrimRight(line, "\r\n")) || err != nil {
			break
		}
	}

	return s.res, nil
}

const mutableKey = "mutable"

type scanner struct {
	res             *headerScan
	wantTop         map[string]bool
	wantMutable     map[string]bool
	pendingRequired map[string]bool
	remaining       int
	seenTop         map[string]bool
	seenMutable     map[string]bool
	started         bool
	inMutable       bool
	childIndent     int
	// continuation is the indent of the last matched value, or -1. A deeper line after it
	// continues that value.
	continuation int
}

// feed consumes one line and reports whether the scan should go on.
func (s *scanner) feed(line string) bool {
	indent, blank := lineIndent(line)
	if blank {
		return s.remaining > 0 || s.continuation >= 0
	}

	if s.continuation >= 0 {
		if indent > s.continuation {
			s.res.full = true

			return false
		}

		s.continuation = -1
	}

	if s.remaining == 0 {
		return false
	}

	if indent == 0 {
		return s.topLevel(line)
	}

	if !s.inMutable {
		return true
	}

	if s.childIndent == 0 {
		s.childIndent = indent
	}

	if s.childIndent != 2 {
		s.res.full = true

		return false
	}

	if key, text, ok := childKey(line); ok && s.wantMutable[key] {
		s.record(s.seenMutable, s.res.mutable, key, text, indent)
	}

	return !s.res.full
}

func (s *scanner) topLevel(line string) bool {
	if isDocumentMarker(line) {
		return !s.started
	}

	if strings.ContainsRune("?&*!{[|>", rune(line[0])) {
		s.res.full = true

		return false
	}

	key, text, ok := topLevelKey(line)
	if !ok {
		return true
	}

	s.started = true

	if len(s.pendingRequired) == 0 {
		return false
	}

	delete(s.pendingRequired, key)
	s.inMutable = key == mutableKey
	s.childIndent = 0

	if s.wantTop[key] {
		s.record(s.seenTop, s.res.top, key, text, 0)
	}

	if s.inMutable && text != "" {
		s.inMutable = false
		s.flowMutable(text)
	}

	return !s.res.full
}

// flowMutable handles "mutable:" followed by a value on the same line.
func (s *scanner) flowMutable(text string) {
	if !strings.HasPrefix(text, "{") {
		if needsFullDecode(text) {
			s.res.full = true
		}

		return
	}

	flow := decodeFlowMapping(text)
	if flow == nil {
		s.res.full = true

		return
	}

	for k := range s.wantMutable {
		v := MappingGet(flow, k)
		if v == nil {
			continue
		}

		s.seenMutable[k] = true
		s.remaining--

		if value, ok := ScalarValue(v); ok {
			s.res.mutable[k] = value
		}
	}
}

func (s *scanner) record(seen map[string]bool, into map[string]string, key, text string, indent int) {
	if seen[key] {
		// Duplicate keys make the file invalid; let the full decode report it.
		s.res.full = true

		return
	}

	seen[key] = true
	s.remaining--

	if needsFullDecode(text) {
		s.res.full = true

		return
	}

	value, ok, err := decodeScalarText(text)
	if err != nil {
		s.res.full = true

		return
	}

	if ok {
		into[key] = value
	}

	s.continuation = indent
}

// needsFullDecode reports whether a value cannot be read from its own line: values on the
// following lines, aliases, anchors, block scalars, flow collections and reserved indicators.
func needsFullDecode(text string) bool {
	if text == "" || text == "-" || strings.HasPrefix(text, "- ") {
		return true
	}

	return strings.ContainsRune("*&|>[{?%@`", rune(text[0]))
}

// lineIndent returns the number of leading spaces, and whether the line holds no content.
func lineIndent(line string) (int, bool) {
	trimmed := strings.TrimLeft(line, " ")

	return len(line) - len(trimmed), trimmed == "" || trimmed[0] == '#'
}

func isDocumentMarker(line string) bool {
	for _, marker := range []string{"---", "..."} {
		if line == marker || strings.HasPrefix(line, marker+" ") {
			return true
		}
	}

	return false
}

// topLevelKey matches "key: value" or "key:" starting in column zero.
func topLevelKey(line string) (string, string, bool) {
	if line == "" || line[0] == ' ' || line[0] == '\t' || line[0] == '#' || line[0] == '-' {
		return "", "", false
	}

	return splitKey(line)
}

// childKey matches a "  key: value" line indented by exactly two spaces.
func childKey(line string) (string, string, bool) {
	if !strings.HasPrefix(line, "  ") || len(line) < 3 {
		return "", "", false
	}

	rest := line[2:]
	if rest[0] == ' ' || rest[0] == '\t' || rest[0] == '#' || rest[0] == '-' {
		return "", "", false
	}

	return splitKey(rest)
}

func splitKey(s string) (string, string, bool) {
	key, text, ok := strings.Cut(s, ": ")
	if !ok {
		if !strings.HasSuffix(s, ":") {
			return "", "", false
		}

		key, text = s[:len(s)-1], ""
	}

	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "#") {
		text = ""
	}

	if key != "" && (key[0] == '"' || key[0] == '\'') {
		if unquoted, ok, err := decodeScalarText(key); err == nil && ok {
			key = unquoted
		}
	}

	return key, text, true
}

func toSet(keys []string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}

	return set
}
