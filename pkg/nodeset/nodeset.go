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

// Package nodeset expands HPC-style node range expressions into node names.
//
// The grammar is:
//
//	expression ::= item ("," item)*
//	item       ::= fragment+
//	fragment   ::= literal | range
//	literal    ::= <longest nonempty run of characters other than "[", "]" and ",">
//	range      ::= "[" range-elt ("," range-elt)* "]"
//	range-elt  ::= number | number "-" number
//
// A range A-B requires A <= B. The width of A is kept when it carries leading zeros, so
// "node[08-10]" expands to node08, node09, node10. Characters such as "*" and "." are plain
// literal text here; wildcard matching is left to the caller.
package nodeset

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrEmptyItem       = errors.New("empty node name")
	ErrNestedBracket   = errors.New("nested brackets")
	ErrUnmatchedClose  = errors.New("unmatched end bracket")
	ErrMissingClose    = errors.New("missing end bracket")
	ErrExpectedNumber  = errors.New("expected number")
	ErrBadRange        = errors.New("range start is greater than range end")
	ErrTooManyNames    = errors.New("expression expands to too many names")
	errUnexpectedInput = errors.New("unexpected character")
)

// MaxNames bounds the size of a single expansion.
const MaxNames = 1 << 16

// Expander implements range expansion for the inventory name resolver.
type Expander struct{}

// Expand implements inventory.RangeExpander.
func (Expander) Expand(expr string) ([]string, error) {
	return Expand(expr)
}

// Expand expands every item of expr in order. Duplicates are kept; callers dedupe.
func Expand(expr string) ([]string, error) {
	items, err := Split(expr)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(items))

	for _, item := range items {
		expanded, err := expandItem(item)
		if err != nil {
			return nil, fmt.Errorf("invalid node range %q: %w", item, err)
		}

		if len(names)+len(expanded) > MaxNames {
			return nil, fmt.Errorf("%w: %q", ErrTooManyNames, expr)
		}

		names = append(names, expanded...)
	}

	return names, nil
}

// Split breaks an expression on the commas that sit outside brackets.
func Split(expr string) ([]string, error) {
	items := make([]string, 0)

	expr = strings.TrimSpace(expr)
	if expr == "" {
		return items, nil
	}

	inside := false
	start := 0

	for ix, c := range expr {
		switch {
		case c == '[':
			if inside {
				return nil, fmt.Errorf("%w in %q", ErrNestedBracket, expr)
			}

			inside = true
		case c == ']':
			if !inside {
				return nil, fmt.Errorf("%w in %q", ErrUnmatchedClose, expr)
			}

			inside = false
		case c == ',' && !inside:
			item := strings.TrimSpace(expr[start:ix])
			if item == "" {
				return nil, fmt.Errorf("%w in %q", ErrEmptyItem, expr)
			}

			items = append(items, item)
			start = ix + 1
		}
	}

	if inside {
		return nil, fmt.Errorf("%w in %q", ErrMissingClose, expr)
	}

	last := strings.TrimSpace(expr[start:])
	if last == "" {
		return nil, fmt.Errorf("%w in %q", ErrEmptyItem, expr)
	}

	return append(items, last), nil
}

// fragment is either a literal string or the expanded numbers of a range.
type fragment struct {
	literal string
	numbers []string
}

func expandItem(item string) ([]string, error) {
	fragments, err := parseItem(item)
	if err != nil {
		return nil, err
	}

	tails := []string{""}

	for i := len(fragments) - 1; i >= 0; i-- {
		f := fragments[i]
		if f.numbers == nil {
			for j := range tails {
				tails[j] = f.literal + tails[j]
			}

			continue
		}

		if len(tails)*len(f.numbers) > MaxNames {
			return nil, ErrTooManyNames
		}

		xs := make([]string, 0, len(tails)*len(f.numbers))
		for _, n := range f.numbers {
			for _, t := range tails {
				xs = append(xs, n+t)
			}
		}

		tails = xs
	}

	return tails, nil
}

func parseItem(item string) ([]fragment, error) {
	var fragments []fragment

	for len(item) > 0 {
		if item[0] != '[' {
			end := strings.IndexByte(item, '[')
			if end < 0 {
				end = len(item)
			}

			fragments = append(fragments, fragment{literal: item[:end]})
			item = item[end:]

			continue
		}

		end := strings.IndexByte(item, ']')
		if end < 0 {
			return nil, ErrMissingClose
		}

		numbers, err := parseRange(item[1:end])
		if err != nil {
			return nil, err
		}

		fragments = append(fragments, fragment{numbers: numbers})
		item = item[end+1:]
	}

	return fragments, nil
}

func parseRange(body string) ([]string, error) {
	if body == "" {
		return nil, ErrExpectedNumber
	}

	var numbers []string

	for _, elt := range strings.Split(body, ",") {
		lo, hi, isRange := strings.Cut(strings.TrimSpace(elt), "-")

		first, err := readNumber(lo)
		if err != nil {
			return nil, err
		}

		last := first
		if isRange {
			if last, err = readNumber(hi); err != nil {
				return nil, err
			}
		}

		if first > last {
			return nil, fmt.Errorf("%w: %s", ErrBadRange, elt)
		}

		if last-first >= MaxNames-len(numbers) {
			return nil, ErrTooManyNames
		}

		width := 0
		if len(lo) > 1 && lo[0] == '0' {
			width = len(lo)
		}

		for i := 0; i <= last-first; i++ {
			numbers = append(numbers, fmt.Sprintf("%0*d", width, first+i))
		}
	}

	return numbers, nil
}

func readNumber(s string) (int, error) {
	if s == "" {
		return 0, ErrExpectedNumber
	}

	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w %q", errUnexpectedInput, c)
		}
	}

	n, err := strconv.Atoi(s)
	if errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("%w: %s is out of range", ErrTooManyNames, s)
	}

	return n, err
}
