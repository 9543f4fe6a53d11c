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
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar"

	"github.com/openflighthpc/inventoryware/pkg/logger"
)

const wildcard = "*"

// ExpandOptions controls how missing records are handled.
type ExpandOptions struct {
	// ReturnMissing creates records for names with no backing file.
	ReturnMissing bool
	// Type is the asset type for created records. When empty the Prompter is asked once.
	Type string
}

// Expansion is the outcome of resolving a list of node expressions.
type Expansion struct {
	Nodes     []*Node
	Unmatched []string
	Missing   []string
	Created   []string
	Invalid   []string
	// Failed holds names whose records could not be created, with the cause.
	Failed map[string]error
}

// Expander turns node expressions into records.
type Expander struct {
	store  *Store
	ranges RangeExpander
	prompt Prompter
	logger logger.Logger
}

// NewExpander returns an expander over store. ranges and prompt may be nil, in which case
// expressions are taken literally and created records use the configured default type.
func NewExpander(store *Store, ranges RangeExpander, prompt Prompter, log logger.Logger) *Expander {
	return &Expander{
		store:  store,
		ranges: ranges,
		prompt: prompt,
		logger: logger.Component(log, "expander"),
	}
}

// Expand resolves exprs into deduplicated records in expansion order. Names that match
// nothing are reported on the Expansion rather than returned as errors.
func (e *Expander) Expand(exprs []string, opts ExpandOptions) (*Expansion, error) {
	names, err := e.expandRanges(exprs)
	if err != nil {
		return nil, err
	}

	res := &Expansion{Nodes: []*Node{}}

	names, err = e.substituteWildcards(names, res)
	if err != nil {
		return nil, err
	}

	assetType := opts.Type
	seen := make(map[string]bool, len(names))

	for _, name := range names {
		path, err := e.store.ResolveLocation(name)
		if err != nil {
			e.logger.Warn().Err(err).Str("node", name).Msg("Skipping invalid node name")
			res.Invalid = append(res.Invalid, name)

			continue
		}

		key := path
		if abs, err := filepath.Abs(path); err == nil {
			key = abs
		}

		if seen[key] {
			continue
		}

		seen[key] = true

		if !e.store.Exists(path) {
			if !opts.ReturnMissing {
				e.logger.Warn().Str("node", name).Msg("No record found, skipping")
				res.Missing = append(res.Missing, name)

				continue
			}

			if assetType == "" {
				if assetType, err = e.promptType(); err != nil {
					return nil, err
				}
			}

			if _, err := e.store.CreateIfMissing(path, assetType); err != nil {
				e.logger.Error().Err(err).Str("node", name).Msg("Failed to create record")

				if res.Failed == nil {
					res.Failed = make(map[string]error)
				}

				res.Failed[name] = err

				continue
			}

			res.Created = append(res.Created, name)
		}

		res.Nodes = append(res.Nodes, e.store.Load(path))
	}

	if len(res.Nodes) == 0 {
		e.logger.Warn().Strs("expressions", exprs).Msg("No nodes found")
	}

	return res, nil
}

func (e *Expander) expandRanges(exprs []string) ([]string, error) {
	var names []string

	for _, expr := range exprs {
		if e.ranges == nil {
			names = append(names, expr)

			continue
		}

		expanded, err := e.ranges.Expand(expr)
		if err != nil {
			return nil, fmt.Errorf("expanding %q: %w", expr, err)
		}

		names = append(names, expanded...)
	}

	return names, nil
}

// substituteWildcards replaces each token containing "*" with the sorted record names it
// matches. The directory is listed at most once.
func (e *Expander) substituteWildcards(names []string, res *Expansion) ([]string, error) {
	var existing []string

	listed := false
	out := make([]string, 0, len(names))

	for _, name := range names {
		if !strings.Contains(name, wildcard) {
			out = append(out, name)

			continue
		}

		if !listed {
			var err error
			if existing, err = e.store.Names(); err != nil {
				return nil, err
			}

			listed = true
		}

		var matches []string

		for _, candidate := range existing {
			ok, err := doublestar.Match(name, candidate)
			if err != nil {
				return nil, fmt.Errorf("matching %q: %w", name, err)
			}

			if ok {
				matches = append(matches, candidate)
			}
		}

		if len(matches) == 0 {
			e.logger.Warn().Str("pattern", name).Msg("Wildcard matched no nodes")
			res.Unmatched = append(res.Unmatched, name)

			continue
		}

		sort.Strings(matches)
		out = append(out, matches...)
	}

	return out, nil
}

func (e *Expander) promptType() (string, error) {
	if e.prompt == nil {
		return e.store.Config().DefaultType, nil
	}

	assetType, err := e.prompt.PromptAssetType()
	if err != nil {
		return "", fmt.Errorf("prompting for asset type: %w", err)
	}

	if assetType == "" {
		return e.store.Config().DefaultType, nil
	}

	return assetType, nil
}
