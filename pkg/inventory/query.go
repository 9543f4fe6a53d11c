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
	"strings"

	"github.com/openflighthpc/inventoryware/pkg/logger"
)

// Query filters records by group or type.
type Query struct {
	store         *Store
	minimumSchema float64
	logger        logger.Logger
}

// NewQuery returns a query engine over store that rejects records below minimumSchema.
func NewQuery(store *Store, minimumSchema float64, log logger.Logger) *Query {
	return &Query{
		store:         store,
		minimumSchema: minimumSchema,
		logger:        logger.Component(log, "query"),
	}
}

// FindAll binds every record in the store and checks its schema. The first record below
// the minimum aborts the query.
func (q *Query) FindAll() ([]*Node, error) {
	nodes, err := q.store.Nodes()
	if err != nil {
		return nil, err
	}

	for _, node := range nodes {
		if err := node.CheckSchema(q.minimumSchema); err != nil {
			return nil, err
		}
	}

	if len(nodes) == 0 {
		q.logger.Warn().Str("dir", q.store.Dir()).Msg("No assets found")
	}

	return nodes, nil
}

// FindInGroups returns the nodes belonging to any of groups. A nil nodes searches the
// whole store.
func (q *Query) FindInGroups(groups []string, nodes []*Node) ([]*Node, error) {
	return q.filter(nodes, "groups", groups, func(n *Node) (bool, error) {
		memberOf, err := n.AllGroups()
		if err != nil {
			return false, err
		}

		for _, group := range memberOf {
			for _, want := range groups {
				if group == want {
					return true, nil
				}
			}
		}

		return false, nil
	})
}

// FindWithTypes returns the nodes whose type matches one of types, ignoring case.
func (q *Query) FindWithTypes(types []string, nodes []*Node) ([]*Node, error) {
	return q.filter(nodes, "types", types, func(n *Node) (bool, error) {
		assetType, err := n.Type()
		if err != nil {
			return false, err
		}

		for _, want := range types {
			if strings.EqualFold(assetType, want) {
				return true, nil
			}
		}

		return false, nil
	})
}

func (q *Query) filter(nodes []*Node, field string, values []string, match func(*Node) (bool, error)) ([]*Node, error) {
	if nodes == nil {
		var err error
		if nodes, err = q.FindAll(); err != nil {
			return nil, err
		}
	}

	found := make([]*Node, 0, len(nodes))

	for _, node := range nodes {
		ok, err := match(node)
		if err != nil {
			return nil, err
		}

		if ok {
			found = append(found, node)
		}
	}

	if len(found) == 0 {
		q.logger.Warn().Strs(field, values).Msg("No assets found")
	}

	return found, nil
}
