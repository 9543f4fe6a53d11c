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

//go:generate mockgen -destination=mock_inventory.go -package=inventory github.com/openflighthpc/inventoryware/pkg/inventory Prompter,RangeExpander

package inventory

// Prompter asks the operator for the type of a record that is about to be created.
type Prompter interface {
	PromptAssetType() (string, error)
}

// RangeExpander turns a node range expression such as "node[01-04],login1" into names.
type RangeExpander interface {
	Expand(expr string) ([]string, error)
}
