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

package cli

const rootExamples = `  # List every asset, or only the GPU nodes
  inventory list
  inventory list --group gpu --type server

  # Create records for a range of nodes, asking once for their type
  inventory create node[01-16]

  # Set and remove a field
  inventory modify rack=A3 node[01-04]
  inventory modify rack= node01

  # Group and locate nodes
  inventory modify-groups gpu* --primary gpu --add compute
  inventory modify-location node01 --site edi --rack A3 --unit 12

  # Upgrade records written by older releases
  inventory migrate`
