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

import "errors"

var (
	errNoSelection      = errors.New("no nodes given; pass node names, --group or --all")
	errConflictingFlags = errors.New("--all cannot be combined with node names or --group")
	errBadAssignment    = errors.New("expected FIELD=VALUE")
	errPromptCancelled  = errors.New("asset type prompt cancelled")
	errNoGroupChanges   = errors.New("nothing to change; pass --primary, --add or --remove")
	errNoLocation       = errors.New("nothing to change; pass at least one location flag")
	errNodeNotFound     = errors.New("node not found")
	errPartialFailure   = errors.New("one or more nodes failed")
)
