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

import (
	"io"

	"github.com/hashicorp/go-multierror"

	"github.com/openflighthpc/inventoryware/pkg/inventory"
	"github.com/openflighthpc/inventoryware/pkg/logger"
	"github.com/openflighthpc/inventoryware/pkg/models"
)

// CmdConfig holds the global flags shared by every subcommand.
type CmdConfig struct {
	ConfigPath string
	StoreDir   string
	Cluster    string
	Debug      bool
}

// Streams are the process streams a command reads from and writes to.
type Streams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

// app is the state built once the global flags are parsed.
type app struct {
	streams  Streams
	flags    CmdConfig
	cfg      *models.InventoryConfig
	logger   logger.Logger
	store    *inventory.Store
	prompter inventory.Prompter
	// failed collects records that could not be created during expansion.
	failed *multierror.Error
}

// selection is how a command picks the records it works on.
type selection struct {
	names  []string
	groups []string
	types  []string
	all    bool
	create bool
	// assetType is used for records created by the selection.
	assetType string
}

// groupChanges describes a modify-groups request.
type groupChanges struct {
	primary string
	add     []string
	remove  []string
}
