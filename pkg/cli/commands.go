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
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/openflighthpc/inventoryware/pkg/inventory"
	"github.com/openflighthpc/inventoryware/pkg/models"
	"github.com/openflighthpc/inventoryware/pkg/schema"
)

func addSelectionFlags(cmd *cobra.Command, sel *selection) {
	cmd.Flags().StringSliceVarP(&sel.groups, "group", "g", nil, "select the nodes in these groups")
	cmd.Flags().BoolVar(&sel.all, "all", false, "select every node")
	cmd.Flags().BoolVarP(&sel.create, "create", "c", false, "create records for names that do not exist")
}

// resolve turns a selection into schema-checked records.
func (a *app) resolve(sel selection) ([]*inventory.Node, error) {
	var (
		nodes []*inventory.Node
		err   error
	)

	q := a.query()

	switch {
	case sel.all && (len(sel.names) > 0 || len(sel.groups) > 0):
		return nil, errConflictingFlags
	case sel.all:
		nodes, err = q.FindAll()
	case len(sel.names) > 0:
		nodes, err = a.expand(sel)
		if err == nil && len(sel.groups) > 0 {
			nodes, err = q.FindInGroups(sel.groups, nodes)
		}
	case len(sel.groups) > 0:
		nodes, err = q.FindInGroups(sel.groups, nil)
	default:
		return nil, errNoSelection
	}

	if err != nil {
		return nil, err
	}

	if len(sel.types) > 0 {
		return q.FindWithTypes(sel.types, nodes)
	}

	return nodes, nil
}

func (a *app) expand(sel selection) ([]*inventory.Node, error) {
	res, err := a.expander().Expand(sel.names, inventory.ExpandOptions{
		ReturnMissing: sel.create,
		Type:          sel.assetType,
	})
	if err != nil {
		return nil, err
	}

	for _, name := range res.Missing {
		fmt.Fprintf(a.streams.ErrOut, "No record for '%s'; skipping (use --create to add it)\n", name)
	}

	a.recordFailures(res)

	for _, node := range res.Nodes {
		if err := node.CheckSchema(a.cfg.MinimumSchema); err != nil {
			return nil, fmt.Errorf("%w; run 'inventory migrate'", err)
		}
	}

	return res.Nodes, nil
}

// recordFailures reports records that could not be created and keeps them for the exit status.
func (a *app) recordFailures(res *inventory.Expansion) {
	names := make([]string, 0, len(res.Failed))
	for name := range res.Failed {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(a.streams.ErrOut, "Could not create '%s': %v\n", name, res.Failed[name])
		a.failed = multierror.Append(a.failed, res.Failed[name])
	}
}

// eachNode applies fn to every node, continuing past failures.
func (a *app) eachNode(nodes []*inventory.Node, fn func(*inventory.Node) error) error {
	errs := a.failed

	for _, node := range nodes {
		if err := fn(node); err != nil {
			a.logger.Error().Err(err).Str("node", node.Name()).Msg("Update failed")
			errs = multierror.Append(errs, err)
		}
	}

	if err := errs.ErrorOrNil(); err != nil {
		return fmt.Errorf("%w: %w", errPartialFailure, err)
	}

	return nil
}

func newListCommand(a *app) *cobra.Command {
	var sel selection

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List assets and their types",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			q := a.query()

			var (
				nodes []*inventory.Node
				err   error
			)

			if len(sel.groups) > 0 {
				nodes, err = q.FindInGroups(sel.groups, nil)
			} else {
				nodes, err = q.FindAll()
			}

			if err == nil && len(sel.types) > 0 {
				nodes, err = q.FindWithTypes(sel.types, nodes)
			}

			if err != nil {
				return err
			}

			for _, node := range nodes {
				assetType, err := node.Type()
				if err != nil {
					return err
				}

				fmt.Fprintf(a.streams.Out, "%s\t%s\n", node.Name(), assetType)
			}

			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&sel.groups, "group", "g", nil, "only list nodes in these groups")
	cmd.Flags().StringSliceVarP(&sel.types, "type", "t", nil, "only list nodes of these types")

	return cmd
}

func newShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show NODES...",
		Short: "Print the full record of each node",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			nodes, err := a.resolve(selection{names: args})
			if err != nil {
				return err
			}

			if len(nodes) == 0 {
				return fmt.Errorf("%w: %s", errNodeNotFound, strings.Join(args, " "))
			}

			for i, node := range nodes {
				data, err := node.Data()
				if err != nil {
					return err
				}

				if i > 0 {
					fmt.Fprintln(a.streams.Out, "---")
				}

				if err := inventory.EncodeValue(a.streams.Out, data); err != nil {
					return err
				}
			}

			return nil
		},
	}
}

func newCreateCommand(a *app) *cobra.Command {
	var assetType string

	cmd := &cobra.Command{
		Use:   "create NODES...",
		Short: "Create records for nodes that do not have one",
		Long: `Create records for nodes that do not have one.

Without --type the asset type is asked for once and used for every new record.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			res, err := a.expander().Expand(args, inventory.ExpandOptions{ReturnMissing: true, Type: assetType})
			if err != nil {
				return err
			}

			created := make(map[string]bool, len(res.Created))
			for _, name := range res.Created {
				created[name] = true
				fmt.Fprintf(a.streams.Out, "Created %s\n", name)
			}

			for _, node := range res.Nodes {
				if !created[node.Name()] {
					fmt.Fprintf(a.streams.Out, "Exists %s\n", node.Name())
				}
			}

			a.recordFailures(res)

			if err := a.failed.ErrorOrNil(); err != nil {
				return fmt.Errorf("%w: %w", errPartialFailure, err)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&assetType, "type", "t", "", "asset type of the new records")

	return cmd
}

func parseAssignment(arg string) (string, string, error) {
	key, value, ok := strings.Cut(arg, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return "", "", fmt.Errorf("%w, got %q", errBadAssignment, arg)
	}

	return strings.TrimSpace(key), value, nil
}

func newModifyCommand(a *app) *cobra.Command {
	var sel selection

	cmd := &cobra.Command{
		Use:   "modify FIELD=VALUE [NODES...]",
		Short: "Set or remove a mutable field",
		Long: `Set a mutable field on the selected nodes.

An empty value removes the field, e.g. 'inventory modify rack= node01'.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			key, value, err := parseAssignment(args[0])
			if err != nil {
				return err
			}

			sel.names = args[1:]

			nodes, err := a.resolve(sel)
			if err != nil {
				return err
			}

			return a.eachNode(nodes, func(node *inventory.Node) error {
				if value == "" {
					if _, err := node.DeleteField(key); err != nil {
						return err
					}
				} else if err := node.SetField(key, value); err != nil {
					return err
				}

				return node.Save()
			})
		},
	}

	addSelectionFlags(cmd, &sel)

	return cmd
}

func newModifyGroupsCommand(a *app) *cobra.Command {
	var (
		sel     selection
		changes groupChanges
	)

	cmd := &cobra.Command{
		Use:   "modify-groups [NODES...]",
		Short: "Change the primary and secondary groups of nodes",
		RunE: func(_ *cobra.Command, args []string) error {
			if changes.primary == "" && len(changes.add) == 0 && len(changes.remove) == 0 {
				return errNoGroupChanges
			}

			sel.names = args

			nodes, err := a.resolve(sel)
			if err != nil {
				return err
			}

			return a.eachNode(nodes, func(node *inventory.Node) error {
				if err := applyGroupChanges(node, changes); err != nil {
					return err
				}

				return node.Save()
			})
		},
	}

	addSelectionFlags(cmd, &sel)
	cmd.Flags().StringVarP(&changes.primary, "primary", "p", "", "set the primary group")
	cmd.Flags().StringSliceVarP(&changes.add, "add", "a", nil, "add secondary groups")
	cmd.Flags().StringSliceVarP(&changes.remove, "remove", "r", nil, "remove secondary groups")

	return cmd
}

func applyGroupChanges(node *inventory.Node, changes groupChanges) error {
	if changes.primary != "" {
		if err := node.SetPrimaryGroup(changes.primary); err != nil {
			return err
		}
	}

	if len(changes.add) == 0 && len(changes.remove) == 0 {
		return nil
	}

	current, err := node.SecondaryGroups()
	if err != nil {
		return err
	}

	removed := make(map[string]bool, len(changes.remove))
	for _, group := range changes.remove {
		removed[group] = true
	}

	groups := make([]string, 0, len(current)+len(changes.add))
	present := make(map[string]bool, len(current)+len(changes.add))

	for _, group := range append(current, changes.add...) {
		if removed[group] || present[group] {
			continue
		}

		present[group] = true
		groups = append(groups, group)
	}

	return node.SetSecondaryGroups(groups)
}

func newModifyLocationCommand(a *app) *cobra.Command {
	var (
		sel selection
		loc models.Location
	)

	cmd := &cobra.Command{
		Use:   "modify-location [NODES...]",
		Short: "Record where nodes physically sit",
		Long: `Record where nodes physically sit.

Only the location parts given as flags are changed.`,
		RunE: func(_ *cobra.Command, args []string) error {
			if loc == (models.Location{}) {
				return errNoLocation
			}

			sel.names = args

			nodes, err := a.resolve(sel)
			if err != nil {
				return err
			}

			return a.eachNode(nodes, func(node *inventory.Node) error {
				if err := node.SetLocation(loc); err != nil {
					return err
				}

				return node.Save()
			})
		},
	}

	addSelectionFlags(cmd, &sel)

	flags := cmd.Flags()
	flags.StringVar(&loc.Site, "site", "", "site name")
	flags.StringVar(&loc.Room, "room", "", "room name")
	flags.StringVar(&loc.Rack, "rack", "", "rack name")
	flags.StringVar(&loc.Unit, "unit", "", "starting rack unit")
	flags.StringVar(&loc.Chassis, "chassis", "", "chassis name")
	flags.StringVar(&loc.Slot, "slot", "", "chassis slot")

	return cmd
}

func newMoveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "move NODE DESTINATION",
		Short: "Rename a node's record or move it to another path",
		Long: `Rename a node's record or move it to another path.

A DESTINATION without a path separator is taken as the new node name.`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			node, err := a.store.Node(args[0])
			if err != nil {
				return err
			}

			if !a.store.Exists(node.Path()) {
				return fmt.Errorf("%w: %s", errNodeNotFound, args[0])
			}

			dest := args[1]
			if !strings.ContainsRune(dest, filepath.Separator) {
				if dest, err = a.store.ResolveLocation(dest); err != nil {
					return err
				}
			}

			if err := a.store.Move(node, dest); err != nil {
				return err
			}

			fmt.Fprintf(a.streams.Out, "Moved %s to %s\n", args[0], dest)

			return nil
		},
	}
}

func newMigrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [NODES...]",
		Short: "Upgrade records to the current schema",
		Long: `Upgrade records to the current schema.

Without arguments every record in the cluster is migrated. Records that cannot be
migrated are reported and must be edited or removed by hand.`,
		RunE: func(_ *cobra.Command, args []string) error {
			migrator := schema.NewMigrator(a.cfg, a.logger)

			var (
				results []schema.Result
				err     error
			)

			if len(args) == 0 {
				results, err = migrator.MigrateAll(a.store)
			} else {
				var res *inventory.Expansion

				res, err = a.expander().Expand(args, inventory.ExpandOptions{})
				if err != nil {
					return err
				}

				results, err = migrator.MigrateNodes(res.Nodes)
			}

			for _, r := range results {
				if r.Changed() {
					fmt.Fprintf(a.streams.Out, "%s: migrated schema %g -> %g\n", r.Name, r.From, r.To)
				} else {
					fmt.Fprintf(a.streams.Out, "%s: up to date (schema %g)\n", r.Name, r.To)
				}
			}

			return err
		},
	}
}
