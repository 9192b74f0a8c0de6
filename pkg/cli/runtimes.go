// Hacker Launcher
// Copyright (c) 2026 The Hacker Launcher Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Hacker Launcher.
//
// Hacker Launcher is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Hacker Launcher is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Hacker Launcher.  If not, see <http://www.gnu.org/licenses/>.

package cli

import (
	"fmt"

	"github.com/hackeros/hacker-launcher/pkg/runtimes"
	"github.com/hackeros/hacker-launcher/pkg/runtimes/installer"
	"github.com/spf13/cobra"
)

func runtimesCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "runtimes",
		Aliases: []string{"protons"},
		Short:   "Manage Proton and Wine runtime builds",
	}
	cmd.AddCommand(
		runtimesListCommand(a),
		runtimesInstallCommand(a),
		runtimesInstallArchiveCommand(a),
		runtimesInstallFolderCommand(a),
		runtimesRemoveCommand(a),
		runtimesUpdatesCommand(a),
		runtimesWatchCommand(a),
	)
	return cmd
}

type runtimesListOptions struct {
	family    string
	installed bool
}

func runtimesListCommand(a *app) *cobra.Command {
	o := &runtimesListOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List runtime builds from every source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			family, ok := runtimes.ParseFamily(o.family)
			if !ok {
				return fmt.Errorf("unknown runtime family %q", o.family)
			}

			entries := svc.Runtimes(cmd.Context(), family)
			if o.installed {
				kept := entries[:0]
				for _, e := range entries {
					if e.Status == runtimes.StatusInstalled {
						kept = append(kept, e)
					}
				}
				entries = kept
			}

			if a.opts.JSON {
				return printJSON(cmd.OutOrStdout(), entries)
			}
			tw := newTable(cmd.OutOrStdout())
			_, _ = fmt.Fprintln(tw, "ID\tFAMILY\tSTATUS\tRELEASED")
			for _, e := range entries {
				released := "-"
				if !e.ReleasedAt.IsZero() {
					released = e.ReleasedAt.Format("2006-01-02")
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.ID, e.Family, e.Status, released)
			}
			return tw.Flush() //nolint:wrapcheck // terminal write
		},
	}
	cmd.Flags().StringVarP(&o.family, "family", "f", "", "official, ge-custom, cachyos, wine-ge or * for all")
	cmd.Flags().BoolVar(&o.installed, "installed", false, "only show installed builds")
	return cmd
}

func printJob(cmd *cobra.Command, a *app, job *installer.Job) error {
	if a.opts.JSON {
		return printJSON(cmd.OutOrStdout(), job)
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "Installed %s to %s\n", job.RuntimeID, job.TargetPath)
	return err //nolint:wrapcheck // terminal write
}

func runtimesInstallCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "install <id>",
		Short: "Download and install a runtime build from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Downloading %s...\n", args[0])
			job, err := svc.InstallRuntime(cmd.Context(), args[0])
			if err != nil {
				return err //nolint:wrapcheck // service errors carry context
			}
			return printJob(cmd, a, job)
		},
	}
}

func runtimesInstallArchiveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "install-archive <id> <archive>",
		Short: "Install a runtime build from a local tarball",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			job, err := svc.InstallRuntimeArchive(cmd.Context(), args[0], args[1])
			if err != nil {
				return err //nolint:wrapcheck // service errors carry context
			}
			return printJob(cmd, a, job)
		},
	}
}

func runtimesInstallFolderCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "install-folder <id> <dir>",
		Short: "Install an already unpacked runtime build",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			job, err := svc.InstallRuntimeFolder(cmd.Context(), args[0], args[1])
			if err != nil {
				return err //nolint:wrapcheck // service errors carry context
			}
			return printJob(cmd, a, job)
		},
	}
}

func runtimesRemoveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm", "uninstall"},
		Short:   "Remove an installed runtime build",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			if !svc.RemoveRuntime(cmd.Context(), args[0]) {
				return fmt.Errorf("could not remove %s", args[0])
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return err //nolint:wrapcheck // terminal write
		},
	}
}

func runtimesUpdatesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "updates",
		Short: "Show families with a newer build than the one installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			updates := svc.RuntimeUpdates(cmd.Context())
			if a.opts.JSON {
				return printJSON(cmd.OutOrStdout(), updates)
			}
			if len(updates) == 0 {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "All runtime families are up to date.")
				return err //nolint:wrapcheck // terminal write
			}
			for _, u := range updates {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s -> %s\n", u.Family, u.Installed.ID, u.Latest.ID)
			}
			return nil
		},
	}
}

func runtimesWatchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:    "watch",
		Short:  "Follow changes to the runtimes directory until interrupted",
		Args:   cobra.NoArgs,
		Hidden: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			svc.RefreshRuntimes(cmd.Context())
			return svc.WatchRuntimes(cmd.Context()) //nolint:wrapcheck // watcher errors carry context
		},
	}
}
