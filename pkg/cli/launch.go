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

	"github.com/alessio/shellescape"
	"github.com/spf13/cobra"
)

func planCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <id|title>",
		Short: "Show how a game would be launched without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			g, err := svc.FindGame(args[0])
			if err != nil {
				return err //nolint:wrapcheck // service errors carry context
			}
			plan, err := svc.Plan(g.ID)
			if err != nil {
				return err //nolint:wrapcheck // service errors carry context
			}

			if a.opts.JSON {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"title":   plan.Title,
					"argv":    plan.Argv(),
					"dir":     plan.Dir,
					"prefix":  plan.PrefixPath,
					"native":  plan.Native,
					"env":     plan.Env.Environ(),
					"command": plan.Command,
				})
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "title:   %s\n", plan.Title)
			_, _ = fmt.Fprintf(w, "command: %s\n", shellescape.QuoteCommand(plan.Argv()))
			_, _ = fmt.Fprintf(w, "workdir: %s\n", orDash(plan.Dir))
			if !plan.Native {
				_, _ = fmt.Fprintf(w, "prefix:  %s\n", plan.PrefixPath)
			}
			if a.opts.Verbose {
				_, _ = fmt.Fprintln(w, "env:")
				for _, kv := range plan.Env.Environ() {
					_, _ = fmt.Fprintf(w, "  %s\n", kv)
				}
			}
			return nil
		},
	}
}

func launchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "launch <id|title>",
		Aliases: []string{"play", "run"},
		Short:   "Launch a game in the background",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			g, err := svc.FindGame(args[0])
			if err != nil {
				return err //nolint:wrapcheck // service errors carry context
			}
			h, err := svc.Launch(g.ID)
			if err != nil {
				return err //nolint:wrapcheck // service errors carry context
			}
			if a.opts.JSON {
				return printJSON(cmd.OutOrStdout(), h)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Launched %s (pid %d), log: %s\n",
				g.Title, h.PID, h.LogPath)
			return err //nolint:wrapcheck // terminal write
		},
	}
}
