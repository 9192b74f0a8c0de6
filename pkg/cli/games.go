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

	"github.com/hackeros/hacker-launcher/pkg/games"
	"github.com/spf13/cobra"
)

func gamesCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "games",
		Aliases: []string{"library"},
		Short:   "Manage the game library",
	}
	cmd.AddCommand(
		gamesListCommand(a),
		gamesAddCommand(a),
		gamesConfigCommand(a),
		gamesRemoveCommand(a),
		gamesImportCommand(a),
	)
	return cmd
}

func gamesListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List games in the library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			list := svc.Games()
			if a.opts.JSON {
				return printJSON(cmd.OutOrStdout(), list)
			}
			tw := newTable(cmd.OutOrStdout())
			_, _ = fmt.Fprintln(tw, "ID\tTITLE\tSOURCE\tRUNTIME\tLAST PLAYED\tHOURS")
			for i := range list {
				g := &list[i]
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.1f\n",
					g.ID, g.Title, g.Source, g.ProtonVersion, orDash(g.LastPlayed), g.Playtime)
			}
			return tw.Flush() //nolint:wrapcheck // terminal write
		},
	}
}

type gamesAddOptions struct {
	in games.ManualGame
}

func gamesAddCommand(a *app) *cobra.Command {
	o := &gamesAddOptions{}
	cmd := &cobra.Command{
		Use:   "add <executable>",
		Short: "Add a game by its executable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			o.in.ExecutablePath = args[0]
			g, err := svc.AddGame(o.in)
			if err != nil {
				return err //nolint:wrapcheck // service errors carry context
			}
			if a.opts.JSON {
				return printJSON(cmd.OutOrStdout(), g)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", g.Title, g.ID)
			return err //nolint:wrapcheck // terminal write
		},
	}
	cmd.Flags().StringVarP(&o.in.Title, "title", "t", "", "title, defaults to the executable name")
	cmd.Flags().StringVarP(&o.in.ProtonVersion, "runtime", "r", "", "runtime id or Native")
	cmd.Flags().StringVarP(&o.in.LaunchOptions, "options", "o", "", "launch options")
	cmd.Flags().StringVar(&o.in.CoverURL, "cover", "", "cover image URL")
	cmd.Flags().StringVar(&o.in.BackdropURL, "backdrop", "", "backdrop image URL")
	return cmd
}

type gamesConfigOptions struct {
	runtime string
	options string
}

func gamesConfigCommand(a *app) *cobra.Command {
	o := &gamesConfigOptions{}
	cmd := &cobra.Command{
		Use:   "config <id|title>",
		Short: "Change the runtime or launch options of a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			current, err := svc.FindGame(args[0])
			if err != nil {
				return err //nolint:wrapcheck // service errors carry context
			}
			runtime := current.ProtonVersion
			if cmd.Flags().Changed("runtime") {
				runtime = o.runtime
			}
			options := current.LaunchOptions
			if cmd.Flags().Changed("options") {
				options = o.options
			}

			g, err := svc.ConfigureGame(current.ID, runtime, options)
			if err != nil {
				return err //nolint:wrapcheck // service errors carry context
			}
			if a.opts.JSON {
				return printJSON(cmd.OutOrStdout(), g)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: runtime %s, options %q\n",
				g.Title, g.ProtonVersion, g.LaunchOptions)
			return err //nolint:wrapcheck // terminal write
		},
	}
	cmd.Flags().StringVarP(&o.runtime, "runtime", "r", "", "runtime id or Native")
	cmd.Flags().StringVarP(&o.options, "options", "o", "", "launch options, empty to clear")
	return cmd
}

func gamesRemoveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id|title>",
		Aliases: []string{"rm"},
		Short:   "Remove a game from the library",
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
			if err := svc.RemoveGame(g.ID); err != nil {
				return err //nolint:wrapcheck // service errors carry context
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s (%s)\n", g.Title, g.ID)
			return err //nolint:wrapcheck // terminal write
		},
	}
}

func gamesImportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Import installed games from Steam, Lutris and Heroic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			added := svc.ImportGames(cmd.Context())
			if a.opts.JSON {
				return printJSON(cmd.OutOrStdout(), map[string]int{"added": added})
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d new games\n", added)
			return err //nolint:wrapcheck // terminal write
		},
	}
}
