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
	"errors"
	"fmt"
	"time"

	"github.com/hackeros/hacker-launcher/pkg/sysstats"
	"github.com/spf13/cobra"
)

type statsOptions struct {
	interval time.Duration
	watch    bool
}

func printStats(cmd *cobra.Command, a *app, s sysstats.Stats) error {
	if a.opts.JSON {
		return printJSON(cmd.OutOrStdout(), s)
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "CPU %3d%%  GPU %3d%%  RAM %3d%%  %d°C\n",
		s.CPULoad, s.GPULoad, s.RAMUsage, s.Temp)
	return err //nolint:wrapcheck // terminal write
}

func statsCommand(a *app) *cobra.Command {
	o := &statsOptions{}
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show CPU, GPU and memory load",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			if !o.watch {
				s, err := svc.Stats(cmd.Context())
				if err != nil {
					// partial readings are still worth showing
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", err)
				}
				return printStats(cmd, a, s)
			}
			if o.interval <= 0 {
				return errors.New("interval must be positive")
			}
			svc.WatchStats(cmd.Context(), o.interval, func(s sysstats.Stats) {
				_ = printStats(cmd, a, s)
			})
			return nil
		},
	}
	cmd.Flags().BoolVarP(&o.watch, "watch", "w", false, "keep printing until interrupted")
	cmd.Flags().DurationVarP(&o.interval, "interval", "i", 2*time.Second, "refresh interval with --watch")
	return cmd
}

func themeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "theme [name]",
		Short: "Show or set the UI theme stored in settings.json",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			settings := svc.Settings()
			if len(args) == 1 {
				settings = svc.SetTheme(args[0])
			}
			if a.opts.JSON {
				return printJSON(cmd.OutOrStdout(), settings)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), orDash(settings.Theme()))
			return err //nolint:wrapcheck // terminal write
		},
	}
}
