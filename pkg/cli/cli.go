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

// Package cli is the hacker-launcher command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hackeros/hacker-launcher/pkg/config"
	"github.com/hackeros/hacker-launcher/pkg/helpers"
	"github.com/hackeros/hacker-launcher/pkg/service"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// GlobalOptions are the flags shared by every command.
type GlobalOptions struct {
	ConfigDir string
	Debug     bool
	Verbose   bool
	JSON      bool
}

// Deps builds the config and service for a run. Tests swap them out.
type Deps struct {
	Setup      func(o *GlobalOptions) (*config.Instance, error)
	NewService func(cfg *config.Instance) (*service.Service, error)
}

func DefaultDeps() Deps {
	return Deps{
		Setup: func(o *GlobalOptions) (*config.Instance, error) {
			var writers []io.Writer
			if o.Verbose {
				writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr})
			}
			return Setup(o.ConfigDir, config.BaseDefaults, writers, o.Debug)
		},
		NewService: func(cfg *config.Instance) (*service.Service, error) {
			return service.New(service.Options{Config: cfg})
		},
	}
}

// Setup loads the config and starts file logging in its logs dir.
//
//nolint:gocritic // config struct copied for immutability
func Setup(configDir string, defaults config.Values, writers []io.Writer, debug bool) (*config.Instance, error) {
	if configDir == "" {
		configDir = config.DefaultConfigDir()
	}

	cfg, err := config.NewConfig(configDir, defaults)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	err = helpers.InitLogging(cfg.LogsDir(), writers)
	if err != nil {
		return nil, fmt.Errorf("error initializing logging: %w", err)
	}

	cfg.SetDebugLogging(debug || cfg.DebugLogging())
	return cfg, nil
}

// app carries the service from the root's pre-run into subcommands.
type app struct {
	deps Deps
	svc  *service.Service
	opts GlobalOptions
}

var errNoService = errors.New("service not initialized")

// commands that run without a config or service
var skipsSetup = map[string]bool{
	"version":                       true,
	"help":                          true,
	"completion":                    true,
	cobra.ShellCompRequestCmd:       true,
	cobra.ShellCompNoDescRequestCmd: true,
	"bash":                          true,
	"zsh":                           true,
	"fish":                          true,
	"powershell":                    true,
}

func (a *app) service() (*service.Service, error) {
	if a.svc == nil {
		return nil, errNoService
	}
	return a.svc, nil
}

//nolint:gocritic // deps copied on construction
func NewRootCommand(deps Deps) *cobra.Command {
	a := &app{deps: deps}

	root := &cobra.Command{
		Use:   "hacker-launcher",
		Short: "Run Windows games on Linux through Proton and Wine",
		Long: `hacker-launcher manages Proton and Wine runtime builds, keeps a library of
games and launches them with an isolated prefix per title.`,
		Version:       config.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if skipsSetup[cmd.Name()] {
				return nil
			}
			cfg, err := a.deps.Setup(&a.opts)
			if err != nil {
				return err
			}
			svc, err := a.deps.NewService(cfg)
			if err != nil {
				return fmt.Errorf("error starting launcher: %w", err)
			}
			a.svc = svc
			return nil
		},
	}

	root.PersistentFlags().SortFlags = false
	root.PersistentFlags().StringVar(&a.opts.ConfigDir, "config-dir", "", "directory holding config.toml")
	root.PersistentFlags().BoolVar(&a.opts.Debug, "debug", false, "enable debug logging")
	root.PersistentFlags().BoolVarP(&a.opts.Verbose, "verbose", "v", false, "also log to stderr")
	root.PersistentFlags().BoolVar(&a.opts.JSON, "json", false, "print results as JSON")

	root.AddCommand(
		runtimesCommand(a),
		gamesCommand(a),
		planCommand(a),
		launchCommand(a),
		statsCommand(a),
		themeCommand(a),
		versionCommand(),
	)
	return root
}
