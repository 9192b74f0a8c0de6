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

// Package launch turns a library record into a concrete invocation and
// starts it as a detached process.
package launch

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hackeros/hacker-launcher/pkg/config"
	"github.com/hackeros/hacker-launcher/pkg/games"
)

const (
	EnvPrefix       = "WINEPREFIX"
	EnvEsync        = "WINEESYNC"
	EnvFsync        = "WINEFSYNC"
	EnvDXVKAsync    = "DXVK_ASYNC"
	EnvCompatClient = "STEAM_COMPAT_CLIENT_INSTALL_PATH"
	EnvCompatData   = "STEAM_COMPAT_DATA_PATH"
	EnvSteamAppID   = "SteamAppId"
	EnvSteamGameID  = "SteamGameId"
	EnvCompatAppID  = "STEAM_COMPAT_APP_ID"

	WineCommand      = "wine"
	GamescopeCommand = "gamescope"
	ProtonBinary     = "proton"

	gamescopeFlag       = "--gamescope"
	fullscreenFlag      = "-f"
	wrapperSeparator    = "--"
	protonRunVerb       = "run"
	identityPlaceholder = "0"
	enabled             = "1"
)

var unsafeTitleChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// CompatEnvKeys are only set for games run through a runtime.
var CompatEnvKeys = []string{
	EnvCompatClient, EnvCompatData, EnvSteamAppID, EnvSteamGameID, EnvCompatAppID,
}

// PrefixName maps a title to its prefix directory name. Every character
// outside [A-Za-z0-9] becomes "_".
func PrefixName(title string) string {
	return unsafeTitleChars.ReplaceAllString(title, "_")
}

// Tokenize splits launch options on whitespace. Quoting is not supported:
// "-name \"My Save\"" yields three tokens.
func Tokenize(options string) []string {
	return strings.Fields(options)
}

// Layout holds the fixed roots a plan is built against.
type Layout struct {
	RuntimesRoot     string
	PrefixesRoot     string
	LogsRoot         string
	CompatClientPath string
}

func LayoutFromConfig(cfg *config.Instance) Layout {
	return Layout{
		RuntimesRoot:     cfg.RuntimesDir(),
		PrefixesRoot:     cfg.PrefixesDir(),
		LogsRoot:         cfg.LogsDir(),
		CompatClientPath: cfg.SteamCompatClientPath(),
	}
}

// RuntimePath is the proton script of an installed runtime.
func (l Layout) RuntimePath(id string) string {
	return filepath.Join(l.RuntimesRoot, id, ProtonBinary)
}

func (l Layout) PrefixPath(title string) string {
	return filepath.Join(l.PrefixesRoot, PrefixName(title))
}

func (l Layout) LogPath(title string) string {
	return filepath.Join(l.LogsRoot, PrefixName(title)+".log")
}

// Plan is a resolved invocation. It is derived on every launch and never
// stored.
type Plan struct {
	Env              Env
	Title            string
	Executable       string
	Dir              string
	PrefixPath       string
	CompatClientPath string
	Command          string
	Wrapper          []string
	Args             []string
	Native           bool
}

// Argv is the full command line: wrapper, executable, arguments.
func (p *Plan) Argv() []string {
	argv := make([]string, 0, len(p.Wrapper)+1+len(p.Args))
	argv = append(argv, p.Wrapper...)
	argv = append(argv, p.Executable)
	argv = append(argv, p.Args...)
	return argv
}

// Planner builds plans. It does no I/O.
type Planner struct {
	base   Env
	layout Layout
}

func NewPlanner(layout Layout, base Env) *Planner {
	return &Planner{layout: layout, base: base}
}

func (p *Planner) Layout() Layout {
	return p.layout
}

// UsesWine reports whether a runtime id names a Wine build rather than a
// Proton one.
func UsesWine(runtimeID string) bool {
	return strings.Contains(runtimeID, "Wine") || strings.Contains(runtimeID, "Lutris")
}

// Plan maps a game and its resolved runtime binary to an invocation.
// Missing inputs produce empty fields, never an error.
func (p *Planner) Plan(g *games.Game, runtimePath string) *Plan {
	prefix := p.layout.PrefixPath(g.Title)

	plan := &Plan{
		Title:      g.Title,
		PrefixPath: prefix,
		Native:     g.IsNative(),
	}
	if g.ExecutablePath != "" {
		plan.Dir = filepath.Dir(g.ExecutablePath)
	}

	overlay := map[string]string{
		EnvPrefix:    prefix,
		EnvEsync:     enabled,
		EnvFsync:     enabled,
		EnvDXVKAsync: enabled,
	}
	if !plan.Native {
		plan.CompatClientPath = p.layout.CompatClientPath
		overlay[EnvCompatClient] = p.layout.CompatClientPath
		overlay[EnvCompatData] = prefix
		overlay[EnvSteamAppID] = identityPlaceholder
		overlay[EnvSteamGameID] = identityPlaceholder
		overlay[EnvCompatAppID] = identityPlaceholder
	}

	base := p.base
	if plan.Native {
		// an inherited compat path would send the launcher's own Steam
		// session data to a native binary
		base = base.without(CompatEnvKeys...)
	}
	plan.Env = base.With(overlay)

	tokens := Tokenize(g.LaunchOptions)
	plan.Wrapper, tokens = gamescopeWrapper(tokens)

	switch {
	case plan.Native:
		plan.Executable = g.ExecutablePath
		plan.Args = tokens
	case !UsesWine(g.ProtonVersion):
		plan.Executable = runtimePath
		plan.Args = append([]string{protonRunVerb, g.ExecutablePath}, tokens...)
	default:
		plan.Executable = WineCommand
		plan.Args = append([]string{g.ExecutablePath}, tokens...)
	}
	if len(plan.Args) == 0 {
		plan.Args = []string{}
	}

	plan.Command = strings.Join(plan.Argv(), " ")
	return plan
}

// gamescopeWrapper pulls the compositor flags out of the tokens and returns
// the wrapper prefix, or nil when the wrapper was not requested.
func gamescopeWrapper(tokens []string) (wrapper, rest []string) {
	want := false
	for _, t := range tokens {
		if t == gamescopeFlag {
			want = true
			break
		}
	}
	if !want {
		return nil, tokens
	}

	fullscreen := false
	rest = make([]string, 0, len(tokens))
	for _, t := range tokens {
		switch t {
		case gamescopeFlag:
		case fullscreenFlag:
			fullscreen = true
		default:
			rest = append(rest, t)
		}
	}

	wrapper = []string{GamescopeCommand}
	if fullscreen {
		wrapper = append(wrapper, fullscreenFlag)
	}
	wrapper = append(wrapper, wrapperSeparator)
	return wrapper, rest
}
