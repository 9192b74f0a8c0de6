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

// Package importers reads game libraries of other launchers installed on
// the host and turns them into library records. Every scanner is
// best-effort: missing or unreadable data yields no games, not an error.
package importers

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/hackeros/hacker-launcher/pkg/games"
)

// Paths locates the libraries to scan. Empty fields use the defaults.
type Paths struct {
	SteamDir       string
	LutrisDB       string
	LutrisGamesDir string
	HeroicStoreDir string
	DefaultRuntime string
}

// Flatpak app ids of the supported launchers.
const (
	flatpakSteamID  = "com.valvesoftware.Steam"
	flatpakLutrisID = "net.lutris.Lutris"
	flatpakHeroicID = "com.heroicgameslauncher.hgl"
)

func flatpakAppPath(appID string, elem ...string) string {
	return filepath.Join(append([]string{xdg.Home, ".var", "app", appID}, elem...)...)
}

// firstExisting returns the first path that exists, or the first path.
func firstExisting(paths ...string) string {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return paths[0]
}

// DefaultPaths prefers native installs and falls back to the Flatpak data
// dirs when only those exist.
func DefaultPaths() Paths {
	return Paths{
		SteamDir: firstExisting(
			filepath.Join(xdg.DataHome, "Steam"),
			flatpakAppPath(flatpakSteamID, ".local", "share", "Steam"),
		),
		LutrisDB: firstExisting(
			filepath.Join(xdg.DataHome, "lutris", "pga.db"),
			flatpakAppPath(flatpakLutrisID, "data", "lutris", "pga.db"),
		),
		LutrisGamesDir: firstExisting(
			filepath.Join(xdg.DataHome, "lutris", "games"),
			filepath.Join(xdg.ConfigHome, "lutris", "games"),
			flatpakAppPath(flatpakLutrisID, "data", "lutris", "games"),
		),
		HeroicStoreDir: firstExisting(
			filepath.Join(xdg.ConfigHome, "heroic", "store_cache"),
			flatpakAppPath(flatpakHeroicID, "config", "heroic", "store_cache"),
		),
	}
}

// runtimeFor picks Native for host binaries and the default runtime for
// Windows executables.
func runtimeFor(exe, defaultRuntime string) string {
	if exe != "" && !strings.EqualFold(filepath.Ext(exe), ".exe") {
		return games.NativeRuntime
	}
	if defaultRuntime == "" {
		return games.DefaultRuntime
	}
	return defaultRuntime
}

func newImported(id, title string, source games.Source) games.Game {
	return games.Game{
		ID:          id,
		Title:       title,
		Source:      source,
		LastPlayed:  games.NeverPlayed,
		IsInstalled: true,
	}
}

// ScanAll runs every scanner. Empty paths fall back to DefaultPaths.
//
//nolint:gocritic // small value type
func ScanAll(ctx context.Context, p Paths) []games.Game {
	def := DefaultPaths()
	if p.SteamDir == "" {
		p.SteamDir = def.SteamDir
	}
	if p.LutrisDB == "" {
		p.LutrisDB = def.LutrisDB
	}
	if p.LutrisGamesDir == "" {
		p.LutrisGamesDir = def.LutrisGamesDir
	}
	if p.HeroicStoreDir == "" {
		p.HeroicStoreDir = def.HeroicStoreDir
	}

	results := make([]games.Game, 0)
	results = append(results, ScanSteam(p.SteamDir, p.DefaultRuntime)...)
	results = append(results, ScanLutris(ctx, p.LutrisDB, p.LutrisGamesDir, p.DefaultRuntime)...)
	results = append(results, ScanHeroic(p.HeroicStoreDir, p.DefaultRuntime)...)
	return results
}
