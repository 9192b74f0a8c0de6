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

package importers

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hackeros/hacker-launcher/pkg/games"
	"github.com/rs/zerolog/log"
)

type heroicInstall struct {
	Executable  string `json:"executable"`
	InstallPath string `json:"install_path"` //nolint:tagliatelle // Heroic's format
}

type heroicGameInfo struct {
	Install       heroicInstall `json:"install"`
	AppName       string        `json:"app_name"`       //nolint:tagliatelle // Heroic's format
	Title         string        `json:"title"`
	Runner        string        `json:"runner"`
	ArtCover      string        `json:"art_cover"`      //nolint:tagliatelle // Heroic's format
	ArtBackground string        `json:"art_background"` //nolint:tagliatelle // Heroic's format
	IsInstalled   bool          `json:"is_installed"`   //nolint:tagliatelle // Heroic's format
}

// ScanHeroic reads the Epic and GOG library caches Heroic keeps in its
// store_cache directory.
func ScanHeroic(storeCacheDir, defaultRuntime string) []games.Game {
	results := make([]games.Game, 0)

	if _, err := os.Stat(storeCacheDir); os.IsNotExist(err) {
		log.Debug().Msg("Heroic store_cache directory not found")
		return results
	}

	for _, lib := range []struct{ file, key string }{
		{file: "legendary_library.json", key: "library"},
		{file: "gog_library.json", key: "games"},
	} {
		found, err := scanHeroicLibraryFile(filepath.Join(storeCacheDir, lib.file), lib.key, defaultRuntime)
		if err != nil {
			log.Warn().Err(err).Msgf("failed to scan Heroic library %s", lib.file)
			continue
		}
		results = append(results, found...)
	}

	log.Debug().Msgf("found %d Heroic games", len(results))
	return results
}

func scanHeroicLibraryFile(filePath, jsonKey, defaultRuntime string) ([]games.Game, error) {
	results := make([]games.Game, 0)

	//nolint:gosec // path is built from a known directory
	data, err := os.ReadFile(filePath)
	if os.IsNotExist(err) {
		return results, nil
	}
	if err != nil {
		return results, fmt.Errorf("failed to read Heroic library file: %w", err)
	}

	var libraryData map[string][]heroicGameInfo
	if err := json.Unmarshal(data, &libraryData); err != nil {
		return results, fmt.Errorf("failed to parse Heroic library JSON: %w", err)
	}

	for _, game := range libraryData[jsonKey] {
		if !game.IsInstalled || game.AppName == "" {
			continue
		}

		g := newImported("heroic-"+game.AppName, game.Title, games.SourceHeroic)
		g.CoverURL = game.ArtCover
		g.BackdropURL = game.ArtBackground
		if game.Install.Executable != "" {
			exe := game.Install.Executable
			if !filepath.IsAbs(exe) && game.Install.InstallPath != "" {
				exe = filepath.Join(game.Install.InstallPath, exe)
			}
			g.ExecutablePath = exe
		}
		g.ProtonVersion = runtimeFor(g.ExecutablePath, defaultRuntime)
		if g.Title == "" {
			g.Title = game.AppName
		}
		results = append(results, g)
	}
	return results, nil
}
