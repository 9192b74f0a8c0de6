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
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/andygrunwald/vdf"
	"github.com/hackeros/hacker-launcher/internal/vdfbinary"
	"github.com/hackeros/hacker-launcher/pkg/games"
	"github.com/rs/zerolog/log"
)

// Steam tools that show up as apps but are not games.
var steamToolPrefixes = []string{
	"proton ",
	"proton-",
	"steam linux runtime",
	"steamworks common redistributables",
}

// normalizeVDFKeys lowercases every key in a parsed VDF tree. Valve treats
// keys case-insensitively.
func normalizeVDFKeys(m map[string]any) map[string]any {
	result := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			v = normalizeVDFKeys(nested)
		}
		result[strings.ToLower(k)] = v
	}
	return result
}

func parseVDFFile(path string) (map[string]any, error) {
	//nolint:gosec // reads Steam's own config files
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msgf("error closing %s", path)
		}
	}()

	m, err := vdf.NewParser(f).Parse()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return normalizeVDFKeys(m), nil
}

// findSteamAppsDir checks the casings Steam has used for steamapps.
func findSteamAppsDir(steamDir string) string {
	for _, candidate := range []string{"steamapps", "SteamApps", "steam/steamapps"} {
		path := filepath.Join(steamDir, candidate)
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return path
		}
	}
	return filepath.Join(steamDir, "steamapps")
}

func isSteamTool(name string) bool {
	lower := strings.ToLower(name)
	for _, p := range steamToolPrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

// ScanSteam lists installed Steam apps from every library folder, plus
// non-Steam shortcuts, which carry an executable path.
func ScanSteam(steamDir, defaultRuntime string) []games.Game {
	results := make([]games.Game, 0)
	results = append(results, scanSteamApps(findSteamAppsDir(steamDir), defaultRuntime)...)
	results = append(results, scanSteamShortcuts(steamDir, defaultRuntime)...)
	log.Debug().Msgf("found %d Steam games", len(results))
	return results
}

func scanSteamApps(steamAppsDir, defaultRuntime string) []games.Game {
	results := make([]games.Game, 0)

	m, err := parseVDFFile(filepath.Join(steamAppsDir, "libraryfolders.vdf"))
	if err != nil {
		log.Debug().Err(err).Msg("no Steam library folders")
		return results
	}

	lfs, ok := m["libraryfolders"].(map[string]any)
	if !ok {
		log.Error().Msg("libraryfolders is not a map")
		return results
	}

	// library ids are "0", "1", ...; keep their order stable
	keys := make([]string, 0, len(lfs))
	for k := range lfs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	seen := make(map[string]bool)
	for _, k := range keys {
		ls, ok := lfs[k].(map[string]any)
		if !ok {
			continue
		}
		libraryPath, ok := ls["path"].(string)
		if !ok {
			log.Error().Msgf("library %s path is not a string", k)
			continue
		}

		appsDir := filepath.Join(libraryPath, "steamapps")
		manifests, err := filepath.Glob(filepath.Join(appsDir, "appmanifest_*.acf"))
		if err != nil || len(manifests) == 0 {
			log.Debug().Msgf("no app manifests in %s", appsDir)
			continue
		}

		for _, mf := range manifests {
			am, err := parseVDFFile(mf)
			if err != nil {
				log.Warn().Err(err).Msg("skipping Steam manifest")
				continue
			}
			appState, ok := am["appstate"].(map[string]any)
			if !ok {
				continue
			}
			appID, _ := appState["appid"].(string)
			name, _ := appState["name"].(string)
			if appID == "" || name == "" || seen[appID] || isSteamTool(name) {
				continue
			}
			seen[appID] = true

			g := newImported("steam-"+appID, name, games.SourceSteam)
			g.ProtonVersion = runtimeFor("", defaultRuntime)
			results = append(results, g)
		}
	}
	return results
}

func scanSteamShortcuts(steamDir, defaultRuntime string) []games.Game {
	results := make([]games.Game, 0)

	files, err := filepath.Glob(filepath.Join(steamDir, "userdata", "*", "config", "shortcuts.vdf"))
	if err != nil || len(files) == 0 {
		log.Debug().Msg("no Steam shortcuts found")
		return results
	}

	for _, path := range files {
		//nolint:gosec // reads Steam's own config files
		data, err := os.ReadFile(path)
		if err != nil {
			log.Error().Err(err).Msgf("error reading %s", path)
			continue
		}
		shortcuts, err := vdfbinary.ParseShortcuts(bytes.NewReader(data))
		if err != nil {
			log.Error().Err(err).Msgf("error parsing %s", path)
			continue
		}
		for _, s := range shortcuts {
			if s.AppName == "" || s.Exe == "" {
				continue
			}
			g := newImported(fmt.Sprintf("steam-shortcut-%d", s.AppID), s.AppName, games.SourceSteam)
			g.ExecutablePath = s.Exe
			g.LaunchOptions = s.LaunchOptions
			g.ProtonVersion = runtimeFor(s.Exe, defaultRuntime)
			results = append(results, g)
		}
	}
	return results
}
