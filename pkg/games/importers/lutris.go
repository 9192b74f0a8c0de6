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
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"

	"github.com/hackeros/hacker-launcher/pkg/games"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const lutrisQuery = `SELECT name, slug, runner, directory, playtime, configpath FROM games WHERE installed = 1`

const lutrisNativeRunner = "linux"

// lutrisGameConfig is the part of a Lutris per-game YAML file the
// importer reads.
type lutrisGameConfig struct {
	Game struct {
		Exe  string `yaml:"exe"`
		Args string `yaml:"args"`
	} `yaml:"game"`
}

// readLutrisConfig loads <configDir>/<configPath>.yml. A missing or broken
// file is nil.
func readLutrisConfig(configDir, configPath string) *lutrisGameConfig {
	if configDir == "" || configPath == "" || strings.ContainsAny(configPath, `/\`) {
		return nil
	}
	data, err := os.ReadFile(filepath.Join(configDir, configPath+".yml"))
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Msgf("failed to read Lutris config %s", configPath)
		}
		return nil
	}
	var cfg lutrisGameConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Warn().Err(err).Msgf("failed to parse Lutris config %s", configPath)
		return nil
	}
	return &cfg
}

// ScanLutris reads installed games from Lutris' pga.db. The executable
// and arguments come from the per-game YAML in configDir when present.
func ScanLutris(ctx context.Context, dbPath, configDir, defaultRuntime string) []games.Game {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		log.Debug().Msg("Lutris database not found")
		return make([]games.Game, 0)
	}

	db, err := sql.Open("sqlite3", "file:"+dbPath+"?mode=ro")
	if err != nil {
		log.Error().Err(err).Msg("failed to open Lutris database")
		return make([]games.Game, 0)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close Lutris database")
		}
	}()

	return scanLutrisDB(ctx, db, configDir, defaultRuntime)
}

func scanLutrisDB(ctx context.Context, db *sql.DB, configDir, defaultRuntime string) []games.Game {
	results := make([]games.Game, 0)

	rows, err := db.QueryContext(ctx, lutrisQuery)
	if err != nil {
		log.Error().Err(err).Msg("failed to query Lutris games")
		return results
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close Lutris query rows")
		}
	}()

	for rows.Next() {
		var (
			name, slug                    string
			runner, directory, configPath sql.NullString
			playtime                      sql.NullFloat64
		)
		if err := rows.Scan(&name, &slug, &runner, &directory, &playtime, &configPath); err != nil {
			log.Warn().Err(err).Msg("failed to scan Lutris game row")
			continue
		}
		if slug == "" {
			continue
		}

		g := newImported("lutris-"+slug, name, games.SourceLutris)
		if cfg := readLutrisConfig(configDir, configPath.String); cfg != nil {
			exe := cfg.Game.Exe
			if exe != "" && !filepath.IsAbs(exe) && directory.String != "" {
				exe = filepath.Join(directory.String, exe)
			}
			g.ExecutablePath = exe
			g.LaunchOptions = cfg.Game.Args
		}
		if runner.String == lutrisNativeRunner {
			g.ProtonVersion = games.NativeRuntime
		} else {
			// wine runners always need a compatibility layer, whatever the
			// executable looks like
			g.ProtonVersion = runtimeFor("", defaultRuntime)
		}
		if playtime.Valid && playtime.Float64 > 0 {
			g.Playtime = playtime.Float64
		}
		results = append(results, g)
	}

	if err := rows.Err(); err != nil {
		log.Error().Err(err).Msg("error iterating Lutris game rows")
	}

	log.Debug().Msgf("found %d Lutris games", len(results))
	return results
}
