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

package games

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hackeros/hacker-launcher/pkg/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

var ErrPersistenceWriteFailed = errors.New("failed to persist launcher data")

const themeKey = "theme"

// Settings is the flat settings.json object.
type Settings map[string]any

func (s Settings) Theme() string {
	v, _ := s[themeKey].(string)
	return v
}

func (s Settings) SetTheme(theme string) {
	s[themeKey] = theme
}

// Store reads and writes games.json and settings.json in one directory.
// Reads never fail: a missing or broken file is an empty library.
type Store struct {
	fs  afero.Fs
	dir string
}

func NewStore(fs afero.Fs, dir string) *Store {
	return &Store{fs: fs, dir: dir}
}

func (s *Store) gamesPath() string {
	return filepath.Join(s.dir, config.GamesFile)
}

func (s *Store) settingsPath() string {
	return filepath.Join(s.dir, config.SettingsFile)
}

func (s *Store) Load() []Game {
	var games []Game
	if !s.read(s.gamesPath(), &games) {
		return []Game{}
	}
	for i := range games {
		if err := Validate(&games[i]); err != nil {
			log.Warn().Err(err).Msgf("game %q in %s is incomplete", games[i].ID, config.GamesFile)
		}
	}
	if games == nil {
		games = []Game{}
	}
	return games
}

func (s *Store) Save(games []Game) error {
	if games == nil {
		games = []Game{}
	}
	return s.write(s.gamesPath(), games)
}

func (s *Store) LoadSettings() Settings {
	settings := Settings{}
	if !s.read(s.settingsPath(), &settings) || settings == nil {
		return Settings{}
	}
	return settings
}

func (s *Store) SaveSettings(settings Settings) error {
	if settings == nil {
		settings = Settings{}
	}
	return s.write(s.settingsPath(), settings)
}

func (s *Store) read(path string, v any) bool {
	data, err := afero.ReadFile(s.fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return false
	}
	if err != nil {
		log.Error().Err(err).Msgf("failed to read %s", path)
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		log.Error().Err(err).Msgf("failed to parse %s", path)
		return false
	}
	return true
}

// write replaces path through a temp file so a failed write never
// truncates the existing data.
func (s *Store) write(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Error().Err(err).Msgf("failed to encode %s", path)
		return fmt.Errorf("%w: %w", ErrPersistenceWriteFailed, err)
	}

	if err := s.fs.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		log.Error().Err(err).Msgf("failed to create %s", filepath.Dir(path))
		return fmt.Errorf("%w: %w", ErrPersistenceWriteFailed, err)
	}

	tmp := path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o600); err != nil {
		log.Error().Err(err).Msgf("failed to write %s", path)
		return fmt.Errorf("%w: %w", ErrPersistenceWriteFailed, err)
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		_ = s.fs.Remove(tmp)
		log.Error().Err(err).Msgf("failed to replace %s", path)
		return fmt.Errorf("%w: %w", ErrPersistenceWriteFailed, err)
	}
	return nil
}
