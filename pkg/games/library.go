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
	"errors"
	"fmt"
	"slices"

	"github.com/hackeros/hacker-launcher/pkg/helpers/syncutil"
)

var (
	ErrNotFound  = errors.New("game not found")
	ErrDuplicate = errors.New("game already exists")
)

// Library is the in-memory game list. It stays authoritative for the
// session even when saving it fails.
type Library struct {
	games []Game
	mu    syncutil.RWMutex
}

func NewLibrary(games []Game) *Library {
	return &Library{games: slices.Clone(games)}
}

func (l *Library) All() []Game {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.games)
}

func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.games)
}

func (l *Library) index(id string) int {
	return slices.IndexFunc(l.games, func(g Game) bool { return g.ID == id })
}

func (l *Library) Get(id string) (Game, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i := l.index(id); i >= 0 {
		return l.games[i], true
	}
	return Game{}, false
}

//nolint:gocritic // records are values in the library
func (l *Library) Add(g Game) error {
	if err := Validate(&g); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.index(g.ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicate, g.ID)
	}
	l.games = append(l.games, g)
	return nil
}

func (l *Library) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.index(id)
	if i < 0 {
		return false
	}
	l.games = slices.Delete(l.games, i, i+1)
	return true
}

// Configure sets the runtime and launch options of a game, the only
// fields the launcher itself edits.
func (l *Library) Configure(id, runtime, options string) (Game, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.index(id)
	if i < 0 {
		return Game{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	updated := l.games[i]
	updated.ProtonVersion = runtime
	updated.LaunchOptions = options
	if err := Validate(&updated); err != nil {
		return Game{}, err
	}
	l.games[i] = updated
	return updated, nil
}

// RecordPlay stamps the last-played marker and adds hours to the
// playtime. Negative durations are ignored so playtime never decreases.
func (l *Library) RecordPlay(id, when string, hours float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if when != "" {
		l.games[i].LastPlayed = when
	}
	if hours > 0 {
		l.games[i].Playtime += hours
	}
	return nil
}

// Merge adds imported records whose id is not in the library yet and
// refreshes the installed flag of those that are. Returns how many were
// added.
func (l *Library) Merge(imported []Game) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	added := 0
	for i := range imported {
		g := imported[i]
		if j := l.index(g.ID); j >= 0 {
			l.games[j].IsInstalled = g.IsInstalled
			continue
		}
		if err := Validate(&g); err != nil {
			continue
		}
		l.games = append(l.games, g)
		added++
	}
	return added
}
