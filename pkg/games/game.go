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

// Package games holds the launcher's game library: the records, their
// on-disk persistence and validation.
package games

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jonboulle/clockwork"
)

type Source string

const (
	SourceSteam  Source = "steam"
	SourceLutris Source = "lutris"
	SourceHeroic Source = "heroic"
	SourceManual Source = "manual"
)

const (
	// NativeRuntime runs the executable directly, without Proton or Wine.
	NativeRuntime  = "Native"
	NeverPlayed    = "Never"
	DefaultRuntime = "GE-Proton8-25"
	manualIDPrefix = "manual-"
	unknownTitle   = "Unknown Game"
)

// Game is one library entry. Field names match games.json.
type Game struct {
	ID             string  `json:"id" validate:"required"`
	Title          string  `json:"title" validate:"required"`
	CoverURL       string  `json:"coverUrl"`
	BackdropURL    string  `json:"backdropUrl"`
	LastPlayed     string  `json:"lastPlayed"`
	ProtonVersion  string  `json:"protonVersion" validate:"required,runtime"`
	LaunchOptions  string  `json:"launchOptions"`
	Source         Source  `json:"source" validate:"oneof=steam lutris heroic manual"`
	ExecutablePath string  `json:"executablePath,omitempty" validate:"required_if=Source manual"`
	Playtime       float64 `json:"playtime" validate:"gte=0"`
	IsInstalled    bool    `json:"isInstalled"`
}

func (g *Game) IsNative() bool {
	return g.ProtonVersion == NativeRuntime
}

// ManualGame is what a user supplies when adding a game by hand.
type ManualGame struct {
	Title          string
	CoverURL       string
	BackdropURL    string
	ProtonVersion  string
	LaunchOptions  string
	ExecutablePath string
}

// NewManualGame builds a record for a user-added executable. The id is
// derived from the clock in milliseconds.
//
//nolint:gocritic // input copied into the record
func NewManualGame(clock clockwork.Clock, in ManualGame, defaultRuntime string) (*Game, error) {
	g := &Game{
		ID:             fmt.Sprintf("%s%d", manualIDPrefix, clock.Now().UnixMilli()),
		Title:          strings.TrimSpace(in.Title),
		CoverURL:       in.CoverURL,
		BackdropURL:    in.BackdropURL,
		Playtime:       0,
		LastPlayed:     NeverPlayed,
		IsInstalled:    true,
		ProtonVersion:  in.ProtonVersion,
		LaunchOptions:  in.LaunchOptions,
		Source:         SourceManual,
		ExecutablePath: in.ExecutablePath,
	}
	if g.Title == "" {
		g.Title = strings.TrimSuffix(filepath.Base(in.ExecutablePath), filepath.Ext(in.ExecutablePath))
		if g.Title == "" || g.Title == "." {
			g.Title = unknownTitle
		}
	}
	if g.ProtonVersion == "" {
		g.ProtonVersion = defaultRuntime
	}
	if g.ProtonVersion == "" {
		g.ProtonVersion = DefaultRuntime
	}
	if err := Validate(g); err != nil {
		return nil, err
	}
	return g, nil
}
