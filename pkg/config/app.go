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

package config

var AppVersion = "DEVELOPMENT"

const (
	AppName      = "Hacker-Launcher"
	CfgFile      = "config.toml"
	AuthFile     = "auth.toml"
	LogFile      = "launcher.log"
	GamesFile    = "games.json"
	SettingsFile = "settings.json"

	// directory names under the base dir
	RuntimesDir = "Protons"
	PrefixesDir = "Prefixes"
	LogsDir     = "Logs"
	ConfigDir   = "Configs"
)
