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

package helpers

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/hackeros/hacker-launcher/pkg/config"
)

// NewTestConfig creates a config whose launcher home is baseDir. Only the
// given runtime sources are configured, so tests never reach the network,
// and no prefix requires elevation.
func NewTestConfig(baseDir string, sources ...config.RuntimeSource) (*config.Instance, error) {
	defaults := config.BaseDefaults
	defaults.Paths = config.Paths{
		Base:              baseDir,
		SteamCompatClient: filepath.Join(baseDir, "Steam"),
	}
	defaults.Runtimes.TempDir = filepath.Join(baseDir, "tmp")
	defaults.Runtimes.Sources = slices.Clone(sources)
	if defaults.Runtimes.Sources == nil {
		defaults.Runtimes.Sources = []config.RuntimeSource{}
	}
	// temp dirs live under /var on some systems
	defaults.Runtimes.ElevatedPrefixes = []string{}

	if err := os.MkdirAll(defaults.Runtimes.TempDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}

	cfg, err := config.NewConfig(filepath.Join(baseDir, config.ConfigDir), defaults)
	if err != nil {
		return nil, fmt.Errorf("failed to create test config: %w", err)
	}
	return cfg, nil
}
