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
	"os"
	"path/filepath"
	"testing"

	"github.com/hackeros/hacker-launcher/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTestConfig(t *testing.T) {
	t.Parallel()

	baseDir := t.TempDir()
	cfg, err := NewTestConfig(baseDir, config.RuntimeSource{Family: "ge-custom", URL: "http://127.0.0.1/releases"})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(baseDir, config.RuntimesDir), cfg.RuntimesDir())
	assert.Equal(t, filepath.Join(baseDir, "tmp"), cfg.TempDir())
	require.Len(t, cfg.RuntimeSources(), 1)
	assert.Equal(t, "ge-custom", cfg.RuntimeSources()[0].Family)

	_, err = os.Stat(filepath.Join(baseDir, config.ConfigDir, config.CfgFile))
	assert.NoError(t, err, "config file should exist")
}

func TestNewTestConfig_NoSources(t *testing.T) {
	t.Parallel()

	cfg, err := NewTestConfig(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, cfg.RuntimeSources())
}

func TestSetupMemoryFilesystem(t *testing.T) {
	t.Parallel()

	h := SetupMemoryFilesystem()
	assert.True(t, h.FileExists("/"+config.ConfigDir+"/"+config.GamesFile))
	assert.True(t, h.DirExists("/"+config.RuntimesDir+"/GE-Proton9-1"))
	assert.True(t, h.DirExists("/"+config.LogsDir))

	require.NoError(t, h.InstallRuntime("/"+config.RuntimesDir, "Proton-9.0"))
	names, err := h.ListFiles("/" + config.RuntimesDir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"GE-Proton9-1", "Proton-9.0"}, names)
}
