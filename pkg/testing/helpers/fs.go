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
	"path/filepath"

	"github.com/hackeros/hacker-launcher/pkg/config"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
)

// FSHelper builds launcher directory trees on any afero filesystem.
type FSHelper struct {
	Fs afero.Fs
}

func NewMemoryFS() *FSHelper {
	return &FSHelper{
		Fs: afero.NewMemMapFs(),
	}
}

func NewOSFS() *FSHelper {
	return &FSHelper{
		Fs: afero.NewOsFs(),
	}
}

// CreateConfigFile writes vals as config.toml at path.
//
//nolint:gocritic // config struct copied for encoding
func (h *FSHelper) CreateConfigFile(path string, vals config.Values) error {
	data, err := toml.Marshal(&vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config to TOML: %w", err)
	}

	if err := h.Fs.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create directory for config file: %w", err)
	}

	if err := afero.WriteFile(h.Fs, path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (h *FSHelper) CreateAuthFile(path string, authData []byte) error {
	if err := h.Fs.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create auth directory: %w", err)
	}

	if err := afero.WriteFile(h.Fs, path, authData, 0o600); err != nil {
		return fmt.Errorf("failed to write auth file: %w", err)
	}
	return nil
}

// InstallRuntime lays out a minimal unpacked runtime named id under root.
func (h *FSHelper) InstallRuntime(root, id string) error {
	return h.CreateDirectoryStructure(map[string]any{
		filepath.Join(root, id): map[string]any{
			"proton":  "#!/bin/sh\n",
			"version": id + "\n",
			"files": map[string]any{
				"bin": map[string]any{
					"wine": []byte{0x7f, 'E', 'L', 'F'},
				},
			},
		},
	})
}

// CreateDirectoryStructure creates files and directories from a nested
// map: string or []byte values are files, maps are directories and nil is
// an empty directory. Relative keys are created under the working
// directory.
func (h *FSHelper) CreateDirectoryStructure(structure map[string]any) error {
	return h.createStructureRecursive("", structure)
}

// CreateDirectoryStructureAt is CreateDirectoryStructure with relative keys
// joined onto base.
func (h *FSHelper) CreateDirectoryStructureAt(base string, structure map[string]any) error {
	return h.createStructureRecursive(base, structure)
}

func (h *FSHelper) createStructureRecursive(basePath string, structure map[string]any) error {
	for name, content := range structure {
		fullPath := filepath.Join(basePath, name)

		switch v := content.(type) {
		case string:
			if err := h.WriteFile(fullPath, []byte(v)); err != nil {
				return err
			}
		case []byte:
			if err := h.WriteFile(fullPath, v); err != nil {
				return err
			}
		case map[string]any:
			if err := h.Fs.MkdirAll(fullPath, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", fullPath, err)
			}
			if err := h.createStructureRecursive(fullPath, v); err != nil {
				return err
			}
		case nil:
			if err := h.Fs.MkdirAll(fullPath, 0o755); err != nil {
				return fmt.Errorf("failed to create empty directory %s: %w", fullPath, err)
			}
		}
	}
	return nil
}

func (h *FSHelper) FileExists(path string) bool {
	exists, err := afero.Exists(h.Fs, path)
	if err != nil {
		return false
	}
	return exists
}

func (h *FSHelper) DirExists(path string) bool {
	exists, err := afero.DirExists(h.Fs, path)
	return err == nil && exists
}

func (h *FSHelper) ReadFile(path string) ([]byte, error) {
	data, err := afero.ReadFile(h.Fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return data, nil
}

// WriteFile writes content, creating parent directories.
func (h *FSHelper) WriteFile(path string, content []byte) error {
	if err := h.Fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for file %s: %w", path, err)
	}
	if err := afero.WriteFile(h.Fs, path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}

func (h *FSHelper) ListFiles(path string) ([]string, error) {
	files, err := afero.ReadDir(h.Fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", path, err)
	}

	fileNames := make([]string, len(files))
	for i, file := range files {
		fileNames[i] = file.Name()
	}

	return fileNames, nil
}

// GetBasicTestStructure is a launcher home with one installed runtime, an
// empty prefix and a saved library. Keys are relative to the home.
func GetBasicTestStructure() map[string]any {
	return map[string]any{
		config.ConfigDir: map[string]any{
			config.GamesFile:    `[{"id":"manual-1","title":"Foo","coverUrl":"","backdropUrl":"","lastPlayed":"Never","protonVersion":"GE-Proton9-1","launchOptions":"","source":"manual","executablePath":"/games/Foo/Foo.exe","playtime":0,"isInstalled":true}]`,
			config.SettingsFile: `{"theme":"hacker"}`,
		},
		config.RuntimesDir: map[string]any{
			"GE-Proton9-1": map[string]any{
				"proton": "#!/bin/sh\n",
			},
		},
		config.PrefixesDir: map[string]any{
			"Foo": nil,
		},
		config.LogsDir: nil,
	}
}

// SetupMemoryFilesystem returns an in-memory launcher home rooted at /.
func SetupMemoryFilesystem() *FSHelper {
	helper := NewMemoryFS()
	if err := helper.CreateDirectoryStructureAt("/", GetBasicTestStructure()); err != nil {
		_ = helper.Fs.MkdirAll("/"+config.ConfigDir, 0o755)
		_ = helper.Fs.MkdirAll("/"+config.RuntimesDir, 0o755)
	}
	return helper
}
