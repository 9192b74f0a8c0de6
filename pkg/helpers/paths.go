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
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// PathHasPrefix reports whether path is root or sits below it. Separator
// boundaries are respected, so "/optional" is not under "/opt".
func PathHasPrefix(path, root string) bool {
	p := filepath.ToSlash(filepath.Clean(path))
	r := filepath.ToSlash(filepath.Clean(root))

	if root == "" {
		return false
	}
	if p == r {
		return true
	}
	if !strings.HasSuffix(r, "/") {
		r += "/"
	}
	return strings.HasPrefix(p, r)
}

// EnsureDirectories creates each directory if missing. Failures are logged
// and skipped; callers that need a directory surface their own error when
// they try to use it. Returns the directories that could not be created.
func EnsureDirectories(fs afero.Fs, dirs ...string) []string {
	var failed []string
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := fs.MkdirAll(dir, 0o750); err != nil {
			log.Warn().Err(err).Msgf("could not create directory: %s", dir)
			failed = append(failed, dir)
		}
	}
	return failed
}
