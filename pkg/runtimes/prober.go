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

package runtimes

import (
	"path/filepath"

	"github.com/spf13/afero"
)

// Prober answers whether a runtime is installed.
type Prober interface {
	Installed(id string) bool
}

// DirProber treats a directory named after the identifier under Root as an
// installed runtime.
type DirProber struct {
	Fs   afero.Fs
	Root string
}

func NewDirProber(fs afero.Fs, root string) *DirProber {
	return &DirProber{Fs: fs, Root: root}
}

func (p *DirProber) Installed(id string) bool {
	if !ValidID(id) {
		return false
	}
	ok, err := afero.DirExists(p.Fs, filepath.Join(p.Root, id))
	return err == nil && ok
}

// Path returns where the runtime lives, installed or not.
func (p *DirProber) Path(id string) string {
	return filepath.Join(p.Root, id)
}
