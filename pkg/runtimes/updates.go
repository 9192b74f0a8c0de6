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

// Update reports that a family has a newer release than the newest one
// installed.
type Update struct {
	Latest    Entry
	Installed Entry
	Family    Family
}

// Updates walks each family newest first. When the newest release is not
// installed but an older one is, that pair is reported.
func Updates(entries []Entry) []Update {
	latest := make(map[Family]Entry)
	installed := make(map[Family]Entry)
	var order []Family

	for _, e := range entries {
		if _, seen := latest[e.Family]; !seen {
			latest[e.Family] = e
			order = append(order, e.Family)
			continue
		}
		if _, ok := installed[e.Family]; !ok && e.Status == StatusInstalled {
			installed[e.Family] = e
		}
	}

	var updates []Update
	for _, f := range order {
		newest := latest[f]
		old, ok := installed[f]
		if !ok || newest.Status == StatusInstalled {
			continue
		}
		updates = append(updates, Update{Family: f, Latest: newest, Installed: old})
	}
	return updates
}
