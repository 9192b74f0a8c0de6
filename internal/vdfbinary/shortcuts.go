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

package vdfbinary

import (
	"errors"
	"io"
	"strconv"
	"strings"
)

// Shortcut is a non-Steam game added to the Steam library.
type Shortcut struct {
	AppName       string
	Exe           string
	StartDir      string
	LaunchOptions string
	AppID         uint32
	IsHidden      bool
}

// ParseShortcuts reads shortcuts.vdf. Icon, tags, IsHidden and launch
// options are optional since third-party tools often leave them out.
// Steam quotes Exe and StartDir; the quotes are stripped.
func ParseShortcuts(r io.Reader) ([]Shortcut, error) {
	root, err := Parse(r)
	if err != nil {
		return []Shortcut{}, err
	}

	list, ok := root["shortcuts"].(map[string]any)
	if !ok {
		return []Shortcut{}, errors.New("could not find 'shortcuts' in parsed vdf")
	}

	shortcuts := make([]Shortcut, 0, len(list))
	for i := range len(list) {
		s, ok := list[strconv.Itoa(i)].(map[string]any)
		if !ok {
			return []Shortcut{}, errors.New("vdf that should be an array does not have the corresponding index")
		}

		appID, ok := s["appid"].(uint32)
		if !ok {
			return []Shortcut{}, errors.New("could not get key 'appid' for one of the shortcuts")
		}
		appName, ok := s["appname"].(string)
		if !ok {
			return []Shortcut{}, errors.New("could not get key 'AppName' for one of the shortcuts")
		}
		exe, ok := s["exe"].(string)
		if !ok {
			return []Shortcut{}, errors.New("could not get key 'Exe' for one of the shortcuts")
		}
		startDir, _ := s["startdir"].(string)
		options, _ := s["launchoptions"].(string)
		hidden, _ := s["ishidden"].(uint32)

		shortcuts = append(shortcuts, Shortcut{
			AppID:         appID,
			AppName:       appName,
			Exe:           unquote(exe),
			StartDir:      unquote(startDir),
			LaunchOptions: options,
			IsHidden:      hidden != 0,
		})
	}

	return shortcuts, nil
}

func unquote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, "\"") && strings.HasSuffix(s, "\"") {
		return s[1 : len(s)-1]
	}
	return s
}
