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

package fixtures

import (
	"encoding/json"
	"fmt"
)

type releaseAsset struct {
	Name string `json:"name"`
	URL  string `json:"browser_download_url"`
}

type release struct {
	TagName     string         `json:"tag_name"`
	PublishedAt string         `json:"published_at"`
	Body        string         `json:"body"`
	Assets      []releaseAsset `json:"assets"`
}

// ReleasesJSON renders a GitHub releases listing, newest first, with one
// .tar.gz asset per tag served from baseURL.
func ReleasesJSON(baseURL string, tags ...string) []byte {
	out := make([]release, 0, len(tags))
	for i, tag := range tags {
		out = append(out, release{
			TagName:     tag,
			PublishedAt: fmt.Sprintf("2025-06-%02dT12:00:00Z", 28-i%28),
			Body:        "Changes in " + tag,
			Assets: []releaseAsset{
				{Name: tag + ".sha512sum", URL: baseURL + "/" + tag + ".sha512sum"},
				{Name: tag + ".tar.gz", URL: baseURL + "/" + tag + ".tar.gz"},
			},
		})
	}
	data, err := json.Marshal(out)
	if err != nil {
		panic(fmt.Sprintf("fixture releases: %v", err))
	}
	return data
}
