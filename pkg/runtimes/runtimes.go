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

// Package runtimes keeps the catalog of Proton and Wine builds known to the
// launcher. Remote release feeds say what exists; the install root on disk
// says what is installed.
package runtimes

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

type Family string

const (
	FamilyOfficial Family = "official"
	FamilyGECustom Family = "ge-custom"
	FamilyCachyOS  Family = "cachyos"
	FamilyWineGE   Family = "wine-ge"
	FamilyAll      Family = "all"
)

const descriptionSize = 100

// Families lists the known families in catalog order.
var Families = []Family{FamilyGECustom, FamilyOfficial, FamilyCachyOS, FamilyWineGE}

func ParseFamily(s string) (Family, bool) {
	f := Family(strings.ToLower(strings.TrimSpace(s)))
	if f == "" || f == "*" {
		return FamilyAll, true
	}
	if f == FamilyAll {
		return f, true
	}
	for _, known := range Families {
		if f == known {
			return f, true
		}
	}
	return "", false
}

type Status string

const (
	StatusAvailable  Status = "available"
	StatusInstalled  Status = "installed"
	StatusInstalling Status = "installing"
)

// ArchiveExtensions is the allow-list of installable asset suffixes, in
// order of preference.
var ArchiveExtensions = []string{".tar.gz", ".tar.xz", ".tar.zst"}

var ErrInvalidIdentifier = errors.New("invalid runtime identifier")

// Entry is one runtime build in the catalog.
type Entry struct {
	ReleasedAt  time.Time `json:"releasedAt"`
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Family      Family    `json:"type"`
	Status      Status    `json:"status"`
	Description string    `json:"description"`
	DownloadURL string    `json:"downloadUrl,omitempty"`
}

// Installable reports whether the entry has an archive to download.
func (e *Entry) Installable() bool {
	return e.DownloadURL != ""
}

// Release is the subset of a GitHub release the catalog uses.
type Release struct {
	PublishedAt time.Time `json:"published_at"`
	TagName     string    `json:"tag_name"`
	Body        string    `json:"body"`
	Assets      []Asset   `json:"assets"`
}

type Asset struct {
	Name string `json:"name"`
	URL  string `json:"browser_download_url"`
}

// SelectAsset returns the download URL of the best archive asset. Every
// asset is tried against an extension before the next extension is tried.
func SelectAsset(assets []Asset) (string, bool) {
	for _, ext := range ArchiveExtensions {
		for _, a := range assets {
			if strings.HasSuffix(a.Name, ext) && a.URL != "" {
				return a.URL, true
			}
		}
	}
	return "", false
}

// Summarize shortens a release body for display.
func Summarize(body string) string {
	if body == "" {
		return "No description"
	}
	if utf8.RuneCountInString(body) > descriptionSize {
		body = string([]rune(body)[:descriptionSize])
	}
	return body + "..."
}

// ValidID reports whether id can safely name a directory in the install
// root: a single, non-empty path component.
func ValidID(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, "/\\\x00")
}

// FilterByFamily returns the entries of family f, or all entries for the
// wildcard. The result never aliases entries.
func FilterByFamily(entries []Entry, f Family) []Entry {
	out := make([]Entry, 0, len(entries))
	for i := range entries {
		if f == FamilyAll || entries[i].Family == f {
			out = append(out, entries[i])
		}
	}
	return out
}
