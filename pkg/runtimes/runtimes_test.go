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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectAsset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		want   string
		assets []Asset
		found  bool
	}{
		{
			name:   "gz",
			assets: []Asset{{Name: "GE-Proton9-1.sha512sum", URL: "sum"}, {Name: "GE-Proton9-1.tar.gz", URL: "gz"}},
			want:   "gz",
			found:  true,
		},
		{
			name:   "extension priority beats asset order",
			assets: []Asset{{Name: "a.tar.zst", URL: "zst"}, {Name: "a.tar.xz", URL: "xz"}},
			want:   "xz",
			found:  true,
		},
		{
			name:   "zst only",
			assets: []Asset{{Name: "proton-cachyos.tar.zst", URL: "zst"}},
			want:   "zst",
			found:  true,
		},
		{
			name:   "no archive",
			assets: []Asset{{Name: "source.zip", URL: "zip"}},
			found:  false,
		},
		{
			name:  "no assets",
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := SelectAsset(tt.assets)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "No description", Summarize(""))
	assert.Equal(t, "Fixes...", Summarize("Fixes"))

	long := strings.Repeat("é", 150)
	got := Summarize(long)
	assert.Equal(t, strings.Repeat("é", 100)+"...", got)
}

func TestValidID(t *testing.T) {
	t.Parallel()

	for _, id := range []string{"GE-Proton9-1", "proton-cachyos-10.0-20250601", "wine-lutris-GE-8-26"} {
		assert.True(t, ValidID(id), id)
	}
	for _, id := range []string{"", ".", "..", "../etc", "a/b", "a\\b"} {
		assert.False(t, ValidID(id), id)
	}
}

func TestParseFamily(t *testing.T) {
	t.Parallel()

	f, ok := ParseFamily("GE-Custom")
	assert.True(t, ok)
	assert.Equal(t, FamilyGECustom, f)

	f, ok = ParseFamily("")
	assert.True(t, ok)
	assert.Equal(t, FamilyAll, f)

	_, ok = ParseFamily("steam")
	assert.False(t, ok)
}

func TestFilterByFamily(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		{ID: "GE-Proton9-2", Family: FamilyGECustom},
		{ID: "proton-9.0-4", Family: FamilyOfficial},
		{ID: "GE-Proton9-1", Family: FamilyGECustom},
	}

	ge := FilterByFamily(entries, FamilyGECustom)
	assert.Equal(t, []string{"GE-Proton9-2", "GE-Proton9-1"}, ids(ge))
	assert.Len(t, FilterByFamily(entries, FamilyAll), 3)
	assert.Empty(t, FilterByFamily(entries, FamilyWineGE))

	ge[0].ID = "changed"
	assert.Equal(t, "GE-Proton9-2", entries[0].ID)
}

func ids(entries []Entry) []string {
	out := make([]string, len(entries))
	for i := range entries {
		out[i] = entries[i].ID
	}
	return out
}
