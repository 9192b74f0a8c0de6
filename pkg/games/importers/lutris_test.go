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

package importers

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/hackeros/hacker-launcher/pkg/games"
	testsqlmock "github.com/hackeros/hacker-launcher/pkg/testing/sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lutrisColumns = []string{"name", "slug", "runner", "directory", "playtime", "configpath"}

func lutrisDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pga.db")

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = db.Exec(`CREATE TABLE games (
		id INTEGER PRIMARY KEY,
		name TEXT,
		slug TEXT,
		runner TEXT,
		directory TEXT,
		installed INTEGER,
		playtime REAL,
		configpath TEXT
	)`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO games (name, slug, runner, directory, installed, playtime, configpath) VALUES
		('Hollow Knight', 'hollow-knight', 'linux', '/games/hk', 1, 12.5, 'hollow-knight-1700000000'),
		('Diablo II', 'diablo-ii', 'wine', '/games/d2', 1, NULL, 'diablo-ii-1700000001'),
		('Uninstalled', 'uninstalled', 'wine', NULL, 0, 3, NULL),
		('No Slug', '', 'wine', NULL, 1, 0, NULL)`)
	require.NoError(t, err)

	return path
}

func lutrisConfigs(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "games")
	writeFile(t, filepath.Join(dir, "hollow-knight-1700000000.yml"), `game:
  exe: /games/hk/hollow_knight.x86_64
system: {}
`)
	writeFile(t, filepath.Join(dir, "diablo-ii-1700000001.yml"), `game:
  exe: drive_c/Diablo II/Game.exe
  args: -w -3dfx
  prefix: /games/d2
wine:
  version: lutris-GE-Proton8-26-x86_64
`)
	return dir
}

func TestScanLutris(t *testing.T) {
	t.Parallel()

	found := ScanLutris(context.Background(), lutrisDB(t), lutrisConfigs(t), "GE-Proton9-1")
	require.Len(t, found, 2)

	byID := map[string]games.Game{found[0].ID: found[0], found[1].ID: found[1]}

	hk := byID["lutris-hollow-knight"]
	assert.Equal(t, "Hollow Knight", hk.Title)
	assert.Equal(t, games.SourceLutris, hk.Source)
	assert.Equal(t, games.NativeRuntime, hk.ProtonVersion)
	assert.Equal(t, "/games/hk/hollow_knight.x86_64", hk.ExecutablePath)
	assert.InDelta(t, 12.5, hk.Playtime, 0.001)

	d2 := byID["lutris-diablo-ii"]
	assert.Equal(t, "GE-Proton9-1", d2.ProtonVersion)
	assert.Equal(t, "/games/d2/drive_c/Diablo II/Game.exe", d2.ExecutablePath)
	assert.Equal(t, "-w -3dfx", d2.LaunchOptions)
	assert.Zero(t, d2.Playtime)
	assert.True(t, d2.IsInstalled)
}

func TestScanLutris_WithoutConfigs(t *testing.T) {
	t.Parallel()

	found := ScanLutris(context.Background(), lutrisDB(t), filepath.Join(t.TempDir(), "missing"), "")
	require.Len(t, found, 2)
	for _, g := range found {
		assert.Empty(t, g.ExecutablePath)
		assert.Empty(t, g.LaunchOptions)
	}
}

func TestScanLutris_MissingDatabase(t *testing.T) {
	t.Parallel()

	found := ScanLutris(context.Background(), filepath.Join(t.TempDir(), "pga.db"), "", "")
	assert.NotNil(t, found)
	assert.Empty(t, found)
}

func TestScanLutris_WrongSchema(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "pga.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec("CREATE TABLE other (x INTEGER)")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	assert.Empty(t, ScanLutris(context.Background(), path, "", ""))
}

func TestScanLutrisDB_QueryError(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`SELECT name, slug.*FROM games WHERE installed = 1`).
		WillReturnError(errors.New("database is locked"))

	found := scanLutrisDB(context.Background(), db, "", "")
	assert.NotNil(t, found)
	assert.Empty(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScanLutrisDB_SkipsBadRows(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	rows := sqlmock.NewRows(lutrisColumns).
		AddRow(nil, "broken", "wine", nil, nil, nil).
		AddRow("Celeste", "celeste", "linux", "/games/celeste", 3.0, nil)
	mock.ExpectQuery(`SELECT name, slug.*FROM games`).WillReturnRows(rows)

	found := scanLutrisDB(context.Background(), db, "", "")
	require.Len(t, found, 1)
	assert.Equal(t, "lutris-celeste", found[0].ID)
	assert.Equal(t, games.NativeRuntime, found[0].ProtonVersion)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScanLutrisDB_RowError(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	rows := sqlmock.NewRows(lutrisColumns).
		AddRow("Celeste", "celeste", "linux", nil, nil, nil).
		AddRow("Hades", "hades", "wine", nil, nil, nil).
		RowError(1, errors.New("disk I/O error"))
	mock.ExpectQuery(`SELECT name, slug.*FROM games`).WillReturnRows(rows)

	found := scanLutrisDB(context.Background(), db, "", "")
	require.Len(t, found, 1)
	assert.Equal(t, "lutris-celeste", found[0].ID)
}

func TestReadLutrisConfig(t *testing.T) {
	t.Parallel()
	dir := lutrisConfigs(t)
	writeFile(t, filepath.Join(dir, "broken.yml"), "game: [unterminated")

	tests := []struct {
		name       string
		configPath string
		wantExe    string
		wantNil    bool
	}{
		{name: "native", configPath: "hollow-knight-1700000000", wantExe: "/games/hk/hollow_knight.x86_64"},
		{name: "relative exe kept as written", configPath: "diablo-ii-1700000001", wantExe: "drive_c/Diablo II/Game.exe"},
		{name: "missing", configPath: "nope", wantNil: true},
		{name: "broken yaml", configPath: "broken", wantNil: true},
		{name: "empty", configPath: "", wantNil: true},
		{name: "path escape", configPath: "../games/hollow-knight-1700000000", wantNil: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := readLutrisConfig(dir, tt.configPath)
			if tt.wantNil {
				assert.Nil(t, cfg)
				return
			}
			require.NotNil(t, cfg)
			assert.Equal(t, tt.wantExe, cfg.Game.Exe)
		})
	}
}

func TestFirstExisting(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing")

	assert.Equal(t, dir, firstExisting(missing, dir))
	assert.Equal(t, missing, firstExisting(missing, filepath.Join(dir, "also-missing")))
}
