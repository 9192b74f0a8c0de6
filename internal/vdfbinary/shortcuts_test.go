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

package vdfbinary_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/hackeros/hacker-launcher/internal/vdfbinary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type vdfWriter struct {
	bytes.Buffer
}

func (w *vdfWriter) open(key string) {
	w.WriteByte(0x00)
	w.WriteString(key)
	w.WriteByte(0x00)
}

func (w *vdfWriter) str(key, val string) {
	w.WriteByte(0x01)
	w.WriteString(key)
	w.WriteByte(0x00)
	w.WriteString(val)
	w.WriteByte(0x00)
}

func (w *vdfWriter) num(key string, val uint32) {
	w.WriteByte(0x02)
	w.WriteString(key)
	w.WriteByte(0x00)
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], val)
	w.Write(b[:])
}

func (w *vdfWriter) end() {
	w.WriteByte(0x08)
}

func shortcutsFile() []byte {
	var w vdfWriter
	w.open("shortcuts")

	w.open("0")
	w.num("appid", 3414143657)
	w.str("AppName", "Control")
	w.str("Exe", `"/games/Control/Control_DX12.exe"`)
	w.str("StartDir", `"/games/Control/"`)
	w.str("LaunchOptions", "-dx12")
	w.num("IsHidden", 1)
	w.open("tags")
	w.str("0", "favorite")
	w.end()
	w.end()

	// minimal entry written by third-party tools
	w.open("1")
	w.num("appid", 0x04030201)
	w.str("appname", "Test Game")
	w.str("exe", "/path/to/game")
	w.end()

	w.end()
	w.end()
	return w.Bytes()
}

func TestParseShortcuts(t *testing.T) {
	t.Parallel()

	shortcuts, err := vdfbinary.ParseShortcuts(bytes.NewReader(shortcutsFile()))
	require.NoError(t, err)
	require.Len(t, shortcuts, 2)

	assert.Equal(t, uint32(3414143657), shortcuts[0].AppID)
	assert.Equal(t, "Control", shortcuts[0].AppName)
	assert.Equal(t, "/games/Control/Control_DX12.exe", shortcuts[0].Exe)
	assert.Equal(t, "/games/Control/", shortcuts[0].StartDir)
	assert.Equal(t, "-dx12", shortcuts[0].LaunchOptions)
	assert.True(t, shortcuts[0].IsHidden)

	assert.Equal(t, uint32(0x04030201), shortcuts[1].AppID)
	assert.Equal(t, "/path/to/game", shortcuts[1].Exe)
	assert.Empty(t, shortcuts[1].StartDir)
	assert.False(t, shortcuts[1].IsHidden)
}

func TestParseShortcuts_EmptyFile(t *testing.T) {
	t.Parallel()

	_, err := vdfbinary.ParseShortcuts(bytes.NewReader(nil))
	assert.ErrorIs(t, err, vdfbinary.ErrEmptyVDF)
}

func TestParseShortcuts_TextVDF(t *testing.T) {
	t.Parallel()

	_, err := vdfbinary.ParseShortcuts(bytes.NewReader([]byte(`"shortcuts" { }`)))
	assert.ErrorIs(t, err, vdfbinary.ErrNotBinaryVDF)
}

func TestParseShortcuts_NoShortcutsKey(t *testing.T) {
	t.Parallel()

	data := []byte{0x00, 'o', 't', 'h', 'e', 'r', 0x00, 0x08, 0x08}
	_, err := vdfbinary.ParseShortcuts(bytes.NewReader(data))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shortcuts")
}

func TestParseShortcuts_Truncated(t *testing.T) {
	t.Parallel()

	data := shortcutsFile()
	_, err := vdfbinary.ParseShortcuts(bytes.NewReader(data[:len(data)/2]))
	assert.ErrorIs(t, err, vdfbinary.ErrCorruptedVDF)
}

func TestParseShortcuts_MissingIndex(t *testing.T) {
	t.Parallel()

	var w vdfWriter
	w.open("shortcuts")
	w.open("1")
	w.num("appid", 1)
	w.end()
	w.end()
	w.end()

	_, err := vdfbinary.ParseShortcuts(bytes.NewReader(w.Bytes()))
	require.Error(t, err)
}
