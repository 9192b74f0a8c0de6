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

// Package vdfbinary parses Valve's binary VDF format, as used by Steam's
// shortcuts.vdf. Maps decode to map[string]any with lowercased keys, the
// same shape the text parser produces after key normalization.
package vdfbinary

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	markerMap         byte = 0x00
	markerString      byte = 0x01
	markerNumber      byte = 0x02
	markerEndOfMap    byte = 0x08
	markerEndOfString byte = 0x00
)

var (
	ErrEmptyVDF     = errors.New("the vdf you are trying to parse appears empty")
	ErrNotBinaryVDF = errors.New("the vdf appears not to be binary, are you sure it is not a text vdf?")
	ErrCorruptedVDF = errors.New("reached the end of the file earlier than expected, your file might be corrupted")
)

// Parse decodes a binary VDF stream. String values are string, numbers
// are uint32 and nested maps are map[string]any.
func Parse(r io.Reader) (map[string]any, error) {
	buf := bufio.NewReader(r)

	head, err := buf.Peek(1)
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyVDF
	}
	if err != nil {
		return nil, fmt.Errorf("peek error: %w", err)
	}

	switch head[0] {
	case markerMap, markerString, markerNumber, markerEndOfMap:
	default:
		return nil, ErrNotBinaryVDF
	}

	m, err := parseMap(buf)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, ErrCorruptedVDF
	}
	return m, err
}

func parseMap(buf *bufio.Reader) (map[string]any, error) {
	m := make(map[string]any)

	for {
		b, err := buf.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("read byte error: %w", err)
		}
		if b == markerEndOfMap {
			return m, nil
		}

		key, err := parseString(buf)
		if err != nil {
			return nil, err
		}

		var value any
		switch b {
		case markerMap:
			value, err = parseMap(buf)
		case markerNumber:
			value, err = parseNumber(buf)
		case markerString:
			value, err = parseString(buf)
		default:
			err = fmt.Errorf("unexpected byte: 0x%02x, your file might be corrupted", b)
		}
		if err != nil {
			return nil, err
		}

		m[strings.ToLower(key)] = value
	}
}

func parseNumber(buf *bufio.Reader) (uint32, error) {
	var bf [4]byte
	if _, err := io.ReadFull(buf, bf[:]); err != nil {
		return 0, fmt.Errorf("read number error: %w", err)
	}
	return binary.LittleEndian.Uint32(bf[:]), nil
}

func parseString(buf *bufio.Reader) (string, error) {
	s, err := buf.ReadString(markerEndOfString)
	if err != nil {
		return "", fmt.Errorf("read string error: %w", err)
	}
	return s[:len(s)-1], nil
}
