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
	"archive/tar"
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// TarEntry describes one member of a test archive. Type defaults to a
// regular file, or a directory when Name ends in "/".
type TarEntry struct {
	Name     string
	Body     string
	Linkname string
	Mode     int64
	Type     byte
}

// RuntimeTree is the layout of a typical Proton release archive, wrapped in
// a single top-level directory named top.
func RuntimeTree(top string) []TarEntry {
	return []TarEntry{
		{Name: top + "/"},
		{Name: top + "/proton", Body: "#!/usr/bin/env python3\n", Mode: 0o755},
		{Name: top + "/version", Body: "1719000000 " + top + "\n"},
		{Name: top + "/files/"},
		{Name: top + "/files/bin/"},
		{Name: top + "/files/bin/wine", Body: "ELF", Mode: 0o755},
		{Name: top + "/files/bin/wine64", Type: tar.TypeSymlink, Linkname: "wine"},
	}
}

// Tar builds an uncompressed tar stream.
func Tar(entries []TarEntry) []byte {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, e := range entries {
		hdr := &tar.Header{
			Name:     e.Name,
			Mode:     e.Mode,
			Linkname: e.Linkname,
			Typeflag: e.Type,
			Size:     int64(len(e.Body)),
		}
		if hdr.Typeflag == 0 {
			hdr.Typeflag = tar.TypeReg
			if len(e.Name) > 0 && e.Name[len(e.Name)-1] == '/' {
				hdr.Typeflag = tar.TypeDir
			}
		}
		if hdr.Typeflag != tar.TypeReg {
			hdr.Size = 0
		}
		if hdr.Mode == 0 {
			hdr.Mode = 0o644
			if hdr.Typeflag == tar.TypeDir {
				hdr.Mode = 0o755
			}
		}
		if err := tw.WriteHeader(hdr); err != nil {
			panic(fmt.Sprintf("fixture tar header: %v", err))
		}
		if hdr.Size > 0 {
			if _, err := io.WriteString(tw, e.Body); err != nil {
				panic(fmt.Sprintf("fixture tar body: %v", err))
			}
		}
	}
	if err := tw.Close(); err != nil {
		panic(fmt.Sprintf("fixture tar close: %v", err))
	}
	return buf.Bytes()
}

func TarGz(entries []TarEntry) []byte {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	mustWrite(zw, Tar(entries))
	mustClose(zw)
	return buf.Bytes()
}

func TarXz(entries []TarEntry) []byte {
	var buf bytes.Buffer
	zw, err := xz.NewWriter(&buf)
	if err != nil {
		panic(fmt.Sprintf("fixture xz writer: %v", err))
	}
	mustWrite(zw, Tar(entries))
	mustClose(zw)
	return buf.Bytes()
}

func TarZst(entries []TarEntry) []byte {
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	if err != nil {
		panic(fmt.Sprintf("fixture zstd writer: %v", err))
	}
	mustWrite(zw, Tar(entries))
	mustClose(zw)
	return buf.Bytes()
}

func mustWrite(w io.Writer, data []byte) {
	if _, err := w.Write(data); err != nil {
		panic(fmt.Sprintf("fixture write: %v", err))
	}
}

func mustClose(c io.Closer) {
	if err := c.Close(); err != nil {
		panic(fmt.Sprintf("fixture close: %v", err))
	}
}
