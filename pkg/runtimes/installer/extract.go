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

package installer

import (
	"archive/tar"
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/ulikunitz/xz"
)

var ErrUnsafePath = errors.New("archive entry escapes target directory")

// Extractor unpacks an archive into dest, dropping the archive's single
// top-level directory.
type Extractor interface {
	Extract(ctx context.Context, fs afero.Fs, archive, dest string) error
}

// TarExtractor handles tar streams compressed with gzip, xz or zstd, or not
// compressed at all. The compression is sniffed from the stream, not the
// file name.
type TarExtractor struct{}

var (
	magicGzip = []byte{0x1f, 0x8b}
	magicXz   = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

func decompress(r io.Reader) (io.Reader, func(), error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(magicXz))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("reading archive header: %w", err)
	}

	switch {
	case bytes.HasPrefix(head, magicGzip):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		return zr, func() { _ = zr.Close() }, nil
	case bytes.HasPrefix(head, magicXz):
		zr, err := xz.NewReader(br)
		if err != nil {
			return nil, nil, fmt.Errorf("opening xz stream: %w", err)
		}
		return zr, func() {}, nil
	case bytes.HasPrefix(head, magicZstd):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, nil, fmt.Errorf("opening zstd stream: %w", err)
		}
		return zr, zr.Close, nil
	default:
		return br, func() {}, nil
	}
}

// stripComponent drops the first element of an archive path. ok is false
// for the top-level directory itself.
func stripComponent(name string) (string, bool, error) {
	clean := path.Clean(strings.TrimPrefix(name, "./"))
	if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", false, fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	_, rest, found := strings.Cut(clean, "/")
	if !found || rest == "" {
		return "", false, nil
	}
	return rest, true, nil
}

func within(dest, rel string) (string, error) {
	target := filepath.Join(dest, filepath.FromSlash(rel))
	if target != dest && !strings.HasPrefix(target, dest+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, rel)
	}
	return target, nil
}

// checkParents rejects target when a directory between dest and target is
// a symlink, so no entry is written through a link an earlier entry made.
func checkParents(fs afero.Fs, dest, target string) error {
	lst, ok := fs.(afero.Lstater)
	if !ok {
		return nil
	}
	rel, err := filepath.Rel(dest, filepath.Dir(target))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnsafePath, target)
	}
	if rel == "." {
		return nil
	}

	cur := dest
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		cur = filepath.Join(cur, part)
		info, _, err := lst.LstatIfPossible(cur)
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("stat %s: %w", cur, err)
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("%w: %s passes through symlink %s", ErrUnsafePath, target, cur)
		}
	}
	return nil
}

func isSymlink(fs afero.Fs, name string) bool {
	lst, ok := fs.(afero.Lstater)
	if !ok {
		return false
	}
	info, _, err := lst.LstatIfPossible(name)
	return err == nil && info.Mode()&os.ModeSymlink != 0
}

func (TarExtractor) Extract(ctx context.Context, fs afero.Fs, archive, dest string) error {
	f, err := fs.Open(archive)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msgf("error closing archive: %s", archive)
		}
	}()

	r, closeStream, err := decompress(f)
	if err != nil {
		return err
	}
	defer closeStream()

	dest = filepath.Clean(dest)
	if err := fs.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}

	linker, canLink := fs.(afero.Linker)
	tr := tar.NewReader(r)
	entries := 0
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("extraction cancelled: %w", err)
		}

		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("reading archive: %w", err)
		}

		rel, ok, err := stripComponent(hdr.Name)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		target, err := within(dest, rel)
		if err != nil {
			return err
		}
		if err := checkParents(fs, dest, target); err != nil {
			return err
		}
		mode := hdr.FileInfo().Mode().Perm()

		switch hdr.Typeflag {
		case tar.TypeDir:
			if isSymlink(fs, target) {
				return fmt.Errorf("%w: %s is a symlink", ErrUnsafePath, rel)
			}
			if err := fs.MkdirAll(target, mode|0o700); err != nil {
				return fmt.Errorf("creating %s: %w", target, err)
			}
		case tar.TypeReg:
			// replace, never write through, a link left by an earlier entry
			if isSymlink(fs, target) {
				if err := fs.Remove(target); err != nil {
					return fmt.Errorf("removing %s: %w", target, err)
				}
			}
			if err := writeFile(fs, target, tr, mode); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if !canLink {
				log.Debug().Msgf("skipping symlink on this filesystem: %s", rel)
				continue
			}
			if err := fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("creating %s: %w", filepath.Dir(target), err)
			}
			_ = fs.Remove(target)
			if err := linker.SymlinkIfPossible(hdr.Linkname, target); err != nil {
				return fmt.Errorf("linking %s: %w", target, err)
			}
		case tar.TypeLink:
			srcRel, ok, err := stripComponent(hdr.Linkname)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: hard link to %s", ErrUnsafePath, hdr.Linkname)
			}
			src, err := within(dest, srcRel)
			if err != nil {
				return err
			}
			if err := checkParents(fs, dest, src); err != nil {
				return err
			}
			if isSymlink(fs, src) {
				return fmt.Errorf("%w: hard link to symlink %s", ErrUnsafePath, hdr.Linkname)
			}
			if isSymlink(fs, target) {
				if err := fs.Remove(target); err != nil {
					return fmt.Errorf("removing %s: %w", target, err)
				}
			}
			if err := copyFile(fs, src, target); err != nil {
				return err
			}
		default:
			log.Debug().Msgf("skipping archive entry %s of type %c", rel, hdr.Typeflag)
			continue
		}
		entries++
	}

	if entries == 0 {
		return errors.New("archive contained no files")
	}
	log.Debug().Msgf("extracted %d entries into %s", entries, dest)
	return nil
}

func writeFile(fs afero.Fs, target string, r io.Reader, mode os.FileMode) error {
	if err := fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(target), err)
	}
	out, err := fs.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return fmt.Errorf("creating %s: %w", target, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		_ = out.Close()
		return fmt.Errorf("writing %s: %w", target, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", target, err)
	}
	// OpenFile is subject to umask
	if err := fs.Chmod(target, mode); err != nil {
		return fmt.Errorf("setting mode on %s: %w", target, err)
	}
	return nil
}

func copyFile(fs afero.Fs, src, dst string) error {
	in, err := fs.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}
	return writeFile(fs, dst, in, info.Mode().Perm())
}
