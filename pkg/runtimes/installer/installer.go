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

// Package installer downloads, unpacks and removes runtime builds under
// the install root, asking for elevation when the root is system-owned.
package installer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hackeros/hacker-launcher/pkg/helpers"
	"github.com/hackeros/hacker-launcher/pkg/helpers/syncutil"
	"github.com/hackeros/hacker-launcher/pkg/runtimes"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Downloader streams a URL into w. httpclient.Client satisfies it.
type Downloader interface {
	Download(ctx context.Context, url string, w io.Writer) (int64, error)
}

// StatusSink receives optimistic statuses while a job runs.
// runtimes.Registry satisfies it.
type StatusSink interface {
	SetPending(id string, st runtimes.Status)
	Reconcile(id string)
}

type Options struct {
	Fs               afero.Fs
	Clock            clockwork.Clock
	Downloader       Downloader
	Broker           Broker
	Extractor        Extractor
	Sink             StatusSink
	Root             string
	TempDir          string
	ElevatedPrefixes []string
}

type Manager struct {
	fs         afero.Fs
	clock      clockwork.Clock
	downloader Downloader
	broker     Broker
	extractor  Extractor
	sink       StatusSink
	locks      *syncutil.KeyedMutex
	root       string
	tempDir    string
	elevated   []string
}

type nopSink struct{}

func (nopSink) SetPending(string, runtimes.Status) {}
func (nopSink) Reconcile(string)                   {}

//nolint:gocritic // options copied on construction
func NewManager(opts Options) *Manager {
	m := &Manager{
		fs:         opts.Fs,
		clock:      opts.Clock,
		downloader: opts.Downloader,
		broker:     opts.Broker,
		extractor:  opts.Extractor,
		sink:       opts.Sink,
		root:       filepath.Clean(opts.Root),
		tempDir:    opts.TempDir,
		elevated:   opts.ElevatedPrefixes,
		locks:      syncutil.NewKeyedMutex(),
	}
	if m.fs == nil {
		m.fs = afero.NewOsFs()
	}
	if m.clock == nil {
		m.clock = clockwork.NewRealClock()
	}
	if m.extractor == nil {
		m.extractor = TarExtractor{}
	}
	if m.sink == nil {
		m.sink = nopSink{}
	}
	if m.tempDir == "" || helpers.PathHasPrefix(m.tempDir, m.root) {
		if m.tempDir != "" {
			log.Warn().Msgf("temp dir %s is inside the runtime root, using %s", m.tempDir, os.TempDir())
		}
		m.tempDir = os.TempDir()
	}
	return m
}

func (m *Manager) Root() string {
	return m.root
}

// RequiresElevation reports whether path sits under a system-owned prefix.
func (m *Manager) RequiresElevation(path string) bool {
	for _, p := range m.elevated {
		if helpers.PathHasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Install downloads url and unpacks it as runtime id. Calls for the same id
// run one at a time.
func (m *Manager) Install(ctx context.Context, id, url string) (*Job, error) {
	job := m.newJob(id, url, filepath.Join(m.root, id))
	if url == "" {
		return job, job.fail(ErrNoDownloadSource)
	}
	if !runtimes.ValidID(id) {
		return job, job.fail(fmt.Errorf("%w: %q", runtimes.ErrInvalidIdentifier, id))
	}

	unlock := m.locks.Lock(id)
	defer unlock()
	m.sink.SetPending(id, runtimes.StatusInstalling)
	defer m.sink.Reconcile(id)

	job.Elevated = m.RequiresElevation(m.root)
	if err := m.prepareRoot(job.Elevated); err != nil {
		return job, job.fail(err)
	}

	job.setState(StateDownloading)
	tmp, err := m.download(ctx, id, url)
	if tmp != "" {
		job.TempPath = tmp
		defer m.removeTemp(tmp)
	}
	if err != nil {
		return job, job.fail(err)
	}

	job.setState(StateExtracting)
	if err := m.unpack(ctx, job.Elevated, tmp, job.TargetPath); err != nil {
		return job, job.fail(err)
	}

	job.setState(StateDone)
	log.Info().Msgf("installed runtime %s into %s", id, job.TargetPath)
	return job, nil
}

// InstallArchive unpacks a local archive as runtime id. The archive itself
// is left in place.
func (m *Manager) InstallArchive(ctx context.Context, id, archive string) (*Job, error) {
	job := m.newJob(id, "", filepath.Join(m.root, id))
	job.TempPath = archive
	if !runtimes.ValidID(id) {
		return job, job.fail(fmt.Errorf("%w: %q", runtimes.ErrInvalidIdentifier, id))
	}
	if _, err := m.fs.Stat(archive); err != nil {
		return job, job.fail(fmt.Errorf("%w: %w", ErrNoDownloadSource, err))
	}

	unlock := m.locks.Lock(id)
	defer unlock()
	m.sink.SetPending(id, runtimes.StatusInstalling)
	defer m.sink.Reconcile(id)

	job.Elevated = m.RequiresElevation(m.root)
	if err := m.prepareRoot(job.Elevated); err != nil {
		return job, job.fail(err)
	}

	job.setState(StateExtracting)
	if err := m.unpack(ctx, job.Elevated, archive, job.TargetPath); err != nil {
		return job, job.fail(err)
	}

	job.setState(StateDone)
	log.Info().Msgf("installed runtime %s from %s", id, archive)
	return job, nil
}

// InstallFolder copies an unpacked runtime directory into the root.
func (m *Manager) InstallFolder(ctx context.Context, id, src string) (*Job, error) {
	job := m.newJob(id, "", filepath.Join(m.root, id))
	if !runtimes.ValidID(id) {
		return job, job.fail(fmt.Errorf("%w: %q", runtimes.ErrInvalidIdentifier, id))
	}
	if ok, err := afero.DirExists(m.fs, src); err != nil || !ok {
		return job, job.fail(fmt.Errorf("%w: %s is not a directory", ErrNoDownloadSource, src))
	}

	unlock := m.locks.Lock(id)
	defer unlock()
	m.sink.SetPending(id, runtimes.StatusInstalling)
	defer m.sink.Reconcile(id)

	job.Elevated = m.RequiresElevation(m.root)
	if err := m.prepareRoot(job.Elevated); err != nil {
		return job, job.fail(err)
	}

	job.setState(StateExtracting)
	var err error
	if job.Elevated {
		err = m.broker.Run(ctx, copyScript(src, job.TargetPath))
		err = m.brokerErr(err)
	} else {
		err = m.copyTree(ctx, src, job.TargetPath)
	}
	if err != nil {
		return job, job.fail(err)
	}

	job.setState(StateDone)
	log.Info().Msgf("installed runtime %s from folder %s", id, src)
	return job, nil
}

// Remove deletes runtime id, retrying through the broker on a permission
// error. Success means the directory is gone, so removing a missing
// runtime succeeds.
func (m *Manager) Remove(ctx context.Context, id string) bool {
	if !runtimes.ValidID(id) {
		log.Error().Msgf("refusing to remove invalid runtime id %q", id)
		return false
	}

	unlock := m.locks.Lock(id)
	defer unlock()
	m.sink.SetPending(id, runtimes.StatusAvailable)
	defer m.sink.Reconcile(id)

	target := filepath.Join(m.root, id)
	err := m.fs.RemoveAll(target)
	if err != nil && errors.Is(err, os.ErrPermission) {
		log.Warn().Err(err).Msgf("direct removal of %s denied, retrying elevated", target)
		if m.broker == nil {
			return false
		}
		if berr := m.broker.Run(ctx, removeScript(target)); berr != nil {
			log.Error().Err(berr).Msgf("elevated removal of %s failed", target)
			return false
		}
	} else if err != nil {
		log.Error().Err(err).Msgf("failed to remove %s", target)
	}

	exists, statErr := afero.Exists(m.fs, target)
	if statErr != nil {
		log.Error().Err(statErr).Msgf("failed to check %s", target)
		return false
	}
	if !exists {
		log.Info().Msgf("removed runtime %s", id)
	}
	return !exists
}

// prepareRoot makes sure the root exists and can be written. Elevated
// installs create it from the broker script instead.
func (m *Manager) prepareRoot(elevated bool) error {
	if elevated {
		if m.broker == nil {
			return fmt.Errorf("%w: no elevation broker configured", ErrElevationDenied)
		}
		return nil
	}
	if err := m.fs.MkdirAll(m.root, 0o750); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDirectoryUnwritable, m.root, err)
	}
	return checkWritable(m.fs, m.root)
}

func probeWritable(fs afero.Fs, dir string) error {
	f, err := afero.TempFile(fs, dir, ".write-test-*")
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDirectoryUnwritable, dir, err)
	}
	name := f.Name()
	_ = f.Close()
	_ = fs.Remove(name)
	return nil
}

// download writes url to a fresh temp file and returns its path. The path
// is returned even on failure so the caller can clean it up.
func (m *Manager) download(ctx context.Context, id, url string) (string, error) {
	if m.downloader == nil {
		return "", fmt.Errorf("%w: no downloader configured", ErrDownloadFailed)
	}
	if err := m.fs.MkdirAll(m.tempDir, 0o750); err != nil {
		return "", fmt.Errorf("%w: creating temp dir: %w", ErrDownloadFailed, err)
	}
	f, err := afero.TempFile(m.fs, m.tempDir, "hacker-launcher-"+id+"-*.tar")
	if err != nil {
		return "", fmt.Errorf("%w: creating temp file: %w", ErrDownloadFailed, err)
	}
	name := f.Name()

	log.Info().Msgf("downloading %s to %s", url, name)
	n, err := m.downloader.Download(ctx, url, f)
	closeErr := f.Close()
	if err != nil {
		return name, fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}
	if closeErr != nil {
		return name, fmt.Errorf("%w: %w", ErrDownloadFailed, closeErr)
	}
	log.Debug().Msgf("downloaded %d bytes for %s", n, id)
	return name, nil
}

func (m *Manager) removeTemp(path string) {
	if err := m.fs.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msgf("failed to remove temp file %s", path)
	}
}

func (m *Manager) unpack(ctx context.Context, elevated bool, archive, target string) error {
	if elevated {
		return m.brokerErr(m.broker.Run(ctx, extractScript(archive, target)))
	}

	// a stale directory from an earlier attempt is replaced, not merged
	if err := m.fs.RemoveAll(target); err != nil {
		return fmt.Errorf("%w: clearing %s: %w", ErrExtractionFailed, target, err)
	}
	if err := m.extractor.Extract(ctx, m.fs, archive, target); err != nil {
		if rmErr := m.fs.RemoveAll(target); rmErr != nil {
			log.Warn().Err(rmErr).Msgf("failed to clean up %s", target)
		}
		return fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}
	return nil
}

func (*Manager) brokerErr(err error) error {
	if err == nil || errors.Is(err, ErrElevationDenied) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrExtractionFailed, err)
}

func (m *Manager) copyTree(ctx context.Context, src, dest string) error {
	if err := m.fs.RemoveAll(dest); err != nil {
		return fmt.Errorf("%w: clearing %s: %w", ErrExtractionFailed, dest, err)
	}
	err := afero.Walk(m.fs, src, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)
		if info.IsDir() {
			return m.fs.MkdirAll(target, info.Mode().Perm()|0o700)
		}
		if !info.Mode().IsRegular() {
			log.Debug().Msgf("skipping non-regular file %s", p)
			return nil
		}
		return copyFile(m.fs, p, target)
	})
	if err != nil {
		if rmErr := m.fs.RemoveAll(dest); rmErr != nil {
			log.Warn().Err(rmErr).Msgf("failed to clean up %s", dest)
		}
		return fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}
	return nil
}
