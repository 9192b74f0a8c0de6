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
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hackeros/hacker-launcher/pkg/runtimes"
	"github.com/hackeros/hacker-launcher/pkg/testing/fixtures"
	"github.com/hackeros/hacker-launcher/pkg/testing/mocks"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	userRoot = "/home/me/.hackeros/Hacker-Launcher/Protons"
	sysRoot  = "/opt/hacker-launcher/protons"
	tmpDir   = "/tmp"
)

type fakeDownloader struct {
	err  error
	data []byte
	hook func()
}

func (d *fakeDownloader) Download(_ context.Context, _ string, w io.Writer) (int64, error) {
	if d.hook != nil {
		d.hook()
	}
	if d.err != nil {
		_, _ = w.Write([]byte("partial"))
		return 7, d.err
	}
	n, err := io.Copy(w, bytes.NewReader(d.data))
	return n, err
}

type recordingSink struct {
	events []string
	mu     sync.Mutex
}

func (s *recordingSink) SetPending(id string, st runtimes.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, "pending:"+id+":"+string(st))
}

func (s *recordingSink) Reconcile(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, "reconcile:"+id)
}

func newTestManager(fs afero.Fs, root string, dl Downloader, broker Broker, sink StatusSink) *Manager {
	return NewManager(Options{
		Fs:               fs,
		Downloader:       dl,
		Broker:           broker,
		Sink:             sink,
		Root:             root,
		TempDir:          tmpDir,
		ElevatedPrefixes: []string{"/usr", "/opt", "/var"},
	})
}

func tempFiles(t *testing.T, fs afero.Fs) []string {
	t.Helper()
	matches, err := afero.Glob(fs, filepath.Join(tmpDir, "hacker-launcher-*"))
	require.NoError(t, err)
	return matches
}

func TestInstall_Formats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		build func([]fixtures.TarEntry) []byte
		name  string
	}{
		{name: "tar.gz", build: fixtures.TarGz},
		{name: "tar.xz", build: fixtures.TarXz},
		{name: "tar.zst", build: fixtures.TarZst},
		{name: "plain tar", build: fixtures.Tar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := afero.NewMemMapFs()
			sink := &recordingSink{}
			dl := &fakeDownloader{data: tt.build(fixtures.RuntimeTree("GE-Proton9-1"))}
			m := newTestManager(fs, userRoot, dl, nil, sink)

			job, err := m.Install(context.Background(), "GE-Proton9-1", "https://example.com/GE-Proton9-1"+tt.name)
			require.NoError(t, err)
			assert.Equal(t, StateDone, job.State)
			assert.False(t, job.Elevated)
			assert.NotEmpty(t, job.ID)

			target := filepath.Join(userRoot, "GE-Proton9-1")
			info, err := fs.Stat(filepath.Join(target, "proton"))
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

			data, err := afero.ReadFile(fs, filepath.Join(target, "files", "bin", "wine"))
			require.NoError(t, err)
			assert.Equal(t, "ELF", string(data))

			assert.Empty(t, tempFiles(t, fs), "temp download is removed")
			assert.True(t, runtimes.NewDirProber(fs, userRoot).Installed("GE-Proton9-1"))
			assert.Equal(t, []string{
				"pending:GE-Proton9-1:installing",
				"reconcile:GE-Proton9-1",
			}, sink.events)
		})
	}
}

func TestInstall_NoDownloadSource(t *testing.T) {
	t.Parallel()

	m := newTestManager(afero.NewMemMapFs(), userRoot, &fakeDownloader{}, nil, nil)
	job, err := m.Install(context.Background(), "GE-Proton9-1", "")
	require.ErrorIs(t, err, ErrNoDownloadSource)
	assert.Equal(t, StateFailed, job.State)
}

func TestInstall_InvalidIdentifier(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	m := newTestManager(fs, userRoot, &fakeDownloader{data: fixtures.TarGz(fixtures.RuntimeTree("x"))}, nil, nil)
	_, err := m.Install(context.Background(), "../escape", "https://example.com/x.tar.gz")
	require.ErrorIs(t, err, runtimes.ErrInvalidIdentifier)

	exists, _ := afero.Exists(fs, "/home/me/.hackeros/Hacker-Launcher/escape")
	assert.False(t, exists)
}

func TestInstall_DownloadFailed(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	m := newTestManager(fs, userRoot, &fakeDownloader{err: errors.New("connection reset")}, nil, nil)

	job, err := m.Install(context.Background(), "GE-Proton9-1", "https://example.com/a.tar.gz")
	require.ErrorIs(t, err, ErrDownloadFailed)
	assert.Equal(t, StateFailed, job.State)
	assert.Empty(t, tempFiles(t, fs))
	assert.False(t, runtimes.NewDirProber(fs, userRoot).Installed("GE-Proton9-1"))
}

func TestInstall_CorruptArchiveLeavesNothing(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	data := fixtures.TarGz(fixtures.RuntimeTree("GE-Proton9-1"))
	m := newTestManager(fs, userRoot, &fakeDownloader{data: data[:len(data)/2]}, nil, nil)

	_, err := m.Install(context.Background(), "GE-Proton9-1", "https://example.com/a.tar.gz")
	require.ErrorIs(t, err, ErrExtractionFailed)
	assert.False(t, runtimes.NewDirProber(fs, userRoot).Installed("GE-Proton9-1"))
	assert.Empty(t, tempFiles(t, fs))
}

func TestInstall_RejectsTraversal(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	data := fixtures.TarGz([]fixtures.TarEntry{
		{Name: "GE-Proton9-1/"},
		{Name: "GE-Proton9-1/../../evil", Body: "x"},
	})
	m := newTestManager(fs, userRoot, &fakeDownloader{data: data}, nil, nil)

	_, err := m.Install(context.Background(), "GE-Proton9-1", "https://example.com/a.tar.gz")
	require.ErrorIs(t, err, ErrExtractionFailed)
	require.ErrorIs(t, err, ErrUnsafePath)

	exists, _ := afero.Exists(fs, filepath.Join(filepath.Dir(userRoot), "evil"))
	assert.False(t, exists)
}

func TestInstall_RejectsWriteThroughSymlink(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	outside := filepath.Join(dir, "outside")
	require.NoError(t, os.Mkdir(outside, 0o750))
	root := filepath.Join(dir, "Protons")

	data := fixtures.TarGz([]fixtures.TarEntry{
		{Name: "GE-Proton9-1/"},
		{Name: "GE-Proton9-1/esc", Type: '2', Linkname: outside},
		{Name: "GE-Proton9-1/esc/pwned", Body: "x"},
	})
	m := NewManager(Options{
		Fs:         afero.NewOsFs(),
		Downloader: &fakeDownloader{data: data},
		Root:       root,
		TempDir:    filepath.Join(dir, "tmp"),
	})

	_, err := m.Install(context.Background(), "GE-Proton9-1", "https://example.com/a.tar.gz")
	require.ErrorIs(t, err, ErrExtractionFailed)
	require.ErrorIs(t, err, ErrUnsafePath)
	assert.NoFileExists(t, filepath.Join(outside, "pwned"))
	assert.NoDirExists(t, filepath.Join(root, "GE-Proton9-1"))
}

func TestInstall_JobStartedAt(t *testing.T) {
	t.Parallel()

	started := time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC)
	fs := afero.NewMemMapFs()
	m := NewManager(Options{
		Fs:         fs,
		Clock:      clockwork.NewFakeClockAt(started),
		Downloader: &fakeDownloader{data: fixtures.TarGz(fixtures.RuntimeTree("GE-Proton9-1"))},
		Root:       userRoot,
		TempDir:    tmpDir,
	})

	job, err := m.Install(context.Background(), "GE-Proton9-1", "https://example.com/a.tar.gz")
	require.NoError(t, err)
	assert.Equal(t, started, job.StartedAt)
}

func TestInstall_Unwritable(t *testing.T) {
	t.Parallel()

	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	m := newTestManager(fs, userRoot, &fakeDownloader{}, nil, nil)

	_, err := m.Install(context.Background(), "GE-Proton9-1", "https://example.com/a.tar.gz")
	require.ErrorIs(t, err, ErrDirectoryUnwritable)
}

func TestInstall_Elevated(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	target := filepath.Join(sysRoot, "GE-Proton9-1")
	broker := &mocks.MockBroker{}
	broker.On("Run", mock.Anything, mock.MatchedBy(func(script string) bool {
		return strings.HasPrefix(script, "rm -rf "+target+" && mkdir -p "+target+" && ") &&
			strings.Contains(script, "--strip-components=1") &&
			strings.Contains(script, "rm -rf "+target)
	})).Return(nil).Once()

	m := newTestManager(fs, sysRoot, &fakeDownloader{data: []byte("archive")}, broker, nil)
	job, err := m.Install(context.Background(), "GE-Proton9-1", "https://example.com/a.tar.gz")
	require.NoError(t, err)
	assert.True(t, job.Elevated)
	assert.Equal(t, StateDone, job.State)
	assert.Empty(t, tempFiles(t, fs))
	broker.AssertExpectations(t)
}

func TestInstall_ElevationDenied(t *testing.T) {
	t.Parallel()

	broker := &mocks.MockBroker{}
	broker.On("Run", mock.Anything, mock.Anything).Return(ErrElevationDenied)

	fs := afero.NewMemMapFs()
	m := newTestManager(fs, sysRoot, &fakeDownloader{data: []byte("archive")}, broker, nil)
	job, err := m.Install(context.Background(), "GE-Proton9-1", "https://example.com/a.tar.gz")
	require.ErrorIs(t, err, ErrElevationDenied)
	assert.Equal(t, StateFailed, job.State)
	assert.Empty(t, tempFiles(t, fs))
}

func TestInstall_ElevatedTarFailure(t *testing.T) {
	t.Parallel()

	broker := &mocks.MockBroker{}
	broker.On("Run", mock.Anything, mock.Anything).Return(errors.New("tar: Unexpected EOF"))

	m := newTestManager(afero.NewMemMapFs(), sysRoot, &fakeDownloader{data: []byte("x")}, broker, nil)
	_, err := m.Install(context.Background(), "GE-Proton9-1", "https://example.com/a.tar.gz")
	require.ErrorIs(t, err, ErrExtractionFailed)
	require.NotErrorIs(t, err, ErrElevationDenied)
}

func TestInstall_ElevatedWithoutBroker(t *testing.T) {
	t.Parallel()

	m := newTestManager(afero.NewMemMapFs(), sysRoot, &fakeDownloader{}, nil, nil)
	_, err := m.Install(context.Background(), "GE-Proton9-1", "https://example.com/a.tar.gz")
	require.ErrorIs(t, err, ErrElevationDenied)
}

func TestInstall_SameIDSerializes(t *testing.T) {
	t.Parallel()

	var active, peak atomic.Int32
	dl := &fakeDownloader{
		data: fixtures.TarGz(fixtures.RuntimeTree("GE-Proton9-1")),
		hook: func() {
			n := active.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			active.Add(-1)
		},
	}
	fs := afero.NewMemMapFs()
	m := newTestManager(fs, userRoot, dl, nil, nil)

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = m.Install(context.Background(), "GE-Proton9-1", "https://example.com/a.tar.gz")
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), peak.Load())
	assert.True(t, runtimes.NewDirProber(fs, userRoot).Installed("GE-Proton9-1"))
}

func TestInstallArchive(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	archive := "/home/me/Downloads/GE-Proton9-1.tar.xz"
	require.NoError(t, afero.WriteFile(fs, archive, fixtures.TarXz(fixtures.RuntimeTree("GE-Proton9-1")), 0o600))

	m := newTestManager(fs, userRoot, nil, nil, nil)
	job, err := m.InstallArchive(context.Background(), "GE-Proton9-1", archive)
	require.NoError(t, err)
	assert.Equal(t, StateDone, job.State)
	kept, err := afero.Exists(fs, archive)
	require.NoError(t, err)
	assert.True(t, kept, "local archive is kept")
	assert.True(t, runtimes.NewDirProber(fs, userRoot).Installed("GE-Proton9-1"))
}

func TestInstallArchive_Missing(t *testing.T) {
	t.Parallel()

	m := newTestManager(afero.NewMemMapFs(), userRoot, nil, nil, nil)
	_, err := m.InstallArchive(context.Background(), "GE-Proton9-1", "/nope.tar.gz")
	require.ErrorIs(t, err, ErrNoDownloadSource)
}

func TestInstallFolder(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	src := "/home/me/builds/GE-Proton9-1"
	require.NoError(t, afero.WriteFile(fs, filepath.Join(src, "proton"), []byte("#!"), 0o755))
	require.NoError(t, afero.WriteFile(fs, filepath.Join(src, "files", "lib", "x.so"), []byte("so"), 0o644))

	m := newTestManager(fs, userRoot, nil, nil, nil)
	_, err := m.InstallFolder(context.Background(), "GE-Proton9-1", src)
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, filepath.Join(userRoot, "GE-Proton9-1", "files", "lib", "x.so"))
	require.NoError(t, err)
	assert.Equal(t, "so", string(data))
}

func TestInstallFolder_NotADirectory(t *testing.T) {
	t.Parallel()

	m := newTestManager(afero.NewMemMapFs(), userRoot, nil, nil, nil)
	_, err := m.InstallFolder(context.Background(), "GE-Proton9-1", "/missing")
	require.ErrorIs(t, err, ErrNoDownloadSource)
}

func TestRemove_Idempotent(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	sink := &recordingSink{}
	target := filepath.Join(userRoot, "GE-Proton9-1")
	require.NoError(t, afero.WriteFile(fs, filepath.Join(target, "proton"), []byte("x"), 0o755))

	m := newTestManager(fs, userRoot, nil, nil, sink)
	assert.True(t, m.Remove(context.Background(), "GE-Proton9-1"))
	exists, _ := afero.Exists(fs, target)
	assert.False(t, exists)

	assert.True(t, m.Remove(context.Background(), "GE-Proton9-1"), "removing an absent runtime succeeds")
	assert.Equal(t, "pending:GE-Proton9-1:available", sink.events[0])
}

func TestRemove_InvalidID(t *testing.T) {
	t.Parallel()

	m := newTestManager(afero.NewMemMapFs(), userRoot, nil, nil, nil)
	assert.False(t, m.Remove(context.Background(), ".."))
}

type denyRemoveFs struct {
	afero.Fs
}

func (d denyRemoveFs) RemoveAll(path string) error {
	return &os.PathError{Op: "unlinkat", Path: path, Err: os.ErrPermission}
}

func TestRemove_ElevatedRetry(t *testing.T) {
	t.Parallel()

	mem := afero.NewMemMapFs()
	target := filepath.Join(sysRoot, "GE-Proton9-1")
	require.NoError(t, mem.MkdirAll(target, 0o755))

	broker := &mocks.MockBroker{}
	broker.On("Run", mock.Anything, "rm -rf "+target).
		Run(func(mock.Arguments) { _ = mem.RemoveAll(target) }).
		Return(nil).Once()

	m := newTestManager(denyRemoveFs{mem}, sysRoot, nil, broker, nil)
	assert.True(t, m.Remove(context.Background(), "GE-Proton9-1"))
	broker.AssertExpectations(t)
}

func TestRemove_ElevatedRetryDenied(t *testing.T) {
	t.Parallel()

	mem := afero.NewMemMapFs()
	require.NoError(t, mem.MkdirAll(filepath.Join(sysRoot, "GE-Proton9-1"), 0o755))

	broker := &mocks.MockBroker{}
	broker.On("Run", mock.Anything, mock.Anything).Return(ErrElevationDenied)

	m := newTestManager(denyRemoveFs{mem}, sysRoot, nil, broker, nil)
	assert.False(t, m.Remove(context.Background(), "GE-Proton9-1"))
}

func TestRequiresElevation(t *testing.T) {
	t.Parallel()

	m := newTestManager(afero.NewMemMapFs(), userRoot, nil, nil, nil)
	tests := []struct {
		path string
		want bool
	}{
		{path: "/opt/protons", want: true},
		{path: "/usr/share/steam/compatibilitytools.d", want: true},
		{path: "/var/lib/launcher", want: true},
		{path: "/optional/protons", want: false},
		{path: "/home/me/.hackeros/Hacker-Launcher/Protons", want: false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, m.RequiresElevation(tt.path), tt.path)
	}
}

func TestNewManager_TempDirInsideRoot(t *testing.T) {
	t.Parallel()

	m := NewManager(Options{Fs: afero.NewMemMapFs(), Root: userRoot, TempDir: filepath.Join(userRoot, "tmp")})
	assert.Equal(t, os.TempDir(), m.tempDir)
}
