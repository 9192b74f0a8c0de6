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
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hackeros/hacker-launcher/pkg/config"
	"github.com/hackeros/hacker-launcher/pkg/shared/httpclient"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const root = "/home/me/.hackeros/Hacker-Launcher/Protons"

type fakeSource struct {
	err      error
	family   Family
	releases []Release
	calls    atomic.Int32
}

func (f *fakeSource) Family() Family { return f.family }

func (f *fakeSource) Releases(_ context.Context) ([]Release, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.releases, nil
}

func release(tag string, assets ...string) Release {
	rel := Release{
		TagName:     tag,
		PublishedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Body:        "Release notes for " + tag,
	}
	for _, a := range assets {
		rel.Assets = append(rel.Assets, Asset{Name: a, URL: "https://example.com/" + a})
	}
	return rel
}

func newTestRegistry(fs afero.Fs, sources ...Source) *Registry {
	return NewRegistry(NewDirProber(fs, root), sources, 20)
}

func TestRefresh_InstallThenRefreshReportsInstalled(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(root, 0o750))

	ge := &fakeSource{family: FamilyGECustom, releases: []Release{release("GE-Proton9-1", "GE-Proton9-1.tar.gz")}}
	reg := newTestRegistry(fs, ge)

	entries := reg.Refresh(context.Background())
	require.Len(t, entries, 1)
	assert.Equal(t, "GE-Proton9-1", entries[0].ID)
	assert.Equal(t, StatusAvailable, entries[0].Status)
	assert.Equal(t, "https://example.com/GE-Proton9-1.tar.gz", entries[0].DownloadURL)

	// a finished install is just a directory on disk
	require.NoError(t, fs.MkdirAll(filepath.Join(root, "GE-Proton9-1", "files"), 0o750))

	entries = reg.Refresh(context.Background())
	require.Len(t, entries, 1)
	assert.Equal(t, StatusInstalled, entries[0].Status)
}

func TestRefresh_FailingSourceDegradesToEmpty(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	ge := &fakeSource{family: FamilyGECustom, releases: []Release{release("GE-Proton9-1", "a.tar.gz")}}
	official := &fakeSource{family: FamilyOfficial, err: errors.New("rate limited")}
	cachy := &fakeSource{family: FamilyCachyOS, releases: []Release{release("cachyos-10", "c.tar.zst")}}

	entries := newTestRegistry(fs, ge, official, cachy).Refresh(context.Background())

	assert.Equal(t, []string{"GE-Proton9-1", "cachyos-10"}, ids(entries))
	assert.Equal(t, int32(1), official.calls.Load())
}

func TestRefresh_AllFailingIsEmptyNotNil(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(afero.NewMemMapFs(), &fakeSource{family: FamilyWineGE, err: errors.New("down")})
	entries := reg.Refresh(context.Background())
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestRefresh_CapsPerFamilyAndKeepsOrder(t *testing.T) {
	t.Parallel()

	var releases []Release
	for i := 30; i > 0; i-- {
		releases = append(releases, release(fmt.Sprintf("GE-Proton9-%d", i), "x.tar.gz"))
	}
	ge := &fakeSource{family: FamilyGECustom, releases: releases}
	wine := &fakeSource{family: FamilyWineGE, releases: []Release{release("GE-Proton8-26-Wine", "w.tar.xz")}}

	entries := newTestRegistry(afero.NewMemMapFs(), ge, wine).Refresh(context.Background())

	require.Len(t, entries, 21)
	assert.Equal(t, "GE-Proton9-30", entries[0].ID)
	assert.Equal(t, "GE-Proton9-11", entries[19].ID)
	assert.Equal(t, FamilyWineGE, entries[20].Family)
}

func TestRefresh_EntryWithoutArchiveStillListed(t *testing.T) {
	t.Parallel()

	ge := &fakeSource{family: FamilyOfficial, releases: []Release{release("proton-9.0-4", "source.zip")}}
	entries := newTestRegistry(afero.NewMemMapFs(), ge).Refresh(context.Background())

	require.Len(t, entries, 1)
	assert.False(t, entries[0].Installable())
	assert.Equal(t, "Release notes for proton-9.0-4...", entries[0].Description)
}

func TestRefresh_FileIsNotAnInstall(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, filepath.Join(root, "GE-Proton9-1"), []byte("x"), 0o600))

	ge := &fakeSource{family: FamilyGECustom, releases: []Release{release("GE-Proton9-1", "a.tar.gz")}}
	entries := newTestRegistry(fs, ge).Refresh(context.Background())
	assert.Equal(t, StatusAvailable, entries[0].Status)
}

//nolint:paralleltest // goleak checks all goroutines
func TestRefresh_NoLeakedGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	sources := make([]Source, 0, len(Families))
	for _, f := range Families {
		sources = append(sources, &fakeSource{family: f, releases: []Release{release(string(f)+"-1", "a.tar.gz")}})
	}
	entries := newTestRegistry(afero.NewMemMapFs(), sources...).Refresh(context.Background())
	assert.Len(t, entries, 4)
}

func TestCatalog_PendingOverlayAndReconcile(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	ge := &fakeSource{family: FamilyGECustom, releases: []Release{
		release("GE-Proton9-2", "b.tar.gz"),
		release("GE-Proton9-1", "a.tar.gz"),
	}}
	reg := newTestRegistry(fs, ge)
	reg.Refresh(context.Background())

	reg.SetPending("GE-Proton9-2", StatusInstalling)
	e, ok := reg.Lookup("GE-Proton9-2")
	require.True(t, ok)
	assert.Equal(t, StatusInstalling, e.Status)

	// refresh output is always filesystem truth
	entries := reg.Refresh(context.Background())
	assert.Equal(t, StatusAvailable, entries[0].Status)

	require.NoError(t, fs.MkdirAll(filepath.Join(root, "GE-Proton9-2"), 0o750))
	reg.Reconcile("GE-Proton9-2")

	e, ok = reg.Lookup("GE-Proton9-2")
	require.True(t, ok)
	assert.Equal(t, StatusInstalled, e.Status)
	assert.Equal(t, int32(2), ge.calls.Load(), "reconcile does not hit the network")

	_, ok = reg.Lookup("GE-Proton1-0")
	assert.False(t, ok)
}

func TestReprobe(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	ge := &fakeSource{family: FamilyGECustom, releases: []Release{release("GE-Proton9-1", "a.tar.gz")}}
	reg := newTestRegistry(fs, ge)
	reg.Refresh(context.Background())

	require.NoError(t, fs.MkdirAll(filepath.Join(root, "GE-Proton9-1"), 0o750))
	reg.Reprobe()
	assert.Equal(t, StatusInstalled, reg.FilterByFamily(FamilyGECustom)[0].Status)

	require.NoError(t, fs.RemoveAll(filepath.Join(root, "GE-Proton9-1")))
	reg.Reprobe()
	assert.Equal(t, StatusAvailable, reg.FilterByFamily(FamilyAll)[0].Status)
	assert.Equal(t, int32(1), ge.calls.Load())
}

func TestDirProber_InvalidID(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(root, 0o750))
	p := NewDirProber(fs, root)

	assert.False(t, p.Installed(".."))
	assert.False(t, p.Installed(""))
	assert.Equal(t, filepath.Join(root, "x"), p.Path("x"))
}

func TestGitHubSource(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/GloriousEggroll/proton-ge-custom/releases", r.URL.Path)
		_, _ = w.Write([]byte(`[
  {
    "tag_name": "GE-Proton9-1",
    "published_at": "2024-05-01T10:00:00Z",
    "body": "Notes",
    "assets": [
      {"name": "GE-Proton9-1.sha512sum", "browser_download_url": "https://dl/sum"},
      {"name": "GE-Proton9-1.tar.gz", "browser_download_url": "https://dl/GE-Proton9-1.tar.gz"}
    ]
  }
]`))
	}))
	t.Cleanup(srv.Close)

	src := NewGitHubSource(httpclient.NewClient(), FamilyGECustom, srv.URL+"/repos/GloriousEggroll/proton-ge-custom/releases")
	entries := newTestRegistry(afero.NewMemMapFs(), src).Refresh(context.Background())

	require.Len(t, entries, 1)
	assert.Equal(t, "GE-Proton9-1", entries[0].ID)
	assert.Equal(t, "https://dl/GE-Proton9-1.tar.gz", entries[0].DownloadURL)
	assert.Equal(t, 2024, entries[0].ReleasedAt.Year())
	assert.Equal(t, "Notes...", entries[0].Description)
}

func TestGitHubSource_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	src := NewGitHubSource(nil, FamilyOfficial, srv.URL)
	_, err := src.Releases(context.Background())
	require.ErrorIs(t, err, httpclient.ErrStatus)
	require.ErrorIs(t, err, ErrRemoteFetch)
}

func TestSourcesFromConfig(t *testing.T) {
	t.Parallel()

	sources := SourcesFromConfig(nil, []config.RuntimeSource{
		{Family: "ge-custom", URL: "https://a"},
		{Family: "bogus", URL: "https://b"},
		{Family: "all", URL: "https://c"},
		{Family: "wine-ge", URL: ""},
		{Family: "cachyos", URL: "https://d"},
	})
	require.Len(t, sources, 2)
	assert.Equal(t, FamilyGECustom, sources[0].Family())
	assert.Equal(t, FamilyCachyOS, sources[1].Family())
}
