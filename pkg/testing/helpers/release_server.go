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

package helpers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"

	"github.com/hackeros/hacker-launcher/pkg/helpers/syncutil"
	"github.com/hackeros/hacker-launcher/pkg/testing/fixtures"
)

// MockReleaseServer serves GitHub-style release listings at
// /releases/<family> and runtime archives at /download/<tag>.tar.gz.
type MockReleaseServer struct {
	*httptest.Server
	tags      map[string][]string
	failing   map[string]bool
	downloads atomic.Int32
	mu        syncutil.Mutex
}

func NewMockReleaseServer() *MockReleaseServer {
	m := &MockReleaseServer{
		tags:    make(map[string][]string),
		failing: make(map[string]bool),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/releases/", m.handleReleases)
	mux.HandleFunc("/download/", m.handleDownload)
	m.Server = httptest.NewServer(mux)

	return m
}

// FeedURL is the releases endpoint to configure for a family.
func (m *MockReleaseServer) FeedURL(family string) string {
	return m.URL + "/releases/" + family
}

// WithReleases publishes tags for a family, newest first.
func (m *MockReleaseServer) WithReleases(family string, tags ...string) *MockReleaseServer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tags[family] = tags
	return m
}

// WithFailure makes a family's feed answer 500.
func (m *MockReleaseServer) WithFailure(family string) *MockReleaseServer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failing[family] = true
	return m
}

// Downloads counts archive requests served.
func (m *MockReleaseServer) Downloads() int {
	return int(m.downloads.Load())
}

func (m *MockReleaseServer) handleReleases(w http.ResponseWriter, r *http.Request) {
	family := strings.TrimPrefix(r.URL.Path, "/releases/")

	m.mu.Lock()
	tags, known := m.tags[family]
	failing := m.failing[family]
	m.mu.Unlock()

	switch {
	case failing:
		http.Error(w, "rate limited", http.StatusInternalServerError)
		return
	case !known:
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(fixtures.ReleasesJSON(m.URL+"/download", tags...))
}

func (m *MockReleaseServer) handleDownload(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/download/")
	tag, ok := strings.CutSuffix(name, ".tar.gz")
	if !ok {
		http.NotFound(w, r)
		return
	}
	m.downloads.Add(1)

	data := fixtures.TarGz(fixtures.RuntimeTree(tag))
	w.Header().Set("Content-Type", "application/gzip")
	_, _ = w.Write(data)
}
