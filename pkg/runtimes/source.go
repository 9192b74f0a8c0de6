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
	"time"

	"github.com/hackeros/hacker-launcher/pkg/config"
	"github.com/hackeros/hacker-launcher/pkg/shared/httpclient"
	"github.com/rs/zerolog/log"
)

// ErrRemoteFetch wraps any failure reading a remote feed. The registry
// logs it and treats the family as empty.
var ErrRemoteFetch = errors.New("remote fetch failed")

// Source is one remote release feed.
type Source interface {
	Family() Family
	Releases(ctx context.Context) ([]Release, error)
}

// GitHubSource reads a GitHub-style releases endpoint: a JSON array of
// releases, newest first.
type GitHubSource struct {
	client *httpclient.Client
	family Family
	url    string
}

func NewGitHubSource(client *httpclient.Client, family Family, url string) *GitHubSource {
	if client == nil {
		client = httpclient.NewClientWithTimeout(httpclient.DefaultTimeoutSeconds * time.Second)
	}
	return &GitHubSource{client: client, family: family, url: url}
}

func (s *GitHubSource) Family() Family {
	return s.family
}

func (s *GitHubSource) Releases(ctx context.Context) ([]Release, error) {
	var releases []Release
	if err := s.client.GetJSON(ctx, s.url, &releases); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRemoteFetch, s.family, err)
	}
	return releases, nil
}

// SourcesFromConfig builds a source per configured feed. Unknown families
// are skipped.
func SourcesFromConfig(client *httpclient.Client, feeds []config.RuntimeSource) []Source {
	sources := make([]Source, 0, len(feeds))
	for _, feed := range feeds {
		f, ok := ParseFamily(feed.Family)
		if !ok || f == FamilyAll || feed.URL == "" {
			log.Warn().Msgf("skipping runtime source with family %q", feed.Family)
			continue
		}
		sources = append(sources, NewGitHubSource(client, f, feed.URL))
	}
	return sources
}
