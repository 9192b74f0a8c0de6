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
	"slices"

	"github.com/hackeros/hacker-launcher/pkg/helpers/syncutil"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Registry merges release feeds with what the prober finds on disk. The
// catalog is rebuilt from scratch on every refresh.
type Registry struct {
	prober       Prober
	pending      map[string]Status
	sources      []Source
	catalog      []Entry
	maxPerFamily int
	mu           syncutil.RWMutex
}

func NewRegistry(prober Prober, sources []Source, maxPerFamily int) *Registry {
	if maxPerFamily <= 0 {
		maxPerFamily = 20
	}
	return &Registry{
		prober:       prober,
		sources:      sources,
		maxPerFamily: maxPerFamily,
		pending:      make(map[string]Status),
	}
}

// Refresh queries every source concurrently and waits for all of them. A
// failing source contributes no entries and is logged. Statuses come
// straight from the prober.
func (r *Registry) Refresh(ctx context.Context) []Entry {
	results := make([][]Entry, len(r.sources))

	var g errgroup.Group
	for i, src := range r.sources {
		g.Go(func() error {
			releases, err := src.Releases(ctx)
			if err != nil {
				log.Error().Err(err).Msgf("failed to fetch %s runtimes", src.Family())
				return nil
			}
			results[i] = r.normalize(src.Family(), releases)
			log.Debug().Msgf("fetched %d %s runtimes", len(results[i]), src.Family())
			return nil
		})
	}
	_ = g.Wait()

	entries := slices.Concat(results...)
	if entries == nil {
		entries = []Entry{}
	}

	r.mu.Lock()
	r.catalog = slices.Clone(entries)
	r.mu.Unlock()

	return entries
}

func (r *Registry) normalize(family Family, releases []Release) []Entry {
	if len(releases) > r.maxPerFamily {
		releases = releases[:r.maxPerFamily]
	}

	entries := make([]Entry, 0, len(releases))
	for _, rel := range releases {
		if rel.TagName == "" {
			continue
		}
		url, ok := SelectAsset(rel.Assets)
		if !ok {
			log.Debug().Msgf("release %s has no archive asset", rel.TagName)
		}
		entries = append(entries, Entry{
			ID:          rel.TagName,
			Name:        rel.TagName,
			Family:      family,
			Status:      r.probe(rel.TagName),
			ReleasedAt:  rel.PublishedAt,
			Description: Summarize(rel.Body),
			DownloadURL: url,
		})
	}
	return entries
}

func (r *Registry) probe(id string) Status {
	if r.prober.Installed(id) {
		return StatusInstalled
	}
	return StatusAvailable
}

// Catalog returns the last refreshed catalog with in-flight install and
// remove statuses laid over it.
func (r *Registry) Catalog() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := slices.Clone(r.catalog)
	for i := range out {
		if st, ok := r.pending[out[i].ID]; ok {
			out[i].Status = st
		}
	}
	return out
}

func (r *Registry) FilterByFamily(f Family) []Entry {
	return FilterByFamily(r.Catalog(), f)
}

// Lookup finds an entry in the current catalog.
func (r *Registry) Lookup(id string) (Entry, bool) {
	for _, e := range r.Catalog() {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// SetPending marks an identifier with an optimistic status until Reconcile.
func (r *Registry) SetPending(id string, st Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending[id] = st
}

// Reconcile drops the optimistic status for id and re-reads it from disk.
func (r *Registry) Reconcile(id string) {
	st := r.probe(id)

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pending, id)
	for i := range r.catalog {
		if r.catalog[i].ID == id {
			r.catalog[i].Status = st
		}
	}
}

// Reprobe recomputes every cached status from disk without touching the
// network.
func (r *Registry) Reprobe() {
	r.mu.RLock()
	ids := make([]string, len(r.catalog))
	for i := range r.catalog {
		ids[i] = r.catalog[i].ID
	}
	r.mu.RUnlock()

	statuses := make(map[string]Status, len(ids))
	for _, id := range ids {
		statuses[id] = r.probe(id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.catalog {
		if st, ok := statuses[r.catalog[i].ID]; ok {
			r.catalog[i].Status = st
		}
	}
}
