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

// Package service wires configuration, the runtime registry, the installer,
// the game library and the launcher into the operations the CLI exposes.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/hackeros/hacker-launcher/pkg/config"
	"github.com/hackeros/hacker-launcher/pkg/games"
	"github.com/hackeros/hacker-launcher/pkg/games/importers"
	"github.com/hackeros/hacker-launcher/pkg/helpers"
	"github.com/hackeros/hacker-launcher/pkg/helpers/command"
	"github.com/hackeros/hacker-launcher/pkg/launch"
	"github.com/hackeros/hacker-launcher/pkg/runtimes"
	"github.com/hackeros/hacker-launcher/pkg/runtimes/installer"
	"github.com/hackeros/hacker-launcher/pkg/shared/httpclient"
	"github.com/hackeros/hacker-launcher/pkg/sysstats"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

var (
	ErrGameNotFound     = errors.New("game not found")
	ErrGameNotInstalled = errors.New("game is not installed")
	ErrNoExecutable     = errors.New("game has no executable path")
	ErrRuntimeNotFound  = errors.New("runtime not found")
)

const lastPlayedFormat = "2006-01-02 15:04"

// Options overrides the collaborators New would otherwise build from the
// config. Only Config is required.
type Options struct {
	Config      *config.Instance
	Fs          afero.Fs
	Client      *httpclient.Client
	Broker      installer.Broker
	Spawner     launch.Spawner
	Stats       sysstats.Source
	Clock       clockwork.Clock
	BaseEnv     *launch.Env
	Sources     []runtimes.Source
	ImportPaths importers.Paths
}

type Service struct {
	cfg         *config.Instance
	fs          afero.Fs
	clock       clockwork.Clock
	registry    *runtimes.Registry
	prober      *runtimes.DirProber
	installer   *installer.Manager
	planner     *launch.Planner
	runner      *launch.Runner
	store       *games.Store
	library     *games.Library
	stats       sysstats.Source
	importPaths importers.Paths
}

// setupEnvironment creates the launcher's directories. A system-owned
// runtimes root may not be creatable yet; the installer handles it later
// through the elevation broker.
func setupEnvironment(fs afero.Fs, cfg *config.Instance) {
	log.Info().Msg("creating launcher directories")
	failed := helpers.EnsureDirectories(fs,
		cfg.BaseDir(),
		cfg.RuntimesDir(),
		cfg.PrefixesDir(),
		cfg.LogsDir(),
		cfg.DataDir(),
	)
	if len(failed) > 0 {
		log.Warn().Strs("dirs", failed).Msg("some directories could not be created")
	}
}

//nolint:gocritic // options copied on construction
func New(opts Options) (*Service, error) {
	if opts.Config == nil {
		return nil, errors.New("service requires a config")
	}
	cfg := opts.Config

	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	client := opts.Client
	if client == nil {
		client = httpclient.DefaultClient
	}
	broker := opts.Broker
	if broker == nil {
		broker = installer.NewPkexecBroker(&command.RealExecutor{})
	}
	stats := opts.Stats
	if stats == nil {
		stats = sysstats.NewHostSource()
	}
	sources := opts.Sources
	if sources == nil {
		sources = runtimes.SourcesFromConfig(client, cfg.RuntimeSources())
	}
	base := launch.FromOS()
	if opts.BaseEnv != nil {
		base = *opts.BaseEnv
	}

	setupEnvironment(fs, cfg)

	prober := runtimes.NewDirProber(fs, cfg.RuntimesDir())
	registry := runtimes.NewRegistry(prober, sources, cfg.MaxPerFamily())

	mgr := installer.NewManager(installer.Options{
		Fs:               fs,
		Clock:            clock,
		Downloader:       client,
		Broker:           broker,
		Sink:             registry,
		Root:             cfg.RuntimesDir(),
		TempDir:          cfg.TempDir(),
		ElevatedPrefixes: cfg.ElevatedPrefixes(),
	})

	store := games.NewStore(fs, cfg.DataDir())
	loaded := store.Load()
	log.Info().Msgf("loaded %d games", len(loaded))

	importPaths := opts.ImportPaths
	if importPaths.DefaultRuntime == "" {
		importPaths.DefaultRuntime = cfg.DefaultRuntime()
	}

	return &Service{
		cfg:         cfg,
		fs:          fs,
		clock:       clock,
		registry:    registry,
		prober:      prober,
		installer:   mgr,
		planner:     launch.NewPlanner(launch.LayoutFromConfig(cfg), base),
		runner:      launch.NewRunner(fs, opts.Spawner, clock),
		store:       store,
		library:     games.NewLibrary(loaded),
		stats:       stats,
		importPaths: importPaths,
	}, nil
}

func (s *Service) Config() *config.Instance {
	return s.cfg
}

// persist writes the library. Failures are logged and otherwise ignored:
// the in-memory library stays authoritative for this session.
func (s *Service) persist() {
	if err := s.store.Save(s.library.All()); err != nil {
		log.Error().Err(err).Msg("game library not saved")
	}
}

// RefreshRuntimes fetches every source and returns the merged catalog.
func (s *Service) RefreshRuntimes(ctx context.Context) []runtimes.Entry {
	s.registry.Refresh(ctx)
	return s.registry.Catalog()
}

// Runtimes returns the last catalog for a family, refreshing first if no
// catalog has been fetched yet.
func (s *Service) Runtimes(ctx context.Context, family runtimes.Family) []runtimes.Entry {
	if len(s.registry.Catalog()) == 0 {
		s.registry.Refresh(ctx)
	}
	return s.registry.FilterByFamily(family)
}

func (s *Service) RuntimeUpdates(ctx context.Context) []runtimes.Update {
	return runtimes.Updates(s.Runtimes(ctx, runtimes.FamilyAll))
}

// InstalledRuntimes lists runtime directories present under the root.
func (s *Service) InstalledRuntimes() []string {
	infos, err := afero.ReadDir(s.fs, s.cfg.RuntimesDir())
	if err != nil {
		log.Debug().Err(err).Msg("error listing runtimes root")
		return []string{}
	}
	ids := make([]string, 0, len(infos))
	for _, info := range infos {
		if info.IsDir() && runtimes.ValidID(info.Name()) {
			ids = append(ids, info.Name())
		}
	}
	sort.Strings(ids)
	return ids
}

// InstallRuntime installs a catalog entry by id.
func (s *Service) InstallRuntime(ctx context.Context, id string) (*installer.Job, error) {
	if len(s.registry.Catalog()) == 0 {
		s.registry.Refresh(ctx)
	}
	entry, ok := s.registry.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not in the catalog", ErrRuntimeNotFound, id)
	}
	log.Info().Msgf("installing runtime %s from %s", id, entry.DownloadURL)
	job, err := s.installer.Install(ctx, id, entry.DownloadURL)
	if err != nil {
		return job, fmt.Errorf("installing %s: %w", id, err)
	}
	return job, nil
}

func (s *Service) InstallRuntimeArchive(ctx context.Context, id, archive string) (*installer.Job, error) {
	job, err := s.installer.InstallArchive(ctx, id, archive)
	if err != nil {
		return job, fmt.Errorf("installing %s from archive: %w", id, err)
	}
	return job, nil
}

func (s *Service) InstallRuntimeFolder(ctx context.Context, id, src string) (*installer.Job, error) {
	job, err := s.installer.InstallFolder(ctx, id, src)
	if err != nil {
		return job, fmt.Errorf("installing %s from folder: %w", id, err)
	}
	return job, nil
}

func (s *Service) RemoveRuntime(ctx context.Context, id string) bool {
	return s.installer.Remove(ctx, id)
}

// WatchRuntimes keeps catalog statuses in step with the runtimes root
// until ctx is cancelled.
func (s *Service) WatchRuntimes(ctx context.Context) error {
	//nolint:wrapcheck // watcher errors already carry context
	return runtimes.NewWatcher(s.cfg.RuntimesDir(), s.registry.Reprobe).Run(ctx)
}

func (s *Service) Games() []games.Game {
	return s.library.All()
}

func (s *Service) Game(id string) (games.Game, error) {
	g, ok := s.library.Get(id)
	if !ok {
		return games.Game{}, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return g, nil
}

// FindGame resolves an id or a title, allowing small typos in titles.
func (s *Service) FindGame(query string) (games.Game, error) {
	g, ok := s.library.Find(query)
	if !ok {
		return games.Game{}, fmt.Errorf("%w: %s", ErrGameNotFound, query)
	}
	return g, nil
}

// AddGame adds a user-picked executable to the library.
//
//nolint:gocritic // input copied into the record
func (s *Service) AddGame(in games.ManualGame) (games.Game, error) {
	g, err := games.NewManualGame(s.clock, in, s.cfg.DefaultRuntime())
	if err != nil {
		return games.Game{}, fmt.Errorf("adding game: %w", err)
	}
	if err := s.library.Add(*g); err != nil {
		return games.Game{}, fmt.Errorf("adding game: %w", err)
	}
	log.Info().Msgf("added %s to library using %s", g.Title, g.ProtonVersion)
	s.persist()
	return *g, nil
}

// ConfigureGame updates the runtime and launch options of a game.
func (s *Service) ConfigureGame(id, runtime, options string) (games.Game, error) {
	g, err := s.library.Configure(id, runtime, options)
	if errors.Is(err, games.ErrNotFound) {
		return games.Game{}, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	if err != nil {
		return games.Game{}, fmt.Errorf("configuring %s: %w", id, err)
	}
	log.Info().Msgf("config saved for game %s", id)
	s.persist()
	return g, nil
}

func (s *Service) RemoveGame(id string) error {
	if !s.library.Remove(id) {
		return fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	s.persist()
	return nil
}

// ImportGames scans other launchers and adds titles not yet in the
// library. Returns the number added.
func (s *Service) ImportGames(ctx context.Context) int {
	found := importers.ScanAll(ctx, s.importPaths)
	added := s.library.Merge(found)
	log.Info().Msgf("imported %d of %d scanned games", added, len(found))
	s.persist()
	return added
}

// Plan builds the launch plan for a game without starting it.
func (s *Service) Plan(id string) (*launch.Plan, error) {
	g, err := s.Game(id)
	if err != nil {
		return nil, err
	}
	return s.planner.Plan(&g, s.runtimePath(&g)), nil
}

func (s *Service) runtimePath(g *games.Game) string {
	if g.IsNative() || launch.UsesWine(g.ProtonVersion) {
		return ""
	}
	return s.planner.Layout().RuntimePath(g.ProtonVersion)
}

// Launch starts a game detached and stamps its last-played marker.
func (s *Service) Launch(id string) (*launch.Handle, error) {
	g, err := s.Game(id)
	if err != nil {
		return nil, err
	}
	if !g.IsInstalled {
		return nil, fmt.Errorf("%w: %s", ErrGameNotInstalled, g.Title)
	}
	if g.ExecutablePath == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoExecutable, g.Title)
	}
	if !g.IsNative() && !launch.UsesWine(g.ProtonVersion) && !s.prober.Installed(g.ProtonVersion) {
		return nil, fmt.Errorf("%w: %s is not installed", ErrRuntimeNotFound, g.ProtonVersion)
	}

	plan := s.planner.Plan(&g, s.runtimePath(&g))
	log.Info().Msgf("preparing prefix: %s", plan.PrefixPath)
	log.Info().Msgf("runner: %s", g.ProtonVersion)
	log.Info().Msgf("command: %s", plan.Command)

	h, err := s.runner.Launch(plan, s.planner.Layout().LogPath(g.Title))
	if err != nil {
		//nolint:wrapcheck // already an ErrSpawnFailed with context
		return nil, err
	}

	if err := s.library.RecordPlay(id, h.StartedAt.Format(lastPlayedFormat), 0); err != nil {
		log.Warn().Err(err).Msg("error recording play")
	}
	s.persist()
	return h, nil
}

func (s *Service) Settings() games.Settings {
	return s.store.LoadSettings()
}

// SetTheme stores the theme. A failed write is logged and ignored.
func (s *Service) SetTheme(theme string) games.Settings {
	settings := s.store.LoadSettings()
	settings.SetTheme(theme)
	if err := s.store.SaveSettings(settings); err != nil {
		log.Error().Err(err).Msg("settings not saved")
	}
	return settings
}

func (s *Service) Stats(ctx context.Context) (sysstats.Stats, error) {
	//nolint:wrapcheck // sources join their own errors
	return s.stats.Stats(ctx)
}

// WatchStats samples stats every interval until ctx is done.
func (s *Service) WatchStats(ctx context.Context, interval time.Duration, fn func(sysstats.Stats)) {
	sysstats.Watch(ctx, s.clock, s.stats, interval, fn)
}
