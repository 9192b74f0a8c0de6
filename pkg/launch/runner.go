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

package launch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/hackeros/hacker-launcher/pkg/helpers"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

var ErrSpawnFailed = errors.New("failed to spawn process")

const bannerTimeFormat = "2006-01-02 15:04:05"

// Handle identifies a launched process. The launcher keeps no other
// reference to it.
type Handle struct {
	StartedAt time.Time
	LogPath   string
	PID       int
}

// Spawner starts a plan with its output going to out and gives up
// ownership of the child.
type Spawner interface {
	Spawn(plan *Plan, out io.Writer) (int, error)
}

// ExecSpawner starts real processes in their own session so they survive
// the launcher.
type ExecSpawner struct{}

func (ExecSpawner) Spawn(plan *Plan, out io.Writer) (int, error) {
	argv := plan.Argv()
	if argv[0] == "" {
		return 0, exec.ErrNotFound
	}

	//nolint:gosec // runs the user's own game
	cmd := exec.CommandContext(context.Background(), argv[0], argv[1:]...)
	cmd.Env = plan.Env.Environ()
	cmd.Dir = plan.Dir
	cmd.Stdin = nil
	cmd.Stdout = out
	cmd.Stderr = out
	cmd.SysProcAttr = detachedProcAttr()

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("starting %s: %w", argv[0], err)
	}
	pid := cmd.Process.Pid

	if err := cmd.Process.Release(); err != nil {
		log.Warn().Err(err).Msgf("error releasing process %d", pid)
	}
	return pid, nil
}

// Runner prepares directories and the per-title log, then hands the plan
// to its Spawner.
type Runner struct {
	fs      afero.Fs
	spawner Spawner
	clock   clockwork.Clock
}

func NewRunner(fs afero.Fs, spawner Spawner, clock clockwork.Clock) *Runner {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if spawner == nil {
		spawner = ExecSpawner{}
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Runner{fs: fs, spawner: spawner, clock: clock}
}

// Launch starts the plan and returns as soon as the process exists. A
// spawn failure is written to the log and returned as ErrSpawnFailed.
func (r *Runner) Launch(plan *Plan, logPath string) (*Handle, error) {
	if err := r.fs.MkdirAll(filepath.Dir(logPath), 0o750); err != nil {
		return nil, fmt.Errorf("%w: creating log directory: %w", ErrSpawnFailed, err)
	}

	dirs := []string{plan.PrefixPath}
	if !plan.Native {
		dirs = append(dirs, plan.CompatClientPath)
	}
	helpers.EnsureDirectories(r.fs, dirs...)

	f, err := r.fs.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("%w: opening log file: %w", ErrSpawnFailed, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msgf("error closing log file %s", logPath)
		}
	}()

	started := r.clock.Now()
	writeBanner(f, plan, started)

	// on OsFs f is an *os.File, so exec hands the child the descriptor
	// itself and output keeps flowing after the launcher exits
	pid, err := r.spawner.Spawn(plan, f)
	if err != nil {
		_, _ = fmt.Fprintf(f, "[%s] spawn failed: %v\n", r.clock.Now().Format(bannerTimeFormat), err)
		log.Error().Err(err).Msgf("failed to launch %s", plan.Title)
		return nil, fmt.Errorf("%w: %w", ErrSpawnFailed, err)
	}

	log.Info().Int("pid", pid).Msgf("launched %s", plan.Title)
	return &Handle{PID: pid, LogPath: logPath, StartedAt: started}, nil
}

func writeBanner(w io.Writer, plan *Plan, at time.Time) {
	_, err := fmt.Fprintf(w,
		"\n=== [%s] launching %s ===\ncommand: %s\nprefix: %s\nworkdir: %s\n",
		at.Format(bannerTimeFormat), plan.Title, plan.Command, plan.PrefixPath, plan.Dir)
	if err != nil {
		log.Warn().Err(err).Msg("error writing launch banner")
	}
}
