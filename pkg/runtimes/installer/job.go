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
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrNoDownloadSource    = errors.New("runtime has no download source")
	ErrDownloadFailed      = errors.New("download failed")
	ErrElevationDenied     = errors.New("elevation denied")
	ErrExtractionFailed    = errors.New("extraction failed")
	ErrDirectoryUnwritable = errors.New("install directory is not writable")
)

type State string

const (
	StatePending     State = "pending"
	StateDownloading State = "downloading"
	StateExtracting  State = "extracting"
	StateDone        State = "done"
	StateFailed      State = "failed"
)

// Job records one install attempt. It is never retried.
type Job struct {
	StartedAt  time.Time `json:"startedAt"`
	Err        error     `json:"-"`
	ID         string    `json:"id"`
	RuntimeID  string    `json:"runtimeId"`
	URL        string    `json:"url,omitempty"`
	TempPath   string    `json:"tempPath,omitempty"`
	TargetPath string    `json:"targetPath"`
	State      State     `json:"state"`
	Elevated   bool      `json:"elevated"`
}

func (m *Manager) newJob(runtimeID, url, target string) *Job {
	return &Job{
		ID:         uuid.New().String(),
		RuntimeID:  runtimeID,
		URL:        url,
		TargetPath: target,
		State:      StatePending,
		StartedAt:  m.clock.Now(),
	}
}

func (j *Job) setState(s State) {
	log.Debug().Str("job", j.ID).Msgf("install %s: %s -> %s", j.RuntimeID, j.State, s)
	j.State = s
}

func (j *Job) fail(err error) error {
	j.Err = err
	j.setState(StateFailed)
	log.Error().Err(err).Str("job", j.ID).Msgf("install of %s failed", j.RuntimeID)
	return err
}
