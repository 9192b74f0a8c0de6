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

// Package sysstats reports host load figures for the header widget.
package sysstats

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/sensors"
	"github.com/spf13/afero"
)

// Stats holds whole-number percentages and a temperature in Celsius.
type Stats struct {
	CPULoad  int `json:"cpuLoad"`
	GPULoad  int `json:"gpuLoad"`
	RAMUsage int `json:"ramUsage"`
	Temp     int `json:"temp"`
}

type Source interface {
	Stats(ctx context.Context) (Stats, error)
}

// StubSource returns the same figures every time.
type StubSource struct {
	Fixed Stats
}

func NewStubSource() *StubSource {
	return &StubSource{Fixed: Stats{CPULoad: 10, GPULoad: 20, RAMUsage: 40, Temp: 55}}
}

func (s *StubSource) Stats(_ context.Context) (Stats, error) {
	return s.Fixed, nil
}

const (
	defaultSampleInterval = 200 * time.Millisecond
	drmGlob               = "/sys/class/drm/card*/device/gpu_busy_percent"
)

// HostSource samples the running machine. GPU load comes from the DRM
// gpu_busy_percent attribute, which amdgpu and i915 expose; it is 0
// elsewhere.
type HostSource struct {
	Fs             afero.Fs
	SampleInterval time.Duration
}

func NewHostSource() *HostSource {
	return &HostSource{Fs: afero.NewOsFs(), SampleInterval: defaultSampleInterval}
}

// Stats collects what it can. Each figure that fails to read is left at
// zero and the errors are joined.
func (h *HostSource) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	var errs []error

	percents, err := cpu.PercentWithContext(ctx, h.SampleInterval, false)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("cpu: %w", err))
	case len(percents) > 0:
		stats.CPULoad = clampPercent(percents[0])
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("memory: %w", err))
	} else {
		stats.RAMUsage = clampPercent(vm.UsedPercent)
	}

	temps, err := sensors.TemperaturesWithContext(ctx)
	// partial sensor reads come back with a warning error and usable data
	if len(temps) == 0 && err != nil {
		errs = append(errs, fmt.Errorf("sensors: %w", err))
	}
	stats.Temp = maxTemperature(temps)

	stats.GPULoad = h.gpuLoad()

	return stats, errors.Join(errs...)
}

func (h *HostSource) gpuLoad() int {
	fs := h.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	matches, err := afero.Glob(fs, filepath.FromSlash(drmGlob))
	if err != nil {
		return 0
	}
	best := 0
	for _, path := range matches {
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSpace(string(data)))
		if err != nil {
			continue
		}
		if v > best {
			best = v
		}
	}
	return clampPercent(float64(best))
}

func maxTemperature(temps []sensors.TemperatureStat) int {
	hottest := 0.0
	for _, t := range temps {
		if t.Temperature > hottest && t.Temperature < 150 {
			hottest = t.Temperature
		}
	}
	return int(math.Round(hottest))
}

func clampPercent(v float64) int {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return int(math.Round(v))
	}
}

// Watch samples src every interval until ctx is done, calling fn with each
// reading. Sampling errors are logged and the partial reading is still
// delivered.
func Watch(ctx context.Context, clock clockwork.Clock, src Source, interval time.Duration, fn func(Stats)) {
	ticker := clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		stats, err := src.Stats(ctx)
		if err != nil {
			log.Debug().Err(err).Msg("error sampling system stats")
		}
		fn(stats)

		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
		}
	}
}
