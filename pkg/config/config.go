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

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/adrg/xdg"
	"github.com/hackeros/hacker-launcher/pkg/helpers/syncutil"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	SchemaVersion = 1
	CfgEnv        = "HACKER_LAUNCHER_CFG"
	HomeEnv       = "HACKER_LAUNCHER_HOME"

	DefaultMaxPerFamily = 20
)

type Values struct {
	Paths        Paths    `toml:"paths,omitempty"`
	Launch       Launch   `toml:"launch,omitempty"`
	Runtimes     Runtimes `toml:"runtimes"`
	ConfigSchema int      `toml:"config_schema"`
	DebugLogging bool     `toml:"debug_logging"`
}

// Paths overrides the on-disk layout. Empty entries fall back to
// directories under the base dir.
type Paths struct {
	Base              string `toml:"base,omitempty"`
	Runtimes          string `toml:"runtimes,omitempty"`
	Prefixes          string `toml:"prefixes,omitempty"`
	Logs              string `toml:"logs,omitempty"`
	SteamCompatClient string `toml:"steam_compat_client,omitempty"`
}

type Runtimes struct {
	TempDir          string          `toml:"temp_dir,omitempty"`
	Sources          []RuntimeSource `toml:"source,omitempty"`
	ElevatedPrefixes []string        `toml:"elevated_prefixes,omitempty"`
	MaxPerFamily     int             `toml:"max_per_family"`
}

// RuntimeSource points a runtime family at its release feed.
type RuntimeSource struct {
	Family string `toml:"family"`
	URL    string `toml:"url"`
}

type Launch struct {
	DefaultRuntime string `toml:"default_runtime,omitempty"`
}

var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
	Runtimes: Runtimes{
		MaxPerFamily:     DefaultMaxPerFamily,
		ElevatedPrefixes: []string{"/usr", "/opt", "/var"},
		Sources: []RuntimeSource{
			{Family: "ge-custom", URL: "https://api.github.com/repos/GloriousEggroll/proton-ge-custom/releases"},
			{Family: "official", URL: "https://api.github.com/repos/ValveSoftware/Proton/releases"},
			{Family: "cachyos", URL: "https://api.github.com/repos/CachyOS/proton-cachyos/releases"},
			{Family: "wine-ge", URL: "https://api.github.com/repos/GloriousEggroll/wine-ge-custom/releases"},
		},
	},
}

type Instance struct {
	cfgPath  string
	authPath string
	vals     Values
	defaults Values
	mu       syncutil.RWMutex
}

// DefaultBaseDir returns the launcher's home, honouring HACKER_LAUNCHER_HOME.
func DefaultBaseDir() string {
	if v := os.Getenv(HomeEnv); v != "" {
		return v
	}
	return filepath.Join(xdg.Home, ".hackeros", AppName)
}

// DefaultConfigDir is where config.toml lives when HACKER_LAUNCHER_CFG is
// not set.
func DefaultConfigDir() string {
	return filepath.Join(DefaultBaseDir(), ConfigDir)
}

//nolint:gocritic // config struct copied for immutability
func NewConfig(configDir string, defaults Values) (*Instance, error) {
	cfgPath := os.Getenv(CfgEnv)
	log.Debug().Msgf("env config path: %s", cfgPath)

	if cfgPath == "" {
		cfgPath = filepath.Join(configDir, CfgFile)
	}

	cfg := Instance{
		cfgPath:  cfgPath,
		authPath: filepath.Join(filepath.Dir(cfgPath), AuthFile),
		vals:     defaults,
		defaults: defaults,
	}

	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		log.Info().Msg("saving new default config to disk")

		err := os.MkdirAll(filepath.Dir(cfgPath), 0o750)
		if err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}

		err = cfg.Save()
		if err != nil {
			return nil, err
		}
	}

	err := cfg.Load()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	data, err := os.ReadFile(c.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// file values go on top of defaults so missing keys keep their default
	newVals := c.defaults
	newVals.Runtimes.Sources = slices.Clone(c.defaults.Runtimes.Sources)
	newVals.Runtimes.ElevatedPrefixes = slices.Clone(c.defaults.Runtimes.ElevatedPrefixes)
	err = toml.Unmarshal(data, &newVals)
	if err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if newVals.ConfigSchema != SchemaVersion {
		log.Error().Msgf(
			"schema version mismatch: got %d, expecting %d",
			newVals.ConfigSchema,
			SchemaVersion,
		)
		return errors.New("schema version mismatch")
	}

	if newVals.Runtimes.MaxPerFamily <= 0 {
		log.Warn().Msgf("invalid max_per_family %d, using default", newVals.Runtimes.MaxPerFamily)
		newVals.Runtimes.MaxPerFamily = DefaultMaxPerFamily
	}

	c.vals = newVals

	if _, err := os.Stat(c.authPath); err == nil {
		log.Info().Msg("loading auth file")
		authData, err := os.ReadFile(c.authPath)
		if err != nil {
			return fmt.Errorf("failed to read auth file: %w", err)
		}
		creds := LoadAuthFromData(authData)
		log.Info().Msgf("loaded %d auth entries", len(creds))
		SetAuthCfg(creds)
	}

	return nil
}

func (c *Instance) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	c.vals.ConfigSchema = SchemaVersion

	data, err := toml.Marshal(&c.vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(c.cfgPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Instance) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfgPath
}

func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DebugLogging
}

func (c *Instance) SetDebugLogging(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.DebugLogging = enabled
	if enabled {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// BaseDir resolves the launcher home. The environment wins over the file.
func (c *Instance) BaseDir() string {
	if v := os.Getenv(HomeEnv); v != "" {
		return v
	}
	c.mu.RLock()
	base := c.vals.Paths.Base
	c.mu.RUnlock()
	if base != "" {
		return base
	}
	return DefaultBaseDir()
}

func (c *Instance) underBase(override, name string) string {
	if override != "" {
		return override
	}
	return filepath.Join(c.BaseDir(), name)
}

// RuntimesDir is the root holding one directory per installed runtime.
func (c *Instance) RuntimesDir() string {
	c.mu.RLock()
	v := c.vals.Paths.Runtimes
	c.mu.RUnlock()
	return c.underBase(v, RuntimesDir)
}

func (c *Instance) PrefixesDir() string {
	c.mu.RLock()
	v := c.vals.Paths.Prefixes
	c.mu.RUnlock()
	return c.underBase(v, PrefixesDir)
}

func (c *Instance) LogsDir() string {
	c.mu.RLock()
	v := c.vals.Paths.Logs
	c.mu.RUnlock()
	return c.underBase(v, LogsDir)
}

// DataDir holds games.json and settings.json, next to config.toml.
func (c *Instance) DataDir() string {
	return filepath.Dir(c.Path())
}

// SteamCompatClientPath is exported to non-native launches as
// STEAM_COMPAT_CLIENT_INSTALL_PATH.
func (c *Instance) SteamCompatClientPath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Paths.SteamCompatClient != "" {
		return c.vals.Paths.SteamCompatClient
	}
	return filepath.Join(xdg.DataHome, "Steam")
}

func (c *Instance) RuntimeSources() []RuntimeSource {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.vals.Runtimes.Sources)
}

func (c *Instance) MaxPerFamily() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Runtimes.MaxPerFamily
}

// TempDir is where archives are staged while downloading. It must not be
// inside the runtimes root.
func (c *Instance) TempDir() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Runtimes.TempDir != "" {
		return c.vals.Runtimes.TempDir
	}
	return os.TempDir()
}

func (c *Instance) ElevatedPrefixes() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.vals.Runtimes.ElevatedPrefixes)
}

func (c *Instance) DefaultRuntime() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Launch.DefaultRuntime
}

func (c *Instance) SetDefaultRuntime(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Launch.DefaultRuntime = id
}
