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
	"maps"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
)

// CredentialEntry holds authentication credentials for a URL prefix.
type CredentialEntry struct {
	Username string `toml:"username"`
	Password string `toml:"password"`
	Bearer   string `toml:"bearer"`
}

// authCredsFormat is the [creds."url"] layout.
type authCredsFormat struct {
	Creds map[string]CredentialEntry `toml:"creds"`
}

// authRootFormat is the ["url"] layout.
type authRootFormat map[string]CredentialEntry

var authCfg atomic.Value

// LoadAuthFromData parses auth.toml data. Both the root ["url"] layout and
// the [creds."url"] layout are accepted and merged.
func LoadAuthFromData(data []byte) map[string]CredentialEntry {
	result := make(map[string]CredentialEntry)

	var root authRootFormat
	if err := toml.Unmarshal(data, &root); err == nil {
		for k, v := range root {
			if k != "creds" {
				result[k] = v
			}
		}
	}

	var creds authCredsFormat
	if err := toml.Unmarshal(data, &creds); err == nil {
		maps.Copy(result, creds.Creds)
	}

	return result
}

// GetAuthCfg returns the credentials loaded from auth.toml, if any.
func GetAuthCfg() map[string]CredentialEntry {
	val := authCfg.Load()
	if val == nil {
		return nil
	}
	creds, ok := val.(map[string]CredentialEntry)
	if !ok {
		return nil
	}
	return creds
}

// SetAuthCfg replaces the loaded credentials.
func SetAuthCfg(creds map[string]CredentialEntry) {
	authCfg.Store(creds)
}

// LookupAuth finds the credentials whose URL matches reqURL's scheme and
// host and is a path prefix of it. Release feeds on api.github.com are the
// usual case, where a bearer token lifts the anonymous rate limit.
func LookupAuth(creds map[string]CredentialEntry, reqURL string) *CredentialEntry {
	if len(creds) == 0 {
		return nil
	}

	u, err := url.Parse(reqURL)
	if err != nil {
		log.Warn().Msgf("invalid auth request url: %s", reqURL)
		return nil
	}

	var best *CredentialEntry
	bestLen := -1
	for k, v := range creds {
		defURL, err := url.Parse(k)
		if err != nil {
			log.Error().Msgf("invalid auth config url: %s", k)
			continue
		}
		if !strings.EqualFold(defURL.Scheme, u.Scheme) ||
			!strings.EqualFold(defURL.Host, u.Host) ||
			!strings.HasPrefix(u.Path, defURL.Path) {
			continue
		}
		// longest path prefix wins
		if len(defURL.Path) > bestLen {
			entry := v
			best = &entry
			bestLen = len(defURL.Path)
		}
	}

	return best
}
