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
	"os"
	"sort"
	"strings"
)

// Env is an immutable environment snapshot. With returns a new snapshot;
// the receiver and the process environment are never modified.
type Env struct {
	vars map[string]string
}

// FromList parses KEY=VALUE entries. Later entries win, entries without
// "=" are dropped.
func FromList(list []string) Env {
	vars := make(map[string]string, len(list))
	for _, kv := range list {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = v
	}
	return Env{vars: vars}
}

// FromOS snapshots the current process environment.
func FromOS() Env {
	return FromList(os.Environ())
}

// With returns a copy of e with overlay applied on top.
func (e Env) With(overlay map[string]string) Env {
	vars := make(map[string]string, len(e.vars)+len(overlay))
	for k, v := range e.vars {
		vars[k] = v
	}
	for k, v := range overlay {
		vars[k] = v
	}
	return Env{vars: vars}
}

func (e Env) Get(key string) (string, bool) {
	v, ok := e.vars[key]
	return v, ok
}

func (e Env) Has(key string) bool {
	_, ok := e.vars[key]
	return ok
}

func (e Env) Len() int {
	return len(e.vars)
}

// Environ returns KEY=VALUE pairs sorted by key, suitable for exec.Cmd.Env.
func (e Env) Environ() []string {
	keys := make([]string, 0, len(e.vars))
	for k := range e.vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+e.vars[k])
	}
	return out
}

func (e Env) without(keys ...string) Env {
	vars := make(map[string]string, len(e.vars))
	for k, v := range e.vars {
		vars[k] = v
	}
	for _, k := range keys {
		delete(vars, k)
	}
	return Env{vars: vars}
}
