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

// Package command wraps os/exec so code that shells out to system tools can
// be exercised in tests without running them.
package command

import (
	"context"
	"os/exec"
)

// Executor runs short-lived system commands on behalf of the launcher.
type Executor interface {
	// CombinedOutput runs a command to completion and returns its combined
	// stdout and stderr. A non-zero exit status is returned as *exec.ExitError.
	CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error)

	// LookPath reports the resolved path of an executable on PATH.
	LookPath(name string) (string, error)
}

// RealExecutor runs commands with exec.CommandContext.
type RealExecutor struct{}

// CombinedOutput runs a system command and returns stdout and stderr together.
//
//nolint:wrapcheck // callers inspect *exec.ExitError directly
func (*RealExecutor) CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// LookPath searches PATH for name.
//
//nolint:wrapcheck // exec.ErrNotFound is matched by callers
func (*RealExecutor) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
