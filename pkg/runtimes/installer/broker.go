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
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/alessio/shellescape"
	"github.com/hackeros/hacker-launcher/pkg/helpers/command"
	"github.com/rs/zerolog/log"
)

// Broker runs a shell script with elevated rights after asking the user.
type Broker interface {
	Run(ctx context.Context, script string) error
}

// PkexecBroker asks polkit for authorization through pkexec.
type PkexecBroker struct {
	Exec command.Executor
}

func NewPkexecBroker(executor command.Executor) *PkexecBroker {
	if executor == nil {
		executor = &command.RealExecutor{}
	}
	return &PkexecBroker{Exec: executor}
}

type exitCoder interface {
	ExitCode() int
}

// pkexec exits 126 when the user dismisses the dialog and 127 when no
// authorization could be obtained.
const (
	exitDismissed     = 126
	exitNotAuthorized = 127
)

func (b *PkexecBroker) Run(ctx context.Context, script string) error {
	if _, err := b.Exec.LookPath("pkexec"); err != nil {
		return fmt.Errorf("%w: pkexec not available: %w", ErrElevationDenied, err)
	}

	log.Info().Msgf("requesting elevation: %s", script)
	out, err := b.Exec.CombinedOutput(ctx, "pkexec", "sh", "-c", script)
	if err == nil {
		return nil
	}

	msg := strings.TrimSpace(string(out))
	var ec exitCoder
	if errors.As(err, &ec) && (ec.ExitCode() == exitDismissed || ec.ExitCode() == exitNotAuthorized) {
		return fmt.Errorf("%w: %s", ErrElevationDenied, msg)
	}
	if errors.Is(err, exec.ErrNotFound) ||
		strings.Contains(strings.ToLower(msg), "polkit") ||
		strings.Contains(strings.ToLower(msg), "not authorized") {
		return fmt.Errorf("%w: %s", ErrElevationDenied, msg)
	}
	return fmt.Errorf("elevated command failed: %w: %s", err, msg)
}

// extractScript replaces dest with the contents of archive, removing dest
// again if tar fails.
func extractScript(archive, dest string) string {
	d := shellescape.Quote(dest)
	return fmt.Sprintf(
		"rm -rf %s && mkdir -p %s && { tar -xf %s -C %s --strip-components=1 || { rm -rf %s; exit 1; }; }",
		d, d, shellescape.Quote(archive), d, d,
	)
}

func copyScript(src, dest string) string {
	d := shellescape.Quote(dest)
	return fmt.Sprintf(
		"rm -rf %s && mkdir -p %s && { cp -a %s/. %s/ || { rm -rf %s; exit 1; }; }",
		d, d, shellescape.Quote(src), d, d,
	)
}

func removeScript(target string) string {
	return "rm -rf " + shellescape.Quote(target)
}
