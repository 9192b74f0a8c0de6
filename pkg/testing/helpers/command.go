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

package helpers

import (
	"github.com/hackeros/hacker-launcher/pkg/testing/mocks"
	"github.com/stretchr/testify/mock"
)

// NewMockCommandExecutor creates a MockCommandExecutor that succeeds by
// default: pkexec is found and every command exits cleanly. Override with
// On() after clearing ExpectedCalls:
//
//	cmd := helpers.NewMockCommandExecutor()
//	cmd.ExpectedCalls = nil
//	cmd.On("LookPath", "pkexec").Return("", exec.ErrNotFound)
func NewMockCommandExecutor() *mocks.MockCommandExecutor {
	cmd := &mocks.MockCommandExecutor{}
	cmd.On("LookPath", mock.AnythingOfType("string")).Return("/usr/bin/pkexec", nil).Maybe()
	cmd.On("CombinedOutput", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return([]byte{}, nil).Maybe()
	return cmd
}

// NewMockBroker creates a MockBroker that approves every script.
func NewMockBroker() *mocks.MockBroker {
	b := &mocks.MockBroker{}
	b.On("Run", mock.Anything, mock.AnythingOfType("string")).Return(nil).Maybe()
	return b
}
