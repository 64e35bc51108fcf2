// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// =============================================================================
// TTY DETECTION
// =============================================================================

// IsTTY returns true if stdin is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsStdoutTTY returns true if stdout is a terminal.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// TTYRequiredError is returned when an operation needs an interactive terminal.
type TTYRequiredError struct {
	Operation string
}

func (e *TTYRequiredError) Error() string {
	return "stdin is not a terminal; cannot " + e.Operation + " interactively"
}

// RequiresTTY returns an error if stdin is not a terminal.
func RequiresTTY(operation string) error {
	if !IsTTY() {
		return &TTYRequiredError{Operation: operation}
	}
	return nil
}

// =============================================================================
// TERMINAL WIDTH
// =============================================================================

const (
	// DefaultTerminalWidth is the fallback width when detection fails
	DefaultTerminalWidth = 80

	// MinTerminalWidth is the minimum width used for wrapping
	MinTerminalWidth = 40
)

// GetTerminalWidth returns the stdout width, or DefaultTerminalWidth.
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return DefaultTerminalWidth
	}
	if width < MinTerminalWidth {
		return MinTerminalWidth
	}
	return width
}

// =============================================================================
// COLOR OUTPUT CONTROL
// =============================================================================

var (
	colorProfile     termenv.Profile
	colorProfileOnce sync.Once
)

// GetColorProfile returns the color profile for stdout. termenv honours
// NO_COLOR and CLICOLOR_FORCE; FORCE_COLOR also turns colors on when
// stdout is redirected.
func GetColorProfile() termenv.Profile {
	colorProfileOnce.Do(func() {
		out := termenv.NewOutput(os.Stdout)
		colorProfile = out.EnvColorProfile()
		if colorProfile == termenv.Ascii && os.Getenv("FORCE_COLOR") != "" && !out.EnvNoColor() {
			colorProfile = termenv.ANSI256
		}
	})
	return colorProfile
}

// ColorsEnabled reports whether colored output is in use.
func ColorsEnabled() bool {
	return GetColorProfile() != termenv.Ascii
}
