// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/jeranaias/medichat-tui/internal/config"
	"github.com/jeranaias/medichat-tui/internal/credential"
	"github.com/jeranaias/medichat-tui/internal/gemini"
	"github.com/jeranaias/medichat-tui/internal/speech"
)

// Exit codes for different error categories.
const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitUsageError   = 2
	ExitConfigError  = 3
	ExitAuthError    = 4
	ExitNetworkError = 5
	ExitTimeoutError = 8
)

var (
	// ErrRequestFailed is returned by ask when the reply is the fallback.
	ErrRequestFailed = errors.New("request failed")

	// ErrNoQuery is returned by ask without a question.
	ErrNoQuery = errors.New("no question given")
)

// UsageError reports a malformed command line.
type UsageError struct {
	Command string
	Reason  string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s: %s (see 'medichat help')", e.Command, e.Reason)
}

// GetExitCode maps an error to a process exit code.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) || errors.Is(err, ErrNoQuery) {
		return ExitUsageError
	}

	var cfgErrs config.ValidateErrors
	var cfgErr config.ValidationError
	if errors.As(err, &cfgErrs) || errors.As(err, &cfgErr) || errors.Is(err, gemini.ErrUnknownTransport) {
		return ExitConfigError
	}

	if errors.Is(err, credential.ErrNotStored) ||
		errors.Is(err, credential.ErrEmptyCredential) ||
		errors.Is(err, credential.ErrCredentialTooShort) ||
		errors.Is(err, gemini.ErrAuthFailed) {
		return ExitAuthError
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ExitTimeoutError
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, ErrRequestFailed) || errors.Is(err, speech.ErrNoSpeech) {
		return ExitNetworkError
	}

	return ExitGeneralError
}
