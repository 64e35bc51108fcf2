// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package speech

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os/exec"
	"strings"
)

// LocalePlaceholder is replaced by the session locale in command arguments.
const LocalePlaceholder = "{locale}"

// CommandRecognizer runs an external program for each session. The
// program must record a single utterance and print the final transcript
// on stdout.
type CommandRecognizer struct {
	argv []string
}

// NewCommandRecognizer creates a recognizer for argv. An empty argv
// produces a recognizer that is never available.
func NewCommandRecognizer(argv []string) *CommandRecognizer {
	cp := make([]string, len(argv))
	copy(cp, argv)
	return &CommandRecognizer{argv: cp}
}

// FromCommand returns a CommandRecognizer for argv when its program can be
// found, and Unavailable otherwise.
func FromCommand(argv []string) Recognizer {
	r := NewCommandRecognizer(argv)
	if !r.Available() {
		return Unavailable{}
	}
	return r
}

// Available reports whether the program is configured and on PATH.
func (r *CommandRecognizer) Available() bool {
	if len(r.argv) == 0 || strings.TrimSpace(r.argv[0]) == "" {
		return false
	}
	_, err := exec.LookPath(r.argv[0])
	return err == nil
}

// args returns argv with the locale substituted.
func (r *CommandRecognizer) args(locale string) []string {
	out := make([]string, len(r.argv))
	for i, a := range r.argv {
		out[i] = strings.ReplaceAll(a, LocalePlaceholder, locale)
	}
	return out
}

// Start launches the program and reports its outcome as events.
func (r *CommandRecognizer) Start(ctx context.Context, opts Options) (<-chan Event, error) {
	if !r.Available() {
		return nil, ErrUnsupported
	}
	if opts.Continuous || opts.InterimResults {
		return nil, fmt.Errorf("%w: only single final-result sessions are supported", ErrUnsupported)
	}
	if opts.Locale == "" {
		opts.Locale = DefaultLocale
	}

	argv := r.args(opts.Locale)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start speech command: %w", err)
	}

	events := make(chan Event, 4)
	go func() {
		defer close(events)
		events <- Event{Kind: EventStarted}

		err := cmd.Wait()
		switch {
		case ctx.Err() != nil:
			events <- Event{Kind: EventFailed, Err: ctx.Err()}
		case err != nil:
			log.Printf("[speech] command failed: %v: %s", err, strings.TrimSpace(stderr.String()))
			events <- Event{Kind: EventFailed, Err: fmt.Errorf("speech command: %w", err)}
		default:
			text := Normalize(stdout.String())
			if text == "" {
				events <- Event{Kind: EventFailed, Err: ErrNoSpeech}
			} else {
				events <- Event{Kind: EventTranscript, Transcript: text}
			}
		}
		events <- Event{Kind: EventEnded}
	}()

	return events, nil
}
