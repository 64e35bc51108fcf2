// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package speech

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultLocale is the recognition language used when none is configured.
const DefaultLocale = "en-US"

var (
	// ErrUnsupported is returned by Start when no recognizer is available.
	ErrUnsupported = errors.New("speech recognition not supported")

	// ErrNoSpeech is reported when a session ends without a transcript.
	ErrNoSpeech = errors.New("no speech recognized")
)

// =============================================================================
// EVENTS
// =============================================================================

// EventKind identifies a session event.
type EventKind int

const (
	EventStarted EventKind = iota
	EventTranscript
	EventFailed
	EventEnded
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventTranscript:
		return "transcript"
	case EventFailed:
		return "failed"
	case EventEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Event is one step of a recognition session.
type Event struct {
	Kind       EventKind
	Transcript string // set for EventTranscript
	Err        error  // set for EventFailed
}

// Options configures a recognition session.
type Options struct {
	Locale string

	// Continuous and InterimResults are always false for chat input;
	// they exist so recognizers can reject sessions they cannot honour.
	Continuous     bool
	InterimResults bool
}

// DefaultOptions returns single-utterance, final-only options.
func DefaultOptions(locale string) Options {
	if locale == "" {
		locale = DefaultLocale
	}
	return Options{Locale: locale}
}

// Recognizer is a speech-to-text capability.
type Recognizer interface {
	// Available reports whether recognition can be started at all.
	Available() bool

	// Start begins one session. The returned channel delivers events and
	// is closed after EventEnded.
	Start(ctx context.Context, opts Options) (<-chan Event, error)
}

// Normalize trims a transcript and converts it to NFC.
func Normalize(transcript string) string {
	return norm.NFC.String(strings.TrimSpace(transcript))
}

// =============================================================================
// UNAVAILABLE
// =============================================================================

// Unavailable is the recognizer used when no speech program is configured.
type Unavailable struct{}

// Available always returns false.
func (Unavailable) Available() bool { return false }

// Start always fails with ErrUnsupported.
func (Unavailable) Start(context.Context, Options) (<-chan Event, error) {
	return nil, ErrUnsupported
}
