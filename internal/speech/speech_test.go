// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package speech

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func collect(t *testing.T, events <-chan Event) []Event {
	t.Helper()
	var out []Event
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return out
			}
			out = append(out, ev)
		case <-timeout:
			t.Fatal("timed out waiting for speech events")
			return out
		}
	}
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, len(events))
	for i, ev := range events {
		out[i] = ev.Kind
	}
	return out
}

func TestNormalize(t *testing.T) {
	// "e" followed by a combining acute accent
	decomposed := "  fe\u0301ver  "
	assert.Equal(t, "f\u00e9ver", Normalize(decomposed))
	assert.Equal(t, "", Normalize(" \n "))
}

func TestUnavailable(t *testing.T) {
	var r Recognizer = Unavailable{}
	assert.False(t, r.Available())
	_, err := r.Start(context.Background(), DefaultOptions(""))
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions("")
	assert.Equal(t, "en-US", opts.Locale)
	assert.False(t, opts.Continuous)
	assert.False(t, opts.InterimResults)
	assert.Equal(t, "de-DE", DefaultOptions("de-DE").Locale)
}

func TestCommandRecognizer_Availability(t *testing.T) {
	assert.False(t, NewCommandRecognizer(nil).Available())
	assert.False(t, NewCommandRecognizer([]string{""}).Available())
	assert.False(t, NewCommandRecognizer([]string{"medichat-no-such-program-xyz"}).Available())

	_, ok := FromCommand([]string{"medichat-no-such-program-xyz"}).(Unavailable)
	assert.True(t, ok)
}

func TestCommandRecognizer_Transcript(t *testing.T) {
	requireShell(t)
	r := NewCommandRecognizer([]string{"sh", "-c", "printf '  how to reduce fever?\\n'"})
	require.True(t, r.Available())

	events, err := r.Start(context.Background(), DefaultOptions(""))
	require.NoError(t, err)

	got := collect(t, events)
	assert.Equal(t, []EventKind{EventStarted, EventTranscript, EventEnded}, kinds(got))
	assert.Equal(t, "how to reduce fever?", got[1].Transcript)
}

func TestCommandRecognizer_LocaleSubstitution(t *testing.T) {
	requireShell(t)
	r := NewCommandRecognizer([]string{"sh", "-c", "echo \"$0\"", "lang={locale}"})

	events, err := r.Start(context.Background(), DefaultOptions("fr-FR"))
	require.NoError(t, err)

	got := collect(t, events)
	require.Len(t, got, 3)
	assert.Equal(t, "lang=fr-FR", got[1].Transcript)
}

func TestCommandRecognizer_Failures(t *testing.T) {
	requireShell(t)
	tests := []struct {
		name    string
		script  string
		wantErr error
	}{
		{"non-zero exit", "exit 3", nil},
		{"empty output", "true", ErrNoSpeech},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := NewCommandRecognizer([]string{"sh", "-c", tc.script})
			events, err := r.Start(context.Background(), DefaultOptions(""))
			require.NoError(t, err)

			got := collect(t, events)
			assert.Equal(t, []EventKind{EventStarted, EventFailed, EventEnded}, kinds(got))
			require.Error(t, got[1].Err)
			if tc.wantErr != nil {
				assert.ErrorIs(t, got[1].Err, tc.wantErr)
			}
		})
	}
}

func TestCommandRecognizer_Cancel(t *testing.T) {
	requireShell(t)
	r := NewCommandRecognizer([]string{"sleep", "10"})
	require.True(t, r.Available())

	ctx, cancel := context.WithCancel(context.Background())
	events, err := r.Start(ctx, DefaultOptions(""))
	require.NoError(t, err)
	cancel()

	got := collect(t, events)
	assert.Equal(t, []EventKind{EventStarted, EventFailed, EventEnded}, kinds(got))
	assert.True(t, errors.Is(got[1].Err, context.Canceled))
}

func TestCommandRecognizer_RejectsContinuous(t *testing.T) {
	requireShell(t)
	r := NewCommandRecognizer([]string{"sh", "-c", "true"})
	_, err := r.Start(context.Background(), Options{Continuous: true})
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestEventKind_String(t *testing.T) {
	assert.Equal(t, "started", EventStarted.String())
	assert.Equal(t, "ended", EventEnded.String())
	assert.Equal(t, "unknown", EventKind(99).String())
}
