// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package speech provides optional speech-to-text input.
//
// A Recognizer runs one single-utterance session at a time and reports
// its progress as a stream of events:
//
//	Started -> Transcript(text) | Failed(err) -> Ended
//
// The stream is closed after Ended. Cancelling the context passed to
// Start aborts the session.
//
// CommandRecognizer delegates recognition to an external program that
// records one utterance and prints the transcript on stdout.
package speech
