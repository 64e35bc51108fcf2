// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package conversation implements the chat controller.
//
// The Controller owns the append-only message log and the input draft,
// turns user text into single-turn inference requests, and folds the
// outcome back into the log. Each turn moves through
//
//	idle -> sending -> settled | failed
//
// and always ends with exactly one assistant message: the model's text on
// success, a fixed apology on any failure.
//
// Sending is split into three steps so event loops never block:
//
//	turn, err := ctrl.Begin(text)        // validate, append user message
//	result := ctrl.Execute(ctx, turn)    // network call, no state change
//	ctrl.Settle(turn, result)            // append reply, notify
//
// SendMessage runs all three in sequence for callers that can block.
//
// Speech input is bridged through StartVoiceCapture and HandleSpeechEvent:
// a transcript replaces the draft but is never sent automatically.
package conversation
