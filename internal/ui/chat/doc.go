// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the chat screen of the medichat TUI.

The screen is a Bubble Tea model wrapped around a conversation.Controller.
All controller state changes happen inside Update; the blocking work runs in
commands and reports back as messages.

# Sending

Enter calls Controller.Begin, which appends the user message at once. The
network call runs in a command that calls Controller.Execute and returns a
responseMsg, and Update hands that to Controller.Settle. Input is disabled
and a "Thinking..." spinner shows until the reply lands.

# Voice

ctrl+r starts a speech session. Each event is read from the session channel
by its own command, so the channel is drained one event per Update cycle.

# Notifications

The controller reports to a conversation.Recorder. Update drains it after
every message and turns each notification into a toast.
*/
package chat
