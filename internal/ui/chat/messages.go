// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/medichat-tui/internal/conversation"
	"github.com/jeranaias/medichat-tui/internal/speech"
)

// responseMsg carries the outcome of one request back into Update.
type responseMsg struct {
	turn   conversation.Turn
	result conversation.Result
}

// speechEventMsg carries one event from a speech session.
type speechEventMsg struct {
	event  speech.Event
	events <-chan speech.Event
}

// speechDoneMsg is sent when a speech session channel closes.
type speechDoneMsg struct{}

// BackMsg asks the parent to leave the chat screen.
type BackMsg struct{}

// executeCmd runs the network half of a turn.
func executeCmd(ctrl *conversation.Controller, turn conversation.Turn) tea.Cmd {
	return func() tea.Msg {
		return responseMsg{turn: turn, result: ctrl.Execute(ctrl.Context(), turn)}
	}
}

// waitForSpeech reads the next event of a speech session.
func waitForSpeech(events <-chan speech.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return speechDoneMsg{}
		}
		return speechEventMsg{event: ev, events: events}
	}
}

func backCmd() tea.Msg { return BackMsg{} }
