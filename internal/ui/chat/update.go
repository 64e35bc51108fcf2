// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"log"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/medichat-tui/internal/speech"
	"github.com/jeranaias/medichat-tui/internal/ui/components"
)

// Update handles messages for the chat screen.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.viewport, cmd = m.viewport.Update(msg)

	case responseMsg:
		m.ctrl.Settle(msg.turn, msg.result)
		if !m.ctrl.Sending() {
			cmd = m.input.Focus()
		}

	case speechEventMsg:
		m.ctrl.HandleSpeechEvent(msg.event)
		if msg.event.Kind == speech.EventTranscript {
			m.input.SetValue(m.ctrl.Draft())
			m.input.CursorEnd()
		}
		cmd = waitForSpeech(msg.events)

	case speechDoneMsg:
		if m.ctrl.Listening() {
			m.ctrl.HandleSpeechEvent(speech.Event{Kind: speech.EventEnded})
		}

	case spinner.TickMsg:
		// Let the spinner stop once nothing is outstanding
		if m.ctrl.Sending() {
			m.spinner, cmd = m.spinner.Update(msg)
		}

	case components.ToastTickMsg:
		m.toasts.Tick()
		cmd = components.ToastTickCmd()
	}

	m.refresh()
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.ctrl.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		return m, backCmd

	case key.Matches(msg, m.keys.Dismiss):
		m.toasts.DismissNewest()
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	// Input is disabled while a reply is outstanding
	if m.ctrl.Sending() {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Send):
		return m.send(m.input.Value())

	case key.Matches(msg, m.keys.Voice):
		return m.startVoice()

	case key.Matches(msg, m.keys.NextReply) && m.replies.Visible():
		m.replies.Next()
		return m, nil

	case key.Matches(msg, m.keys.PrevReply) && m.replies.Visible():
		m.replies.Prev()
		return m, nil

	case key.Matches(msg, m.keys.AskSelected):
		if text, ok := m.replies.Current(); ok {
			return m.quickReply(text)
		}
		return m, nil

	case key.Matches(msg, m.keys.AskNumber):
		if text, ok := m.replies.At(quickReplyNumber(msg.String())); ok {
			return m.quickReply(text)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.ctrl.SetDraft(m.input.Value())
	m.refresh()
	return m, cmd
}

// send starts a turn. The user message is on screen before the request
// leaves; the reply arrives later as a responseMsg.
func (m Model) send(text string) (tea.Model, tea.Cmd) {
	turn, err := m.ctrl.Begin(text)
	if err != nil {
		m.refresh()
		return m, nil
	}
	m.input.Reset()
	m.input.Blur()
	m.refresh()
	return m, tea.Batch(executeCmd(m.ctrl, turn), m.spinner.Tick)
}

func (m Model) quickReply(text string) (tea.Model, tea.Cmd) {
	m.ctrl.SetDraft(text)
	m.input.SetValue(text)
	return m.send(text)
}

func (m Model) startVoice() (tea.Model, tea.Cmd) {
	events, err := m.ctrl.StartVoiceCapture()
	if err != nil {
		log.Printf("[chat] voice capture not started: %v", err)
		m.refresh()
		return m, nil
	}
	m.refresh()
	return m, waitForSpeech(events)
}
