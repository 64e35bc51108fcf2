// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
)

// maxQuickReplyKeys is how many alt+N shortcuts are bound.
const maxQuickReplyKeys = 9

// KeyMap defines the keyboard bindings for the chat screen.
type KeyMap struct {
	Send        key.Binding
	Voice       key.Binding
	NextReply   key.Binding
	PrevReply   key.Binding
	AskSelected key.Binding
	AskNumber   key.Binding
	Dismiss     key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Back        key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default key bindings for the chat screen.
func DefaultKeyMap() KeyMap {
	numbers := make([]string, 0, maxQuickReplyKeys)
	for i := 1; i <= maxQuickReplyKeys; i++ {
		numbers = append(numbers, "alt+"+strconv.Itoa(i))
	}

	return KeyMap{
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Voice: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("C-r", "voice"),
		),
		NextReply: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next suggestion"),
		),
		PrevReply: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "previous suggestion"),
		),
		AskSelected: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("C-o", "ask suggestion"),
		),
		AskNumber: key.NewBinding(
			key.WithKeys(numbers...),
			key.WithHelp("M-1..", "ask suggestion N"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("C-x", "dismiss"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("PgUp", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("PgDn", "scroll down"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the help line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.Voice, k.PageUp, k.Dismiss, k.Back, k.Quit}
}

// quickReplyNumber returns N for an alt+N key, or 0.
func quickReplyNumber(s string) int {
	if len(s) != len("alt+1") || s[:4] != "alt+" {
		return 0
	}
	n := int(s[4] - '0')
	if n < 1 || n > maxQuickReplyKeys {
		return 0
	}
	return n
}
