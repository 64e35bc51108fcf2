// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/medichat-tui/internal/ui/components"
)

// View renders the chat screen.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	sections := []string{
		components.RenderHeader(m.theme, m.width),
		m.viewport.View(),
	}
	sections = append(sections, m.bottomSections()...)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// bottomSections are the parts below the message viewport, top to bottom.
// layout measures the same strings so the viewport fills the rest.
func (m Model) bottomSections() []string {
	width := m.width
	if width <= 0 {
		width = 80
	}

	var parts []string
	if m.replies.Visible() && !m.ctrl.Sending() {
		parts = append(parts, m.replies.Render(m.theme, width))
	}
	if toasts := m.toasts.Toasts(); len(toasts) > 0 {
		parts = append(parts, components.RenderToastStack(toasts, width))
	}
	parts = append(parts,
		m.statusLine(),
		m.inputBox(width),
		m.theme.Hint.Render(m.help.ShortHelpView(m.keys.ShortHelp())),
		components.RenderFooter(m.theme, width),
	)
	return parts
}

func (m Model) statusLine() string {
	switch {
	case m.ctrl.Sending():
		return m.spinner.View() + " " + m.theme.Thinking.Render("Thinking...")
	case m.ctrl.Listening():
		return m.theme.Listening.Render("● Listening... speak now")
	default:
		return ""
	}
}

func (m Model) inputBox(width int) string {
	style := m.theme.InputContainer
	if m.ctrl.Sending() {
		style = m.theme.InputDisabled
	}
	return style.Width(width - 2).Render(m.input.View())
}
