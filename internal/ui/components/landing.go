// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/medichat-tui/internal/ui/styles"
	"github.com/jeranaias/medichat-tui/internal/util"
)

// Feature is one landing screen highlight.
type Feature struct {
	Title       string
	Description string
}

// LandingFeatures are shown on the landing screen.
var LandingFeatures = []Feature{
	{"Medical Guidance", "Reliable health information and general medical guidance powered by AI."},
	{"Privacy First", "Your key stays on this machine and conversations are never saved."},
	{"Always Available", "Ask health questions any time, no appointment needed."},
	{"Voice Input", "Dictate a question when a speech program is configured."},
}

// RenderLanding renders the landing screen body.
func RenderLanding(theme *styles.Theme, width int) string {
	if width <= 0 {
		width = 80
	}
	inner := width - 4
	if inner > 76 {
		inner = 76
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render("MediChat AI"))
	b.WriteString("  ")
	b.WriteString(theme.Subtitle.Render("Trusted Medical AI Assistant"))
	b.WriteString("\n\n")
	b.WriteString(theme.Paragraph.Render(util.Wrap(
		"Get instant medical guidance and health information from an AI-powered "+
			"assistant, right in your terminal.", inner)))
	b.WriteString("\n\n")

	cardWidth := (inner - 2) / 2
	if width < 60 {
		cardWidth = inner
	}
	cards := make([]string, 0, len(LandingFeatures))
	for _, f := range LandingFeatures {
		body := theme.KeyHint.Render(f.Title) + "\n" +
			theme.Hint.Render(util.Wrap(f.Description, cardWidth-6))
		cards = append(cards, theme.Card.Width(cardWidth).Render(body))
	}
	if width < 60 {
		b.WriteString(lipgloss.JoinVertical(lipgloss.Left, cards...))
	} else {
		for i := 0; i < len(cards); i += 2 {
			row := []string{cards[i]}
			if i+1 < len(cards) {
				row = append(row, " ", cards[i+1])
			}
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(theme.Disclaimer.Render(util.Wrap(
		"Emergency? Call 911 or your local emergency number. This assistant provides "+
			"general health information only.", inner)))
	b.WriteString("\n\n")
	b.WriteString(theme.KeyHint.Render("enter") + theme.Hint.Render(" start chat   ") +
		theme.KeyHint.Render("q") + theme.Hint.Render(" quit"))
	return b.String()
}
