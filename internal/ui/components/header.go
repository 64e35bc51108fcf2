// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/medichat-tui/internal/ui/styles"
)

// Header and footer text.
const (
	HeaderBrand      = "Dr. MediChat AI"
	HeaderSubtitle   = "Medical Assistant"
	HeaderEmergency  = "Not for emergencies"
	FooterDisclaimer = "This AI assistant provides general health information and guidance only. " +
		"Always consult a healthcare professional for medical advice."
)

// RenderHeader renders the chat screen title bar across width columns.
func RenderHeader(theme *styles.Theme, width int) string {
	left := theme.HeaderBrand.Render(HeaderBrand) +
		theme.HeaderTag.Foreground(styles.TextSecondary).Render(" · "+HeaderSubtitle)
	right := theme.HeaderTag.Render(HeaderEmergency)

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		// Too narrow for both; the emergency tag wins
		return theme.Header.Width(width).Render(right)
	}
	spacer := lipgloss.NewStyle().Background(styles.SurfaceDim).Render(strings.Repeat(" ", gap))
	return theme.Header.Width(width).Render(left + spacer + right)
}

// RenderFooter renders the disclaimer line.
func RenderFooter(theme *styles.Theme, width int) string {
	return theme.Footer.Width(width).Align(lipgloss.Center).Render(FooterDisclaimer)
}
