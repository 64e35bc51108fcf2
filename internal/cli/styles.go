// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/medichat-tui/internal/ui/styles"
)

func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

// Shared styles for line-mode output.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.MedicalBlue)

	LabelStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary).
			Width(18)

	ValueStyle = lipgloss.NewStyle().
			Foreground(styles.TextPrimary)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(styles.Green).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(styles.Red).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	DimStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	PromptStyle = lipgloss.NewStyle().
			Foreground(styles.Teal).
			Bold(true)

	AssistantStyle = lipgloss.NewStyle().
			Foreground(styles.MedicalBlue).
			Bold(true)
)

// labelValue renders an aligned "label  value" line.
func labelValue(label, value string) string {
	return LabelStyle.Render(label) + ValueStyle.Render(value)
}
