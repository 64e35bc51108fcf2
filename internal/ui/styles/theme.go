// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// Screens
	App        lipgloss.Style
	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Paragraph  lipgloss.Style
	Card       lipgloss.Style
	Disclaimer lipgloss.Style
	Link       lipgloss.Style
	Hint       lipgloss.Style
	KeyHint    lipgloss.Style

	// Chat header and footer
	Header      lipgloss.Style
	HeaderBrand lipgloss.Style
	HeaderTag   lipgloss.Style
	Footer      lipgloss.Style

	// Messages
	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	SenderLabel     lipgloss.Style
	Timestamp       lipgloss.Style

	// Input area
	InputContainer lipgloss.Style
	InputDisabled  lipgloss.Style
	Thinking       lipgloss.Style
	Listening      lipgloss.Style

	// Quick replies
	QuickReply         lipgloss.Style
	QuickReplySelected lipgloss.Style

	// Errors
	ErrorText lipgloss.Style
}

// NewTheme creates a theme. mode is "dark", "light" or "auto"; "auto"
// asks the terminal.
func NewTheme(mode string) *Theme {
	profile := termenv.ColorProfile()

	var isDark bool
	switch strings.ToLower(mode) {
	case "dark":
		isDark = true
		lipgloss.SetHasDarkBackground(true)
	case "light":
		isDark = false
		lipgloss.SetHasDarkBackground(false)
	default:
		isDark = termenv.HasDarkBackground()
	}

	t := &Theme{
		IsDark:       isDark,
		ColorProfile: profile,
	}
	t.initStyles()
	return t
}

// HasColor reports whether the terminal renders any color at all.
func (t *Theme) HasColor() bool {
	return t.ColorProfile != termenv.Ascii
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle().Padding(0, 1)

	t.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(MedicalBlue)

	t.Subtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.Paragraph = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.Card = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(1, 2)

	t.Disclaimer = lipgloss.NewStyle().
		Foreground(Red).
		Bold(true)

	// Underline gives links a non-color cue
	t.Link = lipgloss.NewStyle().
		Foreground(Sky).
		Underline(true)

	t.Hint = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.KeyHint = lipgloss.NewStyle().
		Foreground(MedicalBlue).
		Bold(true)

	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)

	t.HeaderBrand = lipgloss.NewStyle().
		Bold(true).
		Foreground(MedicalBlue).
		Background(SurfaceDim)

	t.HeaderTag = lipgloss.NewStyle().
		Foreground(Red).
		Background(SurfaceDim)

	t.Footer = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 1)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 1)

	t.SenderLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextSecondary)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(MedicalBlue).
		Padding(0, 1)

	t.InputDisabled = t.InputContainer.
		BorderForeground(Overlay)

	t.Thinking = lipgloss.NewStyle().
		Foreground(MedicalBlue).
		Italic(true)

	t.Listening = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.QuickReply = lipgloss.NewStyle().
		Foreground(Teal).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.QuickReplySelected = t.QuickReply.
		BorderForeground(Teal).
		Bold(true)

	t.ErrorText = lipgloss.NewStyle().
		Foreground(Red)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// BubbleWidth returns the maximum message bubble width for the current size.
func (t *Theme) BubbleWidth() int {
	w := t.Width * 3 / 4
	if t.Width < 60 {
		w = t.Width - 4
	}
	if w < 20 {
		w = 20
	}
	return w
}
