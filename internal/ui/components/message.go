// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/medichat-tui/internal/model"
	"github.com/jeranaias/medichat-tui/internal/ui/styles"
	"github.com/jeranaias/medichat-tui/internal/util"
)

// =============================================================================
// MARKDOWN
// =============================================================================

// MarkdownRenderer renders assistant replies with glamour. The underlying
// renderer is rebuilt only when the wrap width changes.
type MarkdownRenderer struct {
	mu       sync.Mutex
	style    string
	width    int
	renderer *glamour.TermRenderer
}

// NewMarkdownRenderer creates a renderer using glamour's "dark" or
// "light" standard style.
func NewMarkdownRenderer(dark bool) *MarkdownRenderer {
	style := "light"
	if dark {
		style = "dark"
	}
	return &MarkdownRenderer{style: style}
}

// Render renders content wrapped to width. On any glamour failure the
// content is returned word-wrapped but otherwise untouched.
func (r *MarkdownRenderer) Render(content string, width int) string {
	if r == nil {
		return util.Wrap(content, width)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.renderer == nil || r.width != width {
		tr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(r.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return util.Wrap(content, width)
		}
		r.renderer = tr
		r.width = width
	}

	out, err := r.renderer.Render(content)
	if err != nil {
		return util.Wrap(content, width)
	}
	return strings.Trim(out, "\n")
}

// =============================================================================
// MESSAGE BUBBLE
// =============================================================================

// MessageOptions controls how a message is drawn.
type MessageOptions struct {
	// Width is the full chat area width
	Width int
	// ShowTimestamp adds HH:MM next to the sender
	ShowTimestamp bool
	// Markdown renders assistant content; nil means plain text
	Markdown *MarkdownRenderer
}

// RenderMessage renders one chat message as a bubble. User messages are
// right-aligned, assistant messages left-aligned.
func RenderMessage(theme *styles.Theme, msg model.Message, opts MessageOptions) string {
	width := opts.Width
	if width <= 0 {
		width = 80
	}
	bubbleWidth := width * 3 / 4
	if width < 60 {
		bubbleWidth = width - 4
	}
	if bubbleWidth < 16 {
		bubbleWidth = 16
	}
	// Border and padding take four columns
	contentWidth := bubbleWidth - 4

	label := msg.Sender.DisplayName()
	if opts.ShowTimestamp {
		label = theme.SenderLabel.Render(label) + " " + theme.Timestamp.Render(msg.Clock())
	} else {
		label = theme.SenderLabel.Render(label)
	}

	var body string
	var bubble lipgloss.Style
	if msg.IsUser() {
		body = util.Wrap(msg.Content, contentWidth)
		bubble = theme.UserBubble
	} else {
		if opts.Markdown != nil {
			body = opts.Markdown.Render(msg.Content, contentWidth)
		} else {
			body = util.Wrap(msg.Content, contentWidth)
		}
		bubble = theme.AssistantBubble
	}

	block := lipgloss.JoinVertical(lipgloss.Left, label, bubble.Render(body))
	if msg.IsUser() {
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, block)
	}
	return block
}

// RenderMessages renders the whole log separated by blank lines.
func RenderMessages(theme *styles.Theme, msgs []model.Message, opts MessageOptions) string {
	parts := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		parts = append(parts, RenderMessage(theme, msg, opts))
	}
	return strings.Join(parts, "\n\n")
}
