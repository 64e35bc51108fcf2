// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/medichat-tui/internal/conversation"
	"github.com/jeranaias/medichat-tui/internal/ui/components"
	"github.com/jeranaias/medichat-tui/internal/ui/styles"
)

// inputPlaceholder is shown in the empty text field.
const inputPlaceholder = "Describe your symptoms or ask a health question..."

// =============================================================================
// CHAT MODEL
// =============================================================================

// Options configures the chat screen.
type Options struct {
	Theme      *styles.Theme
	Controller *conversation.Controller

	// Notifications must be the Notifier the controller was built with.
	Notifications *conversation.Recorder

	ShowTimestamps bool
	Markdown       bool
}

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	theme *styles.Theme
	keys  KeyMap

	ctrl  *conversation.Controller
	notes *conversation.Recorder

	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model
	help     help.Model
	toasts   *components.ToastManager
	replies  components.QuickReplies
	markdown *components.MarkdownRenderer

	showTimestamps bool

	width  int
	height int

	// What the viewport content was last rendered from
	renderedLen   int
	renderedWidth int
}

// New creates the chat screen for ctrl.
func New(opts Options) Model {
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme("auto")
	}
	notes := opts.Notifications
	if notes == nil {
		notes = &conversation.Recorder{}
	}

	ti := textinput.New()
	ti.Placeholder = inputPlaceholder
	ti.Prompt = "> "
	ti.CharLimit = 4000
	ti.Width = 72
	ti.Focus()

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(theme.Thinking),
	)

	var md *components.MarkdownRenderer
	if opts.Markdown {
		md = components.NewMarkdownRenderer(theme.IsDark)
	}

	m := Model{
		theme:          theme,
		keys:           DefaultKeyMap(),
		ctrl:           opts.Controller,
		notes:          notes,
		input:          ti,
		spinner:        sp,
		viewport:       viewport.New(80, 20),
		help:           help.New(),
		toasts:         components.NewToastManager(),
		markdown:       md,
		showTimestamps: opts.ShowTimestamps,
		renderedLen:    -1,
	}
	m.input.SetValue(m.ctrl.Draft())
	m.refresh()
	return m
}

// Init starts the cursor blink and the toast clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, components.ToastTickCmd())
}

// Controller returns the controller behind the screen.
func (m Model) Controller() *conversation.Controller {
	return m.ctrl
}

// Toasts returns the visible toasts.
func (m Model) Toasts() []components.Toast {
	return m.toasts.Toasts()
}

// =============================================================================
// STATE SYNC
// =============================================================================

// refresh pulls controller state into the widgets. It runs after every
// Update so notifications never wait for the next key press.
func (m *Model) refresh() {
	for _, n := range m.notes.Drain() {
		m.toasts.AddNotification(n)
	}
	m.replies.SetItems(m.ctrl.QuickReplies())
	m.layout()

	n := m.ctrl.Len()
	if n == m.renderedLen && m.width == m.renderedWidth {
		return
	}
	follow := n != m.renderedLen || m.viewport.AtBottom()
	m.viewport.SetContent(m.renderMessages())
	m.renderedLen = n
	m.renderedWidth = m.width
	if follow {
		m.viewport.GotoBottom()
	}
}

// layout sizes the viewport to whatever the chrome leaves free.
func (m *Model) layout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.theme.SetSize(m.width, m.height)

	inputWidth := m.width - 8
	if inputWidth < 10 {
		inputWidth = 10
	}
	m.input.Width = inputWidth

	used := lipgloss.Height(components.RenderHeader(m.theme, m.width))
	for _, part := range m.bottomSections() {
		used += lipgloss.Height(part)
	}
	h := m.height - used
	if h < 3 {
		h = 3
	}
	m.viewport.Width = m.width
	m.viewport.Height = h
}

func (m *Model) renderMessages() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	return components.RenderMessages(m.theme, m.ctrl.Messages(), components.MessageOptions{
		Width:         width - 1,
		ShowTimestamp: m.showTimestamps,
		Markdown:      m.markdown,
	})
}
