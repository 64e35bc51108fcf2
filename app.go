// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"fmt"
	"io"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/medichat-tui/internal/ui/chat"
	"github.com/jeranaias/medichat-tui/internal/ui/components"
	"github.com/jeranaias/medichat-tui/internal/ui/gate"
	"github.com/jeranaias/medichat-tui/internal/ui/styles"
)

// =============================================================================
// APPLICATION MODEL
// =============================================================================

// State represents the current application screen.
type State int

const (
	StateLanding State = iota // Product summary, shown first
	StateGate                 // API key entry
	StateChat                 // Conversation
)

func (s State) String() string {
	switch s {
	case StateLanding:
		return "landing"
	case StateGate:
		return "gate"
	case StateChat:
		return "chat"
	default:
		return "unknown"
	}
}

// ChatFactory builds a chat screen for a credential. The closer releases
// the session behind it.
type ChatFactory func(key string) (chat.Model, io.Closer, error)

// Model is the main Bubble Tea model for the application.
type Model struct {
	state State
	theme *styles.Theme

	// Credential for the session, empty until the gate accepts one
	credential string

	gate    gate.Model
	chat    *chat.Model
	newChat ChatFactory
	closers []io.Closer

	width  int
	height int
}

// NewModel creates the application model. key is the stored credential,
// or empty if none is stored.
func NewModel(theme *styles.Theme, submitter gate.Submitter, key string, newChat ChatFactory) *Model {
	if theme == nil {
		theme = styles.NewTheme("auto")
	}
	return &Model{
		state:      StateLanding,
		theme:      theme,
		credential: key,
		gate:       gate.New(theme, submitter),
		newChat:    newChat,
	}
}

// State returns the current screen.
func (m *Model) State() State {
	return m.state
}

// Close releases every session opened by the model. It is safe to call
// more than once.
func (m *Model) Close() {
	for _, c := range m.closers {
		if err := c.Close(); err != nil {
			log.Printf("[main] close session: %v", err)
		}
	}
	m.closers = nil
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		cmds := []tea.Cmd{m.updateGate(msg)}
		if m.chat != nil {
			cmds = append(cmds, m.updateChat(msg))
		}
		return m, batch(cmds...)

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		if m.state == StateChat && m.chat != nil {
			return m, m.updateChat(msg)
		}
		return m, nil

	case gate.AcceptedMsg:
		return m, m.openChat(msg.Key)

	case gate.BackMsg, chat.BackMsg:
		m.state = StateLanding
		return m, nil
	}

	// Async results and ticks belong to whichever screen started them
	var cmds []tea.Cmd
	if m.chat != nil {
		cmds = append(cmds, m.updateChat(msg))
	}
	if m.state == StateGate {
		cmds = append(cmds, m.updateGate(msg))
	}
	return m, batch(cmds...)
}

// batch drops nil commands and skips the BatchMsg wrapper when a single
// command remains.
func batch(cmds ...tea.Cmd) tea.Cmd {
	var valid []tea.Cmd
	for _, c := range cmds {
		if c != nil {
			valid = append(valid, c)
		}
	}
	switch len(valid) {
	case 0:
		return nil
	case 1:
		return valid[0]
	default:
		return tea.Batch(valid...)
	}
}

// handleKeyPress routes keys to the active screen.
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.Close()
		return m, tea.Quit
	}

	switch m.state {
	case StateLanding:
		switch msg.String() {
		case "enter":
			return m, m.proceed()
		case "q", "esc":
			m.Close()
			return m, tea.Quit
		}
		return m, nil
	case StateGate:
		return m, m.updateGate(msg)
	case StateChat:
		return m, m.updateChat(msg)
	}
	return m, nil
}

// proceed leaves the landing screen: to the chat when a credential is
// known, otherwise to the gate.
func (m *Model) proceed() tea.Cmd {
	if m.credential == "" {
		m.state = StateGate
		return m.gate.Init()
	}
	if m.chat != nil {
		m.state = StateChat
		return nil
	}
	return m.openChat(m.credential)
}

// openChat creates the chat screen for key and switches to it.
func (m *Model) openChat(key string) tea.Cmd {
	if m.newChat == nil {
		m.gate.SetError("Chat is not available.")
		m.state = StateGate
		return nil
	}
	c, closer, err := m.newChat(key)
	if err != nil {
		log.Printf("[main] open chat: %v", err)
		m.gate.SetError(fmt.Sprintf("Could not start the chat: %v", err))
		m.state = StateGate
		return m.gate.Init()
	}

	m.Close()
	m.credential = key
	m.chat = &c
	if closer != nil {
		m.closers = append(m.closers, closer)
	}
	m.state = StateChat

	cmds := []tea.Cmd{m.chat.Init()}
	if m.width > 0 {
		cmds = append(cmds, m.updateChat(tea.WindowSizeMsg{Width: m.width, Height: m.height}))
	}
	return batch(cmds...)
}

func (m *Model) updateGate(msg tea.Msg) tea.Cmd {
	updated, cmd := m.gate.Update(msg)
	if g, ok := updated.(gate.Model); ok {
		m.gate = g
	}
	return cmd
}

func (m *Model) updateChat(msg tea.Msg) tea.Cmd {
	updated, cmd := m.chat.Update(msg)
	if c, ok := updated.(chat.Model); ok {
		m.chat = &c
	}
	return cmd
}

// View renders the current screen.
func (m *Model) View() string {
	switch m.state {
	case StateGate:
		return m.gate.View()
	case StateChat:
		if m.chat != nil {
			return m.chat.View()
		}
	}

	landing := components.RenderLanding(m.theme, m.width)
	if m.width == 0 || m.height == 0 {
		return landing
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, landing)
}
