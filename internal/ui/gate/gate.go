// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gate provides the API key entry screen of the medichat TUI.
package gate

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/medichat-tui/internal/credential"
	"github.com/jeranaias/medichat-tui/internal/ui/styles"
	"github.com/jeranaias/medichat-tui/internal/util"
)

// KeyStudioURL is where users create a Gemini API key.
const KeyStudioURL = "https://aistudio.google.com/app/apikey"

// AcceptedMsg reports that a key passed validation and was stored.
type AcceptedMsg struct {
	Key string
}

// BackMsg asks the parent to leave the gate.
type BackMsg struct{}

// submittedMsg is the result of a Submit running off the Update loop.
type submittedMsg struct {
	key string
	err error
}

// Submitter stores a candidate key. *credential.Gate satisfies it.
type Submitter interface {
	Submit(ctx context.Context, candidate string) (string, error)
}

// Model is the Bubble Tea model for the key entry screen.
type Model struct {
	theme  *styles.Theme
	gate   Submitter
	input  textinput.Model
	submit key.Binding
	back   key.Binding

	saving bool
	err    string

	width  int
	height int
}

// New creates the gate screen.
func New(theme *styles.Theme, gate Submitter) Model {
	if theme == nil {
		theme = styles.NewTheme("auto")
	}
	ti := textinput.New()
	ti.Placeholder = "Enter your Gemini API key..."
	ti.Prompt = "> "
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.CharLimit = 256
	ti.Width = 48
	ti.Focus()

	return Model{
		theme:  theme,
		gate:   gate,
		input:  ti,
		submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "continue")),
		back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Err returns the last storage error shown on screen.
func (m Model) Err() string {
	return m.err
}

// SetError shows msg under the input. The parent uses it when a stored key
// cannot be turned into a client.
func (m *Model) SetError(msg string) {
	m.err = msg
}

// Update handles messages for the gate screen.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w := msg.Width - 16
		if w > 60 {
			w = 60
		}
		if w < 16 {
			w = 16
		}
		m.input.Width = w
		return m, nil

	case submittedMsg:
		m.saving = false
		switch {
		case msg.err == nil:
			m.input.Reset()
			return m, func() tea.Msg { return AcceptedMsg{Key: msg.key} }
		case errors.Is(msg.err, credential.ErrEmptyCredential),
			errors.Is(msg.err, credential.ErrCredentialTooShort):
			// Rejected keys are ignored without comment
			return m, nil
		default:
			log.Printf("[gate] storing key failed: %v", msg.err)
			m.err = "Could not save the key: " + msg.err.Error()
			return m, nil
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.back):
			return m, func() tea.Msg { return BackMsg{} }
		case key.Matches(msg, m.submit):
			if m.saving {
				return m, nil
			}
			candidate := m.input.Value()
			if _, err := credential.Validate(candidate); err != nil {
				return m, nil
			}
			m.saving = true
			m.err = ""
			return m, submitCmd(m.gate, candidate)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func submitCmd(gate Submitter, candidate string) tea.Cmd {
	return func() tea.Msg {
		k, err := gate.Submit(context.Background(), candidate)
		return submittedMsg{key: k, err: err}
	}
}

// View renders the gate screen.
func (m Model) View() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	inner := width - 10
	if inner > 70 {
		inner = 70
	}
	t := m.theme

	var b strings.Builder
	b.WriteString(t.Title.Render("Setup Required"))
	b.WriteString("\n")
	b.WriteString(t.Subtitle.Render("Enter your Google Gemini API key to start chatting"))
	b.WriteString("\n\n")
	b.WriteString(t.SenderLabel.Render("Gemini API Key"))
	b.WriteString("\n")
	b.WriteString(t.InputContainer.Render(m.input.View()))
	b.WriteString("\n")
	if m.saving {
		b.WriteString(t.Hint.Render("Saving..."))
	} else if m.err != "" {
		b.WriteString(t.ErrorText.Render(util.Wrap(m.err, inner)))
	} else {
		b.WriteString(t.Hint.Render("Keys are at least 10 characters."))
	}
	b.WriteString("\n\n")

	b.WriteString(t.SenderLabel.Render("How to get your API key:"))
	b.WriteString("\n")
	steps := []string{
		"Visit " + t.Link.Render(KeyStudioURL),
		"Sign in with your Google account",
		"Click \"Create API Key\" and copy it",
		"Paste the key above and press enter",
	}
	for i, step := range steps {
		b.WriteString(t.Paragraph.Render(string(rune('1'+i)) + ". " + step))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	privacy := []string{
		"Your API key is stored locally on this machine only.",
		"Conversations are not saved after you quit.",
		"Never share your API key with anyone.",
	}
	for _, note := range privacy {
		b.WriteString(t.Hint.Render("• " + util.Wrap(note, inner-2)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(t.KeyHint.Render("enter") + t.Hint.Render(" continue   ") +
		t.KeyHint.Render("esc") + t.Hint.Render(" back"))

	card := t.Card.Width(inner + 6).Render(b.String())
	if m.height > 0 {
		return lipgloss.Place(width, m.height, lipgloss.Center, lipgloss.Center, card)
	}
	return card
}
