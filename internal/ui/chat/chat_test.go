// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/medichat-tui/internal/conversation"
	"github.com/jeranaias/medichat-tui/internal/model"
	"github.com/jeranaias/medichat-tui/internal/speech"
	"github.com/jeranaias/medichat-tui/internal/ui/styles"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

type generatorFunc func(ctx context.Context, prompt string) (string, error)

func (f generatorFunc) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

type fakeRecognizer struct {
	events []speech.Event
}

func (r *fakeRecognizer) Available() bool { return true }

func (r *fakeRecognizer) Start(ctx context.Context, opts speech.Options) (<-chan speech.Event, error) {
	ch := make(chan speech.Event, len(r.events))
	for _, ev := range r.events {
		ch <- ev
	}
	close(ch)
	return ch, nil
}

func newTestModel(gen conversation.Generator, rec speech.Recognizer) Model {
	notes := &conversation.Recorder{}
	ctrl := conversation.New(conversation.Options{
		Session:    conversation.Session{Credential: "aVeryLongKey1234"},
		Generator:  gen,
		Recognizer: rec,
		Notifier:   notes,
	})
	m := New(Options{
		Theme:         styles.NewTheme("dark"),
		Controller:    ctrl,
		Notifications: notes,
	})
	return update(m, tea.WindowSizeMsg{Width: 100, Height: 40})
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func updateCmd(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func typeText(m Model, s string) Model {
	return update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

// collect runs cmd and any batched commands, returning their messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func findResponse(t *testing.T, cmd tea.Cmd) responseMsg {
	t.Helper()
	for _, msg := range collect(cmd) {
		if r, ok := msg.(responseMsg); ok {
			return r
		}
	}
	t.Fatal("no responseMsg produced")
	return responseMsg{}
}

func lastMessage(m Model) model.Message {
	msgs := m.ctrl.Messages()
	return msgs[len(msgs)-1]
}

func hasToast(m Model, title string) bool {
	for _, toast := range m.Toasts() {
		if toast.Title == title {
			return true
		}
	}
	return false
}

// =============================================================================
// SENDING
// =============================================================================

func TestEnter_SendsAndSettles(t *testing.T) {
	m := newTestModel(generatorFunc(func(ctx context.Context, prompt string) (string, error) {
		return "Rest and fluids.", nil
	}), nil)

	m = typeText(m, "What helps a cold?")
	if got := m.ctrl.Draft(); got != "What helps a cold?" {
		t.Fatalf("Draft = %q, want typed text", got)
	}

	m, cmd := updateCmd(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.ctrl.Len() != 2 {
		t.Fatalf("Len = %d after enter, want 2 (user message appended first)", m.ctrl.Len())
	}
	if !m.ctrl.Sending() {
		t.Error("controller should be sending")
	}
	if m.input.Value() != "" {
		t.Errorf("input = %q, want cleared", m.input.Value())
	}
	if !strings.Contains(m.View(), "Thinking...") {
		t.Error("view should show the thinking indicator while sending")
	}

	m = update(m, findResponse(t, cmd))
	if m.ctrl.Len() != 3 {
		t.Fatalf("Len = %d after reply, want 3", m.ctrl.Len())
	}
	if got := lastMessage(m).Content; got != "Rest and fluids." {
		t.Errorf("reply = %q", got)
	}
	if m.ctrl.Sending() {
		t.Error("controller should be idle after the reply")
	}
}

func TestEnter_FailureShowsFallbackAndToast(t *testing.T) {
	m := newTestModel(generatorFunc(func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("boom")
	}), nil)

	m = typeText(m, "hello")
	m, cmd := updateCmd(m, tea.KeyMsg{Type: tea.KeyEnter})
	m = update(m, findResponse(t, cmd))

	if got := lastMessage(m).Content; got != conversation.FallbackReply {
		t.Errorf("reply = %q, want fallback", got)
	}
	if !hasToast(m, "Error") {
		t.Errorf("expected an Error toast, got %+v", m.Toasts())
	}

	m = update(m, tea.KeyMsg{Type: tea.KeyCtrlX})
	if len(m.Toasts()) != 0 {
		t.Error("ctrl+x should dismiss the toast")
	}
}

func TestEnter_EmptyIsIgnored(t *testing.T) {
	m := newTestModel(generatorFunc(func(ctx context.Context, prompt string) (string, error) {
		t.Error("no request expected")
		return "", nil
	}), nil)

	m = typeText(m, "   ")
	m, cmd := updateCmd(m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("blank input should not start a request")
	}
	if m.ctrl.Len() != 1 {
		t.Errorf("Len = %d, want 1", m.ctrl.Len())
	}
	if len(m.Toasts()) != 0 {
		t.Error("blank input should be silent")
	}
}

func TestInputDisabledWhileSending(t *testing.T) {
	m := newTestModel(generatorFunc(func(ctx context.Context, prompt string) (string, error) {
		return "ok", nil
	}), nil)

	m = typeText(m, "first")
	m, _ = updateCmd(m, tea.KeyMsg{Type: tea.KeyEnter})

	m = typeText(m, "second")
	if m.input.Value() != "" {
		t.Errorf("typing while sending changed the input to %q", m.input.Value())
	}
	_, cmd := updateCmd(m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("enter while sending should do nothing")
	}
}

// =============================================================================
// QUICK REPLIES
// =============================================================================

func TestQuickReply_AltNumberSends(t *testing.T) {
	var prompt string
	m := newTestModel(generatorFunc(func(ctx context.Context, p string) (string, error) {
		prompt = p
		return "Clean the cut.", nil
	}), nil)

	if !m.replies.Visible() {
		t.Fatal("quick replies should be visible before the first message")
	}

	m, cmd := updateCmd(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}, Alt: true})
	if got := lastMessage(m).Content; got != "First aid for cuts" {
		t.Fatalf("user message = %q, want the second quick reply", got)
	}
	m = update(m, findResponse(t, cmd))

	if !strings.Contains(prompt, "First aid for cuts") {
		t.Errorf("prompt does not carry the quick reply: %q", prompt)
	}
	if m.replies.Visible() {
		t.Error("quick replies should hide once the conversation started")
	}
}

func TestQuickReply_TabAndCtrlO(t *testing.T) {
	m := newTestModel(generatorFunc(func(ctx context.Context, p string) (string, error) {
		return "ok", nil
	}), nil)

	m = update(m, tea.KeyMsg{Type: tea.KeyTab})
	m = update(m, tea.KeyMsg{Type: tea.KeyTab})
	m = update(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m, _ = updateCmd(m, tea.KeyMsg{Type: tea.KeyCtrlO})

	if got := lastMessage(m).Content; got != "First aid for cuts" {
		t.Errorf("user message = %q, want the selected quick reply", got)
	}
}

func TestQuickReplyNumber(t *testing.T) {
	tests := map[string]int{"alt+1": 1, "alt+6": 6, "alt+0": 0, "1": 0, "ctrl+1": 0, "alt+a": 0}
	for in, want := range tests {
		if got := quickReplyNumber(in); got != want {
			t.Errorf("quickReplyNumber(%q) = %d, want %d", in, got, want)
		}
	}
}

// =============================================================================
// VOICE
// =============================================================================

func TestVoice_Unsupported(t *testing.T) {
	m := newTestModel(nil, nil)
	m, cmd := updateCmd(m, tea.KeyMsg{Type: tea.KeyCtrlR})
	if cmd != nil {
		t.Error("no speech session should start")
	}
	if !hasToast(m, "Not Supported") {
		t.Errorf("expected a Not Supported toast, got %+v", m.Toasts())
	}
}

func TestVoice_TranscriptFillsInput(t *testing.T) {
	rec := &fakeRecognizer{events: []speech.Event{
		{Kind: speech.EventStarted},
		{Kind: speech.EventTranscript, Transcript: "  I have a cough "},
		{Kind: speech.EventEnded},
	}}
	m := newTestModel(nil, rec)

	m, cmd := updateCmd(m, tea.KeyMsg{Type: tea.KeyCtrlR})
	if cmd == nil {
		t.Fatal("speech session should start")
	}

	msg := cmd()
	started, ok := msg.(speechEventMsg)
	if !ok || started.event.Kind != speech.EventStarted {
		t.Fatalf("first message = %#v, want Started", msg)
	}
	m, cmd = updateCmd(m, started)
	if !m.ctrl.Listening() {
		t.Error("should be listening after Started")
	}
	if !strings.Contains(m.View(), "Listening") {
		t.Error("view should show the listening indicator")
	}

	for i := 0; i < 5 && cmd != nil; i++ {
		m, cmd = updateCmd(m, cmd())
	}

	if got := m.input.Value(); got != "I have a cough" {
		t.Errorf("input = %q, want the transcript", got)
	}
	if m.ctrl.Listening() {
		t.Error("should stop listening after the session")
	}
	if m.ctrl.Len() != 1 {
		t.Error("a transcript must never be sent automatically")
	}
}

// =============================================================================
// NAVIGATION
// =============================================================================

func TestEsc_RequestsBack(t *testing.T) {
	m := newTestModel(nil, nil)
	_, cmd := updateCmd(m, tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc should return a command")
	}
	if _, ok := cmd().(BackMsg); !ok {
		t.Error("esc should produce BackMsg")
	}
}

func TestView_ShowsGreetingAndChrome(t *testing.T) {
	m := newTestModel(nil, nil)
	view := m.View()
	for _, want := range []string{"Dr. MediChat AI", "Not for emergencies", "Quick questions"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
