// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/medichat-tui/internal/gemini"
	"github.com/jeranaias/medichat-tui/internal/model"
	"github.com/jeranaias/medichat-tui/internal/speech"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrEmptyMessage is returned for blank input. Nothing else happens.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrNoCredential is returned when no API key is configured.
	ErrNoCredential = errors.New("no API key configured")

	// ErrNoGenerator is the failure recorded when a turn runs without a client.
	ErrNoGenerator = errors.New("no inference client configured")

	// ErrSpeechUnsupported is returned when voice capture is unavailable.
	ErrSpeechUnsupported = errors.New("voice input not supported")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("controller is closed")
)

// =============================================================================
// PHASE
// =============================================================================

// Phase is the state of the most recent turn.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSending
	PhaseSettled
	PhaseFailed
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSending:
		return "sending"
	case PhaseSettled:
		return "settled"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// quickReplies are the suggested first questions.
var quickReplies = []string{
	"What are common cold symptoms?",
	"First aid for cuts",
	"How to reduce fever?",
	"Signs of food poisoning",
	"When to see a doctor?",
	"Healthy diet tips",
}

// Generator produces a reply for a fully built prompt.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Session holds the per-process values fixed at construction.
type Session struct {
	Credential string
}

// Options configures a Controller.
type Options struct {
	Session    Session
	Generator  Generator
	Recognizer speech.Recognizer
	Notifier   Notifier

	// Locale is the speech recognition language. Defaults to en-US.
	Locale string
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller manages one conversation for the lifetime of the process.
// All methods are safe for concurrent use.
type Controller struct {
	mu        sync.Mutex
	log       *model.Log
	draft     string
	phase     Phase
	inFlight  int
	listening bool
	closed    bool

	session    Session
	generator  Generator
	recognizer speech.Recognizer
	notifier   Notifier
	locale     string

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a controller whose log holds only the greeting.
func New(opts Options) *Controller {
	if opts.Recognizer == nil {
		opts.Recognizer = speech.Unavailable{}
	}
	if opts.Notifier == nil {
		opts.Notifier = logNotifier{}
	}
	if opts.Locale == "" {
		opts.Locale = speech.DefaultLocale
	}
	opts.Session.Credential = strings.TrimSpace(opts.Session.Credential)

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		log:        model.NewSeededLog(),
		session:    opts.Session,
		generator:  opts.Generator,
		recognizer: opts.Recognizer,
		notifier:   opts.Notifier,
		locale:     opts.Locale,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Context returns the controller's lifetime context. It is cancelled by Close.
func (c *Controller) Context() context.Context {
	return c.ctx
}

// Close cancels in-flight requests and speech sessions.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.cancel()
}

// Messages returns a copy of the log.
func (c *Controller) Messages() []model.Message {
	return c.log.Messages()
}

// Len returns the number of messages in the log.
func (c *Controller) Len() int {
	return c.log.Len()
}

// Phase returns the state of the most recent turn.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Sending reports whether any request is outstanding.
func (c *Controller) Sending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight > 0
}

// HasCredential reports whether the session carries an API key.
func (c *Controller) HasCredential() bool {
	return c.session.Credential != ""
}

// Draft returns the current input draft.
func (c *Controller) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// SetDraft replaces the input draft.
func (c *Controller) SetDraft(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = text
}

// QuickReplies returns the suggested prompts while the log holds only the
// greeting, and nil once the conversation has started.
func (c *Controller) QuickReplies() []string {
	if c.log.Len() != 1 {
		return nil
	}
	out := make([]string, len(quickReplies))
	copy(out, quickReplies)
	return out
}

func (c *Controller) notify(kind NotificationKind, title, desc string) {
	c.notifier.Notify(Notification{Kind: kind, Title: title, Description: desc})
}

// =============================================================================
// SENDING
// =============================================================================

// Turn is a request that has been accepted but not yet settled.
type Turn struct {
	Message model.Message // the user message already appended
	Prompt  string        // full prompt sent to the model
	Started time.Time
}

// Result is the outcome of Execute.
type Result struct {
	Text string
	Err  error
}

// Begin validates text, appends the user message, clears the draft and
// enters the sending phase. On error the log is untouched.
func (c *Controller) Begin(text string) (Turn, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Turn{}, ErrEmptyMessage
	}
	if !c.HasCredential() {
		c.notify(NotifyError, titleKeyRequired, descKeyRequired)
		return Turn{}, ErrNoCredential
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return Turn{}, ErrClosed
	}

	msg := model.NewUserMessage(trimmed)
	c.log.Append(msg)
	c.draft = ""
	c.phase = PhaseSending
	c.inFlight++

	return Turn{
		Message: msg,
		Prompt:  gemini.BuildPrompt(text),
		Started: time.Now(),
	}, nil
}

// Execute performs the network call for turn. It does not touch
// controller state and may run on any goroutine.
func (c *Controller) Execute(ctx context.Context, turn Turn) Result {
	if c.generator == nil {
		return Result{Err: ErrNoGenerator}
	}
	if ctx == nil {
		ctx = c.ctx
	}
	text, err := c.generator.GenerateContent(ctx, turn.Prompt)
	if err == nil && text == "" {
		err = gemini.ErrMalformedResponse
	}
	if err != nil {
		return Result{Err: err}
	}
	return Result{Text: text}
}

// Settle appends the assistant reply for result and ends the turn.
// It returns the appended message.
func (c *Controller) Settle(turn Turn, result Result) model.Message {
	var reply model.Message
	if result.Err != nil {
		log.Printf("[conversation] request failed after %v: %v",
			time.Since(turn.Started).Round(time.Millisecond), result.Err)
		reply = model.NewAssistantMessage(FallbackReply)
	} else {
		reply = model.NewAssistantMessage(result.Text)
	}

	c.mu.Lock()
	c.log.Append(reply)
	if c.inFlight > 0 {
		c.inFlight--
	}
	if result.Err != nil {
		c.phase = PhaseFailed
	} else {
		c.phase = PhaseSettled
	}
	c.mu.Unlock()

	if result.Err != nil {
		c.notify(NotifyError, titleRequestError, descRequestError)
	}
	return reply
}

// SendMessage runs a complete turn and blocks until it settles. Request
// failures are reported through the notifier and the fallback reply, not
// returned; the only errors are ErrEmptyMessage, ErrNoCredential and
// ErrClosed.
func (c *Controller) SendMessage(text string) error {
	turn, err := c.Begin(text)
	if err != nil {
		return err
	}
	c.Settle(turn, c.Execute(c.ctx, turn))
	return nil
}

// QuickReply places text in the draft and sends it.
func (c *Controller) QuickReply(text string) error {
	c.SetDraft(text)
	return c.SendMessage(c.Draft())
}

// =============================================================================
// SPEECH
// =============================================================================

// Listening reports whether a speech session is in progress.
func (c *Controller) Listening() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listening
}

// SpeechAvailable reports whether voice capture can be started.
func (c *Controller) SpeechAvailable() bool {
	return c.recognizer.Available()
}

// StartVoiceCapture begins a speech session bound to the controller's
// lifetime. The caller feeds every event from the returned channel to
// HandleSpeechEvent.
func (c *Controller) StartVoiceCapture() (<-chan speech.Event, error) {
	if !c.recognizer.Available() {
		c.notify(NotifyWarning, titleUnsupported, descUnsupported)
		return nil, ErrSpeechUnsupported
	}

	events, err := c.recognizer.Start(c.ctx, speech.DefaultOptions(c.locale))
	if err != nil {
		if errors.Is(err, speech.ErrUnsupported) {
			c.notify(NotifyWarning, titleUnsupported, descUnsupported)
			return nil, ErrSpeechUnsupported
		}
		c.notify(NotifyError, titleSpeechError, descSpeechError)
		return nil, fmt.Errorf("start voice capture: %w", err)
	}
	return events, nil
}

// HandleSpeechEvent applies one session event.
func (c *Controller) HandleSpeechEvent(ev speech.Event) {
	c.mu.Lock()
	switch ev.Kind {
	case speech.EventStarted:
		c.listening = true
	case speech.EventTranscript:
		c.draft = speech.Normalize(ev.Transcript)
		c.listening = false
	case speech.EventFailed, speech.EventEnded:
		c.listening = false
	}
	c.mu.Unlock()

	if ev.Kind == speech.EventFailed {
		log.Printf("[conversation] speech failed: %v", ev.Err)
		c.notify(NotifyError, titleSpeechError, descSpeechError)
	}
}

// CaptureVoice runs a whole speech session and returns the resulting draft.
// It blocks until the session ends or ctx is cancelled.
func (c *Controller) CaptureVoice(ctx context.Context) (string, error) {
	events, err := c.StartVoiceCapture()
	if err != nil {
		return "", err
	}
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return c.Draft(), nil
			}
			c.HandleSpeechEvent(ev)
		case <-ctx.Done():
			c.HandleSpeechEvent(speech.Event{Kind: speech.EventEnded})
			return c.Draft(), ctx.Err()
		}
	}
}
