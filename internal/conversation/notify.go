// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"log"
	"sync"
)

// NotificationKind classifies a user-visible notification.
type NotificationKind string

const (
	NotifyError   NotificationKind = "error"
	NotifyWarning NotificationKind = "warning"
	NotifyStatus  NotificationKind = "status"
	NotifySuccess NotificationKind = "success"
)

// Notification is a transient message for the user, shown as a toast in
// the TUI or printed to stderr by the REPL.
type Notification struct {
	Kind        NotificationKind
	Title       string
	Description string
}

// Notifier receives notifications raised by the controller.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notification) { f(n) }

// logNotifier writes notifications to the standard logger.
type logNotifier struct{}

func (logNotifier) Notify(n Notification) {
	log.Printf("[conversation] %s: %s: %s", n.Kind, n.Title, n.Description)
}

// Recorder collects notifications. It is safe for concurrent use.
type Recorder struct {
	mu   sync.Mutex
	list []Notification
}

// Notify records n.
func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.list = append(r.list, n)
}

// All returns the recorded notifications in order.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.list))
	copy(out, r.list)
	return out
}

// Drain returns and clears the recorded notifications.
func (r *Recorder) Drain() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.list
	r.list = nil
	return out
}

// Fixed notification and message texts.
const (
	FallbackReply = "I apologize, but I'm having trouble connecting right now. Please ensure " +
		"your API key is correct and try again. If the problem persists, please consult " +
		"with a healthcare professional directly."

	titleKeyRequired = "API Key Required"
	descKeyRequired  = "Please enter your Gemini API key to start chatting."

	titleRequestError = "Error"
	descRequestError  = "Failed to get response. Please check your API key and try again."

	titleSpeechError = "Voice Recognition Error"
	descSpeechError  = "Could not recognize speech. Please try typing instead."

	titleUnsupported = "Not Supported"
	descUnsupported  = "Voice input is not available. Set speech.command in the config to enable it."
)
