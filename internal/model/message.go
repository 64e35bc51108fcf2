// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the conversation log.
package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// SENDER TYPE
// =============================================================================

// Sender identifies who produced a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// String returns the string representation of the sender.
func (s Sender) String() string {
	return string(s)
}

// DisplayName returns a human-readable name for the sender.
func (s Sender) DisplayName() string {
	switch s {
	case SenderUser:
		return "You"
	case SenderAssistant:
		return "Dr. MediChat AI"
	default:
		return string(s)
	}
}

// Valid reports whether s is one of the known senders.
func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderAssistant
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Greeting is the assistant message every conversation log starts with.
const Greeting = "Hello! I'm your AI medical assistant. I can help you with general health " +
	"information and guidance. Please remember that I'm not a substitute for professional " +
	"medical advice. How can I assist you today?"

// Message is a single chat message. Messages are values and are never
// modified after creation.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a message with a fresh ID and the current time.
func NewMessage(sender Sender, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Content:   content,
		Sender:    sender,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) Message {
	return NewMessage(SenderUser, content)
}

// NewAssistantMessage creates a new assistant message.
func NewAssistantMessage(content string) Message {
	return NewMessage(SenderAssistant, content)
}

// IsUser reports whether the message was sent by the user.
func (m Message) IsUser() bool {
	return m.Sender == SenderUser
}

// IsAssistant reports whether the message was sent by the assistant.
func (m Message) IsAssistant() bool {
	return m.Sender == SenderAssistant
}

// Preview returns a truncated preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m Message) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// Clock returns the timestamp formatted as HH:MM.
func (m Message) Clock() string {
	return m.Timestamp.Format("15:04")
}
