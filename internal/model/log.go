// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "sync"

// Log is an append-only, insertion-ordered list of messages.
// There is no way to edit or delete an entry once appended.
type Log struct {
	mu       sync.RWMutex
	messages []Message
}

// NewLog creates a log seeded with the given messages.
func NewLog(seed ...Message) *Log {
	messages := make([]Message, 0, len(seed)+8)
	messages = append(messages, seed...)
	return &Log{messages: messages}
}

// NewSeededLog creates a log holding only the assistant greeting.
func NewSeededLog() *Log {
	return NewLog(NewAssistantMessage(Greeting))
}

// Append adds a message to the end of the log.
func (l *Log) Append(msg Message) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, msg)
}

// Len returns the number of messages in the log.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}

// Messages returns a copy of the log contents in insertion order.
func (l *Log) Messages() []Message {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// At returns the message at index i.
func (l *Log) At(i int) (Message, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i < 0 || i >= len(l.messages) {
		return Message{}, false
	}
	return l.messages[i], true
}

// Last returns the most recent message, if any.
func (l *Log) Last() (Message, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.messages) == 0 {
		return Message{}, false
	}
	return l.messages[len(l.messages)-1], true
}

// Count returns how many messages were sent by sender.
func (l *Log) Count(sender Sender) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	n := 0
	for _, m := range l.messages {
		if m.Sender == sender {
			n++
		}
	}
	return n
}
