// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewMessage(t *testing.T) {
	before := time.Now()
	msg := NewUserMessage("hello")

	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, "hello", msg.Content)
	assert.Equal(t, SenderUser, msg.Sender)
	assert.False(t, msg.Timestamp.Before(before))
	assert.True(t, msg.IsUser())
	assert.False(t, msg.IsAssistant())
}

func TestNewMessage_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		msg := NewAssistantMessage("x")
		require.False(t, seen[msg.ID], "duplicate id %s", msg.ID)
		seen[msg.ID] = true
	}
}

func TestSender_DisplayName(t *testing.T) {
	tests := []struct {
		sender Sender
		want   string
	}{
		{SenderUser, "You"},
		{SenderAssistant, "Dr. MediChat AI"},
		{Sender("other"), "other"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.sender.DisplayName())
	}
	assert.True(t, SenderUser.Valid())
	assert.False(t, Sender("system").Valid())
}

func TestMessage_Preview(t *testing.T) {
	msg := NewUserMessage("héllo wörld")
	assert.Equal(t, "héllo wörld", msg.Preview(20))
	assert.Equal(t, "héllo...", msg.Preview(8))
	assert.Equal(t, "hé", msg.Preview(2))
}

// =============================================================================
// LOG TESTS
// =============================================================================

func TestNewSeededLog(t *testing.T) {
	log := NewSeededLog()

	require.Equal(t, 1, log.Len())
	first, ok := log.At(0)
	require.True(t, ok)
	assert.Equal(t, SenderAssistant, first.Sender)
	assert.Equal(t, Greeting, first.Content)
}

func TestLog_AppendPreservesOrder(t *testing.T) {
	log := NewSeededLog()
	a := NewUserMessage("a")
	b := NewAssistantMessage("b")
	log.Append(a)
	log.Append(b)

	msgs := log.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, a.ID, msgs[1].ID)
	assert.Equal(t, b.ID, msgs[2].ID)

	last, ok := log.Last()
	require.True(t, ok)
	assert.Equal(t, b.ID, last.ID)
	assert.Equal(t, 1, log.Count(SenderUser))
	assert.Equal(t, 2, log.Count(SenderAssistant))
}

func TestLog_MessagesReturnsCopy(t *testing.T) {
	log := NewSeededLog()
	msgs := log.Messages()
	msgs[0].Content = "tampered"

	first, _ := log.At(0)
	assert.Equal(t, Greeting, first.Content)
}

func TestLog_Empty(t *testing.T) {
	log := NewLog()
	_, ok := log.Last()
	assert.False(t, ok)
	_, ok = log.At(5)
	assert.False(t, ok)
}
