// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the conversation log.
//
// # Key Types
//
//   - Sender: who produced a message (user or assistant)
//   - Message: immutable chat message with ID, content and timestamp
//   - Log: append-only, insertion-ordered message list
//
// # Usage
//
//	log := model.NewLog(model.NewAssistantMessage(model.Greeting))
//	log.Append(model.NewUserMessage("What are common cold symptoms?"))
//	for _, msg := range log.Messages() {
//	    fmt.Println(msg.Sender.DisplayName(), msg.Content)
//	}
package model
