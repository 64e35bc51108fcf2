// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the rendering pieces of the medichat TUI.

Components are plain render functions and small state holders; the Bubble
Tea model in package chat owns all state transitions.

# Components

Toasts (toast.go) - auto-dismissing notifications in the bottom-right corner.
MessageBubble (message.go) - user and assistant chat bubbles, with
markdown rendering for assistant replies.
QuickReplies (quickreplies.go) - the suggested first questions.
Header and Footer (header.go) - chat screen chrome and disclaimer.
Landing (landing.go) - the product summary shown at startup.

All render functions take a *styles.Theme:

	theme := styles.NewTheme("auto")
	view := components.RenderMessage(theme, msg, components.MessageOptions{Width: 80})
*/
package components
