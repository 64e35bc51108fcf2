// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the medichat TUI.
//
// All colors use Lip Gloss AdaptiveColor so the same palette works on
// light and dark terminals. The palette follows a clinical look: a calm
// medical blue for the assistant, teal for the user, red reserved for
// errors and the emergency disclaimer.
//
// # Usage
//
//	theme := styles.NewTheme("auto")
//	header := theme.Header.Render("Dr. MediChat AI")
package styles
