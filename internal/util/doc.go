// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the medichat packages.
//
// # Key Functions
//
// Text layout (display-width aware, via go-runewidth):
//   - Wrap: word wrapping to a column width
//   - TruncateWidth: truncation with ellipsis to a column width
//   - StringWidth: display width of a string
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
package util
