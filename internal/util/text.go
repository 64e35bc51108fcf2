// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// StringWidth returns the display width of s in terminal columns.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// TruncateWidth truncates s to at most maxWidth columns, ending with "..."
// when anything was cut.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// Wrap word-wraps text to width columns. Existing newlines are kept.
// Words wider than width are broken.
func Wrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	paragraphs := strings.Split(text, "\n")
	out := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		out = append(out, wrapParagraph(p, width)...)
	}
	return strings.Join(out, "\n")
}

func wrapParagraph(p string, width int) []string {
	words := strings.Fields(p)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	var line strings.Builder
	lineWidth := 0

	flush := func() {
		lines = append(lines, line.String())
		line.Reset()
		lineWidth = 0
	}

	for _, word := range words {
		w := runewidth.StringWidth(word)
		for w > width {
			if lineWidth > 0 {
				flush()
			}
			head := runewidth.Truncate(word, width, "")
			lines = append(lines, head)
			word = strings.TrimPrefix(word, head)
			w = runewidth.StringWidth(word)
		}
		if word == "" {
			continue
		}
		switch {
		case lineWidth == 0:
			line.WriteString(word)
			lineWidth = w
		case lineWidth+1+w <= width:
			line.WriteByte(' ')
			line.WriteString(word)
			lineWidth += 1 + w
		default:
			flush()
			line.WriteString(word)
			lineWidth = w
		}
	}
	if lineWidth > 0 {
		flush()
	}
	return lines
}
