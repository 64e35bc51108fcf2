// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/medichat-tui/internal/ui/styles"
	"github.com/jeranaias/medichat-tui/internal/util"
)

// QuickReplies tracks which suggestion is selected.
type QuickReplies struct {
	Items    []string
	Selected int
}

// SetItems replaces the suggestions, keeping the selection in range.
func (q *QuickReplies) SetItems(items []string) {
	q.Items = items
	if q.Selected >= len(items) {
		q.Selected = 0
	}
}

// Visible reports whether there is anything to show.
func (q *QuickReplies) Visible() bool {
	return len(q.Items) > 0
}

// Next moves the selection right, wrapping around.
func (q *QuickReplies) Next() {
	if len(q.Items) > 0 {
		q.Selected = (q.Selected + 1) % len(q.Items)
	}
}

// Prev moves the selection left, wrapping around.
func (q *QuickReplies) Prev() {
	if len(q.Items) > 0 {
		q.Selected = (q.Selected - 1 + len(q.Items)) % len(q.Items)
	}
}

// Current returns the selected suggestion.
func (q *QuickReplies) Current() (string, bool) {
	if q.Selected < 0 || q.Selected >= len(q.Items) {
		return "", false
	}
	return q.Items[q.Selected], true
}

// At returns the suggestion for a 1-based number key.
func (q *QuickReplies) At(n int) (string, bool) {
	if n < 1 || n > len(q.Items) {
		return "", false
	}
	return q.Items[n-1], true
}

// Render lays the suggestions out as numbered chips, wrapping onto as many
// rows as width requires.
func (q *QuickReplies) Render(theme *styles.Theme, width int) string {
	if !q.Visible() {
		return ""
	}

	var rows []string
	var row []string
	rowWidth := 0
	for i, item := range q.Items {
		style := theme.QuickReply
		if i == q.Selected {
			style = theme.QuickReplySelected
		}
		chip := style.Render(strconv.Itoa(i+1) + " " + util.TruncateWidth(item, 36))
		w := lipgloss.Width(chip)
		if rowWidth > 0 && rowWidth+1+w > width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
			rowWidth = 0
		}
		if rowWidth > 0 {
			row = append(row, " ")
			rowWidth++
		}
		row = append(row, chip)
		rowWidth += w
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}

	title := theme.Hint.Render("Quick questions: alt+1-" + strconv.Itoa(len(q.Items)) +
		" to ask, tab to cycle, ctrl+o to ask the selected one")
	return title + "\n" + strings.Join(rows, "\n")
}
