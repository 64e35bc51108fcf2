// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/medichat-tui/internal/conversation"
	"github.com/jeranaias/medichat-tui/internal/ui/styles"
	"github.com/jeranaias/medichat-tui/internal/util"
)

// =============================================================================
// TOAST TYPES
// =============================================================================

// ToastKind represents the type of toast notification.
type ToastKind int

const (
	ToastKindStatus ToastKind = iota
	ToastKindError
	ToastKindWarning
	ToastKindSuccess
)

// Auto-dismiss durations per kind. Errors stay longer so they can be read.
const (
	DefaultToastDuration = 4 * time.Second
	WarningToastDuration = 6 * time.Second
	ErrorToastDuration   = 8 * time.Second
)

// Toast is a non-blocking notification.
type Toast struct {
	ID          int
	Title       string
	Description string
	Kind        ToastKind
	CreatedAt   time.Time
	Duration    time.Duration
}

// NewToast creates a toast with the default duration for kind.
func NewToast(kind ToastKind, title, description string) Toast {
	d := DefaultToastDuration
	switch kind {
	case ToastKindError:
		d = ErrorToastDuration
	case ToastKindWarning:
		d = WarningToastDuration
	}
	return Toast{
		Title:       title,
		Description: description,
		Kind:        kind,
		CreatedAt:   time.Now(),
		Duration:    d,
	}
}

// ToastFromNotification converts a controller notification.
func ToastFromNotification(n conversation.Notification) Toast {
	kind := ToastKindStatus
	switch n.Kind {
	case conversation.NotifyError:
		kind = ToastKindError
	case conversation.NotifyWarning:
		kind = ToastKindWarning
	case conversation.NotifySuccess:
		kind = ToastKindSuccess
	}
	return NewToast(kind, n.Title, n.Description)
}

// IsExpired returns true if the toast should be dismissed.
func (t *Toast) IsExpired() bool {
	return time.Since(t.CreatedAt) >= t.Duration
}

// TimeRemaining returns how much time is left before auto-dismiss.
func (t *Toast) TimeRemaining() time.Duration {
	remaining := t.Duration - time.Since(t.CreatedAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// =============================================================================
// TOAST MANAGER
// =============================================================================

// ToastManager holds the visible toasts, newest first.
type ToastManager struct {
	mu        sync.Mutex
	toasts    []Toast
	nextID    int
	maxToasts int
}

// NewToastManager creates a new toast manager.
func NewToastManager() *ToastManager {
	return &ToastManager{nextID: 1, maxToasts: 4}
}

// Add adds a toast and returns its ID.
func (m *ToastManager) Add(toast Toast) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	toast.ID = m.nextID
	m.nextID++

	m.toasts = append([]Toast{toast}, m.toasts...)
	if len(m.toasts) > m.maxToasts {
		m.toasts = m.toasts[:m.maxToasts]
	}
	return toast.ID
}

// AddNotification adds a toast for a controller notification.
func (m *ToastManager) AddNotification(n conversation.Notification) int {
	return m.Add(ToastFromNotification(n))
}

// Dismiss removes a toast by ID.
func (m *ToastManager) Dismiss(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, toast := range m.toasts {
		if toast.ID == id {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			return
		}
	}
}

// DismissNewest removes the most recent toast, if any.
func (m *ToastManager) DismissNewest() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.toasts) > 0 {
		m.toasts = m.toasts[1:]
	}
}

// Tick removes expired toasts.
func (m *ToastManager) Tick() {
	m.mu.Lock()
	defer m.mu.Unlock()
	active := m.toasts[:0]
	for _, toast := range m.toasts {
		if !toast.IsExpired() {
			active = append(active, toast)
		}
	}
	m.toasts = active
}

// Toasts returns a copy of the current toasts.
func (m *ToastManager) Toasts() []Toast {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Toast, len(m.toasts))
	copy(out, m.toasts)
	return out
}

// Len returns the number of visible toasts.
func (m *ToastManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.toasts)
}

// =============================================================================
// TOAST MESSAGES
// =============================================================================

// ToastTickMsg is sent periodically to expire toasts.
type ToastTickMsg struct {
	Time time.Time
}

// ToastTickCmd returns a command that ticks toasts every 250ms.
func ToastTickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return ToastTickMsg{Time: t}
	})
}

// =============================================================================
// TOAST RENDERING
// =============================================================================

func toastStyle(kind ToastKind) (lipgloss.AdaptiveColor, string) {
	switch kind {
	case ToastKindError:
		return styles.Red, "✗"
	case ToastKindWarning:
		return styles.Amber, "!"
	case ToastKindSuccess:
		return styles.Green, "✓"
	default:
		return styles.Sky, "i"
	}
}

// RenderToast renders a single toast at most width columns wide.
func RenderToast(toast Toast, width int) string {
	maxWidth := 50
	if width > 0 && width-4 < maxWidth {
		maxWidth = width - 4
	}
	if maxWidth < 24 {
		maxWidth = 24
	}
	inner := maxWidth - 4

	color, icon := toastStyle(toast.Kind)
	titleStyle := lipgloss.NewStyle().Foreground(color).Bold(true)
	bodyStyle := lipgloss.NewStyle().Foreground(styles.TextPrimary)
	hintStyle := lipgloss.NewStyle().Foreground(styles.TextMuted).Italic(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render(util.TruncateWidth(icon+" "+toast.Title, inner)))
	if toast.Description != "" {
		b.WriteString("\n")
		b.WriteString(bodyStyle.Render(util.Wrap(toast.Description, inner)))
	}
	hint := "ctrl+x dismiss"
	if secs := int(toast.TimeRemaining().Seconds()); secs > 0 {
		hint += "  " + strconv.Itoa(secs) + "s"
	}
	b.WriteString("\n")
	b.WriteString(hintStyle.Render(hint))

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1).
		Render(b.String())
}

// RenderToastStack renders toasts stacked vertically, right-aligned.
func RenderToastStack(toasts []Toast, width int) string {
	if len(toasts) == 0 {
		return ""
	}
	rendered := make([]string, 0, len(toasts))
	for _, toast := range toasts {
		rendered = append(rendered, RenderToast(toast, width))
	}
	stack := lipgloss.JoinVertical(lipgloss.Right, rendered...)
	if width > 0 {
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, stack)
	}
	return stack
}
