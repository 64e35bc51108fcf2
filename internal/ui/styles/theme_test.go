// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
)

func TestNewTheme_ExplicitModes(t *testing.T) {
	if !NewTheme("dark").IsDark {
		t.Error("dark mode should set IsDark")
	}
	if NewTheme("LIGHT").IsDark {
		t.Error("light mode should clear IsDark")
	}
}

func TestTheme_RendersText(t *testing.T) {
	theme := NewTheme("dark")
	out := theme.UserBubble.Render("hello")
	if !strings.Contains(out, "hello") {
		t.Errorf("rendered bubble missing content: %q", out)
	}
}

func TestTheme_BubbleWidth(t *testing.T) {
	theme := NewTheme("dark")

	tests := []struct {
		width int
		want  int
	}{
		{120, 90},
		{80, 60},
		{50, 46},
		{10, 20},
	}
	for _, tc := range tests {
		theme.SetSize(tc.width, 40)
		if got := theme.BubbleWidth(); got != tc.want {
			t.Errorf("BubbleWidth() at %d = %d, want %d", tc.width, got, tc.want)
		}
	}
}
