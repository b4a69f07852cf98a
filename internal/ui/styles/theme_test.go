// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
)

func TestNewThemeInitializesStyles(t *testing.T) {
	theme := NewTheme()
	if theme == nil {
		t.Fatal("NewTheme() returned nil")
	}

	// Spot-check a few styles render without panicking.
	for name, render := range map[string]func() string{
		"UserBubble":   func() string { return theme.UserBubble.Render("hi") },
		"BotBubble":    func() string { return theme.BotBubble.Render("hi") },
		"SidebarItem":  func() string { return theme.SidebarItem.Render("hi") },
		"ModalBox":     func() string { return theme.ModalBox.Render("hi") },
		"ThinkingText": func() string { return theme.ThinkingText.Render("hi") },
	} {
		if out := render(); !strings.Contains(out, "hi") {
			t.Errorf("%s.Render() = %q, want content preserved", name, out)
		}
	}
}

func TestGetLayoutMode(t *testing.T) {
	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
		{200, LayoutWide},
	}

	theme := NewTheme()
	for _, tt := range tests {
		theme.SetSize(tt.width, 40)
		if got := theme.GetLayoutMode(); got != tt.want {
			t.Errorf("GetLayoutMode() at width %d = %v, want %v", tt.width, got, tt.want)
		}
	}
}

func TestHighContrastRenderersCarryIndicators(t *testing.T) {
	if out := RenderSuccess("saved"); !strings.Contains(out, "[OK] saved") {
		t.Errorf("RenderSuccess() = %q, want indicator and message", out)
	}
	if out := RenderError("broke"); !strings.Contains(out, "[X] broke") {
		t.Errorf("RenderError() = %q, want indicator and message", out)
	}
}

func TestStatusIndicatorsAreASCII(t *testing.T) {
	for _, s := range []string{
		StatusIndicators.Success,
		StatusIndicators.Error,
		StatusIndicators.Warning,
		StatusIndicators.Info,
		StatusIndicators.Pending,
	} {
		for _, r := range s {
			if r > 127 {
				t.Errorf("indicator %q contains non-ASCII rune %q", s, r)
			}
		}
	}
}
