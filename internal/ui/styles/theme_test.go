// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
)

func TestNewTheme_ModeSelection(t *testing.T) {
	dark := NewTheme("dark")
	if !dark.IsDark {
		t.Error("dark theme should report IsDark")
	}
	if dark.Mode() != "dark" {
		t.Errorf("Mode = %q", dark.Mode())
	}

	light := NewTheme("light")
	if light.IsDark {
		t.Error("light theme should not report IsDark")
	}
	if light.Mode() != "light" {
		t.Errorf("Mode = %q", light.Mode())
	}
}

func TestTheme_Toggle(t *testing.T) {
	dark := NewTheme("dark")
	light := dark.Toggle()
	if light.IsDark {
		t.Error("toggling dark should yield light")
	}
	back := light.Toggle()
	if !back.IsDark {
		t.Error("toggling light should yield dark")
	}
}

func TestStatusRenderHelpers(t *testing.T) {
	tests := []struct {
		name      string
		render    func(string) string
		indicator string
	}{
		{"success", RenderSuccess, "[OK]"},
		{"error", RenderError, "[X]"},
		{"warning", RenderWarning, "[!]"},
		{"info", RenderInfo, "[i]"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := tc.render("message")
			if !strings.Contains(out, tc.indicator) {
				t.Errorf("missing indicator %q in %q", tc.indicator, out)
			}
			if !strings.Contains(out, "message") {
				t.Errorf("missing message text in %q", out)
			}
		})
	}
}

func TestTheme_StylesInitialized(t *testing.T) {
	theme := NewTheme("dark")

	// Spot-check that key styles render without panicking and apply padding.
	if got := theme.UserBubble.Render("hi"); got == "" {
		t.Error("UserBubble rendered empty")
	}
	if got := theme.Sidebar.Render("sessions"); got == "" {
		t.Error("Sidebar rendered empty")
	}
	if got := theme.ConfirmBox.Render("delete?"); !strings.Contains(got, "delete?") {
		t.Error("ConfirmBox lost its content")
	}
}
