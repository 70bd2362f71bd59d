// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/parley/internal/ui/styles"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// Shortcut is one key hint rendered in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar renders the bottom bar with the active model and key hints.
type StatusBar struct {
	Model     string
	Shortcuts []Shortcut
	Width     int
	theme     *styles.Theme
}

// NewStatusBar creates a status bar renderer.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Width: 80,
		theme: theme,
	}
}

// SetWidth sets the bar width.
func (b *StatusBar) SetWidth(width int) {
	b.Width = width
}

// View renders the status bar.
func (b *StatusBar) View() string {
	parts := make([]string, 0, len(b.Shortcuts)+1)
	if b.Model != "" {
		parts = append(parts, b.theme.ShortcutDesc.Render(b.Model))
	}
	for _, sc := range b.Shortcuts {
		parts = append(parts,
			b.theme.ShortcutKey.Render(sc.Key)+" "+b.theme.ShortcutDesc.Render(sc.Desc))
	}

	line := strings.Join(parts, "  ")
	return b.theme.StatusBar.Width(b.Width).MaxWidth(b.Width).Render(line)
}
