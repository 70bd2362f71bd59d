// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/parley/internal/ui/styles"
	"github.com/jeranaias/parley/internal/util"
)

// =============================================================================
// CONFIRMATION DIALOG
// =============================================================================

// ConfirmDialog asks the user to confirm a destructive action before it runs.
type ConfirmDialog struct {
	Title  string // action being confirmed, e.g. "Delete chat?"
	Target string // what the action applies to, e.g. the session title
	theme  *styles.Theme
}

// NewConfirmDialog creates a confirmation prompt.
func NewConfirmDialog(theme *styles.Theme, title, target string) *ConfirmDialog {
	return &ConfirmDialog{
		Title:  title,
		Target: target,
		theme:  theme,
	}
}

// View renders the dialog box.
func (d *ConfirmDialog) View() string {
	title := d.theme.ConfirmTitle.Render(d.Title)
	target := d.theme.ConfirmDanger.Render(util.TruncateWidth(d.Target, 48))
	hint := d.theme.ConfirmHint.Render("y: confirm   n/esc: cancel")

	body := lipgloss.JoinVertical(lipgloss.Left, title, target, "", hint)
	return d.theme.ConfirmBox.Render(body)
}

// Overlay centers the dialog within the given area.
func (d *ConfirmDialog) Overlay(width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, d.View())
}
