// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// MAIN RENDER
// =============================================================================

// renderChat renders the complete chat view.
// Layout: header (1 line) + body (sidebar | transcript) + input + status bar.
func (m Model) renderChat() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// The confirmation dialog replaces the normal view until resolved.
	if m.confirm != nil {
		return m.confirm.Overlay(m.width, m.height)
	}

	header := m.renderHeader()
	body := m.renderBody()
	input := m.renderInput()
	status := m.renderStatusBar()

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		body,
		input,
		status,
	)
}

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("parley")

	meta := ""
	if cur := m.store.Current(); cur != nil {
		meta = m.theme.HeaderMeta.Render(cur.Title)
	}

	line := title
	if meta != "" {
		line += "  " + meta
	}
	return m.theme.Header.Width(m.width).MaxWidth(m.width).Render(line)
}

func (m Model) renderBody() string {
	transcript := m.viewport.View()

	if !m.sidebarVisible() {
		return transcript
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), transcript)
}

func (m Model) renderInput() string {
	var line string
	if m.state == StateLoading {
		line = m.spinner.View() + " " + m.theme.ThinkingText.Render("Thinking...")
	} else {
		line = m.input.View()
	}
	return m.theme.InputContainer.Width(m.width - 2).Render(line)
}

func (m Model) renderStatusBar() string {
	if m.statusMsg != "" {
		return m.theme.StatusBar.Width(m.width).MaxWidth(m.width).Render(m.statusMsg)
	}
	return m.statusBar.View()
}
