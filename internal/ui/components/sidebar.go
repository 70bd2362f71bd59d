// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/jeranaias/parley/internal/model"
	"github.com/jeranaias/parley/internal/ui/styles"
	"github.com/jeranaias/parley/internal/util"
)

// =============================================================================
// SESSION SIDEBAR
// =============================================================================

// Sidebar renders the session list panel.
type Sidebar struct {
	Sessions  []*model.ChatSession // newest first
	CurrentID string
	Width     int
	Height    int
	theme     *styles.Theme
}

// NewSidebar creates a sidebar renderer.
func NewSidebar(theme *styles.Theme) *Sidebar {
	return &Sidebar{
		Width:  28,
		Height: 20,
		theme:  theme,
	}
}

// SetSize sets the panel dimensions.
func (s *Sidebar) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// View renders the sidebar.
func (s *Sidebar) View() string {
	var sb strings.Builder

	inner := s.Width - 2
	if inner < 8 {
		inner = 8
	}

	sb.WriteString(s.theme.SidebarTitle.Render("Chats"))
	sb.WriteString("\n")

	if len(s.Sessions) == 0 {
		sb.WriteString(s.theme.SessionMeta.Render("No chats yet"))
		return s.theme.Sidebar.Width(s.Width).Height(s.Height).Render(sb.String())
	}

	// Two header lines, one line per session.
	visible := s.Height - 2
	if visible < 1 {
		visible = 1
	}

	for i, sess := range s.Sessions {
		if i >= visible {
			remaining := len(s.Sessions) - visible
			sb.WriteString(s.theme.SessionMeta.Render(
				util.TruncateWidth("... "+strconv.Itoa(remaining)+" more", inner)))
			break
		}

		label := util.TruncateWidth(sess.Title, inner-2)
		if sess.ID == s.CurrentID {
			sb.WriteString(s.theme.SessionItemSelected.Render(label))
		} else {
			sb.WriteString(s.theme.SessionItem.Render(label))
		}
		sb.WriteString("\n")
	}

	return s.theme.Sidebar.Width(s.Width).Height(s.Height).Render(sb.String())
}
