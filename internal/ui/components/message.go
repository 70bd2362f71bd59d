// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/parley/internal/model"
	"github.com/jeranaias/parley/internal/ui/styles"
)

// =============================================================================
// MESSAGE VIEW
// =============================================================================

// MessageView renders a chat transcript. Assistant messages are rendered as
// Markdown through Glamour; user messages stay verbatim.
type MessageView struct {
	Width    int
	theme    *styles.Theme
	renderer *glamour.TermRenderer
}

// NewMessageView creates a transcript renderer.
func NewMessageView(theme *styles.Theme) *MessageView {
	mv := &MessageView{
		Width: 80,
		theme: theme,
	}
	mv.rebuildRenderer()
	return mv
}

// SetWidth sets the render width and rebuilds the Markdown renderer to wrap
// at the new width.
func (mv *MessageView) SetWidth(width int) {
	if width == mv.Width {
		return
	}
	mv.Width = width
	mv.rebuildRenderer()
}

// SetTheme swaps the theme (after a theme toggle).
func (mv *MessageView) SetTheme(theme *styles.Theme) {
	mv.theme = theme
	mv.rebuildRenderer()
}

func (mv *MessageView) rebuildRenderer() {
	wrap := mv.Width - 8
	if wrap < 20 {
		wrap = 20
	}

	style := "dark"
	if !mv.theme.IsDark {
		style = "light"
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		// Fall back to plain text rendering.
		mv.renderer = nil
		return
	}
	mv.renderer = renderer
}

// Render renders the full transcript for the viewport.
func (mv *MessageView) Render(messages []model.Message) string {
	if len(messages) == 0 {
		return mv.theme.SystemNote.Render("Start the conversation by typing a message below.")
	}

	var sb strings.Builder
	for i, msg := range messages {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(mv.RenderMessage(msg))
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderMessage renders a single message.
func (mv *MessageView) RenderMessage(msg model.Message) string {
	label := mv.theme.MessageLabel.Render(msg.Role.DisplayName())

	switch msg.Role {
	case model.RoleUser:
		body := mv.theme.UserBubble.Width(bubbleWidth(mv.Width)).Render(msg.Content)
		return label + "\n" + body
	case model.RoleAssistant:
		body := mv.theme.AssistantBubble.Width(bubbleWidth(mv.Width)).Render(mv.markdown(msg.Content))
		return label + "\n" + body
	default:
		return mv.theme.SystemNote.Render(msg.Content)
	}
}

// markdown renders assistant content as Markdown, falling back to the raw
// text when rendering fails.
func (mv *MessageView) markdown(content string) string {
	if mv.renderer == nil {
		return content
	}
	out, err := mv.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n")
}

func bubbleWidth(total int) int {
	w := total - 10
	if w < 20 {
		w = 20
	}
	return w
}
