// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/jeranaias/parley/internal/model"
	"github.com/jeranaias/parley/internal/util"
)

// =============================================================================
// SESSION EXPORT
// =============================================================================

// ExportMarkdown renders a session as a Markdown document with the title,
// last-updated timestamp, and every message under a role label.
func ExportMarkdown(sess *model.ChatSession) string {
	var sb strings.Builder
	sb.WriteString("# " + sess.Title + "\n\n")
	sb.WriteString("Updated: " + sess.UpdatedAt.Format(time.RFC3339) + "\n\n")
	sb.WriteString("---\n\n")

	for _, msg := range sess.Messages {
		sb.WriteString("**" + msg.Role.DisplayName() + "**:\n\n")
		sb.WriteString(msg.Content)
		sb.WriteString("\n\n---\n\n")
	}

	return sb.String()
}

// ExportJSON renders a session as pretty-printed JSON.
func ExportJSON(sess *model.ChatSession) ([]byte, error) {
	return json.MarshalIndent(sess, "", "  ")
}

// FormatSessionList formats sessions for display in a plain table: id prefix,
// last-updated time, message count, and a title preview.
func FormatSessionList(sessions []*model.ChatSession) string {
	if len(sessions) == 0 {
		return "No sessions found."
	}

	var sb strings.Builder
	sb.WriteString("Sessions:\n")
	sb.WriteString("-----------------------------------------------------\n")
	sb.WriteString(util.PadRight("ID", 10) + " " + util.PadRight("Updated", 17) + " " + util.PadRight("Messages", 8) + " Title\n")
	sb.WriteString("-----------------------------------------------------\n")

	for _, sess := range sessions {
		id := sess.ID
		if len(id) > 8 {
			id = id[:8]
		}
		sb.WriteString(util.PadRight(id, 10) + " " +
			util.PadRight(sess.UpdatedAt.Format("2006-01-02 15:04"), 17) + " " +
			util.PadRight(strconv.Itoa(sess.MessageCount()), 8) + " " +
			util.TruncateWidth(sess.Title, 40) + "\n")
	}
	return sb.String()
}
