// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for the parley TUI.

Each component is a pure renderer built on Lip Gloss: it takes state and a
theme and returns a string, leaving event handling to the chat model.

# Components

Sidebar (sidebar.go) - Session list with selection highlight and previews.
MessageView (message.go) - Styled chat transcript, Markdown-rendered
assistant messages via Glamour.
ConfirmDialog (confirm.go) - Destructive-action confirmation prompt.
StatusBar (statusbar.go) - Bottom bar with model name and shortcuts.
*/
package components
