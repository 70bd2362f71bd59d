// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// This file defines the Bubble Tea message types used by the chat view.
// All message types are immutable value types.

package chat

import "github.com/jeranaias/parley/internal/groq"

// =============================================================================
// COMPLETION MESSAGES
// =============================================================================

// CompletionResultMsg delivers the outcome of an asynchronous completion
// request. SessionID is the id captured when the request was fired; the
// session may have been deleted since.
type CompletionResultMsg struct {
	SessionID string
	Content   string
	Usage     *groq.Usage
	LatencyMs int64
	Err       error
}

// =============================================================================
// PERSISTENCE MESSAGES
// =============================================================================

// PersistDoneMsg reports the outcome of a snapshot write.
type PersistDoneMsg struct {
	Err error
}

// =============================================================================
// CONFIGURATION MESSAGES
// =============================================================================

// ConfigReloadedMsg is delivered when the configuration file changes on disk
// while the TUI is running. Client is a replacement completion client built
// from the new settings (ignored when nil or unconfigured); Theme is the
// configured theme mode.
type ConfigReloadedMsg struct {
	Theme  string
	Client Completer
}

// =============================================================================
// UI MESSAGES
// =============================================================================

// StatusExpireMsg clears a transient status line message.
type StatusExpireMsg struct {
	Seq int
}
