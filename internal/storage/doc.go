// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists the chat state to a single JSON slot on disk.
//
// The slot lives at ~/.parley/chat-storage.json and holds the session list,
// the active-session pointer, and the sidebar flag. Writes are atomic (temp
// file, fsync, rename) so a crash mid-write never corrupts an existing slot.
//
// Loading is fail-soft: a missing or unreadable slot yields an empty state
// and no error, so the application always starts. Callers that care about
// the distinction can use Load directly.
//
// The package also exports individual sessions as Markdown or pretty-printed
// JSON for sharing outside the application.
package storage
