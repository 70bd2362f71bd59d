// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store owns all chat session state for the process lifetime: the
// ordered session list, the active-session pointer, and the transient
// input/loading flags.
//
// # Invariants
//
//   - Session ids are unique and never reused.
//   - Sessions are ordered newest-created first.
//   - CurrentID is either empty or references an existing session; deletion
//     repairs the pointer when it pointed at the removed session.
//   - Message lists are append-only; relative order is never disturbed.
//
// # Persistence
//
// Mutations never write to disk themselves. Every mutation that touches the
// persisted subset (sessions, current pointer, sidebar flag) marks the store
// dirty; callers snapshot and write through the storage package, then mark
// the store clean. This keeps the write-through behavior visible and
// independently testable.
package store
