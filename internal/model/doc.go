// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
//
// # Key Types
//
//   - Message: one conversation turn, tagged with a role and text content
//   - ChatSession: an independent conversation thread with an ordered,
//     append-only message list and a derived title
//
// # Title Derivation
//
// A session title defaults to the first 30 characters of the first user
// message, with "..." appended only when the source text is longer. Empty
// sessions are titled "New Chat". DeriveTitle implements this rule and is
// shared by session creation and first-message append.
package model
