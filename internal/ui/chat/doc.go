// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat implements the interactive TUI as a Bubble Tea model.

The model owns the session store, the slot storage, and the completion
client. Keyboard events mutate the store through its methods; every
mutation of persisted state is followed by a save command that writes the
full snapshot to disk.

# Layout

	header
	sidebar | transcript (viewport)
	input
	status bar

# Completion flow

Submitting input appends the user message, flips the loading flag, and
fires an asynchronous completion command that captures the session id at
call time. The result message carries that id back; if the session was
deleted while the request was in flight the reply is discarded. Failed or
empty completions surface as a fallback assistant message so the
transcript always shows one reply per submitted turn.
*/
package chat
