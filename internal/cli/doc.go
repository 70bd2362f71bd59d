// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package cli implements the non-TUI commands of parley.

Commands share the same state as the TUI: the session slot under
~/.parley/, the TOML configuration, and the local usage log. ParseArgs
turns os.Args into an Args value; Run dispatches everything except the
default TUI command, which main wires up itself.

# Commands

	ask       one-shot question, Markdown-rendered on a TTY
	chat      line-based REPL with persistent input history
	sessions  list, show, export, and delete saved sessions
	stats     aggregate the local usage log
	config    show, get, set configuration values
	version   build information
*/
package cli
