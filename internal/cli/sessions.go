// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// sessions.go - Session management command handlers for the parley CLI.
//
// Handles "parley sessions" subcommands against the same slot file the TUI
// uses: list, show, export, delete.

package cli

import (
	"fmt"
	"os"

	"github.com/jeranaias/parley/internal/model"
	"github.com/jeranaias/parley/internal/storage"
	"github.com/jeranaias/parley/internal/store"
)

// RunSessions dispatches the sessions subcommands.
func RunSessions(args Args) int {
	slot, err := storage.NewSlotStore()
	if err != nil {
		printError("storage: " + err.Error())
		return 1
	}
	st := store.New()
	st.Restore(slot.LoadOrEmpty())

	parser := NewArgParser(args.Raw)
	switch parser.Subcommand() {
	case "", "list", "ls":
		fmt.Print(storage.FormatSessionList(st.Sessions()))
		return 0

	case "show":
		return sessionsShow(st, parser)

	case "export":
		return sessionsExport(st, parser)

	case "delete", "rm":
		return sessionsDelete(st, slot, parser)

	default:
		printError("unknown sessions subcommand: " + parser.Subcommand())
		fmt.Fprintln(os.Stderr, "Usage: parley sessions [list|show|export|delete]")
		return 1
	}
}

func requireSession(st *store.Store, parser *ArgParser) (*model.ChatSession, int) {
	id := parser.Positional(0)
	if id == "" {
		printError("a session id is required (see: parley sessions list)")
		return nil, 1
	}
	sess := findSessionByPrefix(st, id)
	if sess == nil {
		printError("no unique session matching " + id)
		return nil, 1
	}
	return sess, 0
}

func sessionsShow(st *store.Store, parser *ArgParser) int {
	sess, code := requireSession(st, parser)
	if sess == nil {
		return code
	}

	md := storage.ExportMarkdown(sess)
	if IsStdoutTTY() {
		fmt.Print(renderMarkdown(md))
	} else {
		fmt.Print(md)
	}
	return 0
}

func sessionsExport(st *store.Store, parser *ArgParser) int {
	sess, code := requireSession(st, parser)
	if sess == nil {
		return code
	}

	var out []byte
	switch format := parser.FlagOr("format", "md"); format {
	case "md", "markdown":
		out = []byte(storage.ExportMarkdown(sess))
	case "json":
		var err error
		out, err = storage.ExportJSON(sess)
		if err != nil {
			printError("export: " + err.Error())
			return 1
		}
		out = append(out, '\n')
	default:
		printError("unknown export format: " + format)
		return 1
	}

	if path := parser.Flag("output"); path != "" {
		if err := os.WriteFile(path, out, 0644); err != nil {
			printError("write: " + err.Error())
			return 1
		}
		fmt.Println(infoStyle.Render("Exported " + shortID(sess.ID) + " to " + path))
		return 0
	}

	fmt.Print(string(out))
	return 0
}

func sessionsDelete(st *store.Store, slot *storage.SlotStore, parser *ArgParser) int {
	sess, code := requireSession(st, parser)
	if sess == nil {
		return code
	}

	if !parser.BoolFlag("confirm") {
		printError("deletion requires --confirm")
		return 1
	}

	st.DeleteSession(sess.ID)
	if err := slot.Save(st.Snapshot()); err != nil {
		printError("save: " + err.Error())
		return 1
	}
	st.MarkClean()
	fmt.Println(infoStyle.Render("Deleted: " + sess.Title))
	return 0
}
