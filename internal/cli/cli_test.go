// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"testing"

	"github.com/jeranaias/parley/internal/model"
	"github.com/jeranaias/parley/internal/store"
)

// =============================================================================
// ARGUMENT PARSING
// =============================================================================

func TestParseArgs_DefaultIsTUI(t *testing.T) {
	args := ParseArgs(nil)
	if args.Command != CmdTUI {
		t.Errorf("Command = %v, want CmdTUI", args.Command)
	}
}

func TestParseArgs_Commands(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want Command
	}{
		{"ask", []string{"ask", "hello"}, CmdAsk},
		{"chat", []string{"chat"}, CmdChat},
		{"sessions", []string{"sessions", "list"}, CmdSessions},
		{"session alias", []string{"session", "list"}, CmdSessions},
		{"stats", []string{"stats"}, CmdStats},
		{"config", []string{"config", "show"}, CmdConfig},
		{"version", []string{"version"}, CmdVersion},
		{"help flag", []string{"--help"}, CmdHelp},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseArgs(tc.argv).Command; got != tc.want {
				t.Errorf("Command = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParseArgs_AskJoinsQuery(t *testing.T) {
	args := ParseArgs([]string{"ask", "what", "is", "go"})
	if args.Query != "what is go" {
		t.Errorf("Query = %q", args.Query)
	}
}

func TestParseArgs_UnknownWordBecomesAskQuery(t *testing.T) {
	args := ParseArgs([]string{"what", "is", "go"})
	if args.Command != CmdAsk {
		t.Fatalf("Command = %v, want CmdAsk", args.Command)
	}
	if args.Query != "what is go" {
		t.Errorf("Query = %q", args.Query)
	}
}

func TestParseArgs_GlobalFlags(t *testing.T) {
	args := ParseArgs([]string{"-m", "llama-3.1-8b-instant", "--json", "-v", "ask", "hi"})
	if args.Model != "llama-3.1-8b-instant" {
		t.Errorf("Model = %q", args.Model)
	}
	if !args.JSON || !args.Verbose {
		t.Error("flags not parsed")
	}
	if args.Query != "hi" {
		t.Errorf("Query = %q", args.Query)
	}
}

func TestParseArgs_SubcommandCaptured(t *testing.T) {
	args := ParseArgs([]string{"sessions", "delete", "abc123", "--confirm"})
	if args.Subcommand != "delete" {
		t.Errorf("Subcommand = %q", args.Subcommand)
	}
	if len(args.Raw) != 3 {
		t.Errorf("Raw = %v", args.Raw)
	}
}

// =============================================================================
// ARG PARSER
// =============================================================================

func TestArgParser_FlagFormats(t *testing.T) {
	p := NewArgParser([]string{"export", "abc", "--format=json", "--output", "out.json", "--confirm"})

	if p.Subcommand() != "export" {
		t.Errorf("Subcommand = %q", p.Subcommand())
	}
	if p.Positional(0) != "abc" {
		t.Errorf("Positional(0) = %q", p.Positional(0))
	}
	if p.Flag("format") != "json" {
		t.Errorf("format = %q", p.Flag("format"))
	}
	if p.Flag("output") != "out.json" {
		t.Errorf("output = %q", p.Flag("output"))
	}
	if !p.BoolFlag("confirm") {
		t.Error("confirm flag missing")
	}
}

func TestArgParser_Defaults(t *testing.T) {
	p := NewArgParser([]string{"show"})

	if p.FlagOr("format", "md") != "md" {
		t.Error("FlagOr should return fallback")
	}
	if p.IntFlag("recent", 20) != 20 {
		t.Error("IntFlag should return fallback")
	}
	if p.Positional(0) != "" {
		t.Error("missing positional should be empty")
	}
}

func TestArgParser_IntFlag(t *testing.T) {
	p := NewArgParser([]string{"--recent", "5", "--bad", "x"})
	if p.IntFlag("recent", 0) != 5 {
		t.Errorf("recent = %d", p.IntFlag("recent", 0))
	}
	if p.IntFlag("bad", 7) != 7 {
		t.Error("unparseable int should return fallback")
	}
}

// =============================================================================
// SESSION LOOKUP
// =============================================================================

func TestFindSessionByPrefix(t *testing.T) {
	st := store.New()
	a := st.CreateSession([]model.Message{model.NewUserMessage("first")})
	b := st.CreateSession([]model.Message{model.NewUserMessage("second")})

	if got := findSessionByPrefix(st, a.ID[:8]); got == nil || got.ID != a.ID {
		t.Error("unique prefix should resolve")
	}
	if got := findSessionByPrefix(st, b.ID); got == nil || got.ID != b.ID {
		t.Error("full id should resolve")
	}
	if got := findSessionByPrefix(st, "zzzz-no-match"); got != nil {
		t.Error("no match should return nil")
	}
	// Empty prefix matches everything, which is ambiguous with two sessions.
	if got := findSessionByPrefix(st, ""); got != nil {
		t.Error("ambiguous prefix should return nil")
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("abcdefghijk"); got != "abcdefgh" {
		t.Errorf("shortID = %q", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID = %q", got)
	}
}

// =============================================================================
// TERMINAL HELPERS
// =============================================================================

func TestGetTerminalWidth_FallsBack(t *testing.T) {
	// In tests stdout is rarely a TTY; the fallback path must hold the floor.
	if w := GetTerminalWidth(); w < MinTerminalWidth {
		t.Errorf("width = %d, below minimum", w)
	}
}
