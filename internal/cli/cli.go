// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for parley.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdSessions
	CmdStats
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	Command Command

	// Global flags
	Model   string
	Quiet   bool
	Verbose bool
	JSON    bool

	// Command-specific
	Query      string
	Subcommand string

	// Raw args remaining after the command word
	Raw []string
}

const usageText = `parley - terminal chat client for Groq

Parley keeps multiple chat sessions, persists them locally, and talks to
Groq's OpenAI-compatible chat completions API.

Usage:
  parley                       Start the TUI (default)
  parley ask "question"        Ask a single question
  parley chat                  Interactive chat in the current terminal
  parley sessions [subcommand] Manage saved sessions
  parley stats                 Show local usage statistics
  parley config [subcommand]   Configuration
  parley version               Show version information

Session Commands:
  parley sessions list             List all saved sessions
  parley sessions show <id>        Print a session transcript
  parley sessions export <id>      Export a session
    --format md|json               Export format (default: md)
    --output FILE                  Write to a file instead of stdout
  parley sessions delete <id>      Delete a session
    --confirm                      Required confirmation flag

Config Commands:
  parley config show               Show current configuration
  parley config get <key>          Read one value (dot notation, e.g. groq.model)
  parley config set <key> <value>  Write one value
  parley config path               Print the config file path

Stats Commands:
  parley stats                     Totals for the last 30 days
  parley stats --all               Totals since the beginning
  parley stats --models            Per-model breakdown
  parley stats --recent N          Show the last N requests

Global Flags:
  -m, --model NAME    Use a specific model (overrides config)
  -q, --quiet         Minimal output
  -v, --verbose       Verbose output
  --json              Machine-readable output where supported

Environment:
  GROQ_API_KEY        API key (overrides config file)
  PARLEY_MODEL        Default model
  PARLEY_BASE_URL     API base URL
  PARLEY_THEME        dark, light, or auto
  PARLEY_NO_TELEMETRY Disable the local usage log

Sessions and configuration live under ~/.parley/.
`

// ParseArgs parses command-line arguments into an Args value.
func ParseArgs(argv []string) Args {
	args := Args{Command: CmdTUI}

	rest := make([]string, 0, len(argv))
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch arg {
		case "-m", "--model":
			if i+1 < len(argv) {
				args.Model = argv[i+1]
				i++
			}
		case "-q", "--quiet":
			args.Quiet = true
		case "-v", "--verbose":
			args.Verbose = true
		case "--json":
			args.JSON = true
		case "-h", "--help", "help":
			args.Command = CmdHelp
		default:
			rest = append(rest, arg)
		}
	}

	if args.Command == CmdHelp || len(rest) == 0 {
		return args
	}

	cmd := strings.ToLower(rest[0])
	rest = rest[1:]

	switch cmd {
	case "ask":
		args.Command = CmdAsk
		args.Query = strings.Join(rest, " ")
	case "chat":
		args.Command = CmdChat
	case "session", "sessions":
		args.Command = CmdSessions
		args.Raw = rest
	case "stats":
		args.Command = CmdStats
		args.Raw = rest
	case "config":
		args.Command = CmdConfig
		args.Raw = rest
	case "version", "-V", "--version":
		args.Command = CmdVersion
	default:
		// Unrecognized word: treat it as an ask query.
		args.Command = CmdAsk
		args.Query = strings.Join(append([]string{cmd}, rest...), " ")
	}

	if len(args.Raw) > 0 {
		args.Subcommand = args.Raw[0]
	}
	return args
}

// Run executes a non-TUI command and returns the process exit code.
// CmdTUI is handled by the caller.
func Run(args Args) int {
	switch args.Command {
	case CmdAsk:
		return RunAsk(args)
	case CmdChat:
		return RunChat(args)
	case CmdSessions:
		return RunSessions(args)
	case CmdStats:
		return RunStats(args)
	case CmdConfig:
		return RunConfig(args)
	case CmdVersion:
		return RunVersion(args)
	case CmdHelp:
		fmt.Print(usageText)
		return 0
	default:
		fmt.Fprintln(os.Stderr, "unhandled command")
		return 1
	}
}

// RunVersion prints version information.
func RunVersion(args Args) int {
	if args.JSON {
		fmt.Printf(`{"version":%q,"commit":%q,"built":%q,"go":%q}%s`,
			Version, GitCommit, BuildDate, runtime.Version(), "\n")
		return 0
	}
	fmt.Printf("parley %s (commit %s, built %s, %s)\n",
		Version, GitCommit, BuildDate, runtime.Version())
	return 0
}
