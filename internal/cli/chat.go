// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat command handler for the parley CLI.
//
// Handles "parley chat", a line-based REPL sharing the same session slot
// as the TUI. Input history is kept across runs with arrow-key navigation.
//
// Interactive commands:
//   /help              Show available commands
//   /new               Start a new chat session
//   /list              List saved sessions
//   /switch <id>       Switch to another session by id prefix
//   /rename <title>    Rename the current session
//   /delete            Delete the current session
//   /quit              Exit chat (also Ctrl+D)

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/jeranaias/parley/internal/config"
	"github.com/jeranaias/parley/internal/groq"
	"github.com/jeranaias/parley/internal/model"
	"github.com/jeranaias/parley/internal/storage"
	"github.com/jeranaias/parley/internal/store"
	"github.com/jeranaias/parley/internal/telemetry"
	"github.com/jeranaias/parley/internal/ui/styles"
)

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	welcomeStyle = lipgloss.NewStyle().
			Foreground(styles.Purple).
			Bold(true)

	commandStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald)
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI with persistent input history.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	c := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	c.loadHistory()
	return c
}

func (c *ChatCLI) loadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line with history navigation.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves history and releases the terminal.
func (c *ChatCLI) Close() {
	if err := config.EnsureConfigDir(); err == nil {
		if f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			c.line.WriteHistory(f)
			f.Close()
		}
	}
	c.line.Close()
}

// =============================================================================
// CHAT COMMAND
// =============================================================================

// RunChat runs the interactive chat REPL.
func RunChat(args Args) int {
	if !IsTTY() {
		printError("chat requires an interactive terminal; use: parley ask")
		return 1
	}

	cfg := loadConfig()
	client := newClient(cfg, args.Model)
	if !client.IsConfigured() {
		printError("no API key configured; set GROQ_API_KEY or run: parley config set groq.api_key <key>")
		return 1
	}

	slot, err := storage.NewSlotStore()
	if err != nil {
		printError("storage: " + err.Error())
		return 1
	}
	st := store.New()
	st.Restore(slot.LoadOrEmpty())

	usage := openUsage(cfg)
	if usage != nil {
		defer usage.Close()
	}

	input := NewChatCLI()
	defer input.Close()

	if st.Current() == nil {
		st.CreateSession(nil)
	}

	if !args.Quiet {
		fmt.Println(welcomeStyle.Render("parley chat"))
		fmt.Println(infoStyle.Render("Model: " + client.Model() + "  (/help for commands, /quit to exit)"))
		fmt.Println()
	}

	for {
		line, err := input.ReadInput(promptStyle.Render("> "))
		if err != nil {
			// Ctrl+D or Ctrl+C ends the session.
			if errors.Is(err, liner.ErrPromptAborted) {
				fmt.Println()
				continue
			}
			break
		}

		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}

		if strings.HasPrefix(text, "/") {
			if quit := handleChatCommand(text, st, slot); quit {
				break
			}
			continue
		}

		runChatTurn(st, slot, client, usage, text)
	}

	saveSlot(st, slot)
	return 0
}

// runChatTurn sends one user turn and prints the reply.
func runChatTurn(st *store.Store, slot *storage.SlotStore, client *groq.Client, usage *telemetry.UsageLog, text string) {
	cur := st.Current()
	if cur == nil {
		cur = st.CreateSession(nil)
	}
	if err := st.AppendMessage(cur.ID, model.NewUserMessage(text)); err != nil {
		printError(err.Error())
		return
	}
	saveSlot(st, slot)

	sess := st.Session(cur.ID)
	wire := make([]groq.ChatMessage, 0, len(sess.Messages))
	for _, msg := range sess.Messages {
		wire = append(wire, groq.ChatMessage{Role: msg.Role.String(), Content: msg.Content})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	start := time.Now()
	resp, err := client.Complete(ctx, wire)
	latency := time.Since(start)
	recordTurn(usage, client.Model(), cur.ID, resp, latency, err)

	reply := ""
	if err != nil {
		printError(err.Error())
		reply = "Sorry, there was an error processing your request."
	} else {
		reply = resp.GetContent()
		if reply == "" {
			reply = "Sorry, I could not process your request."
		}
	}

	fmt.Println()
	displayResponse(reply)
	fmt.Println()

	_ = st.AppendMessage(cur.ID, model.NewAssistantMessage(reply))
	saveSlot(st, slot)
}

// handleChatCommand executes a slash command. Returns true when the REPL
// should exit.
func handleChatCommand(text string, st *store.Store, slot *storage.SlotStore) bool {
	fields := strings.Fields(text)
	cmd := fields[0]
	rest := strings.TrimSpace(strings.TrimPrefix(text, cmd))

	switch cmd {
	case "/quit", "/q", "/exit":
		return true

	case "/help", "/h":
		fmt.Println(commandStyle.Render("/new") + "       start a new session")
		fmt.Println(commandStyle.Render("/list") + "      list saved sessions")
		fmt.Println(commandStyle.Render("/switch") + "    switch session by id prefix")
		fmt.Println(commandStyle.Render("/rename") + "    rename the current session")
		fmt.Println(commandStyle.Render("/delete") + "    delete the current session")
		fmt.Println(commandStyle.Render("/quit") + "      exit")

	case "/new", "/n":
		sess := st.CreateSession(nil)
		saveSlot(st, slot)
		fmt.Println(infoStyle.Render("Started new session " + shortID(sess.ID)))

	case "/list", "/ls":
		fmt.Print(storage.FormatSessionList(st.Sessions()))

	case "/switch", "/s":
		if rest == "" {
			printError("usage: /switch <id>")
			break
		}
		sess := findSessionByPrefix(st, rest)
		if sess == nil {
			printError("no session matching " + rest)
			break
		}
		st.SetCurrentID(sess.ID)
		saveSlot(st, slot)
		fmt.Println(infoStyle.Render("Switched to: " + sess.Title))

	case "/rename":
		if rest == "" {
			printError("usage: /rename <title>")
			break
		}
		cur := st.Current()
		if cur == nil {
			printError("no active session")
			break
		}
		if err := st.RenameSession(cur.ID, rest); err != nil {
			printError(err.Error())
			break
		}
		saveSlot(st, slot)
		fmt.Println(infoStyle.Render("Renamed to: " + rest))

	case "/delete", "/rm":
		cur := st.Current()
		if cur == nil {
			printError("no active session")
			break
		}
		st.DeleteSession(cur.ID)
		saveSlot(st, slot)
		fmt.Println(infoStyle.Render("Deleted: " + cur.Title))

	default:
		printError("unknown command " + cmd + " (/help for commands)")
	}
	return false
}

// findSessionByPrefix resolves a session by id prefix. Returns nil when no
// session or more than one session matches.
func findSessionByPrefix(st *store.Store, prefix string) *model.ChatSession {
	var found *model.ChatSession
	for _, sess := range st.Sessions() {
		if strings.HasPrefix(sess.ID, prefix) {
			if found != nil {
				return nil
			}
			found = sess
		}
	}
	return found
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// saveSlot writes the snapshot, reporting but not aborting on failure.
func saveSlot(st *store.Store, slot *storage.SlotStore) {
	if !st.IsDirty() {
		return
	}
	if err := slot.Save(st.Snapshot()); err != nil {
		printError("save: " + err.Error())
		return
	}
	st.MarkClean()
}
