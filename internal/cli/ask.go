// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single query command handler for the parley CLI.
//
// Handles "parley ask" which sends one question to Groq and prints the
// reply. Output is Markdown-rendered when stdout is a terminal and plain
// text when piped.
//
// Examples:
//   parley ask "What is the capital of France?"
//   parley ask --json "Summarize this error"
//   parley ask -m llama-3.1-8b-instant "Quick question"

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/parley/internal/groq"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownRenderer renders Markdown replies for terminal display.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		// Fall back to plain text output.
		markdownRenderer = nil
	}
}

// renderMarkdown renders Markdown content, returning the original text when
// rendering is unavailable.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// displayResponse prints a reply, Markdown-rendered only on a TTY so piped
// output stays clean.
func displayResponse(response string) {
	if IsStdoutTTY() {
		fmt.Print(renderMarkdown(response))
	} else {
		fmt.Println(response)
	}
}

// =============================================================================
// ASK COMMAND
// =============================================================================

// RunAsk executes a single question and prints the reply.
func RunAsk(args Args) int {
	if args.Query == "" {
		printError("ask requires a question")
		fmt.Fprintln(os.Stderr, `Usage: parley ask "your question"`)
		return 1
	}

	cfg := loadConfig()
	client := newClient(cfg, args.Model)
	if !client.IsConfigured() {
		printError("no API key configured; set GROQ_API_KEY or run: parley config set groq.api_key <key>")
		return 1
	}

	usage := openUsage(cfg)
	if usage != nil {
		defer usage.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	start := time.Now()
	resp, err := client.Complete(ctx, []groq.ChatMessage{groq.NewUserMessage(args.Query)})
	latency := time.Since(start)
	recordTurn(usage, client.Model(), "", resp, latency, err)

	if err != nil {
		printError(err.Error())
		return 1
	}

	content := resp.GetContent()
	if args.JSON {
		out, jerr := json.MarshalIndent(map[string]any{
			"model":   resp.Model,
			"content": content,
			"usage":   resp.Usage,
		}, "", "  ")
		if jerr != nil {
			printError(jerr.Error())
			return 1
		}
		fmt.Println(string(out))
		return 0
	}

	displayResponse(content)

	if args.Verbose {
		fmt.Fprintln(os.Stderr, infoStyle.Render(fmt.Sprintf(
			"model=%s tokens=%d latency=%s",
			resp.Model, resp.Usage.TotalTokens, latency.Round(time.Millisecond))))
	}
	return 0
}
