// parley - a terminal chat client for Groq.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/parley/internal/cli"
	"github.com/jeranaias/parley/internal/config"
	"github.com/jeranaias/parley/internal/groq"
	"github.com/jeranaias/parley/internal/storage"
	"github.com/jeranaias/parley/internal/store"
	"github.com/jeranaias/parley/internal/telemetry"
	"github.com/jeranaias/parley/internal/ui/chat"
	"github.com/jeranaias/parley/internal/ui/styles"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	args := cli.ParseArgs(os.Args[1:])

	if args.Command == cli.CmdTUI {
		os.Exit(runTUI(args))
	}
	os.Exit(cli.Run(args))
}

// runTUI starts the full-screen interface.
func runTUI(args cli.Args) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: config:", err)
		return 1
	}
	config.SetGlobal(cfg)

	client := newClient(cfg, args.Model)
	if !client.IsConfigured() {
		fmt.Fprintln(os.Stderr, "Error: no API key configured.")
		fmt.Fprintln(os.Stderr, "Set GROQ_API_KEY or run: parley config set groq.api_key <key>")
		return 1
	}

	slot, err := storage.NewSlotStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: storage:", err)
		return 1
	}

	st := store.New()
	st.Restore(slot.LoadOrEmpty())

	// Local usage log; the TUI works fine without it.
	var usage *telemetry.UsageLog
	if cfg.Telemetry.Enabled {
		if u, err := telemetry.Open(cfg.Telemetry.DBPath); err == nil {
			usage = u
			defer usage.Close()
		}
	}

	theme := styles.NewTheme(cfg.UI.Theme)
	m := chat.New(theme, st, slot, client, usage)
	p := tea.NewProgram(m, tea.WithAltScreen())

	// Apply config edits made while the TUI is running: each reload swaps
	// in a fresh client and theme without restarting the program.
	if path, err := config.ConfigPath(); err == nil {
		onLoad := func(next *config.Config) {
			p.Send(chat.ConfigReloadedMsg{
				Theme:  next.UI.Theme,
				Client: newClient(next, args.Model),
			})
		}
		if w, err := config.NewWatcher(path, onLoad, nil); err == nil {
			defer w.Close()
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}

	// Final write for anything still unsaved at exit.
	if st.IsDirty() {
		if err := slot.Save(st.Snapshot()); err != nil {
			fmt.Fprintln(os.Stderr, "Error: save:", err)
			return 1
		}
		st.MarkClean()
	}
	return 0
}

// newClient builds a Groq client from the config, honoring the --model
// override from the command line.
func newClient(cfg *config.Config, modelOverride string) *groq.Client {
	c := groq.NewClient(cfg.Groq.APIKey).
		WithBaseURL(cfg.Groq.BaseURL).
		WithModel(cfg.Groq.Model).
		WithTimeout(time.Duration(cfg.Groq.TimeoutSecs) * time.Second).
		WithSampling(cfg.Groq.Temperature, cfg.Groq.MaxTokens, cfg.Groq.TopP)
	if modelOverride != "" {
		c = c.WithModel(modelOverride)
	}
	return c
}
