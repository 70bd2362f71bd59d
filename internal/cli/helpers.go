// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// helpers.go - Shared setup for the CLI command handlers.

package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/parley/internal/config"
	"github.com/jeranaias/parley/internal/groq"
	"github.com/jeranaias/parley/internal/telemetry"
	"github.com/jeranaias/parley/internal/ui/styles"
)

// =============================================================================
// SHARED STYLES
// =============================================================================

var (
	errorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose)

	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	headerStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)
)

// printError writes a styled error line to stderr.
func printError(msg string) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+msg))
}

// =============================================================================
// CLIENT SETUP
// =============================================================================

// loadConfig loads the configuration, falling back to defaults when the
// file is unreadable.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		printError("config: " + err.Error())
		cfg = config.Default()
		cfg.ApplyEnvOverrides()
	}
	return cfg
}

// newClient builds a Groq client from the config, with an optional model
// override from the command line.
func newClient(cfg *config.Config, modelOverride string) *groq.Client {
	client := groq.NewClient(cfg.Groq.APIKey).
		WithBaseURL(cfg.Groq.BaseURL).
		WithModel(cfg.Groq.Model).
		WithTimeout(time.Duration(cfg.Groq.TimeoutSecs) * time.Second).
		WithSampling(cfg.Groq.Temperature, cfg.Groq.MaxTokens, cfg.Groq.TopP)
	if modelOverride != "" {
		client = client.WithModel(modelOverride)
	}
	return client
}

// openUsage opens the local usage log, or returns nil when telemetry is
// disabled or unavailable. A nil log is safe to pass around; recording is
// skipped.
func openUsage(cfg *config.Config) *telemetry.UsageLog {
	if !cfg.Telemetry.Enabled {
		return nil
	}
	usage, err := telemetry.Open(cfg.Telemetry.DBPath)
	if err != nil {
		return nil
	}
	return usage
}

// recordTurn appends one completed CLI turn to the usage log.
func recordTurn(usage *telemetry.UsageLog, modelName, sessionID string, resp *groq.ChatResponse, latency time.Duration, reqErr error) {
	if usage == nil {
		return
	}

	rec := telemetry.Record{
		SessionID: sessionID,
		Model:     modelName,
		LatencyMs: latency.Milliseconds(),
		OK:        reqErr == nil,
	}
	if reqErr != nil {
		rec.ErrorKind = "error"
	}
	if resp != nil {
		rec.PromptTokens = resp.Usage.PromptTokens
		rec.CompletionTokens = resp.Usage.CompletionTokens
		rec.TotalTokens = resp.Usage.TotalTokens
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = usage.Add(ctx, rec)
}
