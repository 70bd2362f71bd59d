// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// stats.go - Usage statistics command handler for the parley CLI.
//
// Handles "parley stats" which reads the local usage log. Nothing here
// touches the network; the log only ever exists on this machine.

package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jeranaias/parley/internal/telemetry"
	"github.com/jeranaias/parley/internal/util"
)

// RunStats prints aggregated usage from the local log.
func RunStats(args Args) int {
	cfg := loadConfig()
	usage, err := telemetry.Open(cfg.Telemetry.DBPath)
	if err != nil {
		printError("usage log: " + err.Error())
		return 1
	}
	defer usage.Close()

	parser := NewArgParser(args.Raw)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	since := time.Now().AddDate(0, 0, -30)
	rangeLabel := "last 30 days"
	if parser.BoolFlag("all") {
		since = time.Time{}
		rangeLabel = "all time"
	}

	if n := parser.IntFlag("recent", 0); n > 0 {
		return statsRecent(ctx, usage, n)
	}

	totals, err := usage.TotalsSince(ctx, since)
	if err != nil {
		printError(err.Error())
		return 1
	}

	fmt.Println(headerStyle.Render("Usage (" + rangeLabel + ")"))
	printTotals(totals)

	if parser.BoolFlag("models") {
		byModel, err := usage.TotalsByModel(ctx, since)
		if err != nil {
			printError(err.Error())
			return 1
		}
		fmt.Println()
		fmt.Println(headerStyle.Render("By model"))
		for _, mt := range byModel {
			fmt.Printf("  %s %s requests, %s tokens\n",
				util.PadRight(mt.Model, 32),
				util.PadRight(strconv.Itoa(mt.Requests), 8),
				strconv.Itoa(mt.TotalTokens))
		}
	}
	return 0
}

func printTotals(t telemetry.Totals) {
	fmt.Printf("  Requests:    %d (%d failed)\n", t.Requests, t.Failures)
	fmt.Printf("  Tokens:      %d prompt, %d completion, %d total\n",
		t.PromptTokens, t.CompletionTokens, t.TotalTokens)
	fmt.Printf("  Avg latency: %dms\n", t.AvgLatencyMs())
}

func statsRecent(ctx context.Context, usage *telemetry.UsageLog, n int) int {
	records, err := usage.Recent(ctx, n)
	if err != nil {
		printError(err.Error())
		return 1
	}
	if len(records) == 0 {
		fmt.Println("No requests recorded.")
		return 0
	}

	fmt.Println(headerStyle.Render("Recent requests"))
	for _, rec := range records {
		status := "ok"
		if !rec.OK {
			status = "failed (" + rec.ErrorKind + ")"
		}
		fmt.Printf("  %s  %s  %s tokens=%d  %dms\n",
			rec.Timestamp.Format("2006-01-02 15:04:05"),
			util.PadRight(rec.Model, 28),
			util.PadRight(status, 18),
			rec.TotalTokens, rec.LatencyMs)
	}
	return 0
}
