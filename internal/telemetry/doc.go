// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package telemetry records a local usage log of chat completions.
//
// Every completed request is written to a SQLite database (default
// ~/.parley/usage.db) with its model, token counts, and latency. Nothing is
// transmitted anywhere; the log exists so `parley stats` can report spend
// and usage over time. Recording failures are non-fatal to the chat loop.
package telemetry
