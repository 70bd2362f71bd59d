// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// USAGE RECORD
// =============================================================================

// Record is a single completed chat request.
type Record struct {
	ID               int64
	Timestamp        time.Time
	SessionID        string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	LatencyMs        int64
	OK               bool
	ErrorKind        string // empty on success
}

// Totals aggregates usage over a time range.
type Totals struct {
	Requests         int
	Failures         int
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	TotalLatencyMs   int64
}

// AvgLatencyMs returns the mean request latency, or 0 with no requests.
func (t Totals) AvgLatencyMs() int64 {
	if t.Requests == 0 {
		return 0
	}
	return t.TotalLatencyMs / int64(t.Requests)
}

// ModelTotals is Totals broken out per model.
type ModelTotals struct {
	Model string
	Totals
}

// =============================================================================
// USAGE LOG
// =============================================================================

const schema = `
CREATE TABLE IF NOT EXISTS usage (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ts INTEGER NOT NULL,
	session_id TEXT NOT NULL,
	model TEXT NOT NULL,
	prompt_tokens INTEGER NOT NULL DEFAULT 0,
	completion_tokens INTEGER NOT NULL DEFAULT 0,
	total_tokens INTEGER NOT NULL DEFAULT 0,
	latency_ms INTEGER NOT NULL DEFAULT 0,
	ok INTEGER NOT NULL DEFAULT 1,
	error_kind TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_usage_ts ON usage(ts);
CREATE INDEX IF NOT EXISTS idx_usage_model ON usage(model);
`

// UsageLog is an append-only completion log backed by SQLite.
type UsageLog struct {
	db *sql.DB
	mu sync.Mutex
}

// DefaultPath returns the default usage database path.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".parley", "usage.db"), nil
}

// Open opens (creating if needed) the usage database at path. An empty path
// uses DefaultPath.
func Open(path string) (*UsageLog, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create telemetry directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open usage database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize usage schema: %w", err)
	}
	return &UsageLog{db: db}, nil
}

// Close closes the underlying database.
func (u *UsageLog) Close() error {
	return u.db.Close()
}

// =============================================================================
// WRITE
// =============================================================================

// Add appends a record. The record's Timestamp defaults to now when zero.
func (u *UsageLog) Add(ctx context.Context, rec Record) error {
	if rec.Model == "" {
		return errors.New("record missing model")
	}
	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	_, err := u.db.ExecContext(ctx,
		`INSERT INTO usage (ts, session_id, model, prompt_tokens, completion_tokens, total_tokens, latency_ms, ok, error_kind)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ts.UnixMilli(), rec.SessionID, rec.Model,
		rec.PromptTokens, rec.CompletionTokens, rec.TotalTokens,
		rec.LatencyMs, boolToInt(rec.OK), rec.ErrorKind,
	)
	if err != nil {
		return fmt.Errorf("failed to record usage: %w", err)
	}
	return nil
}

// =============================================================================
// READ
// =============================================================================

// TotalsSince aggregates usage recorded at or after since. A zero since
// aggregates everything.
func (u *UsageLog) TotalsSince(ctx context.Context, since time.Time) (Totals, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	row := u.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN ok = 0 THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(prompt_tokens), 0),
		        COALESCE(SUM(completion_tokens), 0),
		        COALESCE(SUM(total_tokens), 0),
		        COALESCE(SUM(latency_ms), 0)
		 FROM usage WHERE ts >= ?`,
		since.UnixMilli(),
	)

	var t Totals
	if err := row.Scan(&t.Requests, &t.Failures, &t.PromptTokens,
		&t.CompletionTokens, &t.TotalTokens, &t.TotalLatencyMs); err != nil {
		return Totals{}, fmt.Errorf("failed to aggregate usage: %w", err)
	}
	return t, nil
}

// TotalsByModel aggregates usage per model, most-used first.
func (u *UsageLog) TotalsByModel(ctx context.Context, since time.Time) ([]ModelTotals, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	rows, err := u.db.QueryContext(ctx,
		`SELECT model,
		        COUNT(*),
		        COALESCE(SUM(CASE WHEN ok = 0 THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(prompt_tokens), 0),
		        COALESCE(SUM(completion_tokens), 0),
		        COALESCE(SUM(total_tokens), 0),
		        COALESCE(SUM(latency_ms), 0)
		 FROM usage WHERE ts >= ?
		 GROUP BY model
		 ORDER BY COUNT(*) DESC`,
		since.UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate usage by model: %w", err)
	}
	defer rows.Close()

	var out []ModelTotals
	for rows.Next() {
		var mt ModelTotals
		if err := rows.Scan(&mt.Model, &mt.Requests, &mt.Failures,
			&mt.PromptTokens, &mt.CompletionTokens, &mt.TotalTokens,
			&mt.TotalLatencyMs); err != nil {
			return nil, err
		}
		out = append(out, mt)
	}
	return out, rows.Err()
}

// Recent returns the most recent records, newest first.
func (u *UsageLog) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	rows, err := u.db.QueryContext(ctx,
		`SELECT id, ts, session_id, model, prompt_tokens, completion_tokens,
		        total_tokens, latency_ms, ok, error_kind
		 FROM usage ORDER BY ts DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read usage log: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var ts int64
		var ok int
		if err := rows.Scan(&rec.ID, &ts, &rec.SessionID, &rec.Model,
			&rec.PromptTokens, &rec.CompletionTokens, &rec.TotalTokens,
			&rec.LatencyMs, &ok, &rec.ErrorKind); err != nil {
			return nil, err
		}
		rec.Timestamp = time.UnixMilli(ts)
		rec.OK = ok != 0
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Prune deletes records older than before. Returns the number removed.
func (u *UsageLog) Prune(ctx context.Context, before time.Time) (int64, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	res, err := u.db.ExecContext(ctx, `DELETE FROM usage WHERE ts < ?`, before.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to prune usage log: %w", err)
	}
	return res.RowsAffected()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
