// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/parley/internal/groq"
	"github.com/jeranaias/parley/internal/model"
	"github.com/jeranaias/parley/internal/telemetry"
)

// Fallback assistant messages. One of these is appended whenever a turn
// cannot produce a real reply, so the transcript stays one reply per turn.
const (
	fallbackError = "Sorry, there was an error processing your request."
	fallbackEmpty = "Sorry, I could not process your request."
)

// Completer is the completion client surface the chat model depends on.
// *groq.Client satisfies it; tests substitute a fake.
type Completer interface {
	Complete(ctx context.Context, messages []groq.ChatMessage) (*groq.ChatResponse, error)
	Model() string
	IsConfigured() bool
}

// =============================================================================
// COMPLETION COMMAND
// =============================================================================

// completionCmd fires one completion request for the captured session.
// The transcript is copied at call time; later store mutations do not
// affect the request. The result is reported with the captured session id
// so a stale reply can be matched against a deleted session.
func (m *Model) completionCmd(sessionID string, transcript []model.Message) tea.Cmd {
	client := m.client
	usage := m.usage

	wire := make([]groq.ChatMessage, 0, len(transcript))
	for _, msg := range transcript {
		wire = append(wire, groq.ChatMessage{
			Role:    msg.Role.String(),
			Content: msg.Content,
		})
	}

	return func() tea.Msg {
		start := time.Now()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		resp, err := client.Complete(ctx, wire)
		latency := time.Since(start).Milliseconds()

		result := CompletionResultMsg{
			SessionID: sessionID,
			LatencyMs: latency,
			Err:       err,
		}
		if err == nil {
			result.Content = resp.GetContent()
			result.Usage = &resp.Usage
		}

		recordUsage(usage, client.Model(), sessionID, result)
		return result
	}
}

// recordUsage appends the turn to the local usage log. Logging failures
// are swallowed; telemetry must never break the conversation.
func recordUsage(usage *telemetry.UsageLog, modelName, sessionID string, result CompletionResultMsg) {
	if usage == nil {
		return
	}

	rec := telemetry.Record{
		SessionID: sessionID,
		Model:     modelName,
		LatencyMs: result.LatencyMs,
		OK:        result.Err == nil,
		ErrorKind: errorKind(result.Err),
	}
	if result.Usage != nil {
		rec.PromptTokens = result.Usage.PromptTokens
		rec.CompletionTokens = result.Usage.CompletionTokens
		rec.TotalTokens = result.Usage.TotalTokens
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = usage.Add(ctx, rec)
}

// errorKind maps a completion error to a short label for the usage log.
func errorKind(err error) string {
	if err == nil {
		return ""
	}
	var cerr *groq.ClientError
	if errors.As(err, &cerr) {
		switch cerr.Type {
		case groq.ErrTypeNotConfigured:
			return "not_configured"
		case groq.ErrTypeAuth:
			return "auth"
		case groq.ErrTypeRateLimited:
			return "rate_limited"
		case groq.ErrTypeTimeout:
			return "timeout"
		case groq.ErrTypeConnection:
			return "connection"
		case groq.ErrTypeInvalidResponse:
			return "invalid_response"
		case groq.ErrTypeAPI:
			return "api"
		}
	}
	return "unknown"
}

// replyContent picks the assistant text for a completion result: the real
// reply, or a fallback when the request failed or came back empty.
func replyContent(result CompletionResultMsg) string {
	if result.Err != nil {
		return fallbackError
	}
	if result.Content == "" {
		return fallbackEmpty
	}
	return result.Content
}
