// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// TitleMaxLen is the number of characters of the first user message used for
// the derived session title.
const TitleMaxLen = 30

// DefaultTitle is used for sessions created without a seed message.
const DefaultTitle = "New Chat"

// =============================================================================
// CHAT SESSION TYPE
// =============================================================================

// ChatSession holds one independent conversation thread.
//
// The message list is append-only: messages are never edited, reordered, or
// removed individually. Insertion order is conversation order.
type ChatSession struct {
	// Identity
	ID    string `json:"id"`
	Title string `json:"title"`

	// Messages, in chronological order.
	Messages []Message `json:"messages"`

	// UpdatedAt is refreshed on every mutation of Messages or Title.
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewChatSession creates a session with a fresh unique id, seeded with the
// given messages. The title is derived from the first message's content, or
// DefaultTitle when there is none.
func NewChatSession(initial []Message, now time.Time) *ChatSession {
	seed := ""
	if len(initial) > 0 {
		seed = initial[0].Content
	}
	msgs := make([]Message, len(initial))
	copy(msgs, initial)
	return &ChatSession{
		ID:        uuid.NewString(),
		Title:     DeriveTitle(seed),
		Messages:  msgs,
		UpdatedAt: now,
	}
}

// Append adds a message to the end of the session, refreshing UpdatedAt.
// When the session was empty and the message is a user message, the title is
// (re)derived from its content.
func (s *ChatSession) Append(msg Message, now time.Time) {
	if len(s.Messages) == 0 && msg.Role == RoleUser {
		s.Title = DeriveTitle(msg.Content)
	}
	s.Messages = append(s.Messages, msg)
	s.UpdatedAt = now
}

// Rename overwrites the title, refreshing UpdatedAt. No validation is done on
// the new title; callers truncate if desired.
func (s *ChatSession) Rename(title string, now time.Time) {
	s.Title = title
	s.UpdatedAt = now
}

// LastMessage returns the most recent message, or a zero Message and false
// when the session is empty.
func (s *ChatSession) LastMessage() (Message, bool) {
	if len(s.Messages) == 0 {
		return Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}

// FirstUserMessage returns the earliest user message, or false if none exists.
func (s *ChatSession) FirstUserMessage() (Message, bool) {
	for _, msg := range s.Messages {
		if msg.Role == RoleUser {
			return msg, true
		}
	}
	return Message{}, false
}

// MessageCount returns the number of messages.
func (s *ChatSession) MessageCount() int {
	return len(s.Messages)
}

// IsEmpty returns true if there are no messages.
func (s *ChatSession) IsEmpty() bool {
	return len(s.Messages) == 0
}

// Preview returns a short preview of the first user message for listings.
func (s *ChatSession) Preview(maxLen int) string {
	if msg, ok := s.FirstUserMessage(); ok {
		return msg.Preview(maxLen)
	}
	return ""
}

// Clone creates a deep copy of the session.
func (s *ChatSession) Clone() *ChatSession {
	clone := &ChatSession{
		ID:        s.ID,
		Title:     s.Title,
		UpdatedAt: s.UpdatedAt,
		Messages:  make([]Message, len(s.Messages)),
	}
	copy(clone.Messages, s.Messages)
	return clone
}

// =============================================================================
// TITLE DERIVATION
// =============================================================================

// DeriveTitle computes a session title from seed text: the first TitleMaxLen
// characters, with "..." appended only when the text is longer. Empty seed
// text yields DefaultTitle. Truncation is rune-based for Unicode safety.
func DeriveTitle(seed string) string {
	if seed == "" {
		return DefaultTitle
	}
	runes := []rune(seed)
	if len(runes) <= TitleMaxLen {
		return seed
	}
	return string(runes[:TitleMaxLen]) + "..."
}
