// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"
	"time"
)

// =============================================================================
// TITLE DERIVATION TESTS
// =============================================================================

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name string
		seed string
		want string
	}{
		{
			name: "empty seed uses default",
			seed: "",
			want: "New Chat",
		},
		{
			name: "short text verbatim",
			seed: "Hi there",
			want: "Hi there",
		},
		{
			name: "exactly 30 chars verbatim",
			seed: strings.Repeat("a", 30),
			want: strings.Repeat("a", 30),
		},
		{
			name: "31 chars truncated with ellipsis",
			seed: strings.Repeat("a", 31),
			want: strings.Repeat("a", 30) + "...",
		},
		{
			name: "long question",
			seed: "Hello there, how are you doing today?",
			want: "Hello there, how are you doing...",
		},
		{
			name: "unicode truncated at rune boundary",
			seed: strings.Repeat("日", 35),
			want: strings.Repeat("日", 30) + "...",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DeriveTitle(tc.seed); got != tc.want {
				t.Errorf("DeriveTitle(%q) = %q, want %q", tc.seed, got, tc.want)
			}
		})
	}
}

// =============================================================================
// SESSION TESTS
// =============================================================================

func TestNewChatSession_Seeded(t *testing.T) {
	now := time.Now()
	sess := NewChatSession([]Message{NewUserMessage("Hello there, how are you doing today?")}, now)

	if sess.ID == "" {
		t.Fatal("session should have a generated id")
	}
	if got, want := sess.Title, "Hello there, how are you doing..."; got != want {
		t.Errorf("Title = %q, want %q", got, want)
	}
	if sess.MessageCount() != 1 {
		t.Errorf("MessageCount = %d, want 1", sess.MessageCount())
	}
	if !sess.UpdatedAt.Equal(now) {
		t.Errorf("UpdatedAt = %v, want %v", sess.UpdatedAt, now)
	}
}

func TestNewChatSession_Empty(t *testing.T) {
	sess := NewChatSession(nil, time.Now())

	if sess.Title != DefaultTitle {
		t.Errorf("Title = %q, want %q", sess.Title, DefaultTitle)
	}
	if !sess.IsEmpty() {
		t.Error("session should be empty")
	}
}

func TestChatSession_AppendPreservesOrder(t *testing.T) {
	sess := NewChatSession(nil, time.Now())

	contents := []string{"one", "two", "three", "four"}
	for i, c := range contents {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		sess.Append(Message{Role: role, Content: c}, time.Now())
	}

	if sess.MessageCount() != len(contents) {
		t.Fatalf("MessageCount = %d, want %d", sess.MessageCount(), len(contents))
	}
	for i, c := range contents {
		if sess.Messages[i].Content != c {
			t.Errorf("Messages[%d].Content = %q, want %q", i, sess.Messages[i].Content, c)
		}
	}
}

func TestChatSession_FirstUserMessageSetsTitle(t *testing.T) {
	sess := NewChatSession(nil, time.Now())

	sess.Append(NewUserMessage("what is the airspeed of an unladen swallow"), time.Now())

	if got, want := sess.Title, "what is the airspeed of an unl..."; got != want {
		t.Errorf("Title = %q, want %q", got, want)
	}

	// Subsequent messages must not re-derive the title.
	sess.Append(NewAssistantMessage("African or European?"), time.Now())
	sess.Append(NewUserMessage("I don't know that"), time.Now())
	if got, want := sess.Title, "what is the airspeed of an unl..."; got != want {
		t.Errorf("Title after later appends = %q, want %q", got, want)
	}
}

func TestChatSession_FirstAssistantMessageKeepsTitle(t *testing.T) {
	sess := NewChatSession(nil, time.Now())
	sess.Append(NewAssistantMessage("Hello! How can I help?"), time.Now())

	if sess.Title != DefaultTitle {
		t.Errorf("Title = %q, want %q (assistant message must not derive title)", sess.Title, DefaultTitle)
	}
}

func TestChatSession_AppendRefreshesUpdatedAt(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	later := created.Add(time.Minute)

	sess := NewChatSession(nil, created)
	sess.Append(NewUserMessage("hi"), later)

	if !sess.UpdatedAt.Equal(later) {
		t.Errorf("UpdatedAt = %v, want %v", sess.UpdatedAt, later)
	}
}

func TestChatSession_Rename(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	later := created.Add(time.Hour)

	sess := NewChatSession(nil, created)
	sess.Rename("weekly standup notes", later)

	if sess.Title != "weekly standup notes" {
		t.Errorf("Title = %q, want %q", sess.Title, "weekly standup notes")
	}
	if !sess.UpdatedAt.Equal(later) {
		t.Errorf("UpdatedAt = %v, want %v", sess.UpdatedAt, later)
	}
}

func TestChatSession_Clone(t *testing.T) {
	sess := NewChatSession([]Message{NewUserMessage("original")}, time.Now())
	clone := sess.Clone()

	clone.Append(NewAssistantMessage("extra"), time.Now())

	if sess.MessageCount() != 1 {
		t.Errorf("mutating a clone changed the original: count = %d", sess.MessageCount())
	}
	if clone.ID != sess.ID {
		t.Errorf("clone id = %q, want %q", clone.ID, sess.ID)
	}
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestMessage_Preview(t *testing.T) {
	tests := []struct {
		name    string
		content string
		maxLen  int
		want    string
	}{
		{"short", "hello", 10, "hello"},
		{"newlines collapsed", "a\nb\r\nc", 10, "a b c"},
		{"truncated", strings.Repeat("x", 20), 10, strings.Repeat("x", 7) + "..."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg := NewUserMessage(tc.content)
			if got := msg.Preview(tc.maxLen); got != tc.want {
				t.Errorf("Preview(%d) = %q, want %q", tc.maxLen, got, tc.want)
			}
		})
	}
}

func TestRole_DisplayName(t *testing.T) {
	if RoleUser.DisplayName() != "You" {
		t.Errorf("RoleUser.DisplayName() = %q", RoleUser.DisplayName())
	}
	if RoleAssistant.DisplayName() != "Assistant" {
		t.Errorf("RoleAssistant.DisplayName() = %q", RoleAssistant.DisplayName())
	}
	if !RoleSystem.Valid() {
		t.Error("RoleSystem should be valid")
	}
	if Role("tool").Valid() {
		t.Error("unknown role should not be valid")
	}
}
