// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jeranaias/parley/internal/model"
)

// =============================================================================
// CREATE TESTS
// =============================================================================

func TestCreateSession_UniqueIDsNewestFirst(t *testing.T) {
	s := New()

	const n = 50
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		sess := s.CreateSession([]model.Message{
			model.NewUserMessage(fmt.Sprintf("question %d", i)),
		})
		ids = append(ids, sess.ID)
	}

	seen := make(map[string]bool, n)
	for _, id := range ids {
		if seen[id] {
			t.Fatalf("duplicate session id %q", id)
		}
		seen[id] = true
	}

	// Newest-created first: the last created id leads the list.
	sessions := s.Sessions()
	if len(sessions) != n {
		t.Fatalf("len(Sessions) = %d, want %d", len(sessions), n)
	}
	for i, sess := range sessions {
		if want := ids[n-1-i]; sess.ID != want {
			t.Errorf("Sessions[%d].ID = %q, want %q", i, sess.ID, want)
		}
	}
}

func TestCreateSession_BecomesCurrent(t *testing.T) {
	s := New()
	first := s.CreateSession(nil)
	if s.CurrentID() != first.ID {
		t.Errorf("CurrentID = %q, want %q", s.CurrentID(), first.ID)
	}

	second := s.CreateSession(nil)
	if s.CurrentID() != second.ID {
		t.Errorf("CurrentID = %q, want %q", s.CurrentID(), second.ID)
	}
}

func TestCreateSession_SeededTitle(t *testing.T) {
	s := New()
	sess := s.CreateSession([]model.Message{
		model.NewUserMessage("Hello there, how are you doing today?"),
	})

	if got, want := sess.Title, "Hello there, how are you doing..."; got != want {
		t.Errorf("Title = %q, want %q", got, want)
	}
	if sess.MessageCount() != 1 {
		t.Errorf("MessageCount = %d, want 1", sess.MessageCount())
	}
}

// =============================================================================
// APPEND TESTS
// =============================================================================

func TestAppendMessage_PreservesOrder(t *testing.T) {
	s := New()
	sess := s.CreateSession(nil)

	for i := 0; i < 10; i++ {
		role := model.RoleUser
		if i%2 == 1 {
			role = model.RoleAssistant
		}
		if err := s.AppendMessage(sess.ID, model.Message{Role: role, Content: fmt.Sprintf("m%d", i)}); err != nil {
			t.Fatalf("AppendMessage: %v", err)
		}
	}

	got := s.Session(sess.ID)
	if got.MessageCount() != 10 {
		t.Fatalf("MessageCount = %d, want 10", got.MessageCount())
	}
	for i, msg := range got.Messages {
		if want := fmt.Sprintf("m%d", i); msg.Content != want {
			t.Errorf("Messages[%d].Content = %q, want %q", i, msg.Content, want)
		}
	}
}

func TestAppendMessage_FirstUserMessageDerivesTitle(t *testing.T) {
	s := New()
	sess := s.CreateSession(nil)
	if got := s.Session(sess.ID).Title; got != model.DefaultTitle {
		t.Fatalf("initial Title = %q, want %q", got, model.DefaultTitle)
	}

	if err := s.AppendMessage(sess.ID, model.NewUserMessage("short question")); err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}
	if got := s.Session(sess.ID).Title; got != "short question" {
		t.Errorf("Title = %q, want %q (short text is verbatim, no ellipsis)", got, "short question")
	}
}

func TestAppendMessage_NotFound(t *testing.T) {
	s := New()
	s.CreateSession(nil)

	err := s.AppendMessage("no-such-id", model.NewUserMessage("hi"))
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}

	// Store state must be untouched.
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

// =============================================================================
// RENAME TESTS
// =============================================================================

func TestRenameSession(t *testing.T) {
	s := New()
	sess := s.CreateSession(nil)

	if err := s.RenameSession(sess.ID, "budget planning"); err != nil {
		t.Fatalf("RenameSession: %v", err)
	}
	if got := s.Session(sess.ID).Title; got != "budget planning" {
		t.Errorf("Title = %q, want %q", got, "budget planning")
	}

	if err := s.RenameSession("missing", "x"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("rename missing: err = %v, want ErrSessionNotFound", err)
	}
}

// =============================================================================
// DELETE TESTS
// =============================================================================

func TestDeleteSession_ActiveReassignsCurrent(t *testing.T) {
	s := New()
	a := s.CreateSession(nil)
	b := s.CreateSession(nil) // current, and first in list

	s.DeleteSession(b.ID)

	if s.CurrentID() != a.ID {
		t.Errorf("CurrentID = %q, want %q", s.CurrentID(), a.ID)
	}
	if s.Session(b.ID) != nil {
		t.Error("deleted session still present")
	}
}

func TestDeleteSession_LastClearsCurrent(t *testing.T) {
	s := New()
	only := s.CreateSession(nil)

	s.DeleteSession(only.ID)

	if s.CurrentID() != "" {
		t.Errorf("CurrentID = %q, want empty", s.CurrentID())
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}

func TestDeleteSession_NonActiveKeepsCurrent(t *testing.T) {
	s := New()
	a := s.CreateSession(nil)
	b := s.CreateSession(nil) // current

	s.DeleteSession(a.ID)

	if s.CurrentID() != b.ID {
		t.Errorf("CurrentID = %q, want %q", s.CurrentID(), b.ID)
	}
}

func TestDeleteSession_UnknownIDIsNoop(t *testing.T) {
	s := New()
	a := s.CreateSession(nil)
	b := s.CreateSession(nil)

	s.MarkClean()
	s.DeleteSession("no-such-id")

	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}
	if s.CurrentID() != b.ID {
		t.Errorf("CurrentID = %q, want %q", s.CurrentID(), b.ID)
	}
	if s.Session(a.ID) == nil {
		t.Error("existing session went missing")
	}
	if s.IsDirty() {
		t.Error("no-op delete should not dirty the store")
	}
}

// =============================================================================
// EPHEMERAL STATE TESTS
// =============================================================================

func TestEphemeralStateDoesNotDirty(t *testing.T) {
	s := New()
	s.CreateSession(nil)
	s.MarkClean()

	s.SetInput("draft text")
	s.SetLoading(true)

	if s.Input() != "draft text" {
		t.Errorf("Input = %q", s.Input())
	}
	if !s.IsLoading() {
		t.Error("IsLoading = false, want true")
	}
	if s.IsDirty() {
		t.Error("input/loading changes must not dirty the persisted subset")
	}
}

func TestToggleSidebarDirties(t *testing.T) {
	s := New()
	s.MarkClean()

	s.ToggleSidebar()
	if !s.IsSidebarCollapsed() {
		t.Error("sidebar should be collapsed after toggle")
	}
	if !s.IsDirty() {
		t.Error("sidebar toggle is part of the persisted subset")
	}
}

// =============================================================================
// SNAPSHOT / RESTORE TESTS
// =============================================================================

func TestSnapshotRestore_RoundTrip(t *testing.T) {
	s := New()
	a := s.CreateSession([]model.Message{model.NewUserMessage("first topic")})
	s.AppendMessage(a.ID, model.NewAssistantMessage("reply one"))
	b := s.CreateSession([]model.Message{model.NewUserMessage("second topic")})
	s.SetCurrentID(a.ID)

	snap := s.Snapshot()

	restored := New()
	restored.Restore(snap)

	if restored.CurrentID() != a.ID {
		t.Errorf("CurrentID = %q, want %q", restored.CurrentID(), a.ID)
	}
	got := restored.Sessions()
	if len(got) != 2 {
		t.Fatalf("len(Sessions) = %d, want 2", len(got))
	}
	if got[0].ID != b.ID || got[1].ID != a.ID {
		t.Errorf("session order not preserved: [%q %q]", got[0].ID, got[1].ID)
	}
	if got[1].MessageCount() != 2 {
		t.Errorf("restored message count = %d, want 2", got[1].MessageCount())
	}
	if got[1].Messages[1].Content != "reply one" {
		t.Errorf("restored message content = %q", got[1].Messages[1].Content)
	}
	if restored.IsDirty() {
		t.Error("freshly restored store should be clean")
	}
}

func TestRestore_PreservesNullCurrent(t *testing.T) {
	s := New()
	s.CreateSession([]model.Message{model.NewUserMessage("orphaned topic")})
	s.SetCurrentID("")

	restored := New()
	restored.Restore(s.Snapshot())

	// An empty pointer with sessions present is a valid state, not a
	// dangling reference; the round trip must keep it empty.
	if got := restored.CurrentID(); got != "" {
		t.Errorf("CurrentID = %q, want empty", got)
	}
	if restored.Len() != 1 {
		t.Errorf("Len = %d, want 1", restored.Len())
	}
}

func TestRestore_RepairsDanglingCurrent(t *testing.T) {
	s := New()
	sess := s.CreateSession(nil)
	snap := s.Snapshot()
	snap.CurrentChatID = "dangling"

	restored := New()
	restored.Restore(snap)

	if restored.CurrentID() != sess.ID {
		t.Errorf("CurrentID = %q, want repaired to %q", restored.CurrentID(), sess.ID)
	}
}

func TestMarkCleanIf_StaleVersionStaysDirty(t *testing.T) {
	s := New()
	s.CreateSession(nil)
	stale := s.Snapshot()

	s.CreateSession(nil)

	s.MarkCleanIf(stale.Version)
	if !s.IsDirty() {
		t.Error("a mutation after the snapshot must keep the store dirty")
	}

	s.MarkCleanIf(s.Snapshot().Version)
	if s.IsDirty() {
		t.Error("the current version should mark the store clean")
	}
}

func TestSnapshot_IsDeepCopy(t *testing.T) {
	s := New()
	sess := s.CreateSession([]model.Message{model.NewUserMessage("original")})

	snap := s.Snapshot()
	snap.Sessions[0].Messages[0] = model.NewUserMessage("mutated")

	if got := s.Session(sess.ID).Messages[0].Content; got != "original" {
		t.Errorf("snapshot mutation leaked into store: %q", got)
	}
}
